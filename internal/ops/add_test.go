package ops

import (
	"context"
	"testing"

	"github.com/hpungsan/hexmark/internal/docs"
	"github.com/hpungsan/hexmark/internal/errors"
)

func TestAdd_HappyPath(t *testing.T) {
	te := newTestEnv(t)

	out, err := Add(context.Background(), te.Env, AddInput{Name: "header", FilePath: "/data/a.bin", Offset: 512})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if out.Index != 0 || out.Overwritten {
		t.Errorf("Add = %+v, want index 0, not overwritten", out)
	}

	rows := te.rows.Rows()
	if len(rows) != 1 || !rows[0].Selected {
		t.Errorf("rows = %+v, want one selected row", rows)
	}
}

func TestAdd_CollisionModeError(t *testing.T) {
	te := newTestEnv(t)
	first := mustAdd(t, te.Env, "header", "/data/a.bin", 1)

	_, err := Add(context.Background(), te.Env, AddInput{Name: "header", FilePath: "/data/b.bin", Offset: 2})
	if !errors.Is(err, errors.ErrNameAlreadyExists) {
		t.Fatalf("Add error = %v, want NAME_ALREADY_EXISTS", err)
	}
	he := err.(*errors.HexmarkError)
	if he.Details["index"] != first {
		t.Errorf("Details[index] = %v, want %d", he.Details["index"], first)
	}

	b, _ := te.reg.LookupByIndex(first)
	if b.FilePath != "/data/a.bin" {
		t.Errorf("FilePath = %q, rejected add must not mutate", b.FilePath)
	}
}

func TestAdd_ReplaceKeepsIndex(t *testing.T) {
	te := newTestEnv(t)
	first := mustAdd(t, te.Env, "header", "/data/a.bin", 1)
	mustAdd(t, te.Env, "other", "/data/a.bin", 5)

	out, err := Add(context.Background(), te.Env, AddInput{Name: "header", FilePath: "/data/b.bin", Offset: 2, Mode: AddModeReplace})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if out.Index != first || !out.Overwritten {
		t.Errorf("Add = %+v, want index %d overwritten", out, first)
	}
	if te.reg.Count() != 2 {
		t.Errorf("Count = %d, want 2", te.reg.Count())
	}
	b, _ := te.reg.LookupByIndex(first)
	if b.FilePath != "/data/b.bin" || b.Offset != 2 {
		t.Errorf("bookmark = %+v", b)
	}
}

func TestAdd_InvalidInput(t *testing.T) {
	te := newTestEnv(t)

	tests := []struct {
		name  string
		input AddInput
		code  errors.ErrorCode
	}{
		{"reserved prefix", AddInput{Name: "_internal", FilePath: "/a"}, errors.ErrInvalidName},
		{"empty name", AddInput{Name: "", FilePath: "/a"}, errors.ErrInvalidName},
		{"separator", AddInput{Name: "a|b", FilePath: "/a"}, errors.ErrIllegalCharacter},
		{"negative offset", AddInput{Name: "a", FilePath: "/a", Offset: -1}, errors.ErrInvalidRequest},
		{"missing path", AddInput{Name: "a"}, errors.ErrInvalidRequest},
		{"relative path", AddInput{Name: "a", FilePath: "rel/a.bin"}, errors.ErrInvalidRequest},
		{"bad mode", AddInput{Name: "a", FilePath: "/a", Mode: "merge"}, errors.ErrInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Add(context.Background(), te.Env, tt.input)
			if !errors.Is(err, tt.code) {
				t.Errorf("Add error = %v, want %s", err, tt.code)
			}
		})
	}

	if te.reg.Len() != 0 {
		t.Errorf("Len = %d, rejected adds must not mutate", te.reg.Len())
	}
}

func TestAdd_TracksOpenDocument(t *testing.T) {
	table := docs.NewTable()
	doc := table.Open("/data/open.bin", 100)
	te := newTestEnv(t, WithDocuments(table))

	index := mustAdd(t, te.Env, "mark", "/data/open.bin", 40)

	if off, ok := doc.BookmarkOffset(index); !ok || off != 40 {
		t.Fatalf("BookmarkOffset = %d, %v; want 40, true", off, ok)
	}

	// Edits move the bookmark and the row shows the live position.
	doc.Insert(0, 10)
	out, err := List(context.Background(), te.Env, ListInput{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if out.Rows[0].Offset != 50 {
		t.Errorf("row offset = %d, want live position 50", out.Rows[0].Offset)
	}
}
