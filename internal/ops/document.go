package ops

import (
	"context"
	"fmt"

	"github.com/hpungsan/hexmark/internal/docs"
	"github.com/hpungsan/hexmark/internal/errors"
)

// EditKind is the kind of change made to an open document.
type EditKind string

const (
	EditInsert EditKind = "insert"
	EditDelete EditKind = "delete"
)

// DocumentInput names an open or about-to-open document.
type DocumentInput struct {
	FilePath string // required, absolute
}

// EditInput describes one edit of an open document.
type EditInput struct {
	FilePath string
	Kind     EditKind
	Pos      int64
	Length   int64
}

// DocumentOutput describes an open document after an operation.
type DocumentOutput struct {
	FilePath string `json:"file_path"`
	Length   int64  `json:"length"`
	Tracked  int    `json:"tracked"`
}

// CloseOutput reports the bookmark positions written back on close.
type CloseOutput struct {
	FilePath string `json:"file_path"`
	Saved    int    `json:"saved"`
}

// documentTable returns the env's open-document table. Envs built with
// docs.None have nothing to open documents in.
func (e *Env) documentTable() (*docs.Table, error) {
	t, ok := e.docs.(*docs.Table)
	if !ok {
		return nil, errors.NewInvalidRequest("document tracking is not enabled")
	}
	return t, nil
}

// OpenDocument opens a file as a live document with its on-disk length and
// starts following every live bookmark, internal ones included, that points
// into it. While open, the
// document is authoritative: validation skips its bookmarks and lists show
// their live positions.
func OpenDocument(ctx context.Context, env *Env, input DocumentInput) (*DocumentOutput, error) {
	path, err := cleanFilePath(input.FilePath)
	if err != nil {
		return nil, err
	}
	table, err := env.documentTable()
	if err != nil {
		return nil, err
	}

	env.mu.Lock()
	defer env.mu.Unlock()
	if err := env.load(ctx); err != nil {
		return nil, err
	}

	if _, open := table.Lookup(path); open {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("document %s is already open", path))
	}
	info, err := env.fs.Stat(path)
	if err != nil {
		return nil, errors.NewFileNotFound(path)
	}

	doc := table.Open(path, info.Length)
	for i, s := range env.reg.Slots() {
		if s.Deleted() {
			continue
		}
		if d, ok := table.Lookup(s.FilePath); ok && d == doc {
			doc.TrackBookmark(i, s.Offset)
		}
	}
	env.rows.FullRefresh()

	tracked := len(doc.Tracked())
	env.logger.Debug("document opened", "file", path, "length", info.Length, "tracked", tracked)
	return &DocumentOutput{FilePath: path, Length: doc.LiveLength(), Tracked: tracked}, nil
}

// EditDocument applies an insert or delete to an open document, sliding the
// bookmarks it follows.
func EditDocument(ctx context.Context, env *Env, input EditInput) (*DocumentOutput, error) {
	if input.Kind != EditInsert && input.Kind != EditDelete {
		return nil, errors.NewInvalidRequest("kind must be one of: insert, delete")
	}
	if input.Pos < 0 || input.Length < 0 {
		return nil, errors.NewInvalidRequest("pos and length must not be negative")
	}
	doc, err := lookupDocument(env, input.FilePath)
	if err != nil {
		return nil, err
	}

	env.mu.Lock()
	defer env.mu.Unlock()
	if err := env.load(ctx); err != nil {
		return nil, err
	}

	if input.Kind == EditInsert {
		doc.Insert(input.Pos, input.Length)
	} else {
		doc.Delete(input.Pos, input.Length)
	}
	env.rows.FullRefresh()

	return &DocumentOutput{FilePath: doc.Path(), Length: doc.LiveLength(), Tracked: len(doc.Tracked())}, nil
}

// CloseDocument saves the live position of every bookmark the document
// follows and closes it. Bookmarks removed or retargeted while it was open
// are left alone.
func CloseDocument(ctx context.Context, env *Env, input DocumentInput) (*CloseOutput, error) {
	doc, err := lookupDocument(env, input.FilePath)
	if err != nil {
		return nil, err
	}
	table, _ := env.documentTable()

	env.mu.Lock()
	defer env.mu.Unlock()
	if err := env.load(ctx); err != nil {
		return nil, err
	}

	saved := 0
	now := env.now().Unix()
	for _, index := range doc.Tracked() {
		off, _ := doc.BookmarkOffset(index)
		b, err := env.reg.LookupByIndex(index)
		if err != nil {
			continue
		}
		if d, ok := table.Lookup(b.FilePath); !ok || d != doc || b.Offset == off {
			continue
		}
		b.Offset = off
		b.ModifiedAt = now
		if _, err := env.reg.Put(b); err != nil {
			return nil, err
		}
		saved++
	}

	if saved > 0 {
		if err := env.flush(ctx); err != nil {
			return nil, err
		}
	}
	table.Close(doc.Path())
	env.rows.FullRefresh()

	env.logger.Info("document closed", "file", doc.Path(), "saved", saved)
	return &CloseOutput{FilePath: doc.Path(), Saved: saved}, nil
}

func lookupDocument(env *Env, filePath string) (*docs.OpenDocument, error) {
	path, err := cleanFilePath(filePath)
	if err != nil {
		return nil, err
	}
	table, err := env.documentTable()
	if err != nil {
		return nil, err
	}
	doc, ok := table.Lookup(path)
	if !ok {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("document %s is not open", path))
	}
	return doc, nil
}
