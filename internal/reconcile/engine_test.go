package reconcile

import (
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpungsan/hexmark/internal/bookmark"
	"github.com/hpungsan/hexmark/internal/docs"
	"github.com/hpungsan/hexmark/internal/fsys"
)

// fakeFS is an in-memory filesystem oracle.
type fakeFS struct {
	files      map[string]int64
	statErrors map[string]error
	drives     map[string]fsys.DriveKind
	statCalls  int
}

func newFakeFS() *fakeFS {
	return &fakeFS{
		files:      map[string]int64{},
		statErrors: map[string]error{},
		drives:     map[string]fsys.DriveKind{},
	}
}

func (f *fakeFS) Exists(path string) bool {
	_, ok := f.files[path]
	return ok
}

func (f *fakeFS) Stat(path string) (fsys.FileInfo, error) {
	f.statCalls++
	if err, ok := f.statErrors[path]; ok {
		return fsys.FileInfo{}, err
	}
	n, ok := f.files[path]
	if !ok {
		return fsys.FileInfo{}, fmt.Errorf("not found")
	}
	return fsys.FileInfo{Length: n}, nil
}

func (f *fakeFS) ClassifyDrive(path string) fsys.DriveKind {
	if k, ok := f.drives[path]; ok {
		return k
	}
	return fsys.DriveFixed
}

func quietEngine(fs fsys.FileSystem, d docs.Documents) *Engine {
	return New(fs, d, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRun_ClampsPastEOF(t *testing.T) {
	fs := newFakeFS()
	fs.files[`C:\data.bin`] = 4000

	reg := bookmark.NewRegistry()
	idx, err := reg.Upsert("tail", `C:\data.bin`, 5000, nil)
	require.NoError(t, err)

	report := quietEngine(fs, nil).Run(reg, Policy{RetainRemovable: true})

	assert.Equal(t, 1, report.Clamped)
	assert.Equal(t, 0, report.Deleted)
	require.Len(t, report.Verdicts, 1)
	assert.Equal(t, Clamped, report.Verdicts[0].Outcome)
	assert.Equal(t, int64(4000), report.Verdicts[0].NewOffset)

	b, err := reg.LookupByIndex(idx)
	require.NoError(t, err)
	assert.Equal(t, int64(4000), b.Offset)
}

func TestRun_OffsetAtEOFIsKept(t *testing.T) {
	fs := newFakeFS()
	fs.files["/f"] = 4000

	reg := bookmark.NewRegistry()
	_, _ = reg.Upsert("end", "/f", 4000, nil)

	report := quietEngine(fs, nil).Run(reg, Policy{})
	assert.False(t, report.Changed())
	assert.Equal(t, ReasonWithinBounds, report.Verdicts[0].Reason)
}

func TestRun_MissingOnFixedDriveIsDeleted(t *testing.T) {
	for _, retain := range []bool{true, false} {
		t.Run(fmt.Sprintf("retain=%v", retain), func(t *testing.T) {
			fs := newFakeFS()
			fs.drives[`C:\gone.bin`] = fsys.DriveFixed

			reg := bookmark.NewRegistry()
			idx, _ := reg.Upsert("gone", `C:\gone.bin`, 1, nil)

			report := quietEngine(fs, nil).Run(reg, Policy{RetainRemovable: retain})

			assert.Equal(t, 1, report.Deleted)
			assert.Equal(t, ReasonFileNotFound, report.Verdicts[0].Reason)
			_, err := reg.LookupByIndex(idx)
			assert.Error(t, err)
			assert.Equal(t, 0, reg.Count())
		})
	}
}

func TestRun_MissingOnRemovableDrive(t *testing.T) {
	tests := []struct {
		name        string
		kind        fsys.DriveKind
		retain      bool
		wantDeleted int
	}{
		{"removable retained", fsys.DriveRemovable, true, 0},
		{"network retained", fsys.DriveNetwork, true, 0},
		{"unknown retained", fsys.DriveUnknown, true, 0},
		{"removable dropped", fsys.DriveRemovable, false, 1},
		{"network dropped", fsys.DriveNetwork, false, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := newFakeFS()
			fs.drives[`E:\usb.bin`] = tt.kind

			reg := bookmark.NewRegistry()
			_, _ = reg.Upsert("usb", `E:\usb.bin`, 10, nil)

			report := quietEngine(fs, nil).Run(reg, Policy{RetainRemovable: tt.retain})

			assert.Equal(t, tt.wantDeleted, report.Deleted)
			assert.Equal(t, 1-tt.wantDeleted, reg.Count())
			if tt.wantDeleted == 0 {
				assert.Equal(t, 1, report.Retained)
				assert.Equal(t, Unchanged, report.Verdicts[0].Outcome)
				assert.Equal(t, ReasonRetainedRemovable, report.Verdicts[0].Reason)
			}
		})
	}
}

func TestRun_StatFailureTreatedAsMissing(t *testing.T) {
	fs := newFakeFS()
	fs.files["/locked.bin"] = 10
	fs.statErrors["/locked.bin"] = fmt.Errorf("permission denied")

	reg := bookmark.NewRegistry()
	_, _ = reg.Upsert("locked", "/locked.bin", 5, nil)

	report := quietEngine(fs, nil).Run(reg, Policy{RetainRemovable: true})

	assert.Equal(t, 1, report.Deleted)
	assert.Equal(t, Deleted, report.Verdicts[0].Outcome)
	assert.Equal(t, ReasonStatFailure, report.Verdicts[0].Reason)
}

func TestRun_OpenDocumentSkipped(t *testing.T) {
	fs := newFakeFS() // file is missing on disk
	table := docs.NewTable()
	table.Open("/open.bin", 10)

	reg := bookmark.NewRegistry()
	_, _ = reg.Upsert("live", "/open.bin", 5000, nil)

	report := quietEngine(fs, table).Run(reg, Policy{})

	assert.False(t, report.Changed())
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, ReasonDocumentOpen, report.Verdicts[0].Reason)
	assert.Equal(t, 0, fs.statCalls)
	assert.Equal(t, 1, reg.Count())
}

func TestRun_InternalBookmarksIgnored(t *testing.T) {
	fs := newFakeFS()
	reg := bookmark.NewRegistry()
	idx, _ := reg.Upsert("_cursor", "/gone", 9, nil)

	report := quietEngine(fs, nil).Run(reg, Policy{})

	assert.Equal(t, 0, report.Checked)
	_, err := reg.LookupByIndex(idx)
	assert.NoError(t, err)
}

func TestRun_IdempotentAndNeverIncreases(t *testing.T) {
	fs := newFakeFS()
	fs.files["/a"] = 100
	fs.files["/b"] = 0
	fs.drives["/usb/c"] = fsys.DriveRemovable

	reg := bookmark.NewRegistry()
	_, _ = reg.Upsert("a1", "/a", 50, nil)
	_, _ = reg.Upsert("a2", "/a", 150, nil)
	_, _ = reg.Upsert("b", "/b", 3, nil)
	_, _ = reg.Upsert("c", "/usb/c", 7, nil)
	_, _ = reg.Upsert("d", "/missing", 7, nil)

	before := map[int]int64{}
	for _, e := range reg.EnumerateLive() {
		before[e.Index] = e.Offset
	}

	engine := quietEngine(fs, nil)
	first := engine.Run(reg, Policy{RetainRemovable: true})
	assert.Equal(t, 2, first.Clamped)
	assert.Equal(t, 1, first.Deleted)
	assert.Equal(t, 1, first.Retained)

	for _, e := range reg.EnumerateLive() {
		assert.LessOrEqual(t, e.Offset, before[e.Index])
	}

	second := engine.Run(reg, Policy{RetainRemovable: true})
	assert.Equal(t, 0, second.Clamped)
	assert.Equal(t, 0, second.Deleted)
	assert.Equal(t, 4, second.Checked)
}

func TestNew_Defaults(t *testing.T) {
	e := New(fsys.OS{}, nil, nil)
	assert.NotNil(t, e.Logger)
	_, open := e.Docs.IsOpen("/x")
	assert.False(t, open)
}
