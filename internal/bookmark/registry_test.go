package bookmark

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpungsan/hexmark/internal/errors"
)

// fakeClock returns a clock that advances one second per call.
func fakeClock(start int64) func() time.Time {
	t := start
	return func() time.Time {
		t++
		return time.Unix(t, 0)
	}
}

type recordingTracker struct {
	index  int
	offset int64
	calls  int
}

func (r *recordingTracker) TrackBookmark(index int, offset int64) {
	r.index = index
	r.offset = offset
	r.calls++
}

func TestUpsert_ThenLookup(t *testing.T) {
	r := NewRegistry(WithClock(fakeClock(1000)))

	idx, err := r.Upsert("alpha", "/data/a.bin", 100, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, idx)

	got, err := r.LookupByName("alpha")
	require.NoError(t, err)
	assert.Equal(t, idx, got)

	b, err := r.LookupByIndex(idx)
	require.NoError(t, err)
	assert.Equal(t, "alpha", b.Name)
	assert.Equal(t, "/data/a.bin", b.FilePath)
	assert.Equal(t, int64(100), b.Offset)
	assert.Equal(t, int64(1001), b.ModifiedAt)
	assert.Equal(t, b.ModifiedAt, b.AccessedAt)
}

func TestUpsert_OverwriteKeepsIndex(t *testing.T) {
	r := NewRegistry(WithClock(fakeClock(1000)))

	first, err := r.Upsert("alpha", "/data/a.bin", 100, nil)
	require.NoError(t, err)
	_, err = r.Upsert("beta", "/data/b.bin", 5, nil)
	require.NoError(t, err)
	countBefore := r.Count()

	second, err := r.Upsert("alpha", "/data/c.bin", 7, nil)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, countBefore, r.Count())
	assert.Equal(t, 2, r.Len())

	b, err := r.LookupByIndex(first)
	require.NoError(t, err)
	assert.Equal(t, "/data/c.bin", b.FilePath)
	assert.Equal(t, int64(7), b.Offset)
	assert.Equal(t, int64(1003), b.ModifiedAt)
}

func TestUpsert_RejectsBadInput(t *testing.T) {
	tests := []struct {
		name   string
		bmName string
		offset int64
		code   errors.ErrorCode
	}{
		{"empty name", "", 0, errors.ErrInvalidName},
		{"separator", "a|b", 0, errors.ErrIllegalCharacter},
		{"negative offset", "ok", -1, errors.ErrInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			_, err := r.Upsert(tt.bmName, "/f", tt.offset, nil)
			assert.True(t, errors.Is(err, tt.code), "got %v", err)
			assert.Equal(t, 0, r.Len(), "rejected upsert must not mutate")
		})
	}
}

func TestUpsert_NotifiesTracker(t *testing.T) {
	r := NewRegistry()
	tr := &recordingTracker{}

	idx, err := r.Upsert("alpha", "/f", 42, tr)
	require.NoError(t, err)

	assert.Equal(t, 1, tr.calls)
	assert.Equal(t, idx, tr.index)
	assert.Equal(t, int64(42), tr.offset)
}

func TestRemove(t *testing.T) {
	r := NewRegistry()
	a, _ := r.Upsert("alpha", "/f", 1, nil)
	b, _ := r.Upsert("beta", "/f", 2, nil)
	before := r.Count()

	require.NoError(t, r.Remove(a))

	_, err := r.LookupByIndex(a)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
	_, err = r.LookupByName("alpha")
	assert.True(t, errors.Is(err, errors.ErrNotFound))
	assert.Equal(t, before-1, r.Count())

	for _, e := range r.EnumerateLive() {
		assert.NotEqual(t, a, e.Index)
	}

	// Other indices are untouched and the slot is not reused.
	bm, err := r.LookupByIndex(b)
	require.NoError(t, err)
	assert.Equal(t, "beta", bm.Name)

	c, _ := r.Upsert("alpha", "/f", 3, nil)
	assert.Equal(t, 2, c)
	assert.Equal(t, 3, r.Len())
}

func TestRemove_Missing(t *testing.T) {
	r := NewRegistry()
	a, _ := r.Upsert("alpha", "/f", 1, nil)
	require.NoError(t, r.Remove(a))

	assert.True(t, errors.Is(r.Remove(a), errors.ErrNotFound))
	assert.True(t, errors.Is(r.Remove(99), errors.ErrNotFound))
	assert.True(t, errors.Is(r.Remove(-1), errors.ErrNotFound))
}

func TestInternalBookmarks(t *testing.T) {
	r := NewRegistry()
	_, err := r.Upsert("visible", "/f", 1, nil)
	require.NoError(t, err)
	idx, err := r.Upsert("_internal", "/f", 2, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, r.Count())
	live := r.EnumerateLive()
	require.Len(t, live, 1)
	assert.Equal(t, "visible", live[0].Name)

	b, err := r.LookupByIndex(idx)
	require.NoError(t, err)
	assert.Equal(t, "_internal", b.Name)
	assert.True(t, b.IsInternal())
}

func TestEnumerateLive_InsertionOrder(t *testing.T) {
	r := NewRegistry()
	for _, n := range []string{"c", "a", "b"} {
		_, err := r.Upsert(n, "/f", 0, nil)
		require.NoError(t, err)
	}
	require.NoError(t, r.Remove(1))

	live := r.EnumerateLive()
	require.Len(t, live, 2)
	assert.Equal(t, 0, live[0].Index)
	assert.Equal(t, "c", live[0].Name)
	assert.Equal(t, 2, live[1].Index)
	assert.Equal(t, "b", live[1].Name)
}

func TestClamp(t *testing.T) {
	r := NewRegistry(WithClock(fakeClock(0)))
	idx, _ := r.Upsert("alpha", "/f", 5000, nil)

	changed, err := r.Clamp(idx, 6000)
	require.NoError(t, err)
	assert.False(t, changed, "clamp must never raise an offset")

	changed, err = r.Clamp(idx, 4000)
	require.NoError(t, err)
	assert.True(t, changed)

	b, _ := r.LookupByIndex(idx)
	assert.Equal(t, int64(4000), b.Offset)
	assert.Greater(t, b.ModifiedAt, b.AccessedAt)

	_, err = r.Clamp(idx, -5)
	assert.True(t, errors.Is(err, errors.ErrInvalidRequest))
}

func TestTouch(t *testing.T) {
	r := NewRegistry(WithClock(fakeClock(0)))
	idx, _ := r.Upsert("alpha", "/f", 1, nil)

	require.NoError(t, r.Touch(idx))

	b, _ := r.LookupByIndex(idx)
	assert.Greater(t, b.AccessedAt, b.ModifiedAt)
	assert.True(t, errors.Is(r.Touch(10), errors.ErrNotFound))
}

func TestRestore(t *testing.T) {
	r := NewRegistry()
	err := r.Restore([]Slot{
		{Bookmark: Bookmark{Name: "a", FilePath: "/f", Offset: 1}},
		{DeletedAt: 50},
		{Bookmark: Bookmark{Name: "b", FilePath: "/g", Offset: 2}},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, r.Len())
	assert.Equal(t, 2, r.Count())
	idx, err := r.LookupByName("b")
	require.NoError(t, err)
	assert.Equal(t, 2, idx)

	next, _ := r.Upsert("c", "/h", 0, nil)
	assert.Equal(t, 3, next)
}

func TestRestore_RejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	err := r.Restore([]Slot{
		{Bookmark: Bookmark{Name: "a"}},
		{Bookmark: Bookmark{Name: "a"}},
	})
	assert.Error(t, err)
	assert.Equal(t, 0, r.Len())
}

func TestValidateUserName(t *testing.T) {
	assert.True(t, errors.Is(ValidateUserName("_x"), errors.ErrInvalidName))
	assert.True(t, errors.Is(ValidateUserName(""), errors.ErrInvalidName))
	assert.True(t, errors.Is(ValidateUserName("a|b"), errors.ErrIllegalCharacter))
	assert.NoError(t, ValidateUserName("header start"))
	assert.NoError(t, ValidateName("_x"))
}

func TestValidateName_LineBreakingNames(t *testing.T) {
	for _, name := range []string{"#1 header", "#", "two\nlines", "cr\r", "tab\there", "nul\x00", "del\x7f"} {
		err := ValidateName(name)
		assert.True(t, errors.Is(err, errors.ErrIllegalCharacter), "ValidateName(%q) = %v", name, err)
	}
	for _, name := range []string{"1 # header", "a#b", "über", "with space"} {
		assert.NoError(t, ValidateName(name), name)
	}
}

func TestUpsert_RejectsLineBreakingNames(t *testing.T) {
	r := NewRegistry(WithClock(fakeClock(1000)))

	_, err := r.Upsert("two\nlines", "/f", 1, nil)
	require.Error(t, err)
	var hErr *errors.HexmarkError
	require.ErrorAs(t, err, &hErr)
	assert.Equal(t, errors.ErrIllegalCharacter, hErr.Code)
	assert.Equal(t, "\n", hErr.Details["character"])

	_, err = r.Upsert("#1 header", "/f", 1, nil)
	assert.True(t, errors.Is(err, errors.ErrIllegalCharacter))
	assert.Equal(t, 0, r.Len())
}

func TestPut_KeepsTimestamps(t *testing.T) {
	r := NewRegistry(WithClock(fakeClock(1000)))
	first, _ := r.Upsert("alpha", "/f", 1, nil)

	idx, err := r.Put(Bookmark{Name: "alpha", FilePath: "/g", Offset: 9, ModifiedAt: 5, AccessedAt: 6})
	require.NoError(t, err)
	assert.Equal(t, first, idx)

	b, _ := r.LookupByIndex(idx)
	assert.Equal(t, int64(5), b.ModifiedAt)
	assert.Equal(t, int64(6), b.AccessedAt)
	assert.Equal(t, "/g", b.FilePath)

	idx, err = r.Put(Bookmark{Name: "beta", FilePath: "/h"})
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	_, err = r.Put(Bookmark{Name: "bad|name"})
	assert.True(t, errors.Is(err, errors.ErrIllegalCharacter))
}
