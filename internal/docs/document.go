package docs

import "sync"

// OpenDocument is a document in a Table. Bookmark positions tracked here
// follow inserts and deletes so they stay on the same byte.
type OpenDocument struct {
	mu     sync.Mutex
	path   string
	length int64
	marks  map[int]int64
}

// Path returns the path the document was opened with.
func (d *OpenDocument) Path() string {
	return d.path
}

// LiveLength implements Document.
func (d *OpenDocument) LiveLength() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.length
}

// BookmarkOffset implements Document.
func (d *OpenDocument) BookmarkOffset(index int) (int64, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	off, ok := d.marks[index]
	return off, ok
}

// TrackBookmark starts tracking bookmark index at offset, clamped to the
// document length.
func (d *OpenDocument) TrackBookmark(index int, offset int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.marks[index] = min(max(offset, 0), d.length)
}

// Forget stops tracking bookmark index.
func (d *OpenDocument) Forget(index int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.marks, index)
}

// Tracked returns the indices of all tracked bookmarks.
func (d *OpenDocument) Tracked() []int {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]int, 0, len(d.marks))
	for i := range d.marks {
		out = append(out, i)
	}
	return out
}

// Insert records n bytes inserted at pos. Marks at or after pos move right.
func (d *OpenDocument) Insert(pos, n int64) {
	if n <= 0 {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	pos = min(max(pos, 0), d.length)
	d.length += n
	for i, off := range d.marks {
		if off >= pos {
			d.marks[i] = off + n
		}
	}
}

// Delete records n bytes removed at pos. Marks inside the removed range
// collapse onto pos; marks after it move left.
func (d *OpenDocument) Delete(pos, n int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	pos = min(max(pos, 0), d.length)
	n = min(n, d.length-pos)
	if n <= 0 {
		return
	}
	d.length -= n
	for i, off := range d.marks {
		switch {
		case off >= pos+n:
			d.marks[i] = off - n
		case off > pos:
			d.marks[i] = pos
		}
	}
}
