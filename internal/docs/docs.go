// Package docs tracks files that are open in the editor. An open document is
// authoritative for its own length and for the live position of bookmarks
// placed in it.
package docs

import (
	"path/filepath"
	"runtime"
	"strings"
	"sync"
)

// Document is a live, open file.
type Document interface {
	// LiveLength is the in-memory length, which may differ from disk.
	LiveLength() int64
	// BookmarkOffset is the current position of bookmark index in this
	// document, if the document tracks it.
	BookmarkOffset(index int) (int64, bool)
}

// Documents is the open-document oracle.
type Documents interface {
	IsOpen(path string) (Document, bool)
}

// None is a Documents with nothing open, used by the CLI.
type None struct{}

// IsOpen always reports false.
func (None) IsOpen(string) (Document, bool) {
	return nil, false
}

// Table is an in-memory set of open documents keyed by cleaned path.
type Table struct {
	mu   sync.Mutex
	docs map[string]*OpenDocument
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{docs: make(map[string]*OpenDocument)}
}

// Open registers path as open with the given length and returns its document.
// Opening an already open path returns the existing document.
func (t *Table) Open(path string, length int64) *OpenDocument {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := pathKey(path)
	if d, ok := t.docs[key]; ok {
		return d
	}
	d := &OpenDocument{path: path, length: length, marks: make(map[int]int64)}
	t.docs[key] = d
	return d
}

// Close forgets path.
func (t *Table) Close(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.docs, pathKey(path))
}

// IsOpen implements Documents.
func (t *Table) IsOpen(path string) (Document, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	d, ok := t.docs[pathKey(path)]
	if !ok {
		return nil, false
	}
	return d, true
}

// Lookup returns the concrete document for path.
func (t *Table) Lookup(path string) (*OpenDocument, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	d, ok := t.docs[pathKey(path)]
	return d, ok
}

// pathKey normalizes a path for lookup. Windows paths are case-insensitive.
func pathKey(path string) string {
	p := filepath.Clean(path)
	if runtime.GOOS == "windows" {
		p = strings.ToLower(p)
	}
	return p
}
