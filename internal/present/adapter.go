// Package present keeps an ordered row projection of the live bookmarks for a
// table-like display and updates it row by row as bookmarks change.
package present

import (
	"cmp"
	"slices"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/hpungsan/hexmark/internal/bookmark"
	"github.com/hpungsan/hexmark/internal/docs"
)

// DefaultTimeFormat is the layout used for timestamp cells.
const DefaultTimeFormat = "2006-01-02 15:04:05"

// Row is the display projection of one bookmark. Index is the row key.
type Row struct {
	Index        int    `json:"index"`
	Name         string `json:"name"`
	File         string `json:"file"`
	Folder       string `json:"folder"`
	Offset       int64  `json:"offset"`
	OffsetText   string `json:"offset_text"`
	Modified     int64  `json:"modified"`
	ModifiedText string `json:"modified_text"`
	Accessed     int64  `json:"accessed"`
	AccessedText string `json:"accessed_text"`
	Selected     bool   `json:"selected,omitempty"`
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithTimeFormat sets the layout for timestamp cells.
func WithTimeFormat(layout string) Option {
	return func(a *Adapter) {
		if layout != "" {
			a.timeFormat = layout
		}
	}
}

// WithLocation sets the zone timestamps are shown in.
func WithLocation(loc *time.Location) Option {
	return func(a *Adapter) {
		if loc != nil {
			a.loc = loc
		}
	}
}

// Adapter projects a registry into rows.
type Adapter struct {
	reg        *bookmark.Registry
	docs       docs.Documents
	timeFormat string
	loc        *time.Location

	rows    []Row
	sortCol Column
	sortAsc bool
	sorted  bool
}

// NewAdapter creates an adapter over reg. d supplies live positions for
// bookmarks in open documents; nil means nothing is open.
func NewAdapter(reg *bookmark.Registry, d docs.Documents, opts ...Option) *Adapter {
	if d == nil {
		d = docs.None{}
	}
	a := &Adapter{
		reg:        reg,
		docs:       d,
		timeFormat: DefaultTimeFormat,
		loc:        time.Local,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// FullRefresh rebuilds every row from the registry in enumeration order, then
// re-applies the active sort. Selection flags are kept for rows that survive.
func (a *Adapter) FullRefresh() []Row {
	selected := make(map[int]bool)
	for _, r := range a.rows {
		if r.Selected {
			selected[r.Index] = true
		}
	}

	live := a.reg.EnumerateLive()
	rows := make([]Row, 0, len(live))
	for _, e := range live {
		row := a.buildRow(e.Index, e.Bookmark)
		row.Selected = selected[e.Index]
		rows = append(rows, row)
	}
	a.rows = rows

	if a.sorted {
		a.sortRows()
	}
	return a.Rows()
}

// Rows returns a copy of the current rows in display order.
func (a *Adapter) Rows() []Row {
	return slices.Clone(a.rows)
}

// Len returns the number of rows.
func (a *Adapter) Len() int {
	return len(a.rows)
}

// UpsertRow refreshes the row for index in place, or appends one if there is
// none. selectRow marks the row selected; passing false never clears an
// existing selection. Internal bookmarks are never shown.
func (a *Adapter) UpsertRow(index int, selectRow bool) error {
	b, err := a.reg.LookupByIndex(index)
	if err != nil {
		return err
	}
	if b.IsInternal() {
		a.RemoveRow(index)
		return nil
	}

	row := a.buildRow(index, b)
	if pos, ok := a.find(index); ok {
		row.Selected = a.rows[pos].Selected || selectRow
		a.rows[pos] = row
		return nil
	}
	row.Selected = selectRow
	a.rows = append(a.rows, row)
	return nil
}

// RemoveRow deletes the row for index. It reports whether a row was removed.
func (a *Adapter) RemoveRow(index int) bool {
	pos, ok := a.find(index)
	if !ok {
		return false
	}
	a.rows = slices.Delete(a.rows, pos, pos+1)
	return true
}

// Sort orders rows by col and remembers the order for later refreshes. Equal
// rows fall back to index order so the result is reproducible.
func (a *Adapter) Sort(col Column, ascending bool) []Row {
	a.sortCol = col
	a.sortAsc = ascending
	a.sorted = true
	a.sortRows()
	return a.Rows()
}

// SortOrder returns the active sort, if any.
func (a *Adapter) SortOrder() (col Column, ascending, ok bool) {
	return a.sortCol, a.sortAsc, a.sorted
}

// Select sets the selection flag of the row for index.
func (a *Adapter) Select(index int, selected bool) bool {
	pos, ok := a.find(index)
	if !ok {
		return false
	}
	a.rows[pos].Selected = selected
	return true
}

// ClearSelection deselects every row.
func (a *Adapter) ClearSelection() {
	for i := range a.rows {
		a.rows[i].Selected = false
	}
}

// Selected returns the indices of selected rows in display order.
func (a *Adapter) Selected() []int {
	var out []int
	for _, r := range a.rows {
		if r.Selected {
			out = append(out, r.Index)
		}
	}
	return out
}

func (a *Adapter) sortRows() {
	col, asc := a.sortCol, a.sortAsc
	slices.SortStableFunc(a.rows, func(x, y Row) int {
		c := compareRows(col, x, y)
		if !asc {
			c = -c
		}
		if c == 0 {
			c = cmp.Compare(x.Index, y.Index)
		}
		return c
	})
}

func (a *Adapter) find(index int) (int, bool) {
	for i, r := range a.rows {
		if r.Index == index {
			return i, true
		}
	}
	return -1, false
}

// buildRow projects one bookmark. A bookmark in an open document shows the
// document's live position.
func (a *Adapter) buildRow(index int, b bookmark.Bookmark) Row {
	offset := b.Offset
	if d, ok := a.docs.IsOpen(b.FilePath); ok {
		if live, ok := d.BookmarkOffset(index); ok {
			offset = live
		}
	}

	dir, leaf := bookmark.SplitPath(b.FilePath)
	return Row{
		Index:        index,
		Name:         b.Name,
		File:         leaf,
		Folder:       dir,
		Offset:       offset,
		OffsetText:   humanize.Comma(offset),
		Modified:     b.ModifiedAt,
		ModifiedText: a.formatTime(b.ModifiedAt),
		Accessed:     b.AccessedAt,
		AccessedText: a.formatTime(b.AccessedAt),
	}
}

func (a *Adapter) formatTime(ts int64) string {
	if ts < 0 {
		return "Invalid"
	}
	return time.Unix(ts, 0).In(a.loc).Format(a.timeFormat)
}
