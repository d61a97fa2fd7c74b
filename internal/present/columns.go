package present

import (
	"fmt"
	"strings"

	"github.com/hpungsan/hexmark/internal/bookmark"
)

// Column identifies a sortable row attribute.
type Column int

const (
	ColName Column = iota
	ColFile
	ColFolder
	ColOffset
	ColModified
	ColAccessed
)

var columnNames = []string{"name", "file", "folder", "offset", "modified", "accessed"}

// columnHeadings are the display headings, in column order.
var columnHeadings = []string{"Name", "File", "Folder", "Byte No", "Modified", "Accessed"}

// String returns the column's query name.
func (c Column) String() string {
	if c < 0 || int(c) >= len(columnNames) {
		return "unknown"
	}
	return columnNames[c]
}

// Family returns the comparator family used to sort the column.
func (c Column) Family() bookmark.Family {
	switch c {
	case ColFile:
		return bookmark.FamilyPath
	case ColOffset, ColModified, ColAccessed:
		return bookmark.FamilyNumeric
	default:
		return bookmark.FamilyText
	}
}

// ParseColumn parses a column name (case-insensitive). "position" and
// "location" are accepted as aliases of offset and folder.
func ParseColumn(s string) (Column, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "position", "pos":
		return ColOffset, nil
	case "location", "dir", "directory":
		return ColFolder, nil
	}
	for i, name := range columnNames {
		if s == name {
			return Column(i), nil
		}
	}
	return 0, fmt.Errorf("unknown column %q (want one of: %s)", s, strings.Join(columnNames, ", "))
}

// compareRows orders two rows by column, ascending.
func compareRows(col Column, x, y Row) int {
	switch col {
	case ColFile:
		return bookmark.ComparePath(Key(x), Key(y))
	case ColFolder:
		return bookmark.CompareText(x.Folder, y.Folder)
	case ColOffset:
		return bookmark.CompareNumeric(x.Offset, y.Offset)
	case ColModified:
		return bookmark.CompareNumeric(x.Modified, y.Modified)
	case ColAccessed:
		return bookmark.CompareNumeric(x.Accessed, y.Accessed)
	default:
		return bookmark.CompareText(x.Name, y.Name)
	}
}

// Key builds the composite file-column key for a row from what it displays.
func Key(r Row) bookmark.PathKey {
	return bookmark.PathKey{Leaf: r.File, Dir: r.Folder, Offset: r.Offset}
}
