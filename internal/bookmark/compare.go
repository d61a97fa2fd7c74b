package bookmark

import (
	"cmp"
	"strings"
)

// Family groups sortable attributes by how they compare.
type Family int

const (
	FamilyText    Family = iota // case-insensitive text
	FamilyPath                  // leaf, then directory, then offset
	FamilyNumeric               // int64 values: offsets and timestamps
)

// String returns the family name.
func (f Family) String() string {
	switch f {
	case FamilyText:
		return "text"
	case FamilyPath:
		return "path"
	case FamilyNumeric:
		return "numeric"
	default:
		return "unknown"
	}
}

// CompareText compares two strings ignoring case. Returns -1, 0 or +1.
func CompareText(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

// CompareNumeric compares two int64 values. Returns -1, 0 or +1.
func CompareNumeric(a, b int64) int {
	return cmp.Compare(a, b)
}

// PathKey is the composite sort key of the file column. Bookmarks in the same
// file sort together and then by position.
type PathKey struct {
	Leaf   string
	Dir    string
	Offset int64
}

// NewPathKey builds the composite key for a bookmark.
func NewPathKey(filePath string, offset int64) PathKey {
	dir, leaf := SplitPath(filePath)
	return PathKey{Leaf: leaf, Dir: dir, Offset: offset}
}

// ComparePath compares two keys field by field. Returns -1, 0 or +1.
func ComparePath(a, b PathKey) int {
	if c := CompareText(a.Leaf, b.Leaf); c != 0 {
		return c
	}
	if c := CompareText(a.Dir, b.Dir); c != 0 {
		return c
	}
	return CompareNumeric(a.Offset, b.Offset)
}

// SplitPath splits a path into its directory (with trailing separator) and
// leaf name. Backslash is tried first, then slash, then a drive colon, so
// Windows paths split the same on every platform.
func SplitPath(p string) (dir, leaf string) {
	i := strings.LastIndexByte(p, '\\')
	if i == -1 {
		i = strings.LastIndexByte(p, '/')
	}
	if i == -1 {
		i = strings.LastIndexByte(p, ':')
	}
	return p[:i+1], p[i+1:]
}
