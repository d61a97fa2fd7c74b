package bookmark

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hpungsan/hexmark/internal/errors"
)

// ReservedPrefix marks internal bookmarks. They are stored and resolvable by
// index but never enumerated, counted or displayed.
const ReservedPrefix = '_'

// FieldSeparator separates fields of a persisted record and may not appear in
// a bookmark name.
const FieldSeparator = '|'

// headerMark starts the header line of an exported file. A name may not
// begin with it.
const headerMark = '#'

// Bookmark is a named byte position within a file.
type Bookmark struct {
	// Name is unique among live bookmarks (case-sensitive)
	Name string `json:"name"`

	// FilePath is the absolute path of the target file
	FilePath string `json:"file_path"`

	// Offset is the byte position within the file, never negative
	Offset int64 `json:"offset"`

	// ModifiedAt is the Unix time the bookmark record was last written
	ModifiedAt int64 `json:"modified_at"`

	// AccessedAt is the Unix time the bookmark was last written or navigated to
	AccessedAt int64 `json:"accessed_at"`
}

// IsInternal reports whether the bookmark name uses the reserved prefix.
func (b Bookmark) IsInternal() bool {
	return IsReserved(b.Name)
}

// IsReserved reports whether name starts with ReservedPrefix.
func IsReserved(name string) bool {
	return name != "" && name[0] == ReservedPrefix
}

// ValidateName checks a name for storage. It must be non-empty, must not
// begin with '#', and must not contain the field separator or any control
// character, since each would break the one-record-per-line file format.
// Reserved names pass.
func ValidateName(name string) error {
	if name == "" {
		return errors.NewInvalidName(name, "bookmark name must not be empty")
	}
	if name[0] == headerMark {
		return errors.NewIllegalCharacter(name, headerMark)
	}
	if i := strings.IndexFunc(name, illegalInName); i >= 0 {
		r, _ := utf8.DecodeRuneInString(name[i:])
		return errors.NewIllegalCharacter(name, r)
	}
	return nil
}

func illegalInName(r rune) bool {
	return r == FieldSeparator || unicode.IsControl(r)
}

// ValidateUserName is ValidateName plus rejection of reserved names, for
// names typed by a user.
func ValidateUserName(name string) error {
	if IsReserved(name) {
		return errors.NewInvalidName(name, "names beginning with an underscore are reserved for internal use")
	}
	return ValidateName(name)
}
