package bookmark

import (
	"fmt"
	"strconv"
	"strings"
)

// RecordHeader is the first line of an exported bookmark file.
const RecordHeader = "#hexmark v1"

// recordFields is the number of separator-delimited fields per record.
const recordFields = 5

// FormatRecord encodes b as name|path|offset|modified|accessed.
func FormatRecord(b Bookmark) string {
	sep := string(FieldSeparator)
	return strings.Join([]string{
		b.Name,
		b.FilePath,
		strconv.FormatInt(b.Offset, 10),
		strconv.FormatInt(b.ModifiedAt, 10),
		strconv.FormatInt(b.AccessedAt, 10),
	}, sep)
}

// ParseRecord decodes one record line. The name ends at the first separator
// and the three numeric fields are taken from the right, so a path may itself
// contain the separator.
func ParseRecord(line string) (Bookmark, error) {
	line = strings.TrimRight(line, "\r\n")

	name, rest, ok := strings.Cut(line, string(FieldSeparator))
	if !ok {
		return Bookmark{}, fmt.Errorf("expected %d fields separated by %q", recordFields, FieldSeparator)
	}
	if err := ValidateName(name); err != nil {
		return Bookmark{}, err
	}

	var nums [3]int64
	for i := len(nums) - 1; i >= 0; i-- {
		j := strings.LastIndexByte(rest, FieldSeparator)
		if j == -1 {
			return Bookmark{}, fmt.Errorf("expected %d fields separated by %q", recordFields, FieldSeparator)
		}
		n, err := strconv.ParseInt(rest[j+1:], 10, 64)
		if err != nil {
			return Bookmark{}, fmt.Errorf("field %d: %w", i+3, err)
		}
		nums[i] = n
		rest = rest[:j]
	}

	if rest == "" {
		return Bookmark{}, fmt.Errorf("empty file path")
	}
	if nums[0] < 0 {
		return Bookmark{}, fmt.Errorf("negative offset %d", nums[0])
	}

	return Bookmark{
		Name:       name,
		FilePath:   rest,
		Offset:     nums[0],
		ModifiedAt: nums[1],
		AccessedAt: nums[2],
	}, nil
}
