package bookmark

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpungsan/hexmark/internal/errors"
)

func TestFormatRecord(t *testing.T) {
	b := Bookmark{Name: "header", FilePath: `C:\data\a.bin`, Offset: 4096, ModifiedAt: 10, AccessedAt: 20}
	assert.Equal(t, `header|C:\data\a.bin|4096|10|20`, FormatRecord(b))
}

func TestParseRecord(t *testing.T) {
	b, err := ParseRecord("header|/data/a.bin|4096|10|20\r\n")
	require.NoError(t, err)
	assert.Equal(t, Bookmark{Name: "header", FilePath: "/data/a.bin", Offset: 4096, ModifiedAt: 10, AccessedAt: 20}, b)
}

func TestParseRecord_SeparatorInPath(t *testing.T) {
	want := Bookmark{Name: "odd", FilePath: "/tmp/a|b.bin", Offset: 1, ModifiedAt: 2, AccessedAt: 3}

	got, err := ParseRecord(FormatRecord(want))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestParseRecord_Invalid(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"no separator", "justaname"},
		{"too few fields", "a|/f|1|2"},
		{"bad number", "a|/f|x|2|3"},
		{"negative offset", "a|/f|-1|2|3"},
		{"empty path", "a||1|2|3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRecord(tt.line)
			assert.Error(t, err)
		})
	}
}

func TestParseRecord_EmptyName(t *testing.T) {
	_, err := ParseRecord("|/f|1|2|3")
	assert.True(t, errors.Is(err, errors.ErrInvalidName))
}
