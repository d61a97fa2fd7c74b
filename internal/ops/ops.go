package ops

import (
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/hexmark/internal/errors"
)

// History limits
const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// cleanFilePath trims and cleans a bookmark target path, which must be absolute.
func cleanFilePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", errors.NewInvalidRequest("file_path is required")
	}
	if !filepath.IsAbs(path) {
		return "", errors.NewInvalidRequest("file_path must be absolute")
	}
	if strings.IndexFunc(path, unicode.IsControl) >= 0 {
		return "", errors.NewInvalidRequest("file_path must not contain control characters")
	}
	return filepath.Clean(path), nil
}

// generateULID generates a new ULID. IDs made within the same millisecond
// still sort in creation order.
func generateULID(now time.Time) (string, error) {
	id, err := ulid.New(ulid.Timestamp(now), ulid.DefaultEntropy())
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
