package ops

import (
	"context"
	"fmt"
	"io"

	"github.com/hpungsan/hexmark/internal/bookmark"
)

// ExportInput contains parameters for the Export operation.
type ExportInput struct {
	Path string // optional, default: <base>/exports/bookmarks-<timestamp>.hexmark; relative paths land in <base>/exports
}

// ExportOutput contains the result of the Export operation.
type ExportOutput struct {
	Path       string `json:"path"`
	Count      int    `json:"count"`
	ExportedAt int64  `json:"exported_at"`
}

// Export writes every live bookmark, internal ones included, as one record
// per line after a header line. A relative path names a file in the exports
// directory.
func Export(ctx context.Context, env *Env, input ExportInput) (*ExportOutput, error) {
	env.mu.Lock()
	defer env.mu.Unlock()
	if err := env.load(ctx); err != nil {
		return nil, err
	}

	now := env.now()
	target := input.Path
	if target == "" {
		target = fmt.Sprintf("bookmarks-%s.hexmark", now.Format("2006-01-02T150405"))
	}
	f, err := env.resolveBookmarkFile(target, false)
	if err != nil {
		return nil, err
	}

	count := 0
	err = f.replace(func(w io.Writer) error {
		if _, err := fmt.Fprintln(w, bookmark.RecordHeader); err != nil {
			return err
		}
		for _, s := range env.reg.Slots() {
			if s.Deleted() {
				continue
			}
			if _, err := fmt.Fprintln(w, bookmark.FormatRecord(s.Bookmark)); err != nil {
				return err
			}
			count++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	env.logger.Info("bookmarks exported", "path", f.path, "count", count)

	return &ExportOutput{
		Path:       f.path,
		Count:      count,
		ExportedAt: now.Unix(),
	}, nil
}
