package ops

import (
	"context"

	"github.com/hpungsan/hexmark/internal/errors"
)

// NavigateInput addresses a bookmark by exactly one of Index or Name.
type NavigateInput struct {
	Index *int
	Name  string
}

// NavigateOutput is where the caller should go.
type NavigateOutput struct {
	Index    int    `json:"index"`
	Name     string `json:"name"`
	FilePath string `json:"file_path"`
	Offset   int64  `json:"offset"`
	Open     bool   `json:"open"`
}

// Navigate resolves a bookmark to a file position and stamps its access time.
// A bookmark in an open document resolves to the document's live position;
// otherwise the file must exist.
func Navigate(ctx context.Context, env *Env, input NavigateInput) (*NavigateOutput, error) {
	env.mu.Lock()
	defer env.mu.Unlock()
	if err := env.load(ctx); err != nil {
		return nil, err
	}

	index, b, err := env.resolve(input.Index, input.Name)
	if err != nil {
		return nil, err
	}

	out := &NavigateOutput{
		Index:    index,
		Name:     b.Name,
		FilePath: b.FilePath,
		Offset:   b.Offset,
	}
	if d, ok := env.docs.IsOpen(b.FilePath); ok {
		out.Open = true
		if live, ok := d.BookmarkOffset(index); ok {
			out.Offset = live
		}
	} else if !env.fs.Exists(b.FilePath) {
		return nil, errors.NewFileNotFound(b.FilePath)
	}

	if err := env.reg.Touch(index); err != nil {
		return nil, err
	}
	if err := env.flush(ctx); err != nil {
		return nil, err
	}
	if err := env.rows.UpsertRow(index, false); err != nil {
		return nil, err
	}

	env.logger.Debug("bookmark navigated", "name", b.Name, "index", index, "offset", out.Offset)
	return out, nil
}
