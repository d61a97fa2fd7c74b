package ops

import (
	"context"
	"strings"

	"github.com/hpungsan/hexmark/internal/errors"
	"github.com/hpungsan/hexmark/internal/present"
)

// ListInput contains parameters for the List operation.
type ListInput struct {
	SortBy     string // column name; empty keeps insertion order
	Descending bool
}

// ListOutput contains the display rows.
type ListOutput struct {
	Rows       []present.Row `json:"rows"`
	Count      int           `json:"count"`
	SortBy     string        `json:"sort_by,omitempty"`
	Descending bool          `json:"descending,omitempty"`
}

// List returns one row per live, non-internal bookmark in display order.
func List(ctx context.Context, env *Env, input ListInput) (*ListOutput, error) {
	var (
		col    present.Column
		sorted bool
	)
	if s := strings.TrimSpace(input.SortBy); s != "" {
		c, err := present.ParseColumn(s)
		if err != nil {
			return nil, errors.NewInvalidRequest(err.Error())
		}
		col, sorted = c, true
	}

	env.mu.Lock()
	defer env.mu.Unlock()
	if err := env.load(ctx); err != nil {
		return nil, err
	}

	rows := env.rows.Rows()
	if sorted {
		rows = env.rows.Sort(col, !input.Descending)
	}

	// The adapter remembers the last sort, so an unsorted call after a sorted
	// one keeps that order.
	out := &ListOutput{}
	if c, asc, ok := env.rows.SortOrder(); ok {
		out.SortBy = c.String()
		out.Descending = !asc
	}
	if rows == nil {
		rows = []present.Row{}
	}
	out.Rows = rows
	out.Count = len(rows)
	return out, nil
}
