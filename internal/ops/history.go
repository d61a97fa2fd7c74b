package ops

import (
	"context"

	"github.com/hpungsan/hexmark/internal/db"
	"github.com/hpungsan/hexmark/internal/errors"
)

// HistoryInput contains parameters for the History operation.
type HistoryInput struct {
	Limit int // default: DefaultHistoryLimit, max: MaxHistoryLimit
}

// HistoryOutput lists recent validation runs, newest first.
type HistoryOutput struct {
	Runs []db.ValidationRun `json:"runs"`
}

// History returns recent validation runs.
func History(ctx context.Context, env *Env, input HistoryInput) (*HistoryOutput, error) {
	if input.Limit < 0 {
		return nil, errors.NewInvalidRequest("limit must not be negative")
	}
	limit := input.Limit
	if limit == 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	runs, err := db.ListValidations(ctx, env.db, limit)
	if err != nil {
		return nil, err
	}
	return &HistoryOutput{Runs: runs}, nil
}
