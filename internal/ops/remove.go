package ops

import (
	"context"
	"strconv"

	"github.com/hpungsan/hexmark/internal/errors"
)

// RemoveInput contains parameters for the Remove operation.
// At least one index or name is required.
type RemoveInput struct {
	Indices []int
	Names   []string
}

// RemoveOutput contains the result of the Remove operation.
type RemoveOutput struct {
	Removed []int    `json:"removed"`
	Missing []string `json:"missing,omitempty"`
}

// Remove deletes every addressed bookmark. Stale or unknown indices and
// names are reported in Missing; they never fail the call.
func Remove(ctx context.Context, env *Env, input RemoveInput) (*RemoveOutput, error) {
	if len(input.Indices) == 0 && len(input.Names) == 0 {
		return nil, errors.NewInvalidRequest("at least one index or name is required")
	}

	env.mu.Lock()
	defer env.mu.Unlock()
	if err := env.load(ctx); err != nil {
		return nil, err
	}

	out := &RemoveOutput{Removed: []int{}}
	targets := make([]int, 0, len(input.Indices)+len(input.Names))
	targets = append(targets, input.Indices...)
	for _, name := range input.Names {
		index, err := env.reg.LookupByName(name)
		if err != nil {
			out.Missing = append(out.Missing, name)
			continue
		}
		targets = append(targets, index)
	}

	for _, index := range targets {
		b, err := env.reg.LookupByIndex(index)
		if err != nil {
			out.Missing = append(out.Missing, strconv.Itoa(index))
			continue
		}
		if err := env.reg.Remove(index); err != nil {
			return nil, err
		}
		env.forget(b.FilePath, index)
		env.rows.RemoveRow(index)
		out.Removed = append(out.Removed, index)
		env.logger.Info("bookmark removed", "name", b.Name, "index", index)
	}

	if len(out.Removed) > 0 {
		if err := env.flush(ctx); err != nil {
			return nil, err
		}
	}
	return out, nil
}
