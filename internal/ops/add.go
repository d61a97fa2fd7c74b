package ops

import (
	"context"

	"github.com/hpungsan/hexmark/internal/bookmark"
	"github.com/hpungsan/hexmark/internal/errors"
)

// AddMode controls collision behavior.
type AddMode string

const (
	AddModeError   AddMode = "error"   // default: fail on name collision
	AddModeReplace AddMode = "replace" // overwrite existing
)

// AddInput contains parameters for the Add operation.
type AddInput struct {
	Name     string  // required
	FilePath string  // required, absolute
	Offset   int64   // byte position, >= 0
	Mode     AddMode // default: AddModeError
}

// AddOutput contains the result of the Add operation.
type AddOutput struct {
	Index       int    `json:"index"`
	Name        string `json:"name"`
	Overwritten bool   `json:"overwritten"`
}

// Add creates a bookmark or, in replace mode, overwrites the one with the
// same name in place. Names with the reserved prefix are refused. When the
// file is open the document starts following the new bookmark.
func Add(ctx context.Context, env *Env, input AddInput) (*AddOutput, error) {
	if err := bookmark.ValidateUserName(input.Name); err != nil {
		return nil, err
	}
	if input.Offset < 0 {
		return nil, errors.NewInvalidRequest("offset must not be negative")
	}
	path, err := cleanFilePath(input.FilePath)
	if err != nil {
		return nil, err
	}
	if input.Mode == "" {
		input.Mode = AddModeError
	}
	if input.Mode != AddModeError && input.Mode != AddModeReplace {
		return nil, errors.NewInvalidRequest("mode must be one of: error, replace")
	}

	env.mu.Lock()
	defer env.mu.Unlock()
	if err := env.load(ctx); err != nil {
		return nil, err
	}

	existing, lookupErr := env.reg.LookupByName(input.Name)
	overwritten := lookupErr == nil
	if overwritten && input.Mode == AddModeError {
		return nil, errors.NewNameAlreadyExists(input.Name, existing)
	}
	if overwritten {
		// The old target document, if open, no longer holds this bookmark.
		if old, err := env.reg.LookupByIndex(existing); err == nil {
			env.forget(old.FilePath, existing)
		}
	}

	index, err := env.reg.Upsert(input.Name, path, input.Offset, env.tracker(path))
	if err != nil {
		return nil, err
	}
	if err := env.flush(ctx); err != nil {
		return nil, err
	}
	if err := env.rows.UpsertRow(index, true); err != nil {
		return nil, err
	}

	env.logger.Info("bookmark added",
		"name", input.Name,
		"index", index,
		"file", path,
		"offset", input.Offset,
		"overwritten", overwritten,
	)

	return &AddOutput{
		Index:       index,
		Name:        input.Name,
		Overwritten: overwritten,
	}, nil
}
