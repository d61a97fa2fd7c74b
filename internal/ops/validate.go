package ops

import (
	"context"
	"fmt"

	"github.com/hpungsan/hexmark/internal/db"
	"github.com/hpungsan/hexmark/internal/errors"
	"github.com/hpungsan/hexmark/internal/reconcile"
)

// ValidateInput contains parameters for the Validate operation.
type ValidateInput struct {
	// Retain overrides the configured policy for missing files on
	// removable or network media. nil uses the config.
	Retain *bool
}

// ValidateOutput summarizes a validation pass.
type ValidateOutput struct {
	RunID    string              `json:"run_id"`
	RanAt    int64               `json:"ran_at"`
	Checked  int                 `json:"checked"`
	Deleted  int                 `json:"deleted"`
	Clamped  int                 `json:"clamped"`
	Retained int                 `json:"retained"`
	Skipped  int                 `json:"skipped"`
	Message  string              `json:"message"`
	Verdicts []reconcile.Verdict `json:"verdicts"`
}

// Validate reconciles every live bookmark against the filesystem, persists
// the result and records the run.
func Validate(ctx context.Context, env *Env, input ValidateInput) (*ValidateOutput, error) {
	policy := reconcile.Policy{RetainRemovable: env.cfg.RetainRemovable()}
	if input.Retain != nil {
		policy.RetainRemovable = *input.Retain
	}

	env.mu.Lock()
	defer env.mu.Unlock()
	if err := env.load(ctx); err != nil {
		return nil, err
	}

	report := env.engine.Run(env.reg, policy)

	for _, v := range report.Verdicts {
		switch v.Outcome {
		case reconcile.Deleted:
			env.forget(v.FilePath, v.Index)
			env.rows.RemoveRow(v.Index)
		case reconcile.Clamped:
			if err := env.rows.UpsertRow(v.Index, false); err != nil {
				return nil, err
			}
		}
	}
	if report.Changed() {
		if err := env.flush(ctx); err != nil {
			return nil, err
		}
	}

	now := env.now()
	id, err := generateULID(now)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	run := db.ValidationRun{
		ID:              id,
		RanAt:           now.Unix(),
		RetainRemovable: policy.RetainRemovable,
		Checked:         report.Checked,
		Deleted:         report.Deleted,
		Clamped:         report.Clamped,
		Retained:        report.Retained,
		Skipped:         report.Skipped,
	}
	if err := db.InsertValidation(ctx, env.db, run); err != nil {
		return nil, err
	}

	env.logger.Debug("validation recorded", "run_id", id, "retain_removable", policy.RetainRemovable)

	verdicts := report.Verdicts
	if verdicts == nil {
		verdicts = []reconcile.Verdict{}
	}
	return &ValidateOutput{
		RunID:    id,
		RanAt:    run.RanAt,
		Checked:  report.Checked,
		Deleted:  report.Deleted,
		Clamped:  report.Clamped,
		Retained: report.Retained,
		Skipped:  report.Skipped,
		Message:  summaryMessage(report),
		Verdicts: verdicts,
	}, nil
}

func summaryMessage(r reconcile.Report) string {
	if !r.Changed() {
		return "No bookmarks were deleted or moved."
	}
	return fmt.Sprintf("%d bookmarks were deleted (files missing)\n%d bookmarks were moved (past EOF)", r.Deleted, r.Clamped)
}
