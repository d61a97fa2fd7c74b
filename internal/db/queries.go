package db

import (
	"context"
	"database/sql"
	"strings"

	"github.com/hpungsan/hexmark/internal/bookmark"
	"github.com/hpungsan/hexmark/internal/errors"
)

// ValidationRun is one recorded pass of the reconciliation engine.
type ValidationRun struct {
	ID              string `json:"id"`
	RanAt           int64  `json:"ran_at"`
	RetainRemovable bool   `json:"retain_removable"`
	Checked         int    `json:"checked"`
	Deleted         int    `json:"deleted"`
	Clamped         int    `json:"clamped"`
	Retained        int    `json:"retained"`
	Skipped         int    `json:"skipped"`
}

// LoadSlots reads every bookmark slot, tombstones included. The slice index
// is the slot number; gaps in the table are returned as tombstones.
func LoadSlots(ctx context.Context, db *sql.DB) ([]bookmark.Slot, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT slot, name, file_path, byte_offset, modified_at, accessed_at, deleted_at
		FROM bookmarks
		ORDER BY slot
	`)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var slots []bookmark.Slot
	for rows.Next() {
		var (
			index     int
			name      sql.NullString
			deletedAt sql.NullInt64
			s         bookmark.Slot
		)
		if err := rows.Scan(&index, &name, &s.FilePath, &s.Offset, &s.ModifiedAt, &s.AccessedAt, &deletedAt); err != nil {
			return nil, errors.NewInternal(err)
		}
		if index < 0 {
			continue
		}
		for len(slots) < index {
			slots = append(slots, bookmark.Slot{})
		}
		if deletedAt.Valid || !name.Valid {
			s = bookmark.Slot{DeletedAt: deletedAt.Int64}
		} else {
			s.Name = name.String
		}
		slots = append(slots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return slots, nil
}

// SaveSlots writes every slot in one transaction, upserting by slot number.
// Tombstones are written before live slots so a name that moved to a new slot
// never collides with its old row.
func SaveSlots(ctx context.Context, db *sql.DB, slots []bookmark.Slot) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewInternal(err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO bookmarks (slot, name, file_path, byte_offset, modified_at, accessed_at, deleted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET
			name = excluded.name,
			file_path = excluded.file_path,
			byte_offset = excluded.byte_offset,
			modified_at = excluded.modified_at,
			accessed_at = excluded.accessed_at,
			deleted_at = excluded.deleted_at
	`)
	if err != nil {
		return errors.NewInternal(err)
	}
	defer stmt.Close()

	for _, live := range []bool{false, true} {
		for i, s := range slots {
			if s.Deleted() == live {
				continue
			}
			var (
				name      sql.NullString
				deletedAt sql.NullInt64
			)
			if live {
				name = sql.NullString{String: s.Name, Valid: true}
			} else {
				deletedAt = sql.NullInt64{Int64: s.DeletedAt, Valid: true}
			}
			if _, err := stmt.ExecContext(ctx, i, name, s.FilePath, s.Offset, s.ModifiedAt, s.AccessedAt, deletedAt); err != nil {
				if isUniqueConstraintError(err) {
					return errors.NewNameAlreadyExists(s.Name, i)
				}
				return errors.NewInternal(err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// InsertValidation records a validation run.
func InsertValidation(ctx context.Context, db *sql.DB, v ValidationRun) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO validations (id, ran_at, retain_removable, checked, deleted, clamped, retained, skipped)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, v.ID, v.RanAt, v.RetainRemovable, v.Checked, v.Deleted, v.Clamped, v.Retained, v.Skipped)
	if err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// ListValidations returns the most recent validation runs, newest first.
func ListValidations(ctx context.Context, db *sql.DB, limit int) ([]ValidationRun, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, ran_at, retain_removable, checked, deleted, clamped, retained, skipped
		FROM validations
		ORDER BY ran_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	runs := []ValidationRun{}
	for rows.Next() {
		var v ValidationRun
		if err := rows.Scan(&v.ID, &v.RanAt, &v.RetainRemovable, &v.Checked, &v.Deleted, &v.Clamped, &v.Retained, &v.Skipped); err != nil {
			return nil, errors.NewInternal(err)
		}
		runs = append(runs, v)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return runs, nil
}

// isUniqueConstraintError checks if the error is a SQLite UNIQUE constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
