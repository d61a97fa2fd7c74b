// Package reconcile brings bookmark offsets and existence in line with the
// files they point at.
package reconcile

import (
	"log/slog"

	"github.com/hpungsan/hexmark/internal/bookmark"
	"github.com/hpungsan/hexmark/internal/docs"
	"github.com/hpungsan/hexmark/internal/fsys"
)

// Policy controls how missing files are treated.
type Policy struct {
	// RetainRemovable keeps bookmarks whose file is missing when the file
	// lives on removable or network media (or media that cannot be
	// classified). Missing files on fixed drives are always dropped.
	RetainRemovable bool
}

// Engine runs reconciliation passes.
type Engine struct {
	FS     fsys.FileSystem
	Docs   docs.Documents
	Logger *slog.Logger
}

// New creates an engine. A nil docs means nothing is open; a nil logger
// uses slog.Default.
func New(fs fsys.FileSystem, d docs.Documents, logger *slog.Logger) *Engine {
	if d == nil {
		d = docs.None{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{FS: fs, Docs: d, Logger: logger}
}

// Run checks every live bookmark in enumeration order and removes or clamps
// the ones that no longer fit their file. The pass always runs to the end.
// A file that exists but cannot be stat'ed is handled like a missing file.
func (e *Engine) Run(reg *bookmark.Registry, policy Policy) Report {
	var report Report

	for _, entry := range reg.EnumerateLive() {
		v := e.check(reg, entry, policy)
		report.Checked++
		switch {
		case v.Outcome == Deleted:
			report.Deleted++
		case v.Outcome == Clamped:
			report.Clamped++
		case v.Reason == ReasonRetainedRemovable:
			report.Retained++
		case v.Reason == ReasonDocumentOpen:
			report.Skipped++
		}
		report.Verdicts = append(report.Verdicts, v)
	}

	e.Logger.Info("validation finished",
		"checked", report.Checked,
		"deleted", report.Deleted,
		"clamped", report.Clamped,
		"retained", report.Retained,
		"skipped", report.Skipped,
	)
	return report
}

// check decides and applies the verdict for one bookmark.
func (e *Engine) check(reg *bookmark.Registry, entry bookmark.Entry, policy Policy) Verdict {
	v := Verdict{
		Index:     entry.Index,
		Name:      entry.Name,
		FilePath:  entry.FilePath,
		Outcome:   Unchanged,
		OldOffset: entry.Offset,
		NewOffset: entry.Offset,
	}

	if _, open := e.Docs.IsOpen(entry.FilePath); open {
		v.Reason = ReasonDocumentOpen
		return v
	}

	if !e.FS.Exists(entry.FilePath) {
		return e.missing(reg, v, ReasonFileNotFound, policy)
	}

	info, err := e.FS.Stat(entry.FilePath)
	if err != nil {
		e.Logger.Warn("validate: cannot stat file, treating as missing",
			"name", entry.Name, "file", entry.FilePath, "error", err)
		return e.missing(reg, v, ReasonStatFailure, policy)
	}

	if entry.Offset > info.Length {
		if _, err := reg.Clamp(entry.Index, info.Length); err != nil {
			e.Logger.Error("validate: clamp failed", "name", entry.Name, "error", err)
			v.Reason = ReasonWithinBounds
			return v
		}
		e.Logger.Info("validate: moving bookmark, file is too short",
			"name", entry.Name, "file", entry.FilePath,
			"offset", entry.Offset, "length", info.Length)
		v.Outcome = Clamped
		v.Reason = ReasonFileTooShort
		v.NewOffset = info.Length
		return v
	}

	v.Reason = ReasonWithinBounds
	return v
}

// missing applies the removable/network retain policy.
func (e *Engine) missing(reg *bookmark.Registry, v Verdict, reason Reason, policy Policy) Verdict {
	kind := e.FS.ClassifyDrive(v.FilePath)
	if policy.RetainRemovable && kind != fsys.DriveFixed {
		e.Logger.Info("validate: keeping bookmark, file not found on removable media",
			"name", v.Name, "file", v.FilePath, "drive", kind.String())
		v.Reason = ReasonRetainedRemovable
		return v
	}

	if err := reg.Remove(v.Index); err != nil {
		e.Logger.Error("validate: remove failed", "name", v.Name, "error", err)
		v.Reason = reason
		return v
	}
	e.Logger.Info("validate: removing bookmark, file not found",
		"name", v.Name, "file", v.FilePath, "drive", kind.String(), "reason", string(reason))
	v.Outcome = Deleted
	v.Reason = reason
	return v
}
