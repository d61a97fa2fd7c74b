package reconcile

// Outcome is what reconciliation did to one bookmark.
type Outcome string

const (
	Unchanged Outcome = "unchanged"
	Clamped   Outcome = "clamped"
	Deleted   Outcome = "deleted"
)

// Reason explains an outcome.
type Reason string

const (
	ReasonWithinBounds      Reason = "within_bounds"      // file exists and offset fits
	ReasonDocumentOpen      Reason = "document_open"      // open document is authoritative
	ReasonFileTooShort      Reason = "file_too_short"     // offset was past end of file
	ReasonFileNotFound      Reason = "file_not_found"     // file does not exist
	ReasonStatFailure       Reason = "stat_failure"       // file exists but could not be stat'ed
	ReasonRetainedRemovable Reason = "retained_removable" // missing, but on removable or network media
)

// Verdict is the decision taken for a single bookmark.
type Verdict struct {
	Index     int     `json:"index"`
	Name      string  `json:"name"`
	FilePath  string  `json:"file_path"`
	Outcome   Outcome `json:"outcome"`
	Reason    Reason  `json:"reason"`
	OldOffset int64   `json:"old_offset"`
	NewOffset int64   `json:"new_offset"`
}

// Report summarizes a reconciliation pass.
type Report struct {
	Checked  int       `json:"checked"`
	Deleted  int       `json:"deleted"`
	Clamped  int       `json:"clamped"`
	Retained int       `json:"retained"`
	Skipped  int       `json:"skipped"`
	Verdicts []Verdict `json:"verdicts"`
}

// Changed reports whether the pass modified the registry.
func (r Report) Changed() bool {
	return r.Deleted > 0 || r.Clamped > 0
}
