package ops

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/hpungsan/hexmark/internal/bookmark"
	"github.com/hpungsan/hexmark/internal/errors"
)

// ImportMode controls collision behavior during import.
type ImportMode string

const (
	ImportModeError   ImportMode = "error"   // fail on any collision or bad line (atomic)
	ImportModeReplace ImportMode = "replace" // overwrite on collision
	ImportModeSkip    ImportMode = "skip"    // keep existing on collision
)

// ImportInput contains parameters for the Import operation.
type ImportInput struct {
	Path string     // required; relative paths resolve in <base>/exports
	Mode ImportMode // default: error
}

// ImportOutput contains the result of the Import operation.
type ImportOutput struct {
	Imported int           `json:"imported"`
	Replaced int           `json:"replaced"`
	Skipped  int           `json:"skipped"`
	Errors   []ImportError `json:"errors"`
}

// ImportError represents a line that could not be imported.
type ImportError struct {
	Line    int    `json:"line"`
	Name    string `json:"name,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

const headerPrefix = "#hexmark"

type parsedRecord struct {
	line int
	b    bookmark.Bookmark
}

// Import loads bookmarks from an export file. In error mode nothing is
// written unless every line parses and no name collides.
func Import(ctx context.Context, env *Env, input ImportInput) (*ImportOutput, error) {
	if input.Path == "" {
		return nil, errors.NewInvalidRequest("path is required")
	}
	if input.Mode == "" {
		input.Mode = ImportModeError
	}
	if input.Mode != ImportModeError && input.Mode != ImportModeReplace && input.Mode != ImportModeSkip {
		return nil, errors.NewInvalidRequest("mode must be one of: error, replace, skip")
	}

	f, err := env.resolveBookmarkFile(input.Path, true)
	if err != nil {
		return nil, err
	}
	file, err := f.open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, parseErrors := parseRecords(file)

	if input.Mode == ImportModeError && len(parseErrors) > 0 {
		return &ImportOutput{Errors: parseErrors}, nil
	}

	env.mu.Lock()
	defer env.mu.Unlock()
	if err := env.load(ctx); err != nil {
		return nil, err
	}

	out := &ImportOutput{Errors: parseErrors, Skipped: len(parseErrors)}

	if input.Mode == ImportModeError {
		seen := make(map[string]int, len(records))
		for _, r := range records {
			_, lookupErr := env.reg.LookupByName(r.b.Name)
			_, dup := seen[r.b.Name]
			if lookupErr == nil || dup {
				return &ImportOutput{Errors: []ImportError{{
					Line:    r.line,
					Name:    r.b.Name,
					Code:    "NAME_COLLISION",
					Message: fmt.Sprintf("bookmark %q already exists", r.b.Name),
				}}}, nil
			}
			seen[r.b.Name] = r.line
		}
	}

	for _, r := range records {
		_, lookupErr := env.reg.LookupByName(r.b.Name)
		exists := lookupErr == nil
		if exists && input.Mode == ImportModeSkip {
			out.Skipped++
			continue
		}
		if _, err := env.reg.Put(r.b); err != nil {
			out.Errors = append(out.Errors, ImportError{
				Line:    r.line,
				Name:    r.b.Name,
				Code:    string(errors.CodeOf(err)),
				Message: err.Error(),
			})
			out.Skipped++
			continue
		}
		if exists {
			out.Replaced++
		} else {
			out.Imported++
		}
	}

	if out.Imported+out.Replaced > 0 {
		if err := env.flush(ctx); err != nil {
			return nil, err
		}
		env.rows.FullRefresh()
	}

	env.logger.Info("bookmarks imported",
		"path", f.path,
		"imported", out.Imported,
		"replaced", out.Replaced,
		"skipped", out.Skipped,
	)
	if out.Errors == nil {
		out.Errors = []ImportError{}
	}
	return out, nil
}

// parseRecords reads record lines. Blank lines are ignored and a '#hexmark'
// line is a header, which must name the supported version. Every other line
// is a record; names never begin with '#', so nothing else is a comment.
func parseRecords(r io.Reader) ([]parsedRecord, []ImportError) {
	var (
		records []parsedRecord
		errs    []ImportError
	)

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.HasPrefix(line, headerPrefix) {
			if line != bookmark.RecordHeader {
				errs = append(errs, ImportError{
					Line:    lineNum,
					Code:    "UNSUPPORTED_VERSION",
					Message: fmt.Sprintf("unsupported header %q", line),
				})
			}
			continue
		}

		b, err := bookmark.ParseRecord(line)
		if err != nil {
			errs = append(errs, ImportError{
				Line:    lineNum,
				Code:    "INVALID_RECORD",
				Message: err.Error(),
			})
			continue
		}
		records = append(records, parsedRecord{line: lineNum, b: b})
	}

	if err := scanner.Err(); err != nil {
		errs = append(errs, ImportError{
			Line:    lineNum,
			Code:    "READ_ERROR",
			Message: fmt.Sprintf("failed to read file: %v", err),
		})
	}
	return records, errs
}
