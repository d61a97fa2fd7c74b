package ops

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/hpungsan/hexmark/internal/errors"
)

// bookmarkFileExts are the extensions an export or import file may carry.
var bookmarkFileExts = []string{".hexmark", ".txt"}

// bookmarkFile is an export target or import source that passed the location
// rules in resolveBookmarkFile.
type bookmarkFile struct {
	path string // absolute, cleaned
}

// resolveBookmarkFile applies the location rules for bookmark files.
//
// A relative path names a file in the exports directory. Unless
// allow_unsafe_paths is set, the file must sit directly in the exports
// directory or an allowed_paths entry, and that directory must not be a
// symlink. The file itself is never a symlink. With mustExist a missing file
// is FILE_NOT_FOUND.
func (e *Env) resolveBookmarkFile(path string, mustExist bool) (bookmarkFile, error) {
	if path == "" {
		return bookmarkFile{}, errors.NewInvalidRequest("path is required")
	}
	if hasDotDot(path) {
		return bookmarkFile{}, errors.NewInvalidRequest("path must not contain directory traversal (..)")
	}
	if !slices.Contains(bookmarkFileExts, strings.ToLower(filepath.Ext(path))) {
		return bookmarkFile{}, errors.NewInvalidRequest(
			"bookmark files must end in " + strings.Join(bookmarkFileExts, " or "))
	}

	abs, err := e.absBookmarkPath(path)
	if err != nil {
		return bookmarkFile{}, err
	}

	if !e.cfg.AllowUnsafePaths {
		dir := filepath.Dir(abs)
		allowed := e.bookmarkDirs()
		if !slices.Contains(allowed, dir) {
			return bookmarkFile{}, errors.NewInvalidRequest(fmt.Sprintf(
				"bookmark files must sit directly in the exports directory or an allowed_paths entry; allowed: %v", allowed))
		}
		if isSymlink(dir) {
			return bookmarkFile{}, errors.NewInvalidRequest("bookmark directory must not be a symlink")
		}
	}

	info, err := os.Lstat(abs)
	switch {
	case err == nil && info.Mode()&os.ModeSymlink != 0:
		return bookmarkFile{}, errors.NewInvalidRequest("bookmark file must not be a symlink")
	case os.IsNotExist(err) && mustExist:
		return bookmarkFile{}, errors.NewFileNotFound(path)
	}
	return bookmarkFile{path: abs}, nil
}

func (e *Env) absBookmarkPath(path string) (string, error) {
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	if dir := e.exportsDir(); dir != "" {
		return filepath.Join(dir, path), nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.NewInvalidRequest(fmt.Sprintf("invalid path: %v", err))
	}
	return abs, nil
}

// bookmarkDirs lists the directories bookmark files may sit in. A symlinked
// allowed_paths entry is replaced by its target.
func (e *Env) bookmarkDirs() []string {
	var dirs []string
	if d := e.exportsDir(); d != "" {
		dirs = append(dirs, d)
	}
	for _, p := range e.cfg.AllowedPaths {
		if !filepath.IsAbs(p) {
			continue
		}
		d := filepath.Clean(p)
		if isSymlink(d) {
			if target, err := filepath.EvalSymlinks(d); err == nil {
				d = target
			}
		}
		dirs = append(dirs, d)
	}
	return dirs
}

// exportsDir is the default bookmark file directory, or "" when the env has
// no base directory.
func (e *Env) exportsDir() string {
	if e.baseDir == "" {
		return ""
	}
	return filepath.Join(e.baseDir, "exports")
}

// open opens the file for reading without following a symlink swapped in
// after resolution.
func (f bookmarkFile) open() (*os.File, error) {
	file, err := os.OpenFile(f.path, os.O_RDONLY|openNoFollow, 0)
	switch {
	case err == nil:
		return file, nil
	case isSymlinkErr(err):
		return nil, errors.NewInvalidRequest("bookmark file must not be a symlink")
	case os.IsNotExist(err):
		return nil, errors.NewFileNotFound(f.path)
	}
	return nil, errors.NewInternal(fmt.Errorf("failed to open bookmark file: %w", err))
}

// replace writes the file through a temp file in the same directory and
// renames it into place, so a failed write leaves any previous file intact.
// os.CreateTemp opens with O_EXCL, which never follows a planted symlink.
func (f bookmarkFile) replace(write func(io.Writer) error) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to create export directory: %w", err))
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return errors.NewInternal(fmt.Errorf("failed to create export file: %w", err))
	}

	w := bufio.NewWriter(tmp)
	err = write(w)
	if err == nil {
		err = w.Flush()
	}
	if err == nil {
		err = tmp.Sync()
	}
	// Closed before rename for Windows.
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return errors.NewInternal(fmt.Errorf("failed to write export file: %w", err))
	}

	// os.Rename would replace a symlink planted since resolution.
	if isSymlink(f.path) {
		os.Remove(tmp.Name())
		return errors.NewInvalidRequest("bookmark file must not be a symlink")
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		os.Remove(tmp.Name())
		if _, statErr := os.Stat(f.path); statErr == nil && runtime.GOOS == "windows" {
			return errors.NewInvalidRequest("export destination already exists; overwriting is not supported on Windows")
		}
		return errors.NewInternal(fmt.Errorf("failed to finalize export: %w", err))
	}
	return nil
}

// hasDotDot reports whether any element of path is "..", splitting on both
// separators so Windows-style input is caught on Unix too.
func hasDotDot(path string) bool {
	parts := strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == '\\' })
	return slices.Contains(parts, "..")
}

func isSymlink(path string) bool {
	info, err := os.Lstat(path)
	return err == nil && info.Mode()&os.ModeSymlink != 0
}
