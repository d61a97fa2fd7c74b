// Package logging builds the process logger: a text handler on stderr and,
// when enabled, a size-rotated file under <base>/logs.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/hpungsan/hexmark/internal/config"
)

// Options controls where log records go.
type Options struct {
	Level     string
	Console   io.Writer // nil means stderr
	File      bool
	Dir       string
	MaxSizeMB int
}

// FromConfig derives Options from cfg with the log directory under baseDir.
func FromConfig(cfg *config.Config, baseDir string) Options {
	return Options{
		Level:     cfg.LogLevel,
		File:      cfg.LogFile,
		Dir:       filepath.Join(baseDir, "logs"),
		MaxSizeMB: cfg.LogMaxSizeMB,
	}
}

// New creates a logger. The returned closer releases the log file and is
// safe to call when no file was opened.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	var w io.Writer = os.Stderr
	if opts.Console != nil {
		w = opts.Console
	}

	var closer io.Closer = nopCloser{}
	if opts.File {
		if err := os.MkdirAll(opts.Dir, 0700); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		file := &lumberjack.Logger{
			Filename:   filepath.Join(opts.Dir, "hexmark.log"),
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: 3,
			Compress:   true,
		}
		w = io.MultiWriter(w, file)
		closer = file
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(opts.Level)})
	return slog.New(handler), closer, nil
}

// ParseLevel maps debug, info, warn and error to slog levels. Anything else
// is info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
