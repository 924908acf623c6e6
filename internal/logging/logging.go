// Package logging configures the application logger. The TUI owns the terminal,
// so log output goes to a rotated file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls where and how much is logged.
type Options struct {
	// Path of the log file. Empty disables logging.
	Path  string
	Level string
	// MaxSizeMB is the size at which the file is rotated.
	MaxSizeMB  int
	MaxBackups int
}

// ParseLevel maps a level name to a log level. Empty means info.
func ParseLevel(name string) (log.Level, error) {
	name = strings.TrimSpace(strings.ToLower(name))
	if name == "" {
		return log.InfoLevel, nil
	}
	lvl, err := log.ParseLevel(name)
	if err != nil {
		return log.InfoLevel, fmt.Errorf("invalid log level %q: %w", name, err)
	}
	return lvl, nil
}

// Setup builds a logger for opts and installs it as the default. The returned
// closer flushes and closes the log file.
func Setup(opts Options) (*log.Logger, func() error, error) {
	lvl, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}
	if opts.Path == "" {
		logger := New(io.Discard, lvl)
		log.SetDefault(logger)
		return logger, func() error { return nil }, nil
	}
	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log dir: %w", err)
	}
	maxSize := opts.MaxSizeMB
	if maxSize <= 0 {
		maxSize = 5
	}
	backups := opts.MaxBackups
	if backups <= 0 {
		backups = 3
	}
	rotator := &lumberjack.Logger{
		Filename:   opts.Path,
		MaxSize:    maxSize,
		MaxBackups: backups,
		MaxAge:     30,
		Compress:   true,
	}
	logger := New(rotator, lvl)
	log.SetDefault(logger)
	return logger, rotator.Close, nil
}

// New returns a timestamped logger writing to w.
func New(w io.Writer, lvl log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           lvl,
		Prefix:          "tuiread",
	})
}
