// Package logging configures Dockyard's structured logging on top of
// charmbracelet/log.
//
// Setup runs once from the root command; every package then asks for a
// component logger:
//
//	logger := logging.New("panel")
//	logger.Debug("skipping unmounted slot", "panel", id)
//
// Loggers write to stderr. While the full-screen workspace is running,
// stderr belongs to the terminal renderer, so the TUI calls RedirectToFile
// and restores stderr when it exits.
//
// charmbracelet/log copies the default logger's settings when a child is
// created, so call Setup (and RedirectToFile) before New.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// Level aliases so callers do not need to import charmbracelet/log.
const (
	LevelDebug = log.DebugLevel
	LevelInfo  = log.InfoLevel
	LevelWarn  = log.WarnLevel
	LevelError = log.ErrorLevel
)

// Setup configures the default logger. quiet wins over verbose.
func Setup(verbose, quiet, jsonFormat bool) {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	if quiet {
		level = log.ErrorLevel
	}

	log.SetLevel(level)
	log.SetOutput(os.Stderr)
	log.SetReportTimestamp(true)

	if jsonFormat {
		log.SetFormatter(log.JSONFormatter)
	} else {
		log.SetFormatter(log.TextFormatter)
	}
}

// New returns a logger tagged with component. An empty component yields a
// logger without a prefix.
func New(component string) *log.Logger {
	return log.WithPrefix(component)
}

// SetOutput overrides the default logger's writer. Tests use it to capture
// output.
func SetOutput(w io.Writer) {
	log.SetOutput(w)
}

// RedirectToFile appends all subsequent log output to path, creating parent
// directories as needed. The returned function restores stderr and closes
// the file.
func RedirectToFile(path string) (func() error, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening log file %s: %w", path, err)
	}
	log.SetOutput(f)
	return func() error {
		log.SetOutput(os.Stderr)
		return f.Close()
	}, nil
}
