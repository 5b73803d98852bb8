// Package logging sets up the zerolog logger. The live view owns the
// terminal, so logs go to a file under the user cache directory; one-shot
// commands may log to stderr instead.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}

// logPath returns the log file location.
func logPath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cacheDir, "portwatch", "portwatch.log"), nil
}

// NewFileLogger returns a logger writing to the portwatch log file and a
// close func for the underlying file. Falls back to a disabled logger when
// the file cannot be opened, so callers never need a conditional.
func NewFileLogger(debug bool) (zerolog.Logger, func() error) {
	path, err := logPath()
	if err != nil {
		return Nop(), func() error { return nil }
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return Nop(), func() error { return nil }
	}

	// #nosec G304 - path is constructed from trusted sources
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return Nop(), func() error { return nil }
	}

	return newLogger(f, debug), f.Close
}

// NewStderrLogger returns a logger writing to stderr, for one-shot commands.
func NewStderrLogger(debug bool) zerolog.Logger {
	return newLogger(os.Stderr, debug)
}

// Nop returns a logger that discards everything.
func Nop() zerolog.Logger {
	return zerolog.New(io.Discard).Level(zerolog.Disabled)
}

func newLogger(w io.Writer, debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
