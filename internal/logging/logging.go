// Package logging configures the process-wide logger. Output goes to a
// file, never to stderr: the terminal belongs to the UI while the program
// runs, and stray writes corrupt the display.
package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// Setup opens (or creates) the log file at path and returns a logger bound
// to it plus a closer for the file. If the file cannot be opened the
// logger discards everything; logging is never a reason to refuse to run.
func Setup(path string, debug bool) (zerolog.Logger, func() error) {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	if dir := filepath.Dir(path); dir != "." {
		// Best effort; failure is handled by the open below.
		_ = os.MkdirAll(dir, 0o755)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		logger := zerolog.New(io.Discard)
		return logger, func() error { return nil }
	}

	logger := zerolog.New(f).Level(level).With().Timestamp().Logger()
	return logger, f.Close
}
