// Package logging builds the loggers the command line tool hands to the
// engine: a colored slog handler for terminal output and a logrus logger
// for the chain store layer.
package logging

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/sirupsen/logrus"
)

// New returns a colored stderr logger. Verbose lowers the level to Debug,
// which also surfaces per-lookup hit logging.
func New(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.RFC3339,
	})
	return slog.New(handler)
}

// Store returns the logger for the on-disk chain store. Store internals
// are noisy, so they stay silent unless verbose is set.
func Store(verbose bool) *logrus.Logger {
	l := logrus.New()
	if verbose {
		l.SetLevel(logrus.DebugLevel)
	} else {
		l.SetOutput(io.Discard)
	}
	return l
}
