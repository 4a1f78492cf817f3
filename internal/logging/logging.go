// Package logging builds the structured loggers shared by lobby components.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// Prefix is printed before every line written by New.
const Prefix = "lobby"

// New returns a logger writing to w at the given level ("debug", "info",
// "warn", "error"). A nil w writes to os.Stderr.
func New(w io.Writer, level string) (*log.Logger, error) {
	if w == nil {
		w = os.Stderr
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}

	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          Prefix,
		Level:           lvl,
	})
	return l, nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

// ValidLevel reports whether level names a known log level.
func ValidLevel(level string) bool {
	_, err := log.ParseLevel(level)
	return err == nil
}
