// Package logging builds the structured loggers used by the interpreter and
// the server.
package logging

import (
	"fmt"
	"io"
	"strings"
	"time"

	clog "github.com/charmbracelet/log"
)

// Logger is the structured logger handed to every component that logs.
type Logger = *clog.Logger

// New creates a Logger writing human-readable lines to w at the given level.
func New(w io.Writer, level clog.Level) Logger {
	return clog.NewWithOptions(w, clog.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           level,
	})
}

// NewJSON creates a Logger writing JSON lines to w at the given level.
func NewJSON(w io.Writer, level clog.Level) Logger {
	l := New(w, level)
	l.SetFormatter(clog.JSONFormatter)
	return l
}

// Discard returns a Logger that writes nowhere.
func Discard() Logger {
	return New(io.Discard, clog.FatalLevel)
}

// ParseLevel converts a level name to a log level. The empty string is the
// info level.
func ParseLevel(level string) (clog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return clog.DebugLevel, nil
	case "", "info":
		return clog.InfoLevel, nil
	case "warn", "warning":
		return clog.WarnLevel, nil
	case "error":
		return clog.ErrorLevel, nil
	default:
		return clog.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
}
