// Package logging builds the structured loggers shared by every package.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/phuslu/log"
)

// New creates a logger at the given level. Format "json" writes one JSON
// object per line, anything else writes human-readable console lines.
func New(level, format string, w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	if level == "" {
		level = "info"
	}

	var writer log.Writer
	if strings.EqualFold(format, "json") {
		writer = &log.IOWriter{Writer: w}
	} else {
		writer = &log.ConsoleWriter{
			Writer:      w,
			ColorOutput: w == os.Stderr || w == os.Stdout,
		}
	}

	return &log.Logger{
		Level:      log.ParseLevel(level),
		TimeFormat: "2006-01-02T15:04:05Z07:00",
		Writer:     writer,
	}
}

// Discard returns a logger that drops everything. Used by tests and as the
// default when a component is built without one.
func Discard() *log.Logger {
	return &log.Logger{Level: log.PanicLevel + 1, Writer: &log.IOWriter{Writer: io.Discard}}
}

// OrDiscard returns l, or a discarding logger when l is nil.
func OrDiscard(l *log.Logger) *log.Logger {
	if l == nil {
		return Discard()
	}
	return l
}
