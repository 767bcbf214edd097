// Package logging builds the leveled console loggers used by the CLI and the
// HTTP server.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// Options holds configuration for a logger.
type Options struct {
	Level           string
	Format          string
	ReportTimestamp bool
	Prefix          string
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Level:           "info",
		Format:          "text",
		ReportTimestamp: true,
		Prefix:          "todos",
	}
}

// New creates a logger writing to w. Unknown level or format names fall back
// to info and text; use Validate to reject them up front.
func New(w io.Writer, opts Options) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           ParseLevel(opts.Level),
		Formatter:       ParseFormatter(opts.Format),
		ReportTimestamp: opts.ReportTimestamp,
		Prefix:          opts.Prefix,
	})
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

// ParseLevel parses a level name to a charmbracelet/log Level.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(level) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// ParseFormatter parses a format name to a charmbracelet/log Formatter.
func ParseFormatter(format string) log.Formatter {
	switch strings.ToLower(format) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}

var (
	levels  = []string{"debug", "info", "warn", "warning", "error"}
	formats = []string{"text", "json", "logfmt"}
)

// Validate reports whether level and format name known values. Empty strings
// are accepted and mean the defaults.
func Validate(level, format string) error {
	if level != "" && !contains(levels, strings.ToLower(level)) {
		return fmt.Errorf("unknown log level %q (valid: debug, info, warn, error)", level)
	}
	if format != "" && !contains(formats, strings.ToLower(format)) {
		return fmt.Errorf("unknown log format %q (valid: %s)", format, strings.Join(formats, ", "))
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
