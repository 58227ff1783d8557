package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// StdoutPath is the output path that selects the stdout sink.
const StdoutPath = "-"

// New builds a logger on w. JSON is used when jsonFormat is set, text
// otherwise.
func New(w io.Writer, jsonFormat bool, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if jsonFormat {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Init creates a stderr logger, installs it as the slog default and
// returns it.
func Init(jsonFormat bool, level slog.Level) *slog.Logger {
	logger := New(os.Stderr, jsonFormat, level)
	slog.SetDefault(logger)
	return logger
}

// UseJSON reports whether logs should be JSON: either format asks for it,
// or one of the export paths is stdout, where text logs would interleave
// with NDJSON records.
func UseJSON(format string, outputPaths ...string) bool {
	if strings.EqualFold(format, "json") {
		return true
	}
	for _, p := range outputPaths {
		if p == StdoutPath {
			return true
		}
	}
	return false
}

// ParseLevel converts a string ("debug", "info", "warn", "error") to slog.Level.
// Unknown strings default to LevelInfo.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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
