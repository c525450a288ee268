// Package logging configures the process-wide slog logger.
//
// Records always go to stderr as text. When a log file is configured the
// same records are also written there as JSON, so they can be shipped to a
// log collector without parsing the human-readable stream.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	slogmulti "github.com/samber/slog-multi"
)

// Setup installs the default slog logger and returns a cleanup function that
// closes the log file, if one was opened.
func Setup(level, logFile string) func() error {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	stderrHandler := slog.NewTextHandler(os.Stderr, opts)

	if logFile == "" {
		slog.SetDefault(slog.New(stderrHandler))
		return func() error { return nil }
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		slog.SetDefault(slog.New(stderrHandler))
		slog.Error("failed to open log file, using stderr only", "error", err, "file", logFile)
		return func() error { return nil }
	}

	fileHandler := slog.NewJSONHandler(file, opts)
	slog.SetDefault(slog.New(slogmulti.Fanout(stderrHandler, fileHandler)))

	return file.Close
}

// NewWithWriters builds a fan-out logger over custom writers (for tests).
func NewWithWriters(text, json io.Writer, level slog.Level) *slog.Logger {
	textHandler := slog.NewTextHandler(text, &slog.HandlerOptions{Level: level})
	jsonHandler := slog.NewJSONHandler(json, &slog.HandlerOptions{Level: level})
	return slog.New(slogmulti.Fanout(textHandler, jsonHandler))
}

// ParseLevel converts a string log level to slog.Level.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
