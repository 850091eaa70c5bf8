// Package logger builds the slog loggers used across the CLI. Commands that
// render to stdout log to a file (the TUI owns the terminal) or discard logs
// entirely.
package logger

import (
	"io"
	"log/slog"
	"os"
)

// New returns a logger writing structured text logs to the named file. The
// caller owns the returned file handle and closes it on shutdown.
func New(path string, level slog.Level) (*slog.Logger, *os.File, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}

	handler := slog.NewTextHandler(file, &slog.HandlerOptions{
		Level: level,
	})

	return slog.New(handler), file, nil
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
