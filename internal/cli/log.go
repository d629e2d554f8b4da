package cli

import (
	"io"
	"log/slog"
)

// NewLogger returns the diagnostic logger. Quiet mode discards everything so
// that stdout carries only the bare result and stderr stays empty.
func NewLogger(w io.Writer, quiet bool, level slog.Level) *slog.Logger {
	if quiet {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
