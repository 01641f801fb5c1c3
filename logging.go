package makegtfs

import (
	"io"
	"log/slog"
)

// NewLogger creates a structured JSON logger writing to w.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// nopLogger returns a logger that discards everything, for callers that do
// not care about progress output.
func nopLogger() *slog.Logger {
	// slog.DiscardHandler requires Go 1.24; this is the equivalent for older toolchains.
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(127)}))
}
