package config

import (
	"context"
	"io"
	"log/slog"
)

// nopHandler discards every record; Enabled returns false so callers skip
// formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// NopLogger returns a logger that discards all output.
func NopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// OrNop returns l, or NopLogger() when l is nil.
func OrNop(l *slog.Logger) *slog.Logger {
	if l == nil {
		return NopLogger()
	}

	return l
}

// Level maps a verbosity to a slog level: 0 warn, 1 info, 2+ debug.
// Negative verbosity silences everything below error.
func Level(verbosity int) slog.Level {
	switch {
	case verbosity < 0:
		return slog.LevelError
	case verbosity == 0:
		return slog.LevelWarn
	case verbosity == 1:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

// NewLogger returns a text logger writing to w at Level(verbosity). A nil
// writer yields NopLogger().
func NewLogger(verbosity int, w io.Writer) *slog.Logger {
	if w == nil {
		return NopLogger()
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: Level(verbosity)}))
}
