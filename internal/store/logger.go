package store

import (
	"context"
	"log/slog"
)

type loggerKey struct{}

// WithLogger returns a context whose Load and Save calls log to l.
func WithLogger(ctx context.Context, l *slog.Logger) context.Context {
	if l == nil {
		return ctx
	}
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFrom returns the logger set by WithLogger, or slog.Default().
func loggerFrom(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}
