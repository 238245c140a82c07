// Package clog carries a structured logger inside a context.
package clog

import (
	"context"
	"log/slog"

	slogctx "github.com/veqryn/slog-context"
)

// Ctx returns the logger stored in ctx, or slog.Default.
func Ctx(ctx context.Context) *slog.Logger {
	return slogctx.FromCtx(ctx)
}

func WithCtx(ctx context.Context, logger *slog.Logger) context.Context {
	return slogctx.NewCtx(ctx, logger)
}

// WithAttrs returns a context whose logger records attrs on every entry.
func WithAttrs(ctx context.Context, attrs ...any) context.Context {
	return slogctx.With(ctx, attrs...)
}

// NewLoggerFromHandler wraps handler so that attributes appended to a context
// with slogctx.Append are included in the records.
func NewLoggerFromHandler(ctx context.Context, handler slog.Handler) (*slog.Logger, context.Context) {
	logger := slog.New(slogctx.NewHandler(handler, nil))
	return logger, slogctx.NewCtx(ctx, logger)
}
