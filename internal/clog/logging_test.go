package clog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"shape-caster/internal/clog"
)

func TestWithAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	_, ctx := clog.NewLoggerFromHandler(context.Background(), slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx = clog.WithAttrs(ctx, "type", "store.Order")

	clog.Ctx(ctx).Debug("description built", "members", 3)

	assert.Contains(t, buf.String(), "type=store.Order")
	assert.Contains(t, buf.String(), "members=3")
}

func TestCtx_DefaultLogger(t *testing.T) {
	t.Parallel()

	assert.NotNil(t, clog.Ctx(context.Background()))

	logger := slog.New(slog.DiscardHandler)
	assert.Same(t, logger, clog.Ctx(clog.WithCtx(context.Background(), logger)))
}
