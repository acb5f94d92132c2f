package httputil

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestIDHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewRequestIDHandler(slog.NewJSONHandler(&buf, nil)))

	t.Run("Success_AddsRequestID", func(t *testing.T) {
		buf.Reset()
		ctx := WithRequestID(context.Background(), "req-123")

		logger.InfoContext(ctx, "hello")

		assert.Contains(t, buf.String(), `"request_id":"req-123"`)
		assert.Equal(t, "req-123", RequestID(ctx))
	})

	t.Run("Success_NoRequestID", func(t *testing.T) {
		buf.Reset()

		logger.InfoContext(context.Background(), "hello")

		assert.NotContains(t, buf.String(), "request_id")
	})

	t.Run("Success_KeepsAttrsAndGroups", func(t *testing.T) {
		buf.Reset()
		ctx := WithRequestID(context.Background(), "req-456")

		logger.With(slog.String("component", "handoff")).WithGroup("g").InfoContext(ctx, "hello", slog.Int("n", 1))

		assert.Contains(t, buf.String(), `"component":"handoff"`)
		assert.Contains(t, buf.String(), "req-456")
	})
}
