package commands

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	handoffMocks "github.com/allisson/handoff/internal/handoff/usecase/mocks"
)

func TestRunCleanHandoffTokens(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("text-output", func(t *testing.T) {
		mockStore := &handoffMocks.MockTokenStore{}
		before := time.Now().UTC().Add(-time.Hour)
		mockStore.On("Sweep", ctx, mock.MatchedBy(func(olderThan time.Time) bool {
			return !olderThan.Before(before) && olderThan.Before(time.Now().UTC().Add(-59*time.Minute))
		}), false).Return(int64(10), nil)

		var out bytes.Buffer
		err := RunCleanHandoffTokens(ctx, mockStore, logger, &out, 3600, false, "text")

		require.NoError(t, err)
		require.Contains(t, out.String(), "Successfully deleted 10 handoff token(s)")
		mockStore.AssertExpectations(t)
	})

	t.Run("json-output", func(t *testing.T) {
		mockStore := &handoffMocks.MockTokenStore{}
		mockStore.On("Sweep", ctx, mock.AnythingOfType("time.Time"), true).Return(int64(5), nil)

		var out bytes.Buffer
		err := RunCleanHandoffTokens(ctx, mockStore, logger, &out, 0, true, "json")

		require.NoError(t, err)
		require.Contains(t, out.String(), `"count": 5`)
		require.Contains(t, out.String(), `"dry_run": true`)
		mockStore.AssertExpectations(t)
	})

	t.Run("store-error", func(t *testing.T) {
		mockStore := &handoffMocks.MockTokenStore{}
		mockStore.On("Sweep", ctx, mock.AnythingOfType("time.Time"), false).
			Return(int64(0), errors.New("connection refused"))

		err := RunCleanHandoffTokens(ctx, mockStore, logger, &bytes.Buffer{}, 0, false, "text")

		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to clean handoff tokens")
	})

	t.Run("negative-retention", func(t *testing.T) {
		mockStore := &handoffMocks.MockTokenStore{}
		err := RunCleanHandoffTokens(ctx, mockStore, logger, &bytes.Buffer{}, -1, false, "text")

		require.Error(t, err)
		require.Contains(t, err.Error(), "must not be negative")
		mockStore.AssertNotCalled(t, "Sweep")
	})

	t.Run("invalid-format", func(t *testing.T) {
		mockStore := &handoffMocks.MockTokenStore{}
		err := RunCleanHandoffTokens(ctx, mockStore, logger, &bytes.Buffer{}, 0, false, "yaml")

		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid format")
	})
}
