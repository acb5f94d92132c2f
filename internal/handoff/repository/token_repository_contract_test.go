package repository

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	handoffDomain "github.com/allisson/handoff/internal/handoff/domain"
	"github.com/allisson/handoff/internal/handoff/usecase"
)

func newTestToken(t *testing.T, issuedAt time.Time, ttl time.Duration) *handoffDomain.HandoffToken {
	t.Helper()

	hash := make([]byte, 32)
	_, err := rand.Read(hash)
	require.NoError(t, err)

	return &handoffDomain.HandoffToken{
		ID:            uuid.Must(uuid.NewV7()),
		TokenHash:     hex.EncodeToString(hash),
		SealedPayload: []byte("sealed-payload"),
		Nonce:         []byte("0123456789abcdefghijklmn"),
		IssuedAt:      issuedAt,
		ExpiresAt:     issuedAt.Add(ttl),
	}
}

// testTokenRepository runs the behaviour every TokenRepository must share. sweeps is false
// for backends that expire records on their own.
func testTokenRepository(t *testing.T, newRepo func(t *testing.T) usecase.TokenRepository, sweeps bool) {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	t.Run("Success_ConsumeOnce", func(t *testing.T) {
		repo := newRepo(t)
		token := newTestToken(t, now, time.Minute)
		require.NoError(t, repo.Create(ctx, token))

		consumed, err := repo.Consume(ctx, token.TokenHash, now.Add(time.Second))
		require.NoError(t, err)
		assert.Equal(t, token.ID, consumed.ID)
		assert.Equal(t, token.TokenHash, consumed.TokenHash)
		assert.Equal(t, token.SealedPayload, consumed.SealedPayload)
		assert.Equal(t, token.Nonce, consumed.Nonce)
		assert.WithinDuration(t, token.ExpiresAt, consumed.ExpiresAt, time.Millisecond)
		require.NotNil(t, consumed.ConsumedAt)

		_, err = repo.Consume(ctx, token.TokenHash, now.Add(2*time.Second))
		assert.ErrorIs(t, err, handoffDomain.ErrTokenInvalidOrExpired)
	})

	t.Run("Error_UnknownHash", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.Consume(ctx, "unknown", now)
		assert.ErrorIs(t, err, handoffDomain.ErrTokenInvalidOrExpired)
	})

	t.Run("Error_Expired", func(t *testing.T) {
		repo := newRepo(t)
		token := newTestToken(t, now, time.Minute)
		require.NoError(t, repo.Create(ctx, token))

		_, err := repo.Consume(ctx, token.TokenHash, now.Add(2*time.Minute))
		assert.ErrorIs(t, err, handoffDomain.ErrTokenInvalidOrExpired)
	})

	t.Run("Error_ExpiredAtExactDeadline", func(t *testing.T) {
		repo := newRepo(t)
		token := newTestToken(t, now, time.Minute)
		require.NoError(t, repo.Create(ctx, token))

		_, err := repo.Consume(ctx, token.TokenHash, token.ExpiresAt)
		assert.ErrorIs(t, err, handoffDomain.ErrTokenInvalidOrExpired)
	})

	t.Run("Success_ConcurrentConsumeHasOneWinner", func(t *testing.T) {
		repo := newRepo(t)
		token := newTestToken(t, now, time.Minute)
		require.NoError(t, repo.Create(ctx, token))

		const callers = 16
		var wins, losses atomic.Int32
		var wg sync.WaitGroup
		start := make(chan struct{})

		for range callers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				_, err := repo.Consume(ctx, token.TokenHash, now.Add(time.Second))
				switch {
				case err == nil:
					wins.Add(1)
				case assert.ErrorIs(t, err, handoffDomain.ErrTokenInvalidOrExpired):
					losses.Add(1)
				}
			}()
		}
		close(start)
		wg.Wait()

		assert.Equal(t, int32(1), wins.Load())
		assert.Equal(t, int32(callers-1), losses.Load())
	})

	if !sweeps {
		return
	}

	t.Run("Success_DeleteExpired", func(t *testing.T) {
		repo := newRepo(t)
		expired := newTestToken(t, now.Add(-time.Hour), time.Minute)
		consumedExpired := newTestToken(t, now.Add(-time.Hour), time.Minute)
		live := newTestToken(t, now, time.Minute)
		for _, token := range []*handoffDomain.HandoffToken{expired, consumedExpired, live} {
			require.NoError(t, repo.Create(ctx, token))
		}
		_, err := repo.Consume(ctx, consumedExpired.TokenHash, now.Add(-time.Hour+time.Second))
		require.NoError(t, err)

		count, err := repo.DeleteExpired(ctx, now, true)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		count, err = repo.DeleteExpired(ctx, now, false)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		count, err = repo.DeleteExpired(ctx, now, true)
		require.NoError(t, err)
		assert.Zero(t, count)

		_, err = repo.Consume(ctx, live.TokenHash, now.Add(time.Second))
		assert.NoError(t, err)
	})
}
