package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	apperrors "github.com/allisson/handoff/internal/errors"
	handoffDomain "github.com/allisson/handoff/internal/handoff/domain"
)

const handoffTokenKeyPrefix = "handoff:token:"

// RedisTokenRepository stores handoff tokens as Redis keys that expire with the token.
// GETDEL reads and removes a key in one command, which gives at-most-once redemption
// without a consumed flag.
type RedisTokenRepository struct {
	client goredis.UniversalClient
	now    func() time.Time
}

// NewRedisTokenRepository creates a Redis handoff token repository.
func NewRedisTokenRepository(client goredis.UniversalClient) *RedisTokenRepository {
	return &RedisTokenRepository{
		client: client,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

type redisTokenRecord struct {
	ID            uuid.UUID `json:"id"`
	SealedPayload []byte    `json:"sealed_payload"`
	Nonce         []byte    `json:"nonce"`
	IssuedAt      time.Time `json:"issued_at"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// Create stores token with a key TTL matching its remaining lifetime. SETNX guards
// against overwriting a record with the same hash.
func (r *RedisTokenRepository) Create(ctx context.Context, token *handoffDomain.HandoffToken) error {
	ttl := token.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "handoff token already expired")
	}

	data, err := json.Marshal(redisTokenRecord{
		ID:            token.ID,
		SealedPayload: token.SealedPayload,
		Nonce:         token.Nonce,
		IssuedAt:      token.IssuedAt,
		ExpiresAt:     token.ExpiresAt,
	})
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal handoff token")
	}

	created, err := r.client.SetNX(ctx, handoffTokenKeyPrefix+token.TokenHash, data, ttl).Result()
	if err != nil {
		return apperrors.Wrap(err, "failed to create handoff token")
	}
	if !created {
		return apperrors.Wrap(apperrors.ErrConflict, "handoff token already exists")
	}
	return nil
}

// Consume removes the key with GETDEL and re-checks expiry against now, since key
// expiry in Redis is not exact to the millisecond.
func (r *RedisTokenRepository) Consume(
	ctx context.Context,
	tokenHash string,
	now time.Time,
) (*handoffDomain.HandoffToken, error) {
	data, err := r.client.GetDel(ctx, handoffTokenKeyPrefix+tokenHash).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, handoffDomain.ErrTokenInvalidOrExpired
		}
		return nil, apperrors.Wrap(err, "failed to consume handoff token")
	}

	var record redisTokenRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal handoff token")
	}

	token := &handoffDomain.HandoffToken{
		ID:            record.ID,
		TokenHash:     tokenHash,
		SealedPayload: record.SealedPayload,
		Nonce:         record.Nonce,
		IssuedAt:      record.IssuedAt,
		ExpiresAt:     record.ExpiresAt,
	}
	if !token.Redeemable(now) {
		return nil, handoffDomain.ErrTokenInvalidOrExpired
	}

	consumedAt := now
	token.ConsumedAt = &consumedAt
	return token, nil
}

// DeleteExpired is a no-op: Redis evicts token keys when their TTL elapses.
func (r *RedisTokenRepository) DeleteExpired(context.Context, time.Time, bool) (int64, error) {
	return 0, nil
}
