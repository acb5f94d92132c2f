package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/handoff/internal/crypto/domain"
	cryptoService "github.com/allisson/handoff/internal/crypto/service"
	apperrors "github.com/allisson/handoff/internal/errors"
	handoffDomain "github.com/allisson/handoff/internal/handoff/domain"
	handoffService "github.com/allisson/handoff/internal/handoff/service"
	"github.com/allisson/handoff/internal/validation"
)

// tokenStore seals payloads under the token id and delegates persistence to a
// TokenRepository. Atomicity of redemption is the repository's job.
type tokenStore struct {
	repo         TokenRepository
	tokenService handoffService.TokenService
	sealer       cryptoService.TokenSealer
	now          func() time.Time
}

// NewTokenStore creates a TokenStore over repo.
func NewTokenStore(
	repo TokenRepository,
	tokenService handoffService.TokenService,
	sealer cryptoService.TokenSealer,
) TokenStore {
	return &tokenStore{
		repo:         repo,
		tokenService: tokenService,
		sealer:       sealer,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *tokenStore) Mint(ctx context.Context, payload handoffDomain.Payload, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, "handoff token ttl must be positive")
	}

	plaintext, err := json.Marshal(payload)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to encode handoff payload")
	}
	defer cryptoDomain.Zero(plaintext)

	tokenID, tokenHash, err := s.tokenService.GenerateToken()
	if err != nil {
		return "", err
	}

	sealed, nonce, err := s.sealer.Seal(tokenID, plaintext, []byte(tokenHash))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to seal handoff payload")
	}

	now := s.now()
	token := &handoffDomain.HandoffToken{
		ID:            uuid.Must(uuid.NewV7()),
		TokenHash:     tokenHash,
		SealedPayload: sealed,
		Nonce:         nonce,
		IssuedAt:      now,
		ExpiresAt:     now.Add(ttl),
	}

	if err := s.repo.Create(ctx, token); err != nil {
		return "", err
	}
	return tokenID, nil
}

func (s *tokenStore) Redeem(ctx context.Context, tokenID string) (*handoffDomain.Payload, error) {
	// Malformed ids cannot exist in the store; skip the round trip.
	if err := validation.HandoffTokenID.Validate(tokenID); err != nil {
		return nil, handoffDomain.ErrTokenInvalidOrExpired
	}

	tokenHash := s.tokenService.HashToken(tokenID)
	token, err := s.repo.Consume(ctx, tokenHash, s.now())
	if err != nil {
		return nil, err
	}

	plaintext, err := s.sealer.Open(tokenID, token.SealedPayload, token.Nonce, []byte(tokenHash))
	if err != nil {
		return nil, handoffDomain.ErrTokenInvalidOrExpired
	}
	defer cryptoDomain.Zero(plaintext)

	var payload handoffDomain.Payload
	if err := json.Unmarshal(plaintext, &payload); err != nil {
		return nil, handoffDomain.ErrTokenInvalidOrExpired
	}
	return &payload, nil
}

func (s *tokenStore) Sweep(ctx context.Context, olderThan time.Time, dryRun bool) (int64, error) {
	return s.repo.DeleteExpired(ctx, olderThan, dryRun)
}
