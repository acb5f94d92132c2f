// Package repository implements handoff token and tenant directory persistence for
// PostgreSQL, MySQL, Redis and process memory.
package repository

import (
	"context"
	"sync"
	"time"

	apperrors "github.com/allisson/handoff/internal/errors"
	handoffDomain "github.com/allisson/handoff/internal/handoff/domain"
)

// MemoryTokenRepository keeps handoff tokens in a mutex-guarded map. It is only correct
// for a single process and is meant for local development and tests.
type MemoryTokenRepository struct {
	mu     sync.Mutex
	tokens map[string]handoffDomain.HandoffToken
}

// NewMemoryTokenRepository creates an empty in-memory token repository.
func NewMemoryTokenRepository() *MemoryTokenRepository {
	return &MemoryTokenRepository{tokens: make(map[string]handoffDomain.HandoffToken)}
}

// Create stores token. Returns ErrConflict if the hash is already present.
func (m *MemoryTokenRepository) Create(_ context.Context, token *handoffDomain.HandoffToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.tokens[token.TokenHash]; exists {
		return apperrors.Wrap(apperrors.ErrConflict, "handoff token already exists")
	}
	m.tokens[token.TokenHash] = *token
	return nil
}

// Consume marks the token consumed under the lock, so the check and the set are one step.
func (m *MemoryTokenRepository) Consume(
	_ context.Context,
	tokenHash string,
	now time.Time,
) (*handoffDomain.HandoffToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	token, ok := m.tokens[tokenHash]
	if !ok || !token.Redeemable(now) {
		return nil, handoffDomain.ErrTokenInvalidOrExpired
	}

	consumedAt := now
	token.ConsumedAt = &consumedAt
	m.tokens[tokenHash] = token
	return &token, nil
}

// DeleteExpired removes (or counts) tokens that expired before the cutoff.
func (m *MemoryTokenRepository) DeleteExpired(_ context.Context, before time.Time, dryRun bool) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var count int64
	for hash, token := range m.tokens {
		if !token.ExpiresAt.Before(before) {
			continue
		}
		count++
		if !dryRun {
			delete(m.tokens, hash)
		}
	}
	return count, nil
}

// Len returns the number of stored tokens.
func (m *MemoryTokenRepository) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tokens)
}
