package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/allisson/handoff/internal/errors"
	handoffDomain "github.com/allisson/handoff/internal/handoff/domain"
)

// timeoutTokenStore bounds every call to the wrapped store. A call that runs out of time
// fails with ErrServiceUnavailable; callers never wait on a hung backend.
type timeoutTokenStore struct {
	next    TokenStore
	timeout time.Duration
}

// NewTimeoutTokenStore wraps store with a per-call timeout. A non-positive timeout
// returns store unchanged.
func NewTimeoutTokenStore(store TokenStore, timeout time.Duration) TokenStore {
	if timeout <= 0 {
		return store
	}
	return &timeoutTokenStore{next: store, timeout: timeout}
}

func (s *timeoutTokenStore) Mint(
	ctx context.Context,
	payload handoffDomain.Payload,
	ttl time.Duration,
) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	tokenID, err := s.next.Mint(ctx, payload, ttl)
	return tokenID, s.classify(ctx, err)
}

func (s *timeoutTokenStore) Redeem(ctx context.Context, tokenID string) (*handoffDomain.Payload, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	payload, err := s.next.Redeem(ctx, tokenID)
	if err != nil {
		return nil, s.classify(ctx, err)
	}
	return payload, nil
}

func (s *timeoutTokenStore) Sweep(ctx context.Context, olderThan time.Time, dryRun bool) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	count, err := s.next.Sweep(ctx, olderThan, dryRun)
	return count, s.classify(ctx, err)
}

// classify turns a timeout into ErrServiceUnavailable. Drivers do not always surface
// context.DeadlineExceeded, so the context itself is consulted too.
func (s *timeoutTokenStore) classify(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if apperrors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("token store timed out: %w: %w", handoffDomain.ErrServiceUnavailable, err)
	}
	return err
}

// timeoutTenantDirectory bounds directory lookups the same way timeoutTokenStore bounds
// the store.
type timeoutTenantDirectory struct {
	next    TenantDirectory
	timeout time.Duration
}

// NewTimeoutTenantDirectory wraps directory with a per-call timeout. A non-positive
// timeout returns directory unchanged.
func NewTimeoutTenantDirectory(directory TenantDirectory, timeout time.Duration) TenantDirectory {
	if timeout <= 0 {
		return directory
	}
	return &timeoutTenantDirectory{next: directory, timeout: timeout}
}

func (d *timeoutTenantDirectory) LookupUser(ctx context.Context, userID string) (*handoffDomain.Membership, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	membership, err := d.next.LookupUser(ctx, userID)
	if err != nil {
		return nil, directoryTimeout(ctx, err)
	}
	return membership, nil
}

func (d *timeoutTenantDirectory) LookupCompany(
	ctx context.Context,
	companyID uuid.UUID,
) (*handoffDomain.Company, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	company, err := d.next.LookupCompany(ctx, companyID)
	if err != nil {
		return nil, directoryTimeout(ctx, err)
	}
	return company, nil
}

func directoryTimeout(ctx context.Context, err error) error {
	if apperrors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("tenant directory timed out: %w: %w", handoffDomain.ErrServiceUnavailable, err)
	}
	return err
}
