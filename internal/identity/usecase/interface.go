// Package usecase implements the local identity provider: password sign-in with account
// lockout, assertion issuance and account provisioning.
package usecase

import (
	"context"

	"github.com/allisson/handoff/internal/identity/domain"
)

// AccountRepository persists local accounts. Implementations must support
// transaction-aware operations via context propagation.
type AccountRepository interface {
	// Create stores a new account. Returns ErrAccountAlreadyExists for a taken email.
	Create(ctx context.Context, account *domain.Account) error

	// GetByEmail returns the account or ErrAccountNotFound.
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)

	// UpdateLockout persists FailedAttempts, LockedUntil and UpdatedAt.
	UpdateLockout(ctx context.Context, account *domain.Account) error
}

// AssertionService signs identity assertions for verified accounts and checks them when
// they come back in a session cookie.
type AssertionService interface {
	Issue(userID, email string) (string, error)
	VerifyAssertion(ctx context.Context, assertion string) (userID string, err error)
}

// AccountUseCase provisions local accounts.
type AccountUseCase interface {
	// CreateAccount validates and stores a new account with a hashed password.
	CreateAccount(ctx context.Context, email, password string) (*domain.Account, error)
}
