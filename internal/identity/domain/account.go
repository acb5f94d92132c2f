// Package domain defines the local identity provider's accounts.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/allisson/handoff/internal/errors"
)

// Account is a locally managed identity. The account id doubles as the user id that the
// tenant directory's memberships refer to.
type Account struct {
	ID             uuid.UUID
	Email          string
	PasswordHash   string
	FailedAttempts int
	LockedUntil    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Locked reports whether sign-in is refused at now.
func (a *Account) Locked(now time.Time) bool {
	return a.LockedUntil != nil && now.Before(*a.LockedUntil)
}

// RecordFailure counts a failed sign-in. When the count reaches maxAttempts the account is
// locked for lockout and the counter restarts. It reports whether the account got locked.
func (a *Account) RecordFailure(now time.Time, maxAttempts int, lockout time.Duration) bool {
	a.FailedAttempts++
	a.UpdatedAt = now
	if maxAttempts <= 0 || a.FailedAttempts < maxAttempts {
		return false
	}
	lockedUntil := now.Add(lockout)
	a.LockedUntil = &lockedUntil
	a.FailedAttempts = 0
	return true
}

// RecordSuccess clears failure tracking. It reports whether anything changed.
func (a *Account) RecordSuccess(now time.Time) bool {
	if a.FailedAttempts == 0 && a.LockedUntil == nil {
		return false
	}
	a.FailedAttempts = 0
	a.LockedUntil = nil
	a.UpdatedAt = now
	return true
}

// Account errors.
var (
	// ErrAccountNotFound indicates no account has the requested email.
	ErrAccountNotFound = errors.Wrap(errors.ErrNotFound, "account not found")

	// ErrAccountAlreadyExists indicates an account with the same email already exists.
	ErrAccountAlreadyExists = errors.Wrap(errors.ErrConflict, "account already exists")
)
