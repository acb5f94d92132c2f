// Package usecase implements the cross-subdomain handoff: credential verification, tenant
// resolution, one-time token minting and redemption, and the expired-token sweep.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	handoffDomain "github.com/allisson/handoff/internal/handoff/domain"
)

// IdentityProvider verifies credentials against the central identity service.
type IdentityProvider interface {
	// Verify returns the identity for valid credentials. Implementations return
	// ErrInvalidCredentials for unknown accounts and wrong passwords alike,
	// ErrAccountLocked while the account is locked, and ErrServiceUnavailable when the
	// provider cannot be reached.
	Verify(ctx context.Context, email, password string) (*handoffDomain.Identity, error)
}

// AssertionVerifier checks an identity assertion presented in a session cookie.
type AssertionVerifier interface {
	// VerifyAssertion returns the user id the assertion was issued for. It returns
	// ErrSessionInvalid for expired, revoked or forged assertions.
	VerifyAssertion(ctx context.Context, assertion string) (userID string, err error)
}

// TenantDirectory resolves which company, and therefore which origin, a user belongs to.
type TenantDirectory interface {
	// LookupUser returns the user's membership or ErrMembershipNotFound.
	LookupUser(ctx context.Context, userID string) (*handoffDomain.Membership, error)

	// LookupCompany returns the company or ErrCompanyNotFound.
	LookupCompany(ctx context.Context, companyID uuid.UUID) (*handoffDomain.Company, error)
}

// TenantRepository is the persistent tenant directory, including the writes used by the
// administration commands. Implementations must support transaction-aware operations via
// context propagation.
type TenantRepository interface {
	TenantDirectory

	// CreateCompany stores a company. Returns ErrSubdomainTaken when the subdomain is in use.
	CreateCompany(ctx context.Context, company *handoffDomain.Company) error

	// GetCompanyBySubdomain returns the company or ErrCompanyNotFound.
	GetCompanyBySubdomain(ctx context.Context, subdomain string) (*handoffDomain.Company, error)

	// SaveMembership assigns the user to a company, replacing any previous assignment.
	SaveMembership(ctx context.Context, membership *handoffDomain.Membership) error
}

// TokenRepository persists handoff token records keyed by token hash.
type TokenRepository interface {
	// Create stores a new token record. A failed Create leaves nothing redeemable.
	Create(ctx context.Context, token *handoffDomain.HandoffToken) error

	// Consume atomically marks the record consumed if it is unconsumed and not expired at
	// now, and returns it. Of any number of concurrent callers for one hash, at most one
	// succeeds; every other caller, and every caller for an unknown or expired hash,
	// gets ErrTokenInvalidOrExpired.
	Consume(ctx context.Context, tokenHash string, now time.Time) (*handoffDomain.HandoffToken, error)

	// DeleteExpired removes records whose expiry is before the cutoff, consumed or not,
	// and returns how many were removed. With dryRun it only counts them.
	DeleteExpired(ctx context.Context, before time.Time, dryRun bool) (int64, error)
}

// TokenStore mints and redeems handoff tokens. Payloads are sealed so the backend alone
// cannot read them.
type TokenStore interface {
	// Mint persists payload behind a fresh token id valid for ttl and returns the id.
	Mint(ctx context.Context, payload handoffDomain.Payload, ttl time.Duration) (tokenID string, err error)

	// Redeem consumes tokenID and returns its payload. At most one call per token id
	// succeeds. Unknown, consumed, expired and malformed ids all yield
	// ErrTokenInvalidOrExpired.
	Redeem(ctx context.Context, tokenID string) (*handoffDomain.Payload, error)

	// Sweep deletes (or with dryRun counts) records that expired before olderThan.
	Sweep(ctx context.Context, olderThan time.Time, dryRun bool) (int64, error)
}

// HandoffUseCase is the sign-in and session transfer flow.
type HandoffUseCase interface {
	// Authenticate verifies credentials and resolves the user's tenant. When the request
	// host is the tenant origin it returns ModeDirect with the session to write;
	// otherwise it mints a token and returns ModeRedirect with the tenant's restore URL.
	//
	// Errors: ErrInvalidCredentials, ErrAccountLocked, ErrNoTenantAssigned,
	// ErrTenantMisconfigured, ErrUnknownRole, ErrServiceUnavailable.
	Authenticate(
		ctx context.Context,
		input *handoffDomain.AuthenticateInput,
	) (*handoffDomain.AuthenticateOutput, error)

	// EstablishSession verifies credentials and returns the session to write, but only
	// when the request host is the user's tenant origin. Any other host gets
	// ErrTenantMismatch and no token is minted.
	EstablishSession(
		ctx context.Context,
		input *handoffDomain.AuthenticateInput,
	) (*handoffDomain.AuthenticateOutput, error)

	// IssueToken verifies credentials and always mints a handoff token for the user's
	// tenant, regardless of the request host.
	IssueToken(
		ctx context.Context,
		input *handoffDomain.AuthenticateInput,
	) (*handoffDomain.IssueTokenOutput, error)

	// Restore redeems a token on the tenant origin. The token is consumed before the
	// origin is checked, so a token presented on the wrong origin is burned.
	//
	// Errors: ErrTokenInvalidOrExpired, ErrTenantMismatch, ErrUnknownRole,
	// ErrServiceUnavailable.
	Restore(ctx context.Context, input *handoffDomain.RestoreInput) (*handoffDomain.RestoreOutput, error)
}

// TenantUseCase manages the tenant directory from the administration commands.
type TenantUseCase interface {
	// CreateCompany registers a tenant under subdomain.
	CreateCompany(ctx context.Context, subdomain, name string) (*handoffDomain.Company, error)

	// AssignUser places the user in the company with role. The role must be one with a
	// dashboard.
	AssignUser(ctx context.Context, userID string, companyID uuid.UUID, role string) (*handoffDomain.Membership, error)
}
