package domain

import (
	"fmt"

	"github.com/allisson/handoff/internal/errors"
)

// Handoff errors. Each carries a stable code returned to clients; the kind decides the
// HTTP status.
var (
	// ErrInvalidCredentials is returned for unknown accounts and wrong passwords alike.
	ErrInvalidCredentials = errors.NewCoded(
		errors.ErrUnauthorized, "invalid_credentials", "invalid email or password",
	)

	// ErrAccountLocked is returned while the identity provider refuses sign-in attempts.
	ErrAccountLocked = errors.NewCoded(
		errors.ErrLocked, "account_locked", "account is temporarily locked",
	)

	// ErrNoTenantAssigned means the verified user belongs to no company.
	ErrNoTenantAssigned = errors.NewCoded(
		errors.ErrInvalidInput, "no_tenant_assigned", "user is not assigned to a company",
	)

	// ErrTenantMisconfigured means the user's company is missing or has no subdomain.
	ErrTenantMisconfigured = errors.NewCoded(
		errors.ErrInternal, "tenant_misconfigured", "company has no subdomain configured",
	)

	// ErrUnknownRole means the user's role maps to no dashboard.
	ErrUnknownRole = errors.NewCoded(
		errors.ErrInvalidInput, "unknown_role", "role has no dashboard",
	)

	// ErrTokenInvalidOrExpired covers unknown, consumed and expired handoff tokens. The
	// client must restart sign-in.
	ErrTokenInvalidOrExpired = errors.NewCoded(
		errors.ErrInvalidInput, "token_invalid_or_expired", "handoff token is invalid or expired",
	)

	// ErrTenantMismatch means a handoff token or session was presented on an origin
	// other than the tenant it was issued for.
	ErrTenantMismatch = errors.NewCoded(
		errors.ErrInvalidInput, "tenant_mismatch", "request origin does not match the tenant",
	)

	// ErrServiceUnavailable means a collaborator could not be reached; the call may be
	// retried.
	ErrServiceUnavailable = errors.NewCoded(
		errors.ErrUnavailable, "service_unavailable", "authentication service is temporarily unavailable",
	)

	// ErrSessionInvalid means the session cookies are missing or their assertion no
	// longer verifies.
	ErrSessionInvalid = errors.NewCoded(
		errors.ErrUnauthorized, "session_invalid", "session is missing or invalid",
	)
)

// Tenant directory errors.
var (
	// ErrCompanyNotFound indicates no company has the requested id or subdomain.
	ErrCompanyNotFound = errors.Wrap(errors.ErrNotFound, "company not found")

	// ErrMembershipNotFound indicates the user is not assigned to any company.
	ErrMembershipNotFound = errors.Wrap(errors.ErrNotFound, "membership not found")

	// ErrSubdomainTaken indicates another company already uses the subdomain.
	ErrSubdomainTaken = errors.Wrap(errors.ErrConflict, "subdomain already in use")

	// ErrSubdomainReserved indicates the subdomain belongs to the service itself.
	ErrSubdomainReserved = errors.Wrap(errors.ErrInvalidInput, "subdomain is reserved")
)

// handoffErrors are the errors that may leave the handoff use case unchanged.
var handoffErrors = []error{
	ErrInvalidCredentials,
	ErrAccountLocked,
	ErrNoTenantAssigned,
	ErrTenantMisconfigured,
	ErrUnknownRole,
	ErrTokenInvalidOrExpired,
	ErrTenantMismatch,
	ErrServiceUnavailable,
	ErrSessionInvalid,
}

// Classify returns err unchanged when it already is a handoff error. Anything else,
// including context deadlines and driver failures, becomes ErrServiceUnavailable with the
// original error kept in the chain for logging.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	for _, known := range handoffErrors {
		if errors.Is(err, known) {
			return err
		}
	}
	return fmt.Errorf("%w: %w", ErrServiceUnavailable, err)
}

// ErrorCode returns the stable code of a handoff error, or "internal_error".
func ErrorCode(err error) string {
	var coded *errors.CodedError
	if errors.As(err, &coded) {
		return coded.Code
	}
	return "internal_error"
}
