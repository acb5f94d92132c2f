package domain

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// HandoffToken is the stored record behind a one-time handoff token. The plain token id
// is never stored: TokenHash is its SHA-256 and the payload is sealed under a key derived
// from it.
type HandoffToken struct {
	ID            uuid.UUID
	TokenHash     string
	SealedPayload []byte
	Nonce         []byte
	IssuedAt      time.Time
	ExpiresAt     time.Time
	ConsumedAt    *time.Time
}

// Redeemable reports whether the token is unconsumed and strictly before its expiry.
func (t *HandoffToken) Redeemable(now time.Time) bool {
	return t.ConsumedAt == nil && now.Before(t.ExpiresAt)
}

// Payload is the identity transferred from the verifying origin to the tenant origin.
type Payload struct {
	IdentityAssertion string `json:"identity_assertion"`
	UserID            string `json:"user_id"`
	Email             string `json:"email"`
	Role              Role   `json:"role"`
	TenantSubdomain   string `json:"tenant_subdomain"`
	RememberMe        bool   `json:"remember_me"`
}

// LogValue implements slog.LogValuer so a payload passed to a logger never prints the
// assertion or email.
func (p Payload) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("user_id", p.UserID),
		slog.String("tenant", p.TenantSubdomain),
	)
}
