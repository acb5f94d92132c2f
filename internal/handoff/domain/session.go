package domain

import "time"

// SessionPolicy holds the cookie lifetimes. It is the only session policy knob.
type SessionPolicy struct {
	TTL           time.Duration
	RememberMeTTL time.Duration
}

// MaxAge returns the session lifetime for the remember-me choice.
func (p SessionPolicy) MaxAge(rememberMe bool) time.Duration {
	if rememberMe {
		return p.RememberMeTTL
	}
	return p.TTL
}

// Session is the tenant session written as host-only cookies on the tenant origin. Both
// the direct path and the restore path build it through NewSession, so the two produce
// identical cookies for the same identity.
type Session struct {
	Assertion       string
	UserID          string
	Role            Role
	TenantSubdomain string
	DashboardPath   string
	MaxAge          time.Duration
	ExpiresAt       time.Time
}

// NewSession builds the session for payload. It fails with ErrUnknownRole when the role
// has no dashboard.
func NewSession(payload Payload, policy SessionPolicy, now time.Time) (*Session, error) {
	path, err := DashboardPath(payload.Role)
	if err != nil {
		return nil, err
	}

	maxAge := policy.MaxAge(payload.RememberMe)
	return &Session{
		Assertion:       payload.IdentityAssertion,
		UserID:          payload.UserID,
		Role:            payload.Role,
		TenantSubdomain: payload.TenantSubdomain,
		DashboardPath:   path,
		MaxAge:          maxAge,
		ExpiresAt:       now.Add(maxAge),
	}, nil
}
