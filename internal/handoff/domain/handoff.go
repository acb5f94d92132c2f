package domain

import "time"

// Mode tells the client how a successful sign-in continues.
type Mode string

const (
	// ModeDirect means the request already came from the tenant origin; cookies are set.
	ModeDirect Mode = "direct"
	// ModeRedirect means the client must navigate to the tenant's restore URL.
	ModeRedirect Mode = "redirect"
)

// AuthenticateInput carries submitted credentials and the origin they were submitted on.
type AuthenticateInput struct {
	Email      string
	Password   string
	Host       string
	RememberMe bool
}

// AuthenticateOutput is the result of a sign-in. Session is set only in ModeDirect and
// RedirectURL only in ModeRedirect.
type AuthenticateOutput struct {
	Mode          Mode
	DashboardPath string
	RedirectURL   string
	Session       *Session
}

// IssueTokenOutput is the result of an explicit cross-origin token mint.
type IssueTokenOutput struct {
	TokenID     string
	RedirectURL string
	ExpiresAt   time.Time
}

// RestoreInput carries a presented token id and the origin it was presented on.
type RestoreInput struct {
	TokenID string
	Host    string
}

// RestoreOutput is the session established on the tenant origin.
type RestoreOutput struct {
	Session *Session
}
