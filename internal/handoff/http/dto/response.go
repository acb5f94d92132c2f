package dto

import (
	"time"

	handoffDomain "github.com/allisson/handoff/internal/handoff/domain"
)

// SignInResponse tells the client how sign-in continues: in direct mode cookies are
// already set and the client goes to DashboardPath, in redirect mode it navigates to
// RedirectURL.
type SignInResponse struct {
	Mode          string `json:"mode"`
	DashboardPath string `json:"dashboard_path,omitempty"`
	RedirectURL   string `json:"redirect_url,omitempty"`
}

// MapAuthenticateOutputToResponse converts a use case result to a SignInResponse.
func MapAuthenticateOutputToResponse(output *handoffDomain.AuthenticateOutput) SignInResponse {
	if output.Mode == handoffDomain.ModeRedirect {
		return SignInResponse{Mode: string(output.Mode), RedirectURL: output.RedirectURL}
	}
	return SignInResponse{Mode: string(output.Mode), DashboardPath: output.DashboardPath}
}

// IssueTokenResponse is returned by the explicit token mint endpoint.
type IssueTokenResponse struct {
	TokenID     string    `json:"token_id"`
	RedirectURL string    `json:"redirect_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// RestoreResponse is returned to JSON clients of the session-restore endpoint.
type RestoreResponse struct {
	DashboardPath string `json:"dashboard_path"`
}

// MeResponse describes the current session.
type MeResponse struct {
	UserID        string `json:"user_id"`
	Role          string `json:"role"`
	Tenant        string `json:"tenant"`
	DashboardPath string `json:"dashboard_path"`
}
