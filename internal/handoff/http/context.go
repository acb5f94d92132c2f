package http

import (
	"context"

	handoffDomain "github.com/allisson/handoff/internal/handoff/domain"
)

// SessionInfo is the verified session of the current request.
type SessionInfo struct {
	UserID        string
	Role          handoffDomain.Role
	Tenant        string
	DashboardPath string
}

type sessionKey struct{}

// WithSession stores a verified session in the context.
func WithSession(ctx context.Context, session *SessionInfo) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

// GetSession retrieves the verified session stored by SessionMiddleware.
func GetSession(ctx context.Context) (*SessionInfo, bool) {
	session, ok := ctx.Value(sessionKey{}).(*SessionInfo)
	return session, ok
}
