// Package http provides the HTTP handlers, session cookies and middleware of the handoff
// flow.
package http

import (
	"net/http"
	"time"

	handoffDomain "github.com/allisson/handoff/internal/handoff/domain"
)

// Session cookie names.
const (
	SessionCookieName = "handoff_session"
	UserIDCookieName  = "handoff_user_id"
	RoleCookieName    = "handoff_role"
	TenantCookieName  = "handoff_tenant"
)

var sessionCookieNames = []string{SessionCookieName, UserIDCookieName, RoleCookieName, TenantCookieName}

// SessionCookieWriter renders a tenant session as host-only cookies. Cookies never carry
// a Domain attribute, so a session written on one tenant origin is invisible to every
// other origin.
type SessionCookieWriter struct {
	secure bool
}

// NewSessionCookieWriter creates a SessionCookieWriter. secure sets the Secure attribute
// and should only be false for local plain-HTTP development.
func NewSessionCookieWriter(secure bool) *SessionCookieWriter {
	return &SessionCookieWriter{secure: secure}
}

// Write sets the four session cookies for the current host.
func (w *SessionCookieWriter) Write(rw http.ResponseWriter, session *handoffDomain.Session) {
	maxAge := int(session.MaxAge / time.Second)
	values := map[string]string{
		SessionCookieName: session.Assertion,
		UserIDCookieName:  session.UserID,
		RoleCookieName:    string(session.Role),
		TenantCookieName:  session.TenantSubdomain,
	}
	for _, name := range sessionCookieNames {
		http.SetCookie(rw, w.cookie(name, values[name], maxAge, session.ExpiresAt))
	}
}

// Clear expires every session cookie.
func (w *SessionCookieWriter) Clear(rw http.ResponseWriter) {
	for _, name := range sessionCookieNames {
		http.SetCookie(rw, w.cookie(name, "", -1, time.Unix(0, 0)))
	}
}

func (w *SessionCookieWriter) cookie(name, value string, maxAge int, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Expires:  expires.UTC(),
		HttpOnly: true,
		Secure:   w.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// sessionCookies is what a request presents back.
type sessionCookies struct {
	assertion string
	userID    string
	tenant    string
}

// readSessionCookies returns the session cookies, or false when any required one is
// missing or empty. The role cookie is informational and not read back.
func readSessionCookies(r *http.Request) (sessionCookies, bool) {
	var sc sessionCookies
	for name, dst := range map[string]*string{
		SessionCookieName: &sc.assertion,
		UserIDCookieName:  &sc.userID,
		TenantCookieName:  &sc.tenant,
	} {
		cookie, err := r.Cookie(name)
		if err != nil || cookie.Value == "" {
			return sessionCookies{}, false
		}
		*dst = cookie.Value
	}
	return sc, true
}
