// Package kratos verifies credentials and session tokens against an Ory Kratos instance
// through its native (API) login flow.
package kratos

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	kratos "github.com/ory/kratos-client-go"

	handoffDomain "github.com/allisson/handoff/internal/handoff/domain"
)

// Provider is an IdentityProvider and AssertionVerifier backed by Kratos. The Kratos
// session token is the identity assertion.
type Provider struct {
	client *kratos.APIClient
	logger *slog.Logger
}

// NewProvider creates a Provider for the Kratos public API at publicURL. Every call is
// bounded by timeout.
func NewProvider(publicURL string, timeout time.Duration, logger *slog.Logger) *Provider {
	configuration := kratos.NewConfiguration()
	configuration.Servers = []kratos.ServerConfiguration{
		{
			URL: strings.TrimRight(publicURL, "/"),
		},
	}
	configuration.HTTPClient = &http.Client{
		Timeout: timeout,
	}

	return &Provider{
		client: kratos.NewAPIClient(configuration),
		logger: logger,
	}
}

// Verify runs a native password login flow and returns the session token as assertion.
func (p *Provider) Verify(ctx context.Context, email, password string) (*handoffDomain.Identity, error) {
	flow, resp, err := p.client.FrontendAPI.CreateNativeLoginFlow(ctx).Execute()
	if err != nil {
		return nil, p.unavailable("create login flow", resp, err)
	}

	body := kratos.UpdateLoginFlowWithPasswordMethod{
		Identifier: strings.TrimSpace(email),
		Password:   password,
		Method:     "password",
	}
	login, resp, err := p.client.FrontendAPI.
		UpdateLoginFlow(ctx).
		Flow(flow.GetId()).
		UpdateLoginFlowBody(kratos.UpdateLoginFlowWithPasswordMethodAsUpdateLoginFlowBody(&body)).
		Execute()
	if err != nil {
		return nil, p.classifyLogin(resp, err)
	}

	token := login.GetSessionToken()
	session := login.GetSession()
	identity := session.GetIdentity()
	if token == "" || identity.GetId() == "" {
		p.logger.Error("kratos login returned no session token or identity")
		return nil, handoffDomain.ErrServiceUnavailable
	}

	return &handoffDomain.Identity{
		UserID:    identity.GetId(),
		Email:     traitEmail(identity.GetTraits(), email),
		Assertion: token,
	}, nil
}

// VerifyAssertion resolves a session token to the identity it belongs to.
func (p *Provider) VerifyAssertion(ctx context.Context, assertion string) (string, error) {
	if assertion == "" {
		return "", handoffDomain.ErrSessionInvalid
	}

	session, resp, err := p.client.FrontendAPI.ToSession(ctx).XSessionToken(assertion).Execute()
	if err != nil {
		if resp != nil && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
			return "", handoffDomain.ErrSessionInvalid
		}
		return "", p.unavailable("whoami", resp, err)
	}

	if !session.GetActive() {
		return "", handoffDomain.ErrSessionInvalid
	}
	identity := session.GetIdentity()
	if identity.GetId() == "" {
		return "", handoffDomain.ErrSessionInvalid
	}
	return identity.GetId(), nil
}

// classifyLogin maps a failed login submission. Kratos answers a bad password on the
// native flow with 400 and the flow's error messages.
func (p *Provider) classifyLogin(resp *http.Response, err error) error {
	if resp != nil {
		switch resp.StatusCode {
		case http.StatusBadRequest, http.StatusUnauthorized:
			return handoffDomain.ErrInvalidCredentials
		case http.StatusTooManyRequests:
			return handoffDomain.ErrAccountLocked
		}
	}
	return p.unavailable("submit login flow", resp, err)
}

func (p *Provider) unavailable(operation string, resp *http.Response, err error) error {
	attrs := []any{slog.String("operation", operation), slog.Any("error", err)}
	if resp != nil {
		attrs = append(attrs, slog.Int("status", resp.StatusCode))
	}
	p.logger.Error("kratos request failed", attrs...)
	return handoffDomain.ErrServiceUnavailable
}

func traitEmail(traits any, fallback string) string {
	if m, ok := traits.(map[string]any); ok {
		if email, ok := m["email"].(string); ok && email != "" {
			return email
		}
	}
	return strings.ToLower(strings.TrimSpace(fallback))
}
