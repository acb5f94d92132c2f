package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/allisson/handoff/internal/config"
	apperrors "github.com/allisson/handoff/internal/errors"
	handoffDomain "github.com/allisson/handoff/internal/handoff/domain"
)

// auditEvent tags log records that describe security-relevant handoff outcomes.
const auditEvent = "handoff.audit"

type handoffUseCase struct {
	config    *config.Config
	identity  IdentityProvider
	directory TenantDirectory
	store     TokenStore
	policy    handoffDomain.SessionPolicy
	logger    *slog.Logger
	now       func() time.Time
}

// NewHandoffUseCase creates the HandoffUseCase. store should already carry the per-call
// timeout (see NewTimeoutTokenStore).
func NewHandoffUseCase(
	cfg *config.Config,
	identity IdentityProvider,
	directory TenantDirectory,
	store TokenStore,
	logger *slog.Logger,
) HandoffUseCase {
	return &handoffUseCase{
		config:    cfg,
		identity:  identity,
		directory: directory,
		store:     store,
		policy: handoffDomain.SessionPolicy{
			TTL:           cfg.SessionTTL,
			RememberMeTTL: cfg.SessionRememberMeTTL,
		},
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (h *handoffUseCase) Authenticate(
	ctx context.Context,
	input *handoffDomain.AuthenticateInput,
) (*handoffDomain.AuthenticateOutput, error) {
	state := handoffDomain.StateCredentialsSubmitted

	payload, err := h.resolve(ctx, input)
	if err != nil {
		return nil, h.fail(ctx, state, err)
	}

	if h.isTenantOrigin(input.Host, payload.TenantSubdomain) {
		return h.direct(ctx, state, payload)
	}

	tokenID, err := h.store.Mint(ctx, *payload, h.config.HandoffTokenTTL)
	if err != nil {
		return nil, h.fail(ctx, state, err)
	}
	h.advance(ctx, state, handoffDomain.StateTokenIssued, payload)

	path, _ := handoffDomain.DashboardPath(payload.Role)
	return &handoffDomain.AuthenticateOutput{
		Mode:          handoffDomain.ModeRedirect,
		DashboardPath: path,
		RedirectURL:   h.restoreURL(payload.TenantSubdomain, tokenID),
	}, nil
}

func (h *handoffUseCase) EstablishSession(
	ctx context.Context,
	input *handoffDomain.AuthenticateInput,
) (*handoffDomain.AuthenticateOutput, error) {
	state := handoffDomain.StateCredentialsSubmitted

	payload, err := h.resolve(ctx, input)
	if err != nil {
		return nil, h.fail(ctx, state, err)
	}

	if !h.isTenantOrigin(input.Host, payload.TenantSubdomain) {
		h.audit(ctx, "session requested on foreign origin", payload, input.Host)
		return nil, h.fail(ctx, state, handoffDomain.ErrTenantMismatch)
	}
	return h.direct(ctx, state, payload)
}

func (h *handoffUseCase) IssueToken(
	ctx context.Context,
	input *handoffDomain.AuthenticateInput,
) (*handoffDomain.IssueTokenOutput, error) {
	state := handoffDomain.StateCredentialsSubmitted

	payload, err := h.resolve(ctx, input)
	if err != nil {
		return nil, h.fail(ctx, state, err)
	}

	issuedAt := h.now()
	tokenID, err := h.store.Mint(ctx, *payload, h.config.HandoffTokenTTL)
	if err != nil {
		return nil, h.fail(ctx, state, err)
	}
	h.advance(ctx, state, handoffDomain.StateTokenIssued, payload)

	return &handoffDomain.IssueTokenOutput{
		TokenID:     tokenID,
		RedirectURL: h.restoreURL(payload.TenantSubdomain, tokenID),
		ExpiresAt:   issuedAt.Add(h.config.HandoffTokenTTL),
	}, nil
}

func (h *handoffUseCase) Restore(
	ctx context.Context,
	input *handoffDomain.RestoreInput,
) (*handoffDomain.RestoreOutput, error) {
	state := handoffDomain.StateUnauthenticated

	payload, err := h.store.Redeem(ctx, input.TokenID)
	if err != nil {
		return nil, h.fail(ctx, state, err)
	}
	state = h.advance(ctx, state, handoffDomain.StateTokenRedeemed, payload)

	if !h.isTenantOrigin(input.Host, payload.TenantSubdomain) {
		h.audit(ctx, "handoff token presented on foreign origin", payload, input.Host)
		return nil, h.fail(ctx, state, handoffDomain.ErrTenantMismatch)
	}

	session, err := handoffDomain.NewSession(*payload, h.policy, h.now())
	if err != nil {
		return nil, h.fail(ctx, state, err)
	}
	h.advance(ctx, state, handoffDomain.StateSessionEstablished, payload)

	return &handoffDomain.RestoreOutput{Session: session}, nil
}

// resolve verifies credentials and builds the payload for the user's tenant. The tenant
// always comes from the directory, never from the request.
func (h *handoffUseCase) resolve(
	ctx context.Context,
	input *handoffDomain.AuthenticateInput,
) (*handoffDomain.Payload, error) {
	identity, err := h.verify(ctx, input.Email, input.Password)
	if err != nil {
		return nil, err
	}

	membership, err := h.directory.LookupUser(ctx, identity.UserID)
	if err != nil {
		if apperrors.Is(err, handoffDomain.ErrMembershipNotFound) {
			return nil, handoffDomain.ErrNoTenantAssigned
		}
		return nil, err
	}

	company, err := h.directory.LookupCompany(ctx, membership.CompanyID)
	if err != nil {
		if apperrors.Is(err, handoffDomain.ErrCompanyNotFound) {
			return nil, handoffDomain.ErrTenantMisconfigured
		}
		return nil, err
	}
	subdomain := strings.ToLower(strings.TrimSpace(company.Subdomain))
	if subdomain == "" || h.isCentral(subdomain) {
		return nil, handoffDomain.ErrTenantMisconfigured
	}

	if _, err := handoffDomain.DashboardPath(membership.Role); err != nil {
		return nil, err
	}

	return &handoffDomain.Payload{
		IdentityAssertion: identity.Assertion,
		UserID:            identity.UserID,
		Email:             identity.Email,
		Role:              membership.Role,
		TenantSubdomain:   subdomain,
		RememberMe:        input.RememberMe,
	}, nil
}

// verify bounds the identity provider call. Providers backed by the database would
// otherwise hang on the request context alone.
func (h *handoffUseCase) verify(ctx context.Context, email, password string) (*handoffDomain.Identity, error) {
	if h.config.IdentityProviderTimeout <= 0 {
		return h.identity.Verify(ctx, email, password)
	}

	ctx, cancel := context.WithTimeout(ctx, h.config.IdentityProviderTimeout)
	defer cancel()

	identity, err := h.identity.Verify(ctx, email, password)
	if err != nil && ctx.Err() == context.DeadlineExceeded {
		return nil, fmt.Errorf("identity provider timed out: %w: %w", handoffDomain.ErrServiceUnavailable, err)
	}
	return identity, err
}

func (h *handoffUseCase) direct(
	ctx context.Context,
	state handoffDomain.HandoffState,
	payload *handoffDomain.Payload,
) (*handoffDomain.AuthenticateOutput, error) {
	session, err := handoffDomain.NewSession(*payload, h.policy, h.now())
	if err != nil {
		return nil, h.fail(ctx, state, err)
	}
	state = h.advance(ctx, state, handoffDomain.StateDirectlyAuthenticated, payload)
	h.advance(ctx, state, handoffDomain.StateSessionEstablished, payload)

	return &handoffDomain.AuthenticateOutput{
		Mode:          handoffDomain.ModeDirect,
		DashboardPath: session.DashboardPath,
		Session:       session,
	}, nil
}

// isTenantOrigin reports whether host is the origin of tenantSubdomain. The central
// sign-in origin is never a tenant origin.
func (h *handoffUseCase) isTenantOrigin(host, tenantSubdomain string) bool {
	subdomain, ok := handoffDomain.SubdomainOf(host, h.config.BaseDomain)
	return ok && subdomain == tenantSubdomain && !h.isCentral(subdomain)
}

func (h *handoffUseCase) isCentral(subdomain string) bool {
	return h.config.CentralSubdomain != "" && strings.EqualFold(subdomain, h.config.CentralSubdomain)
}

func (h *handoffUseCase) restoreURL(subdomain, tokenID string) string {
	return handoffDomain.RestoreURL(h.config.RestoreScheme, subdomain, h.config.BaseDomain, tokenID)
}

func (h *handoffUseCase) advance(
	ctx context.Context,
	from, to handoffDomain.HandoffState,
	payload *handoffDomain.Payload,
) handoffDomain.HandoffState {
	next, err := handoffDomain.Transition(from, to)
	if err != nil {
		h.logger.ErrorContext(ctx, "handoff state machine violated", slog.Any("error", err))
		return from
	}
	h.logger.DebugContext(ctx, "handoff state changed",
		slog.String("from", string(from)),
		slog.String("to", string(next)),
		slog.Any("payload", payload),
	)
	return next
}

// fail classifies err so only handoff errors leave the use case.
func (h *handoffUseCase) fail(ctx context.Context, from handoffDomain.HandoffState, err error) error {
	classified := handoffDomain.Classify(err)
	h.logger.DebugContext(ctx, "handoff failed",
		slog.String("from", string(from)),
		slog.String("reason", handoffDomain.ErrorCode(classified)),
	)
	return classified
}

func (h *handoffUseCase) audit(ctx context.Context, msg string, payload *handoffDomain.Payload, host string) {
	requestSubdomain, _ := handoffDomain.SubdomainOf(host, h.config.BaseDomain)
	h.logger.WarnContext(ctx, msg,
		slog.String("event", auditEvent),
		slog.String("reason", handoffDomain.ErrorCode(handoffDomain.ErrTenantMismatch)),
		slog.String("user_id", payload.UserID),
		slog.String("tenant", payload.TenantSubdomain),
		slog.String("request_subdomain", requestSubdomain),
	)
}
