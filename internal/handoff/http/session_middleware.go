package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/handoff/internal/errors"
	handoffDomain "github.com/allisson/handoff/internal/handoff/domain"
	handoffUseCase "github.com/allisson/handoff/internal/handoff/usecase"
	"github.com/allisson/handoff/internal/httputil"
)

// SessionMiddleware authenticates requests by their session cookies.
//
// The tenant cookie must name the request host's subdomain, the assertion must verify
// for the user id cookie, and the tenant directory must still place that user in that
// tenant. Role and dashboard come from the directory, never from cookies. On success the
// session is stored in the request context (see GetSession).
//
// Errors:
//   - missing cookies, failed assertion, user id mismatch → 401 session_invalid
//   - tenant cookie not matching the host or the directory → 400 tenant_mismatch
//   - identity provider or directory unreachable → 503 service_unavailable
func SessionMiddleware(
	verifier handoffUseCase.AssertionVerifier,
	directory handoffUseCase.TenantDirectory,
	baseDomain string,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		cookies, ok := readSessionCookies(c.Request)
		if !ok {
			logger.DebugContext(ctx, "session rejected: missing cookies")
			abortWithError(c, handoffDomain.ErrSessionInvalid, logger)
			return
		}

		hostTenant, ok := handoffDomain.SubdomainOf(c.Request.Host, baseDomain)
		if !ok || hostTenant != cookies.tenant {
			logger.WarnContext(ctx, "session presented on foreign origin",
				slog.String("event", "handoff.audit"),
				slog.String("tenant", cookies.tenant),
				slog.String("request_subdomain", hostTenant),
			)
			abortWithError(c, handoffDomain.ErrTenantMismatch, logger)
			return
		}

		userID, err := verifier.VerifyAssertion(ctx, cookies.assertion)
		if err != nil {
			abortWithError(c, handoffDomain.Classify(err), logger)
			return
		}
		if userID != cookies.userID {
			logger.WarnContext(ctx, "session rejected: user id cookie does not match assertion")
			abortWithError(c, handoffDomain.ErrSessionInvalid, logger)
			return
		}

		session, err := resolveSession(c, directory, userID, hostTenant)
		if err != nil {
			abortWithError(c, err, logger)
			return
		}

		c.Request = c.Request.WithContext(WithSession(ctx, session))
		c.Next()
	}
}

func resolveSession(
	c *gin.Context,
	directory handoffUseCase.TenantDirectory,
	userID, hostTenant string,
) (*SessionInfo, error) {
	ctx := c.Request.Context()

	membership, err := directory.LookupUser(ctx, userID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, handoffDomain.ErrSessionInvalid
		}
		return nil, handoffDomain.Classify(err)
	}
	company, err := directory.LookupCompany(ctx, membership.CompanyID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, handoffDomain.ErrSessionInvalid
		}
		return nil, handoffDomain.Classify(err)
	}
	if company.Subdomain != hostTenant {
		return nil, handoffDomain.ErrTenantMismatch
	}

	path, err := handoffDomain.DashboardPath(membership.Role)
	if err != nil {
		return nil, err
	}
	return &SessionInfo{
		UserID:        userID,
		Role:          membership.Role,
		Tenant:        company.Subdomain,
		DashboardPath: path,
	}, nil
}

func abortWithError(c *gin.Context, err error, logger *slog.Logger) {
	httputil.HandleErrorGin(c, err, logger)
	c.Abort()
}
