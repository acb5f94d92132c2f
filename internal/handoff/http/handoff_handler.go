package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	handoffDomain "github.com/allisson/handoff/internal/handoff/domain"
	"github.com/allisson/handoff/internal/handoff/http/dto"
	handoffUseCase "github.com/allisson/handoff/internal/handoff/usecase"
	"github.com/allisson/handoff/internal/httputil"
	customValidation "github.com/allisson/handoff/internal/validation"
)

// HandoffHandler handles sign-in, the cross-origin handoff and session endpoints.
type HandoffHandler struct {
	handoffUseCase handoffUseCase.HandoffUseCase
	cookies        *SessionCookieWriter
	logger         *slog.Logger
}

// NewHandoffHandler creates a new handoff handler with required dependencies.
func NewHandoffHandler(
	handoffUseCase handoffUseCase.HandoffUseCase,
	cookies *SessionCookieWriter,
	logger *slog.Logger,
) *HandoffHandler {
	return &HandoffHandler{
		handoffUseCase: handoffUseCase,
		cookies:        cookies,
		logger:         logger,
	}
}

// SignInHandler verifies credentials and either sets the session cookies (the request
// already came from the tenant origin) or returns the tenant's restore URL.
// POST /v1/auth/sign-in - No authentication required.
// Returns 200 OK with the sign-in mode.
func (h *HandoffHandler) SignInHandler(c *gin.Context) {
	input, ok := h.bindCredentials(c)
	if !ok {
		return
	}

	output, err := h.handoffUseCase.Authenticate(c.Request.Context(), input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	if output.Mode == handoffDomain.ModeDirect {
		h.cookies.Write(c.Writer, output.Session)
	}
	noStore(c)
	c.JSON(http.StatusOK, dto.MapAuthenticateOutputToResponse(output))
}

// SessionHandler establishes a session on the current origin, which must be the user's
// tenant origin. No token is minted.
// POST /v1/auth/session - No authentication required.
// Returns 200 OK with the dashboard path and sets the session cookies.
func (h *HandoffHandler) SessionHandler(c *gin.Context) {
	input, ok := h.bindCredentials(c)
	if !ok {
		return
	}

	output, err := h.handoffUseCase.EstablishSession(c.Request.Context(), input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.cookies.Write(c.Writer, output.Session)
	noStore(c)
	c.JSON(http.StatusOK, dto.MapAuthenticateOutputToResponse(output))
}

// IssueTokenHandler mints a handoff token for the user's tenant regardless of the
// request origin.
// POST /v1/auth/handoff-tokens - No authentication required.
// Returns 201 Created with the token id and restore URL.
func (h *HandoffHandler) IssueTokenHandler(c *gin.Context) {
	input, ok := h.bindCredentials(c)
	if !ok {
		return
	}

	output, err := h.handoffUseCase.IssueToken(c.Request.Context(), input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	noStore(c)
	c.JSON(http.StatusCreated, dto.IssueTokenResponse{
		TokenID:     output.TokenID,
		RedirectURL: output.RedirectURL,
		ExpiresAt:   output.ExpiresAt,
	})
}

// RestoreHandler redeems a handoff token on the tenant origin, sets the session cookies
// and sends the client to its dashboard.
// GET /auth/session-restore?token= - No authentication required.
// Returns 302 Found to the dashboard, or 200 OK with the dashboard path for clients that
// accept JSON.
func (h *HandoffHandler) RestoreHandler(c *gin.Context) {
	// The URL carries a token; keep it out of caches and Referer headers.
	noStore(c)
	c.Header("Referrer-Policy", "no-referrer")

	input := &handoffDomain.RestoreInput{
		TokenID: c.Query("token"),
		Host:    c.Request.Host,
	}

	output, err := h.handoffUseCase.Restore(c.Request.Context(), input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.cookies.Write(c.Writer, output.Session)

	if wantsJSON(c) {
		c.JSON(http.StatusOK, dto.RestoreResponse{DashboardPath: output.Session.DashboardPath})
		return
	}
	c.Redirect(http.StatusFound, output.Session.DashboardPath)
}

// MeHandler describes the current session.
// GET /v1/auth/me - Requires a session (SessionMiddleware).
// Returns 200 OK.
func (h *HandoffHandler) MeHandler(c *gin.Context) {
	session, ok := GetSession(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, handoffDomain.ErrSessionInvalid, h.logger)
		return
	}

	noStore(c)
	c.JSON(http.StatusOK, dto.MeResponse{
		UserID:        session.UserID,
		Role:          string(session.Role),
		Tenant:        session.Tenant,
		DashboardPath: session.DashboardPath,
	})
}

// SignOutHandler clears the session cookies of the current origin.
// POST /v1/auth/sign-out - No authentication required.
// Returns 204 No Content.
func (h *HandoffHandler) SignOutHandler(c *gin.Context) {
	h.cookies.Clear(c.Writer)
	c.Status(http.StatusNoContent)
}

func (h *HandoffHandler) bindCredentials(c *gin.Context) (*handoffDomain.AuthenticateInput, bool) {
	var req dto.SignInRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return nil, false
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return nil, false
	}

	return &handoffDomain.AuthenticateInput{
		Email:      req.Email,
		Password:   req.Password,
		Host:       c.Request.Host,
		RememberMe: req.RememberMe,
	}, true
}

func wantsJSON(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "application/json")
}

func noStore(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
}
