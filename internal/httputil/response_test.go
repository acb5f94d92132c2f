package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/handoff/internal/errors"
	handoffDomain "github.com/allisson/handoff/internal/handoff/domain"
)

func newTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHandleErrorGin(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedError  string
	}{
		{"not found", apperrors.Wrap(apperrors.ErrNotFound, "company"), http.StatusNotFound, "not_found"},
		{"conflict", apperrors.ErrConflict, http.StatusConflict, "conflict"},
		{"invalid input", apperrors.ErrInvalidInput, http.StatusUnprocessableEntity, "invalid_input"},
		{"unauthorized", apperrors.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{"locked", apperrors.ErrLocked, http.StatusLocked, "locked"},
		{"forbidden", apperrors.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"unavailable", apperrors.ErrUnavailable, http.StatusServiceUnavailable, "service_unavailable"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
		{
			"coded unauthorized",
			apperrors.NewCoded(apperrors.ErrUnauthorized, "invalid_credentials", "bad credentials"),
			http.StatusUnauthorized,
			"invalid_credentials",
		},
		{
			"coded invalid input becomes bad request",
			apperrors.Wrap(apperrors.NewCoded(apperrors.ErrInvalidInput, "tenant_mismatch", "wrong tenant"), "restore"),
			http.StatusBadRequest,
			"tenant_mismatch",
		},
		{
			"coded internal",
			apperrors.NewCoded(apperrors.ErrInternal, "tenant_misconfigured", "no subdomain"),
			http.StatusInternalServerError,
			"tenant_misconfigured",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext()

			HandleErrorGin(c, tt.err, logger)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedError, decodeError(t, w).Error)
		})
	}

	t.Run("unavailable sets Retry-After", func(t *testing.T) {
		c, w := newTestContext()
		HandleErrorGin(c, apperrors.ErrUnavailable, nil)
		assert.Equal(t, "5", w.Header().Get("Retry-After"))
	})

	t.Run("internal error hides details", func(t *testing.T) {
		c, w := newTestContext()
		HandleErrorGin(c, errors.New("pq: password authentication failed"), logger)
		assert.NotContains(t, w.Body.String(), "pq:")
	})

	for name, cause := range map[string]error{
		"conflict":      apperrors.Wrap(apperrors.ErrConflict, "redis: token hash already exists"),
		"invalid input": apperrors.Wrap(apperrors.ErrInvalidInput, "ttl must be positive"),
		"not found":     apperrors.Wrap(apperrors.ErrNotFound, "company not found"),
	} {
		t.Run("classified "+name+" stays unavailable", func(t *testing.T) {
			c, w := newTestContext()
			HandleErrorGin(c, handoffDomain.Classify(cause), logger)

			assert.Equal(t, http.StatusServiceUnavailable, w.Code)
			assert.Equal(t, "5", w.Header().Get("Retry-After"))
			assert.Equal(t, "service_unavailable", decodeError(t, w).Error)
		})
	}

	t.Run("coded invalid input is a bad request", func(t *testing.T) {
		c, w := newTestContext()
		HandleErrorGin(c, handoffDomain.ErrTokenInvalidOrExpired, logger)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "token_invalid_or_expired", decodeError(t, w).Error)
	})

	t.Run("nil error writes nothing", func(t *testing.T) {
		c, w := newTestContext()
		HandleErrorGin(c, nil, logger)
		assert.Empty(t, w.Body.String())
	})
}

func TestHandleBadRequestGin(t *testing.T) {
	c, w := newTestContext()
	HandleBadRequestGin(c, errors.New("invalid character"), nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, "bad_request", resp.Error)
	assert.Equal(t, "invalid character", resp.Message)
}

func TestHandleValidationErrorGin(t *testing.T) {
	c, w := newTestContext()
	HandleValidationErrorGin(c, errors.New("email: cannot be blank."), nil)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "validation_error", decodeError(t, w).Error)
}
