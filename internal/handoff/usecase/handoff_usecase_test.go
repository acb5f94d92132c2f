package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/allisson/handoff/internal/config"
	handoffDomain "github.com/allisson/handoff/internal/handoff/domain"
	"github.com/allisson/handoff/internal/handoff/usecase/mocks"
)

const (
	testEmail     = "jane@example.com"
	testPassword  = "correct horse battery staple"
	testAssertion = "assertion-abc"
)

type handoffFixture struct {
	useCase   *handoffUseCase
	store     *tokenStore
	identity  *mocks.MockIdentityProvider
	directory *mocks.MockTenantRepository
	clock     *time.Time
	logs      *bytes.Buffer
	companyID uuid.UUID
}

func testConfig() *config.Config {
	return &config.Config{
		BaseDomain:           "example.com",
		CentralSubdomain:     "app",
		RestoreScheme:        "https",
		HandoffTokenTTL:      60 * time.Second,
		SessionTTL:           12 * time.Hour,
		SessionRememberMeTTL: 30 * 24 * time.Hour,
	}
}

// newHandoffFixture wires the use case to a real in-memory token store and mocked
// collaborators for a user with role in tenant subdomain.
func newHandoffFixture(t *testing.T, role handoffDomain.Role, subdomain string) *handoffFixture {
	t.Helper()

	clock := time.Now().UTC()
	store, _ := newTestTokenStore(&clock)
	identity := &mocks.MockIdentityProvider{}
	directory := &mocks.MockTenantRepository{}
	logs := &bytes.Buffer{}
	logger := slog.New(slog.NewJSONHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	companyID := uuid.Must(uuid.NewV7())

	identity.On("Verify", mock.Anything, testEmail, testPassword).
		Return(&handoffDomain.Identity{UserID: "user-1", Email: testEmail, Assertion: testAssertion}, nil).
		Maybe()
	directory.On("LookupUser", mock.Anything, "user-1").
		Return(&handoffDomain.Membership{UserID: "user-1", CompanyID: companyID, Role: role}, nil).
		Maybe()
	directory.On("LookupCompany", mock.Anything, companyID).
		Return(&handoffDomain.Company{ID: companyID, Subdomain: subdomain, Name: "Acme"}, nil).
		Maybe()

	uc := NewHandoffUseCase(testConfig(), identity, directory, store, logger).(*handoffUseCase)
	uc.now = func() time.Time { return clock }

	return &handoffFixture{
		useCase:   uc,
		store:     store,
		identity:  identity,
		directory: directory,
		clock:     &clock,
		logs:      logs,
		companyID: companyID,
	}
}

func signInInput(host string) *handoffDomain.AuthenticateInput {
	return &handoffDomain.AuthenticateInput{Email: testEmail, Password: testPassword, Host: host}
}

func tokenFromRedirect(t *testing.T, redirectURL string) string {
	t.Helper()
	u, err := url.Parse(redirectURL)
	require.NoError(t, err)
	return u.Query().Get("token")
}

func TestHandoffUseCase_EndToEnd(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_RedirectThenRestore", func(t *testing.T) {
		f := newHandoffFixture(t, handoffDomain.RoleAdmin, "acme")

		output, err := f.useCase.Authenticate(ctx, signInInput("app.example.com"))
		require.NoError(t, err)
		assert.Equal(t, handoffDomain.ModeRedirect, output.Mode)
		assert.Nil(t, output.Session)

		u, err := url.Parse(output.RedirectURL)
		require.NoError(t, err)
		assert.Equal(t, "https", u.Scheme)
		assert.Equal(t, "acme.example.com", u.Host)
		assert.Equal(t, handoffDomain.RestorePath, u.Path)
		assert.Len(t, u.Query(), 1)
		tokenID := u.Query().Get("token")
		assert.Len(t, tokenID, 43)

		restored, err := f.useCase.Restore(ctx, &handoffDomain.RestoreInput{TokenID: tokenID, Host: "acme.example.com"})
		require.NoError(t, err)
		assert.Equal(t, "/dashboard/hrm-dashboard", restored.Session.DashboardPath)
		assert.Equal(t, "acme", restored.Session.TenantSubdomain)
		assert.Equal(t, testAssertion, restored.Session.Assertion)
		assert.Equal(t, 12*time.Hour, restored.Session.MaxAge)
	})

	t.Run("Error_RestoreOnOtherTenant", func(t *testing.T) {
		f := newHandoffFixture(t, handoffDomain.RoleAdmin, "acme")

		output, err := f.useCase.Authenticate(ctx, signInInput("app.example.com"))
		require.NoError(t, err)
		tokenID := tokenFromRedirect(t, output.RedirectURL)

		restored, err := f.useCase.Restore(ctx, &handoffDomain.RestoreInput{
			TokenID: tokenID,
			Host:    "othertenant.example.com",
		})
		assert.ErrorIs(t, err, handoffDomain.ErrTenantMismatch)
		assert.Nil(t, restored)
		assert.Contains(t, f.logs.String(), `"event":"handoff.audit"`)
		assert.NotContains(t, f.logs.String(), tokenID)
		assert.NotContains(t, f.logs.String(), testAssertion)

		// The token was consumed by the failed attempt.
		_, err = f.useCase.Restore(ctx, &handoffDomain.RestoreInput{TokenID: tokenID, Host: "acme.example.com"})
		assert.ErrorIs(t, err, handoffDomain.ErrTokenInvalidOrExpired)
	})

	t.Run("Error_RestoreTwice", func(t *testing.T) {
		f := newHandoffFixture(t, handoffDomain.RoleAdmin, "acme")

		output, err := f.useCase.Authenticate(ctx, signInInput("app.example.com"))
		require.NoError(t, err)
		input := &handoffDomain.RestoreInput{TokenID: tokenFromRedirect(t, output.RedirectURL), Host: "acme.example.com"}

		_, err = f.useCase.Restore(ctx, input)
		require.NoError(t, err)

		_, err = f.useCase.Restore(ctx, input)
		assert.ErrorIs(t, err, handoffDomain.ErrTokenInvalidOrExpired)
	})

	t.Run("Error_RestoreAfterExpiry", func(t *testing.T) {
		f := newHandoffFixture(t, handoffDomain.RoleAdmin, "acme")

		output, err := f.useCase.Authenticate(ctx, signInInput("app.example.com"))
		require.NoError(t, err)

		*f.clock = f.clock.Add(61 * time.Second)
		_, err = f.useCase.Restore(ctx, &handoffDomain.RestoreInput{
			TokenID: tokenFromRedirect(t, output.RedirectURL),
			Host:    "acme.example.com",
		})
		assert.ErrorIs(t, err, handoffDomain.ErrTokenInvalidOrExpired)
	})
}

func TestHandoffUseCase_Authenticate(t *testing.T) {
	ctx := context.Background()

	t.Run("Error_CompanyOnCentralSubdomain", func(t *testing.T) {
		f := newHandoffFixture(t, handoffDomain.RoleAdmin, "app")

		for _, host := range []string{"app.example.com", "acme.example.com"} {
			output, err := f.useCase.Authenticate(ctx, signInInput(host))
			assert.ErrorIs(t, err, handoffDomain.ErrTenantMisconfigured, host)
			assert.Nil(t, output)
		}
	})

	t.Run("Error_IdentityProviderHangs", func(t *testing.T) {
		f := newHandoffFixture(t, handoffDomain.RoleAdmin, "acme")
		f.useCase.config.IdentityProviderTimeout = 20 * time.Millisecond

		identity := &mocks.MockIdentityProvider{}
		identity.On("Verify", mock.Anything, testEmail, testPassword).
			Run(func(args mock.Arguments) {
				<-args.Get(0).(context.Context).Done()
			}).
			Return(nil, errors.New("sql: connection is busy")).
			Once()
		f.useCase.identity = identity

		start := time.Now()
		_, err := f.useCase.Authenticate(ctx, signInInput("app.example.com"))

		assert.ErrorIs(t, err, handoffDomain.ErrServiceUnavailable)
		assert.Less(t, time.Since(start), time.Second)
	})

	t.Run("Success_DirectModeOnTenantOrigin", func(t *testing.T) {
		f := newHandoffFixture(t, handoffDomain.RoleManager, "acme")

		output, err := f.useCase.Authenticate(ctx, signInInput("ACME.example.com:443"))
		require.NoError(t, err)
		assert.Equal(t, handoffDomain.ModeDirect, output.Mode)
		assert.Equal(t, "/dashboard/manager-dashboard", output.DashboardPath)
		assert.Empty(t, output.RedirectURL)
		require.NotNil(t, output.Session)
	})

	t.Run("Success_DirectModeMatchesRestoredSession", func(t *testing.T) {
		f := newHandoffFixture(t, handoffDomain.RoleAccountant, "acme")
		input := signInInput("acme.example.com")
		input.RememberMe = true

		direct, err := f.useCase.Authenticate(ctx, input)
		require.NoError(t, err)

		issued, err := f.useCase.IssueToken(ctx, input)
		require.NoError(t, err)
		restored, err := f.useCase.Restore(ctx, &handoffDomain.RestoreInput{TokenID: issued.TokenID, Host: "acme.example.com"})
		require.NoError(t, err)

		assert.Equal(t, direct.Session, restored.Session)
		assert.Equal(t, 30*24*time.Hour, direct.Session.MaxAge)
	})

	t.Run("Success_TokenGrantsOnlyItsTenant", func(t *testing.T) {
		f := newHandoffFixture(t, handoffDomain.RoleEmployee, "acme")

		output, err := f.useCase.Authenticate(ctx, signInInput("globex.example.com"))
		require.NoError(t, err)
		assert.Equal(t, handoffDomain.ModeRedirect, output.Mode)

		u, err := url.Parse(output.RedirectURL)
		require.NoError(t, err)
		assert.Equal(t, "acme.example.com", u.Host)
	})

	t.Run("Error_InvalidCredentials", func(t *testing.T) {
		f := newHandoffFixture(t, handoffDomain.RoleAdmin, "acme")
		f.identity.On("Verify", mock.Anything, testEmail, "wrong").
			Return(nil, handoffDomain.ErrInvalidCredentials).
			Once()

		input := signInInput("app.example.com")
		input.Password = "wrong"
		_, err := f.useCase.Authenticate(ctx, input)
		assert.ErrorIs(t, err, handoffDomain.ErrInvalidCredentials)
		f.directory.AssertNotCalled(t, "LookupUser", mock.Anything, mock.Anything)
	})

	t.Run("Error_NoTenantAssigned", func(t *testing.T) {
		f := newHandoffFixture(t, handoffDomain.RoleAdmin, "acme")
		f.directory.ExpectedCalls = nil
		f.directory.On("LookupUser", mock.Anything, "user-1").Return(nil, handoffDomain.ErrMembershipNotFound).Once()

		_, err := f.useCase.Authenticate(ctx, signInInput("app.example.com"))
		assert.ErrorIs(t, err, handoffDomain.ErrNoTenantAssigned)
	})

	t.Run("Error_TenantMisconfigured", func(t *testing.T) {
		f := newHandoffFixture(t, handoffDomain.RoleAdmin, " ")

		_, err := f.useCase.Authenticate(ctx, signInInput("app.example.com"))
		assert.ErrorIs(t, err, handoffDomain.ErrTenantMisconfigured)
	})

	t.Run("Error_CompanyMissing", func(t *testing.T) {
		f := newHandoffFixture(t, handoffDomain.RoleAdmin, "acme")
		f.directory.ExpectedCalls = nil
		f.directory.On("LookupUser", mock.Anything, "user-1").
			Return(&handoffDomain.Membership{UserID: "user-1", CompanyID: f.companyID, Role: handoffDomain.RoleAdmin}, nil)
		f.directory.On("LookupCompany", mock.Anything, f.companyID).Return(nil, handoffDomain.ErrCompanyNotFound)

		_, err := f.useCase.Authenticate(ctx, signInInput("app.example.com"))
		assert.ErrorIs(t, err, handoffDomain.ErrTenantMisconfigured)
	})

	t.Run("Error_UnknownRoleMintsNothing", func(t *testing.T) {
		f := newHandoffFixture(t, handoffDomain.Role("intern"), "acme")

		_, err := f.useCase.Authenticate(ctx, signInInput("app.example.com"))
		assert.ErrorIs(t, err, handoffDomain.ErrUnknownRole)

		count, err := f.store.Sweep(ctx, f.clock.Add(time.Hour), true)
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("Error_DirectoryFailureIsUnavailable", func(t *testing.T) {
		f := newHandoffFixture(t, handoffDomain.RoleAdmin, "acme")
		f.directory.ExpectedCalls = nil
		f.directory.On("LookupUser", mock.Anything, "user-1").Return(nil, errors.New("connection reset"))

		_, err := f.useCase.Authenticate(ctx, signInInput("app.example.com"))
		assert.ErrorIs(t, err, handoffDomain.ErrServiceUnavailable)
	})
}

func TestHandoffUseCase_EstablishSession(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_OnTenantOrigin", func(t *testing.T) {
		f := newHandoffFixture(t, handoffDomain.RoleHR, "acme")

		output, err := f.useCase.EstablishSession(ctx, signInInput("acme.example.com"))
		require.NoError(t, err)
		assert.Equal(t, handoffDomain.ModeDirect, output.Mode)
		assert.Equal(t, "/dashboard/hrm-dashboard", output.Session.DashboardPath)
	})

	t.Run("Error_ForeignOrigin", func(t *testing.T) {
		f := newHandoffFixture(t, handoffDomain.RoleHR, "acme")

		for _, host := range []string{"globex.example.com", "app.example.com", "example.com", "acme.evil.com"} {
			_, err := f.useCase.EstablishSession(ctx, signInInput(host))
			assert.ErrorIs(t, err, handoffDomain.ErrTenantMismatch, host)
		}

		count, err := f.store.Sweep(ctx, f.clock.Add(time.Hour), true)
		require.NoError(t, err)
		assert.Zero(t, count, "no token may be minted")
	})
}

func TestHandoffUseCase_IssueToken(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_AlwaysMints", func(t *testing.T) {
		f := newHandoffFixture(t, handoffDomain.RoleEmployee, "acme")

		output, err := f.useCase.IssueToken(ctx, signInInput("acme.example.com"))
		require.NoError(t, err)
		assert.Len(t, output.TokenID, 43)
		assert.Equal(t, f.clock.Add(60*time.Second), output.ExpiresAt)
		assert.Equal(t, output.TokenID, tokenFromRedirect(t, output.RedirectURL))
	})

	t.Run("Error_StoreUnavailable", func(t *testing.T) {
		identity := &mocks.MockIdentityProvider{}
		directory := &mocks.MockTenantRepository{}
		store := &mocks.MockTokenStore{}
		companyID := uuid.Must(uuid.NewV7())

		identity.On("Verify", mock.Anything, testEmail, testPassword).
			Return(&handoffDomain.Identity{UserID: "user-1", Assertion: testAssertion}, nil)
		directory.On("LookupUser", mock.Anything, "user-1").
			Return(&handoffDomain.Membership{UserID: "user-1", CompanyID: companyID, Role: handoffDomain.RoleAdmin}, nil)
		directory.On("LookupCompany", mock.Anything, companyID).
			Return(&handoffDomain.Company{ID: companyID, Subdomain: "acme"}, nil)
		store.On("Mint", mock.Anything, mock.Anything, 60*time.Second).Return("", errors.New("dial tcp: refused"))

		uc := NewHandoffUseCase(testConfig(), identity, directory, store, slog.New(slog.NewTextHandler(io.Discard, nil)))
		_, err := uc.IssueToken(ctx, signInInput("app.example.com"))
		assert.ErrorIs(t, err, handoffDomain.ErrServiceUnavailable)
	})
}

func TestHandoffUseCase_Restore_UnknownRoleInPayload(t *testing.T) {
	ctx := context.Background()
	store := &mocks.MockTokenStore{}
	store.On("Redeem", mock.Anything, "token").
		Return(&handoffDomain.Payload{UserID: "user-1", Role: "intern", TenantSubdomain: "acme"}, nil)

	uc := NewHandoffUseCase(
		testConfig(),
		&mocks.MockIdentityProvider{},
		&mocks.MockTenantRepository{},
		store,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)

	_, err := uc.Restore(ctx, &handoffDomain.RestoreInput{TokenID: "token", Host: "acme.example.com"})
	assert.ErrorIs(t, err, handoffDomain.ErrUnknownRole)
}

func TestHandoffUseCase_Restore_CentralOriginNeverGetsSession(t *testing.T) {
	ctx := context.Background()
	store := &mocks.MockTokenStore{}
	store.On("Redeem", mock.Anything, "token").
		Return(&handoffDomain.Payload{UserID: "user-1", Role: handoffDomain.RoleAdmin, TenantSubdomain: "app"}, nil).
		Once()

	uc := NewHandoffUseCase(
		testConfig(),
		&mocks.MockIdentityProvider{},
		&mocks.MockTenantRepository{},
		store,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)

	output, err := uc.Restore(ctx, &handoffDomain.RestoreInput{TokenID: "token", Host: "app.example.com"})
	assert.ErrorIs(t, err, handoffDomain.ErrTenantMismatch)
	assert.Nil(t, output)
	store.AssertExpectations(t)
}
