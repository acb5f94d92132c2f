package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/handoff/internal/errors"
	handoffDomain "github.com/allisson/handoff/internal/handoff/domain"
	"github.com/allisson/handoff/internal/identity/domain"
	"github.com/allisson/handoff/internal/identity/usecase/mocks"
)

const testPassword = "Str0ng!Passw0rd"

type providerFixture struct {
	provider   *LocalProvider
	repo       *mocks.MockAccountRepository
	passwords  *mocks.MockPasswordService
	assertions *mocks.MockAssertionService
	now        time.Time
}

func newProviderFixture(t *testing.T) *providerFixture {
	t.Helper()

	f := &providerFixture{
		repo:       &mocks.MockAccountRepository{},
		passwords:  &mocks.MockPasswordService{},
		assertions: &mocks.MockAssertionService{},
		now:        time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	f.passwords.On("Hash", mock.AnythingOfType("string")).Return("dummy-hash", nil).Once()

	provider, err := NewLocalProvider(f.repo, f.passwords, f.assertions, LockoutPolicy{
		MaxAttempts: 3,
		Duration:    30 * time.Minute,
	})
	require.NoError(t, err)
	provider.now = func() time.Time { return f.now }
	f.provider = provider

	t.Cleanup(func() {
		f.repo.AssertExpectations(t)
		f.passwords.AssertExpectations(t)
		f.assertions.AssertExpectations(t)
	})
	return f
}

func testAccount() *domain.Account {
	return &domain.Account{
		ID:           uuid.Must(uuid.NewV7()),
		Email:        "jane@example.com",
		PasswordHash: "stored-hash",
	}
}

func TestLocalProvider_Verify(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newProviderFixture(t)
		account := testAccount()

		f.repo.On("GetByEmail", ctx, "jane@example.com").Return(account, nil).Once()
		f.passwords.On("Compare", testPassword, "stored-hash").Return(true).Once()
		f.assertions.On("Issue", account.ID.String(), "jane@example.com").Return("signed-assertion", nil).Once()

		identity, err := f.provider.Verify(ctx, "  Jane@Example.com ", testPassword)
		require.NoError(t, err)
		assert.Equal(t, account.ID.String(), identity.UserID)
		assert.Equal(t, "jane@example.com", identity.Email)
		assert.Equal(t, "signed-assertion", identity.Assertion)
	})

	t.Run("Success_ClearsPreviousFailures", func(t *testing.T) {
		f := newProviderFixture(t)
		account := testAccount()
		account.FailedAttempts = 2

		f.repo.On("GetByEmail", ctx, "jane@example.com").Return(account, nil).Once()
		f.passwords.On("Compare", testPassword, "stored-hash").Return(true).Once()
		f.repo.On("UpdateLockout", ctx, mock.MatchedBy(func(a *domain.Account) bool {
			return a.FailedAttempts == 0 && a.LockedUntil == nil
		})).Return(nil).Once()
		f.assertions.On("Issue", account.ID.String(), "jane@example.com").Return("signed-assertion", nil).Once()

		_, err := f.provider.Verify(ctx, "jane@example.com", testPassword)
		require.NoError(t, err)
	})

	t.Run("Error_UnknownAccountComparesDummyHash", func(t *testing.T) {
		f := newProviderFixture(t)

		f.repo.On("GetByEmail", ctx, "ghost@example.com").Return(nil, domain.ErrAccountNotFound).Once()
		f.passwords.On("Compare", testPassword, "dummy-hash").Return(false).Once()

		identity, err := f.provider.Verify(ctx, "ghost@example.com", testPassword)
		assert.Nil(t, identity)
		assert.ErrorIs(t, err, handoffDomain.ErrInvalidCredentials)
	})

	t.Run("Error_WrongPasswordCountsFailure", func(t *testing.T) {
		f := newProviderFixture(t)
		account := testAccount()

		f.repo.On("GetByEmail", ctx, "jane@example.com").Return(account, nil).Once()
		f.passwords.On("Compare", "wrong", "stored-hash").Return(false).Once()
		f.repo.On("UpdateLockout", ctx, mock.MatchedBy(func(a *domain.Account) bool {
			return a.FailedAttempts == 1 && a.LockedUntil == nil
		})).Return(nil).Once()

		_, err := f.provider.Verify(ctx, "jane@example.com", "wrong")
		assert.ErrorIs(t, err, handoffDomain.ErrInvalidCredentials)
	})

	t.Run("Error_ThresholdLocksAccount", func(t *testing.T) {
		f := newProviderFixture(t)
		account := testAccount()
		account.FailedAttempts = 2

		f.repo.On("GetByEmail", ctx, "jane@example.com").Return(account, nil).Once()
		f.passwords.On("Compare", "wrong", "stored-hash").Return(false).Once()
		f.repo.On("UpdateLockout", ctx, mock.MatchedBy(func(a *domain.Account) bool {
			return a.LockedUntil != nil && a.LockedUntil.Equal(f.now.Add(30*time.Minute))
		})).Return(nil).Once()

		_, err := f.provider.Verify(ctx, "jane@example.com", "wrong")
		assert.ErrorIs(t, err, handoffDomain.ErrAccountLocked)
	})

	t.Run("Error_LockedAccountSkipsPasswordCheck", func(t *testing.T) {
		f := newProviderFixture(t)
		account := testAccount()
		lockedUntil := f.now.Add(time.Minute)
		account.LockedUntil = &lockedUntil

		f.repo.On("GetByEmail", ctx, "jane@example.com").Return(account, nil).Once()

		_, err := f.provider.Verify(ctx, "jane@example.com", testPassword)
		assert.ErrorIs(t, err, handoffDomain.ErrAccountLocked)
		f.passwords.AssertNotCalled(t, "Compare", testPassword, "stored-hash")
	})

	t.Run("Success_ExpiredLockAllowsSignIn", func(t *testing.T) {
		f := newProviderFixture(t)
		account := testAccount()
		lockedUntil := f.now.Add(-time.Second)
		account.LockedUntil = &lockedUntil

		f.repo.On("GetByEmail", ctx, "jane@example.com").Return(account, nil).Once()
		f.passwords.On("Compare", testPassword, "stored-hash").Return(true).Once()
		f.repo.On("UpdateLockout", ctx, account).Return(nil).Once()
		f.assertions.On("Issue", account.ID.String(), "jane@example.com").Return("signed-assertion", nil).Once()

		_, err := f.provider.Verify(ctx, "jane@example.com", testPassword)
		require.NoError(t, err)
		assert.Nil(t, account.LockedUntil)
	})

	t.Run("Error_RepositoryFailure", func(t *testing.T) {
		f := newProviderFixture(t)
		dbErr := errors.New("connection refused")

		f.repo.On("GetByEmail", ctx, "jane@example.com").Return(nil, dbErr).Once()

		_, err := f.provider.Verify(ctx, "jane@example.com", testPassword)
		assert.ErrorIs(t, err, dbErr)
	})
}

func TestLocalProvider_VerifyAssertion(t *testing.T) {
	ctx := context.Background()
	f := newProviderFixture(t)

	f.assertions.On("VerifyAssertion", ctx, "signed-assertion").Return("user-1", nil).Once()

	userID, err := f.provider.VerifyAssertion(ctx, "signed-assertion")
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestLocalProvider_CreateAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newProviderFixture(t)

		f.passwords.On("Hash", testPassword).Return("hashed", nil).Once()
		f.repo.On("Create", ctx, mock.MatchedBy(func(a *domain.Account) bool {
			return a.Email == "jane@example.com" && a.PasswordHash == "hashed" && a.ID != uuid.Nil
		})).Return(nil).Once()

		account, err := f.provider.CreateAccount(ctx, "Jane@Example.com", testPassword)
		require.NoError(t, err)
		assert.Equal(t, "jane@example.com", account.Email)
		assert.Equal(t, f.now, account.CreatedAt)
	})

	t.Run("Error_InvalidEmail", func(t *testing.T) {
		f := newProviderFixture(t)

		_, err := f.provider.CreateAccount(ctx, "not-an-email", testPassword)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("Error_WeakPassword", func(t *testing.T) {
		f := newProviderFixture(t)

		_, err := f.provider.CreateAccount(ctx, "jane@example.com", "weakpassword")
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("Error_AlreadyExists", func(t *testing.T) {
		f := newProviderFixture(t)

		f.passwords.On("Hash", testPassword).Return("hashed", nil).Once()
		f.repo.On("Create", ctx, mock.Anything).Return(domain.ErrAccountAlreadyExists).Once()

		_, err := f.provider.CreateAccount(ctx, "jane@example.com", testPassword)
		assert.ErrorIs(t, err, domain.ErrAccountAlreadyExists)
	})
}
