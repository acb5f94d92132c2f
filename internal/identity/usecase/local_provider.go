package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/handoff/internal/errors"
	handoffDomain "github.com/allisson/handoff/internal/handoff/domain"
	"github.com/allisson/handoff/internal/identity/domain"
	"github.com/allisson/handoff/internal/identity/service"
	appValidation "github.com/allisson/handoff/internal/validation"
)

// LockoutPolicy bounds consecutive failed sign-ins. MaxAttempts <= 0 disables lockout.
type LockoutPolicy struct {
	MaxAttempts int
	Duration    time.Duration
}

// LocalProvider verifies credentials against locally stored accounts. It satisfies the
// handoff IdentityProvider and AssertionVerifier.
type LocalProvider struct {
	accountRepo     AccountRepository
	passwordService service.PasswordService
	assertions      AssertionService
	lockout         LockoutPolicy
	dummyHash       string
	now             func() time.Time
}

// NewLocalProvider creates a LocalProvider.
func NewLocalProvider(
	accountRepo AccountRepository,
	passwordService service.PasswordService,
	assertions AssertionService,
	lockout LockoutPolicy,
) (*LocalProvider, error) {
	// Unknown emails are compared against this hash so they cost the same as a wrong
	// password.
	dummyHash, err := passwordService.Hash(uuid.NewString())
	if err != nil {
		return nil, err
	}
	return &LocalProvider{
		accountRepo:     accountRepo,
		passwordService: passwordService,
		assertions:      assertions,
		lockout:         lockout,
		dummyHash:       dummyHash,
		now:             time.Now,
	}, nil
}

// Verify checks email and password. Unknown accounts and wrong passwords both return
// ErrInvalidCredentials. The failure that reaches the lockout threshold, and every attempt
// while locked, return ErrAccountLocked.
func (p *LocalProvider) Verify(ctx context.Context, email, password string) (*handoffDomain.Identity, error) {
	email = normalizeEmail(email)

	account, err := p.accountRepo.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.Is(err, domain.ErrAccountNotFound) {
			p.passwordService.Compare(password, p.dummyHash)
			return nil, handoffDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	now := p.now().UTC()
	if account.Locked(now) {
		return nil, handoffDomain.ErrAccountLocked
	}

	if !p.passwordService.Compare(password, account.PasswordHash) {
		locked := account.RecordFailure(now, p.lockout.MaxAttempts, p.lockout.Duration)
		if err := p.accountRepo.UpdateLockout(ctx, account); err != nil {
			return nil, err
		}
		if locked {
			return nil, handoffDomain.ErrAccountLocked
		}
		return nil, handoffDomain.ErrInvalidCredentials
	}

	if account.RecordSuccess(now) {
		if err := p.accountRepo.UpdateLockout(ctx, account); err != nil {
			return nil, err
		}
	}

	assertion, err := p.assertions.Issue(account.ID.String(), account.Email)
	if err != nil {
		return nil, err
	}

	return &handoffDomain.Identity{
		UserID:    account.ID.String(),
		Email:     account.Email,
		Assertion: assertion,
	}, nil
}

// VerifyAssertion checks an assertion previously issued by Verify.
func (p *LocalProvider) VerifyAssertion(ctx context.Context, assertion string) (string, error) {
	return p.assertions.VerifyAssertion(ctx, assertion)
}

// CreateAccount validates the input, hashes the password and stores the account.
func (p *LocalProvider) CreateAccount(ctx context.Context, email, password string) (*domain.Account, error) {
	email = normalizeEmail(email)
	if err := validateCreateAccount(email, password); err != nil {
		return nil, err
	}

	hash, err := p.passwordService.Hash(password)
	if err != nil {
		return nil, err
	}

	now := p.now().UTC()
	account := &domain.Account{
		ID:           uuid.Must(uuid.NewV7()),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := p.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func validateCreateAccount(email, password string) error {
	err := validation.Errors{
		"email": validation.Validate(email,
			validation.Required.Error("email is required"),
			appValidation.Email,
			validation.Length(5, 255).Error("email must be between 5 and 255 characters"),
		),
		"password": validation.Validate(password,
			validation.Required.Error("password is required"),
			validation.Length(8, 128).Error("password must be between 8 and 128 characters"),
			appValidation.PasswordStrength{
				MinLength:      8,
				RequireUpper:   true,
				RequireLower:   true,
				RequireNumber:  true,
				RequireSpecial: true,
			},
		),
	}.Filter()
	return appValidation.WrapValidationError(err)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
