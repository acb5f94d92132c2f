// Package mocks provides testify mocks of the handoff use case interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	handoffDomain "github.com/allisson/handoff/internal/handoff/domain"
)

// MockIdentityProvider is a mock implementation of IdentityProvider.
type MockIdentityProvider struct {
	mock.Mock
}

// Verify mocks the Verify method.
func (m *MockIdentityProvider) Verify(ctx context.Context, email, password string) (*handoffDomain.Identity, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*handoffDomain.Identity), args.Error(1)
}

// MockAssertionVerifier is a mock implementation of AssertionVerifier.
type MockAssertionVerifier struct {
	mock.Mock
}

// VerifyAssertion mocks the VerifyAssertion method.
func (m *MockAssertionVerifier) VerifyAssertion(ctx context.Context, assertion string) (string, error) {
	args := m.Called(ctx, assertion)
	return args.String(0), args.Error(1)
}

// MockTenantRepository is a mock implementation of TenantRepository. It also satisfies
// TenantDirectory.
type MockTenantRepository struct {
	mock.Mock
}

// LookupUser mocks the LookupUser method.
func (m *MockTenantRepository) LookupUser(ctx context.Context, userID string) (*handoffDomain.Membership, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*handoffDomain.Membership), args.Error(1)
}

// LookupCompany mocks the LookupCompany method.
func (m *MockTenantRepository) LookupCompany(ctx context.Context, companyID uuid.UUID) (*handoffDomain.Company, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*handoffDomain.Company), args.Error(1)
}

// CreateCompany mocks the CreateCompany method.
func (m *MockTenantRepository) CreateCompany(ctx context.Context, company *handoffDomain.Company) error {
	args := m.Called(ctx, company)
	return args.Error(0)
}

// GetCompanyBySubdomain mocks the GetCompanyBySubdomain method.
func (m *MockTenantRepository) GetCompanyBySubdomain(
	ctx context.Context,
	subdomain string,
) (*handoffDomain.Company, error) {
	args := m.Called(ctx, subdomain)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*handoffDomain.Company), args.Error(1)
}

// SaveMembership mocks the SaveMembership method.
func (m *MockTenantRepository) SaveMembership(ctx context.Context, membership *handoffDomain.Membership) error {
	args := m.Called(ctx, membership)
	return args.Error(0)
}

// MockTokenRepository is a mock implementation of TokenRepository.
type MockTokenRepository struct {
	mock.Mock
}

// Create mocks the Create method.
func (m *MockTokenRepository) Create(ctx context.Context, token *handoffDomain.HandoffToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

// Consume mocks the Consume method.
func (m *MockTokenRepository) Consume(
	ctx context.Context,
	tokenHash string,
	now time.Time,
) (*handoffDomain.HandoffToken, error) {
	args := m.Called(ctx, tokenHash, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*handoffDomain.HandoffToken), args.Error(1)
}

// DeleteExpired mocks the DeleteExpired method.
func (m *MockTokenRepository) DeleteExpired(ctx context.Context, before time.Time, dryRun bool) (int64, error) {
	args := m.Called(ctx, before, dryRun)
	return args.Get(0).(int64), args.Error(1)
}

// MockTokenStore is a mock implementation of TokenStore.
type MockTokenStore struct {
	mock.Mock
}

// Mint mocks the Mint method.
func (m *MockTokenStore) Mint(ctx context.Context, payload handoffDomain.Payload, ttl time.Duration) (string, error) {
	args := m.Called(ctx, payload, ttl)
	return args.String(0), args.Error(1)
}

// Redeem mocks the Redeem method.
func (m *MockTokenStore) Redeem(ctx context.Context, tokenID string) (*handoffDomain.Payload, error) {
	args := m.Called(ctx, tokenID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*handoffDomain.Payload), args.Error(1)
}

// Sweep mocks the Sweep method.
func (m *MockTokenStore) Sweep(ctx context.Context, olderThan time.Time, dryRun bool) (int64, error) {
	args := m.Called(ctx, olderThan, dryRun)
	return args.Get(0).(int64), args.Error(1)
}

// MockHandoffUseCase is a mock implementation of HandoffUseCase.
type MockHandoffUseCase struct {
	mock.Mock
}

// Authenticate mocks the Authenticate method.
func (m *MockHandoffUseCase) Authenticate(
	ctx context.Context,
	input *handoffDomain.AuthenticateInput,
) (*handoffDomain.AuthenticateOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*handoffDomain.AuthenticateOutput), args.Error(1)
}

// EstablishSession mocks the EstablishSession method.
func (m *MockHandoffUseCase) EstablishSession(
	ctx context.Context,
	input *handoffDomain.AuthenticateInput,
) (*handoffDomain.AuthenticateOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*handoffDomain.AuthenticateOutput), args.Error(1)
}

// IssueToken mocks the IssueToken method.
func (m *MockHandoffUseCase) IssueToken(
	ctx context.Context,
	input *handoffDomain.AuthenticateInput,
) (*handoffDomain.IssueTokenOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*handoffDomain.IssueTokenOutput), args.Error(1)
}

// Restore mocks the Restore method.
func (m *MockHandoffUseCase) Restore(
	ctx context.Context,
	input *handoffDomain.RestoreInput,
) (*handoffDomain.RestoreOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*handoffDomain.RestoreOutput), args.Error(1)
}

// MockTenantUseCase is a mock implementation of TenantUseCase.
type MockTenantUseCase struct {
	mock.Mock
}

// CreateCompany mocks the CreateCompany method.
func (m *MockTenantUseCase) CreateCompany(ctx context.Context, subdomain, name string) (*handoffDomain.Company, error) {
	args := m.Called(ctx, subdomain, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*handoffDomain.Company), args.Error(1)
}

// AssignUser mocks the AssignUser method.
func (m *MockTenantUseCase) AssignUser(
	ctx context.Context,
	userID string,
	companyID uuid.UUID,
	role string,
) (*handoffDomain.Membership, error) {
	args := m.Called(ctx, userID, companyID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*handoffDomain.Membership), args.Error(1)
}
