// Package mocks provides testify mocks of the identity use case interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/allisson/handoff/internal/identity/domain"
)

// MockAccountRepository is a mock implementation of AccountRepository.
type MockAccountRepository struct {
	mock.Mock
}

// Create mocks the Create method.
func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

// GetByEmail mocks the GetByEmail method.
func (m *MockAccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

// UpdateLockout mocks the UpdateLockout method.
func (m *MockAccountRepository) UpdateLockout(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

// MockPasswordService is a mock implementation of PasswordService.
type MockPasswordService struct {
	mock.Mock
}

// Hash mocks the Hash method.
func (m *MockPasswordService) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

// Compare mocks the Compare method.
func (m *MockPasswordService) Compare(password, hash string) bool {
	args := m.Called(password, hash)
	return args.Bool(0)
}

// MockAssertionService is a mock implementation of AssertionService.
type MockAssertionService struct {
	mock.Mock
}

// Issue mocks the Issue method.
func (m *MockAssertionService) Issue(userID, email string) (string, error) {
	args := m.Called(userID, email)
	return args.String(0), args.Error(1)
}

// VerifyAssertion mocks the VerifyAssertion method.
func (m *MockAssertionService) VerifyAssertion(ctx context.Context, assertion string) (string, error) {
	args := m.Called(ctx, assertion)
	return args.String(0), args.Error(1)
}

// MockAccountUseCase is a mock implementation of AccountUseCase.
type MockAccountUseCase struct {
	mock.Mock
}

// CreateAccount mocks the CreateAccount method.
func (m *MockAccountUseCase) CreateAccount(ctx context.Context, email, password string) (*domain.Account, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
