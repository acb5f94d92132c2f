package service

import (
	"github.com/allisson/go-pwdhash"

	apperrors "github.com/allisson/handoff/internal/errors"
)

// PasswordService hashes and compares account passwords with Argon2id.
type PasswordService interface {
	// Hash returns the encoded Argon2id hash of password.
	Hash(password string) (string, error)

	// Compare reports whether password matches hash in constant time. Malformed hashes
	// never match.
	Compare(password, hash string) bool
}

type passwordService struct {
	hasher *pwdhash.PasswordHasher
}

// NewPasswordService creates a PasswordService using the interactive policy, sized for
// a sign-in request path.
func NewPasswordService() (PasswordService, error) {
	hasher, err := pwdhash.New(pwdhash.WithPolicy(pwdhash.PolicyInteractive))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create password hasher")
	}
	return &passwordService{hasher: hasher}, nil
}

func (s *passwordService) Hash(password string) (string, error) {
	hash, err := s.hasher.Hash([]byte(password))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash password")
	}
	return hash, nil
}

func (s *passwordService) Compare(password, hash string) bool {
	ok, err := s.hasher.Verify([]byte(password), hash)
	if err != nil {
		return false
	}
	return ok
}
