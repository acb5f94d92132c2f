// Package service issues and verifies the identity assertions of the local provider.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/allisson/handoff/internal/errors"
	handoffDomain "github.com/allisson/handoff/internal/handoff/domain"
)

const (
	assertionIssuer = "handoff"

	// MinSigningKeyLength is the shortest accepted HS256 signing key.
	MinSigningKeyLength = 32
)

// ErrSigningKeyTooShort is returned for signing keys below MinSigningKeyLength bytes.
var ErrSigningKeyTooShort = apperrors.Wrap(
	apperrors.ErrInvalidInput,
	fmt.Sprintf("assertion signing key must be at least %d bytes", MinSigningKeyLength),
)

type assertionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// AssertionService signs and verifies HS256 JWT identity assertions.
type AssertionService struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewAssertionService creates an AssertionService. The key is copied.
func NewAssertionService(key []byte, ttl time.Duration) (*AssertionService, error) {
	if len(key) < MinSigningKeyLength {
		return nil, ErrSigningKeyTooShort
	}
	return &AssertionService{
		key: append([]byte(nil), key...),
		ttl: ttl,
		now: time.Now,
	}, nil
}

// Issue returns a signed assertion for userID.
func (s *AssertionService) Issue(userID, email string) (string, error) {
	now := s.now()
	claims := assertionClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    assertionIssuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to sign identity assertion")
	}
	return signed, nil
}

// VerifyAssertion implements the handoff AssertionVerifier. Any parse, signature, issuer
// or expiry failure is ErrSessionInvalid.
func (s *AssertionService) VerifyAssertion(_ context.Context, assertion string) (string, error) {
	if assertion == "" {
		return "", handoffDomain.ErrSessionInvalid
	}

	var claims assertionClaims
	_, err := jwt.ParseWithClaims(
		assertion,
		&claims,
		func(token *jwt.Token) (any, error) {
			return s.key, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(assertionIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || claims.Subject == "" {
		return "", handoffDomain.ErrSessionInvalid
	}
	return claims.Subject, nil
}
