// Package service provides the handoff token id generator.
package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"

	apperrors "github.com/allisson/handoff/internal/errors"
)

// tokenIDBytes is the entropy of a handoff token id (256 bits).
const tokenIDBytes = 32

// TokenService generates handoff token ids and the hashes they are stored under.
type TokenService interface {
	// GenerateToken returns a new random token id (unpadded base64url, safe in a query
	// string) and its hash.
	GenerateToken() (tokenID string, tokenHash string, err error)

	// HashToken returns the hex SHA-256 of a token id.
	HashToken(tokenID string) string
}

type tokenService struct{}

// NewTokenService creates a TokenService backed by crypto/rand and SHA-256.
func NewTokenService() TokenService {
	return &tokenService{}
}

func (t *tokenService) GenerateToken() (string, string, error) {
	randomBytes := make([]byte, tokenIDBytes)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", "", apperrors.Wrap(err, "failed to generate handoff token")
	}

	tokenID := base64.RawURLEncoding.EncodeToString(randomBytes)
	return tokenID, t.HashToken(tokenID), nil
}

func (t *tokenService) HashToken(tokenID string) string {
	hash := sha256.Sum256([]byte(tokenID))
	return hex.EncodeToString(hash[:])
}
