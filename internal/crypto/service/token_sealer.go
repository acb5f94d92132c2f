package service

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"

	cryptoDomain "github.com/allisson/handoff/internal/crypto/domain"
)

// tokenSealerInfo separates handoff payload keys from any other HKDF use of the same id.
const tokenSealerInfo = "handoff-token-payload-v1"

type hkdfTokenSealer struct {
	info []byte
}

// NewTokenSealer returns a TokenSealer that derives a per-token ChaCha20-Poly1305 key
// with HKDF-SHA256 over the token id.
func NewTokenSealer() TokenSealer {
	return &hkdfTokenSealer{info: []byte(tokenSealerInfo)}
}

func (s *hkdfTokenSealer) Seal(tokenID string, plaintext, aad []byte) ([]byte, []byte, error) {
	aead, err := s.cipherFor(tokenID)
	if err != nil {
		return nil, nil, err
	}
	return aead.Encrypt(plaintext, aad)
}

func (s *hkdfTokenSealer) Open(tokenID string, ciphertext, nonce, aad []byte) ([]byte, error) {
	aead, err := s.cipherFor(tokenID)
	if err != nil {
		return nil, err
	}
	return aead.Decrypt(ciphertext, nonce, aad)
}

func (s *hkdfTokenSealer) cipherFor(tokenID string) (*ChaCha20Poly1305Cipher, error) {
	key := make([]byte, chacha20poly1305.KeySize)
	defer cryptoDomain.Zero(key)

	kdf := hkdf.New(sha256.New, []byte(tokenID), nil, s.info)
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("failed to derive token key: %w", err)
	}

	return NewChaCha20Poly1305(key)
}
