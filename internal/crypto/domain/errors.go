// Package domain holds the cryptographic primitives' shared types and errors.
package domain

import (
	"github.com/allisson/handoff/internal/errors"
)

var (
	// ErrInvalidKeySize indicates a key is not exactly 32 bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrDecryptionFailed indicates ciphertext could not be authenticated with the given
	// key, nonce and associated data. The cause is deliberately not distinguished.
	ErrDecryptionFailed = errors.Wrap(errors.ErrInvalidInput, "decryption failed")

	// ErrInvalidSecretEncoding indicates a KMS-wrapped secret is not valid base64.
	ErrInvalidSecretEncoding = errors.Wrap(errors.ErrInvalidInput, "secret is not valid base64")
)
