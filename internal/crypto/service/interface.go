// Package service implements the cryptographic services used by the handoff flow: sealing
// handoff payloads under a key only the token holder can derive, and unwrapping
// configuration secrets through a KMS.
package service

// AEAD is authenticated encryption with associated data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext and nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}

// TokenSealer encrypts handoff payloads under a key derived from the plain token id.
// Whoever holds only the stored record (keyed by the token hash) cannot open it.
type TokenSealer interface {
	// Seal encrypts plaintext for tokenID. aad binds the ciphertext to its record.
	Seal(tokenID string, plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Open reverses Seal. It returns domain.ErrDecryptionFailed for a wrong token id,
	// tampered ciphertext or mismatched aad.
	Open(tokenID string, ciphertext, nonce, aad []byte) ([]byte, error)
}
