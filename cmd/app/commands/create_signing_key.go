package commands

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"

	cryptoDomain "github.com/allisson/handoff/internal/crypto/domain"
	cryptoService "github.com/allisson/handoff/internal/crypto/service"
)

// signingKeyBytes is the entropy of a generated assertion signing key.
const signingKeyBytes = 32

// RunCreateSigningKey generates an ASSERTION_SIGNING_KEY for the local identity provider.
// Without kmsKeyURI the key is printed as is. With kmsKeyURI it is encrypted through the
// KMS keeper and printed as base64 ciphertext together with KMS_KEY_URI.
//
// For local development use kmsKeyURI="base64key://<32-byte-base64-key>". Never use
// base64key in production.
func RunCreateSigningKey(
	ctx context.Context,
	kmsService cryptoService.KMSService,
	logger *slog.Logger,
	writer io.Writer,
	kmsKeyURI string,
) error {
	raw := make([]byte, signingKeyBytes)
	if _, err := rand.Read(raw); err != nil {
		return fmt.Errorf("failed to generate signing key: %w", err)
	}
	defer cryptoDomain.Zero(raw)

	signingKey := []byte(base64.RawURLEncoding.EncodeToString(raw))
	defer cryptoDomain.Zero(signingKey)

	if kmsKeyURI == "" {
		logger.Warn("signing key printed in plaintext; set --kms-key-uri to encrypt it")
		_, _ = fmt.Fprintln(writer, "# Copy this environment variable to your .env file or secrets manager")
		_, _ = fmt.Fprintf(writer, "ASSERTION_SIGNING_KEY=\"%s\"\n", signingKey)
		return nil
	}

	keeper, err := kmsService.OpenKeeper(ctx, kmsKeyURI)
	if err != nil {
		return fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	defer func() {
		if closeErr := keeper.Close(); closeErr != nil {
			logger.Error("failed to close KMS keeper", slog.Any("error", closeErr))
		}
	}()

	ciphertext, err := keeper.Encrypt(ctx, signingKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt signing key with KMS: %w", err)
	}

	_, _ = fmt.Fprintln(writer, "# Copy these environment variables to your .env file or secrets manager")
	_, _ = fmt.Fprintf(writer, "KMS_KEY_URI=\"%s\"\n", kmsKeyURI)
	_, _ = fmt.Fprintf(writer, "ASSERTION_SIGNING_KEY=\"%s\"\n", base64.StdEncoding.EncodeToString(ciphertext))

	logger.Info("signing key created and encrypted with KMS")
	return nil
}
