package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/handoff/internal/crypto/domain"
)

// generateLocalSecretsURI generates a base64key:// URI for testing.
func generateLocalSecretsURI(t *testing.T) string {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return "base64key://" + base64.URLEncoding.EncodeToString(key)
}

func TestKMSService_OpenKeeper(t *testing.T) {
	ctx := context.Background()
	kmsService := NewKMSService()

	t.Run("Success_LocalSecrets", func(t *testing.T) {
		keeper, err := kmsService.OpenKeeper(ctx, generateLocalSecretsURI(t))
		require.NoError(t, err)
		require.NotNil(t, keeper)
		assert.NoError(t, keeper.Close())
	})

	t.Run("Error_InvalidURI", func(t *testing.T) {
		keeper, err := kmsService.OpenKeeper(ctx, "invalid://uri")
		assert.Error(t, err)
		assert.Nil(t, keeper)
		assert.Contains(t, err.Error(), "failed to open KMS keeper")
	})
}

func TestKMSService_ResolveSecret(t *testing.T) {
	ctx := context.Background()
	kmsService := NewKMSService()
	keyURI := generateLocalSecretsURI(t)

	keeper, err := kmsService.OpenKeeper(ctx, keyURI)
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, keeper.Close())
	}()

	t.Run("Success_PlainValueWithoutKMS", func(t *testing.T) {
		secret, err := kmsService.ResolveSecret(ctx, "", "plain-signing-key")
		require.NoError(t, err)
		assert.Equal(t, []byte("plain-signing-key"), secret)
	})

	t.Run("Success_DecryptsKMSCiphertext", func(t *testing.T) {
		signingKey := make([]byte, 32)
		_, err := rand.Read(signingKey)
		require.NoError(t, err)

		ciphertext, err := keeper.Encrypt(ctx, signingKey)
		require.NoError(t, err)

		secret, err := kmsService.ResolveSecret(ctx, keyURI, base64.StdEncoding.EncodeToString(ciphertext))
		require.NoError(t, err)
		assert.Equal(t, signingKey, secret)
	})

	t.Run("Error_InvalidBase64", func(t *testing.T) {
		secret, err := kmsService.ResolveSecret(ctx, keyURI, "%%%not-base64")
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidSecretEncoding)
		assert.Nil(t, secret)
	})

	t.Run("Error_WrongKeeper", func(t *testing.T) {
		ciphertext, err := keeper.Encrypt(ctx, []byte("secret"))
		require.NoError(t, err)

		otherURI := generateLocalSecretsURI(t)
		secret, err := kmsService.ResolveSecret(ctx, otherURI, base64.StdEncoding.EncodeToString(ciphertext))
		assert.Error(t, err)
		assert.Nil(t, secret)
	})
}
