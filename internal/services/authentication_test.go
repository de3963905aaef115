package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	auth, err := NewAuthentication("bot-token", "jwt-secret", "bot-jwt-secret")
	require.NoError(t, err)

	token, err := auth.CreateToken(42)
	require.NoError(t, err)

	userID, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	authA, err := NewAuthentication("bot-token", "secret-a", "bot-jwt-secret")
	require.NoError(t, err)
	authB, err := NewAuthentication("bot-token", "secret-b", "bot-jwt-secret")
	require.NoError(t, err)

	token, err := authA.CreateToken(42)
	require.NoError(t, err)

	_, err = authB.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	auth, err := NewAuthentication("bot-token", "jwt-secret", "bot-jwt-secret")
	require.NoError(t, err)

	_, err = auth.ValidateToken("not-a-jwt")
	assert.Error(t, err)
}
