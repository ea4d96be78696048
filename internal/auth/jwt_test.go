package auth

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateTokens(t *testing.T) {
	a := NewJWTAuthenticator("access-secret", "refresh-secret", "ziorum", "ziorum")

	access, refresh, err := a.GenerateTokens("4f7f2a1e-9c0d-4f3e-8f21-0a6d2b9d1c55", "admin")
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)

	parsed, err := a.ValidateAccessToken(access)
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "4f7f2a1e-9c0d-4f3e-8f21-0a6d2b9d1c55", claims["sub"])
	assert.Equal(t, "admin", claims["role"])
}

func TestRefreshTokenUsesSeparateSecret(t *testing.T) {
	a := NewJWTAuthenticator("access-secret", "refresh-secret", "ziorum", "ziorum")

	_, refresh, err := a.GenerateTokens("user-1", "user")
	require.NoError(t, err)

	_, err = a.ValidateAccessToken(refresh)
	assert.Error(t, err, "a refresh token must not validate as an access token")

	parsed, err := a.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
}
