package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	JwtKey = []byte("test-secret")

	token, err := GenerateJWT("66f1a2b3c4d5e6f7a8b9c0d1", "owner@example.com")
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "66f1a2b3c4d5e6f7a8b9c0d1", claims.UserID)
	assert.Equal(t, "owner@example.com", claims.Email)
}

func TestResetTokenCarriesEmailOnly(t *testing.T) {
	JwtKey = []byte("test-secret")

	token, err := GenerateResetToken("owner@example.com")
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Empty(t, claims.UserID)
	assert.Equal(t, "owner@example.com", claims.Email)
}

func TestParseTokenExpired(t *testing.T) {
	JwtKey = []byte("test-secret")

	token, err := signToken("", "owner@example.com", -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestLoadJwtKey(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	assert.Error(t, LoadJwtKey())

	t.Setenv("JWT_SECRET", "env-secret")
	require.NoError(t, LoadJwtKey())
	assert.Equal(t, []byte("env-secret"), JwtKey)
}

func TestParseTokenInvalid(t *testing.T) {
	JwtKey = []byte("test-secret")

	_, err := ParseToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	token, err := GenerateJWT("id", "owner@example.com")
	require.NoError(t, err)

	JwtKey = []byte("different-secret")
	_, err = ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
