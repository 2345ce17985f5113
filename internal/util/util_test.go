package util

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

func TestGenerateAndValidateToken(t *testing.T) {
	t.Parallel()

	token, err := GenerateToken("user-123", "alex@example.com", "Alex Finch", testSecret, time.Hour)
	require.NoError(t, err)

	claims, err := ValidateJWT(token, testSecret)
	require.NoError(t, err)

	assert.Equal(t, "user-123", claims.Subject)
	assert.Equal(t, "alex@example.com", claims.Email)
	assert.Equal(t, "Alex Finch", claims.Name)
}

func TestValidateJWTWrongSecret(t *testing.T) {
	t.Parallel()

	token, err := GenerateToken("user-123", "alex@example.com", "Alex Finch", testSecret, time.Hour)
	require.NoError(t, err)

	_, err = ValidateJWT(token, "a-different-secret")
	assert.Error(t, err)
}

func TestValidateJWTExpired(t *testing.T) {
	t.Parallel()

	token, err := GenerateToken("user-123", "alex@example.com", "Alex Finch", testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = ValidateJWT(token, testSecret)
	assert.Error(t, err)
}

func TestValidateJWTRejectsUnsupportedAlgorithm(t *testing.T) {
	t.Parallel()

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-123"},
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ValidateJWT(token, testSecret)
	assert.ErrorContains(t, err, "unsupported signing algorithm")
}

func TestValidateJWTGarbage(t *testing.T) {
	t.Parallel()

	_, err := ValidateJWT("not-a-token", testSecret)
	assert.Error(t, err)
}
