package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateJWT(t *testing.T) {
	secret := []byte("test-secret")

	token, err := GenerateJWT("alice", "admin", secret, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateJWT(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, "admin", claims.Role)
}

func TestValidateJWT_WrongSecret(t *testing.T) {
	token, err := GenerateJWT("alice", "staff", []byte("secret-a"), time.Hour)
	require.NoError(t, err)

	_, err = ValidateJWT(token, []byte("secret-b"))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateJWT_Expired(t *testing.T) {
	token, err := GenerateJWT("alice", "staff", []byte("test-secret"), -time.Minute)
	require.NoError(t, err)

	_, err = ValidateJWT(token, []byte("test-secret"))
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateJWT_Garbage(t *testing.T) {
	_, err := ValidateJWT("not.a.token", []byte("test-secret"))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateJWT_EmptySubject(t *testing.T) {
	token, err := GenerateJWT("", "staff", []byte("test-secret"), time.Hour)
	require.NoError(t, err)

	_, err = ValidateJWT(token, []byte("test-secret"))
	assert.ErrorIs(t, err, ErrInvalidToken)
}
