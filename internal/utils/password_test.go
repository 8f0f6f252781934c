package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("kali4u", 10)
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "kali4u", hash)

	assert.True(t, VerifyPassword(hash, "kali4u"))
	assert.False(t, VerifyPassword(hash, "kali4U"))
	assert.False(t, VerifyPassword(hash, ""))
}

func TestHashPassword_DistinctSalts(t *testing.T) {
	// bcrypt salts per call, so the same secret never hashes twice to the
	// same string.
	h1, err := HashPassword("secret", 10)
	require.NoError(t, err)
	h2, err := HashPassword("secret", 10)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
	assert.True(t, VerifyPassword(h1, "secret"))
	assert.True(t, VerifyPassword(h2, "secret"))
}

func TestVerifyPassword_MalformedHashFailsClosed(t *testing.T) {
	assert.False(t, VerifyPassword("", "anything"))
	assert.False(t, VerifyPassword("not-a-bcrypt-hash", "anything"))
	assert.False(t, VerifyPassword("$2a$10$tooshort", "anything"))
}

func TestVerifyPassword_OtherSecretHash(t *testing.T) {
	hash, err := HashPassword("one", 10)
	require.NoError(t, err)
	assert.False(t, VerifyPassword(hash, "two"))
}
