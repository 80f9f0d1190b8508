package auth

import (
	"testing"

	"github.com/axion-health/axion-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestJWT_RoundTrip verifies a generated token validates back to the same
// subject.
func TestJWT_RoundTrip(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"

	token, err := GenerateJWT("alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)
}

// TestJWT_RejectsTamperedToken verifies a token signed with another secret
// is rejected.
func TestJWT_RejectsTamperedToken(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"
	token, err := GenerateJWT("alice")
	require.NoError(t, err)

	config.AppConfig.JWTSecret = "different-secret"
	_, err = ValidateJWT(token)
	assert.Error(t, err)

	config.AppConfig.JWTSecret = "test-secret"
	_, err = ValidateJWT("not-a-token")
	assert.Error(t, err)
}

// TestPasswordHashing verifies the hash validates the original password
// and nothing else.
func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", hash)

	assert.True(t, CheckPasswordHash("hunter2", hash))
	assert.False(t, CheckPasswordHash("hunter3", hash))
}
