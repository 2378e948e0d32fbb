package auth

import (
	"testing"
	"time"

	"venus/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.JWTConfig {
	return &config.JWTConfig{AccessSecret: "s3cret", AccessExpiry: time.Hour, Issuer: "venus"}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	cfg := testConfig()
	tok, err := GenerateAccessToken(cfg, "2b1c6a3e-6c1f-4f0e-9c55-0d3c2a3b4c5d", "amina@example.com")
	require.NoError(t, err)

	claims, err := ParseAccessToken(cfg, tok)
	require.NoError(t, err)
	assert.Equal(t, "2b1c6a3e-6c1f-4f0e-9c55-0d3c2a3b4c5d", claims.UserID)
	assert.Equal(t, "amina@example.com", claims.Email)
}

func TestParseAccessTokenRejects(t *testing.T) {
	cfg := testConfig()
	tok, err := GenerateAccessToken(cfg, "u1", "a@example.com")
	require.NoError(t, err)

	other := testConfig()
	other.AccessSecret = "different"
	_, err = ParseAccessToken(other, tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := testConfig()
	expired.AccessExpiry = -time.Minute
	old, err := GenerateAccessToken(expired, "u1", "a@example.com")
	require.NoError(t, err)
	_, err = ParseAccessToken(cfg, old)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseAccessToken(cfg, "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
