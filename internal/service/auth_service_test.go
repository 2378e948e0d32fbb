package service

import (
	"testing"
	"time"

	"venus/config"
	"venus/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{AccessSecret: "test-secret", AccessExpiry: time.Hour, Issuer: "venus-test"}
}

func TestRegisterAndLogin(t *testing.T) {
	cfg := testJWTConfig()
	users := newFakeUsers()
	svc := NewAuthService(cfg, users)

	u, token, err := svc.Register(" Wanjiru@Example.com ", "s3cret-pass", "Wanjiru", "Kamau")
	require.NoError(t, err)
	assert.Equal(t, "wanjiru@example.com", u.Email)
	assert.NotEqual(t, "s3cret-pass", u.PasswordHash)

	claims, err := auth.ParseAccessToken(cfg, token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)

	_, _, err = svc.Register("wanjiru@example.com", "other", "W", "K")
	assert.ErrorIs(t, err, ErrEmailExists)

	logged, _, err := svc.Login("WANJIRU@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, u.ID, logged.ID)

	_, _, err = svc.Login("wanjiru@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCreds)
	_, _, err = svc.Login("nobody@example.com", "s3cret-pass")
	assert.ErrorIs(t, err, ErrInvalidCreds)

	require.NoError(t, svc.UpdateFCMToken(u.ID, " device-abc "))
	stored, err := users.GetByID(u.ID)
	require.NoError(t, err)
	assert.Equal(t, "device-abc", stored.FCMToken)
}
