package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndParse(t *testing.T) {
	ts := NewTokenService("secret", "manhwahub", time.Hour)

	u := &User{ID: "u1", Username: "reader", Email: "reader@example.com"}
	token, err := ts.Sign(u)
	require.NoError(t, err)
	assert.NotEmpty(t, token.Value)
	assert.True(t, token.ExpiresAt.After(time.Now()))

	claims, err := ts.Parse(token.Value)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "reader", claims.Username)
	assert.Equal(t, "reader@example.com", claims.Email)
	assert.Equal(t, "manhwahub", claims.Issuer)
}

func TestParseWrongSecret(t *testing.T) {
	ts := NewTokenService("secret", "manhwahub", time.Hour)
	token, err := ts.Sign(&User{ID: "u1"})
	require.NoError(t, err)

	other := NewTokenService("different", "manhwahub", time.Hour)
	_, err = other.Parse(token.Value)
	assert.Error(t, err)
}

func TestParseWrongIssuer(t *testing.T) {
	foreign := NewTokenService("secret", "someone-else", time.Hour)
	token, err := foreign.Sign(&User{ID: "u1"})
	require.NoError(t, err)

	ts := NewTokenService("secret", "manhwahub", time.Hour)
	_, err = ts.Parse(token.Value)
	assert.Error(t, err, "same secret but foreign issuer must be rejected")
}

func TestParseExpired(t *testing.T) {
	ts := NewTokenService("secret", "manhwahub", -time.Minute)
	token, err := ts.Sign(&User{ID: "u1"})
	require.NoError(t, err)

	_, err = ts.Parse(token.Value)
	assert.Error(t, err)
}

func TestParseEmptyUserID(t *testing.T) {
	ts := NewTokenService("secret", "manhwahub", time.Hour)
	token, err := ts.Sign(&User{})
	require.NoError(t, err)

	_, err = ts.Parse(token.Value)
	assert.Error(t, err, "a token without a user id identifies nobody")
}
