package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func TestGenerateAndParse(t *testing.T) {
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

	tok, err := GenerateToken("admin@yombleh.com", RoleAdmin, secret, time.Hour, now)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := ParseToken(tok, secret, now.Add(30*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, "admin@yombleh.com", claims.Subject)
	assert.Equal(t, RoleAdmin, claims.Role)
}

func TestParseToken_Expired(t *testing.T) {
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

	tok, err := GenerateToken("a", RoleAdmin, secret, time.Minute, now)
	require.NoError(t, err)

	_, err = ParseToken(tok, secret, now.Add(2*time.Minute))
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_WrongSecret(t *testing.T) {
	now := time.Now()
	tok, err := GenerateToken("a", RoleAdmin, secret, time.Minute, now)
	require.NoError(t, err)

	_, err = ParseToken(tok, []byte("other"), now)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_Garbage(t *testing.T) {
	_, err := ParseToken("not-a-token", secret, time.Now())
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestHasRole(t *testing.T) {
	now := time.Now()
	tok, err := GenerateToken("a", RoleAdmin, secret, time.Minute, now)
	require.NoError(t, err)

	assert.True(t, HasRole(tok, RoleAdmin, secret, now))
	assert.False(t, HasRole(tok, "seller", secret, now))
	assert.False(t, HasRole(tok, RoleAdmin, secret, now.Add(time.Hour)))
	assert.False(t, HasRole("", RoleAdmin, secret, now))
}
