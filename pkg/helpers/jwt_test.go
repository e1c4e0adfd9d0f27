package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewJWTManager("secret", 30*time.Minute)

	token, exp, err := m.GenerateToken(7, "jane@example.com", "user", "sid-1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), exp, 5*time.Second)

	claims, err := m.ParseToken(token)
	require.NoError(t, err)

	uid, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(7), uid)
	assert.Equal(t, "jane@example.com", claims.Email)
	assert.Equal(t, "user", claims.Role)
	assert.Equal(t, "sid-1", claims.SessionID)
}

func TestExpiredTokenRejected(t *testing.T) {
	m := NewJWTManager("secret", -time.Minute)

	token, _, err := m.GenerateToken(7, "jane@example.com", "user", "sid-1")
	require.NoError(t, err)

	_, err = m.ParseToken(token)
	assert.Error(t, err)
}

func TestWrongSecretRejected(t *testing.T) {
	a := NewJWTManager("secret-a", time.Minute)
	b := NewJWTManager("secret-b", time.Minute)

	token, _, err := a.GenerateToken(7, "jane@example.com", "user", "sid-1")
	require.NoError(t, err)

	_, err = b.ParseToken(token)
	assert.Error(t, err)
}
