package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *Manager {
	return NewManager("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := newTestManager()
	userID := uuid.New()

	token, err := m.GenerateAccessToken(userID, "+919999900001", "official")
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "+919999900001", claims.PhoneNumber)
	assert.Equal(t, "official", claims.Role)
	assert.Equal(t, "gram-panchayat", claims.Issuer)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	m := newTestManager()
	userID := uuid.New()

	token, err := m.GenerateRefreshToken(userID)
	require.NoError(t, err)

	parsed, err := m.ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, parsed)
}

func TestAccessTokenRejectsWrongSecret(t *testing.T) {
	m := newTestManager()
	token, err := m.GenerateAccessToken(uuid.New(), "+919999900001", "citizen")
	require.NoError(t, err)

	other := NewManager("different-secret", "refresh-secret", 15*time.Minute, time.Hour)
	_, err = other.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestTokensAreNotInterchangeable(t *testing.T) {
	m := newTestManager()
	userID := uuid.New()

	access, err := m.GenerateAccessToken(userID, "+919999900001", "citizen")
	require.NoError(t, err)
	refresh, err := m.GenerateRefreshToken(userID)
	require.NoError(t, err)

	_, err = m.ValidateRefreshToken(access)
	assert.Error(t, err)
	_, err = m.ValidateAccessToken(refresh)
	assert.Error(t, err)
}

func TestExpiredAccessTokenRejected(t *testing.T) {
	m := NewManager("access-secret", "refresh-secret", -time.Minute, time.Hour)
	token, err := m.GenerateAccessToken(uuid.New(), "+919999900001", "citizen")
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(token)
	assert.Error(t, err)
}
