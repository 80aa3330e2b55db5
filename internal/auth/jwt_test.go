package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", "careshare", time.Hour)
	userID := uuid.New()

	token, err := svc.GenerateToken(userID, "member@x.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "member@x.com", claims.Email)
	assert.Equal(t, "careshare", claims.Issuer)
}

func TestJWTService_ExpiredToken(t *testing.T) {
	svc := NewJWTService("test-secret", "careshare", -time.Minute)

	token, err := svc.GenerateToken(uuid.New(), "member@x.com")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTService_WrongSecret(t *testing.T) {
	svc := NewJWTService("test-secret", "careshare", time.Hour)
	other := NewJWTService("other-secret", "careshare", time.Hour)

	token, err := svc.GenerateToken(uuid.New(), "member@x.com")
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_Garbage(t *testing.T) {
	svc := NewJWTService("test-secret", "careshare", time.Hour)
	_, err := svc.ValidateToken("not-a-token")
	assert.Error(t, err)
}
