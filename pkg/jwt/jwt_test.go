package jwt

import (
	"testing"
	"time"

	"clinic-backoffice/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "s3cret", AccessExpiry: time.Minute, RefreshExpiry: time.Hour})

	token, tokenID, err := svc.GenerateAccessToken(42, "cashier@clinic.test", 3)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, int64(3), claims.RoleID)
	assert.Equal(t, "cashier@clinic.test", claims.Email)
	assert.Equal(t, AccessToken, claims.TokenType)
	assert.Equal(t, tokenID, claims.TokenID)
}

func TestValidateRejectsForeignSecret(t *testing.T) {
	issuer := NewJWTService(config.JWTConfig{Secret: "one", AccessExpiry: time.Minute})
	verifier := NewJWTService(config.JWTConfig{Secret: "two", AccessExpiry: time.Minute})

	token, _, err := issuer.GenerateRefreshToken(1, "a@b.c", 1)
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateRejectsExpired(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "s", AccessExpiry: -time.Minute})

	token, _, err := svc.GenerateAccessToken(1, "a@b.c", 1)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}
