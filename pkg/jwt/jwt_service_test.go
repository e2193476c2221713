package jwt

import (
	"testing"
	"time"

	"foodgram/domain"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	svc := NewJWTService("test-secret")

	token, err := svc.GenerateTokenUser("user-1")
	require.NoError(t, err)

	id, err := svc.GetUserIDByToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", id)
}

func TestTokenSignedWithOtherSecretIsInvalid(t *testing.T) {
	token, err := NewJWTService("secret-a").GenerateTokenUser("user-1")
	require.NoError(t, err)

	_, err = NewJWTService("secret-b").GetUserIDByToken(token)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestExpiredToken(t *testing.T) {
	claims := jwtUserClaim{
		"user-1",
		jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("s"))
	require.NoError(t, err)

	_, err = NewJWTService("s").GetUserIDByToken(token)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}
