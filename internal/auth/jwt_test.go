package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "jwt-test-secret"

func mintToken(t *testing.T, secret string, claims tokenClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestValidateToken(t *testing.T) {
	userID := uuid.New()

	valid := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID: userID.String(),
		Email:  "merchant@example.com",
	}

	t.Run("valid token", func(t *testing.T) {
		claims, err := ValidateToken(mintToken(t, testSecret, valid), testSecret)
		require.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
		assert.Equal(t, "merchant@example.com", claims.Email)
	})

	t.Run("wrong secret", func(t *testing.T) {
		_, err := ValidateToken(mintToken(t, "other-secret", valid), testSecret)
		assert.Error(t, err)
	})

	t.Run("expired token", func(t *testing.T) {
		expired := valid
		expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
		_, err := ValidateToken(mintToken(t, testSecret, expired), testSecret)
		assert.Error(t, err)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := ValidateToken("not.a.token", testSecret)
		assert.Error(t, err)
	})

	t.Run("non-uuid user id", func(t *testing.T) {
		bad := valid
		bad.UserID = "12345"
		_, err := ValidateToken(mintToken(t, testSecret, bad), testSecret)
		assert.Error(t, err)
	})

	t.Run("unsigned algorithm rejected", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, valid)
		signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = ValidateToken(signed, testSecret)
		assert.Error(t, err)
	})
}
