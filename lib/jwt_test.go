package lib

import (
	"breadstation_server/structs"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(t *testing.T, claims structs.AdminClaims, method jwt.SigningMethod, secret string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestParseToken(t *testing.T) {
	valid := structs.AdminClaims{
		Email:            "owner@breadstation.co.il",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}

	claims, err := ParseToken(sign(t, valid, jwt.SigningMethodHS256, "s3cret"), "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "owner@breadstation.co.il", claims.Email)

	_, err = ParseToken(sign(t, valid, jwt.SigningMethodHS256, "other"), "s3cret")
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := valid
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	_, err = ParseToken(sign(t, expired, jwt.SigningMethodHS256, "s3cret"), "s3cret")
	assert.ErrorIs(t, err, ErrExpiredToken)

	noExpiry := structs.AdminClaims{Email: "owner@breadstation.co.il"}
	_, err = ParseToken(sign(t, noExpiry, jwt.SigningMethodHS256, "s3cret"), "s3cret")
	assert.ErrorIs(t, err, ErrInvalidToken)

	noEmail := valid
	noEmail.Email = ""
	_, err = ParseToken(sign(t, noEmail, jwt.SigningMethodHS256, "s3cret"), "s3cret")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExtractBearerToken(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	_, err := ExtractBearerToken(r)
	assert.ErrorIs(t, err, ErrUnauthorized)

	r.Header.Set("Authorization", "bearer abc.def")
	token, err := ExtractBearerToken(r)
	require.NoError(t, err)
	assert.Equal(t, "abc.def", token)

	r.Header.Set("Authorization", "Basic abc")
	_, err = ExtractBearerToken(r)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIsAdminEmail(t *testing.T) {
	allowed := []string{" Owner@BreadStation.co.il "}
	assert.True(t, IsAdminEmail("owner@breadstation.co.il", allowed))
	assert.False(t, IsAdminEmail("guest@example.com", allowed))
	assert.False(t, IsAdminEmail("owner@breadstation.co.il", nil))
}
