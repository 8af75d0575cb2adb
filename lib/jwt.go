package lib

import (
	"breadstation_server/structs"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// ParseToken validates an HS256 access token issued by the identity provider
func ParseToken(tokenStr string, secret string) (*structs.AdminClaims, error) {
	claims := &structs.AdminClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Email == "" {
		return nil, fmt.Errorf("%w: missing email claim", ErrInvalidToken)
	}
	return claims, nil
}

// ExtractBearerToken reads the token from the Authorization header and falls
// back to the provider's session cookie.
func ExtractBearerToken(r *http.Request) (string, error) {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			return "", ErrInvalidToken
		}
		return strings.TrimSpace(token), nil
	}
	token, err := GetCookieValue(AdminCookieName, r)
	if err != nil || token == "" {
		return "", ErrUnauthorized
	}
	return token, nil
}

func ExtractClaims(r *http.Request, secret string) (*structs.AdminClaims, error) {
	token, err := ExtractBearerToken(r)
	if err != nil {
		return nil, err
	}
	return ParseToken(token, secret)
}

// IsAdminEmail checks the allow-list case-insensitively
func IsAdminEmail(email string, allowed []string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	return slices.ContainsFunc(allowed, func(a string) bool {
		return strings.ToLower(strings.TrimSpace(a)) == email
	})
}
