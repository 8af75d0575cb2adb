package structs

import (
	"github.com/golang-jwt/jwt/v5"
)

// AdminClaims is the subset of the identity provider's access token we rely on
type AdminClaims struct {
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

type AdminMeResponse struct {
	Email   string `json:"email"`
	Subject string `json:"sub"`
	IsAdmin bool   `json:"is_admin"`
}
