package services

import (
	"breadstation_server/lib"
	"breadstation_server/structs"
	"errors"
	"net/http"

	"github.com/MonkyMars/gecho"
)

// AuthService verifies admin access tokens issued by the identity provider.
// Sign-in itself happens at the provider.
type AuthService struct {
	logger *gecho.Logger
	cfg    *structs.Config
}

func NewAuthService(cfg *structs.Config, logger *gecho.Logger) *AuthService {
	return &AuthService{logger: logger, cfg: cfg}
}

// VerifyAdmin returns the claims of a valid token whose email is on the
// admin allow-list. Missing or bad tokens give ErrUnauthorized, valid tokens
// of other users give ErrForbidden.
func (as *AuthService) VerifyAdmin(r *http.Request) (*structs.AdminClaims, error) {
	claims, err := lib.ExtractClaims(r, as.cfg.Auth.JWTSecret)
	if err != nil {
		if errors.Is(err, lib.ErrExpiredToken) {
			as.logger.Debug("Expired admin token", gecho.Field("path", r.URL.Path))
		} else {
			as.logger.Debug("Rejected admin token", gecho.Field("path", r.URL.Path), gecho.Field("error", err))
		}
		return nil, errors.Join(lib.ErrUnauthorized, err)
	}

	if !as.IsAdmin(claims.Email) {
		as.logger.Warn("Non-admin attempted admin access",
			gecho.Field("email", claims.Email),
			gecho.Field("path", r.URL.Path),
		)
		return claims, lib.ErrForbidden
	}
	return claims, nil
}

func (as *AuthService) IsAdmin(email string) bool {
	return lib.IsAdminEmail(email, as.cfg.Auth.AdminEmails)
}
