package middleware

import (
	"breadstation_server/lib"
	"breadstation_server/structs"
	"context"
	"errors"
	"net/http"

	"github.com/MonkyMars/gecho"
)

type contextKey string

const ClaimsContextKey contextKey = "claims"

// AdminAuthMiddleware lets through requests carrying a valid provider token
// whose email is on the admin allow-list
func (mw *Middleware) AdminAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := mw.authService.VerifyAdmin(r)
		switch {
		case errors.Is(err, lib.ErrForbidden):
			gecho.Forbidden(w, gecho.WithMessage("Admin access required"), gecho.Send())
			return
		case err != nil:
			gecho.Unauthorized(w, gecho.WithMessage("Invalid or missing access token"), gecho.Send())
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetClaimsFromContext(ctx context.Context) (*structs.AdminClaims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*structs.AdminClaims)
	return claims, ok
}
