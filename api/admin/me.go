package admin

import (
	"breadstation_server/api/middleware"
	"breadstation_server/structs"
	"net/http"

	"github.com/MonkyMars/gecho"
)

// Me handles GET /admin/me so the dashboard can confirm its session
func (ar *AdminRoutesManager) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaimsFromContext(r.Context())
	if !ok {
		gecho.Unauthorized(w, gecho.WithMessage("Invalid or missing access token"), gecho.Send())
		return
	}

	gecho.Success(w,
		gecho.WithData(structs.AdminMeResponse{
			Email:   claims.Email,
			Subject: claims.Subject,
			IsAdmin: ar.authService.IsAdmin(claims.Email),
		}),
		gecho.Send(),
	)
}
