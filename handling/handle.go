package handling

import (
	"breadstation_server/lib"
	"breadstation_server/services"
	"errors"
	"net/http"

	"github.com/MonkyMars/gecho"
)

func HandleError(err error, msg string, logger *gecho.Logger, w http.ResponseWriter) *gecho.Response {
	logger.Error("An error occurred", gecho.Field("error", err), gecho.Field("msg", msg), gecho.WithCallerSkip(3))

	return gecho.InternalServerError(w, gecho.Send())
}

// RespondError writes the gecho response matching err. Anything it does not
// recognise is logged with msg and answered with a 500.
func RespondError(err error, msg string, logger *gecho.Logger, w http.ResponseWriter) *gecho.Response {
	var (
		outOfArea  *services.OutOfAreaError
		validation *lib.ValidationError
	)

	switch {
	case errors.As(err, &outOfArea):
		return gecho.BadRequest(w,
			gecho.WithMessage(outOfArea.Error()),
			gecho.WithData(map[string]any{
				"distance_km": outOfArea.DistanceKm,
				"radius_km":   outOfArea.RadiusKm,
			}),
			gecho.Send(),
		)
	case errors.As(err, &validation):
		return gecho.BadRequest(w,
			gecho.WithMessage(validation.Error()),
			gecho.WithData(map[string]any{"errors": validation.Errors}),
			gecho.Send(),
		)
	case errors.Is(err, lib.ErrUnauthorized), errors.Is(err, lib.ErrInvalidToken), errors.Is(err, lib.ErrExpiredToken):
		return gecho.Unauthorized(w, gecho.WithMessage("Unauthorized"), gecho.Send())
	case errors.Is(err, lib.ErrForbidden):
		return gecho.Forbidden(w, gecho.WithMessage("Forbidden"), gecho.Send())
	case errors.Is(err, lib.ErrNotFound):
		return gecho.NotFound(w, gecho.WithMessage(msg+": not found"), gecho.Send())
	case errors.Is(err, lib.ErrCategoryNotEmpty),
		errors.Is(err, lib.ErrSlugInUse),
		errors.Is(err, lib.ErrValidation),
		services.IsCartError(err):
		return gecho.BadRequest(w, gecho.WithMessage(err.Error()), gecho.Send())
	case errors.Is(err, lib.ErrConflict):
		return gecho.Conflict(w, gecho.WithMessage(msg+": already exists"), gecho.Send())
	case errors.Is(err, services.ErrMapsDisabled):
		return gecho.ServiceUnavailable(w, gecho.WithMessage(err.Error()), gecho.Send())
	case errors.Is(err, services.ErrNoRoute):
		return gecho.BadRequest(w, gecho.WithMessage(err.Error()), gecho.Send())
	}

	return HandleError(err, msg, logger, w)
}
