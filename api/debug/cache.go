package debug

import (
	"net"
	"net/http"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

func (drm *DebugRoutesManager) CacheStats(w http.ResponseWriter, r *http.Request) {
	gecho.Success(w,
		gecho.WithData(drm.cacheService.GetConnectionStats()),
		gecho.Send(),
	)
}

// RateLimitStatus shows the caller's counter for a bucket
func (drm *DebugRoutesManager) RateLimitStatus(w http.ResponseWriter, r *http.Request) {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}

	status, err := drm.cacheService.GetRateLimitStatus(r.Context(), ip, chi.URLParam(r, "bucket"))
	if err != nil {
		drm.logger.Warn("Failed to read rate limit status", gecho.Field("error", err))
		gecho.InternalServerError(w,
			gecho.WithMessage("Failed to read rate limit status"),
			gecho.Send(),
		)
		return
	}

	status["ip"] = ip
	gecho.Success(w,
		gecho.WithData(status),
		gecho.Send(),
	)
}

func (drm *DebugRoutesManager) ClearCache(w http.ResponseWriter, r *http.Request) {
	if err := drm.cacheService.ClearAll(r.Context()); err != nil {
		drm.logger.Error("Failed to clear cache", gecho.Field("error", err))
		gecho.InternalServerError(w,
			gecho.WithMessage("Failed to clear cache"),
			gecho.Send(),
		)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Cache cleared"),
		gecho.Send(),
	)
}

func (drm *DebugRoutesManager) ClearCatalogCache(w http.ResponseWriter, r *http.Request) {
	if err := drm.cacheService.InvalidateCatalog(r.Context()); err != nil {
		gecho.InternalServerError(w,
			gecho.WithMessage("Failed to clear catalog cache"),
			gecho.Send(),
		)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Catalog cache cleared"),
		gecho.Send(),
	)
}
