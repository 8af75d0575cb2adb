package middleware

import (
	"breadstation_server/services"
	"breadstation_server/structs"
	"context"
	"time"

	"github.com/MonkyMars/gecho"
)

// RateLimiter counts requests per client and bucket inside a fixed window
type RateLimiter interface {
	IncrementRateLimit(ctx context.Context, ip, bucket string, window time.Duration) (int, time.Duration, error)
}

type Middleware struct {
	logger      *gecho.Logger
	cfg         *structs.Config
	authService *services.AuthService
	limiter     RateLimiter
}

func NewMiddleware(cfg *structs.Config, logger *gecho.Logger, authService *services.AuthService, limiter RateLimiter) *Middleware {
	return &Middleware{
		logger:      logger,
		cfg:         cfg,
		authService: authService,
		limiter:     limiter,
	}
}
