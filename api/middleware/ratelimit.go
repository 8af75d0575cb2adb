package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
)

const (
	bucketGeneral   = "general"
	bucketExpensive = "expensive"
	bucketAdmin     = "admin"
)

// expensivePaths hit paid map APIs or send email
var expensivePaths = []string{
	"/delivery/resolve",
	"/cart/delivery",
	"/cart/checkout",
	"/checkout",
	"/admin/import",
}

// limitFor picks the bucket for a request
func (mw *Middleware) limitFor(path, method string) (string, int, time.Duration) {
	rl := mw.cfg.RateLimit

	if method != http.MethodGet {
		for _, p := range expensivePaths {
			if path == p {
				return bucketExpensive, rl.ExpensiveLimit, rl.ExpensiveWindow
			}
		}
	}

	if strings.HasPrefix(path, "/admin") {
		return bucketAdmin, rl.AdminLimit, rl.AdminWindow
	}

	return bucketGeneral, rl.GeneralLimit, rl.GeneralWindow
}

// clientIP expects chi's RealIP middleware to have rewritten RemoteAddr
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimitMiddleware applies a fixed-window limit per client and bucket.
// Cache errors fail open.
func (mw *Middleware) RateLimitMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !mw.cfg.RateLimit.Enabled || mw.limiter == nil {
				next.ServeHTTP(w, r)
				return
			}

			if r.URL.Path == "/" || strings.HasPrefix(r.URL.Path, "/health") || r.URL.Path == "/metrics" {
				next.ServeHTTP(w, r)
				return
			}

			ip := clientIP(r)
			bucket, limit, window := mw.limitFor(r.URL.Path, r.Method)

			count, ttl, err := mw.limiter.IncrementRateLimit(r.Context(), ip, bucket, window)
			if err != nil {
				mw.logger.Warn("Rate limit cache error, allowing request",
					gecho.Field("error", err),
					gecho.Field("ip", ip),
					gecho.Field("bucket", bucket),
				)
				next.ServeHTTP(w, r)
				return
			}

			if ttl <= 0 {
				ttl = window
			}
			reset := time.Now().Add(ttl).Unix()
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(reset, 10))

			if count > limit {
				mw.logger.Warn("Rate limit exceeded",
					gecho.Field("ip", ip),
					gecho.Field("bucket", bucket),
					gecho.Field("count", count),
					gecho.Field("limit", limit),
				)

				w.Header().Set("X-RateLimit-Remaining", "0")
				w.Header().Set("Retry-After", strconv.Itoa(int(ttl.Seconds())))
				gecho.TooManyRequests(w,
					gecho.WithMessage("Rate limit exceeded. Please try again later."),
					gecho.WithData(map[string]any{
						"limit":       limit,
						"window":      window.String(),
						"retry_after": int(ttl.Seconds()),
					}),
					gecho.Send(),
				)
				return
			}

			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(0, limit-count)))
			next.ServeHTTP(w, r)
		})
	}
}
