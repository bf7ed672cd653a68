package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/utilgate/utilgate/internal/ratelimit"
)

// RateLimit returns the request gate applied before any routing or
// authentication: every inbound request, public or protected, counts
// against its source address's sliding window.
func RateLimit(limiter *ratelimit.Limiter, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := ClientIP(r)

			if !limiter.Allow(ip) {
				logger.Warn("rate limit exceeded",
					slog.String("ip", ip),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)

				w.Header().Set("Retry-After", strconv.Itoa(int(limiter.Window().Seconds())))
				writeError(w, http.StatusTooManyRequests,
					fmt.Sprintf("rate limit exceeded: maximum %d requests per %s per address",
						limiter.Limit(), limiter.Window()))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
