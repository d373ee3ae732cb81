package http

import (
	"log/slog"
	"net/http"
	"strconv"
)

// RateLimitMiddleware applies the limiter to state-changing requests only;
// page views and downloads are never throttled.
func RateLimitMiddleware(
	limiter *RateLimiter,
	logger *slog.Logger,
	next http.Handler,
) http.Handler {

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			next.ServeHTTP(w, r)
			return
		}

		ip := remoteIP(r)
		if !limiter.Allow(ip) {
			logger.WarnContext(r.Context(), "Rate limit exceeded",
				"remote_ip", ip,
				"client_ip", clientIP(r),
				"url", r.URL.Path)
			w.Header().Set("Retry-After", strconv.Itoa(int(limiter.refillDur.Seconds())))
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}
