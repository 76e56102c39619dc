package api

import (
	"net/http"
	"strings"

	"github.com/cookfeed/cookfeed-server/internal/http/response"
)

// authRoutePrefix is the path prefix whose requests are limited per client IP.
const authRoutePrefix = "/api/v1/auth/"

// authRateLimit throttles credential endpoints by client IP.
// Returns 429 Too Many Requests when limit is exceeded.
func (s *Server) authRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.authRateLimiter == nil || !strings.HasPrefix(r.URL.Path, authRoutePrefix) {
			next.ServeHTTP(w, r)
			return
		}

		key := getClientIP(r)
		if !s.authRateLimiter.Allow(key) {
			s.logger.Warn("Rate limit exceeded",
				"ip", key,
				"path", r.URL.Path,
			)
			if s.metrics != nil {
				s.metrics.RateLimitedTotal.Inc()
			}
			response.TooManyRequests(w, "Too many requests. Please try again later.", s.authRateLimiter.RetryAfter(key), s.logger)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// getClientIP extracts the client IP from the request.
// Checks X-Forwarded-For and X-Real-IP headers before falling back to RemoteAddr.
func getClientIP(r *http.Request) string {
	// Check X-Forwarded-For (may contain multiple IPs, first is client).
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	// Fall back to RemoteAddr (strip port).
	ip := r.RemoteAddr
	if i := strings.LastIndexByte(ip, ':'); i >= 0 {
		return ip[:i]
	}
	return ip
}
