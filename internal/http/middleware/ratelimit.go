package middleware

import (
	"encoding/json"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/Callhook/callhook/pkg/logger"
	"github.com/Callhook/callhook/pkg/ratelimiter"
)

// RateLimitMiddleware enforces per-endpoint token bucket policies. The
// identity is the authenticated tenant when RequireAuth ran earlier in the
// chain, the client IP otherwise.
type RateLimitMiddleware struct {
	limiter *ratelimiter.RateLimiter
	logger  logger.Logger
}

// NewRateLimitMiddleware creates a new rate limit middleware
func NewRateLimitMiddleware(limiter *ratelimiter.RateLimiter, logger logger.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		limiter: limiter,
		logger:  logger,
	}
}

// Limit creates a middleware enforcing the named endpoint's policy. The
// X-RateLimit-* headers are set on every response, allowed or not.
func (rm *RateLimitMiddleware) Limit(endpoint string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := clientIP(r)
			if tenantID, ok := TenantFromContext(r.Context()); ok {
				identity = tenantID
			}

			result := rm.limiter.Check(endpoint, identity)
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

			if !result.Allowed {
				retryAfter := int(math.Ceil(result.RetryAfter.Seconds()))
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))

				rm.logger.WithFields(map[string]interface{}{
					"endpoint": endpoint,
					"identity": identity,
				}).Warn("Rate limit exceeded")

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error": "rate limit exceeded",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP extracts the caller's address, favouring the first hop of
// X-Forwarded-For when a proxy sits in front.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
