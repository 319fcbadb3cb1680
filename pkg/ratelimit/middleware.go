package ratelimit

import (
	"math"
	"net/http"
	"strconv"

	"github.com/dmitrymomot/videovault/pkg/clientip"
)

// KeyFunc extracts the throttling key from a request.
// An empty key skips limiting for that request.
type KeyFunc func(*http.Request) string

// ByClientIP keys requests by the IP stored by clientip.Middleware, falling
// back to resolving it from the request.
func ByClientIP(r *http.Request) string {
	if ip := clientip.FromContext(r.Context()); ip != "" {
		return ip
	}
	return clientip.GetIP(r)
}

// MiddlewareOption configures middleware behavior.
type MiddlewareOption func(*middlewareConfig)

type middlewareConfig struct {
	keyFunc        KeyFunc
	onLimitReached http.HandlerFunc
}

// WithKeyFunc sets a custom key extraction function.
func WithKeyFunc(fn KeyFunc) MiddlewareOption {
	return func(c *middlewareConfig) { c.keyFunc = fn }
}

// WithOnLimitReached replaces the default 429 plain-text response.
// Retry-After is already set when fn runs.
func WithOnLimitReached(fn http.HandlerFunc) MiddlewareOption {
	return func(c *middlewareConfig) { c.onLimitReached = fn }
}

// Middleware enforces limiter on every request.
func Middleware(limiter *Limiter, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	cfg := &middlewareConfig{
		keyFunc: ByClientIP,
		onLimitReached: func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
		},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := cfg.keyFunc(r)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			result := limiter.Allow(key)
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			if !result.Allowed {
				secs := int(math.Ceil(result.RetryAfter.Seconds()))
				if secs < 1 {
					secs = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(secs))
				cfg.onLimitReached(w, r)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
