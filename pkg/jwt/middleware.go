package jwt

import (
	"net/http"
	"strings"
)

// TokenExtractor pulls a raw token from a request.
type TokenExtractor func(r *http.Request) string

// BearerTokenExtractor reads "Authorization: Bearer <token>".
func BearerTokenExtractor(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// CookieTokenExtractor reads the token from the named cookie.
func CookieTokenExtractor(name string) TokenExtractor {
	return func(r *http.Request) string {
		c, err := r.Cookie(name)
		if err != nil {
			return ""
		}
		return c.Value
	}
}

// FirstOf tries extractors in order and returns the first non-empty token.
func FirstOf(extractors ...TokenExtractor) TokenExtractor {
	return func(r *http.Request) string {
		for _, e := range extractors {
			if t := e(r); t != "" {
				return t
			}
		}
		return ""
	}
}

// MiddlewareOption configures Middleware.
type MiddlewareOption func(*middlewareConfig)

type middlewareConfig struct {
	extractor    TokenExtractor
	unauthorized func(w http.ResponseWriter, r *http.Request, err error)
}

// WithExtractor replaces the bearer-token extractor.
func WithExtractor(e TokenExtractor) MiddlewareOption {
	return func(c *middlewareConfig) { c.extractor = e }
}

// WithUnauthorizedHandler replaces the plain-text 401 response.
func WithUnauthorizedHandler(fn func(w http.ResponseWriter, r *http.Request, err error)) MiddlewareOption {
	return func(c *middlewareConfig) { c.unauthorized = fn }
}

// Middleware rejects requests without a valid token and stores the claims
// in the request context otherwise.
func Middleware(svc *Service, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	cfg := &middlewareConfig{
		extractor: BearerTokenExtractor,
		unauthorized: func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
		},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := svc.Parse(cfg.extractor(r))
			if err != nil {
				cfg.unauthorized(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}
