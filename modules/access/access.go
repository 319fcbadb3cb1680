// Package access holds the HTTP guards shared by the API modules.
package access

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrymomot/videovault/handler"
	"github.com/dmitrymomot/videovault/pkg/jwt"
	"github.com/dmitrymomot/videovault/pkg/rbac"
	"github.com/dmitrymomot/videovault/svc/account"
)

type userKey struct{}

// WithUser stores the loaded caller in ctx.
func WithUser(ctx context.Context, u *account.User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// UserFromContext returns the caller loaded by RequirePermission.
func UserFromContext(ctx context.Context) (*account.User, bool) {
	u, ok := ctx.Value(userKey{}).(*account.User)
	return u, ok && u != nil
}

// Authenticate rejects requests without a valid access token with a JSON 401.
func Authenticate(tokens *jwt.Service, extractors ...jwt.TokenExtractor) func(http.Handler) http.Handler {
	opts := []jwt.MiddlewareOption{
		jwt.WithUnauthorizedHandler(func(w http.ResponseWriter, _ *http.Request, _ error) {
			handler.WriteError(w, handler.ErrUnauthorized)
		}),
	}
	if len(extractors) > 0 {
		opts = append(opts, jwt.WithExtractor(jwt.FirstOf(extractors...)))
	}
	return jwt.Middleware(tokens, opts...)
}

// RequirePermission re-reads the authenticated user on every request and
// lets it through only if its current role grants permission.
func RequirePermission(users account.Store, authz *rbac.Authorizer, permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := jwt.UserIDFromContext(r.Context())
			if userID == "" {
				handler.WriteError(w, handler.ErrUnauthorized)
				return
			}

			u, err := users.GetUserByID(r.Context(), userID)
			if err != nil {
				if errors.Is(err, account.ErrUserNotFound) {
					handler.WriteError(w, handler.ErrUnauthorized)
					return
				}
				handler.WriteError(w, err)
				return
			}

			if err := authz.Can(string(u.Role), permission); err != nil {
				handler.WriteError(w, handler.ErrForbidden)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
		})
	}
}

// Guard builds a permission middleware for a single permission.
type Guard func(permission string) func(http.Handler) http.Handler

// Permissions binds RequirePermission to a user store and authorizer.
func Permissions(users account.Store, authz *rbac.Authorizer) Guard {
	return func(permission string) func(http.Handler) http.Handler {
		return RequirePermission(users, authz, permission)
	}
}
