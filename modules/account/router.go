package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type Mountable interface {
	Handle() http.Handler
}

// RouterOptions configures which services to mount in the account module.
// Each service is optional and will only be mounted if provided.
type RouterOptions struct {
	Password Mountable
	Profile  Mountable

	// AuthMiddlewares wrap the public auth endpoints, e.g. rate limiting.
	AuthMiddlewares []func(http.Handler) http.Handler
	// ProfileMiddlewares authenticate the caller for the profile endpoints.
	ProfileMiddlewares []func(http.Handler) http.Handler
}

// Router creates the account module router.
//
// Example:
//
//	r.Mount("/api", account.Router(account.RouterOptions{
//	    Password:           account.NewPasswordService(accounts, tokens, errHandler),
//	    Profile:            account.NewProfileService(accounts, errHandler),
//	    AuthMiddlewares:    []func(http.Handler) http.Handler{limit},
//	    ProfileMiddlewares: []func(http.Handler) http.Handler{authn},
//	}))
func Router(opts RouterOptions) chi.Router {
	r := chi.NewRouter()

	if opts.Password != nil {
		r.With(opts.AuthMiddlewares...).Mount("/auth", opts.Password.Handle())
	}
	if opts.Profile != nil {
		r.With(opts.ProfileMiddlewares...).Mount("/user", opts.Profile.Handle())
	}

	return r
}
