package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/dmitrymomot/videovault/handler"
	"github.com/dmitrymomot/videovault/modules/access"
	accountmod "github.com/dmitrymomot/videovault/modules/account"
	"github.com/dmitrymomot/videovault/modules/admin"
	billingmod "github.com/dmitrymomot/videovault/modules/billing"
	videosmod "github.com/dmitrymomot/videovault/modules/videos"
	"github.com/dmitrymomot/videovault/pkg/clientip"
	"github.com/dmitrymomot/videovault/pkg/environment"
	"github.com/dmitrymomot/videovault/pkg/httpserver"
	"github.com/dmitrymomot/videovault/pkg/metrics"
	"github.com/dmitrymomot/videovault/pkg/ratelimit"
	"github.com/dmitrymomot/videovault/pkg/requestid"
)

// NewRouter wires every module onto a chi router.
func NewRouter(deps *Dependencies) (http.Handler, error) {
	limiter, err := ratelimit.New(ratelimit.Config{
		Rate:  deps.App.AuthRateLimit,
		Burst: deps.App.AuthRateBurst,
	})
	if err != nil {
		return nil, err
	}
	authLimit := ratelimit.Middleware(limiter,
		ratelimit.WithOnLimitReached(func(w http.ResponseWriter, _ *http.Request) {
			handler.WriteError(w, handler.ErrTooManyRequests.WithMessage("Too many requests"))
		}),
	)

	errHandler := handler.NewErrorHandler(deps.Logger)
	authn := access.Authenticate(deps.Tokens)
	guard := access.Permissions(deps.Users, deps.Authorizer)

	r := chi.NewRouter()
	r.Use(
		requestid.Middleware,
		clientip.Middleware(),
		environment.Middleware(deps.App.Environment()),
		middleware.Recoverer,
		cors.Handler(cors.Options{
			AllowedOrigins:   deps.App.CORSAllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", requestid.Header},
			ExposedHeaders:   []string{requestid.Header},
			AllowCredentials: true,
			MaxAge:           300,
		}),
	)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		handler.WriteError(w, handler.ErrNotFound)
	})

	r.Get("/health", httpserver.HealthHandler(deps.Logger, deps.App.HealthTimeout, deps.HealthChecks))
	if deps.App.MetricsEnabled {
		r.Handle("/metrics", metrics.Handler(deps.Registry))
	}

	r.Mount("/api", accountmod.Router(accountmod.RouterOptions{
		Password:           accountmod.NewPasswordService(deps.Accounts, deps.Tokens, errHandler),
		Profile:            accountmod.NewProfileService(deps.Accounts, errHandler),
		AuthMiddlewares:    []func(http.Handler) http.Handler{authLimit},
		ProfileMiddlewares: []func(http.Handler) http.Handler{authn, guard(accountmod.PermissionReadProfile)},
	}))

	r.Mount("/api/stripe", billingmod.NewService(
		billingmod.Config{EnableManualActivation: deps.App.ManualActivationAllowed()},
		deps.Reconciler,
		authn,
		errHandler,
		billingmod.WithGuard(guard),
	).Handle())

	r.With(authn).Mount("/api/videos", videosmod.NewService(deps.Videos, errHandler,
		videosmod.WithGuard(guard),
	).Handle())

	r.With(authn, guard(admin.PermissionListUsers)).Mount("/api/admin", admin.NewService(deps.Accounts, errHandler).Handle())

	return r, nil
}
