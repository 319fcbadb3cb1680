// Package billing mounts the checkout, webhook and manual activation endpoints.
package billing

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/videovault/handler"
	"github.com/dmitrymomot/videovault/svc/subscription"
)

// PermissionCheckout is required to start a checkout when a guard is set.
const PermissionCheckout = "billing.checkout"

type Config struct {
	// EnableManualActivation mounts /mock-webhook. Callers must keep it off in production.
	EnableManualActivation bool
}

type Service struct {
	cfg          Config
	reconciler   *subscription.Reconciler
	authn        func(http.Handler) http.Handler
	guard        func(permission string) func(http.Handler) http.Handler
	errorHandler handler.ErrorHandler[handler.Context]
}

// Option configures the billing module.
type Option func(*Service)

// WithGuard requires PermissionCheckout on the checkout endpoint.
func WithGuard(guard func(permission string) func(http.Handler) http.Handler) Option {
	return func(s *Service) {
		s.guard = guard
	}
}

// NewService builds the billing module. authn guards the checkout endpoint.
func NewService(
	cfg Config,
	reconciler *subscription.Reconciler,
	authn func(http.Handler) http.Handler,
	errorHandler handler.ErrorHandler[handler.Context],
	opts ...Option,
) *Service {
	if reconciler == nil {
		panic("billing: reconciler is required")
	}
	if authn == nil {
		panic("billing: authentication middleware is required")
	}
	s := &Service{
		cfg:          cfg,
		reconciler:   reconciler,
		authn:        authn,
		errorHandler: errorHandler,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()

	checkout := []func(http.Handler) http.Handler{s.authn}
	if s.guard != nil {
		checkout = append(checkout, s.guard(PermissionCheckout))
	}
	r.With(checkout...).Post("/create-checkout", handler.Wrap(s.createCheckout,
		handler.WithErrorHandler[handler.Context, struct{}](s.errorHandler),
	))

	r.Post("/webhook", handler.Wrap(s.webhook,
		handler.WithBinders[handler.Context, WebhookRequest](bindWebhook()),
		handler.WithErrorHandler[handler.Context, WebhookRequest](s.errorHandler),
	))

	if s.cfg.EnableManualActivation {
		r.Post("/mock-webhook", handler.Wrap(s.manualActivate,
			handler.WithBinders[handler.Context, ManualActivationRequest](handler.BindJSON()),
			handler.WithErrorHandler[handler.Context, ManualActivationRequest](s.errorHandler),
		))
	}

	return r
}
