package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dmitrymomot/videovault/pkg/billing"
	"github.com/dmitrymomot/videovault/pkg/logger"
	"github.com/dmitrymomot/videovault/pkg/metrics"
	"github.com/dmitrymomot/videovault/svc/account"
)

// MetricsRecorder receives reconciliation counters. *metrics.Recorder
// satisfies it.
type MetricsRecorder interface {
	WebhookEvent(eventType, outcome string)
	CheckoutSession(outcome string)
}

type noopMetrics struct{}

func (noopMetrics) WebhookEvent(string, string) {}
func (noopMetrics) CheckoutSession(string)      {}

// Reconciler applies billing events to user records.
type Reconciler struct {
	provider billing.Provider
	store    account.Store
	ledger   EventLedger
	metrics  MetricsRecorder
	logger   *slog.Logger

	successURL string
	cancelURL  string
}

type Option func(*Reconciler)

func WithLogger(l *slog.Logger) Option {
	return func(r *Reconciler) {
		r.logger = l
	}
}

// WithLedger enables skipping events that were already applied.
func WithLedger(l EventLedger) Option {
	return func(r *Reconciler) {
		r.ledger = l
	}
}

func WithMetrics(m MetricsRecorder) Option {
	return func(r *Reconciler) {
		if m != nil {
			r.metrics = m
		}
	}
}

// WithAppURL derives checkout return URLs from the public app URL.
func WithAppURL(appURL string) Option {
	return func(r *Reconciler) {
		base := strings.TrimRight(appURL, "/")
		r.successURL = base + "/dashboard?success=true"
		r.cancelURL = base + "/dashboard?canceled=true"
	}
}

// NewReconciler panics when provider or store is nil.
func NewReconciler(provider billing.Provider, store account.Store, opts ...Option) *Reconciler {
	if provider == nil {
		panic("subscription: billing provider is required")
	}
	if store == nil {
		panic("subscription: account store is required")
	}

	r := &Reconciler{
		provider: provider,
		store:    store,
		metrics:  noopMetrics{},
		logger:   logger.Discard(),
	}
	WithAppURL("http://localhost:3000")(r)
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Verify authenticates a webhook delivery. No state is touched.
func (r *Reconciler) Verify(payload []byte, signature string) (billing.Event, error) {
	return r.provider.VerifyEvent(payload, signature)
}

// HandleWebhook verifies, deduplicates and dispatches a delivery. A nil error
// means the delivery may be acknowledged.
func (r *Reconciler) HandleWebhook(ctx context.Context, payload []byte, signature string) (Outcome, error) {
	event, err := r.Verify(payload, signature)
	if err != nil {
		r.metrics.WebhookEvent("unknown", metrics.OutcomeRejected)
		return Outcome{}, err
	}

	log := r.logger.With(
		logger.EventID(event.ID()),
		logger.EventType(string(event.Kind())),
		logger.Component("reconciler"),
	)

	if r.ledger != nil && event.ID() != "" {
		seen, err := r.ledger.Seen(ctx, event.ID())
		switch {
		case err != nil:
			log.WarnContext(ctx, "event ledger lookup failed", logger.Error(err))
		case seen:
			log.InfoContext(ctx, "webhook event already applied")
			r.metrics.WebhookEvent(string(event.Kind()), metrics.OutcomeDuplicate)
			return Outcome{Kind: event.Kind(), Duplicate: true}, nil
		}
	}

	out, err := r.Dispatch(ctx, event)
	if err != nil {
		log.ErrorContext(ctx, "webhook dispatch failed", logger.Error(err))
		r.metrics.WebhookEvent(string(event.Kind()), metrics.OutcomeFailed)
		return out, err
	}

	if r.ledger != nil && event.ID() != "" {
		if err := r.ledger.Mark(ctx, event.ID()); err != nil {
			log.WarnContext(ctx, "event ledger write failed", logger.Error(err))
		}
	}

	if out.Applied {
		r.metrics.WebhookEvent(string(event.Kind()), metrics.OutcomeApplied)
	} else {
		log.InfoContext(ctx, "webhook event acknowledged without changes", slog.String("reason", out.Reason))
		r.metrics.WebhookEvent(string(event.Kind()), metrics.OutcomeIgnored)
	}
	return out, nil
}

// Dispatch applies a verified event. Missing users and subscriptions yield an
// acknowledged Outcome; provider and store failures are returned as errors.
func (r *Reconciler) Dispatch(ctx context.Context, event billing.Event) (Outcome, error) {
	switch e := event.(type) {
	case billing.CheckoutCompleted:
		return r.checkoutCompleted(ctx, e)

	case billing.SubscriptionUpdated:
		n, err := r.store.UpdateStatusBySubscriptionID(ctx, e.SubscriptionID, e.Status)
		if err != nil {
			return Outcome{Kind: e.Kind()}, fmt.Errorf("update subscription status: %w", err)
		}
		r.logger.InfoContext(ctx, "subscription status updated",
			logger.SubscriptionID(e.SubscriptionID),
			logger.SubscriptionStatus(e.Status),
			logger.Affected(n),
		)
		return applied(e.Kind(), n), nil

	case billing.SubscriptionDeleted:
		n, err := r.store.ClearSubscription(ctx, e.SubscriptionID, account.StatusCanceled)
		if err != nil {
			return Outcome{Kind: e.Kind()}, fmt.Errorf("clear subscription: %w", err)
		}
		r.logger.InfoContext(ctx, "subscription canceled",
			logger.SubscriptionID(e.SubscriptionID),
			logger.Affected(n),
		)
		return applied(e.Kind(), n), nil

	case billing.Unrecognized:
		return acknowledged(e.Kind(), ReasonUnrecognized), nil

	default:
		return Outcome{}, fmt.Errorf("%w: %T", ErrUnhandledEvent, event)
	}
}

func (r *Reconciler) checkoutCompleted(ctx context.Context, e billing.CheckoutCompleted) (Outcome, error) {
	if e.Mode != billing.ModeSubscription {
		return acknowledged(e.Kind(), ReasonNotSubscriptionMode), nil
	}
	if e.UserID == "" {
		return acknowledged(e.Kind(), ReasonMissingUserID), nil
	}
	if e.SubscriptionID == "" {
		return acknowledged(e.Kind(), ReasonMissingSubscription), nil
	}

	// The session payload can be stale; the provider's current view wins.
	sub, err := r.provider.GetSubscription(ctx, e.SubscriptionID)
	if err != nil {
		if errors.Is(err, billing.ErrSubscriptionNotFound) {
			r.logger.WarnContext(ctx, "checkout references unknown subscription",
				logger.UserID(e.UserID),
				logger.SubscriptionID(e.SubscriptionID),
			)
			return acknowledged(e.Kind(), ReasonSubscriptionNotFound), nil
		}
		return Outcome{Kind: e.Kind()}, err
	}

	if err := r.store.SetSubscription(ctx, e.UserID, sub.ID, sub.Status); err != nil {
		if errors.Is(err, account.ErrUserNotFound) {
			return acknowledged(e.Kind(), ReasonUserNotFound), nil
		}
		return Outcome{Kind: e.Kind()}, fmt.Errorf("set subscription: %w", err)
	}

	r.logger.InfoContext(ctx, "subscription attached to user",
		logger.UserID(e.UserID),
		logger.SubscriptionID(sub.ID),
		logger.SubscriptionStatus(sub.Status),
	)
	return Outcome{Kind: e.Kind(), Applied: true, Affected: 1}, nil
}

// BeginCheckout starts a hosted subscription checkout for the user, creating
// the provider customer on first use.
func (r *Reconciler) BeginCheckout(ctx context.Context, userID string) (*billing.CheckoutSession, error) {
	user, err := r.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, account.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	customerID, err := r.ensureCustomer(ctx, user)
	if err != nil {
		r.metrics.CheckoutSession(metrics.OutcomeFailed)
		return nil, err
	}

	session, err := r.provider.CreateCheckout(ctx, billing.CheckoutRequest{
		CustomerID: customerID,
		UserID:     user.ID,
		SuccessURL: r.successURL,
		CancelURL:  r.cancelURL,
	})
	if err != nil {
		r.metrics.CheckoutSession(metrics.OutcomeFailed)
		return nil, err
	}

	r.metrics.CheckoutSession(metrics.OutcomeCreated)
	r.logger.InfoContext(ctx, "checkout session created",
		logger.UserID(user.ID),
		logger.CustomerID(customerID),
		slog.String("session_id", session.ID),
	)
	return session, nil
}

func (r *Reconciler) ensureCustomer(ctx context.Context, user *account.User) (string, error) {
	if user.BillingCustomerID != nil && *user.BillingCustomerID != "" {
		return *user.BillingCustomerID, nil
	}

	created, err := r.provider.CreateCustomer(ctx, billing.CustomerRequest{
		Email:  user.Email,
		UserID: user.ID,
	})
	if err != nil {
		return "", err
	}

	stored, err := r.store.SetBillingCustomerID(ctx, user.ID, created)
	if err != nil {
		return "", fmt.Errorf("store customer id: %w", err)
	}
	if stored != created {
		r.logger.WarnContext(ctx, "concurrent checkout created a spare customer",
			logger.UserID(user.ID),
			logger.CustomerID(created),
			slog.String("kept_customer_id", stored),
		)
	}
	return stored, nil
}

// ManualActivate marks the user active on subscriptionID without consulting
// the provider.
func (r *Reconciler) ManualActivate(ctx context.Context, userID, subscriptionID string) error {
	userID = strings.TrimSpace(userID)
	subscriptionID = strings.TrimSpace(subscriptionID)
	if userID == "" || subscriptionID == "" {
		return ErrActivationFieldsRequired
	}

	if err := r.store.SetSubscription(ctx, userID, subscriptionID, account.StatusActive); err != nil {
		if errors.Is(err, account.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("activate subscription: %w", err)
	}

	r.logger.WarnContext(ctx, "subscription activated manually",
		logger.UserID(userID),
		logger.SubscriptionID(subscriptionID),
		logger.Component("reconciler"),
	)
	return nil
}
