package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"github.com/stripe/stripe-go/v82/webhook"
)

// StripeConfig configures the Stripe provider.
type StripeConfig struct {
	SecretKey     string `env:"STRIPE_SECRET_KEY,required"`
	WebhookSecret string `env:"STRIPE_WEBHOOK_SECRET,required"`

	// PriceID selects a catalogue price. When empty the checkout carries
	// inline recurring price data built from the fields below.
	PriceID            string `env:"STRIPE_PRICE_ID"`
	ProductName        string `env:"STRIPE_PRODUCT_NAME" envDefault:"SaaS Demo Subscription"`
	ProductDescription string `env:"STRIPE_PRODUCT_DESCRIPTION" envDefault:"Monthly subscription to access premium features"`
	UnitAmount         int64  `env:"STRIPE_UNIT_AMOUNT" envDefault:"999"`
	Currency           string `env:"STRIPE_CURRENCY" envDefault:"usd"`
	Interval           string `env:"STRIPE_INTERVAL" envDefault:"month"`

	SignatureTolerance time.Duration `env:"STRIPE_SIGNATURE_TOLERANCE" envDefault:"5m"`
}

func (c StripeConfig) validate() error {
	var errs []error
	if c.SecretKey == "" {
		errs = append(errs, ErrMissingSecretKey)
	}
	if c.WebhookSecret == "" {
		errs = append(errs, ErrMissingWebhookSecret)
	}
	if c.PriceID == "" && c.UnitAmount <= 0 {
		errs = append(errs, ErrInvalidPrice)
	}
	return errors.Join(errs...)
}

type customerAPI interface {
	New(params *stripe.CustomerParams) (*stripe.Customer, error)
}

type checkoutAPI interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

type subscriptionAPI interface {
	Get(id string, params *stripe.SubscriptionParams) (*stripe.Subscription, error)
}

// StripeProvider implements Provider using the Stripe API.
type StripeProvider struct {
	cfg           StripeConfig
	customers     customerAPI
	sessions      checkoutAPI
	subscriptions subscriptionAPI
}

// StripeOption configures a StripeProvider.
type StripeOption func(*stripeOptions)

type stripeOptions struct {
	backends *stripe.Backends
}

// WithBackends routes API calls through the given backends. Used to point the
// provider at a test server.
func WithBackends(b *stripe.Backends) StripeOption {
	return func(o *stripeOptions) {
		o.backends = b
	}
}

var _ Provider = (*StripeProvider)(nil)

// NewStripeProvider builds a provider with its own API client.
func NewStripeProvider(cfg StripeConfig, opts ...StripeOption) (*StripeProvider, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Currency == "" {
		cfg.Currency = string(stripe.CurrencyUSD)
	}
	if cfg.Interval == "" {
		cfg.Interval = string(stripe.PriceRecurringIntervalMonth)
	}

	o := &stripeOptions{}
	for _, opt := range opts {
		opt(o)
	}

	sc := client.New(cfg.SecretKey, o.backends)

	return &StripeProvider{
		cfg:           cfg,
		customers:     sc.Customers,
		sessions:      sc.CheckoutSessions,
		subscriptions: sc.Subscriptions,
	}, nil
}

// CreateCustomer creates a Stripe customer tagged with the user id.
func (p *StripeProvider) CreateCustomer(ctx context.Context, req CustomerRequest) (string, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(req.Email),
	}
	params.Context = ctx
	params.AddMetadata(MetadataUserID, req.UserID)

	c, err := p.customers.New(params)
	if err != nil {
		return "", providerError("create customer", err)
	}
	return c.ID, nil
}

// CreateCheckout creates a subscription checkout session.
func (p *StripeProvider) CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems:          []*stripe.CheckoutSessionLineItemParams{p.lineItem()},
		SuccessURL:         stripe.String(req.SuccessURL),
		CancelURL:          stripe.String(req.CancelURL),
	}
	if req.CustomerID != "" {
		params.Customer = stripe.String(req.CustomerID)
	}
	params.Context = ctx
	params.AddMetadata(MetadataUserID, req.UserID)

	s, err := p.sessions.New(params)
	if err != nil {
		return nil, providerError("create checkout session", err)
	}
	return &CheckoutSession{ID: s.ID, URL: s.URL}, nil
}

func (p *StripeProvider) lineItem() *stripe.CheckoutSessionLineItemParams {
	if p.cfg.PriceID != "" {
		return &stripe.CheckoutSessionLineItemParams{
			Price:    stripe.String(p.cfg.PriceID),
			Quantity: stripe.Int64(1),
		}
	}
	return &stripe.CheckoutSessionLineItemParams{
		PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
			Currency: stripe.String(p.cfg.Currency),
			ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
				Name:        stripe.String(p.cfg.ProductName),
				Description: stripe.String(p.cfg.ProductDescription),
			},
			UnitAmount: stripe.Int64(p.cfg.UnitAmount),
			Recurring: &stripe.CheckoutSessionLineItemPriceDataRecurringParams{
				Interval: stripe.String(p.cfg.Interval),
			},
		},
		Quantity: stripe.Int64(1),
	}
}

// GetSubscription fetches a subscription by id.
func (p *StripeProvider) GetSubscription(ctx context.Context, id string) (*Subscription, error) {
	params := &stripe.SubscriptionParams{}
	params.Context = ctx

	s, err := p.subscriptions.Get(id, params)
	if err != nil {
		var se *stripe.Error
		if errors.As(err, &se) && se.Code == stripe.ErrorCodeResourceMissing {
			return nil, errors.Join(ErrSubscriptionNotFound, err)
		}
		return nil, providerError("get subscription", err)
	}
	sub := &Subscription{ID: s.ID, Status: string(s.Status)}
	if s.Customer != nil {
		sub.CustomerID = s.Customer.ID
	}
	return sub, nil
}

// VerifyEvent checks the Stripe-Signature header against the payload and
// parses the event. API version mismatches are ignored.
func (p *StripeProvider) VerifyEvent(payload []byte, signature string) (Event, error) {
	if signature == "" {
		return nil, fmt.Errorf("%w: missing signature header", ErrSignature)
	}

	ev, err := webhook.ConstructEventWithOptions(payload, signature, p.cfg.WebhookSecret, webhook.ConstructEventOptions{
		Tolerance:                p.cfg.SignatureTolerance,
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		if isSignatureFailure(err) {
			return nil, fmt.Errorf("%w: %v", ErrSignature, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	return ParseStripeEvent(ev)
}

func isSignatureFailure(err error) bool {
	return errors.Is(err, webhook.ErrInvalidHeader) ||
		errors.Is(err, webhook.ErrNoValidSignature) ||
		errors.Is(err, webhook.ErrNotSigned) ||
		errors.Is(err, webhook.ErrTooOld)
}

// ParseStripeEvent converts a verified Stripe event into an Event.
func ParseStripeEvent(ev stripe.Event) (Event, error) {
	switch ev.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		if !hasData(ev) {
			return nil, fmt.Errorf("%w: checkout session: event without data", ErrMalformedEvent)
		}
		var s stripe.CheckoutSession
		if err := json.Unmarshal(ev.Data.Raw, &s); err != nil {
			return nil, fmt.Errorf("%w: checkout session: %v", ErrMalformedEvent, err)
		}
		out := CheckoutCompleted{
			EventID:   ev.ID,
			SessionID: s.ID,
			Mode:      string(s.Mode),
			UserID:    s.Metadata[MetadataUserID],
		}
		if s.Subscription != nil {
			out.SubscriptionID = s.Subscription.ID
		}
		if s.Customer != nil {
			out.CustomerID = s.Customer.ID
		}
		return out, nil

	case stripe.EventTypeCustomerSubscriptionUpdated, stripe.EventTypeCustomerSubscriptionDeleted:
		if !hasData(ev) {
			return nil, fmt.Errorf("%w: subscription: event without data", ErrMalformedEvent)
		}
		var s stripe.Subscription
		if err := json.Unmarshal(ev.Data.Raw, &s); err != nil {
			return nil, fmt.Errorf("%w: subscription: %v", ErrMalformedEvent, err)
		}
		if s.ID == "" {
			return nil, fmt.Errorf("%w: subscription without id", ErrMalformedEvent)
		}
		if ev.Type == stripe.EventTypeCustomerSubscriptionDeleted {
			return SubscriptionDeleted{EventID: ev.ID, SubscriptionID: s.ID, Status: string(s.Status)}, nil
		}
		if s.Status == "" {
			return nil, fmt.Errorf("%w: subscription without status", ErrMalformedEvent)
		}
		return SubscriptionUpdated{EventID: ev.ID, SubscriptionID: s.ID, Status: string(s.Status)}, nil

	default:
		return Unrecognized{EventID: ev.ID, Type: string(ev.Type)}, nil
	}
}

func hasData(ev stripe.Event) bool {
	return ev.Data != nil && len(ev.Data.Raw) > 0
}
