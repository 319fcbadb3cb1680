package billing

import "context"

// Provider is the billing provider used by the service.
type Provider interface {
	// CreateCustomer creates a provider customer and returns its id.
	CreateCustomer(ctx context.Context, req CustomerRequest) (string, error)
	// CreateCheckout creates a hosted checkout session for the fixed
	// subscription price.
	CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	// GetSubscription fetches the current state of a subscription.
	GetSubscription(ctx context.Context, id string) (*Subscription, error)
	// VerifyEvent authenticates a webhook delivery and parses it.
	VerifyEvent(payload []byte, signature string) (Event, error)
}

// CustomerRequest describes a customer to create.
type CustomerRequest struct {
	Email  string
	UserID string
}

// CheckoutRequest describes a subscription checkout.
type CheckoutRequest struct {
	CustomerID string
	// UserID is stored in session metadata and echoed back on completion.
	UserID     string
	SuccessURL string
	CancelURL  string
}

// CheckoutSession is a created hosted checkout.
type CheckoutSession struct {
	ID  string
	URL string
}

// Subscription is the provider's view of a subscription.
type Subscription struct {
	ID         string
	Status     string
	CustomerID string
}

// Subscription statuses the service interprets. Any other provider status is
// stored verbatim.
const (
	StatusActive   = "active"
	StatusCanceled = "canceled"
)

// ModeSubscription is the checkout mode of subscription purchases.
const ModeSubscription = "subscription"

// MetadataUserID is the metadata key correlating provider objects to users.
const MetadataUserID = "userId"
