package billing

// EventKind identifies an Event variant.
type EventKind string

const (
	KindCheckoutCompleted   EventKind = "checkout_completed"
	KindSubscriptionUpdated EventKind = "subscription_updated"
	KindSubscriptionDeleted EventKind = "subscription_deleted"
	KindUnrecognized        EventKind = "unrecognized"
)

// Event is a verified webhook event. The set of implementations is closed.
type Event interface {
	Kind() EventKind
	// ID is the provider's event id, stable across redeliveries.
	ID() string
	sealed()
}

// CheckoutCompleted reports a finished hosted checkout.
type CheckoutCompleted struct {
	EventID        string
	SessionID      string
	Mode           string
	SubscriptionID string
	CustomerID     string
	// UserID is the correlation token from session metadata; may be empty.
	UserID string
}

// SubscriptionUpdated reports a subscription status change.
type SubscriptionUpdated struct {
	EventID        string
	SubscriptionID string
	Status         string
}

// SubscriptionDeleted reports a subscription that has ended.
type SubscriptionDeleted struct {
	EventID        string
	SubscriptionID string
	Status         string
}

// Unrecognized is any event type the service does not handle.
type Unrecognized struct {
	EventID string
	Type    string
}

func (e CheckoutCompleted) Kind() EventKind   { return KindCheckoutCompleted }
func (e SubscriptionUpdated) Kind() EventKind { return KindSubscriptionUpdated }
func (e SubscriptionDeleted) Kind() EventKind { return KindSubscriptionDeleted }
func (e Unrecognized) Kind() EventKind        { return KindUnrecognized }

func (e CheckoutCompleted) ID() string   { return e.EventID }
func (e SubscriptionUpdated) ID() string { return e.EventID }
func (e SubscriptionDeleted) ID() string { return e.EventID }
func (e Unrecognized) ID() string        { return e.EventID }

func (CheckoutCompleted) sealed()   {}
func (SubscriptionUpdated) sealed() {}
func (SubscriptionDeleted) sealed() {}
func (Unrecognized) sealed()        {}
