package account

import "time"

// Role is a user's authorization role.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// StatusActive is the provider status granting access to gated features.
const StatusActive = "active"

// StatusCanceled is written when a subscription is deleted at the provider.
const StatusCanceled = "canceled"

// User is an account with its mirrored billing state.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`

	// SubscriptionStatus is the last provider status seen, stored verbatim.
	SubscriptionStatus *string `json:"subscriptionStatus"`
	SubscriptionID     *string `json:"subscriptionId"`
	BillingCustomerID  *string `json:"stripeCustomerId"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HasActiveSubscription reports whether the mirrored status is active.
func (u *User) HasActiveSubscription() bool {
	return u != nil && u.SubscriptionStatus != nil && *u.SubscriptionStatus == StatusActive
}

// IsAdmin reports whether the user has the ADMIN role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// StatusNone filters users that never had a subscription.
const StatusNone = "none"

// ListFilter narrows ListUsers. Zero values mean no filter.
type ListFilter struct {
	// Status matches subscription status; StatusNone matches NULL.
	Status string `query:"status"`
	Role   Role   `query:"role"`
	Limit  int    `query:"limit"`
	Offset int    `query:"offset"`
}

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

func (f ListFilter) normalized() ListFilter {
	if f.Limit <= 0 {
		f.Limit = DefaultListLimit
	}
	if f.Limit > MaxListLimit {
		f.Limit = MaxListLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

func strPtr(s string) *string { return &s }
