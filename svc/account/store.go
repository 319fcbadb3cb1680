package account

import "context"

// Store persists users.
//
// Update methods keyed by subscription id touch every matching row and
// report how many were changed; the column is not unique.
type Store interface {
	CreateUser(ctx context.Context, user *User, passwordHash string) error
	GetUserByID(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetPasswordHash(ctx context.Context, userID string) (string, error)
	ListUsers(ctx context.Context, filter ListFilter) ([]*User, error)

	// SetBillingCustomerID stores customerID only if the user has none yet
	// and returns the id now on record.
	SetBillingCustomerID(ctx context.Context, userID, customerID string) (string, error)
	// SetSubscription points the user at a subscription with the given status.
	SetSubscription(ctx context.Context, userID, subscriptionID, status string) error
	UpdateStatusBySubscriptionID(ctx context.Context, subscriptionID, status string) (int64, error)
	// ClearSubscription sets status and removes the subscription id on every
	// user holding subscriptionID.
	ClearSubscription(ctx context.Context, subscriptionID, status string) (int64, error)
}
