package subscription

import (
	"errors"

	"github.com/dmitrymomot/videovault/svc/account"
)

var (
	// ErrUserNotFound is the account store's not-found error.
	ErrUserNotFound = account.ErrUserNotFound

	ErrActivationFieldsRequired = errors.New("user id and subscription id are required")
	ErrUnhandledEvent           = errors.New("subscription: unhandled event variant")
)
