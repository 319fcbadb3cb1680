package billing

import (
	"errors"
	"fmt"
)

var (
	// ErrSignature is returned when a webhook payload fails verification.
	ErrSignature = errors.New("billing: invalid webhook signature")
	// ErrProvider marks failures talking to the billing provider. Callers
	// should treat them as retryable.
	ErrProvider = errors.New("billing: provider request failed")
	// ErrMalformedEvent is returned when a verified payload cannot be decoded.
	ErrMalformedEvent = errors.New("billing: malformed event payload")
	// ErrSubscriptionNotFound is returned when the provider has no record of
	// the requested subscription. Retrying will not help.
	ErrSubscriptionNotFound = errors.New("billing: subscription not found")

	ErrMissingSecretKey     = errors.New("billing: missing provider secret key")
	ErrMissingWebhookSecret = errors.New("billing: missing webhook signing secret")
	ErrInvalidPrice         = errors.New("billing: price id or positive unit amount required")
)

// ProviderError wraps a failed provider call with the operation name.
// It satisfies errors.Is(err, ErrProvider).
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("billing: %s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

func (e *ProviderError) Is(target error) bool { return target == ErrProvider }

func providerError(op string, err error) error {
	return &ProviderError{Op: op, Err: err}
}
