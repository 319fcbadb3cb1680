package subscription

import "github.com/dmitrymomot/videovault/pkg/billing"

// Outcome describes what a dispatched event did.
type Outcome struct {
	Kind billing.EventKind
	// Applied is true when at least one user record was written.
	Applied  bool
	Affected int64
	// Reason explains an acknowledged no-op.
	Reason string
	// Duplicate is set when the ledger already recorded the event.
	Duplicate bool
}

const (
	ReasonNotSubscriptionMode  = "checkout is not a subscription"
	ReasonMissingUserID        = "no user id in session metadata"
	ReasonMissingSubscription  = "no subscription on completed checkout"
	ReasonSubscriptionNotFound = "provider has no such subscription"
	ReasonUserNotFound         = "user not found"
	ReasonNoMatchingUsers      = "no user holds the subscription"
	ReasonUnrecognized         = "event type not handled"
)

func acknowledged(kind billing.EventKind, reason string) Outcome {
	return Outcome{Kind: kind, Reason: reason}
}

func applied(kind billing.EventKind, n int64) Outcome {
	if n == 0 {
		return Outcome{Kind: kind, Reason: ReasonNoMatchingUsers}
	}
	return Outcome{Kind: kind, Applied: true, Affected: n}
}
