// Package subscription reconciles local user records with the billing
// provider, which is the source of truth for subscription state.
//
// Reconciler verifies webhook deliveries, dispatches the parsed event to a
// deterministic update of the affected users and acknowledges everything it
// cannot act on. Redeliveries converge on the same end state; an optional
// EventLedger short-circuits events that were already applied.
//
// BeginCheckout starts a hosted checkout, creating the provider customer
// once per user. ManualActivate bypasses the provider entirely and must only
// be reachable outside production.
package subscription
