// Package billing abstracts the subscription billing provider.
//
// The Provider interface covers what the service needs from a provider:
// customer creation, hosted checkout sessions, subscription lookup and webhook
// verification. Verified webhooks are parsed at the boundary into the sealed
// Event union (CheckoutCompleted, SubscriptionUpdated, SubscriptionDeleted,
// Unrecognized) so nothing downstream touches raw provider payloads.
//
// StripeProvider implements Provider on github.com/stripe/stripe-go/v82 with
// an injected API client; the package never reads or sets the global
// stripe.Key.
package billing
