// Package cache provides a generic, thread-safe, size-bounded LRU cache with
// optional per-entry expiry.
//
// It backs short-lived in-process state such as the webhook event ledger and
// per-client rate limiters, where memory must stay bounded no matter how many
// distinct keys arrive.
//
//	seen := cache.NewLRUCache[string, struct{}](10_000, cache.WithTTL(24*time.Hour))
//	if seen.Add(eventID, struct{}{}) {
//		// first delivery
//	}
package cache
