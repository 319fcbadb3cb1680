// Package ratelimit throttles HTTP requests per client key using token
// buckets from golang.org/x/time/rate.
//
// Buckets live in a bounded LRU so idle clients are forgotten. The middleware
// answers 429 with a Retry-After header once a client's bucket is empty.
package ratelimit
