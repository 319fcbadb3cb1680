// Package videos manages the per-user YouTube bookmark library. Every
// operation re-reads the caller's account and requires an active
// subscription.
package videos
