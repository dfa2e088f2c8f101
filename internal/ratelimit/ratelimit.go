// Package ratelimit provides per-key request limiting for the todo routes.
// Two stores are available: an in-memory token-bucket store and a Redis
// fixed-window store for multi-instance deployments. Both perform a single
// atomic increment-and-check per request.
package ratelimit

import "context"

// Limiter decides whether one more request is allowed for a key right now.
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

// Stats records limiter decisions for observability.
type Stats interface {
	Record(key string, allowed bool) error
}
