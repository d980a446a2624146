// Package ratelimit defines the rate limiting contract consumed by the HTTP
// middleware. The limiter itself is an external collaborator; deployments
// plug in their own implementation, and the default allows everything.
package ratelimit

import "context"

// Limiter decides whether a request identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// AllowAll is a Limiter that never rejects. Wired when no limiter backend
// is configured.
type AllowAll struct{}

// NewAllowAll creates a permissive limiter.
func NewAllowAll() *AllowAll {
	return &AllowAll{}
}

func (*AllowAll) Allow(_ context.Context, _ string) (bool, error) {
	return true, nil
}
