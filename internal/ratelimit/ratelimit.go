// Package ratelimit provides a wrapper around golang.org/x/time/rate.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter paces the evaluation loop with a token bucket.
type Limiter struct {
	limiter *rate.Limiter
}

// New creates a new rate limiter.
// evaluationsPerMinute specifies how many evaluation cycles are allowed
// per minute.
func New(evaluationsPerMinute int) *Limiter {
	rps := float64(evaluationsPerMinute) / 60.0
	burst := evaluationsPerMinute / 10
	if burst < 1 {
		burst = 1
	}

	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Wait blocks until a token is available or the context is cancelled.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}
