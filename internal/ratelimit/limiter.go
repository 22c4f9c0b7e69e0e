// Package ratelimit paces requests against upstream APIs that have no
// documented quota but expect courtesy spacing between calls.
package ratelimit

import (
	"context"
	"math/rand/v2"
	"time"

	"golang.org/x/time/rate"
)

// Limiter wraps a token-bucket rate limiter and adds ±20% jitter to wait
// intervals. The primary source uses one to space out page fetches.
type Limiter struct {
	inner *rate.Limiter
}

// New creates a Limiter that admits one event per interval with burst 1.
// The first call to Wait proceeds immediately; subsequent calls are spaced
// at least one (jittered) interval apart.
func New(interval time.Duration) *Limiter {
	return &Limiter{inner: rate.NewLimiter(rate.Every(interval), 1)}
}

// Wait reserves a token from the limiter and waits for it to become
// available, adding ±20% random jitter to the wait duration. Returns
// ctx.Err() if the context is cancelled before the token is granted.
func (l *Limiter) Wait(ctx context.Context) error {
	res := l.inner.Reserve()
	if !res.OK() {
		return ctx.Err()
	}

	delay := res.Delay()
	if delay <= 0 {
		return nil
	}

	factor := 0.20
	jitter := time.Duration(float64(delay) * factor * (rand.Float64()*2 - 1)) //nolint:gosec // non-cryptographic random is fine for jitter
	delay = max(0, delay+jitter)

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		res.Cancel()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
