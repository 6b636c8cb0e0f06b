// Package ratelimit paces page fetches: an optional per-request token
// bucket plus the fixed pause between batches.
package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter implements rate limiting for a crawl.
type Limiter struct {
	limiter  *rate.Limiter
	interval time.Duration
	sleep    func(ctx context.Context, d time.Duration) error
}

// NewLimiter creates a new rate limiter. A non-positive requestsPerSecond
// disables per-request limiting; interval is the pause between batches.
func NewLimiter(requestsPerSecond float64, burst int, interval time.Duration) *Limiter {
	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}
	if burst < 1 {
		burst = 1
	}
	if interval < 0 {
		interval = 0
	}
	return &Limiter{
		limiter:  rate.NewLimiter(limit, burst),
		interval: interval,
		sleep:    Sleep,
	}
}

// Wait blocks until a request is allowed or the context is cancelled.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// Pause suspends the run for the inter-batch interval.
func (l *Limiter) Pause(ctx context.Context) error {
	if l.interval <= 0 {
		return ctx.Err()
	}
	return l.sleep(ctx, l.interval)
}

// Interval returns the configured pause between batches.
func (l *Limiter) Interval() time.Duration {
	return l.interval
}

// Limit returns the per-request limit; rate.Inf when unlimited.
func (l *Limiter) Limit() rate.Limit {
	return l.limiter.Limit()
}

// SetSleepFunc replaces the function used by Pause. Tests use it to
// observe pauses without waiting.
func (l *Limiter) SetSleepFunc(fn func(ctx context.Context, d time.Duration) error) {
	if fn == nil {
		fn = Sleep
	}
	l.sleep = fn
}

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
