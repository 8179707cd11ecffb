package crawler

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/Dateyes-glitch/sanctions-watch/internal/metrics"
)

// RateLimiter enforces a minimum interval between requests issued by one
// crawler instance. It is private to that instance: only one fetch is ever
// in flight per crawler, so the last-request timestamp needs no locking.
type RateLimiter struct {
	source      string
	limiter     *rate.Limiter
	lastRequest time.Time
}

// NewRateLimiter builds a limiter granting one slot per interval.
// A non-positive interval disables limiting.
func NewRateLimiter(source string, interval time.Duration) *RateLimiter {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &RateLimiter{
		source:  source,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Wait blocks until the next slot is available, respecting the context,
// and records the grant time.
func (r *RateLimiter) Wait(ctx context.Context) error {
	start := time.Now()
	if err := r.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	if delay := time.Since(start); delay > time.Millisecond {
		metrics.ObserveRateLimitDelay(r.source, delay)
	}
	r.lastRequest = time.Now()
	return nil
}

// LastRequest returns when the limiter last granted a slot. Zero until the
// first request goes out.
func (r *RateLimiter) LastRequest() time.Time {
	return r.lastRequest
}
