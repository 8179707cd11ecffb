package crawler

import (
	"context"
	"crypto/rand"
	"math"
	"math/big"
	"time"

	"github.com/Dateyes-glitch/sanctions-watch/internal/metrics"
)

// RetryPolicy wraps a fallible operation with bounded exponential backoff.
// Only failures classified transient by IsTransient are retried; permanent
// failures and exhausted attempts propagate the last error.
type RetryPolicy struct {
	maxAttempts int
	baseDelay   time.Duration
	maxDelay    time.Duration
}

// NewRetryPolicy builds a policy attempting at most maxAttempts times.
// Zero or negative maxAttempts falls back to 3.
func NewRetryPolicy(maxAttempts int) RetryPolicy {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return RetryPolicy{
		maxAttempts: maxAttempts,
		baseDelay:   250 * time.Millisecond,
		maxDelay:    5 * time.Second,
	}
}

// Do runs op until it succeeds, fails permanently, or attempts are exhausted.
func (p RetryPolicy) Do(ctx context.Context, source string, op func() error) error {
	var err error
	for attempt := 0; attempt < p.maxAttempts; attempt++ {
		if err = op(); err == nil {
			return nil
		}
		if attempt+1 >= p.maxAttempts || !IsTransient(err) {
			return err
		}
		metrics.RecordRetry(source)
		if werr := p.pause(ctx, p.backoff(attempt)); werr != nil {
			return err
		}
	}
	return err
}

func (p RetryPolicy) backoff(attempt int) time.Duration {
	delay := float64(p.baseDelay) * math.Pow(2, float64(attempt))
	if delay > float64(p.maxDelay) {
		delay = float64(p.maxDelay)
	}
	half := time.Duration(delay / 2)
	return half + randomJitter(half)
}

func (p RetryPolicy) pause(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func randomJitter(limit time.Duration) time.Duration {
	if limit <= 0 {
		return 0
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(limit)))
	if err != nil {
		return limit / 2
	}
	return time.Duration(n.Int64())
}
