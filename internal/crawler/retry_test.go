package crawler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryTransientThenSuccess(t *testing.T) {
	t.Parallel()

	policy := RetryPolicy{maxAttempts: 3, baseDelay: time.Millisecond, maxDelay: 5 * time.Millisecond}
	attempts := 0
	err := policy.Do(context.Background(), "test", func() error {
		attempts++
		if attempts < 3 {
			return &TransientError{Err: errors.New("flaky")}
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetryPermanentFailsImmediately(t *testing.T) {
	t.Parallel()

	policy := NewRetryPolicy(3)
	attempts := 0
	permanent := &HTTPStatusError{URL: "http://x", StatusCode: 404}
	err := policy.Do(context.Background(), "test", func() error {
		attempts++
		return permanent
	})
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
	assert.ErrorAs(t, err, &permanent)
}

func TestRetryExhaustsAttempts(t *testing.T) {
	t.Parallel()

	policy := RetryPolicy{maxAttempts: 3, baseDelay: time.Millisecond, maxDelay: 5 * time.Millisecond}
	attempts := 0
	err := policy.Do(context.Background(), "test", func() error {
		attempts++
		return &TransientError{Err: errors.New("still down")}
	})
	require.Error(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetryStopsOnCanceledContext(t *testing.T) {
	t.Parallel()

	policy := RetryPolicy{maxAttempts: 5, baseDelay: 50 * time.Millisecond, maxDelay: 100 * time.Millisecond}
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	err := policy.Do(ctx, "test", func() error {
		attempts++
		cancel()
		return &TransientError{Err: errors.New("flaky")}
	})
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestNewRetryPolicyDefaults(t *testing.T) {
	t.Parallel()

	policy := NewRetryPolicy(0)
	assert.Equal(t, 3, policy.maxAttempts)
	policy = NewRetryPolicy(7)
	assert.Equal(t, 7, policy.maxAttempts)
}
