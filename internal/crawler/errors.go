package crawler

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// TransientError marks a fetch failure that is expected to succeed on retry,
// such as a network-level I/O failure.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient fetch failure: %v", e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// HTTPStatusError is returned when the remote source answers with a
// non-success status. Only 429 is considered retryable.
type HTTPStatusError struct {
	URL        string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	if e.StatusCode == http.StatusTooManyRequests {
		return fmt.Sprintf("rate limit exceeded for %s", e.URL)
	}
	return fmt.Sprintf("request to %s failed with status %d", e.URL, e.StatusCode)
}

// ParseError reports that a single raw record could not be converted into a
// canonical entity. The orchestrator skips the record and keeps going.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s record: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsTransient decides whether a fetch failure should be retried.
// Transient failures are network-level I/O errors and an explicit
// rate-limit signal (HTTP 429) from the remote source. Context
// cancellation is never retried.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == http.StatusTooManyRequests
	}
	var transientErr *TransientError
	if errors.As(err, &transientErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
