package crawler

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTransient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"canceled", context.Canceled, false},
		{"deadline", context.DeadlineExceeded, false},
		{"wrapped cancel", fmt.Errorf("fetch: %w", context.Canceled), false},
		{"rate limited", &HTTPStatusError{URL: "http://x", StatusCode: 429}, true},
		{"not found", &HTTPStatusError{URL: "http://x", StatusCode: 404}, false},
		{"server error", &HTTPStatusError{URL: "http://x", StatusCode: 500}, false},
		{"transient wrapper", &TransientError{Err: errors.New("conn reset")}, true},
		{"net error", &net.DNSError{Err: "lookup failed", IsTemporary: false}, true},
		{"plain error", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}

func TestHTTPStatusErrorMessage(t *testing.T) {
	t.Parallel()

	err := &HTTPStatusError{URL: "http://example.com/list", StatusCode: 429}
	assert.Equal(t, "rate limit exceeded for http://example.com/list", err.Error())

	err = &HTTPStatusError{URL: "http://example.com/list", StatusCode: 503}
	assert.Contains(t, err.Error(), "status 503")
}

func TestParseErrorUnwrap(t *testing.T) {
	t.Parallel()

	inner := errors.New("missing id")
	err := &ParseError{Source: "ofac", Err: inner}
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "ofac")
}
