package crawler

import (
	"context"
	"time"
)

// FetchRequest captures everything needed to fetch one URL.
type FetchRequest struct {
	URL       string
	Headers   map[string]string
	UserAgent string
	Timeout   time.Duration
	VerifySSL bool
}

// FetchResponse is the raw payload returned by a Fetcher.
type FetchResponse struct {
	URL        string
	StatusCode int
	Body       []byte
	Duration   time.Duration
}

// Fetcher is the transport collaborator. The core depends only on this
// contract; TLS, pooling, and timeouts live behind it. Implementations
// return an error for network-level failures and a response carrying the
// status code otherwise.
type Fetcher interface {
	Fetch(ctx context.Context, request FetchRequest) (FetchResponse, error)
}
