// Package filefetcher implements crawler.Fetcher against local fixture
// files, used when a crawler config redirects fetch away from the network.
package filefetcher

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/Dateyes-glitch/sanctions-watch/internal/crawler"
)

// Fetcher reads request URLs as filesystem paths.
type Fetcher struct {
	path string
}

// New builds a Fetcher that always serves the given fixture path,
// regardless of the requested URL.
func New(path string) *Fetcher {
	return &Fetcher{path: path}
}

// Fetch reads the fixture and returns it as a 200 response.
func (f *Fetcher) Fetch(ctx context.Context, request crawler.FetchRequest) (crawler.FetchResponse, error) {
	if err := ctx.Err(); err != nil {
		return crawler.FetchResponse{}, err
	}
	start := time.Now()
	data, err := os.ReadFile(f.path)
	if err != nil {
		return crawler.FetchResponse{}, fmt.Errorf("read fixture %s: %w", f.path, err)
	}
	return crawler.FetchResponse{
		URL:        request.URL,
		StatusCode: http.StatusOK,
		Body:       data,
		Duration:   time.Since(start),
	}, nil
}
