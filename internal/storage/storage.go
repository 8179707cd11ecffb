// Package storage abstracts the archive for raw source payloads. Each
// crawl run archives the bytes it fetched so that parser changes can be
// replayed against historical data.
package storage

import (
	"context"
	"io"
)

// BlobStore persists one raw payload per source per run.
type BlobStore interface {
	// PutObject writes the content at the given path and returns the
	// URI of the stored object.
	PutObject(ctx context.Context, path string, contentType string, data io.Reader) (string, error)
}
