package storage

import (
	"context"
	"io"
	"time"
)

// BlobStorage defines the interface for document blob storage. Keys are opaque
// to callers; a key returned by the upload flow is the only handle to the
// stored bytes.
type BlobStorage interface {
	// Store saves content under the given key
	Store(ctx context.Context, key string, content io.Reader, contentType string) error

	// Retrieve streams content for the given key
	Retrieve(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes content under the given key
	Delete(ctx context.Context, key string) error

	// Exists checks if content exists under the given key
	Exists(ctx context.Context, key string) (bool, error)

	// GetSize returns the size of content under the given key
	GetSize(ctx context.Context, key string) (int64, error)

	// ShareLink returns a URL through which the content can be fetched for
	// the given duration without further authentication
	ShareLink(ctx context.Context, key string, expiry time.Duration) (string, error)
}
