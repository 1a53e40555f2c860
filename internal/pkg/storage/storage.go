package storage

import (
	"context"
	"io"
)

// Storage is the minimal interface for file storage backends used for
// course images and payment-request identity documents.
type Storage interface {
	// Put stores a file under key.
	Put(ctx context.Context, key string, reader io.Reader, contentType string) error

	// Get retrieves a stored file.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes a file. Deleting a missing file is not an error.
	Delete(ctx context.Context, key string) error

	// GetURL returns the public URL for a stored file.
	GetURL(key string) string
}
