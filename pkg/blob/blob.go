// Package blob abstracts the object store holding uploaded file contents.
// The core only depends on the three operation shapes below; metadata rows
// and blobs must be created/deleted together by the callers.
package blob

import (
	"context"
	"io"
)

// Store is the blob collaborator: a key-value object store addressed by a
// path-like key. Put returns a URL from which the object can be retrieved.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (url string, err error)
	Delete(ctx context.Context, key string) error
	// ListByPrefix returns every stored key under the prefix. Used when an
	// entire process is deleted and all of its blobs must go first.
	ListByPrefix(ctx context.Context, prefix string) ([]string, error)
}
