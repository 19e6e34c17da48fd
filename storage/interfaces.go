package storage

import (
	"context"
	"io"
	"time"
)

// ObjectInfo describes one remote object as seen during listing.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// ObjectStore abstracts the object-storage backend (S3 or compatible).
// Implementations surface backend failures unmodified; retries and backoff
// are deliberately out of scope.
type ObjectStore interface {
	// GetObject opens the object for reading. The caller must close the
	// returned reader.
	GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error)

	// ObjectExists probes remote metadata for the object. Any "not found"
	// condition maps to (false, nil); other remote errors wrap ErrRemoteProbe.
	ObjectExists(ctx context.Context, bucket, key string) (bool, error)

	// PutObject writes the full body as a new remote object.
	PutObject(ctx context.Context, bucket, key string, body io.Reader) error

	// ListObjects calls fn for every object under prefix, in listing order.
	// Iteration stops on the first error from fn.
	ListObjects(ctx context.Context, bucket, prefix string, fn func(ObjectInfo) error) error
}
