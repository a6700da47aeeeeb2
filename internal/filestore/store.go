// Package filestore defines the object-storage interface snapshot exports
// are written through.
//
// Providers (MinIO, or anything S3-compatible) implement the Store
// interface. Callers depend only on this package — never on a specific
// provider package.
//
// Usage:
//
//	cfg := filestore.DefaultConfig("localhost:9000", "minioadmin", "minioadmin")
//	store, err := minio.New(ctx, cfg)
//	if err != nil { ... }
//	defer store.Close()
//
//	err = store.PutObject(ctx, "snapshots", key, bytes.NewReader(doc), int64(len(doc)), "application/yaml")
package filestore

import (
	"context"
	"io"
	"time"
)

// Store is the interface all snapshot storage providers implement.
type Store interface {
	// Ping verifies the storage backend is reachable.
	Ping(ctx context.Context) error

	// Close releases any held resources.
	Close() error

	// EnsureBucket creates bucket if it does not already exist.
	EnsureBucket(ctx context.Context, bucket string) error

	// PutObject uploads size bytes from r to key inside bucket.
	PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, contentType string) error

	// StatObject returns metadata for the object at key inside bucket
	// without downloading its content.
	StatObject(ctx context.Context, bucket, key string) (*ObjectInfo, error)

	// PresignGetURL returns a time-limited URL that allows anyone to
	// download the object at key inside bucket without credentials.
	PresignGetURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error)
}

// ObjectInfo describes a single stored object.
type ObjectInfo struct {
	// Key is the full object path within the bucket.
	Key string

	// Size is the byte size of the object. -1 if unknown.
	Size int64

	// ContentType is the MIME type (e.g. "application/yaml").
	ContentType string

	// ETag is the object's entity tag / hash, as returned by the backend.
	ETag string

	// LastModified is when the object was last written.
	LastModified time.Time
}
