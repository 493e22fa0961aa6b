// Package storage abstracts the blob store behind uploaded images.
//
// Two drivers ship out of the box:
//   - "local" — local filesystem under STORAGE_LOCAL_ROOT (default)
//   - "s3"    — S3-compatible object storage (AWS S3, MinIO, R2, Spaces)
//
// The image service talks only to the Disk interface; which driver backs it
// is a deployment choice (STORAGE_DISK).
package storage

import (
	"context"
	"io"
)

// Disk is the blob driver interface.
type Disk interface {
	// Put writes content to path, creating parents as needed.
	Put(ctx context.Context, path string, content []byte) error

	// PutStream writes from r to path.
	PutStream(ctx context.Context, path string, r io.Reader) error

	// Get returns the full content of the blob at path.
	Get(ctx context.Context, path string) ([]byte, error)

	// GetStream returns a ReadCloser for the blob. Caller must close it.
	GetStream(ctx context.Context, path string) (io.ReadCloser, error)

	// Exists reports whether a blob exists at path.
	Exists(ctx context.Context, path string) bool

	// Size returns the byte size of the blob.
	Size(ctx context.Context, path string) (int64, error)

	// Delete removes a blob. Deleting an absent path is not an error.
	Delete(ctx context.Context, path string) error

	// URL returns the public URL for path.
	URL(path string) string
}
