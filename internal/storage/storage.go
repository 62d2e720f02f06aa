// Package storage keeps uploaded source images and rendered videos on disk
// and optionally publishes finished videos to S3.
package storage

import (
	"context"
	"io"
)

// Storage defines the file operations the upload endpoint and the render
// pipeline depend on.
type Storage interface {
	// UploadDir returns the directory uploaded images are written to.
	UploadDir() string

	// OutputDir returns the directory rendered videos are written to.
	OutputDir() string

	// SaveUpload writes data to the upload directory under a sanitized
	// version of name and returns the resulting path. An existing file with
	// the same name is replaced.
	SaveUpload(ctx context.Context, name string, data io.Reader) (path string, err error)

	// ReserveTemp creates an empty temporary file in the directory of dst,
	// so that it can later be renamed over dst atomically.
	ReserveTemp(ctx context.Context, dst string) (path string, err error)

	// Commit atomically replaces dst with tmp.
	Commit(ctx context.Context, tmp, dst string) error

	// Open opens a stored file for reading.
	// The caller is responsible for closing the returned ReadCloser.
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// CleanupTemp removes the specified temporary files.
	// It continues cleanup even if some files fail to delete.
	CleanupTemp(ctx context.Context, paths []string) error

	// UploadToS3 uploads data to S3 and returns the public URL.
	// Returns ErrS3NotConfigured if S3 is not configured.
	UploadToS3(ctx context.Context, key string, data io.Reader) (url string, err error)
}
