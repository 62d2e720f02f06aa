package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Static errors for storage operations.
var (
	// ErrS3NotConfigured is returned when S3 operations are attempted
	// without proper configuration.
	ErrS3NotConfigured = errors.New("S3 storage is not configured")
	// ErrInvalidFilename is returned when an uploaded file name has no usable characters.
	ErrInvalidFilename = errors.New("invalid file name")
)

// Compile-time check that LocalStorage implements Storage.
var _ Storage = (*LocalStorage)(nil)

// LocalStorage implements the Storage interface using local disk.
// It does not support S3 operations unless wrapped with S3Storage.
type LocalStorage struct {
	uploadDir string
	outputDir string
}

// NewLocalStorage creates a new LocalStorage instance.
// Empty directories default to "uploads" and "output" under os.TempDir().
// Both directories are created if they don't exist.
func NewLocalStorage(uploadDir, outputDir string) (*LocalStorage, error) {
	if uploadDir == "" {
		uploadDir = filepath.Join(os.TempDir(), "slideshow", "uploads")
	}
	if outputDir == "" {
		outputDir = filepath.Join(os.TempDir(), "slideshow", "output")
	}

	for _, dir := range []string{uploadDir, outputDir} {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return &LocalStorage{uploadDir: uploadDir, outputDir: outputDir}, nil
}

// UploadDir returns the upload directory path.
func (s *LocalStorage) UploadDir() string {
	return s.uploadDir
}

// OutputDir returns the directory rendered videos are written to.
func (s *LocalStorage) OutputDir() string {
	return s.outputDir
}

// SaveUpload writes data to the upload directory under the sanitized name.
func (s *LocalStorage) SaveUpload(ctx context.Context, name string, data io.Reader) (string, error) {
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	safe := SecureFilename(name)
	if safe == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidFilename, name)
	}
	dst := filepath.Join(s.uploadDir, safe)

	// Write beside the target first so a failed upload never leaves a
	// truncated image behind for the next render.
	tmp, err := s.ReserveTemp(ctx, dst)
	if err != nil {
		return "", err
	}
	if err := writeFile(tmp, data); err != nil {
		_ = os.Remove(tmp)
		return "", err
	}
	if err := s.Commit(ctx, tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return "", err
	}

	return dst, nil
}

// ReserveTemp creates an empty temporary file next to dst.
func (s *LocalStorage) ReserveTemp(ctx context.Context, dst string) (string, error) {
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("create directory %s: %w", dir, err)
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(dst)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("close temp file: %w", err)
	}
	return f.Name(), nil
}

// Commit renames tmp over dst. The rename is atomic on the same filesystem,
// so readers see either the previous file or the complete new one.
func (s *LocalStorage) Commit(ctx context.Context, tmp, dst string) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	if err := os.Rename(tmp, dst); err != nil {
		return fmt.Errorf("replace %s: %w", dst, err)
	}
	return nil
}

// Open opens a stored file for reading.
// The caller is responsible for closing the returned ReadCloser.
func (s *LocalStorage) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	f, err := os.Open(path) // #nosec G304 - path is provided by trusted caller
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	return f, nil
}

// CleanupTemp removes the specified temporary files.
// It continues cleanup even if some files fail to delete,
// returning the first error encountered.
func (s *LocalStorage) CleanupTemp(ctx context.Context, paths []string) error {
	var firstErr error
	for _, p := range paths {
		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled: %w", ctx.Err())
		default:
		}

		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			if firstErr == nil {
				firstErr = fmt.Errorf("remove temp file %s: %w", p, err)
			}
		}
	}
	return firstErr
}

// UploadToS3 is not supported by LocalStorage and returns ErrS3NotConfigured.
func (s *LocalStorage) UploadToS3(_ context.Context, _ string, _ io.Reader) (string, error) {
	return "", ErrS3NotConfigured
}

func writeFile(path string, data io.Reader) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0600) // #nosec G304 - path comes from ReserveTemp
	if err != nil {
		return fmt.Errorf("open temp file: %w", err)
	}
	if _, err := io.Copy(f, data); err != nil {
		_ = f.Close()
		return fmt.Errorf("write file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close file: %w", err)
	}
	return nil
}
