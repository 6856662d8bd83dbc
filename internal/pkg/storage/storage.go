package storage

import (
	"context"
	"errors"
	"io"
)

var (
	ErrInvalidPath  = errors.New("invalid file path")
	ErrFileNotFound = errors.New("file not found")
)

// FileStorage keeps attendance photos. Paths are relative, slash separated
// keys such as "attendance/2025-03-14/<user>-CHECK_IN-1710400000.jpg".
type FileStorage interface {
	// Upload writes file at path and returns the stored key.
	Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error)

	// Open returns the stored content. The caller closes it.
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete is a no-op for a missing file.
	Delete(ctx context.Context, path string) error

	// URL returns a public address for the key.
	URL(ctx context.Context, path string) (string, error)
}
