package storage

import (
	"context"
	"io"
	"time"
)

// StorageInterface defines the backend for verification-file storage.
// Implementations exist for MinIO and for the local filesystem (dev/test).
type StorageInterface interface {
	// Upload stores the file under key and returns a URL for later retrieval
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error)

	// GeneratePresignedDownloadURL generates a time-limited download URL
	GeneratePresignedDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, error)

	// FileExists checks if a file exists and returns its size
	FileExists(ctx context.Context, key string) (exists bool, size int64, err error)

	// DeleteFile removes a file from storage
	DeleteFile(ctx context.Context, key string) error

	// ListKeys returns all stored keys under the given prefix
	ListKeys(ctx context.Context, prefix string) ([]string, error)
}
