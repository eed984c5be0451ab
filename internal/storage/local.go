package storage

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalStorageService stores verification files on the local filesystem.
// This is for dev/test without a MinIO deployment.
type LocalStorageService struct {
	baseURL   string // Server URL (e.g., "http://localhost:8080")
	uploadDir string
}

func NewLocalStorageService(baseURL, uploadDir string) (*LocalStorageService, error) {
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStorageService{
		baseURL:   baseURL,
		uploadDir: uploadDir,
	}, nil
}

func (s *LocalStorageService) path(key string) string {
	return filepath.Join(s.uploadDir, filepath.FromSlash(key))
}

func (s *LocalStorageService) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	path := s.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, reader); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return fmt.Sprintf("%s/api/files/%s", s.baseURL, key), nil
}

// GeneratePresignedDownloadURL returns a plain download URL; local storage
// has no signing.
func (s *LocalStorageService) GeneratePresignedDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, error) {
	return fmt.Sprintf("%s/api/files/%s", s.baseURL, key), nil
}

func (s *LocalStorageService) FileExists(ctx context.Context, key string) (bool, int64, error) {
	info, err := os.Stat(s.path(key))
	if os.IsNotExist(err) {
		return false, 0, nil
	}
	if err != nil {
		return false, 0, err
	}
	return true, info.Size(), nil
}

func (s *LocalStorageService) DeleteFile(ctx context.Context, key string) error {
	err := os.Remove(s.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *LocalStorageService) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	err := filepath.WalkDir(s.uploadDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(s.uploadDir, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	return keys, err
}

// Open opens a stored file for the download handler
func (s *LocalStorageService) Open(key string) (io.ReadCloser, error) {
	return os.Open(s.path(key))
}
