package service

import (
	"context"
	"fmt"
	"path"

	"campuslink-backend/internal/domain"
	"campuslink-backend/internal/storage"

	"github.com/google/uuid"
)

// fileStore wraps the storage backend with the verification-file policy
// shared by registration and resubmission.
type fileStore struct {
	backend       storage.StorageInterface
	maxFileSizeMB int64
}

func newFileStore(backend storage.StorageInterface, maxFileSizeMB int64) fileStore {
	return fileStore{backend: backend, maxFileSizeMB: maxFileSizeMB}
}

// saveVerificationFile uploads the document under a fresh key and returns its
// metadata. maxMB overrides the configured limit when > 0 (platform settings
// take precedence over the static config).
func (fs fileStore) saveVerificationFile(ctx context.Context, file *UploadedFile, maxMB int64) (*domain.VerificationFile, error) {
	if maxMB <= 0 {
		maxMB = fs.maxFileSizeMB
	}
	if file.Size > maxMB<<20 {
		return nil, ErrFileTooLarge
	}

	key := fmt.Sprintf("verification/%s%s", uuid.New().String(), path.Ext(file.Filename))
	url, err := fs.backend.Upload(ctx, key, file.Reader, file.Size, file.ContentType)
	if err != nil {
		return nil, fmt.Errorf("failed to store verification file: %w", err)
	}

	return &domain.VerificationFile{
		Filename: file.Filename,
		Mimetype: file.ContentType,
		Size:     file.Size,
		URL:      url,
	}, nil
}
