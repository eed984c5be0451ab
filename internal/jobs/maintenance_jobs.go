package jobs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"campuslink-backend/internal/domain"
	"campuslink-backend/internal/logger"
	"campuslink-backend/internal/repository"
	"campuslink-backend/internal/storage"
)

// MaintenanceJobs holds the periodic housekeeping work
type MaintenanceJobs struct {
	store   repository.Store
	backend storage.StorageInterface
}

func NewMaintenanceJobs(store repository.Store, backend storage.StorageInterface) *MaintenanceJobs {
	return &MaintenanceJobs{store: store, backend: backend}
}

// ExpireResubmissionWindows closes rejected applications whose resubmission
// deadline has passed without a new submission.
func (m *MaintenanceJobs) ExpireResubmissionWindows(ctx context.Context) error {
	expired, err := m.store.Repos().Approvals.ListExpiredRejections(ctx, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to list expired rejections: %w", err)
	}

	for i := range expired {
		approval := &expired[i]
		err := m.store.Transact(ctx, func(r repository.Repos) error {
			approval.Status = domain.ApprovalStatusExpired
			if err := r.Approvals.Update(ctx, approval); err != nil {
				return fmt.Errorf("failed to expire approval: %w", err)
			}
			return r.Activities.Append(ctx, &domain.Activity{
				Actor:      "system",
				Action:     domain.ActivityResubmissionExpired,
				TargetType: "approval",
				TargetID:   approval.ID,
			})
		})
		if err != nil {
			logger.Error("Failed to expire approval", "approval_id", approval.ID, "error", err)
		}
	}

	if len(expired) > 0 {
		logger.Info("Expired resubmission windows closed", "count", len(expired))
	}
	return nil
}

// CleanupOrphanUploads removes stored verification files no application
// references anymore, e.g. after a resubmission replaced the document.
func (m *MaintenanceJobs) CleanupOrphanUploads(ctx context.Context) error {
	keys, err := m.backend.ListKeys(ctx, "verification/")
	if err != nil {
		return fmt.Errorf("failed to list stored files: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}

	referenced, err := m.referencedFileURLs(ctx)
	if err != nil {
		return err
	}

	var removed int
	for _, key := range keys {
		if isReferenced(referenced, key) {
			continue
		}
		if err := m.backend.DeleteFile(ctx, key); err != nil {
			logger.Error("Failed to delete orphan upload", "key", key, "error", err)
			continue
		}
		removed++
	}

	if removed > 0 {
		logger.Info("Orphan uploads removed", "count", removed)
	}
	return nil
}

// referencedFileURLs collects every file URL still attached to an application
// or organization record
func (m *MaintenanceJobs) referencedFileURLs(ctx context.Context) ([]string, error) {
	repos := m.store.Repos()
	var urls []string

	statuses := []domain.ApprovalStatus{
		domain.ApprovalStatusPending,
		domain.ApprovalStatusApproved,
		domain.ApprovalStatusRejected,
		domain.ApprovalStatusExpired,
	}
	for _, status := range statuses {
		approvals, err := repos.Approvals.ListByStatus(ctx, status)
		if err != nil {
			return nil, fmt.Errorf("failed to list approvals: %w", err)
		}
		for i := range approvals {
			if approvals[i].VerificationFile != nil {
				urls = append(urls, approvals[i].VerificationFile.URL)
			}
		}
	}

	orgStatuses := []domain.OrgStatus{
		domain.OrgStatusPending,
		domain.OrgStatusActive,
		domain.OrgStatusSuspended,
		domain.OrgStatusInactive,
	}
	for _, status := range orgStatuses {
		orgs, err := repos.Organizations.ListByStatus(ctx, status)
		if err != nil {
			return nil, fmt.Errorf("failed to list organizations: %w", err)
		}
		for i := range orgs {
			if orgs[i].FileURL != "" {
				urls = append(urls, orgs[i].FileURL)
			}
		}
	}

	return urls, nil
}

// isReferenced matches by URL suffix since the storage backend prepends its
// own base URL to the key
func isReferenced(urls []string, key string) bool {
	for _, url := range urls {
		if strings.HasSuffix(url, key) {
			return true
		}
	}
	return false
}
