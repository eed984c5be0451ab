package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"campuslink-backend/internal/domain"
	"campuslink-backend/internal/logger"
	"campuslink-backend/internal/repository"
	"campuslink-backend/internal/storage"
)

type approvalService struct {
	store    repository.Store
	emailSvc EmailService
	files    fileStore
}

func NewApprovalService(store repository.Store, emailSvc EmailService, backend storage.StorageInterface, maxFileSizeMB int64) ApprovalService {
	return &approvalService{
		store:    store,
		emailSvc: emailSvc,
		files:    newFileStore(backend, maxFileSizeMB),
	}
}

// Approve grants a pending application, or reactivates a suspended
// organization when no open ticket matches the id. The approval record, the
// organization and the notification intent are committed in one transaction.
func (s *approvalService) Approve(ctx context.Context, adminEmail string, id int32) (*domain.Approval, error) {
	repos := s.store.Repos()

	approval, err := repos.Approvals.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		// An open ticket takes precedence; a suspended organization with the
		// same numeric id is only consulted as a fallback.
		return s.reactivateSuspended(ctx, adminEmail, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get approval: %w", err)
	}
	if approval.Status != domain.ApprovalStatusPending {
		// Already decided; a repeat approve must not silently succeed
		return nil, repository.ErrNotFound
	}

	org, err := repos.Organizations.GetByEmail(ctx, approval.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to get organization for approval: %w", err)
	}

	err = s.store.Transact(ctx, func(r repository.Repos) error {
		applyRegistration(org, &approval.RegistrationData)
		org.Status = domain.OrgStatusActive
		if approval.VerificationFile != nil {
			org.FileURL = approval.VerificationFile.URL
		}
		if err := r.Organizations.Update(ctx, org); err != nil {
			return fmt.Errorf("failed to activate organization: %w", err)
		}

		approval.Status = domain.ApprovalStatusApproved
		approval.OrgID = &org.ID
		// The pending check above ran outside this transaction; the guarded
		// update aborts a decision that lost the race to another admin.
		if err := r.Approvals.UpdateFromStatus(ctx, approval, domain.ApprovalStatusPending); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return err
			}
			return fmt.Errorf("failed to mark approval approved: %w", err)
		}

		if err := r.Outbox.Enqueue(ctx, &domain.OutboxMessage{
			RecipientType: domain.RecipientOrganization,
			RecipientID:   org.ID,
			Title:         "Application approved",
			Message:       fmt.Sprintf("Your organization %s has been approved.", org.Name),
			Attributes:    map[string]string{"approval_id": fmt.Sprint(approval.ID)},
		}); err != nil {
			return fmt.Errorf("failed to enqueue notification: %w", err)
		}

		return r.Activities.Append(ctx, &domain.Activity{
			Actor:      adminEmail,
			Action:     domain.ActivityApprovalGranted,
			TargetType: "approval",
			TargetID:   approval.ID,
			Detail:     org.Email,
		})
	})
	if err != nil {
		return nil, err
	}

	s.sendDecisionEmail(ctx, org.Email, org.Name, "approved", "")
	return approval, nil
}

func (s *approvalService) reactivateSuspended(ctx context.Context, adminEmail string, id int32) (*domain.Approval, error) {
	repos := s.store.Repos()

	org, err := repos.Organizations.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}
	if org.Status != domain.OrgStatusSuspended {
		return nil, repository.ErrNotFound
	}

	err = s.store.Transact(ctx, func(r repository.Repos) error {
		if err := r.Organizations.UpdateStatus(ctx, org.ID, domain.OrgStatusActive); err != nil {
			return fmt.Errorf("failed to reactivate organization: %w", err)
		}
		if err := r.Outbox.Enqueue(ctx, &domain.OutboxMessage{
			RecipientType: domain.RecipientOrganization,
			RecipientID:   org.ID,
			Title:         "Suspension lifted",
			Message:       fmt.Sprintf("Your organization %s has been reactivated.", org.Name),
		}); err != nil {
			return fmt.Errorf("failed to enqueue notification: %w", err)
		}
		return r.Activities.Append(ctx, &domain.Activity{
			Actor:      adminEmail,
			Action:     domain.ActivityApprovalGranted,
			TargetType: "organization",
			TargetID:   org.ID,
			Detail:     "reactivated from suspension",
		})
	})
	if err != nil {
		return nil, err
	}

	s.sendDecisionEmail(ctx, org.Email, org.Name, "approved", "")
	org.Status = domain.OrgStatusActive
	return synthesizeApproval(org), nil
}

// Reject declines a pending application. For a suspended organization the
// rejection bypasses the ticket table entirely and deactivates the
// organization directly; there is no open ticket to annotate, the
// deactivation itself is the decision record.
func (s *approvalService) Reject(ctx context.Context, adminEmail string, id int32, reason string, allowResubmission bool, deadline *time.Time) error {
	if strings.TrimSpace(reason) == "" {
		return ErrReasonRequired
	}
	if allowResubmission && deadline != nil && !deadline.After(time.Now()) {
		return ErrDeadlineNotFuture
	}

	repos := s.store.Repos()

	approval, err := repos.Approvals.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return s.deactivateSuspended(ctx, adminEmail, id, reason)
	}
	if err != nil {
		return fmt.Errorf("failed to get approval: %w", err)
	}
	if approval.Status != domain.ApprovalStatusPending {
		return repository.ErrNotFound
	}

	org, err := repos.Organizations.GetByEmail(ctx, approval.Email)
	if err != nil {
		return fmt.Errorf("failed to get organization for approval: %w", err)
	}

	err = s.store.Transact(ctx, func(r repository.Repos) error {
		approval.Status = domain.ApprovalStatusRejected
		approval.RejectionDetails = &domain.RejectionDetails{
			Reason:               reason,
			AllowResubmission:    allowResubmission,
			ResubmissionDeadline: deadline,
			RejectedAt:           time.Now().UTC(),
			RejectedBy:           adminEmail,
		}
		if err := r.Approvals.UpdateFromStatus(ctx, approval, domain.ApprovalStatusPending); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return err
			}
			return fmt.Errorf("failed to mark approval rejected: %w", err)
		}

		if err := r.Outbox.Enqueue(ctx, &domain.OutboxMessage{
			RecipientType: domain.RecipientOrganization,
			RecipientID:   org.ID,
			Title:         "Application rejected",
			Message:       fmt.Sprintf("Your application was rejected: %s", reason),
			Attributes:    map[string]string{"approval_id": fmt.Sprint(approval.ID)},
		}); err != nil {
			return fmt.Errorf("failed to enqueue notification: %w", err)
		}

		return r.Activities.Append(ctx, &domain.Activity{
			Actor:      adminEmail,
			Action:     domain.ActivityApprovalRejected,
			TargetType: "approval",
			TargetID:   approval.ID,
			Detail:     reason,
		})
	})
	if err != nil {
		return err
	}

	s.sendDecisionEmail(ctx, org.Email, org.Name, "rejected", reason)
	return nil
}

func (s *approvalService) deactivateSuspended(ctx context.Context, adminEmail string, id int32, reason string) error {
	repos := s.store.Repos()

	org, err := repos.Organizations.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get organization: %w", err)
	}
	if org.Status != domain.OrgStatusSuspended {
		return repository.ErrNotFound
	}

	err = s.store.Transact(ctx, func(r repository.Repos) error {
		if err := r.Organizations.UpdateStatus(ctx, org.ID, domain.OrgStatusInactive); err != nil {
			return fmt.Errorf("failed to deactivate organization: %w", err)
		}
		if err := r.Outbox.Enqueue(ctx, &domain.OutboxMessage{
			RecipientType: domain.RecipientOrganization,
			RecipientID:   org.ID,
			Title:         "Organization deactivated",
			Message:       fmt.Sprintf("Your organization was deactivated: %s", reason),
		}); err != nil {
			return fmt.Errorf("failed to enqueue notification: %w", err)
		}
		return r.Activities.Append(ctx, &domain.Activity{
			Actor:      adminEmail,
			Action:     domain.ActivityOrgDeactivated,
			TargetType: "organization",
			TargetID:   org.ID,
			Detail:     reason,
		})
	})
	if err != nil {
		return err
	}

	s.sendDecisionEmail(ctx, org.Email, org.Name, "rejected", reason)
	return nil
}

// Resubmit merges updated fields into a rejected application and puts it back
// in the review queue. The prior rejection details stay on the record so
// reviewers keep the original feedback.
func (s *approvalService) Resubmit(ctx context.Context, applicantEmail string, id int32, update RegistrationUpdate, file *UploadedFile) (*domain.Approval, error) {
	repos := s.store.Repos()

	approval, err := repos.Approvals.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get approval: %w", err)
	}
	if applicantEmail != "" && approval.Email != applicantEmail {
		return nil, repository.ErrNotFound
	}
	if approval.Status != domain.ApprovalStatusRejected {
		return nil, ErrNotRejected
	}
	rd := approval.RejectionDetails
	if rd == nil || !rd.AllowResubmission {
		return nil, ErrResubmissionClosed
	}
	if rd.ResubmissionDeadline != nil && time.Now().After(*rd.ResubmissionDeadline) {
		return nil, ErrResubmissionClosed
	}

	var newFile *domain.VerificationFile
	if file != nil {
		newFile, err = s.files.saveVerificationFile(ctx, file, s.maxFileSize(ctx))
		if err != nil {
			return nil, err
		}
	}

	err = s.store.Transact(ctx, func(r repository.Repos) error {
		mergeRegistration(&approval.RegistrationData, update)
		if newFile != nil {
			approval.VerificationFile = newFile
		}
		approval.Status = domain.ApprovalStatusPending
		if err := r.Approvals.Update(ctx, approval); err != nil {
			return fmt.Errorf("failed to resubmit approval: %w", err)
		}
		return r.Activities.Append(ctx, &domain.Activity{
			Actor:      approval.Email,
			Action:     domain.ActivityResubmitted,
			TargetType: "approval",
			TargetID:   approval.ID,
		})
	})
	if err != nil {
		return nil, err
	}
	return approval, nil
}

// Suspend takes an active organization out of circulation and notifies the
// owner and every active follower.
func (s *approvalService) Suspend(ctx context.Context, adminEmail string, orgID int32, reason string) error {
	repos := s.store.Repos()

	org, err := repos.Organizations.GetByID(ctx, orgID)
	if err != nil {
		return fmt.Errorf("failed to get organization: %w", err)
	}
	if org.Status != domain.OrgStatusActive {
		return ErrOrgNotActive
	}

	followers, err := repos.Students.ListFollowers(ctx, orgID)
	if err != nil {
		return fmt.Errorf("failed to list followers: %w", err)
	}

	err = s.store.Transact(ctx, func(r repository.Repos) error {
		if err := r.Organizations.UpdateStatus(ctx, orgID, domain.OrgStatusSuspended); err != nil {
			return fmt.Errorf("failed to suspend organization: %w", err)
		}

		msgs := []*domain.OutboxMessage{{
			RecipientType: domain.RecipientOrganization,
			RecipientID:   org.ID,
			Title:         "Organization suspended",
			Message:       fmt.Sprintf("Your organization %s has been suspended: %s", org.Name, reason),
		}}
		for _, follower := range followers {
			msgs = append(msgs, &domain.OutboxMessage{
				RecipientType: domain.RecipientStudent,
				RecipientID:   follower.ID,
				Title:         "Organization suspended",
				Message:       fmt.Sprintf("%s has been suspended by the administration.", org.Name),
				Attributes:    map[string]string{"org_id": fmt.Sprint(org.ID)},
			})
		}
		if err := r.Outbox.Enqueue(ctx, msgs...); err != nil {
			return fmt.Errorf("failed to enqueue notifications: %w", err)
		}

		return r.Activities.Append(ctx, &domain.Activity{
			Actor:      adminEmail,
			Action:     domain.ActivityOrgSuspended,
			TargetType: "organization",
			TargetID:   org.ID,
			Detail:     reason,
		})
	})
	if err != nil {
		return err
	}

	s.sendDecisionEmail(ctx, org.Email, org.Name, "suspended", reason)
	return nil
}

// ListReview returns every actionable item for the admin dashboard: open
// tickets plus suspended organizations, as a tagged union, with aggregate
// counts.
func (s *approvalService) ListReview(ctx context.Context) ([]domain.ReviewItem, *domain.ReviewStats, error) {
	repos := s.store.Repos()

	pending, err := repos.Approvals.ListByStatus(ctx, domain.ApprovalStatusPending)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list pending approvals: %w", err)
	}
	suspended, err := repos.Organizations.ListByStatus(ctx, domain.OrgStatusSuspended)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list suspended organizations: %w", err)
	}

	items := make([]domain.ReviewItem, 0, len(pending)+len(suspended))
	for i := range pending {
		items = append(items, domain.ReviewItem{
			Kind:     domain.ReviewItemPending,
			Approval: &pending[i],
		})
	}
	for i := range suspended {
		items = append(items, domain.ReviewItem{
			Kind:         domain.ReviewItemSuspendedOrg,
			Organization: &suspended[i],
		})
	}

	stats := &domain.ReviewStats{Suspended: int32(len(suspended))}
	if stats.Pending, err = repos.Approvals.CountByStatus(ctx, domain.ApprovalStatusPending); err != nil {
		return nil, nil, fmt.Errorf("failed to count pending approvals: %w", err)
	}
	if stats.Approved, err = repos.Approvals.CountByStatus(ctx, domain.ApprovalStatusApproved); err != nil {
		return nil, nil, fmt.Errorf("failed to count approved approvals: %w", err)
	}
	if stats.Rejected, err = repos.Approvals.CountByStatus(ctx, domain.ApprovalStatusRejected); err != nil {
		return nil, nil, fmt.Errorf("failed to count rejected approvals: %w", err)
	}

	return items, stats, nil
}

func (s *approvalService) StatusByEmail(ctx context.Context, email string) (*domain.Approval, error) {
	return s.store.Repos().Approvals.GetLatestByEmail(ctx, email)
}

// sendDecisionEmail is best-effort; a mail failure never fails the transition
func (s *approvalService) sendDecisionEmail(ctx context.Context, email, orgName, decision, reason string) {
	if err := s.emailSvc.SendDecisionNotice(ctx, email, orgName, decision, reason); err != nil {
		logger.Error("Failed to send decision notice", "email", email, "decision", decision, "error", err)
	}
}

func (s *approvalService) maxFileSize(ctx context.Context) int64 {
	settings, err := s.store.Repos().Settings.Get(ctx)
	if err != nil {
		return 0 // fall back to the configured limit
	}
	return settings.MaxFileSizeMB
}

// applyRegistration copies the submitted snapshot onto the organization
func applyRegistration(org *domain.Organization, data *domain.RegistrationData) {
	org.Name = data.Name
	org.Type = data.Type
	org.Description = data.Description
	org.President = data.President
	org.Founded = data.Founded
	org.Members = data.Members
	org.Website = data.Website
	org.SocialMedia = data.SocialMedia
}

// mergeRegistration overwrites only the fields the applicant resent
func mergeRegistration(data *domain.RegistrationData, update RegistrationUpdate) {
	if update.Name != nil {
		data.Name = *update.Name
	}
	if update.Type != nil {
		data.Type = *update.Type
	}
	if update.Description != nil {
		data.Description = *update.Description
	}
	if update.President != nil {
		data.President = *update.President
	}
	if update.Founded != nil {
		data.Founded = *update.Founded
	}
	if update.Members != nil {
		data.Members = *update.Members
	}
	if update.Website != nil {
		data.Website = *update.Website
	}
	if update.SocialMedia != nil {
		data.SocialMedia = *update.SocialMedia
	}
}

// synthesizeApproval reshapes a reactivated organization into approval form
// for the response body
func synthesizeApproval(org *domain.Organization) *domain.Approval {
	return &domain.Approval{
		Type:   domain.ApprovalTypeOrganization,
		Status: domain.ApprovalStatusApproved,
		Email:  org.Email,
		OrgID:  &org.ID,
		RegistrationData: domain.RegistrationData{
			Name:        org.Name,
			Type:        org.Type,
			Description: org.Description,
			President:   org.President,
			Founded:     org.Founded,
			Members:     org.Members,
			Website:     org.Website,
			SocialMedia: org.SocialMedia,
		},
	}
}
