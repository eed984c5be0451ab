package service

import (
	"context"
	"fmt"

	"campuslink-backend/internal/domain"
	"campuslink-backend/internal/repository"
)

type studentService struct {
	store repository.Store
}

func NewStudentService(store repository.Store) StudentService {
	return &studentService{store: store}
}

// Follow moves the student's followed list and the organization's follower
// counter together so the two can not drift.
func (s *studentService) Follow(ctx context.Context, studentID, orgID int32) error {
	org, err := s.store.Repos().Organizations.GetByID(ctx, orgID)
	if err != nil {
		return fmt.Errorf("failed to get organization: %w", err)
	}
	if org.Status != domain.OrgStatusActive {
		return ErrOrgNotActive
	}

	return s.store.Transact(ctx, func(r repository.Repos) error {
		if err := r.Students.AddFollowedOrg(ctx, studentID, orgID); err != nil {
			return err
		}
		if err := r.Organizations.AdjustFollowers(ctx, orgID, 1); err != nil {
			return err
		}
		return r.Outbox.Enqueue(ctx, &domain.OutboxMessage{
			RecipientType: domain.RecipientOrganization,
			RecipientID:   orgID,
			Title:         "New follower",
			Message:       "A student started following your organization.",
			Attributes:    map[string]string{"student_id": fmt.Sprint(studentID)},
		})
	})
}

func (s *studentService) Unfollow(ctx context.Context, studentID, orgID int32) error {
	return s.store.Transact(ctx, func(r repository.Repos) error {
		if err := r.Students.RemoveFollowedOrg(ctx, studentID, orgID); err != nil {
			return err
		}
		return r.Organizations.AdjustFollowers(ctx, orgID, -1)
	})
}

func (s *studentService) GetProfile(ctx context.Context, studentID int32) (*domain.Student, error) {
	return s.store.Repos().Students.GetByID(ctx, studentID)
}

func (s *studentService) ListOrganizations(ctx context.Context) ([]domain.Organization, error) {
	return s.store.Repos().Organizations.ListByStatus(ctx, domain.OrgStatusActive)
}
