package service

import (
	"context"
	"testing"
	"time"

	"campuslink-backend/internal/domain"
	"campuslink-backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newApprovalServiceForTest() (ApprovalService, *mockRepos, *MockEmailService) {
	store, repos := newMockStore()
	emailSvc := &MockEmailService{}
	svc := NewApprovalService(store, emailSvc, &MockStorage{}, 10)
	return svc, repos, emailSvc
}

func pendingApproval(id int32, email string) *domain.Approval {
	return &domain.Approval{
		ID:     id,
		Type:   domain.ApprovalTypeOrganization,
		Status: domain.ApprovalStatusPending,
		Email:  email,
		RegistrationData: domain.RegistrationData{
			Name:      "Chess Club",
			Type:      "academic",
			President: "Dana",
			Members:   12,
		},
	}
}

func TestApprove_PendingApplication(t *testing.T) {
	svc, repos, emailSvc := newApprovalServiceForTest()

	approval := pendingApproval(7, "chess@club.org")
	org := &domain.Organization{ID: 3, Email: "chess@club.org", Status: domain.OrgStatusPending}

	repos.approvals.On("GetByID", mock.Anything, int32(7)).Return(approval, nil)
	repos.orgs.On("GetByEmail", mock.Anything, "chess@club.org").Return(org, nil)
	repos.orgs.On("Update", mock.Anything, mock.MatchedBy(func(o *domain.Organization) bool {
		return o.Status == domain.OrgStatusActive && o.Name == "Chess Club"
	})).Return(nil)
	repos.approvals.On("UpdateFromStatus", mock.Anything, mock.MatchedBy(func(a *domain.Approval) bool {
		return a.Status == domain.ApprovalStatusApproved && a.OrgID != nil && *a.OrgID == 3
	}), domain.ApprovalStatusPending).Return(nil)
	repos.outbox.On("Enqueue", mock.Anything, mock.MatchedBy(func(msg *domain.OutboxMessage) bool {
		return msg.RecipientType == domain.RecipientOrganization && msg.RecipientID == 3
	})).Return(nil)
	repos.activities.On("Append", mock.Anything, mock.Anything).Return(nil)
	emailSvc.On("SendDecisionNotice", mock.Anything, "chess@club.org", "Chess Club", "approved", "").Return(nil)

	result, err := svc.Approve(context.Background(), "admin@au.edu", 7)

	assert.NoError(t, err)
	assert.Equal(t, domain.ApprovalStatusApproved, result.Status)
	assert.NotNil(t, result.OrgID)
	repos.orgs.AssertExpectations(t)
	repos.approvals.AssertExpectations(t)
	repos.outbox.AssertExpectations(t)
}

func TestApprove_AlreadyDecided(t *testing.T) {
	svc, repos, _ := newApprovalServiceForTest()

	decided := pendingApproval(7, "chess@club.org")
	decided.Status = domain.ApprovalStatusApproved
	repos.approvals.On("GetByID", mock.Anything, int32(7)).Return(decided, nil)

	_, err := svc.Approve(context.Background(), "admin@au.edu", 7)

	assert.ErrorIs(t, err, repository.ErrNotFound)
	repos.approvals.AssertNotCalled(t, "UpdateFromStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestApprove_LosesRaceToConcurrentDecision(t *testing.T) {
	svc, repos, _ := newApprovalServiceForTest()

	// The ticket still reads pending, but another decision commits before the
	// guarded update runs. The transaction must fail and enqueue nothing.
	approval := pendingApproval(7, "chess@club.org")
	org := &domain.Organization{ID: 3, Email: "chess@club.org", Status: domain.OrgStatusPending}

	repos.approvals.On("GetByID", mock.Anything, int32(7)).Return(approval, nil)
	repos.orgs.On("GetByEmail", mock.Anything, "chess@club.org").Return(org, nil)
	repos.orgs.On("Update", mock.Anything, mock.Anything).Return(nil)
	repos.approvals.On("UpdateFromStatus", mock.Anything, mock.Anything, domain.ApprovalStatusPending).
		Return(repository.ErrNotFound)

	_, err := svc.Approve(context.Background(), "admin@au.edu", 7)

	assert.ErrorIs(t, err, repository.ErrNotFound)
	repos.outbox.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything)
	repos.activities.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestApprove_ReactivatesSuspendedOrganization(t *testing.T) {
	svc, repos, emailSvc := newApprovalServiceForTest()

	repos.approvals.On("GetByID", mock.Anything, int32(9)).Return(nil, repository.ErrNotFound)
	repos.orgs.On("GetByID", mock.Anything, int32(9)).Return(&domain.Organization{
		ID: 9, Email: "robo@club.org", Name: "Robotics", Status: domain.OrgStatusSuspended,
	}, nil)
	repos.orgs.On("UpdateStatus", mock.Anything, int32(9), domain.OrgStatusActive).Return(nil)
	repos.outbox.On("Enqueue", mock.Anything, mock.Anything).Return(nil)
	repos.activities.On("Append", mock.Anything, mock.Anything).Return(nil)
	emailSvc.On("SendDecisionNotice", mock.Anything, "robo@club.org", "Robotics", "approved", "").Return(nil)

	result, err := svc.Approve(context.Background(), "admin@au.edu", 9)

	assert.NoError(t, err)
	assert.Equal(t, domain.ApprovalStatusApproved, result.Status)
	assert.Equal(t, int32(9), *result.OrgID)
	repos.orgs.AssertExpectations(t)
}

func TestReject_RequiresReason(t *testing.T) {
	svc, _, _ := newApprovalServiceForTest()

	err := svc.Reject(context.Background(), "admin@au.edu", 1, "   ", false, nil)

	assert.ErrorIs(t, err, ErrReasonRequired)
}

func TestReject_DeadlineMustBeFuture(t *testing.T) {
	svc, _, _ := newApprovalServiceForTest()

	past := time.Now().Add(-time.Hour)
	err := svc.Reject(context.Background(), "admin@au.edu", 1, "missing documents", true, &past)

	assert.ErrorIs(t, err, ErrDeadlineNotFuture)
}

func TestReject_PendingApplication(t *testing.T) {
	svc, repos, emailSvc := newApprovalServiceForTest()

	approval := pendingApproval(5, "chess@club.org")
	deadline := time.Now().Add(72 * time.Hour)

	repos.approvals.On("GetByID", mock.Anything, int32(5)).Return(approval, nil)
	repos.orgs.On("GetByEmail", mock.Anything, "chess@club.org").Return(&domain.Organization{
		ID: 2, Email: "chess@club.org", Status: domain.OrgStatusPending,
	}, nil)
	repos.approvals.On("UpdateFromStatus", mock.Anything, mock.MatchedBy(func(a *domain.Approval) bool {
		return a.Status == domain.ApprovalStatusRejected &&
			a.RejectionDetails != nil &&
			a.RejectionDetails.Reason == "missing documents" &&
			a.RejectionDetails.AllowResubmission &&
			a.RejectionDetails.RejectedBy == "admin@au.edu"
	}), domain.ApprovalStatusPending).Return(nil)
	repos.outbox.On("Enqueue", mock.Anything, mock.Anything).Return(nil)
	repos.activities.On("Append", mock.Anything, mock.Anything).Return(nil)
	emailSvc.On("SendDecisionNotice", mock.Anything, "chess@club.org", mock.Anything, "rejected", "missing documents").Return(nil)

	err := svc.Reject(context.Background(), "admin@au.edu", 5, "missing documents", true, &deadline)

	assert.NoError(t, err)
	repos.approvals.AssertExpectations(t)
}

func TestReject_DeactivatesSuspendedOrganization(t *testing.T) {
	svc, repos, emailSvc := newApprovalServiceForTest()

	repos.approvals.On("GetByID", mock.Anything, int32(4)).Return(nil, repository.ErrNotFound)
	repos.orgs.On("GetByID", mock.Anything, int32(4)).Return(&domain.Organization{
		ID: 4, Email: "old@club.org", Name: "Old Club", Status: domain.OrgStatusSuspended,
	}, nil)
	repos.orgs.On("UpdateStatus", mock.Anything, int32(4), domain.OrgStatusInactive).Return(nil)
	repos.outbox.On("Enqueue", mock.Anything, mock.Anything).Return(nil)
	repos.activities.On("Append", mock.Anything, mock.Anything).Return(nil)
	emailSvc.On("SendDecisionNotice", mock.Anything, "old@club.org", "Old Club", "rejected", "inactive for a year").Return(nil)

	err := svc.Reject(context.Background(), "admin@au.edu", 4, "inactive for a year", false, nil)

	assert.NoError(t, err)
	repos.orgs.AssertExpectations(t)
}

func TestResubmit_ReturnsToPendingAndKeepsRejectionDetails(t *testing.T) {
	svc, repos, _ := newApprovalServiceForTest()

	deadline := time.Now().Add(48 * time.Hour)
	approval := pendingApproval(6, "chess@club.org")
	approval.Status = domain.ApprovalStatusRejected
	approval.RejectionDetails = &domain.RejectionDetails{
		Reason:               "missing documents",
		AllowResubmission:    true,
		ResubmissionDeadline: &deadline,
		RejectedBy:           "admin@au.edu",
	}

	repos.approvals.On("GetByID", mock.Anything, int32(6)).Return(approval, nil)
	repos.approvals.On("Update", mock.Anything, mock.MatchedBy(func(a *domain.Approval) bool {
		return a.Status == domain.ApprovalStatusPending &&
			a.RejectionDetails != nil &&
			a.RegistrationData.Name == "Chess Society"
	})).Return(nil)
	repos.activities.On("Append", mock.Anything, mock.Anything).Return(nil)

	newName := "Chess Society"
	result, err := svc.Resubmit(context.Background(), "chess@club.org", 6, RegistrationUpdate{Name: &newName}, nil)

	assert.NoError(t, err)
	assert.Equal(t, domain.ApprovalStatusPending, result.Status)
	assert.NotNil(t, result.RejectionDetails, "prior feedback must survive resubmission")
	assert.Equal(t, "Chess Society", result.RegistrationData.Name)
	assert.Equal(t, "academic", result.RegistrationData.Type, "unsent fields keep previous values")
}

func TestResubmit_WindowClosed(t *testing.T) {
	svc, repos, _ := newApprovalServiceForTest()

	expired := time.Now().Add(-time.Hour)
	approval := pendingApproval(6, "chess@club.org")
	approval.Status = domain.ApprovalStatusRejected
	approval.RejectionDetails = &domain.RejectionDetails{
		Reason:               "missing documents",
		AllowResubmission:    true,
		ResubmissionDeadline: &expired,
	}
	repos.approvals.On("GetByID", mock.Anything, int32(6)).Return(approval, nil)

	_, err := svc.Resubmit(context.Background(), "chess@club.org", 6, RegistrationUpdate{}, nil)

	assert.ErrorIs(t, err, ErrResubmissionClosed)
}

func TestResubmit_WrongApplicant(t *testing.T) {
	svc, repos, _ := newApprovalServiceForTest()

	approval := pendingApproval(6, "chess@club.org")
	approval.Status = domain.ApprovalStatusRejected
	repos.approvals.On("GetByID", mock.Anything, int32(6)).Return(approval, nil)

	_, err := svc.Resubmit(context.Background(), "other@club.org", 6, RegistrationUpdate{}, nil)

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSuspend_NotifiesOwnerAndFollowers(t *testing.T) {
	svc, repos, emailSvc := newApprovalServiceForTest()

	repos.orgs.On("GetByID", mock.Anything, int32(3)).Return(&domain.Organization{
		ID: 3, Email: "chess@club.org", Name: "Chess Club", Status: domain.OrgStatusActive,
	}, nil)
	repos.students.On("ListFollowers", mock.Anything, int32(3)).Return([]domain.Student{
		{ID: 10}, {ID: 11},
	}, nil)
	repos.orgs.On("UpdateStatus", mock.Anything, int32(3), domain.OrgStatusSuspended).Return(nil)
	repos.outbox.On("Enqueue", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	repos.activities.On("Append", mock.Anything, mock.Anything).Return(nil)
	emailSvc.On("SendDecisionNotice", mock.Anything, "chess@club.org", "Chess Club", "suspended", "policy violation").Return(nil)

	err := svc.Suspend(context.Background(), "admin@au.edu", 3, "policy violation")

	assert.NoError(t, err)
	// One message to the owner plus one per follower
	repos.outbox.AssertNumberOfCalls(t, "Enqueue", 1)
	repos.outbox.AssertExpectations(t)
}

func TestSuspend_RequiresActiveOrganization(t *testing.T) {
	svc, repos, _ := newApprovalServiceForTest()

	repos.orgs.On("GetByID", mock.Anything, int32(3)).Return(&domain.Organization{
		ID: 3, Status: domain.OrgStatusSuspended,
	}, nil)

	err := svc.Suspend(context.Background(), "admin@au.edu", 3, "again")

	assert.ErrorIs(t, err, ErrOrgNotActive)
}

func TestListReview_MixesTicketsAndSuspendedOrganizations(t *testing.T) {
	svc, repos, _ := newApprovalServiceForTest()

	repos.approvals.On("ListByStatus", mock.Anything, domain.ApprovalStatusPending).Return([]domain.Approval{
		{ID: 1, Status: domain.ApprovalStatusPending},
	}, nil)
	repos.orgs.On("ListByStatus", mock.Anything, domain.OrgStatusSuspended).Return([]domain.Organization{
		{ID: 8, Status: domain.OrgStatusSuspended},
	}, nil)
	repos.approvals.On("CountByStatus", mock.Anything, domain.ApprovalStatusPending).Return(int32(1), nil)
	repos.approvals.On("CountByStatus", mock.Anything, domain.ApprovalStatusApproved).Return(int32(4), nil)
	repos.approvals.On("CountByStatus", mock.Anything, domain.ApprovalStatusRejected).Return(int32(2), nil)

	items, stats, err := svc.ListReview(context.Background())

	assert.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, domain.ReviewItemPending, items[0].Kind)
	assert.NotNil(t, items[0].Approval)
	assert.Nil(t, items[0].Organization)
	assert.Equal(t, domain.ReviewItemSuspendedOrg, items[1].Kind)
	assert.Equal(t, int32(8), items[1].Organization.ID)
	assert.Equal(t, &domain.ReviewStats{Pending: 1, Approved: 4, Rejected: 2, Suspended: 1}, stats)
}

func TestStatusByEmail(t *testing.T) {
	svc, repos, _ := newApprovalServiceForTest()

	approval := pendingApproval(2, "chess@club.org")
	repos.approvals.On("GetLatestByEmail", mock.Anything, "chess@club.org").Return(approval, nil)

	result, err := svc.StatusByEmail(context.Background(), "chess@club.org")

	assert.NoError(t, err)
	assert.Equal(t, int32(2), result.ID)
}
