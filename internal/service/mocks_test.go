package service

import (
	"context"
	"io"
	"time"

	"campuslink-backend/internal/domain"
	"campuslink-backend/internal/repository"

	"github.com/stretchr/testify/mock"
)

// mockStore hands every service the same mocked repositories; Transact just
// runs the callback so transactional flows are exercised directly.
type mockStore struct {
	repos repository.Repos
}

func newMockStore() (*mockStore, *mockRepos) {
	m := &mockRepos{
		orgs:          &MockOrganizationRepository{},
		students:      &MockStudentRepository{},
		admins:        &MockAdminUserRepository{},
		approvals:     &MockApprovalRepository{},
		events:        &MockEventRepository{},
		activities:    &MockActivityRepository{},
		notifications: &MockNotificationRepository{},
		outbox:        &MockOutboxRepository{},
		settings:      &MockSettingsRepository{},
	}
	store := &mockStore{repos: repository.Repos{
		Organizations: m.orgs,
		Students:      m.students,
		Admins:        m.admins,
		Approvals:     m.approvals,
		Events:        m.events,
		Activities:    m.activities,
		Notifications: m.notifications,
		Outbox:        m.outbox,
		Settings:      m.settings,
	}}
	return store, m
}

type mockRepos struct {
	orgs          *MockOrganizationRepository
	students      *MockStudentRepository
	admins        *MockAdminUserRepository
	approvals     *MockApprovalRepository
	events        *MockEventRepository
	activities    *MockActivityRepository
	notifications *MockNotificationRepository
	outbox        *MockOutboxRepository
	settings      *MockSettingsRepository
}

func (s *mockStore) Repos() repository.Repos { return s.repos }

func (s *mockStore) Transact(ctx context.Context, fn func(repository.Repos) error) error {
	return fn(s.repos)
}

type MockOrganizationRepository struct{ mock.Mock }

func (m *MockOrganizationRepository) Create(ctx context.Context, org *domain.Organization) error {
	args := m.Called(ctx, org)
	return args.Error(0)
}

func (m *MockOrganizationRepository) GetByID(ctx context.Context, id int32) (*domain.Organization, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) GetByEmail(ctx context.Context, email string) (*domain.Organization, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) Update(ctx context.Context, org *domain.Organization) error {
	args := m.Called(ctx, org)
	return args.Error(0)
}

func (m *MockOrganizationRepository) UpdateStatus(ctx context.Context, id int32, status domain.OrgStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockOrganizationRepository) ListByStatus(ctx context.Context, status domain.OrgStatus) ([]domain.Organization, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) CountByStatus(ctx context.Context, status domain.OrgStatus) (int32, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int32), args.Error(1)
}

func (m *MockOrganizationRepository) AdjustFollowers(ctx context.Context, id int32, delta int32) error {
	args := m.Called(ctx, id, delta)
	return args.Error(0)
}

func (m *MockOrganizationRepository) SetDeviceToken(ctx context.Context, id int32, token string) error {
	args := m.Called(ctx, id, token)
	return args.Error(0)
}

type MockStudentRepository struct{ mock.Mock }

func (m *MockStudentRepository) Create(ctx context.Context, student *domain.Student) error {
	args := m.Called(ctx, student)
	return args.Error(0)
}

func (m *MockStudentRepository) GetByID(ctx context.Context, id int32) (*domain.Student, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Student), args.Error(1)
}

func (m *MockStudentRepository) GetByEmail(ctx context.Context, email string) (*domain.Student, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Student), args.Error(1)
}

func (m *MockStudentRepository) AddFollowedOrg(ctx context.Context, studentID, orgID int32) error {
	args := m.Called(ctx, studentID, orgID)
	return args.Error(0)
}

func (m *MockStudentRepository) RemoveFollowedOrg(ctx context.Context, studentID, orgID int32) error {
	args := m.Called(ctx, studentID, orgID)
	return args.Error(0)
}

func (m *MockStudentRepository) AddJoinedEvent(ctx context.Context, studentID, eventID int32) error {
	args := m.Called(ctx, studentID, eventID)
	return args.Error(0)
}

func (m *MockStudentRepository) RemoveJoinedEvent(ctx context.Context, studentID, eventID int32) error {
	args := m.Called(ctx, studentID, eventID)
	return args.Error(0)
}

func (m *MockStudentRepository) ListFollowers(ctx context.Context, orgID int32) ([]domain.Student, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Student), args.Error(1)
}

func (m *MockStudentRepository) SetDeviceToken(ctx context.Context, id int32, token string) error {
	args := m.Called(ctx, id, token)
	return args.Error(0)
}

type MockAdminUserRepository struct{ mock.Mock }

func (m *MockAdminUserRepository) Create(ctx context.Context, admin *domain.AdminUser) error {
	args := m.Called(ctx, admin)
	return args.Error(0)
}

func (m *MockAdminUserRepository) GetByID(ctx context.Context, id int32) (*domain.AdminUser, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AdminUser), args.Error(1)
}

func (m *MockAdminUserRepository) GetByEmail(ctx context.Context, email string) (*domain.AdminUser, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AdminUser), args.Error(1)
}

type MockApprovalRepository struct{ mock.Mock }

func (m *MockApprovalRepository) Create(ctx context.Context, approval *domain.Approval) error {
	args := m.Called(ctx, approval)
	return args.Error(0)
}

func (m *MockApprovalRepository) GetByID(ctx context.Context, id int32) (*domain.Approval, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Approval), args.Error(1)
}

func (m *MockApprovalRepository) GetLatestByEmail(ctx context.Context, email string) (*domain.Approval, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Approval), args.Error(1)
}

func (m *MockApprovalRepository) Update(ctx context.Context, approval *domain.Approval) error {
	args := m.Called(ctx, approval)
	return args.Error(0)
}

func (m *MockApprovalRepository) UpdateFromStatus(ctx context.Context, approval *domain.Approval, from domain.ApprovalStatus) error {
	args := m.Called(ctx, approval, from)
	return args.Error(0)
}

func (m *MockApprovalRepository) ListByStatus(ctx context.Context, status domain.ApprovalStatus) ([]domain.Approval, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Approval), args.Error(1)
}

func (m *MockApprovalRepository) CountByStatus(ctx context.Context, status domain.ApprovalStatus) (int32, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int32), args.Error(1)
}

func (m *MockApprovalRepository) ListExpiredRejections(ctx context.Context, now time.Time) ([]domain.Approval, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Approval), args.Error(1)
}

type MockEventRepository struct{ mock.Mock }

func (m *MockEventRepository) Create(ctx context.Context, event *domain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepository) GetByID(ctx context.Context, id int32) (*domain.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *MockEventRepository) Update(ctx context.Context, event *domain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepository) ListByOrg(ctx context.Context, orgID int32) ([]domain.Event, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Event), args.Error(1)
}

func (m *MockEventRepository) ListUpcoming(ctx context.Context, limit, offset int32) ([]domain.Event, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Event), args.Error(1)
}

func (m *MockEventRepository) AddParticipant(ctx context.Context, eventID, studentID int32) error {
	args := m.Called(ctx, eventID, studentID)
	return args.Error(0)
}

func (m *MockEventRepository) RemoveParticipant(ctx context.Context, eventID, studentID int32) error {
	args := m.Called(ctx, eventID, studentID)
	return args.Error(0)
}

type MockActivityRepository struct{ mock.Mock }

func (m *MockActivityRepository) Append(ctx context.Context, activity *domain.Activity) error {
	args := m.Called(ctx, activity)
	return args.Error(0)
}

func (m *MockActivityRepository) List(ctx context.Context, limit, offset int32) ([]domain.Activity, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Activity), args.Error(1)
}

type MockNotificationRepository struct{ mock.Mock }

func (m *MockNotificationRepository) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

func (m *MockNotificationRepository) ListByRecipient(ctx context.Context, rt domain.RecipientType, recipientID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, rt, recipientID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int32), args.Error(2)
	}
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}

func (m *MockNotificationRepository) MarkAsRead(ctx context.Context, id int32, rt domain.RecipientType, recipientID int32) error {
	args := m.Called(ctx, id, rt, recipientID)
	return args.Error(0)
}

type MockOutboxRepository struct{ mock.Mock }

func (m *MockOutboxRepository) Enqueue(ctx context.Context, msgs ...*domain.OutboxMessage) error {
	callArgs := make([]interface{}, 0, len(msgs)+1)
	callArgs = append(callArgs, ctx)
	for _, msg := range msgs {
		callArgs = append(callArgs, msg)
	}
	args := m.Called(callArgs...)
	return args.Error(0)
}

func (m *MockOutboxRepository) ListPending(ctx context.Context, limit int32, maxAttempts int32) ([]domain.OutboxMessage, error) {
	args := m.Called(ctx, limit, maxAttempts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OutboxMessage), args.Error(1)
}

func (m *MockOutboxRepository) MarkDelivered(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOutboxRepository) RecordFailure(ctx context.Context, id int64, lastError string, maxAttempts int32) error {
	args := m.Called(ctx, id, lastError, maxAttempts)
	return args.Error(0)
}

type MockSettingsRepository struct{ mock.Mock }

func (m *MockSettingsRepository) Get(ctx context.Context) (*domain.Settings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Settings), args.Error(1)
}

func (m *MockSettingsRepository) Update(ctx context.Context, settings *domain.Settings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

type MockEmailService struct{ mock.Mock }

func (m *MockEmailService) SendVerificationCode(ctx context.Context, email, code string) error {
	args := m.Called(ctx, email, code)
	return args.Error(0)
}

func (m *MockEmailService) SendDecisionNotice(ctx context.Context, email, orgName, decision, reason string) error {
	args := m.Called(ctx, email, orgName, decision, reason)
	return args.Error(0)
}

type MockCodeStore struct{ mock.Mock }

func (m *MockCodeStore) Issue(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

func (m *MockCodeStore) Redeem(ctx context.Context, email, code string) error {
	args := m.Called(ctx, email, code)
	return args.Error(0)
}

func (m *MockCodeStore) ConsumeVerified(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

type MockStorage struct{ mock.Mock }

func (m *MockStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	args := m.Called(ctx, key, reader, size, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) GeneratePresignedDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, error) {
	args := m.Called(ctx, key, expiresIn)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) FileExists(ctx context.Context, key string) (bool, int64, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Get(1).(int64), args.Error(2)
}

func (m *MockStorage) DeleteFile(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockStorage) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	args := m.Called(ctx, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
