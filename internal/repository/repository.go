package repository

import (
	"context"
	"errors"
	"time"

	"campuslink-backend/internal/domain"
)

// ErrNotFound is returned when a record does not exist. Repositories translate
// driver-level sentinel errors into this.
var ErrNotFound = errors.New("record not found")

// ErrCapacityReached is returned when an event join would exceed capacity
var ErrCapacityReached = errors.New("event capacity reached")

type OrganizationRepository interface {
	Create(ctx context.Context, org *domain.Organization) error
	GetByID(ctx context.Context, id int32) (*domain.Organization, error)
	GetByEmail(ctx context.Context, email string) (*domain.Organization, error)
	Update(ctx context.Context, org *domain.Organization) error
	UpdateStatus(ctx context.Context, id int32, status domain.OrgStatus) error
	ListByStatus(ctx context.Context, status domain.OrgStatus) ([]domain.Organization, error)
	CountByStatus(ctx context.Context, status domain.OrgStatus) (int32, error)
	AdjustFollowers(ctx context.Context, id int32, delta int32) error
	SetDeviceToken(ctx context.Context, id int32, token string) error
}

type StudentRepository interface {
	Create(ctx context.Context, student *domain.Student) error
	GetByID(ctx context.Context, id int32) (*domain.Student, error)
	GetByEmail(ctx context.Context, email string) (*domain.Student, error)
	AddFollowedOrg(ctx context.Context, studentID, orgID int32) error
	RemoveFollowedOrg(ctx context.Context, studentID, orgID int32) error
	AddJoinedEvent(ctx context.Context, studentID, eventID int32) error
	RemoveJoinedEvent(ctx context.Context, studentID, eventID int32) error
	ListFollowers(ctx context.Context, orgID int32) ([]domain.Student, error)
	SetDeviceToken(ctx context.Context, id int32, token string) error
}

type AdminUserRepository interface {
	Create(ctx context.Context, admin *domain.AdminUser) error
	GetByID(ctx context.Context, id int32) (*domain.AdminUser, error)
	GetByEmail(ctx context.Context, email string) (*domain.AdminUser, error)
}

type ApprovalRepository interface {
	Create(ctx context.Context, approval *domain.Approval) error
	GetByID(ctx context.Context, id int32) (*domain.Approval, error)
	GetLatestByEmail(ctx context.Context, email string) (*domain.Approval, error)
	Update(ctx context.Context, approval *domain.Approval) error
	// UpdateFromStatus updates only while the stored row still holds the given
	// status; a stale row yields ErrNotFound. Decisions race against each other
	// and must not both commit.
	UpdateFromStatus(ctx context.Context, approval *domain.Approval, from domain.ApprovalStatus) error
	ListByStatus(ctx context.Context, status domain.ApprovalStatus) ([]domain.Approval, error)
	CountByStatus(ctx context.Context, status domain.ApprovalStatus) (int32, error)
	ListExpiredRejections(ctx context.Context, now time.Time) ([]domain.Approval, error)
}

type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	GetByID(ctx context.Context, id int32) (*domain.Event, error)
	Update(ctx context.Context, event *domain.Event) error
	ListByOrg(ctx context.Context, orgID int32) ([]domain.Event, error)
	ListUpcoming(ctx context.Context, limit, offset int32) ([]domain.Event, error)
	// AddParticipant appends the student and increments the registered counter
	// in a single capacity-checked statement. Returns ErrCapacityReached when
	// the event is full.
	AddParticipant(ctx context.Context, eventID, studentID int32) error
	RemoveParticipant(ctx context.Context, eventID, studentID int32) error
}

type ActivityRepository interface {
	Append(ctx context.Context, activity *domain.Activity) error
	List(ctx context.Context, limit, offset int32) ([]domain.Activity, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	ListByRecipient(ctx context.Context, rt domain.RecipientType, recipientID int32, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id int32, rt domain.RecipientType, recipientID int32) error
}

type OutboxRepository interface {
	Enqueue(ctx context.Context, msgs ...*domain.OutboxMessage) error
	ListPending(ctx context.Context, limit int32, maxAttempts int32) ([]domain.OutboxMessage, error)
	MarkDelivered(ctx context.Context, id int64) error
	RecordFailure(ctx context.Context, id int64, lastError string, maxAttempts int32) error
}

type SettingsRepository interface {
	Get(ctx context.Context) (*domain.Settings, error)
	Update(ctx context.Context, settings *domain.Settings) error
}

// Repos bundles every repository, bound either to the database pool or to a
// single transaction.
type Repos struct {
	Organizations OrganizationRepository
	Students      StudentRepository
	Admins        AdminUserRepository
	Approvals     ApprovalRepository
	Events        EventRepository
	Activities    ActivityRepository
	Notifications NotificationRepository
	Outbox        OutboxRepository
	Settings      SettingsRepository
}

// Store gives services pool-bound repositories plus a way to run several
// repository calls inside one transaction. Multi-record transitions (approve,
// follow, event join) go through Transact so they commit or roll back as one.
type Store interface {
	Repos() Repos
	Transact(ctx context.Context, fn func(Repos) error) error
}
