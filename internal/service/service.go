package service

import (
	"context"
	"errors"
	"io"
	"time"

	"campuslink-backend/internal/domain"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidEmail       = errors.New("email address is not valid")
	ErrRegistrationClosed = errors.New("registration is currently closed")
	ErrMaintenanceMode    = errors.New("platform is in maintenance mode")
	ErrMissingCredential  = errors.New("exactly one of password or google account is required")
	ErrFileTooLarge       = errors.New("verification file exceeds the size limit")

	ErrReasonRequired     = errors.New("rejection reason is required")
	ErrDeadlineNotFuture  = errors.New("resubmission deadline must be in the future")
	ErrNotRejected        = errors.New("application is not in rejected state")
	ErrResubmissionClosed = errors.New("resubmission window has closed")
	ErrOrgNotActive       = errors.New("organization is not active")
	ErrInvalidToken       = errors.New("invalid token")
)

// UploadedFile is a verification document received from a multipart request
type UploadedFile struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// OrganizationRegistration is the submitted registration form
type OrganizationRegistration struct {
	Email    string
	Password string
	GoogleID string
	Data     domain.RegistrationData
}

// StudentRegistration is the student sign-up form
type StudentRegistration struct {
	Email    string
	Name     string
	Password string
	GoogleID string
}

// TokenPair carries the issued access and refresh tokens
type TokenPair struct {
	Access  string `json:"access_token"`
	Refresh string `json:"refresh_token"`
}

type AuthService interface {
	// RegisterOrganization submits an organization registration: a pending
	// Organization plus its review ticket, created in one transaction. A
	// redeemed verification code for the email is a precondition.
	RegisterOrganization(ctx context.Context, reg OrganizationRegistration, file *UploadedFile) (*domain.Approval, error)
	RegisterStudent(ctx context.Context, reg StudentRegistration) (*domain.Student, *TokenPair, error)
	Login(ctx context.Context, email, password string) (*TokenPair, string, error) // tokens, role
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
}

type VerificationService interface {
	SendCode(ctx context.Context, email string) error
	VerifyCode(ctx context.Context, email, code string) error
}

// RegistrationUpdate carries the fields an applicant may change on
// resubmission. Nil pointers mean "keep the previous value".
type RegistrationUpdate struct {
	Name        *string
	Type        *string
	Description *string
	President   *string
	Founded     *string
	Members     *int32
	Website     *string
	SocialMedia *string
}

type ApprovalService interface {
	Approve(ctx context.Context, adminEmail string, id int32) (*domain.Approval, error)
	Reject(ctx context.Context, adminEmail string, id int32, reason string, allowResubmission bool, deadline *time.Time) error
	Resubmit(ctx context.Context, applicantEmail string, id int32, update RegistrationUpdate, file *UploadedFile) (*domain.Approval, error)
	Suspend(ctx context.Context, adminEmail string, orgID int32, reason string) error
	ListReview(ctx context.Context) ([]domain.ReviewItem, *domain.ReviewStats, error)
	StatusByEmail(ctx context.Context, email string) (*domain.Approval, error)
}

type StudentService interface {
	Follow(ctx context.Context, studentID, orgID int32) error
	Unfollow(ctx context.Context, studentID, orgID int32) error
	GetProfile(ctx context.Context, studentID int32) (*domain.Student, error)
	ListOrganizations(ctx context.Context) ([]domain.Organization, error)
}

type EventService interface {
	Create(ctx context.Context, orgID int32, event *domain.Event) error
	Get(ctx context.Context, id int32) (*domain.Event, error)
	ListByOrg(ctx context.Context, orgID int32) ([]domain.Event, error)
	ListUpcoming(ctx context.Context, page, pageSize int32) ([]domain.Event, error)
	Join(ctx context.Context, studentID, eventID int32) error
	Leave(ctx context.Context, studentID, eventID int32) error
}

type NotificationService interface {
	List(ctx context.Context, rt domain.RecipientType, recipientID int32, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, rt domain.RecipientType, recipientID, notificationID int32) error
	RegisterDeviceToken(ctx context.Context, rt domain.RecipientType, recipientID int32, token string) error
}

type SettingsService interface {
	Get(ctx context.Context) (*domain.Settings, error)
	Update(ctx context.Context, settings *domain.Settings) error
}

type ActivityService interface {
	List(ctx context.Context, page, pageSize int32) ([]domain.Activity, error)
}

type EmailService interface {
	SendVerificationCode(ctx context.Context, email, code string) error
	SendDecisionNotice(ctx context.Context, email, orgName, decision, reason string) error
}
