package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"campuslink-backend/internal/domain"
	"campuslink-backend/internal/repository"
	"campuslink-backend/internal/security"
	"campuslink-backend/internal/service"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockAuthService struct{ mock.Mock }

func (m *MockAuthService) RegisterOrganization(ctx context.Context, reg service.OrganizationRegistration, file *service.UploadedFile) (*domain.Approval, error) {
	args := m.Called(ctx, reg, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Approval), args.Error(1)
}

func (m *MockAuthService) RegisterStudent(ctx context.Context, reg service.StudentRegistration) (*domain.Student, *service.TokenPair, error) {
	args := m.Called(ctx, reg)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Student), args.Get(1).(*service.TokenPair), args.Error(2)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*service.TokenPair, string, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*service.TokenPair), args.String(1), args.Error(2)
}

func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (*service.TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TokenPair), args.Error(1)
}

type MockApprovalService struct{ mock.Mock }

func (m *MockApprovalService) Approve(ctx context.Context, adminEmail string, id int32) (*domain.Approval, error) {
	args := m.Called(ctx, adminEmail, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Approval), args.Error(1)
}

func (m *MockApprovalService) Reject(ctx context.Context, adminEmail string, id int32, reason string, allowResubmission bool, deadline *time.Time) error {
	args := m.Called(ctx, adminEmail, id, reason, allowResubmission, deadline)
	return args.Error(0)
}

func (m *MockApprovalService) Resubmit(ctx context.Context, applicantEmail string, id int32, update service.RegistrationUpdate, file *service.UploadedFile) (*domain.Approval, error) {
	args := m.Called(ctx, applicantEmail, id, update, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Approval), args.Error(1)
}

func (m *MockApprovalService) Suspend(ctx context.Context, adminEmail string, orgID int32, reason string) error {
	args := m.Called(ctx, adminEmail, orgID, reason)
	return args.Error(0)
}

func (m *MockApprovalService) ListReview(ctx context.Context) ([]domain.ReviewItem, *domain.ReviewStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.ReviewItem), args.Get(1).(*domain.ReviewStats), args.Error(2)
}

func (m *MockApprovalService) StatusByEmail(ctx context.Context, email string) (*domain.Approval, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Approval), args.Error(1)
}

func testHandlers(auth service.AuthService, approvals service.ApprovalService) *Handlers {
	return NewHandlers(auth, nil, approvals, nil, nil, nil, nil, nil, nil)
}

func withClaims(r *http.Request, claims *security.UserClaims) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), claimsContextKey, claims))
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestLoginHandler(t *testing.T) {
	auth := &MockAuthService{}
	auth.On("Login", mock.Anything, "admin@au.edu", "pass").
		Return(&service.TokenPair{Access: "a", Refresh: "r"}, "admin", nil)
	h := testHandlers(auth, nil)

	body, _ := json.Marshal(map[string]string{"email": "admin@au.edu", "password": "pass"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, true, envelope["success"])
	data := envelope["data"].(map[string]interface{})
	assert.Equal(t, "admin", data["role"])
}

func TestLoginHandler_BadCredentials(t *testing.T) {
	auth := &MockAuthService{}
	auth.On("Login", mock.Anything, "admin@au.edu", "wrong").
		Return(nil, "", service.ErrInvalidCredentials)
	h := testHandlers(auth, nil)

	body, _ := json.Marshal(map[string]string{"email": "admin@au.edu", "password": "wrong"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, false, envelope["success"])
	assert.Equal(t, "INVALID_CREDENTIALS", envelope["code"])
}

func TestRejectHandler_PassesDeadline(t *testing.T) {
	approvals := &MockApprovalService{}
	deadline := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	approvals.On("Reject", mock.Anything, "admin@au.edu", int32(7), "missing documents", true,
		mock.MatchedBy(func(d *time.Time) bool { return d != nil && d.Equal(deadline) })).
		Return(nil)
	h := testHandlers(nil, approvals)

	body, _ := json.Marshal(map[string]interface{}{
		"reason":                "missing documents",
		"allow_resubmission":    true,
		"resubmission_deadline": deadline,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/admin/reject/7", bytes.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"id": "7"})
	req = withClaims(req, &security.UserClaims{UserID: 1, Email: "admin@au.edu", Role: security.RoleAdmin})
	rec := httptest.NewRecorder()

	h.Reject(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	approvals.AssertExpectations(t)
}

func TestApproveHandler_NotFound(t *testing.T) {
	approvals := &MockApprovalService{}
	approvals.On("Approve", mock.Anything, "admin@au.edu", int32(404)).
		Return(nil, repository.ErrNotFound)
	h := testHandlers(nil, approvals)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/approve/404", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "404"})
	req = withClaims(req, &security.UserClaims{UserID: 1, Email: "admin@au.edu", Role: security.RoleAdmin})
	rec := httptest.NewRecorder()

	h.Approve(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMyApplicationStatus_UsesAuthenticatedEmail(t *testing.T) {
	approvals := &MockApprovalService{}
	approvals.On("StatusByEmail", mock.Anything, "chess@club.org").
		Return(&domain.Approval{ID: 7, Status: domain.ApprovalStatusPending, Email: "chess@club.org"}, nil)
	h := testHandlers(nil, approvals)

	req := httptest.NewRequest(http.MethodGet, "/api/organizations/my-application/status", nil)
	req = withClaims(req, &security.UserClaims{UserID: 3, Email: "chess@club.org", Role: security.RoleOrganization})
	rec := httptest.NewRecorder()

	h.MyApplicationStatus(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	approvals.AssertExpectations(t)
}
