package service

import (
	"context"
	"errors"
	"fmt"

	"campuslink-backend/internal/domain"
	"campuslink-backend/internal/repository"
	"campuslink-backend/internal/security"
	"campuslink-backend/internal/storage"
	"campuslink-backend/internal/utils"
	"campuslink-backend/internal/verification"

	"golang.org/x/crypto/bcrypt"
)

type authService struct {
	store  repository.Store
	tokens security.TokenManager
	codes  verification.CodeStore
	files  fileStore
}

func NewAuthService(store repository.Store, tokens security.TokenManager, codes verification.CodeStore, backend storage.StorageInterface, maxFileSizeMB int64) AuthService {
	return &authService{
		store:  store,
		tokens: tokens,
		codes:  codes,
		files:  newFileStore(backend, maxFileSizeMB),
	}
}

func (s *authService) RegisterOrganization(ctx context.Context, reg OrganizationRegistration, file *UploadedFile) (*domain.Approval, error) {
	settings, err := s.platformSettings(ctx)
	if err != nil {
		return nil, err
	}
	if settings.MaintenanceMode {
		return nil, ErrMaintenanceMode
	}
	if !settings.AllowRegistration {
		return nil, ErrRegistrationClosed
	}

	if !utils.IsValidEmail(reg.Email) {
		return nil, ErrInvalidEmail
	}
	if (reg.Password == "") == (reg.GoogleID == "") {
		return nil, ErrMissingCredential
	}
	if err := s.requireEmailFree(ctx, reg.Email); err != nil {
		return nil, err
	}

	// A redeemed one-time code is a precondition for organization signup
	if err := s.codes.ConsumeVerified(ctx, reg.Email); err != nil {
		return nil, err
	}

	org := &domain.Organization{
		Email:    reg.Email,
		Status:   domain.OrgStatusPending,
		Provider: domain.AuthProviderLocal,
		GoogleID: reg.GoogleID,
	}
	if reg.GoogleID != "" {
		org.Provider = domain.AuthProviderGoogle
	} else {
		hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		org.PasswordHash = string(hash)
	}
	applyRegistration(org, &reg.Data)

	var verFile *domain.VerificationFile
	if file != nil {
		verFile, err = s.files.saveVerificationFile(ctx, file, settings.MaxFileSizeMB)
		if err != nil {
			return nil, err
		}
		org.FileURL = verFile.URL
	}

	approval := &domain.Approval{
		Type:             domain.ApprovalTypeOrganization,
		Status:           domain.ApprovalStatusPending,
		Email:            reg.Email,
		RegistrationData: reg.Data,
		VerificationFile: verFile,
	}

	err = s.store.Transact(ctx, func(r repository.Repos) error {
		if !settings.RequireApproval {
			org.Status = domain.OrgStatusActive
		}
		if err := r.Organizations.Create(ctx, org); err != nil {
			return fmt.Errorf("failed to create organization: %w", err)
		}
		if !settings.RequireApproval {
			approval.Status = domain.ApprovalStatusApproved
			approval.OrgID = &org.ID
		}
		if err := r.Approvals.Create(ctx, approval); err != nil {
			return fmt.Errorf("failed to create approval: %w", err)
		}
		return r.Activities.Append(ctx, &domain.Activity{
			Actor:      reg.Email,
			Action:     domain.ActivityRegistrationSubmitted,
			TargetType: "approval",
			TargetID:   approval.ID,
		})
	})
	if err != nil {
		return nil, err
	}
	return approval, nil
}

func (s *authService) RegisterStudent(ctx context.Context, reg StudentRegistration) (*domain.Student, *TokenPair, error) {
	settings, err := s.platformSettings(ctx)
	if err != nil {
		return nil, nil, err
	}
	if settings.MaintenanceMode {
		return nil, nil, ErrMaintenanceMode
	}
	if !settings.AllowRegistration {
		return nil, nil, ErrRegistrationClosed
	}

	if !utils.IsValidStudentEmail(reg.Email) {
		return nil, nil, ErrInvalidEmail
	}
	if (reg.Password == "") == (reg.GoogleID == "") {
		return nil, nil, ErrMissingCredential
	}
	if err := s.requireEmailFree(ctx, reg.Email); err != nil {
		return nil, nil, err
	}

	student := &domain.Student{
		Email:    reg.Email,
		Name:     reg.Name,
		Status:   domain.StudentStatusActive,
		Provider: domain.AuthProviderLocal,
		GoogleID: reg.GoogleID,
	}
	if reg.GoogleID != "" {
		student.Provider = domain.AuthProviderGoogle
	} else {
		hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to hash password: %w", err)
		}
		student.PasswordHash = string(hash)
	}

	if err := s.store.Repos().Students.Create(ctx, student); err != nil {
		return nil, nil, fmt.Errorf("failed to create student: %w", err)
	}

	pair, err := s.issueTokens(student.ID, student.Email, security.RoleStudent)
	if err != nil {
		return nil, nil, err
	}
	return student, pair, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*TokenPair, string, error) {
	repos := s.store.Repos()

	if admin, err := repos.Admins.GetByEmail(ctx, email); err == nil {
		if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) != nil {
			return nil, "", ErrInvalidCredentials
		}
		pair, err := s.issueTokens(admin.ID, admin.Email, security.RoleAdmin)
		return pair, string(security.RoleAdmin), err
	}

	if org, err := repos.Organizations.GetByEmail(ctx, email); err == nil {
		if org.Provider != domain.AuthProviderLocal ||
			bcrypt.CompareHashAndPassword([]byte(org.PasswordHash), []byte(password)) != nil {
			return nil, "", ErrInvalidCredentials
		}
		pair, err := s.issueTokens(org.ID, org.Email, security.RoleOrganization)
		return pair, string(security.RoleOrganization), err
	}

	if student, err := repos.Students.GetByEmail(ctx, email); err == nil {
		if student.Provider != domain.AuthProviderLocal ||
			bcrypt.CompareHashAndPassword([]byte(student.PasswordHash), []byte(password)) != nil {
			return nil, "", ErrInvalidCredentials
		}
		pair, err := s.issueTokens(student.ID, student.Email, security.RoleStudent)
		return pair, string(security.RoleStudent), err
	}

	return nil, "", ErrInvalidCredentials
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.ValidateToken(refreshToken)
	if err != nil || claims.Type != security.TokenTypeRefresh {
		return nil, ErrInvalidToken
	}
	return s.issueTokens(claims.UserID, claims.Email, claims.Role)
}

func (s *authService) issueTokens(userID int32, email string, role security.Role) (*TokenPair, error) {
	access, err := s.tokens.GenerateAccessToken(userID, email, role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(userID, email, role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}

// requireEmailFree checks every principal table; registration is refused if
// the address is taken anywhere.
func (s *authService) requireEmailFree(ctx context.Context, email string) error {
	repos := s.store.Repos()
	if _, err := repos.Organizations.GetByEmail(ctx, email); err == nil {
		return ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("failed to check organizations: %w", err)
	}
	if _, err := repos.Students.GetByEmail(ctx, email); err == nil {
		return ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("failed to check students: %w", err)
	}
	if _, err := repos.Admins.GetByEmail(ctx, email); err == nil {
		return ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("failed to check admin users: %w", err)
	}
	return nil
}

// platformSettings returns stored settings, falling back to permissive
// defaults when the singleton row has not been written yet.
func (s *authService) platformSettings(ctx context.Context) (*domain.Settings, error) {
	settings, err := s.store.Repos().Settings.Get(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return &domain.Settings{AllowRegistration: true, RequireApproval: true, MaxFileSizeMB: 10}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return settings, nil
}
