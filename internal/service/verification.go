package service

import (
	"context"
	"fmt"

	"campuslink-backend/internal/utils"
	"campuslink-backend/internal/verification"
)

type verificationService struct {
	codes    verification.CodeStore
	emailSvc EmailService
}

func NewVerificationService(codes verification.CodeStore, emailSvc EmailService) VerificationService {
	return &verificationService{
		codes:    codes,
		emailSvc: emailSvc,
	}
}

func (s *verificationService) SendCode(ctx context.Context, email string) error {
	if !utils.IsValidEmail(email) {
		return ErrInvalidEmail
	}
	code, err := s.codes.Issue(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to issue verification code: %w", err)
	}
	if err := s.emailSvc.SendVerificationCode(ctx, email, code); err != nil {
		return fmt.Errorf("failed to email verification code: %w", err)
	}
	return nil
}

func (s *verificationService) VerifyCode(ctx context.Context, email, code string) error {
	return s.codes.Redeem(ctx, email, code)
}
