package service

import (
	"context"
	"errors"

	"campuslink-backend/internal/domain"
	"campuslink-backend/internal/repository"
)

type settingsService struct {
	store repository.Store
}

func NewSettingsService(store repository.Store) SettingsService {
	return &settingsService{store: store}
}

func (s *settingsService) Get(ctx context.Context) (*domain.Settings, error) {
	settings, err := s.store.Repos().Settings.Get(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		// Defaults until an admin writes the singleton row
		return &domain.Settings{AllowRegistration: true, RequireApproval: true, MaxFileSizeMB: 10}, nil
	}
	return settings, err
}

func (s *settingsService) Update(ctx context.Context, settings *domain.Settings) error {
	return s.store.Repos().Settings.Update(ctx, settings)
}

type activityService struct {
	store repository.Store
}

func NewActivityService(store repository.Store) ActivityService {
	return &activityService{store: store}
}

func (s *activityService) List(ctx context.Context, page, pageSize int32) ([]domain.Activity, error) {
	offset := (page - 1) * pageSize
	return s.store.Repos().Activities.List(ctx, pageSize, offset)
}
