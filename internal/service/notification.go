package service

import (
	"context"

	"campuslink-backend/internal/domain"
	"campuslink-backend/internal/repository"
)

type notificationService struct {
	store repository.Store
}

func NewNotificationService(store repository.Store) NotificationService {
	return &notificationService{store: store}
}

func (s *notificationService) List(ctx context.Context, rt domain.RecipientType, recipientID int32, page, pageSize int32) ([]domain.Notification, int32, error) {
	offset := (page - 1) * pageSize
	return s.store.Repos().Notifications.ListByRecipient(ctx, rt, recipientID, pageSize, offset)
}

func (s *notificationService) MarkAsRead(ctx context.Context, rt domain.RecipientType, recipientID, notificationID int32) error {
	return s.store.Repos().Notifications.MarkAsRead(ctx, notificationID, rt, recipientID)
}

func (s *notificationService) RegisterDeviceToken(ctx context.Context, rt domain.RecipientType, recipientID int32, token string) error {
	if rt == domain.RecipientOrganization {
		return s.store.Repos().Organizations.SetDeviceToken(ctx, recipientID, token)
	}
	return s.store.Repos().Students.SetDeviceToken(ctx, recipientID, token)
}
