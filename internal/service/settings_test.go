package service

import (
	"context"
	"testing"

	"campuslink-backend/internal/domain"
	"campuslink-backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestSettingsGet_DefaultsWhenUnset(t *testing.T) {
	store, repos := newMockStore()
	svc := NewSettingsService(store)

	repos.settings.On("Get", mock.Anything).Return(nil, repository.ErrNotFound)

	settings, err := svc.Get(context.Background())

	assert.NoError(t, err)
	assert.True(t, settings.AllowRegistration)
	assert.True(t, settings.RequireApproval)
	assert.Equal(t, int64(10), settings.MaxFileSizeMB)
}

func TestSettingsUpdate(t *testing.T) {
	store, repos := newMockStore()
	svc := NewSettingsService(store)

	updated := &domain.Settings{AllowRegistration: false, RequireApproval: true, MaxFileSizeMB: 5}
	repos.settings.On("Update", mock.Anything, updated).Return(nil)

	assert.NoError(t, svc.Update(context.Background(), updated))
	repos.settings.AssertExpectations(t)
}

func TestNotificationService_RegisterDeviceToken_DispatchesByRecipient(t *testing.T) {
	store, repos := newMockStore()
	svc := NewNotificationService(store)

	repos.orgs.On("SetDeviceToken", mock.Anything, int32(3), "org-token").Return(nil)
	repos.students.On("SetDeviceToken", mock.Anything, int32(10), "student-token").Return(nil)

	assert.NoError(t, svc.RegisterDeviceToken(context.Background(), domain.RecipientOrganization, 3, "org-token"))
	assert.NoError(t, svc.RegisterDeviceToken(context.Background(), domain.RecipientStudent, 10, "student-token"))
	repos.orgs.AssertExpectations(t)
	repos.students.AssertExpectations(t)
}

func TestActivityService_ListPaginates(t *testing.T) {
	store, repos := newMockStore()
	svc := NewActivityService(store)

	repos.activities.On("List", mock.Anything, int32(50), int32(50)).Return([]domain.Activity{}, nil)

	_, err := svc.List(context.Background(), 2, 50)

	assert.NoError(t, err)
	repos.activities.AssertExpectations(t)
}
