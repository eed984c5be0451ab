package http

import (
	"net/http"
	"strconv"

	"campuslink-backend/internal/service"
	"campuslink-backend/internal/storage"

	"github.com/gorilla/mux"
)

// Handlers bundles the HTTP handlers over the service layer
type Handlers struct {
	auth          service.AuthService
	verification  service.VerificationService
	approvals     service.ApprovalService
	students      service.StudentService
	events        service.EventService
	notifications service.NotificationService
	settings      service.SettingsService
	activities    service.ActivityService
	storage       storage.StorageInterface
}

func NewHandlers(
	auth service.AuthService,
	verification service.VerificationService,
	approvals service.ApprovalService,
	students service.StudentService,
	events service.EventService,
	notifications service.NotificationService,
	settings service.SettingsService,
	activities service.ActivityService,
	store storage.StorageInterface,
) *Handlers {
	return &Handlers{
		auth:          auth,
		verification:  verification,
		approvals:     approvals,
		students:      students,
		events:        events,
		notifications: notifications,
		settings:      settings,
		activities:    activities,
		storage:       store,
	}
}

// pathID reads an int32 path variable
func pathID(r *http.Request, name string) (int32, bool) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, false
	}
	return int32(id), true
}

// pagination reads page/page_size query params with sane bounds
func pagination(r *http.Request) (page, pageSize int32) {
	page, pageSize = 1, 20
	if raw := r.URL.Query().Get("page"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 32); err == nil && v > 0 {
			page = int32(v)
		}
	}
	if raw := r.URL.Query().Get("page_size"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 32); err == nil && v > 0 && v <= 100 {
			pageSize = int32(v)
		}
	}
	return page, pageSize
}
