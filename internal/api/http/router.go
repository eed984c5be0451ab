package http

import (
	"net/http"
	"time"

	"campuslink-backend/internal/config"
	"campuslink-backend/internal/security"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
)

// NewRouter wires all routes with their middleware chains
func NewRouter(h *Handlers, tokens security.TokenManager, redisClient *redis.Client, cfg *config.Config) *mux.Router {
	r := mux.NewRouter()

	r.Use(loggingMiddleware)
	r.Use(timeoutMiddleware(time.Duration(cfg.Server.RequestTimeout) * time.Second))
	r.Use(rateLimitMiddleware(redisClient, cfg.RateLimit.MaxRequests,
		time.Duration(cfg.RateLimit.WindowSeconds)*time.Second))

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	// Public surface
	r.HandleFunc("/api/auth/register", h.RegisterOrganization).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/register-student", h.RegisterStudent).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/send-code", h.SendVerificationCode).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/verify-code", h.VerifyCode).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/login", h.Login).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/refresh", h.Refresh).Methods(http.MethodPost)
	r.HandleFunc("/api/events", h.ListUpcomingEvents).Methods(http.MethodGet)
	r.HandleFunc("/api/events/{id:[0-9]+}", h.GetEvent).Methods(http.MethodGet)
	r.HandleFunc("/api/organizations", h.ListOrganizations).Methods(http.MethodGet)
	r.HandleFunc("/api/files/{key:.+}", h.DownloadFile).Methods(http.MethodGet)

	auth := authMiddleware(tokens)

	// Admin surface
	admin := r.PathPrefix("/api/admin").Subrouter()
	admin.Use(auth)
	admin.HandleFunc("/pending-approvals", requireRole(security.RoleAdmin)(http.HandlerFunc(h.ListPendingApprovals)).ServeHTTP).Methods(http.MethodGet)
	admin.HandleFunc("/approve/{id:[0-9]+}", requireRole(security.RoleAdmin)(http.HandlerFunc(h.Approve)).ServeHTTP).Methods(http.MethodPost)
	admin.HandleFunc("/reject/{id:[0-9]+}", requireRole(security.RoleAdmin)(http.HandlerFunc(h.Reject)).ServeHTTP).Methods(http.MethodPost)
	admin.HandleFunc("/suspend-organization/{id:[0-9]+}", requireRole(security.RoleAdmin)(http.HandlerFunc(h.SuspendOrganization)).ServeHTTP).Methods(http.MethodPost)
	admin.HandleFunc("/settings", requireRole(security.RoleAdmin)(http.HandlerFunc(h.GetSettings)).ServeHTTP).Methods(http.MethodGet)
	admin.HandleFunc("/settings", requireRole(security.RoleAdmin)(http.HandlerFunc(h.UpdateSettings)).ServeHTTP).Methods(http.MethodPut)
	admin.HandleFunc("/activities", requireRole(security.RoleAdmin)(http.HandlerFunc(h.ListActivities)).ServeHTTP).Methods(http.MethodGet)
	// Resubmission sits under the admin prefix for historical client
	// compatibility but is an applicant (organization) action.
	admin.HandleFunc("/update-pending-file/{id:[0-9]+}", requireRole(security.RoleOrganization)(http.HandlerFunc(h.UpdatePendingApplication)).ServeHTTP).Methods(http.MethodPut)

	// Organization surface
	org := r.PathPrefix("/api/organizations").Subrouter()
	org.Use(auth)
	org.HandleFunc("/my-application/status", requireRole(security.RoleOrganization)(http.HandlerFunc(h.MyApplicationStatus)).ServeHTTP).Methods(http.MethodGet)
	org.HandleFunc("/events", requireRole(security.RoleOrganization)(http.HandlerFunc(h.ListMyEvents)).ServeHTTP).Methods(http.MethodGet)
	org.HandleFunc("/{id:[0-9]+}/follow", requireRole(security.RoleStudent)(http.HandlerFunc(h.FollowOrganization)).ServeHTTP).Methods(http.MethodPost)
	org.HandleFunc("/{id:[0-9]+}/unfollow", requireRole(security.RoleStudent)(http.HandlerFunc(h.UnfollowOrganization)).ServeHTTP).Methods(http.MethodPost)

	// Event actions
	events := r.PathPrefix("/api/events").Subrouter()
	events.Use(auth)
	events.HandleFunc("", requireRole(security.RoleOrganization)(http.HandlerFunc(h.CreateEvent)).ServeHTTP).Methods(http.MethodPost)
	events.HandleFunc("/{id:[0-9]+}/join", requireRole(security.RoleStudent)(http.HandlerFunc(h.JoinEvent)).ServeHTTP).Methods(http.MethodPost)
	events.HandleFunc("/{id:[0-9]+}/leave", requireRole(security.RoleStudent)(http.HandlerFunc(h.LeaveEvent)).ServeHTTP).Methods(http.MethodPost)

	// Student profile
	students := r.PathPrefix("/api/students").Subrouter()
	students.Use(auth)
	students.HandleFunc("/me", requireRole(security.RoleStudent)(http.HandlerFunc(h.GetStudentProfile)).ServeHTTP).Methods(http.MethodGet)

	// Notifications (organizations and students)
	notif := r.PathPrefix("/api").Subrouter()
	notif.Use(auth)
	notif.HandleFunc("/notifications", h.ListNotifications).Methods(http.MethodGet)
	notif.HandleFunc("/notifications/{id:[0-9]+}/read", h.MarkNotificationRead).Methods(http.MethodPost)
	notif.HandleFunc("/device-token", h.RegisterDeviceToken).Methods(http.MethodPost)

	return r
}
