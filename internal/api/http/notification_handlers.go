package http

import (
	"net/http"

	"campuslink-backend/internal/domain"
	"campuslink-backend/internal/security"
)

// recipientFromClaims maps the authenticated role onto a notification
// recipient. Admin tokens have no notification inbox.
func recipientFromClaims(claims *security.UserClaims) (domain.RecipientType, bool) {
	switch claims.Role {
	case security.RoleOrganization:
		return domain.RecipientOrganization, true
	case security.RoleStudent:
		return domain.RecipientStudent, true
	}
	return "", false
}

// ListNotifications handles GET /api/notifications
func (h *Handlers) ListNotifications(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFromContext(r.Context())
	recipientType, ok := recipientFromClaims(claims)
	if !ok {
		respondError(w, http.StatusForbidden, "no notification inbox for this role", "FORBIDDEN")
		return
	}

	page, pageSize := pagination(r)
	notifications, unread, err := h.notifications.List(r.Context(), recipientType, claims.UserID, page, pageSize)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"notifications": notifications,
		"unread_count":  unread,
	})
}

// MarkNotificationRead handles POST /api/notifications/{id}/read
func (h *Handlers) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid id", "BAD_REQUEST")
		return
	}
	claims, _ := claimsFromContext(r.Context())
	recipientType, ok := recipientFromClaims(claims)
	if !ok {
		respondError(w, http.StatusForbidden, "no notification inbox for this role", "FORBIDDEN")
		return
	}

	if err := h.notifications.MarkAsRead(r.Context(), recipientType, claims.UserID, id); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "notification marked as read"})
}

// RegisterDeviceToken handles POST /api/device-token: stores the FCM token
// the push dispatcher will deliver to
func (h *Handlers) RegisterDeviceToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if err := decodeJSON(r, &req); err != nil || req.Token == "" {
		respondError(w, http.StatusBadRequest, "device token is required", "BAD_REQUEST")
		return
	}

	claims, _ := claimsFromContext(r.Context())
	recipientType, ok := recipientFromClaims(claims)
	if !ok {
		respondError(w, http.StatusForbidden, "no device registration for this role", "FORBIDDEN")
		return
	}

	if err := h.notifications.RegisterDeviceToken(r.Context(), recipientType, claims.UserID, req.Token); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "device token registered"})
}
