package http

import (
	"net/http"
	"time"

	"campuslink-backend/internal/domain"
)

// ListPendingApprovals handles GET /api/admin/pending-approvals. The list
// mixes open approval tickets with suspended organizations awaiting review.
func (h *Handlers) ListPendingApprovals(w http.ResponseWriter, r *http.Request) {
	items, stats, err := h.approvals.ListReview(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
		"stats": stats,
	})
}

// Approve handles POST /api/admin/approve/{id}
func (h *Handlers) Approve(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid id", "BAD_REQUEST")
		return
	}
	claims, _ := claimsFromContext(r.Context())

	approval, err := h.approvals.Approve(r.Context(), claims.Email, id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, approval)
}

// Reject handles POST /api/admin/reject/{id}
func (h *Handlers) Reject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid id", "BAD_REQUEST")
		return
	}

	var req struct {
		Reason               string     `json:"reason"`
		AllowResubmission    bool       `json:"allow_resubmission"`
		ResubmissionDeadline *time.Time `json:"resubmission_deadline"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}
	claims, _ := claimsFromContext(r.Context())

	if err := h.approvals.Reject(r.Context(), claims.Email, id, req.Reason, req.AllowResubmission, req.ResubmissionDeadline); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "application rejected"})
}

// SuspendOrganization handles POST /api/admin/suspend-organization/{id}
func (h *Handlers) SuspendOrganization(w http.ResponseWriter, r *http.Request) {
	orgID, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid id", "BAD_REQUEST")
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}
	claims, _ := claimsFromContext(r.Context())

	if err := h.approvals.Suspend(r.Context(), claims.Email, orgID, req.Reason); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "organization suspended"})
}

// GetSettings handles GET /api/admin/settings
func (h *Handlers) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.Get(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, settings)
}

// UpdateSettings handles PUT /api/admin/settings
func (h *Handlers) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var settings domain.Settings
	if err := decodeJSON(r, &settings); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}

	if err := h.settings.Update(r.Context(), &settings); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, settings)
}

// ListActivities handles GET /api/admin/activities
func (h *Handlers) ListActivities(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	activities, err := h.activities.List(r.Context(), page, pageSize)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, activities)
}
