package http

import (
	"net/http"
	"time"

	"campuslink-backend/internal/domain"
)

// CreateEvent handles POST /api/events (organization role)
func (h *Handlers) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string    `json:"title"`
		Description string    `json:"description"`
		Location    string    `json:"location"`
		StartTime   time.Time `json:"start_time"`
		EndTime     time.Time `json:"end_time"`
		Capacity    int32     `json:"capacity"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}
	if req.Title == "" || req.Capacity <= 0 || !req.EndTime.After(req.StartTime) {
		respondError(w, http.StatusBadRequest, "title, positive capacity and a valid time range are required", "BAD_REQUEST")
		return
	}
	claims, _ := claimsFromContext(r.Context())

	event := &domain.Event{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Capacity:    req.Capacity,
	}
	if err := h.events.Create(r.Context(), claims.UserID, event); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, event)
}

// GetEvent handles GET /api/events/{id}
func (h *Handlers) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid id", "BAD_REQUEST")
		return
	}
	event, err := h.events.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, event)
}

// ListUpcomingEvents handles GET /api/events
func (h *Handlers) ListUpcomingEvents(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	events, err := h.events.ListUpcoming(r.Context(), page, pageSize)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, events)
}

// ListMyEvents handles GET /api/organizations/events (organization role)
func (h *Handlers) ListMyEvents(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFromContext(r.Context())
	events, err := h.events.ListByOrg(r.Context(), claims.UserID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, events)
}

// JoinEvent handles POST /api/events/{id}/join (student role)
func (h *Handlers) JoinEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid id", "BAD_REQUEST")
		return
	}
	claims, _ := claimsFromContext(r.Context())

	if err := h.events.Join(r.Context(), claims.UserID, id); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "joined event"})
}

// LeaveEvent handles POST /api/events/{id}/leave (student role)
func (h *Handlers) LeaveEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid id", "BAD_REQUEST")
		return
	}
	claims, _ := claimsFromContext(r.Context())

	if err := h.events.Leave(r.Context(), claims.UserID, id); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "left event"})
}
