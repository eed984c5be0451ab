package http

import (
	"net/http"
)

// GetStudentProfile handles GET /api/students/me (student role)
func (h *Handlers) GetStudentProfile(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFromContext(r.Context())
	student, err := h.students.GetProfile(r.Context(), claims.UserID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, student)
}

// ListOrganizations handles GET /api/organizations: the active-org directory
func (h *Handlers) ListOrganizations(w http.ResponseWriter, r *http.Request) {
	orgs, err := h.students.ListOrganizations(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, orgs)
}

// FollowOrganization handles POST /api/organizations/{id}/follow (student role)
func (h *Handlers) FollowOrganization(w http.ResponseWriter, r *http.Request) {
	orgID, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid id", "BAD_REQUEST")
		return
	}
	claims, _ := claimsFromContext(r.Context())

	if err := h.students.Follow(r.Context(), claims.UserID, orgID); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "following organization"})
}

// UnfollowOrganization handles POST /api/organizations/{id}/unfollow (student role)
func (h *Handlers) UnfollowOrganization(w http.ResponseWriter, r *http.Request) {
	orgID, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid id", "BAD_REQUEST")
		return
	}
	claims, _ := claimsFromContext(r.Context())

	if err := h.students.Unfollow(r.Context(), claims.UserID, orgID); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "unfollowed organization"})
}
