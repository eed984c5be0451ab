package http

import (
	"net/http"
	"strconv"

	"campuslink-backend/internal/service"
)

// MyApplicationStatus handles GET /api/organizations/my-application/status.
// The application is looked up by the authenticated email, so an applicant
// can only ever see their own ticket.
func (h *Handlers) MyApplicationStatus(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFromContext(r.Context())

	approval, err := h.approvals.StatusByEmail(r.Context(), claims.Email)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, approval)
}

// UpdatePendingApplication handles PUT /api/admin/update-pending-file/{id}:
// a rejected applicant resubmits with amended fields and, optionally, a
// replacement verification file. Absent fields keep their previous values.
func (h *Handlers) UpdatePendingApplication(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid id", "BAD_REQUEST")
		return
	}
	claims, _ := claimsFromContext(r.Context())

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		respondError(w, http.StatusBadRequest, "invalid form", "BAD_REQUEST")
		return
	}

	update := service.RegistrationUpdate{
		Name:        formValuePtr(r, "name"),
		Type:        formValuePtr(r, "type"),
		Description: formValuePtr(r, "description"),
		President:   formValuePtr(r, "president"),
		Founded:     formValuePtr(r, "founded"),
		Website:     formValuePtr(r, "website"),
		SocialMedia: formValuePtr(r, "social_media"),
	}
	if raw := formValuePtr(r, "members"); raw != nil {
		v, err := strconv.ParseInt(*raw, 10, 32)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid members count", "BAD_REQUEST")
			return
		}
		members := int32(v)
		update.Members = &members
	}

	var upload *service.UploadedFile
	file, header, err := r.FormFile("verification_file")
	if err == nil {
		upload = &service.UploadedFile{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Reader:      file,
		}
	} else if err != http.ErrMissingFile {
		respondError(w, http.StatusBadRequest, "invalid verification file", "BAD_REQUEST")
		return
	}

	approval, err := h.approvals.Resubmit(r.Context(), claims.Email, id, update, upload)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, approval)
}

// formValuePtr returns the form value if the field was submitted, nil if not
func formValuePtr(r *http.Request, name string) *string {
	values, ok := r.MultipartForm.Value[name]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}
