package http

import (
	"net/http"
	"strconv"

	"campuslink-backend/internal/domain"
	"campuslink-backend/internal/service"
)

const maxMultipartMemory = 32 << 20 // 32 MB

// organizationRegistrationFromForm reads the multipart registration form
func organizationRegistrationFromForm(r *http.Request) (service.OrganizationRegistration, *service.UploadedFile, error) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		return service.OrganizationRegistration{}, nil, err
	}

	members, _ := strconv.ParseInt(r.FormValue("members"), 10, 32)
	reg := service.OrganizationRegistration{
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
		GoogleID: r.FormValue("google_id"),
		Data: domain.RegistrationData{
			Name:        r.FormValue("name"),
			Type:        r.FormValue("type"),
			Description: r.FormValue("description"),
			President:   r.FormValue("president"),
			Founded:     r.FormValue("founded"),
			Members:     int32(members),
			Website:     r.FormValue("website"),
			SocialMedia: r.FormValue("social_media"),
		},
	}

	file, header, err := r.FormFile("verification_file")
	if err == http.ErrMissingFile {
		return reg, nil, nil
	}
	if err != nil {
		return service.OrganizationRegistration{}, nil, err
	}
	return reg, &service.UploadedFile{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Reader:      file,
	}, nil
}

// RegisterOrganization handles POST /api/auth/register
func (h *Handlers) RegisterOrganization(w http.ResponseWriter, r *http.Request) {
	reg, file, err := organizationRegistrationFromForm(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid registration form", "BAD_REQUEST")
		return
	}

	approval, err := h.auth.RegisterOrganization(r.Context(), reg, file)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"approval_id": approval.ID,
		"status":      approval.Status,
	})
}

// RegisterStudent handles POST /api/auth/register-student
func (h *Handlers) RegisterStudent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Name     string `json:"name"`
		Password string `json:"password"`
		GoogleID string `json:"google_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}

	student, pair, err := h.auth.RegisterStudent(r.Context(), service.StudentRegistration{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
		GoogleID: req.GoogleID,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"student": student,
		"tokens":  pair,
	})
}

// SendVerificationCode handles POST /api/auth/send-code
func (h *Handlers) SendVerificationCode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}

	if err := h.verification.SendCode(r.Context(), req.Email); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "verification code sent"})
}

// VerifyCode handles POST /api/auth/verify-code
func (h *Handlers) VerifyCode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}

	if err := h.verification.VerifyCode(r.Context(), req.Email, req.Code); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "email verified"})
}

// Login handles POST /api/auth/login
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}

	pair, role, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"tokens": pair,
		"role":   role,
	})
}

// Refresh handles POST /api/auth/refresh
func (h *Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}

	pair, err := h.auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, pair)
}
