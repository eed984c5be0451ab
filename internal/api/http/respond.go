package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"campuslink-backend/internal/logger"
	"campuslink-backend/internal/repository"
	"campuslink-backend/internal/security"
	"campuslink-backend/internal/service"
	"campuslink-backend/internal/verification"
)

// successEnvelope wraps every successful response body
type successEnvelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
}

// errorEnvelope wraps every error response body
type errorEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(successEnvelope{Success: true, Data: data}); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorEnvelope{Success: false, Message: message, Code: code})
}

// respondServiceError maps service and repository sentinel errors onto HTTP
// statuses. Anything unmapped is a 500 with a generic body; the detail goes
// to the log only.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		respondError(w, http.StatusNotFound, "resource not found", "NOT_FOUND")
	case errors.Is(err, repository.ErrCapacityReached):
		respondError(w, http.StatusConflict, "event is at capacity", "CAPACITY_REACHED")
	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, "invalid email or password", "INVALID_CREDENTIALS")
	case errors.Is(err, service.ErrInvalidToken), errors.Is(err, security.ErrInvalidToken):
		respondError(w, http.StatusUnauthorized, "invalid token", "INVALID_TOKEN")
	case errors.Is(err, security.ErrExpiredToken):
		respondError(w, http.StatusUnauthorized, "token has expired", "TOKEN_EXPIRED")
	case errors.Is(err, security.ErrWrongTokenType):
		respondError(w, http.StatusUnauthorized, "access token required", "WRONG_TOKEN_TYPE")
	case errors.Is(err, service.ErrEmailTaken):
		respondError(w, http.StatusBadRequest, "email already registered", "EMAIL_TAKEN")
	case errors.Is(err, service.ErrInvalidEmail):
		respondError(w, http.StatusBadRequest, "email address is not valid", "INVALID_EMAIL")
	case errors.Is(err, service.ErrMissingCredential):
		respondError(w, http.StatusBadRequest, "exactly one of password or google account is required", "MISSING_CREDENTIAL")
	case errors.Is(err, service.ErrRegistrationClosed):
		respondError(w, http.StatusForbidden, "registration is currently closed", "REGISTRATION_CLOSED")
	case errors.Is(err, service.ErrMaintenanceMode):
		respondError(w, http.StatusServiceUnavailable, "platform is in maintenance mode", "MAINTENANCE")
	case errors.Is(err, service.ErrFileTooLarge):
		respondError(w, http.StatusRequestEntityTooLarge, "verification file exceeds the size limit", "FILE_TOO_LARGE")
	case errors.Is(err, service.ErrReasonRequired):
		respondError(w, http.StatusBadRequest, "rejection reason is required", "REASON_REQUIRED")
	case errors.Is(err, service.ErrDeadlineNotFuture):
		respondError(w, http.StatusBadRequest, "resubmission deadline must be in the future", "INVALID_DEADLINE")
	case errors.Is(err, service.ErrNotRejected):
		respondError(w, http.StatusConflict, "application is not in rejected state", "NOT_REJECTED")
	case errors.Is(err, service.ErrResubmissionClosed):
		respondError(w, http.StatusForbidden, "resubmission window has closed", "RESUBMISSION_CLOSED")
	case errors.Is(err, service.ErrOrgNotActive):
		respondError(w, http.StatusConflict, "organization is not active", "ORG_NOT_ACTIVE")
	case errors.Is(err, verification.ErrCodeMismatch):
		respondError(w, http.StatusBadRequest, "verification code does not match", "CODE_MISMATCH")
	case errors.Is(err, verification.ErrCodeExpired):
		respondError(w, http.StatusBadRequest, "verification code expired or never issued", "CODE_EXPIRED")
	case errors.Is(err, verification.ErrNotVerified):
		respondError(w, http.StatusForbidden, "email has not completed verification", "NOT_VERIFIED")
	default:
		logger.Error("Unhandled service error", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error", "INTERNAL")
	}
}

// decodeJSON reads a JSON request body into dst
func decodeJSON(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	return dec.Decode(dst)
}
