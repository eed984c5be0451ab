package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"campuslink-backend/internal/security"
	"campuslink-backend/internal/service"

	"github.com/stretchr/testify/assert"
)

func TestRespondServiceError_EmailTakenIsBadRequest(t *testing.T) {
	rec := httptest.NewRecorder()

	respondServiceError(rec, service.ErrEmailTaken)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, false, envelope["success"])
	assert.Equal(t, "EMAIL_TAKEN", envelope["code"])
	assert.Equal(t, "email already registered", envelope["message"])
}

func TestRespondServiceError_WrongTokenType(t *testing.T) {
	rec := httptest.NewRecorder()

	respondServiceError(rec, security.ErrWrongTokenType)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, "WRONG_TOKEN_TYPE", envelope["code"])
}
