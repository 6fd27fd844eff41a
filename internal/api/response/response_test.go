package response

import (
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuccess_WrapsData(t *testing.T) {
	rec := httptest.NewRecorder()
	Success(rec, map[string]int{"quantity": 2})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"data":{"quantity":2}}`, rec.Body.String())
}

func TestError_Statuses(t *testing.T) {
	tests := []struct {
		name   string
		write  func(http.ResponseWriter, error)
		status int
	}{
		{"bad request", BadRequest, http.StatusBadRequest},
		{"not found", NotFound, http.StatusNotFound},
		{"internal", InternalError, http.StatusInternalServerError},
		{"bad gateway", BadGateway, http.StatusBadGateway},
		{"unavailable", ServiceUnavailable, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.write(rec, errors.New("boom"))

			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), `"message":"boom"`)
			assert.NotContains(t, rec.Body.String(), "auth_url")
		})
	}
}

func TestUnauthorized_CarriesSignInURL(t *testing.T) {
	rec := httptest.NewRecorder()
	Unauthorized(rec, errors.New("sign-in required"), "https://accounts.example/auth?state=abc")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{
		"error": "Unauthorized",
		"message": "sign-in required",
		"code": 401,
		"auth_url": "https://accounts.example/auth?state=abc"
	}`, rec.Body.String())
}

func TestJSON_EncodeFailureIsInternalError(t *testing.T) {
	rec := httptest.NewRecorder()
	Success(rec, math.Inf(1))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":500`)
}

func TestNoContent(t *testing.T) {
	rec := httptest.NewRecorder()
	NoContent(rec)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}
