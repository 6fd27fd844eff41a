package sheets

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrAuthorizationRequired means no valid bearer token is cached and the
// redirect flow has been started.
var ErrAuthorizationRequired = errors.New("authorization required")

// APIError is a non-2xx response from the Sheets API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("sheets API error (HTTP %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("sheets API error (HTTP %d): %s", e.Status, http.StatusText(e.Status))
}

func newAPIError(status int, body []byte) *APIError {
	var envelope struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
			Status  string `json:"status"`
		} `json:"error"`
	}
	apiErr := &APIError{Status: status}
	if err := json.Unmarshal(body, &envelope); err == nil {
		apiErr.Message = envelope.Error.Message
	}
	return apiErr
}

// IsUnauthorized reports whether err is a 401 from the Sheets API, meaning
// the bearer token was revoked or has expired upstream.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// AuthRedirectError is returned when a token must be obtained through the
// browser. URL is where the user was sent.
type AuthRedirectError struct {
	URL string
}

func (e *AuthRedirectError) Error() string {
	return "authorization required: complete sign-in in the browser, then retry"
}

func (e *AuthRedirectError) Unwrap() error { return ErrAuthorizationRequired }

// IsAuthorizationRequired reports whether err stems from a missing token.
func IsAuthorizationRequired(err error) bool {
	return errors.Is(err, ErrAuthorizationRequired)
}
