// Package response writes the JSON envelopes every handler answers with:
// {"data": ...} on success and {"error", "message", "code"} on failure.
package response

import (
	"encoding/json"
	"net/http"
)

// Envelope wraps a successful payload.
type Envelope struct {
	Data interface{} `json:"data"`
}

// Failure is the error body. AuthURL is set when the request needs the
// user to sign in before it can succeed.
type Failure struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
	AuthURL string `json:"auth_url,omitempty"`
}

// encodeFailed is sent when v cannot be marshalled.
var encodeFailed = []byte(`{"error":"Internal Server Error","message":"failed to encode response","code":500}`)

// JSON encodes v before touching the header, so an encoding failure still
// yields a well-formed 500.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		status, body = http.StatusInternalServerError, encodeFailed
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

// Success writes 200 with data in the envelope.
func Success(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusOK, Envelope{Data: data})
}

// Created writes 201 with data in the envelope.
func Created(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusCreated, Envelope{Data: data})
}

// NoContent writes 204.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error writes a failure body for status. A nil err leaves Message empty.
func Error(w http.ResponseWriter, status int, err error) {
	JSON(w, status, failure(status, err))
}

func failure(status int, err error) Failure {
	f := Failure{Error: http.StatusText(status), Code: status}
	if err != nil {
		f.Message = err.Error()
	}
	return f
}

func BadRequest(w http.ResponseWriter, err error)         { Error(w, http.StatusBadRequest, err) }
func NotFound(w http.ResponseWriter, err error)           { Error(w, http.StatusNotFound, err) }
func InternalError(w http.ResponseWriter, err error)      { Error(w, http.StatusInternalServerError, err) }
func ServiceUnavailable(w http.ResponseWriter, err error) { Error(w, http.StatusServiceUnavailable, err) }

// BadGateway reports a failure from the spreadsheet or a card data service.
func BadGateway(w http.ResponseWriter, err error) { Error(w, http.StatusBadGateway, err) }

// Unauthorized writes 401. authURL, when known, is where the client should
// send the user to sign in; the interrupted save resumes after the redirect.
func Unauthorized(w http.ResponseWriter, err error, authURL string) {
	f := failure(http.StatusUnauthorized, err)
	f.AuthURL = authURL
	JSON(w, http.StatusUnauthorized, f)
}
