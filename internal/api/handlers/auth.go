package handlers

import (
	"errors"
	"net/http"

	"github.com/ramonehamilton/mtg-binder/internal/api/response"
)

// AuthURLSource builds the sign-in URL.
type AuthURLSource interface {
	AuthURL() (string, error)
}

// AuthHandler completes the redirect sign-in flow.
type AuthHandler struct {
	controller Controller
	authURL    AuthURLSource
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(controller Controller, authURL AuthURLSource) *AuthHandler {
	return &AuthHandler{controller: controller, authURL: authURL}
}

// ResumeRequest carries the fragment of the sign-in return URL.
type ResumeRequest struct {
	Fragment string `json:"fragment"`
}

// ResumeResponse reports which operation was resumed.
type ResumeResponse struct {
	Resumed string `json:"resumed"`
}

// Resume stores the returned token and replays a pending save.
func (h *AuthHandler) Resume(w http.ResponseWriter, r *http.Request) {
	var req ResumeRequest
	if err := decode(r, &req); err != nil {
		response.BadRequest(w, err)
		return
	}
	if req.Fragment == "" {
		response.BadRequest(w, errors.New("fragment is required"))
		return
	}

	op, err := h.controller.ResumeAuthorization(req.Fragment)
	if err != nil {
		response.BadRequest(w, err)
		return
	}
	response.Success(w, ResumeResponse{Resumed: string(op)})
}

// GetURL returns a sign-in URL for clients that navigate themselves.
func (h *AuthHandler) GetURL(w http.ResponseWriter, r *http.Request) {
	if h.authURL == nil {
		response.ServiceUnavailable(w, errors.New("sign-in is not configured"))
		return
	}
	u, err := h.authURL.AuthURL()
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, map[string]string{"url": u})
}

// callbackPage posts the URL fragment back to the API; fragments never
// reach the server on their own.
const callbackPage = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Signing in…</title></head>
<body>
<p id="status">Completing sign-in…</p>
<script>
fetch("/api/v1/auth/resume", {
  method: "POST",
  headers: {"Content-Type": "application/json"},
  body: JSON.stringify({fragment: window.location.hash})
}).then(function (r) {
  document.getElementById("status").textContent =
    r.ok ? "Signed in. You can close this tab." : "Sign-in failed.";
});
</script>
</body>
</html>
`

// Callback serves the page the sign-in provider redirects to.
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(callbackPage))
}
