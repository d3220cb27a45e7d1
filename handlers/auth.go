package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/camden-git/cullsysbackend/auth"
)

type AuthHandler struct {
	Gate *auth.Gate
}

type TokenPayload struct {
	Secret string `json:"secret"`
}

type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IssueToken exchanges the shared secret for a short-lived bearer token. This
// is the only route that does not sit behind RequireAuth.
func (h *AuthHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var payload TokenPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid request payload")
		return
	}

	token, expiresAt, err := h.Gate.IssueToken(payload.Secret)
	if err != nil {
		// same generic response for every failure mode; don't leak which part
		// of the check failed
		WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Invalid secret")
		return
	}

	WriteJSON(w, http.StatusOK, TokenResponse{Token: token, ExpiresAt: expiresAt})
}
