package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/camden-git/cullsysbackend/config"
	"github.com/camden-git/cullsysbackend/models"
)

type SettingsHandler struct {
	Registry *config.Registry
}

// settingsResponse exposes the base directory only; the auth secret never
// leaves the server.
type settingsResponse struct {
	BaseDirectory string `json:"base_directory"`
	Configured    bool   `json:"configured"`
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	base, err := h.Registry.BaseDirectory()
	if err != nil && !errors.Is(err, models.ErrNotConfigured) {
		WriteEngineError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, settingsResponse{BaseDirectory: base, Configured: err == nil})
}

type baseDirectoryPayload struct {
	Path string `json:"path"`
}

func (h *SettingsHandler) SetBaseDirectory(w http.ResponseWriter, r *http.Request) {
	var payload baseDirectoryPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid request payload")
		return
	}
	if payload.Path == "" {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "path is required")
		return
	}

	if err := h.Registry.SetBaseDirectory(payload.Path); err != nil {
		WriteEngineError(w, err)
		return
	}

	base, _ := h.Registry.BaseDirectory()
	WriteJSON(w, http.StatusOK, settingsResponse{BaseDirectory: base, Configured: true})
}
