package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/camden-git/cullsysbackend/lifecycle"
	"github.com/camden-git/cullsysbackend/models"
)

// APIErrorDetail represents a single error in the standardized error response.
type APIErrorDetail struct {
	Code   string `json:"code"`
	Status string `json:"status"`
	Detail string `json:"detail"`
}

// APIErrorResponse represents the standardized error response body.
type APIErrorResponse struct {
	Errors []APIErrorDetail `json:"errors"`
}

// WriteAPIError writes a standardized error response with the given HTTP status, code, and detail.
func WriteAPIError(w http.ResponseWriter, httpStatus int, code string, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)

	resp := APIErrorResponse{
		Errors: []APIErrorDetail{
			{
				Code:   code,
				Status: strconv.Itoa(httpStatus),
				Detail: detail,
			},
		},
	}

	_ = json.NewEncoder(w).Encode(resp)
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, httpStatus int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteEngineError translates the engine/registry error taxonomy into the
// standardized error response.
func WriteEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrImageNotFound):
		WriteAPIError(w, http.StatusNotFound, "image_not_found", err.Error())
	case errors.Is(err, models.ErrNotConfigured):
		WriteAPIError(w, http.StatusNotFound, "not_configured", err.Error())
	case errors.Is(err, models.ErrInvalidPath):
		WriteAPIError(w, http.StatusBadRequest, "invalid_path", err.Error())
	case errors.Is(err, lifecycle.ErrInvalidRating):
		WriteAPIError(w, http.StatusBadRequest, "invalid_rating", err.Error())
	case errors.Is(err, models.ErrUnauthorized):
		WriteAPIError(w, http.StatusUnauthorized, "unauthorized", err.Error())
	case errors.Is(err, models.ErrLocationConflict):
		// external interference left the same filename in several lifecycle
		// directories; surface it loudly instead of guessing a precedence
		WriteAPIError(w, http.StatusInternalServerError, "location_conflict", err.Error())
	default:
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
