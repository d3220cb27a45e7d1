package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/camden-git/cullsysbackend/library"
	"github.com/camden-git/cullsysbackend/lifecycle"
	"github.com/camden-git/cullsysbackend/models"
)

type ImageHandler struct {
	Locator *library.Locator
	Engine  *lifecycle.Engine
}

// listResponse wraps a catalog page with the total after filtering, so the
// client can paginate without a second request.
type listResponse struct {
	Location models.Location      `json:"location"`
	Total    int                  `json:"total"`
	Images   []models.ImageRecord `json:"images"`
}

func parseListOptions(r *http.Request) (library.ListOptions, bool) {
	opts := library.ListOptions{
		SortBy: library.DefaultSortOrder,
		Search: r.URL.Query().Get("search"),
	}

	if sortBy := r.URL.Query().Get("sort"); sortBy != "" {
		if !library.IsValidSortOrder(sortBy) {
			return opts, false
		}
		opts.SortBy = sortBy
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return opts, false
		}
		opts.Offset = n
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return opts, false
		}
		opts.Limit = n
	}
	return opts, true
}

func locationFromRequest(r *http.Request) (models.Location, bool) {
	raw := chi.URLParam(r, "location")
	if raw == "" {
		return models.LocationBase, true
	}
	return models.ParseLocation(raw)
}

// List serves the catalog for one lifecycle directory, sorted, filtered and
// windowed by query parameters.
func (h *ImageHandler) List(w http.ResponseWriter, r *http.Request) {
	loc, ok := locationFromRequest(r)
	if !ok {
		WriteAPIError(w, http.StatusBadRequest, "invalid_location", "location must be base, trash or picks")
		return
	}

	opts, ok := parseListOptions(r)
	if !ok {
		WriteAPIError(w, http.StatusBadRequest, "invalid_query", "invalid sort, offset or limit parameter")
		return
	}

	// total is counted with the window removed so clients can page
	windowed := opts
	opts.Offset, opts.Limit = 0, 0
	records, err := h.Locator.List(loc, opts)
	if err != nil {
		WriteEngineError(w, err)
		return
	}
	total := len(records)

	records, err = h.Locator.List(loc, windowed)
	if err != nil {
		WriteEngineError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, listResponse{Location: loc, Total: total, Images: records})
}

// ServeFile streams the image bytes themselves. The location in the URL is a
// hint for cache-friendly paths only; the file is re-resolved by filename so a
// stale client link still works after a move.
func (h *ImageHandler) ServeFile(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")

	loc, err := h.Engine.Locate(filename)
	if err != nil {
		WriteEngineError(w, err)
		return
	}

	path, err := h.Locator.Resolve(loc, filename)
	if err != nil {
		WriteEngineError(w, err)
		return
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		// vanished between locate and serve
		http.NotFound(w, r)
		return
	} else if err != nil {
		log.Printf("Error stating image file %s: %v", path, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "failed to stat image file")
		return
	}

	http.ServeFile(w, r, path)
}

func (h *ImageHandler) operation(w http.ResponseWriter, r *http.Request, op func(string) error, message string) {
	filename := chi.URLParam(r, "filename")
	if err := op(filename); err != nil {
		WriteEngineError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": message, "filename": filename})
}

func (h *ImageHandler) Trash(w http.ResponseWriter, r *http.Request) {
	h.operation(w, r, h.Engine.Trash, "Image moved to trash")
}

func (h *ImageHandler) Restore(w http.ResponseWriter, r *http.Request) {
	h.operation(w, r, h.Engine.Restore, "Image restored from trash")
}

func (h *ImageHandler) Pick(w http.ResponseWriter, r *http.Request) {
	h.operation(w, r, h.Engine.Pick, "Image moved to picks")
}

func (h *ImageHandler) Demote(w http.ResponseWriter, r *http.Request) {
	h.operation(w, r, h.Engine.Demote, "Image demoted to base")
}

func (h *ImageHandler) EmptyTrash(w http.ResponseWriter, r *http.Request) {
	if err := h.Engine.EraseAllTrash(); err != nil {
		WriteEngineError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "All images deleted from trash"})
}

type ratingPayload struct {
	Rating int `json:"rating"`
}

func (h *ImageHandler) SetRating(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")

	var payload ratingPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid request payload")
		return
	}

	if err := h.Engine.Rate(filename, payload.Rating); err != nil {
		WriteEngineError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Rating updated", "filename": filename})
}

// metadataPayload distinguishes absent fields from empty strings so a notes
// update can't clobber the prompt and vice versa.
type metadataPayload struct {
	Notes  *string `json:"notes"`
	Prompt *string `json:"prompt"`
}

func (h *ImageHandler) UpdateMetadata(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")

	var payload metadataPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid request payload")
		return
	}

	if payload.Notes != nil {
		if err := h.Engine.SetNotes(filename, *payload.Notes); err != nil {
			WriteEngineError(w, err)
			return
		}
	}
	if payload.Prompt != nil {
		if err := h.Engine.SetPrompt(filename, *payload.Prompt); err != nil {
			WriteEngineError(w, err)
			return
		}
	}

	WriteJSON(w, http.StatusOK, map[string]string{"message": "Metadata updated successfully", "filename": filename})
}
