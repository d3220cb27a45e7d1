package handlers

import (
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/camden-git/cullsysbackend/config"
	"github.com/camden-git/cullsysbackend/library"
	"github.com/camden-git/cullsysbackend/models"
	"github.com/camden-git/cullsysbackend/utils"
)

type ExportHandler struct {
	Registry *config.Registry
	Locator  *library.Locator
}

// Prompts exports every image (base and picks) that has a non-empty prompt,
// pairing each image with a <stem>.txt entry containing its prompt. Trash is
// deliberately excluded.
func (h *ExportHandler) Prompts(w http.ResponseWriter, r *http.Request) {
	var files []utils.ExportFile
	for _, loc := range []models.Location{models.LocationBase, models.LocationPicks} {
		records, err := h.Locator.List(loc, library.ListOptions{})
		if err != nil {
			WriteEngineError(w, err)
			return
		}
		dir, err := h.Registry.DirectoryFor(loc)
		if err != nil {
			WriteEngineError(w, err)
			return
		}
		for _, rec := range records {
			if rec.Prompt == "" {
				continue
			}
			files = append(files, utils.ExportFile{
				SourcePath: filepath.Join(dir, rec.Filename),
				PromptText: rec.Prompt,
			})
		}
	}

	if len(files) == 0 {
		WriteAPIError(w, http.StatusNotFound, "nothing_to_export", "no images with prompts found")
		return
	}

	h.serveZip(w, r, files, "exported_prompts")
}

// Picks exports the entire picks directory as a flat archive.
func (h *ExportHandler) Picks(w http.ResponseWriter, r *http.Request) {
	records, err := h.Locator.List(models.LocationPicks, library.ListOptions{})
	if err != nil {
		WriteEngineError(w, err)
		return
	}
	if len(records) == 0 {
		WriteAPIError(w, http.StatusNotFound, "nothing_to_export", "picks directory is empty")
		return
	}

	picksDir, err := h.Registry.PicksDirectory()
	if err != nil {
		WriteEngineError(w, err)
		return
	}

	files := make([]utils.ExportFile, 0, len(records))
	for _, rec := range records {
		files = append(files, utils.ExportFile{SourcePath: filepath.Join(picksDir, rec.Filename)})
	}

	h.serveZip(w, r, files, "exported_picks")
}

// serveZip builds the archive in a throwaway temp directory, streams it as an
// attachment and cleans up afterwards.
func (h *ExportHandler) serveZip(w http.ResponseWriter, r *http.Request, files []utils.ExportFile, name string) {
	tmpDir, err := os.MkdirTemp("", "cullsys_export_")
	if err != nil {
		log.Printf("Error creating export temp directory: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "export_failed", "failed to create export directory")
		return
	}
	defer os.RemoveAll(tmpDir)

	zipPath, _, err := utils.CreateExportZip(files, tmpDir, name)
	if err != nil {
		log.Printf("Error building export zip: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "export_failed", "failed to build export archive")
		return
	}

	w.Header().Set("Content-Disposition", "attachment; filename="+name+".zip")
	w.Header().Set("Content-Type", "application/zip")
	http.ServeFile(w, r, zipPath)
}
