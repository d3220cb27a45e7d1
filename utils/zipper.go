package utils

import (
	"archive/zip"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ExportFile is one image to include in an export archive. When PromptText is
// non-empty a <stem>.txt entry with the prompt is written next to the image
// entry, the layout LoRA training tooling expects.
type ExportFile struct {
	SourcePath string
	PromptText string
}

// CreateExportZip builds a ZIP archive of the given files in saveDir.
// Returns: full path of the archive, size in bytes, error.
func CreateExportZip(files []ExportFile, saveDir, prefix string) (string, int64, error) {
	if len(files) == 0 {
		return "", 0, fmt.Errorf("no files to export")
	}

	if err := os.MkdirAll(saveDir, 0755); err != nil {
		return "", 0, fmt.Errorf("failed to create zip save directory %s: %w", saveDir, err)
	}

	timestamp := time.Now().Unix()
	archiveUUID, _ := uuid.NewRandom()
	zipFilename := fmt.Sprintf("%s_%d_%s.zip", prefix, timestamp, archiveUUID.String()[:8])
	zipFilePath := filepath.Join(saveDir, zipFilename)

	zipFile, err := os.Create(zipFilePath)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create zip file %s: %w", zipFilePath, err)
	}
	defer zipFile.Close()

	zipWriter := zip.NewWriter(zipFile)

	foundFiles := false
	for _, file := range files {
		name := filepath.Base(file.SourcePath)

		fileToZip, err := os.Open(file.SourcePath)
		if err != nil {
			log.Printf("zipper: Failed to open file %s for zipping: %v. Skipping.", file.SourcePath, err)
			continue
		}

		writer, err := zipWriter.Create(name)
		if err != nil {
			fileToZip.Close()
			log.Printf("zipper: Failed to create entry in zip for %s: %v. Skipping.", name, err)
			continue
		}

		_, err = io.Copy(writer, fileToZip)
		fileToZip.Close()
		if err != nil {
			log.Printf("zipper: Failed to write file %s to zip: %v. Skipping.", name, err)
			continue
		}
		foundFiles = true

		if file.PromptText != "" {
			stem := strings.TrimSuffix(name, filepath.Ext(name))
			promptWriter, err := zipWriter.Create(stem + ".txt")
			if err != nil {
				log.Printf("zipper: Failed to create prompt entry for %s: %v. Skipping.", name, err)
				continue
			}
			if _, err := io.WriteString(promptWriter, file.PromptText); err != nil {
				log.Printf("zipper: Failed to write prompt for %s: %v. Skipping.", name, err)
				continue
			}
		}
	}

	if !foundFiles {
		zipWriter.Close()
		zipFile.Close()
		os.Remove(zipFilePath)
		return "", 0, fmt.Errorf("none of the %d export files could be read", len(files))
	}

	if err := zipWriter.Close(); err != nil {
		return "", 0, fmt.Errorf("failed to finalize zip writer for %s: %w", zipFilePath, err)
	}

	zipInfo, err := os.Stat(zipFilePath)
	if err != nil {
		return "", 0, fmt.Errorf("failed to stat created zip file %s: %w", zipFilePath, err)
	}

	log.Printf("Successfully created export zip: %s (Size: %d bytes)", zipFilePath, zipInfo.Size())
	return zipFilePath, zipInfo.Size(), nil
}
