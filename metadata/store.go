// Package metadata owns the per-image sidecar files: a JSON sidecar holding
// rating and notes, and a plain-text sidecar holding the training prompt.
// Sidecars are keyed by filename stem and always live in the base directory,
// regardless of which lifecycle directory currently holds the image itself, so
// moving an image never touches (and can never orphan) its metadata.
package metadata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/camden-git/cullsysbackend/config"
)

const (
	MetadataExt = ".json"
	PromptExt   = ".txt"
)

// Metadata is the on-disk schema of the JSON sidecar. Rating is nil when the
// image is unrated.
type Metadata struct {
	Rating *int   `json:"rating"`
	Notes  string `json:"notes"`
}

// Patch carries a partial metadata update. Nil fields are left untouched by
// Write.
type Patch struct {
	Rating *int
	Notes  *string
}

type Store struct {
	registry *config.Registry
}

func NewStore(registry *config.Registry) *Store {
	return &Store{registry: registry}
}

// Stem strips the extension from an image filename; sidecars are named
// <stem>.json and <stem>.txt.
func Stem(filename string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}

// IsSidecar reports whether a directory entry is a sidecar file rather than
// an image.
func IsSidecar(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == MetadataExt || ext == PromptExt
}

func (s *Store) sidecarPath(filename, ext string) (string, error) {
	base, err := s.registry.BaseDirectory()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, Stem(filename)+ext), nil
}

// Read returns the sidecar metadata for filename. A missing sidecar is not an
// error; it yields the defaults (unrated, empty notes). A sidecar that exists
// but cannot be parsed is an error.
func (s *Store) Read(filename string) (Metadata, error) {
	path, err := s.sidecarPath(filename, MetadataExt)
	if err != nil {
		return Metadata{}, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Metadata{}, nil
	}
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to read metadata sidecar %s: %w", path, err)
	}

	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return Metadata{}, fmt.Errorf("corrupt metadata sidecar %s: %w", path, err)
	}
	return meta, nil
}

// Write merges patch into the existing sidecar and writes it back, creating
// the sidecar if absent. Fields not present in the patch keep their current
// values. If the existing sidecar is unreadable or corrupt the write is
// rejected rather than overwriting with defaults.
func (s *Store) Write(filename string, patch Patch) error {
	meta, err := s.Read(filename)
	if err != nil {
		return err
	}

	if patch.Rating != nil {
		rating := *patch.Rating
		meta.Rating = &rating
	}
	if patch.Notes != nil {
		meta.Notes = *patch.Notes
	}

	path, err := s.sidecarPath(filename, MetadataExt)
	if err != nil {
		return err
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to encode metadata for %s: %w", filename, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write metadata sidecar %s: %w", path, err)
	}
	return nil
}

// ReadPrompt returns the prompt sidecar text, or "" when none exists.
func (s *Store) ReadPrompt(filename string) (string, error) {
	path, err := s.sidecarPath(filename, PromptExt)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read prompt sidecar %s: %w", path, err)
	}
	return string(data), nil
}

// WritePrompt overwrites the prompt sidecar wholesale; prompts have no
// sub-fields to merge.
func (s *Store) WritePrompt(filename, text string) error {
	path, err := s.sidecarPath(filename, PromptExt)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to write prompt sidecar %s: %w", path, err)
	}
	return nil
}

// DeleteAll removes both sidecars for filename. Already-missing sidecars are
// not an error; this is used during permanent erase.
func (s *Store) DeleteAll(filename string) error {
	for _, ext := range []string{MetadataExt, PromptExt} {
		path, err := s.sidecarPath(filename, ext)
		if err != nil {
			return err
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove sidecar %s: %w", path, err)
		}
	}
	return nil
}
