package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/camden-git/cullsysbackend/models"
)

// Settings is the on-disk schema of the settings file.
type Settings struct {
	BaseDirectory string `json:"base_directory"`
	AuthSecret    string `json:"auth_secret"`
}

// Registry owns the persisted settings and the lifecycle directory paths
// derived from them. It is safe for concurrent use; writes go through an
// all-or-nothing temp-file-then-rename replace so a crash mid-write never
// leaves a corrupt settings file.
type Registry struct {
	path string

	mu       sync.RWMutex
	settings Settings
}

// LoadRegistry reads the settings file at path. On first run (no file yet) it
// seeds the settings from the BASE_DIR and AUTH_SECRET environment variables
// and persists them immediately.
func LoadRegistry(path string) (*Registry, error) {
	r := &Registry{path: path}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		r.settings = Settings{
			BaseDirectory: os.Getenv("BASE_DIR"),
			AuthSecret:    os.Getenv("AUTH_SECRET"),
		}
		if r.settings.BaseDirectory != "" {
			abs, err := filepath.Abs(r.settings.BaseDirectory)
			if err != nil {
				return nil, fmt.Errorf("failed to get absolute path for base directory '%s': %w", r.settings.BaseDirectory, err)
			}
			r.settings.BaseDirectory = abs
		}
		log.Printf("No settings file at %s, seeding from environment", path)
		if err := r.save(); err != nil {
			return nil, err
		}
		return r, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file %s: %w", path, err)
	}

	if err := json.Unmarshal(data, &r.settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}
	return r, nil
}

// save writes the settings to a temp file in the same directory and renames it
// over the target. Callers must hold mu (or be the only goroutine, as during
// load).
func (r *Registry) save() error {
	data, err := json.MarshalIndent(r.settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create settings directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".settings-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp settings file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp settings file %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp settings file %s: %w", tmpName, err)
	}

	if err := os.Rename(tmpName, r.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace settings file %s: %w", r.path, err)
	}
	return nil
}

// BaseDirectory returns the configured base directory, or ErrNotConfigured if
// none has been set yet.
func (r *Registry) BaseDirectory() (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.settings.BaseDirectory == "" {
		return "", models.ErrNotConfigured
	}
	return r.settings.BaseDirectory, nil
}

// SetBaseDirectory validates that path exists and is a directory, then
// persists it. Subsequent reads reflect the change immediately.
func (r *Registry) SetBaseDirectory(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for '%s': %w", path, models.ErrInvalidPath)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("'%s' does not exist: %w", abs, models.ErrInvalidPath)
	}
	if !info.IsDir() {
		return fmt.Errorf("'%s' is not a directory: %w", abs, models.ErrInvalidPath)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	previous := r.settings.BaseDirectory
	r.settings.BaseDirectory = abs
	if err := r.save(); err != nil {
		r.settings.BaseDirectory = previous
		return err
	}
	log.Printf("Base directory set to %s", abs)
	return nil
}

// TrashDirectory returns <base>/trash.
func (r *Registry) TrashDirectory() (string, error) {
	base, err := r.BaseDirectory()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, TrashDirName), nil
}

// PicksDirectory returns <base>/picks.
func (r *Registry) PicksDirectory() (string, error) {
	base, err := r.BaseDirectory()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, PicksDirName), nil
}

// DirectoryFor resolves the physical directory backing a lifecycle location.
func (r *Registry) DirectoryFor(loc models.Location) (string, error) {
	switch loc {
	case models.LocationBase:
		return r.BaseDirectory()
	case models.LocationTrash:
		return r.TrashDirectory()
	case models.LocationPicks:
		return r.PicksDirectory()
	default:
		return "", fmt.Errorf("unknown location '%s': %w", loc, models.ErrInvalidPath)
	}
}

// AuthSecret returns the configured shared secret ("" when unset).
func (r *Registry) AuthSecret() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.settings.AuthSecret
}
