// Package lifecycle implements the image state machine. Every operation
// re-resolves the image's current directory from the filesystem before acting;
// caller-supplied locations are never trusted, since the tree may have changed
// underneath a stale client view.
package lifecycle

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/camden-git/cullsysbackend/config"
	"github.com/camden-git/cullsysbackend/metadata"
	"github.com/camden-git/cullsysbackend/models"
	"github.com/camden-git/cullsysbackend/utils"
)

// ErrInvalidRating is returned by Rate for values outside 1..5.
var ErrInvalidRating = errors.New("rating must be between 1 and 5")

const pickedRating = 5
const demotedRating = 4

// Engine executes lifecycle transitions. All mutating operations serialize
// behind a single mutex so a move and a concurrent metadata write for the
// same file cannot interleave into a torn state.
type Engine struct {
	registry *config.Registry
	store    *metadata.Store

	mu sync.Mutex
}

func NewEngine(registry *config.Registry, store *metadata.Store) *Engine {
	return &Engine{registry: registry, store: store}
}

// Locate finds which lifecycle directory currently holds filename. It probes
// all three known directories fresh on every call. A filename present in more
// than one directory is a consistency violation and is refused outright.
func (e *Engine) Locate(filename string) (models.Location, error) {
	if !utils.IsSafeFilename(filename) {
		return "", fmt.Errorf("unsafe filename '%s': %w", filename, models.ErrInvalidPath)
	}

	var found []models.Location
	for _, loc := range []models.Location{models.LocationBase, models.LocationTrash, models.LocationPicks} {
		dir, err := e.registry.DirectoryFor(loc)
		if err != nil {
			return "", err
		}
		info, err := os.Stat(filepath.Join(dir, filename))
		if err == nil && info.Mode().IsRegular() {
			found = append(found, loc)
		}
	}

	switch len(found) {
	case 0:
		return "", fmt.Errorf("%s not found in base, trash or picks: %w", filename, models.ErrImageNotFound)
	case 1:
		return found[0], nil
	default:
		return "", fmt.Errorf("%s found in %v: %w", filename, found, models.ErrLocationConflict)
	}
}

// move renames the image file from one lifecycle directory to another,
// creating the destination directory if absent. The rename is a single
// filesystem operation within the same volume; if it fails the error carries
// filename, source and destination for manual reconciliation, and no retry or
// rollback is attempted.
func (e *Engine) move(filename string, from, to models.Location) error {
	srcDir, err := e.registry.DirectoryFor(from)
	if err != nil {
		return err
	}
	destDir, err := e.registry.DirectoryFor(to)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", destDir, err)
	}

	src := filepath.Join(srcDir, filename)
	dest := filepath.Join(destDir, filename)
	if err := os.Rename(src, dest); err != nil {
		return fmt.Errorf("failed to move %s from %s to %s: %w", filename, srcDir, destDir, err)
	}
	log.Printf("Moved %s: %s -> %s", filename, from, to)
	return nil
}

// Trash moves an image from base or picks into the trash directory. Rating
// and the rest of the metadata are left untouched.
func (e *Engine) Trash(filename string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	loc, err := e.Locate(filename)
	if err != nil {
		return err
	}
	if loc == models.LocationTrash {
		return fmt.Errorf("%s not found in base or picks (already trashed): %w", filename, models.ErrImageNotFound)
	}
	return e.move(filename, loc, models.LocationTrash)
}

// Restore moves an image out of the trash back to the base directory. Trash
// is a terminal holding state; only Restore and EraseAllTrash may leave it.
func (e *Engine) Restore(filename string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	loc, err := e.Locate(filename)
	if err != nil {
		return err
	}
	if loc != models.LocationTrash {
		return fmt.Errorf("%s not found in trash: %w", filename, models.ErrImageNotFound)
	}
	return e.move(filename, models.LocationTrash, models.LocationBase)
}

// EraseAllTrash permanently deletes every file in the trash directory along
// with the sidecars of each erased image. Stray non-image files physically
// present under trash are removed as well.
func (e *Engine) EraseAllTrash() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	trashDir, err := e.registry.TrashDirectory()
	if err != nil {
		return err
	}

	entries, err := os.ReadDir(trashDir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading trash directory %s: %w", trashDir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if err := os.Remove(filepath.Join(trashDir, name)); err != nil {
			return fmt.Errorf("failed to erase %s from trash: %w", name, err)
		}
		if utils.IsRasterImage(name) {
			if err := e.store.DeleteAll(name); err != nil {
				return err
			}
		}
	}
	log.Printf("Erased all files from %s", trashDir)
	return nil
}

// Pick moves an image into the picks directory and sets its rating to 5. An
// image already in picks is not moved; its rating is still forced to 5, so
// Pick always reaches the same end state.
func (e *Engine) Pick(filename string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pick(filename)
}

func (e *Engine) pick(filename string) error {
	loc, err := e.Locate(filename)
	if err != nil {
		return err
	}
	if loc != models.LocationPicks {
		if err := e.move(filename, loc, models.LocationPicks); err != nil {
			return err
		}
	}
	rating := pickedRating
	return e.store.Write(filename, metadata.Patch{Rating: &rating})
}

// Demote moves an image out of picks back to base and sets its rating to 4.
func (e *Engine) Demote(filename string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	loc, err := e.Locate(filename)
	if err != nil {
		return err
	}
	if loc != models.LocationPicks {
		return fmt.Errorf("%s not found in picks: %w", filename, models.ErrImageNotFound)
	}
	if err := e.move(filename, models.LocationPicks, models.LocationBase); err != nil {
		return err
	}
	rating := demotedRating
	return e.store.Write(filename, metadata.Patch{Rating: &rating})
}

// Rate sets an image's rating. A rating of 5 is synonymous with membership in
// picks, so Rate(f, 5) behaves exactly like Pick(f); any other rating is a
// pure metadata write with no move.
func (e *Engine) Rate(filename string, rating int) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("rating %d: %w", rating, ErrInvalidRating)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if rating == pickedRating {
		return e.pick(filename)
	}

	if _, err := e.Locate(filename); err != nil {
		return err
	}
	return e.store.Write(filename, metadata.Patch{Rating: &rating})
}

// SetNotes merge-writes the notes field; other metadata fields are preserved.
func (e *Engine) SetNotes(filename, notes string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.Locate(filename); err != nil {
		return err
	}
	return e.store.Write(filename, metadata.Patch{Notes: &notes})
}

// SetPrompt overwrites the prompt sidecar.
func (e *Engine) SetPrompt(filename, text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.Locate(filename); err != nil {
		return err
	}
	return e.store.WritePrompt(filename, text)
}
