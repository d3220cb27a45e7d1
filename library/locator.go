// Package library scans the lifecycle directories and assembles the image
// catalog: each image file joined with its sidecar metadata, sorted, filtered
// and windowed.
package library

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/facette/natsort"

	"github.com/camden-git/cullsysbackend/config"
	"github.com/camden-git/cullsysbackend/metadata"
	"github.com/camden-git/cullsysbackend/models"
	"github.com/camden-git/cullsysbackend/utils"
)

const (
	SortFilename = "filename"
	SortRating   = "rating"
)

const DefaultSortOrder = SortFilename

// IsValidSortOrder checks if a string is a valid sort order constant
func IsValidSortOrder(order string) bool {
	switch order {
	case SortFilename, SortRating:
		return true
	default:
		return false
	}
}

// ListOptions narrows and orders a catalog listing. The zero value lists
// everything in natural filename order.
type ListOptions struct {
	SortBy string // SortFilename (default) or SortRating
	Search string // case-insensitive substring match on the filename
	Offset int
	Limit  int // 0 means no limit
}

type Locator struct {
	registry *config.Registry
	store    *metadata.Store
}

func NewLocator(registry *config.Registry, store *metadata.Store) *Locator {
	return &Locator{registry: registry, store: store}
}

// List returns the catalog for one lifecycle location. Non-image files,
// subdirectories and sidecars are silently skipped, as are files that
// disappear between the directory read and the stat. A lifecycle directory
// that does not exist yet simply yields an empty catalog; it is created
// lazily on first write.
func (l *Locator) List(loc models.Location, opts ListOptions) ([]models.ImageRecord, error) {
	dir, err := l.registry.DirectoryFor(loc)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return []models.ImageRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	records := make([]models.ImageRecord, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || metadata.IsSidecar(name) || !utils.IsRasterImage(name) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			// file vanished mid-scan; skip it rather than failing the listing
			continue
		}

		record := models.ImageRecord{
			Filename: name,
			Location: loc,
			Size:     info.Size(),
			ModTime:  info.ModTime().Unix(),
		}

		meta, err := l.store.Read(name)
		if err != nil {
			log.Printf("Warning: unreadable metadata for %s: %v", name, err)
		} else {
			record.Rating = meta.Rating
			record.Notes = meta.Notes
		}

		prompt, err := l.store.ReadPrompt(name)
		if err != nil {
			log.Printf("Warning: unreadable prompt for %s: %v", name, err)
		} else {
			record.Prompt = prompt
		}

		records = append(records, record)
	}

	sortRecords(records, opts.SortBy)

	if opts.Search != "" {
		needle := strings.ToLower(opts.Search)
		filtered := records[:0]
		for _, rec := range records {
			if strings.Contains(strings.ToLower(rec.Filename), needle) {
				filtered = append(filtered, rec)
			}
		}
		records = filtered
	}

	return window(records, opts.Offset, opts.Limit), nil
}

// sortRecords orders by natural filename ascending, or by rating descending
// with unrated images last; rating ties break by natural filename ascending.
func sortRecords(records []models.ImageRecord, sortBy string) {
	byName := func(i, j int) bool {
		return natsort.Compare(records[i].Filename, records[j].Filename)
	}

	switch sortBy {
	case SortRating:
		sort.SliceStable(records, func(i, j int) bool {
			ri, rj := ratingValue(records[i].Rating), ratingValue(records[j].Rating)
			if ri != rj {
				return ri > rj
			}
			return byName(i, j)
		})
	default:
		sort.SliceStable(records, byName)
	}
}

func ratingValue(rating *int) int {
	if rating == nil {
		return 0
	}
	return *rating
}

func window(records []models.ImageRecord, offset, limit int) []models.ImageRecord {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(records) {
		return []models.ImageRecord{}
	}
	records = records[offset:]
	if limit > 0 && limit < len(records) {
		records = records[:limit]
	}
	return records
}

// Resolve returns the absolute path of an image known to be at loc, guarding
// against names that would escape the directory.
func (l *Locator) Resolve(loc models.Location, filename string) (string, error) {
	if !utils.IsSafeFilename(filename) {
		return "", fmt.Errorf("unsafe filename '%s': %w", filename, models.ErrInvalidPath)
	}
	dir, err := l.registry.DirectoryFor(loc)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, filename), nil
}
