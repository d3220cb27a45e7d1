package library

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/camden-git/cullsysbackend/config"
	"github.com/camden-git/cullsysbackend/metadata"
	"github.com/camden-git/cullsysbackend/models"
)

func newTestLocator(t *testing.T) (*Locator, *metadata.Store, string) {
	t.Helper()
	base := t.TempDir()
	settings := filepath.Join(t.TempDir(), "settings.json")
	data := `{"base_directory": "` + base + `", "auth_secret": "s"}`
	require.NoError(t, os.WriteFile(settings, []byte(data), 0644))
	reg, err := config.LoadRegistry(settings)
	require.NoError(t, err)
	store := metadata.NewStore(reg)
	return NewLocator(reg, store), store, base
}

func touch(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("img"), 0644))
}

func names(records []models.ImageRecord) []string {
	out := make([]string, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.Filename)
	}
	return out
}

func TestList_NaturalFilenameOrderAndSkipping(t *testing.T) {
	t.Parallel()

	locator, _, base := newTestLocator(t)
	touch(t, base, "img10.png")
	touch(t, base, "img2.png")
	touch(t, base, "img1.png")
	touch(t, base, "notes.txt")    // sidecar extension, not an image
	touch(t, base, "readme.md")    // non-image
	touch(t, base, ".hidden.png")  // dotfile
	require.NoError(t, os.Mkdir(filepath.Join(base, "subdir"), 0755))

	records, err := locator.List(models.LocationBase, ListOptions{})
	require.NoError(t, err)
	require.Equal(t, []string{"img1.png", "img2.png", "img10.png"}, names(records))
}

func TestList_JoinsSidecarMetadata(t *testing.T) {
	t.Parallel()

	locator, store, base := newTestLocator(t)
	touch(t, base, "a.png")

	rating := 3
	require.NoError(t, store.Write("a.png", metadata.Patch{Rating: &rating}))
	require.NoError(t, store.WritePrompt("a.png", "a photo"))

	records, err := locator.List(models.LocationBase, ListOptions{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.NotNil(t, records[0].Rating)
	require.Equal(t, 3, *records[0].Rating)
	require.Equal(t, "a photo", records[0].Prompt)
	require.Equal(t, models.LocationBase, records[0].Location)
	require.Equal(t, int64(3), records[0].Size)
}

func TestList_SortByRating(t *testing.T) {
	t.Parallel()

	locator, store, base := newTestLocator(t)
	for _, name := range []string{"b.png", "a.png", "c.png", "d.png"} {
		touch(t, base, name)
	}
	four := 4
	two := 2
	require.NoError(t, store.Write("c.png", metadata.Patch{Rating: &four}))
	require.NoError(t, store.Write("b.png", metadata.Patch{Rating: &four}))
	require.NoError(t, store.Write("d.png", metadata.Patch{Rating: &two}))
	// a.png stays unrated

	records, err := locator.List(models.LocationBase, ListOptions{SortBy: SortRating})
	require.NoError(t, err)
	// descending by rating, equal ratings ordered by filename ascending,
	// unrated last
	require.Equal(t, []string{"b.png", "c.png", "d.png", "a.png"}, names(records))
}

func TestList_SearchFilter(t *testing.T) {
	t.Parallel()

	locator, _, base := newTestLocator(t)
	touch(t, base, "sunset_01.png")
	touch(t, base, "Sunset_02.png")
	touch(t, base, "portrait.png")

	records, err := locator.List(models.LocationBase, ListOptions{Search: "sunset"})
	require.NoError(t, err)
	require.Equal(t, []string{"Sunset_02.png", "sunset_01.png"}, names(records))
}

func TestList_OffsetAndLimit(t *testing.T) {
	t.Parallel()

	locator, _, base := newTestLocator(t)
	for _, name := range []string{"a.png", "b.png", "c.png", "d.png", "e.png"} {
		touch(t, base, name)
	}

	records, err := locator.List(models.LocationBase, ListOptions{Offset: 1, Limit: 2})
	require.NoError(t, err)
	require.Equal(t, []string{"b.png", "c.png"}, names(records))

	records, err = locator.List(models.LocationBase, ListOptions{Offset: 4, Limit: 10})
	require.NoError(t, err)
	require.Equal(t, []string{"e.png"}, names(records))

	records, err = locator.List(models.LocationBase, ListOptions{Offset: 99})
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestList_MissingLifecycleDirectoryIsEmptyNotError(t *testing.T) {
	t.Parallel()

	locator, _, _ := newTestLocator(t)

	records, err := locator.List(models.LocationTrash, ListOptions{})
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestList_NotConfigured(t *testing.T) {
	t.Parallel()

	settings := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(settings, []byte(`{"base_directory":"","auth_secret":"s"}`), 0644))
	reg, err := config.LoadRegistry(settings)
	require.NoError(t, err)
	locator := NewLocator(reg, metadata.NewStore(reg))

	_, err = locator.List(models.LocationBase, ListOptions{})
	require.ErrorIs(t, err, models.ErrNotConfigured)
}

func TestIsValidSortOrder(t *testing.T) {
	t.Parallel()

	require.True(t, IsValidSortOrder(SortFilename))
	require.True(t, IsValidSortOrder(SortRating))
	require.False(t, IsValidSortOrder("mtime"))
}
