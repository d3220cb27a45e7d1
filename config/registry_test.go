package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/camden-git/cullsysbackend/models"
)

func writeSettings(t *testing.T, base, secret string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.json")
	data := `{"base_directory": "` + base + `", "auth_secret": "` + secret + `"}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
	return path
}

func TestLoadRegistry_SeedsFromEnvOnFirstRun(t *testing.T) {
	base := t.TempDir()
	t.Setenv("BASE_DIR", base)
	t.Setenv("AUTH_SECRET", "seeded-secret")

	path := filepath.Join(t.TempDir(), "settings.json")
	reg, err := LoadRegistry(path)
	require.NoError(t, err)

	got, err := reg.BaseDirectory()
	require.NoError(t, err)
	require.Equal(t, base, got)
	require.Equal(t, "seeded-secret", reg.AuthSecret())

	// the seed must have been persisted immediately
	reloaded, err := LoadRegistry(path)
	require.NoError(t, err)
	got, err = reloaded.BaseDirectory()
	require.NoError(t, err)
	require.Equal(t, base, got)
}

func TestBaseDirectory_NotConfigured(t *testing.T) {
	t.Parallel()

	path := writeSettings(t, "", "s")
	reg, err := LoadRegistry(path)
	require.NoError(t, err)

	_, err = reg.BaseDirectory()
	require.ErrorIs(t, err, models.ErrNotConfigured)

	_, err = reg.TrashDirectory()
	require.ErrorIs(t, err, models.ErrNotConfigured)

	_, err = reg.PicksDirectory()
	require.ErrorIs(t, err, models.ErrNotConfigured)
}

func TestSetBaseDirectory_PersistsImmediately(t *testing.T) {
	t.Parallel()

	path := writeSettings(t, "", "s")
	reg, err := LoadRegistry(path)
	require.NoError(t, err)

	base := t.TempDir()
	require.NoError(t, reg.SetBaseDirectory(base))

	got, err := reg.BaseDirectory()
	require.NoError(t, err)
	require.Equal(t, base, got)

	// a fresh registry reading the same file sees the change
	reloaded, err := LoadRegistry(path)
	require.NoError(t, err)
	got, err = reloaded.BaseDirectory()
	require.NoError(t, err)
	require.Equal(t, base, got)

	// secret survives a base directory change
	require.Equal(t, "s", reloaded.AuthSecret())
}

func TestSetBaseDirectory_Invalid(t *testing.T) {
	t.Parallel()

	path := writeSettings(t, "", "s")
	reg, err := LoadRegistry(path)
	require.NoError(t, err)

	err = reg.SetBaseDirectory(filepath.Join(t.TempDir(), "does-not-exist"))
	require.ErrorIs(t, err, models.ErrInvalidPath)

	file := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))
	err = reg.SetBaseDirectory(file)
	require.ErrorIs(t, err, models.ErrInvalidPath)

	// failed sets must not stick
	_, err = reg.BaseDirectory()
	require.ErrorIs(t, err, models.ErrNotConfigured)
}

func TestDerivedDirectories(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	path := writeSettings(t, base, "s")
	reg, err := LoadRegistry(path)
	require.NoError(t, err)

	trash, err := reg.TrashDirectory()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(base, TrashDirName), trash)

	picks, err := reg.PicksDirectory()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(base, PicksDirName), picks)

	for loc, want := range map[models.Location]string{
		models.LocationBase:  base,
		models.LocationTrash: trash,
		models.LocationPicks: picks,
	} {
		got, err := reg.DirectoryFor(loc)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}

	_, err = reg.DirectoryFor(models.Location("attic"))
	require.ErrorIs(t, err, models.ErrInvalidPath)
}

func TestSave_LeavesNoTempFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"base_directory":"","auth_secret":"s"}`), 0644))

	reg, err := LoadRegistry(path)
	require.NoError(t, err)
	require.NoError(t, reg.SetBaseDirectory(t.TempDir()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "settings.json", entries[0].Name())
}

func TestLoadRegistry_CorruptSettingsFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := LoadRegistry(path)
	require.Error(t, err)
}
