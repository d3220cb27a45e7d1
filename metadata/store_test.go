package metadata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/camden-git/cullsysbackend/config"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	base := t.TempDir()
	settings := filepath.Join(t.TempDir(), "settings.json")
	data := `{"base_directory": "` + base + `", "auth_secret": "s"}`
	require.NoError(t, os.WriteFile(settings, []byte(data), 0644))
	reg, err := config.LoadRegistry(settings)
	require.NoError(t, err)
	return NewStore(reg), base
}

func intPtr(n int) *int { return &n }

func strPtr(s string) *string { return &s }

func TestRead_DefaultsWhenAbsent(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)

	meta, err := store.Read("a.png")
	require.NoError(t, err)
	require.Nil(t, meta.Rating)
	require.Equal(t, "", meta.Notes)
}

func TestWrite_MergesPartialPatches(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)

	require.NoError(t, store.Write("a.png", Patch{Rating: intPtr(3)}))
	require.NoError(t, store.Write("a.png", Patch{Notes: strPtr("keeper")}))

	meta, err := store.Read("a.png")
	require.NoError(t, err)
	require.NotNil(t, meta.Rating)
	require.Equal(t, 3, *meta.Rating)
	require.Equal(t, "keeper", meta.Notes)

	// rating update must not clobber notes
	require.NoError(t, store.Write("a.png", Patch{Rating: intPtr(5)}))
	meta, err = store.Read("a.png")
	require.NoError(t, err)
	require.Equal(t, 5, *meta.Rating)
	require.Equal(t, "keeper", meta.Notes)
}

func TestWrite_FailsClosedOnCorruptSidecar(t *testing.T) {
	t.Parallel()

	store, base := newTestStore(t)

	sidecar := filepath.Join(base, "a.json")
	require.NoError(t, os.WriteFile(sidecar, []byte("{broken"), 0644))

	err := store.Write("a.png", Patch{Rating: intPtr(2)})
	require.Error(t, err)

	// the corrupt sidecar must be left untouched, not overwritten with defaults
	data, readErr := os.ReadFile(sidecar)
	require.NoError(t, readErr)
	require.Equal(t, "{broken", string(data))
}

func TestPrompt_RoundTrip(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)

	prompt, err := store.ReadPrompt("a.png")
	require.NoError(t, err)
	require.Equal(t, "", prompt)

	require.NoError(t, store.WritePrompt("a.png", "a photo of a capstan winch"))
	prompt, err = store.ReadPrompt("a.png")
	require.NoError(t, err)
	require.Equal(t, "a photo of a capstan winch", prompt)

	// wholesale overwrite, no merging
	require.NoError(t, store.WritePrompt("a.png", "short"))
	prompt, err = store.ReadPrompt("a.png")
	require.NoError(t, err)
	require.Equal(t, "short", prompt)
}

func TestDeleteAll_RemovesBothSidecarsAndToleratesMissing(t *testing.T) {
	t.Parallel()

	store, base := newTestStore(t)

	require.NoError(t, store.Write("a.png", Patch{Rating: intPtr(4)}))
	require.NoError(t, store.WritePrompt("a.png", "p"))

	require.NoError(t, store.DeleteAll("a.png"))
	_, err := os.Stat(filepath.Join(base, "a.json"))
	require.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(base, "a.txt"))
	require.True(t, os.IsNotExist(err))

	// deleting again is not an error
	require.NoError(t, store.DeleteAll("a.png"))
}

func TestStemAndIsSidecar(t *testing.T) {
	t.Parallel()

	require.Equal(t, "a", Stem("a.png"))
	require.Equal(t, "archive.tar", Stem("archive.tar.gz"))
	require.Equal(t, "noext", Stem("noext"))

	require.True(t, IsSidecar("a.json"))
	require.True(t, IsSidecar("a.txt"))
	require.False(t, IsSidecar("a.png"))
}
