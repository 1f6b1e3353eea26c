package notes

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "notes.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreRoundTrip(t *testing.T) {
	store := openTestStore(t)

	url := "https://gitlab.com/group/project/-/issues/42"

	body, err := store.Get(url)
	require.NoError(t, err)
	assert.Empty(t, body, "missing note should read as empty")

	require.NoError(t, store.Set(url, "waiting on participant response"))

	body, err = store.Get(url)
	require.NoError(t, err)
	assert.Equal(t, "waiting on participant response", body)

	// Overwrite keeps a single row per URL.
	require.NoError(t, store.Set(url, "escalated to WG"))

	body, err = store.Get(url)
	require.NoError(t, err)
	assert.Equal(t, "escalated to WG", body)
}

func TestStoreEmptyBodyDeletes(t *testing.T) {
	store := openTestStore(t)

	url := "https://gitlab.com/group/project/-/issues/7"
	require.NoError(t, store.Set(url, "temporary"))
	require.NoError(t, store.Set(url, ""))

	body, err := store.Get(url)
	require.NoError(t, err)
	assert.Empty(t, body)

	all, err := store.All()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestStoreAll(t *testing.T) {
	store := openTestStore(t)

	want := map[string]string{
		"https://gitlab.com/group/project/-/issues/1": "first",
		"https://gitlab.com/group/project/-/issues/2": "second",
	}
	for url, body := range want {
		require.NoError(t, store.Set(url, body))
	}

	all, err := store.All()
	require.NoError(t, err)
	assert.Equal(t, want, all)
}

func TestStoreClear(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Set("https://gitlab.com/group/project/-/issues/1", "a"))
	require.NoError(t, store.Set("https://gitlab.com/group/project/-/issues/2", "b"))
	require.NoError(t, store.Clear())

	all, err := store.All()
	require.NoError(t, err)
	assert.Empty(t, all)
}
