package cache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	store, err := Load(filepath.Join(t.TempDir(), "cache.json"))
	require.NoError(t, err)
	assert.Equal(t, 0, store.Len())

	_, ok := store.Get("anything")
	assert.False(t, ok)
}

func TestLoad_CorruptFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestLoad_NullIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	require.NoError(t, os.WriteFile(path, []byte("null"), 0600))

	store, err := Load(path)
	require.NoError(t, err)
	store.Put("q", Entry{ContainerNumber: "SINI25432400"})
	assert.Equal(t, 1, store.Len())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cache.json")
	want := map[string]Entry{
		"Get tracking info for HMM booking ID SINI25432400": {
			ContainerNumber: "SINI25432400",
			Result:          "<html><body>Vessel & voyage</body></html>",
		},
		"where is MSKU1234567": {
			ContainerNumber: "MSKU1234567",
			Result:          "No records found for this container.",
		},
	}
	store := New(path)
	for query, entry := range want {
		store.Put(query, entry)
	}
	require.NoError(t, store.Save())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, len(want), loaded.Len())
	for query, entry := range want {
		got, ok := loaded.Get(query)
		require.True(t, ok, query)
		assert.Equal(t, entry, got)
	}

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file should be renamed away")
}

func TestSave_FileShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	store := New(path)
	store.Put("q", Entry{ContainerNumber: "HMMU1234567", Result: "<b>x</b>"})
	require.NoError(t, store.Save())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	assert.True(t, strings.HasPrefix(text, "{\n  \"q\": {\n    \"container_number\""), text)
	assert.Contains(t, text, `"result": "<b>x</b>"`)
}

func TestPut_Overwrites(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "cache.json"))
	store.Put("q", Entry{ContainerNumber: "A", Result: "one"})
	store.Put("q", Entry{ContainerNumber: "A", Result: "two"})

	got, ok := store.Get("q")
	require.True(t, ok)
	assert.Equal(t, "two", got.Result)
	assert.Equal(t, 1, store.Len())
}
