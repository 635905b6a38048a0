package history

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempStore(t *testing.T) (*Store, string) {
	path := filepath.Join(t.TempDir(), "history.json")
	return NewStore(path, nil), path
}

func TestLoad_MissingFile(t *testing.T) {
	store, _ := tempStore(t)

	turns := store.Load()
	assert.Empty(t, turns)
	assert.NotNil(t, turns)
}

func TestClear_WritesEmptyArray(t *testing.T) {
	store, path := tempStore(t)

	store.Clear()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestAppend_PreservesOrder(t *testing.T) {
	store, _ := tempStore(t)

	store.Clear()
	store.Append(Turn{User: "Q1", Assistant: "A1"})
	store.Append(Turn{User: "Q2", Assistant: "A2"})

	turns := store.Load()
	require.Len(t, turns, 2)
	assert.Equal(t, Turn{User: "Q1", Assistant: "A1"}, turns[0])
	assert.Equal(t, Turn{User: "Q2", Assistant: "A2"}, turns[1])
}

func TestAppend_WithoutClear(t *testing.T) {
	store, _ := tempStore(t)

	// Appending to a store with no file yet starts a fresh log.
	store.Append(Turn{User: "Q", Assistant: "A"})

	turns := store.Load()
	require.Len(t, turns, 1)
	assert.Equal(t, "Q", turns[0].User)
}

func TestLoad_CorruptFile(t *testing.T) {
	store, path := tempStore(t)

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	turns := store.Load()
	assert.Empty(t, turns)

	// The store stays usable after corruption.
	store.Append(Turn{User: "Q", Assistant: "A"})
	assert.Equal(t, 1, store.Len())
}

func TestWireFormat(t *testing.T) {
	store, path := tempStore(t)

	store.Clear()
	store.Append(Turn{User: "What is X?", Assistant: "X is Y."})

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"user":"What is X?","assistant":"X is Y."}]`, string(data))
}

func TestClearResetsExistingLog(t *testing.T) {
	store, _ := tempStore(t)

	store.Append(Turn{User: "Q1", Assistant: "A1"})
	store.Clear()

	assert.Zero(t, store.Len())
}
