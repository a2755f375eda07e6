package storage

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "tally.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestSQLiteStore_SetAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	type record struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	err := store.Set(ctx, KeyCategories, []record{{ID: "c1", Name: "Food"}})
	require.NoError(t, err)

	blob, err := store.Get(ctx, KeyCategories)
	require.NoError(t, err)
	require.NotNil(t, blob)

	var got []record
	require.NoError(t, json.Unmarshal(blob, &got))
	require.Len(t, got, 1)
	assert.Equal(t, "c1", got[0].ID)
	assert.Equal(t, "Food", got[0].Name)
}

func TestSQLiteStore_GetMissingKey(t *testing.T) {
	store := newTestStore(t)

	blob, err := store.Get(context.Background(), KeyExpenses)
	require.NoError(t, err)
	assert.Nil(t, blob)
}

func TestSQLiteStore_SetOverwrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, KeyBudgets, []string{"a"}))
	require.NoError(t, store.Set(ctx, KeyBudgets, []string{"b", "c"}))

	blob, err := store.Get(ctx, KeyBudgets)
	require.NoError(t, err)

	var got []string
	require.NoError(t, json.Unmarshal(blob, &got))
	assert.Equal(t, []string{"b", "c"}, got)
}

func TestSQLiteStore_HasAndRemove(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ok, err := store.Has(ctx, KeyAccounts)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, KeyAccounts, []string{}))
	ok, err = store.Has(ctx, KeyAccounts)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, store.Remove(ctx, KeyAccounts))
	ok, err = store.Has(ctx, KeyAccounts)
	require.NoError(t, err)
	assert.False(t, ok)

	// Removing an absent key is not an error.
	require.NoError(t, store.Remove(ctx, KeyAccounts))
}

func TestSQLiteStore_EmptyKeyRejected(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Get(ctx, "")
	assert.Error(t, err)
	assert.Error(t, store.Set(ctx, "", nil))
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tally.db")
	ctx := context.Background()

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, KeyIncomes, []string{"salary"}))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer func() {
		_ = reopened.Close()
	}()

	blob, err := reopened.Get(ctx, KeyIncomes)
	require.NoError(t, err)

	var got []string
	require.NoError(t, json.Unmarshal(blob, &got))
	assert.Equal(t, []string{"salary"}, got)
}
