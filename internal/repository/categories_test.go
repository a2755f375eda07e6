package repository

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallyhq/tally/internal/common"
	"github.com/tallyhq/tally/internal/storage"
)

// stubCounter satisfies ExpenseCounter with a fixed count.
type stubCounter int

func (c stubCounter) CountByCategory(string) int { return int(c) }

func newTestCategories(t *testing.T) (*Categories, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	registry, err := NewCategories(context.Background(), store)
	require.NoError(t, err)
	return registry, store
}

func TestCategories_SeedsDefaultsOnFirstLaunch(t *testing.T) {
	registry, store := newTestCategories(t)

	seeded := registry.List()
	require.NotEmpty(t, seeded)
	for _, cat := range seeded {
		assert.True(t, cat.IsSystem, "seeded category %q should be system", cat.Name)
		assert.NotEmpty(t, cat.ID)
	}

	// A second load must not re-seed.
	reloaded, err := NewCategories(context.Background(), store)
	require.NoError(t, err)
	assert.Len(t, reloaded.List(), len(seeded))
}

func TestCategories_Create(t *testing.T) {
	registry, _ := newTestCategories(t)
	ctx := context.Background()

	cat, err := registry.Create(ctx, "Groceries", "cart", "#00FF00")
	require.NoError(t, err)
	assert.NotEmpty(t, cat.ID)
	assert.Equal(t, "Groceries", cat.Name)
	assert.False(t, cat.IsSystem)
	assert.Equal(t, cat.CreatedAt, cat.UpdatedAt)

	stored, ok := registry.GetByID(cat.ID)
	require.True(t, ok)
	assert.Equal(t, cat, stored)
}

func TestCategories_CreateRejectsBadNames(t *testing.T) {
	registry, _ := newTestCategories(t)
	ctx := context.Background()

	_, err := registry.Create(ctx, "", "x", "#000")
	assert.True(t, common.IsValidation(err))

	_, err = registry.Create(ctx, "   ", "x", "#000")
	assert.True(t, common.IsValidation(err))

	_, err = registry.Create(ctx, strings.Repeat("x", 100), "x", "#000")
	assert.True(t, common.IsValidation(err))
}

func TestCategories_CreateRejectsDuplicateNamesCaseInsensitive(t *testing.T) {
	registry, _ := newTestCategories(t)
	ctx := context.Background()

	_, err := registry.Create(ctx, "Groceries", "cart", "#00FF00")
	require.NoError(t, err)

	_, err = registry.Create(ctx, "gRoCeRiEs", "cart", "#00FF00")
	assert.ErrorIs(t, err, common.ErrDuplicateCategory)

	// Seeded system names are protected too.
	_, err = registry.Create(ctx, "transport", "bus", "#123456")
	assert.ErrorIs(t, err, common.ErrDuplicateCategory)
}

func TestCategories_DeleteRejectsSystem(t *testing.T) {
	registry, _ := newTestCategories(t)

	system := registry.List()[0]
	err := registry.Delete(context.Background(), system.ID, stubCounter(0))
	assert.ErrorIs(t, err, common.ErrSystemCategory)
}

func TestCategories_DeleteRejectsReferencedWithCount(t *testing.T) {
	registry, _ := newTestCategories(t)
	ctx := context.Background()

	cat, err := registry.Create(ctx, "Hobbies", "game", "#B10DC9")
	require.NoError(t, err)

	err = registry.Delete(ctx, cat.ID, stubCounter(3))
	var refErr *common.ReferencedError
	require.ErrorAs(t, err, &refErr)
	assert.Equal(t, 3, refErr.Count)

	// Still present after the rejected delete.
	_, ok := registry.GetByID(cat.ID)
	assert.True(t, ok)
}

func TestCategories_DeleteUnreferencedUserCategory(t *testing.T) {
	registry, _ := newTestCategories(t)
	ctx := context.Background()

	cat, err := registry.Create(ctx, "Hobbies", "game", "#B10DC9")
	require.NoError(t, err)

	require.NoError(t, registry.Delete(ctx, cat.ID, stubCounter(0)))
	_, ok := registry.GetByID(cat.ID)
	assert.False(t, ok)

	err = registry.Delete(ctx, "missing-id", stubCounter(0))
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestCategories_GetByName(t *testing.T) {
	registry, _ := newTestCategories(t)

	cat, ok := registry.GetByName("transport")
	require.True(t, ok)
	assert.Equal(t, "Transport", cat.Name)

	_, ok = registry.GetByName("nope")
	assert.False(t, ok)
}

func TestCategories_CorruptedBlobFallsBackToEmpty(t *testing.T) {
	store := storage.NewMemoryStore()
	store.SetRaw(storage.KeyCategories, []byte(`{not json`))

	registry, err := NewCategories(context.Background(), store)
	require.NoError(t, err)
	assert.Empty(t, registry.List())
}
