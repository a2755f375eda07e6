package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallyhq/tally/internal/common"
	"github.com/tallyhq/tally/internal/model"
	"github.com/tallyhq/tally/internal/storage"
)

func newTestExpenses(t *testing.T) (*Expenses, *Categories) {
	t.Helper()
	store := storage.NewMemoryStore()
	registry, err := NewCategories(context.Background(), store)
	require.NoError(t, err)
	expenses, err := NewExpenses(context.Background(), store, registry)
	require.NoError(t, err)
	return expenses, registry
}

func foodCategory(t *testing.T, registry *Categories) model.Category {
	t.Helper()
	cat, ok := registry.GetByName("Food & Dining")
	require.True(t, ok)
	return cat
}

func TestExpenses_Add(t *testing.T) {
	expenses, registry := newTestExpenses(t)
	cat := foodCategory(t, registry)

	exp, err := expenses.Add(context.Background(), ExpenseDraft{
		Amount:     decimal.NewFromInt(42),
		CategoryID: cat.ID,
		Date:       model.NewDate(2024, time.March, 1),
		Note:       "lunch",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, exp.ID)
	assert.Equal(t, exp.CreatedAt, exp.UpdatedAt)

	stored, ok := expenses.GetByID(exp.ID)
	require.True(t, ok)
	assert.Equal(t, exp, stored)
}

func TestExpenses_AddValidation(t *testing.T) {
	expenses, registry := newTestExpenses(t)
	cat := foodCategory(t, registry)
	ctx := context.Background()
	day := model.NewDate(2024, time.March, 1)

	tests := []struct {
		name  string
		draft ExpenseDraft
	}{
		{name: "zero amount", draft: ExpenseDraft{Amount: decimal.Zero, CategoryID: cat.ID, Date: day}},
		{name: "negative amount", draft: ExpenseDraft{Amount: decimal.NewFromInt(-5), CategoryID: cat.ID, Date: day}},
		{name: "unknown category", draft: ExpenseDraft{Amount: decimal.NewFromInt(5), CategoryID: "nope", Date: day}},
		{name: "missing date", draft: ExpenseDraft{Amount: decimal.NewFromInt(5), CategoryID: cat.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := expenses.Add(ctx, tt.draft)
			assert.True(t, common.IsValidation(err), "expected validation error, got %v", err)
			assert.Empty(t, expenses.List(), "nothing may be applied on rejection")
		})
	}
}

func TestExpenses_Update(t *testing.T) {
	expenses, registry := newTestExpenses(t)
	cat := foodCategory(t, registry)
	ctx := context.Background()

	exp, err := expenses.Add(ctx, ExpenseDraft{
		Amount:     decimal.NewFromInt(42),
		CategoryID: cat.ID,
		Date:       model.NewDate(2024, time.March, 1),
	})
	require.NoError(t, err)

	amount := decimal.NewFromInt(50)
	note := "updated"
	require.NoError(t, expenses.Update(ctx, exp.ID, ExpenseUpdate{Amount: &amount, Note: &note}))

	got, _ := expenses.GetByID(exp.ID)
	assert.True(t, got.Amount.Equal(amount))
	assert.Equal(t, "updated", got.Note)
	assert.Equal(t, cat.ID, got.CategoryID, "unset fields keep their values")
	assert.GreaterOrEqual(t, got.UpdatedAt, got.CreatedAt)

	// Bad partials are rejected without touching the record.
	bad := decimal.NewFromInt(-1)
	err = expenses.Update(ctx, exp.ID, ExpenseUpdate{Amount: &bad})
	assert.True(t, common.IsValidation(err))
	got, _ = expenses.GetByID(exp.ID)
	assert.True(t, got.Amount.Equal(amount))

	// A zero date would drop the expense from every date-range query.
	var zeroDate model.Date
	err = expenses.Update(ctx, exp.ID, ExpenseUpdate{Date: &zeroDate})
	assert.True(t, common.IsValidation(err))
	got, _ = expenses.GetByID(exp.ID)
	assert.False(t, got.Date.IsZero())

	// Absent id is a no-op.
	require.NoError(t, expenses.Update(ctx, "missing", ExpenseUpdate{Amount: &amount}))
}

func TestExpenses_Remove(t *testing.T) {
	expenses, registry := newTestExpenses(t)
	cat := foodCategory(t, registry)
	ctx := context.Background()

	exp, err := expenses.Add(ctx, ExpenseDraft{
		Amount:     decimal.NewFromInt(10),
		CategoryID: cat.ID,
		Date:       model.NewDate(2024, time.March, 1),
	})
	require.NoError(t, err)

	require.NoError(t, expenses.Remove(ctx, exp.ID))
	_, ok := expenses.GetByID(exp.ID)
	assert.False(t, ok)

	require.NoError(t, expenses.Remove(ctx, exp.ID))
}

func TestExpenses_ListByDateRange(t *testing.T) {
	expenses, registry := newTestExpenses(t)
	cat := foodCategory(t, registry)
	ctx := context.Background()

	for day := 1; day <= 5; day++ {
		_, err := expenses.Add(ctx, ExpenseDraft{
			Amount:     decimal.NewFromInt(int64(day)),
			CategoryID: cat.ID,
			Date:       model.NewDate(2024, time.March, day),
		})
		require.NoError(t, err)
	}

	got := expenses.ListByDateRange(model.NewDate(2024, time.March, 2), model.NewDate(2024, time.March, 4))
	assert.Len(t, got, 3)

	// Inclusive bounds.
	got = expenses.ListByDateRange(model.NewDate(2024, time.March, 5), model.NewDate(2024, time.March, 5))
	require.Len(t, got, 1)
	assert.True(t, got[0].Amount.Equal(decimal.NewFromInt(5)))

	assert.Empty(t, expenses.ListByDateRange(model.NewDate(2024, time.April, 1), model.NewDate(2024, time.April, 30)))
}

func TestExpenses_CountByCategory(t *testing.T) {
	expenses, registry := newTestExpenses(t)
	cat := foodCategory(t, registry)
	other, ok := registry.GetByName("Other")
	require.True(t, ok)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := expenses.Add(ctx, ExpenseDraft{
			Amount:     decimal.NewFromInt(1),
			CategoryID: cat.ID,
			Date:       model.NewDate(2024, time.March, 1),
		})
		require.NoError(t, err)
	}

	assert.Equal(t, 3, expenses.CountByCategory(cat.ID))
	assert.Equal(t, 0, expenses.CountByCategory(other.ID))
}

func TestExpenses_ImportIsIdempotent(t *testing.T) {
	expenses, _ := newTestExpenses(t)
	ctx := context.Background()

	batch := []model.Expense{
		{ID: "e1", Amount: decimal.NewFromInt(10), CategoryID: "c1", Date: model.NewDate(2024, time.March, 1)},
		{ID: "e2", Amount: decimal.NewFromInt(20), CategoryID: "c1", Date: model.NewDate(2024, time.March, 2)},
	}

	added, err := expenses.Import(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	added, err = expenses.Import(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 0, added)
	assert.Len(t, expenses.List(), 2)
}

func TestExpenses_CorruptedBlobFallsBackToEmpty(t *testing.T) {
	store := storage.NewMemoryStore()
	store.SetRaw(storage.KeyExpenses, []byte(`[{"id": 12345`))

	registry, err := NewCategories(context.Background(), store)
	require.NoError(t, err)
	expenses, err := NewExpenses(context.Background(), store, registry)
	require.NoError(t, err)
	assert.Empty(t, expenses.List())

	// The repository stays usable after the fallback.
	cat := foodCategory(t, registry)
	_, err = expenses.Add(context.Background(), ExpenseDraft{
		Amount:     decimal.NewFromInt(5),
		CategoryID: cat.ID,
		Date:       model.NewDate(2024, time.March, 1),
	})
	require.NoError(t, err)
	assert.Len(t, expenses.List(), 1)
}

func TestExpenses_ClearAll(t *testing.T) {
	expenses, registry := newTestExpenses(t)
	cat := foodCategory(t, registry)
	ctx := context.Background()

	_, err := expenses.Add(ctx, ExpenseDraft{
		Amount:     decimal.NewFromInt(5),
		CategoryID: cat.ID,
		Date:       model.NewDate(2024, time.March, 1),
	})
	require.NoError(t, err)

	require.NoError(t, expenses.ClearAll(ctx))
	assert.Empty(t, expenses.List())
}

// removeFailStore fails Remove against a single key so tests can observe
// ClearAll's rollback.
type removeFailStore struct {
	storage.Store
	failKey string
}

func (s *removeFailStore) Remove(ctx context.Context, key string) error {
	if key == s.failKey {
		return errors.New("store down")
	}
	return s.Store.Remove(ctx, key)
}

func TestExpenses_ClearAllRestoresOnStoreFailure(t *testing.T) {
	ctx := context.Background()
	store := &removeFailStore{Store: storage.NewMemoryStore(), failKey: storage.KeyExpenses}

	registry, err := NewCategories(ctx, store)
	require.NoError(t, err)
	expenses, err := NewExpenses(ctx, store, registry)
	require.NoError(t, err)

	cat := foodCategory(t, registry)
	exp, err := expenses.Add(ctx, ExpenseDraft{
		Amount:     decimal.NewFromInt(5),
		CategoryID: cat.ID,
		Date:       model.NewDate(2024, time.March, 1),
	})
	require.NoError(t, err)

	require.Error(t, expenses.ClearAll(ctx))
	_, ok := expenses.GetByID(exp.ID)
	assert.True(t, ok, "in-memory state must match the store that still holds the collection")
}
