package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallyhq/tally/internal/common"
	"github.com/tallyhq/tally/internal/model"
	"github.com/tallyhq/tally/internal/storage"
)

func newTestIncomes(t *testing.T) (*Incomes, *Categories) {
	t.Helper()
	store := storage.NewMemoryStore()
	ctx := context.Background()

	registry, err := NewCategories(ctx, store)
	require.NoError(t, err)
	incomes, err := NewIncomes(ctx, store, registry)
	require.NoError(t, err)
	return incomes, registry
}

func TestIncomes_Add(t *testing.T) {
	incomes, registry := newTestIncomes(t)
	cat := foodCategory(t, registry)

	inc, err := incomes.Add(context.Background(), IncomeDraft{
		Amount:        decimal.NewFromInt(5000),
		CategoryID:    cat.ID,
		Date:          model.NewDate(2024, time.March, 1),
		PaymentMethod: "bank_transfer",
		IsRecurring:   true,
		Frequency:     model.FrequencyMonthly,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, inc.ID)
	assert.True(t, inc.IsRecurring)
	assert.Equal(t, model.FrequencyMonthly, inc.Frequency)

	stored, ok := incomes.GetByID(inc.ID)
	require.True(t, ok)
	assert.Equal(t, inc, stored)
}

func TestIncomes_AddValidation(t *testing.T) {
	incomes, registry := newTestIncomes(t)
	cat := foodCategory(t, registry)
	ctx := context.Background()
	day := model.NewDate(2024, time.March, 1)

	_, err := incomes.Add(ctx, IncomeDraft{Amount: decimal.Zero, CategoryID: cat.ID, Date: day})
	assert.True(t, common.IsValidation(err))

	_, err = incomes.Add(ctx, IncomeDraft{Amount: decimal.NewFromInt(5), CategoryID: "nope", Date: day})
	assert.True(t, common.IsValidation(err))

	assert.Empty(t, incomes.List())
}

func TestIncomes_UpdateAndRemove(t *testing.T) {
	incomes, registry := newTestIncomes(t)
	cat := foodCategory(t, registry)
	ctx := context.Background()

	inc, err := incomes.Add(ctx, IncomeDraft{
		Amount:     decimal.NewFromInt(100),
		CategoryID: cat.ID,
		Date:       model.NewDate(2024, time.March, 1),
	})
	require.NoError(t, err)

	recurring := true
	freq := model.FrequencyWeekly
	require.NoError(t, incomes.Update(ctx, inc.ID, IncomeUpdate{IsRecurring: &recurring, Frequency: &freq}))

	got, _ := incomes.GetByID(inc.ID)
	assert.True(t, got.IsRecurring)
	assert.Equal(t, model.FrequencyWeekly, got.Frequency)

	// A zero date would drop the income from every date-range query.
	var zeroDate model.Date
	err = incomes.Update(ctx, inc.ID, IncomeUpdate{Date: &zeroDate})
	assert.True(t, common.IsValidation(err))
	got, _ = incomes.GetByID(inc.ID)
	assert.False(t, got.Date.IsZero())

	require.NoError(t, incomes.Remove(ctx, inc.ID))
	assert.Empty(t, incomes.List())
}

func TestIncomes_ListByDateRange(t *testing.T) {
	incomes, registry := newTestIncomes(t)
	cat := foodCategory(t, registry)
	ctx := context.Background()

	_, err := incomes.Add(ctx, IncomeDraft{Amount: decimal.NewFromInt(1), CategoryID: cat.ID, Date: model.NewDate(2024, time.March, 1)})
	require.NoError(t, err)
	_, err = incomes.Add(ctx, IncomeDraft{Amount: decimal.NewFromInt(2), CategoryID: cat.ID, Date: model.NewDate(2024, time.April, 1)})
	require.NoError(t, err)

	got := incomes.ListByDateRange(model.NewDate(2024, time.March, 1), model.NewDate(2024, time.March, 31))
	require.Len(t, got, 1)
	assert.True(t, got[0].Amount.Equal(decimal.NewFromInt(1)))
}
