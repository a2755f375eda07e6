package repository

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallyhq/tally/internal/common"
	"github.com/tallyhq/tally/internal/model"
	"github.com/tallyhq/tally/internal/storage"
)

func newTestAccounts(t *testing.T) *Accounts {
	t.Helper()
	accounts, err := NewAccounts(context.Background(), storage.NewMemoryStore())
	require.NoError(t, err)
	return accounts
}

func addAccount(t *testing.T, accounts *Accounts, name string, opening int64, isDefault bool) model.Account {
	t.Helper()
	acc, err := accounts.Add(context.Background(), AccountDraft{
		Name:           name,
		Category:       model.AccountBank,
		OpeningBalance: decimal.NewFromInt(opening),
		IsDefault:      isDefault,
	})
	require.NoError(t, err)
	return acc
}

func countDefaults(accounts *Accounts) int {
	n := 0
	for _, acc := range accounts.List() {
		if acc.IsDefault {
			n++
		}
	}
	return n
}

func TestAccounts_Add(t *testing.T) {
	accounts := newTestAccounts(t)

	acc := addAccount(t, accounts, "Checking", 1000, false)
	assert.True(t, acc.CurrentBalance.Equal(decimal.NewFromInt(1000)))
	assert.True(t, acc.OpeningBalance.Equal(decimal.NewFromInt(1000)))
	assert.True(t, acc.IsActive)
	assert.Equal(t, 0, acc.SortOrder)

	second := addAccount(t, accounts, "Savings", 0, false)
	assert.Equal(t, 1, second.SortOrder)
}

func TestAccounts_AddValidation(t *testing.T) {
	accounts := newTestAccounts(t)
	ctx := context.Background()

	_, err := accounts.Add(ctx, AccountDraft{Name: "  ", Category: model.AccountBank})
	assert.True(t, common.IsValidation(err))

	_, err = accounts.Add(ctx, AccountDraft{Name: "X", Category: "checking"})
	assert.True(t, common.IsValidation(err))
}

func TestAccounts_SingleDefaultInvariant(t *testing.T) {
	accounts := newTestAccounts(t)
	ctx := context.Background()

	a := addAccount(t, accounts, "A", 0, true)
	b := addAccount(t, accounts, "B", 0, true)
	assert.Equal(t, 1, countDefaults(accounts))

	def, ok := accounts.Default()
	require.True(t, ok)
	assert.Equal(t, b.ID, def.ID)

	// Flipping back via SetDefault keeps the invariant.
	require.NoError(t, accounts.SetDefault(ctx, a.ID))
	assert.Equal(t, 1, countDefaults(accounts))
	def, _ = accounts.Default()
	assert.Equal(t, a.ID, def.ID)

	// Update path enforces it too.
	isDefault := true
	require.NoError(t, accounts.Update(ctx, b.ID, AccountUpdate{IsDefault: &isDefault}))
	assert.Equal(t, 1, countDefaults(accounts))

	// Clearing the flag may leave zero defaults.
	isDefault = false
	require.NoError(t, accounts.Update(ctx, b.ID, AccountUpdate{IsDefault: &isDefault}))
	assert.Equal(t, 0, countDefaults(accounts))

	assert.ErrorIs(t, accounts.SetDefault(ctx, "missing"), common.ErrNotFound)
}

func TestAccounts_RemoveKeepsSortOrderDense(t *testing.T) {
	accounts := newTestAccounts(t)
	ctx := context.Background()

	a := addAccount(t, accounts, "A", 0, false)
	b := addAccount(t, accounts, "B", 0, false)
	c := addAccount(t, accounts, "C", 0, false)
	_ = a

	require.NoError(t, accounts.Remove(ctx, b.ID))

	list := accounts.List()
	require.Len(t, list, 2)
	orders := []int{list[0].SortOrder, list[1].SortOrder}
	assert.ElementsMatch(t, []int{0, 1}, orders)

	got, ok := accounts.GetByID(c.ID)
	require.True(t, ok)
	assert.Equal(t, 1, got.SortOrder)

	// Removing an absent id is a no-op.
	require.NoError(t, accounts.Remove(ctx, "missing"))
	assert.Len(t, accounts.List(), 2)
}

func TestAccounts_Reorder(t *testing.T) {
	accounts := newTestAccounts(t)
	ctx := context.Background()

	a := addAccount(t, accounts, "A", 0, false)
	b := addAccount(t, accounts, "B", 0, false)
	c := addAccount(t, accounts, "C", 0, false)

	require.NoError(t, accounts.Reorder(ctx, []string{c.ID, a.ID, b.ID}))

	got, _ := accounts.GetByID(c.ID)
	assert.Equal(t, 0, got.SortOrder)
	got, _ = accounts.GetByID(a.ID)
	assert.Equal(t, 1, got.SortOrder)
	got, _ = accounts.GetByID(b.ID)
	assert.Equal(t, 2, got.SortOrder)

	// Wrong cardinality and unknown ids are rejected.
	assert.True(t, common.IsValidation(accounts.Reorder(ctx, []string{a.ID})))
	assert.True(t, common.IsValidation(accounts.Reorder(ctx, []string{a.ID, b.ID, "zzz"})))
	assert.True(t, common.IsValidation(accounts.Reorder(ctx, []string{a.ID, a.ID, b.ID})))
}

func TestAccounts_UpdateOpeningBalanceShiftsCurrent(t *testing.T) {
	accounts := newTestAccounts(t)
	ctx := context.Background()

	acc := addAccount(t, accounts, "A", 1000, false)

	// Simulate an applied transaction.
	require.NoError(t, accounts.ApplyBalanceDeltas(ctx, map[string]decimal.Decimal{
		acc.ID: decimal.NewFromInt(-200),
	}))

	opening := decimal.NewFromInt(1500)
	require.NoError(t, accounts.Update(ctx, acc.ID, AccountUpdate{OpeningBalance: &opening}))

	got, _ := accounts.GetByID(acc.ID)
	assert.True(t, got.OpeningBalance.Equal(decimal.NewFromInt(1500)))
	assert.True(t, got.CurrentBalance.Equal(decimal.NewFromInt(1300)),
		"current balance should shift by the opening delta, got %s", got.CurrentBalance)
}

func TestAccounts_UpdateAbsentIDIsNoOp(t *testing.T) {
	accounts := newTestAccounts(t)
	name := "Ghost"
	require.NoError(t, accounts.Update(context.Background(), "missing", AccountUpdate{Name: &name}))
	assert.Empty(t, accounts.List())
}

func TestAccounts_ApplyBalanceDeltasSkipsMissing(t *testing.T) {
	accounts := newTestAccounts(t)
	ctx := context.Background()

	acc := addAccount(t, accounts, "A", 100, false)

	require.NoError(t, accounts.ApplyBalanceDeltas(ctx, map[string]decimal.Decimal{
		acc.ID:    decimal.NewFromInt(50),
		"deleted": decimal.NewFromInt(-9999),
	}))

	got, _ := accounts.GetByID(acc.ID)
	assert.True(t, got.CurrentBalance.Equal(decimal.NewFromInt(150)))
}

func TestAccounts_ImportSkipsExistingIDs(t *testing.T) {
	accounts := newTestAccounts(t)
	ctx := context.Background()

	acc := addAccount(t, accounts, "A", 100, true)

	imported := []model.Account{
		{ID: acc.ID, Name: "Clone"},
		{ID: "imp-1", Name: "Imported", IsDefault: true},
	}

	added, err := accounts.Import(ctx, imported)
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	// Existing default wins over an imported one.
	assert.Equal(t, 1, countDefaults(accounts))
	def, _ := accounts.Default()
	assert.Equal(t, acc.ID, def.ID)

	// Re-import is a no-op.
	added, err = accounts.Import(ctx, imported)
	require.NoError(t, err)
	assert.Equal(t, 0, added)
	assert.Len(t, accounts.List(), 2)
}

func TestAccounts_ClearAllRestoresOnStoreFailure(t *testing.T) {
	ctx := context.Background()
	store := &removeFailStore{Store: storage.NewMemoryStore(), failKey: storage.KeyAccounts}

	accounts, err := NewAccounts(ctx, store)
	require.NoError(t, err)
	acc, err := accounts.Add(ctx, AccountDraft{
		Name:           "Checking",
		Category:       model.AccountBank,
		OpeningBalance: decimal.NewFromInt(1000),
	})
	require.NoError(t, err)

	require.Error(t, accounts.ClearAll(ctx))
	got, ok := accounts.GetByID(acc.ID)
	require.True(t, ok, "in-memory state must match the store that still holds the collection")
	assert.True(t, got.CurrentBalance.Equal(decimal.NewFromInt(1000)))
}
