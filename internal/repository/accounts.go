package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tallyhq/tally/internal/common"
	"github.com/tallyhq/tally/internal/model"
	"github.com/tallyhq/tally/internal/storage"
)

// Accounts owns the account collection. It enforces the single-default
// invariant and keeps sort order dense after reorders and removals.
type Accounts struct {
	store storage.Store
	items []model.Account
}

// NewAccounts loads the account collection.
func NewAccounts(ctx context.Context, store storage.Store) (*Accounts, error) {
	items, err := loadCollection[model.Account](ctx, store, storage.KeyAccounts)
	if err != nil {
		return nil, err
	}
	return &Accounts{store: store, items: items}, nil
}

// AccountDraft carries the caller-supplied fields for a new account.
type AccountDraft struct {
	Name               string
	Category           model.AccountCategory
	OpeningBalance     decimal.Decimal
	CreditLimit        *decimal.Decimal
	OutstandingBalance *decimal.Decimal
	IsDefault          bool
}

// Add stores a new account. The current balance starts at the opening
// balance; sort order is appended at the end. Setting IsDefault clears the
// flag on every other account in the same persisted write.
func (r *Accounts) Add(ctx context.Context, draft AccountDraft) (model.Account, error) {
	if strings.TrimSpace(draft.Name) == "" {
		return model.Account{}, common.NewValidationError("name", "cannot be empty")
	}
	if !model.ValidAccountCategory(draft.Category) {
		return model.Account{}, common.NewValidationError("category",
			fmt.Sprintf("unknown account category %q", draft.Category))
	}

	acc := model.Account{
		ID:                 newID(),
		Name:               strings.TrimSpace(draft.Name),
		Category:           draft.Category,
		OpeningBalance:     draft.OpeningBalance,
		CurrentBalance:     draft.OpeningBalance,
		CreditLimit:        draft.CreditLimit,
		OutstandingBalance: draft.OutstandingBalance,
		IsActive:           true,
		IsDefault:          draft.IsDefault,
		SortOrder:          len(r.items),
		CreatedAt:          nowMillis(),
	}
	acc.UpdatedAt = acc.CreatedAt

	snapshot := r.snapshot()
	if draft.IsDefault {
		r.clearDefault()
	}
	r.items = append(r.items, acc)
	if err := r.persist(ctx); err != nil {
		r.items = snapshot
		return model.Account{}, err
	}
	return acc, nil
}

// AccountUpdate carries partial field changes; nil fields are left as-is.
type AccountUpdate struct {
	Name               *string
	Category           *model.AccountCategory
	OpeningBalance     *decimal.Decimal
	CreditLimit        *decimal.Decimal
	OutstandingBalance *decimal.Decimal
	IsActive           *bool
	IsDefault          *bool
}

// Update merges the given fields into the stored account and bumps
// updatedAt. Absent ids are a no-op. Changing the opening balance shifts
// the current balance by the same delta so applied transactions stay
// reflected.
func (r *Accounts) Update(ctx context.Context, id string, update AccountUpdate) error {
	idx := r.indexOf(id)
	if idx < 0 {
		return nil
	}

	// Validate everything before touching the stored record.
	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		return common.NewValidationError("name", "cannot be empty")
	}
	if update.Category != nil && !model.ValidAccountCategory(*update.Category) {
		return common.NewValidationError("category",
			fmt.Sprintf("unknown account category %q", *update.Category))
	}

	snapshot := r.snapshot()
	acc := &r.items[idx]
	if update.Name != nil {
		acc.Name = strings.TrimSpace(*update.Name)
	}
	if update.Category != nil {
		acc.Category = *update.Category
	}
	if update.OpeningBalance != nil {
		shift := update.OpeningBalance.Sub(acc.OpeningBalance)
		acc.OpeningBalance = *update.OpeningBalance
		acc.CurrentBalance = acc.CurrentBalance.Add(shift)
	}
	if update.CreditLimit != nil {
		acc.CreditLimit = update.CreditLimit
	}
	if update.OutstandingBalance != nil {
		acc.OutstandingBalance = update.OutstandingBalance
	}
	if update.IsActive != nil {
		acc.IsActive = *update.IsActive
	}
	if update.IsDefault != nil {
		if *update.IsDefault {
			r.clearDefault()
		}
		r.items[idx].IsDefault = *update.IsDefault
	}
	r.items[idx].UpdatedAt = nowMillis()

	if err := r.persist(ctx); err != nil {
		r.items = snapshot
		return err
	}
	return nil
}

// SetDefault marks the given account as the single default.
func (r *Accounts) SetDefault(ctx context.Context, id string) error {
	if r.indexOf(id) < 0 {
		return fmt.Errorf("account %s: %w", id, common.ErrNotFound)
	}
	isDefault := true
	return r.Update(ctx, id, AccountUpdate{IsDefault: &isDefault})
}

// Remove deletes the account and re-densifies sort order. Transactions that
// reference the account are left untouched; analytics resolves the dangling
// id as an unknown account.
func (r *Accounts) Remove(ctx context.Context, id string) error {
	idx := r.indexOf(id)
	if idx < 0 {
		return nil
	}

	snapshot := r.snapshot()
	r.items = append(r.items[:idx], r.items[idx+1:]...)
	r.renumber()
	if err := r.persist(ctx); err != nil {
		r.items = snapshot
		return err
	}
	return nil
}

// Reorder rearranges accounts to match orderedIDs and reassigns dense sort
// order. Every existing account must appear exactly once.
func (r *Accounts) Reorder(ctx context.Context, orderedIDs []string) error {
	if len(orderedIDs) != len(r.items) {
		return common.NewValidationError("order",
			fmt.Sprintf("expected %d ids, got %d", len(r.items), len(orderedIDs)))
	}

	byID := make(map[string]model.Account, len(r.items))
	for _, acc := range r.items {
		byID[acc.ID] = acc
	}

	reordered := make([]model.Account, 0, len(orderedIDs))
	for _, id := range orderedIDs {
		acc, ok := byID[id]
		if !ok {
			return common.NewValidationError("order", fmt.Sprintf("unknown or repeated account id %s", id))
		}
		delete(byID, id)
		reordered = append(reordered, acc)
	}

	snapshot := r.snapshot()
	r.items = reordered
	r.renumber()
	if err := r.persist(ctx); err != nil {
		r.items = snapshot
		return err
	}
	return nil
}

// ApplyBalanceDeltas shifts currentBalance by the given delta for each
// account id, in one persisted write. Ids that no longer resolve are
// skipped; the account may have been legitimately deleted after the
// transaction was created.
func (r *Accounts) ApplyBalanceDeltas(ctx context.Context, deltas map[string]decimal.Decimal) error {
	if len(deltas) == 0 {
		return nil
	}

	snapshot := r.snapshot()
	touched := false
	for i := range r.items {
		delta, ok := deltas[r.items[i].ID]
		if !ok || delta.IsZero() {
			continue
		}
		r.items[i].CurrentBalance = r.items[i].CurrentBalance.Add(delta)
		r.items[i].UpdatedAt = nowMillis()
		touched = true
	}
	if !touched {
		return nil
	}
	if err := r.persist(ctx); err != nil {
		r.items = snapshot
		return err
	}
	return nil
}

// GetByID returns the account and whether it exists.
func (r *Accounts) GetByID(id string) (model.Account, bool) {
	idx := r.indexOf(id)
	if idx < 0 {
		return model.Account{}, false
	}
	return r.items[idx], true
}

// Default returns the default account, if one is set.
func (r *Accounts) Default() (model.Account, bool) {
	for _, acc := range r.items {
		if acc.IsDefault {
			return acc, true
		}
	}
	return model.Account{}, false
}

// List returns a copy of all accounts. Callers sort by SortOrder for
// display.
func (r *Accounts) List() []model.Account {
	out := make([]model.Account, len(r.items))
	copy(out, r.items)
	return out
}

// Import merges accounts by id, skipping ids already present.
func (r *Accounts) Import(ctx context.Context, accounts []model.Account) (int, error) {
	existing := make(map[string]struct{}, len(r.items))
	for _, acc := range r.items {
		existing[acc.ID] = struct{}{}
	}

	snapshot := r.snapshot()
	added := 0
	for _, acc := range accounts {
		if _, ok := existing[acc.ID]; ok {
			continue
		}
		existing[acc.ID] = struct{}{}
		if acc.IsDefault {
			// Imported defaults yield to an existing default.
			if _, hasDefault := r.Default(); hasDefault {
				acc.IsDefault = false
			}
		}
		acc.SortOrder = len(r.items)
		r.items = append(r.items, acc)
		added++
	}
	if added == 0 {
		return 0, nil
	}
	if err := r.persist(ctx); err != nil {
		r.items = snapshot
		return 0, err
	}
	return added, nil
}

// ClearAll wipes the collection.
func (r *Accounts) ClearAll(ctx context.Context) error {
	snapshot := r.items
	r.items = nil
	if err := r.store.Remove(ctx, storage.KeyAccounts); err != nil {
		r.items = snapshot
		return err
	}
	return nil
}

func (r *Accounts) indexOf(id string) int {
	for i, acc := range r.items {
		if acc.ID == id {
			return i
		}
	}
	return -1
}

func (r *Accounts) clearDefault() {
	for i := range r.items {
		r.items[i].IsDefault = false
	}
}

func (r *Accounts) renumber() {
	for i := range r.items {
		r.items[i].SortOrder = i
	}
}

func (r *Accounts) snapshot() []model.Account {
	out := make([]model.Account, len(r.items))
	copy(out, r.items)
	return out
}

func (r *Accounts) persist(ctx context.Context) error {
	if err := r.store.Set(ctx, storage.KeyAccounts, r.items); err != nil {
		return fmt.Errorf("failed to persist accounts: %w", err)
	}
	return nil
}
