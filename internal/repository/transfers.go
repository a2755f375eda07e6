package repository

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tallyhq/tally/internal/common"
	"github.com/tallyhq/tally/internal/model"
	"github.com/tallyhq/tally/internal/storage"
)

// Transfers owns the transfer collection. Balance effects are the ledger's
// responsibility; this repository only stores the records.
type Transfers struct {
	store storage.Store
	items []model.Transfer
}

// NewTransfers loads the transfer collection.
func NewTransfers(ctx context.Context, store storage.Store) (*Transfers, error) {
	items, err := loadCollection[model.Transfer](ctx, store, storage.KeyTransfers)
	if err != nil {
		return nil, err
	}
	return &Transfers{store: store, items: items}, nil
}

// TransferDraft carries the caller-supplied fields for a new transfer.
// Account ids are optional; legacy transfers carry coarse type tags instead.
type TransferDraft struct {
	Amount        decimal.Decimal
	FromAccountID string
	ToAccountID   string
	FromType      model.AccountCategory
	ToType        model.AccountCategory
	Date          model.Date
	Note          string
}

// Validate checks a draft without storing anything.
func (d TransferDraft) Validate() error {
	if !d.Amount.IsPositive() {
		return common.NewValidationError("amount", "must be greater than zero")
	}
	if d.FromAccountID != "" && d.FromAccountID == d.ToAccountID {
		return fmt.Errorf("transfer: %w", common.ErrSameAccount)
	}
	if d.Date.IsZero() {
		return common.NewValidationError("date", "is required")
	}
	return nil
}

// Add stores a new transfer record and returns it with id and timestamps
// assigned.
func (r *Transfers) Add(ctx context.Context, draft TransferDraft) (model.Transfer, error) {
	if err := draft.Validate(); err != nil {
		return model.Transfer{}, err
	}

	tr := model.Transfer{
		ID:            newID(),
		Amount:        draft.Amount,
		FromAccountID: draft.FromAccountID,
		ToAccountID:   draft.ToAccountID,
		FromType:      draft.FromType,
		ToType:        draft.ToType,
		Date:          draft.Date,
		Note:          draft.Note,
		CreatedAt:     nowMillis(),
	}
	tr.UpdatedAt = tr.CreatedAt

	r.items = append(r.items, tr)
	if err := r.persist(ctx); err != nil {
		r.items = r.items[:len(r.items)-1]
		return model.Transfer{}, err
	}
	return tr, nil
}

// Replace swaps the stored record with the given one, bumping updatedAt.
// Used by the ledger's edit sequence, which has already computed balance
// deltas from the old record.
func (r *Transfers) Replace(ctx context.Context, updated model.Transfer) error {
	idx := r.indexOf(updated.ID)
	if idx < 0 {
		return fmt.Errorf("transfer %s: %w", updated.ID, common.ErrNotFound)
	}

	snapshot := r.items[idx]
	updated.CreatedAt = snapshot.CreatedAt
	updated.UpdatedAt = nowMillis()
	r.items[idx] = updated
	if err := r.persist(ctx); err != nil {
		r.items[idx] = snapshot
		return err
	}
	return nil
}

// Remove deletes the transfer with the given id, if present.
func (r *Transfers) Remove(ctx context.Context, id string) error {
	idx := r.indexOf(id)
	if idx < 0 {
		return nil
	}

	removed := r.items[idx]
	r.items = append(r.items[:idx], r.items[idx+1:]...)
	if err := r.persist(ctx); err != nil {
		r.items = append(r.items[:idx], append([]model.Transfer{removed}, r.items[idx:]...)...)
		return err
	}
	return nil
}

// GetByID returns the transfer and whether it exists.
func (r *Transfers) GetByID(id string) (model.Transfer, bool) {
	idx := r.indexOf(id)
	if idx < 0 {
		return model.Transfer{}, false
	}
	return r.items[idx], true
}

// List returns a copy of all transfers.
func (r *Transfers) List() []model.Transfer {
	out := make([]model.Transfer, len(r.items))
	copy(out, r.items)
	return out
}

// Import merges transfers by id, skipping ids already present. Imported
// records are stored as-is; their balance effects are assumed to already be
// reflected in the imported account balances.
func (r *Transfers) Import(ctx context.Context, transfers []model.Transfer) (int, error) {
	existing := make(map[string]struct{}, len(r.items))
	for _, tr := range r.items {
		existing[tr.ID] = struct{}{}
	}

	added := 0
	for _, tr := range transfers {
		if _, ok := existing[tr.ID]; ok {
			continue
		}
		existing[tr.ID] = struct{}{}
		r.items = append(r.items, tr)
		added++
	}
	if added == 0 {
		return 0, nil
	}
	if err := r.persist(ctx); err != nil {
		r.items = r.items[:len(r.items)-added]
		return 0, err
	}
	return added, nil
}

// ClearAll wipes the collection.
func (r *Transfers) ClearAll(ctx context.Context) error {
	snapshot := r.items
	r.items = nil
	if err := r.store.Remove(ctx, storage.KeyTransfers); err != nil {
		r.items = snapshot
		return err
	}
	return nil
}

func (r *Transfers) indexOf(id string) int {
	for i, tr := range r.items {
		if tr.ID == id {
			return i
		}
	}
	return -1
}

func (r *Transfers) persist(ctx context.Context) error {
	if err := r.store.Set(ctx, storage.KeyTransfers, r.items); err != nil {
		return fmt.Errorf("failed to persist transfers: %w", err)
	}
	return nil
}
