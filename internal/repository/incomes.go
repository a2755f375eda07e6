package repository

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tallyhq/tally/internal/common"
	"github.com/tallyhq/tally/internal/model"
	"github.com/tallyhq/tally/internal/storage"
)

// Incomes owns the income collection.
type Incomes struct {
	store      storage.Store
	categories CategoryResolver
	items      []model.Income
}

// NewIncomes loads the income collection.
func NewIncomes(ctx context.Context, store storage.Store, categories CategoryResolver) (*Incomes, error) {
	items, err := loadCollection[model.Income](ctx, store, storage.KeyIncomes)
	if err != nil {
		return nil, err
	}
	return &Incomes{store: store, categories: categories, items: items}, nil
}

// IncomeDraft carries the caller-supplied fields for a new income.
type IncomeDraft struct {
	Amount        decimal.Decimal
	CategoryID    string
	AccountID     string
	Date          model.Date
	Note          string
	PaymentMethod string
	IsRecurring   bool
	Frequency     model.RecurringFrequency
}

// Add stores a new income record and returns it with id and timestamps
// assigned. The recurring flag and frequency are metadata only.
func (r *Incomes) Add(ctx context.Context, draft IncomeDraft) (model.Income, error) {
	if !draft.Amount.IsPositive() {
		return model.Income{}, common.NewValidationError("amount", "must be greater than zero")
	}
	if _, ok := r.categories.GetByID(draft.CategoryID); !ok {
		return model.Income{}, common.NewValidationError("categoryId",
			fmt.Sprintf("category %s does not exist", draft.CategoryID))
	}
	if draft.Date.IsZero() {
		return model.Income{}, common.NewValidationError("date", "is required")
	}

	inc := model.Income{
		ID:            newID(),
		Amount:        draft.Amount,
		CategoryID:    draft.CategoryID,
		AccountID:     draft.AccountID,
		Date:          draft.Date,
		Note:          draft.Note,
		PaymentMethod: draft.PaymentMethod,
		IsRecurring:   draft.IsRecurring,
		Frequency:     draft.Frequency,
		CreatedAt:     nowMillis(),
	}
	inc.UpdatedAt = inc.CreatedAt

	r.items = append(r.items, inc)
	if err := r.persist(ctx); err != nil {
		r.items = r.items[:len(r.items)-1]
		return model.Income{}, err
	}
	return inc, nil
}

// IncomeUpdate carries partial field changes; nil fields are left as-is.
type IncomeUpdate struct {
	Amount        *decimal.Decimal
	CategoryID    *string
	AccountID     *string
	Date          *model.Date
	Note          *string
	PaymentMethod *string
	IsRecurring   *bool
	Frequency     *model.RecurringFrequency
}

// Update merges the given fields and bumps updatedAt. Absent ids are a
// no-op.
func (r *Incomes) Update(ctx context.Context, id string, update IncomeUpdate) error {
	idx := r.indexOf(id)
	if idx < 0 {
		return nil
	}

	if update.Amount != nil && !update.Amount.IsPositive() {
		return common.NewValidationError("amount", "must be greater than zero")
	}
	if update.CategoryID != nil {
		if _, ok := r.categories.GetByID(*update.CategoryID); !ok {
			return common.NewValidationError("categoryId",
				fmt.Sprintf("category %s does not exist", *update.CategoryID))
		}
	}
	if update.Date != nil && update.Date.IsZero() {
		return common.NewValidationError("date", "is required")
	}

	snapshot := r.items[idx]
	inc := &r.items[idx]
	if update.Amount != nil {
		inc.Amount = *update.Amount
	}
	if update.CategoryID != nil {
		inc.CategoryID = *update.CategoryID
	}
	if update.AccountID != nil {
		inc.AccountID = *update.AccountID
	}
	if update.Date != nil {
		inc.Date = *update.Date
	}
	if update.Note != nil {
		inc.Note = *update.Note
	}
	if update.PaymentMethod != nil {
		inc.PaymentMethod = *update.PaymentMethod
	}
	if update.IsRecurring != nil {
		inc.IsRecurring = *update.IsRecurring
	}
	if update.Frequency != nil {
		inc.Frequency = *update.Frequency
	}
	inc.UpdatedAt = nowMillis()

	if err := r.persist(ctx); err != nil {
		r.items[idx] = snapshot
		return err
	}
	return nil
}

// Remove deletes the income with the given id, if present.
func (r *Incomes) Remove(ctx context.Context, id string) error {
	idx := r.indexOf(id)
	if idx < 0 {
		return nil
	}

	removed := r.items[idx]
	r.items = append(r.items[:idx], r.items[idx+1:]...)
	if err := r.persist(ctx); err != nil {
		r.items = append(r.items[:idx], append([]model.Income{removed}, r.items[idx:]...)...)
		return err
	}
	return nil
}

// GetByID returns the income and whether it exists.
func (r *Incomes) GetByID(id string) (model.Income, bool) {
	idx := r.indexOf(id)
	if idx < 0 {
		return model.Income{}, false
	}
	return r.items[idx], true
}

// List returns a copy of all income records.
func (r *Incomes) List() []model.Income {
	out := make([]model.Income, len(r.items))
	copy(out, r.items)
	return out
}

// ListByDateRange returns income records whose date falls within [start, end].
func (r *Incomes) ListByDateRange(start, end model.Date) []model.Income {
	var out []model.Income
	for _, inc := range r.items {
		if inc.Date.Before(start) || inc.Date.After(end) {
			continue
		}
		out = append(out, inc)
	}
	return out
}

// Import merges income records by id, skipping ids already present.
func (r *Incomes) Import(ctx context.Context, incomes []model.Income) (int, error) {
	existing := make(map[string]struct{}, len(r.items))
	for _, inc := range r.items {
		existing[inc.ID] = struct{}{}
	}

	added := 0
	for _, inc := range incomes {
		if _, ok := existing[inc.ID]; ok {
			continue
		}
		existing[inc.ID] = struct{}{}
		r.items = append(r.items, inc)
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
func (r *Incomes) ClearAll(ctx context.Context) error {
	snapshot := r.items
	r.items = nil
	if err := r.store.Remove(ctx, storage.KeyIncomes); err != nil {
		r.items = snapshot
		return err
	}
	return nil
}

func (r *Incomes) indexOf(id string) int {
	for i, inc := range r.items {
		if inc.ID == id {
			return i
		}
	}
	return -1
}

func (r *Incomes) persist(ctx context.Context) error {
	if err := r.store.Set(ctx, storage.KeyIncomes, r.items); err != nil {
		return fmt.Errorf("failed to persist incomes: %w", err)
	}
	return nil
}
