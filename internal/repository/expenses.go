package repository

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tallyhq/tally/internal/common"
	"github.com/tallyhq/tally/internal/model"
	"github.com/tallyhq/tally/internal/storage"
)

// CategoryResolver is the read-only registry lookup repositories use to
// validate category references on write.
type CategoryResolver interface {
	GetByID(id string) (model.Category, bool)
}

// Expenses owns the expense collection.
type Expenses struct {
	store      storage.Store
	categories CategoryResolver
	items      []model.Expense
}

// NewExpenses loads the expense collection.
func NewExpenses(ctx context.Context, store storage.Store, categories CategoryResolver) (*Expenses, error) {
	items, err := loadCollection[model.Expense](ctx, store, storage.KeyExpenses)
	if err != nil {
		return nil, err
	}
	return &Expenses{store: store, categories: categories, items: items}, nil
}

// ExpenseDraft carries the caller-supplied fields for a new expense.
type ExpenseDraft struct {
	Amount     decimal.Decimal
	CategoryID string
	AccountID  string
	Date       model.Date
	Note       string
}

func (r *Expenses) validateDraft(amount decimal.Decimal, categoryID string, date model.Date) error {
	if !amount.IsPositive() {
		return common.NewValidationError("amount", "must be greater than zero")
	}
	if _, ok := r.categories.GetByID(categoryID); !ok {
		return common.NewValidationError("categoryId", fmt.Sprintf("category %s does not exist", categoryID))
	}
	if date.IsZero() {
		return common.NewValidationError("date", "is required")
	}
	return nil
}

// Add stores a new expense and returns it with id and timestamps assigned.
func (r *Expenses) Add(ctx context.Context, draft ExpenseDraft) (model.Expense, error) {
	if err := r.validateDraft(draft.Amount, draft.CategoryID, draft.Date); err != nil {
		return model.Expense{}, err
	}

	exp := model.Expense{
		ID:         newID(),
		Amount:     draft.Amount,
		CategoryID: draft.CategoryID,
		AccountID:  draft.AccountID,
		Date:       draft.Date,
		Note:       draft.Note,
		CreatedAt:  nowMillis(),
	}
	exp.UpdatedAt = exp.CreatedAt

	r.items = append(r.items, exp)
	if err := r.persist(ctx); err != nil {
		r.items = r.items[:len(r.items)-1]
		return model.Expense{}, err
	}
	return exp, nil
}

// ExpenseUpdate carries partial field changes; nil fields are left as-is.
type ExpenseUpdate struct {
	Amount     *decimal.Decimal
	CategoryID *string
	AccountID  *string
	Date       *model.Date
	Note       *string
}

// Update merges the given fields and bumps updatedAt. Absent ids are a
// no-op.
func (r *Expenses) Update(ctx context.Context, id string, update ExpenseUpdate) error {
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
	exp := &r.items[idx]
	if update.Amount != nil {
		exp.Amount = *update.Amount
	}
	if update.CategoryID != nil {
		exp.CategoryID = *update.CategoryID
	}
	if update.AccountID != nil {
		exp.AccountID = *update.AccountID
	}
	if update.Date != nil {
		exp.Date = *update.Date
	}
	if update.Note != nil {
		exp.Note = *update.Note
	}
	exp.UpdatedAt = nowMillis()

	if err := r.persist(ctx); err != nil {
		r.items[idx] = snapshot
		return err
	}
	return nil
}

// Remove deletes the expense with the given id, if present.
func (r *Expenses) Remove(ctx context.Context, id string) error {
	idx := r.indexOf(id)
	if idx < 0 {
		return nil
	}

	removed := r.items[idx]
	r.items = append(r.items[:idx], r.items[idx+1:]...)
	if err := r.persist(ctx); err != nil {
		r.items = append(r.items[:idx], append([]model.Expense{removed}, r.items[idx:]...)...)
		return err
	}
	return nil
}

// GetByID returns the expense and whether it exists.
func (r *Expenses) GetByID(id string) (model.Expense, bool) {
	idx := r.indexOf(id)
	if idx < 0 {
		return model.Expense{}, false
	}
	return r.items[idx], true
}

// List returns a copy of all expenses. Order is not meaningful; callers
// sort by date explicitly.
func (r *Expenses) List() []model.Expense {
	out := make([]model.Expense, len(r.items))
	copy(out, r.items)
	return out
}

// ListByDateRange returns expenses whose date falls within [start, end].
func (r *Expenses) ListByDateRange(start, end model.Date) []model.Expense {
	var out []model.Expense
	for _, exp := range r.items {
		if exp.Date.Before(start) || exp.Date.After(end) {
			continue
		}
		out = append(out, exp)
	}
	return out
}

// CountByCategory reports how many expenses reference the category.
func (r *Expenses) CountByCategory(categoryID string) int {
	count := 0
	for _, exp := range r.items {
		if exp.CategoryID == categoryID {
			count++
		}
	}
	return count
}

// Import merges expenses by id, skipping ids already present.
func (r *Expenses) Import(ctx context.Context, expenses []model.Expense) (int, error) {
	existing := make(map[string]struct{}, len(r.items))
	for _, exp := range r.items {
		existing[exp.ID] = struct{}{}
	}

	added := 0
	for _, exp := range expenses {
		if _, ok := existing[exp.ID]; ok {
			continue
		}
		existing[exp.ID] = struct{}{}
		r.items = append(r.items, exp)
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
func (r *Expenses) ClearAll(ctx context.Context) error {
	snapshot := r.items
	r.items = nil
	if err := r.store.Remove(ctx, storage.KeyExpenses); err != nil {
		r.items = snapshot
		return err
	}
	return nil
}

func (r *Expenses) indexOf(id string) int {
	for i, exp := range r.items {
		if exp.ID == id {
			return i
		}
	}
	return -1
}

func (r *Expenses) persist(ctx context.Context) error {
	if err := r.store.Set(ctx, storage.KeyExpenses, r.items); err != nil {
		return fmt.Errorf("failed to persist expenses: %w", err)
	}
	return nil
}
