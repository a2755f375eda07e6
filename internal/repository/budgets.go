package repository

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tallyhq/tally/internal/common"
	"github.com/tallyhq/tally/internal/model"
	"github.com/tallyhq/tally/internal/storage"
)

// ExpenseSource is the read-only expense access budgets use to derive
// status. Implemented by the Expenses repository.
type ExpenseSource interface {
	ListByDateRange(start, end model.Date) []model.Expense
}

// Budgets owns the budget collection. Stored budgets hold only the limit;
// spent/remaining/percentage are derived on demand.
type Budgets struct {
	store      storage.Store
	categories CategoryResolver
	items      []model.Budget
}

// NewBudgets loads the budget collection.
func NewBudgets(ctx context.Context, store storage.Store, categories CategoryResolver) (*Budgets, error) {
	items, err := loadCollection[model.Budget](ctx, store, storage.KeyBudgets)
	if err != nil {
		return nil, err
	}
	return &Budgets{store: store, categories: categories, items: items}, nil
}

// BudgetDraft carries the caller-supplied fields for a new budget.
type BudgetDraft struct {
	Month      string // 2006-01
	CategoryID string
	Limit      decimal.Decimal
	Rollover   bool
}

// Add stores a new budget. One budget per month+category; a duplicate pair
// is rejected before any mutation.
func (r *Budgets) Add(ctx context.Context, draft BudgetDraft) (model.Budget, error) {
	if _, _, err := model.MonthBounds(draft.Month); err != nil {
		return model.Budget{}, common.NewValidationError("month", "must be in YYYY-MM form")
	}
	if !draft.Limit.IsPositive() {
		return model.Budget{}, common.NewValidationError("amount", "must be greater than zero")
	}
	if _, ok := r.categories.GetByID(draft.CategoryID); !ok {
		return model.Budget{}, common.NewValidationError("categoryId",
			fmt.Sprintf("category %s does not exist", draft.CategoryID))
	}
	for _, b := range r.items {
		if b.Month == draft.Month && b.CategoryID == draft.CategoryID {
			return model.Budget{}, common.NewValidationError("month",
				fmt.Sprintf("budget for this category already exists in %s", draft.Month))
		}
	}

	budget := model.Budget{
		ID:         newID(),
		Month:      draft.Month,
		CategoryID: draft.CategoryID,
		Limit:      draft.Limit,
		Rollover:   draft.Rollover,
		CreatedAt:  nowMillis(),
	}
	budget.UpdatedAt = budget.CreatedAt

	r.items = append(r.items, budget)
	if err := r.persist(ctx); err != nil {
		r.items = r.items[:len(r.items)-1]
		return model.Budget{}, err
	}
	return budget, nil
}

// BudgetUpdate carries partial field changes; nil fields are left as-is.
type BudgetUpdate struct {
	Limit    *decimal.Decimal
	Rollover *bool
}

// Update merges the given fields and bumps updatedAt. Absent ids are a
// no-op.
func (r *Budgets) Update(ctx context.Context, id string, update BudgetUpdate) error {
	idx := r.indexOf(id)
	if idx < 0 {
		return nil
	}
	if update.Limit != nil && !update.Limit.IsPositive() {
		return common.NewValidationError("amount", "must be greater than zero")
	}

	snapshot := r.items[idx]
	if update.Limit != nil {
		r.items[idx].Limit = *update.Limit
	}
	if update.Rollover != nil {
		r.items[idx].Rollover = *update.Rollover
	}
	r.items[idx].UpdatedAt = nowMillis()

	if err := r.persist(ctx); err != nil {
		r.items[idx] = snapshot
		return err
	}
	return nil
}

// Remove deletes the budget with the given id, if present.
func (r *Budgets) Remove(ctx context.Context, id string) error {
	idx := r.indexOf(id)
	if idx < 0 {
		return nil
	}

	removed := r.items[idx]
	r.items = append(r.items[:idx], r.items[idx+1:]...)
	if err := r.persist(ctx); err != nil {
		r.items = append(r.items[:idx], append([]model.Budget{removed}, r.items[idx:]...)...)
		return err
	}
	return nil
}

// GetByID returns the budget and whether it exists.
func (r *Budgets) GetByID(id string) (model.Budget, bool) {
	idx := r.indexOf(id)
	if idx < 0 {
		return model.Budget{}, false
	}
	return r.items[idx], true
}

// List returns a copy of all budgets.
func (r *Budgets) List() []model.Budget {
	out := make([]model.Budget, len(r.items))
	copy(out, r.items)
	return out
}

// ListByMonth returns budgets for the given 2006-01 month key.
func (r *Budgets) ListByMonth(month string) []model.Budget {
	var out []model.Budget
	for _, b := range r.items {
		if b.Month == month {
			out = append(out, b)
		}
	}
	return out
}

// Status derives spent/remaining/percentage for one budget from the expense
// collection. Percentage is 0 for a zero limit, never NaN.
func (r *Budgets) Status(budget model.Budget, expenses ExpenseSource) (model.BudgetStatus, error) {
	start, end, err := model.MonthBounds(budget.Month)
	if err != nil {
		return model.BudgetStatus{}, err
	}

	spent := decimal.Zero
	for _, exp := range expenses.ListByDateRange(start, end) {
		if exp.CategoryID == budget.CategoryID {
			spent = spent.Add(exp.Amount)
		}
	}

	status := model.BudgetStatus{
		Budget:       budget,
		Spent:        spent,
		Remaining:    budget.Limit.Sub(spent),
		IsOverBudget: spent.GreaterThan(budget.Limit),
	}
	if budget.Limit.IsPositive() {
		pct, _ := spent.Div(budget.Limit).Mul(decimal.NewFromInt(100)).Float64()
		status.Percentage = pct
	}
	return status, nil
}

// Import merges budgets by id, skipping ids already present.
func (r *Budgets) Import(ctx context.Context, budgets []model.Budget) (int, error) {
	existing := make(map[string]struct{}, len(r.items))
	for _, b := range r.items {
		existing[b.ID] = struct{}{}
	}

	added := 0
	for _, b := range budgets {
		if _, ok := existing[b.ID]; ok {
			continue
		}
		existing[b.ID] = struct{}{}
		r.items = append(r.items, b)
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
func (r *Budgets) ClearAll(ctx context.Context) error {
	snapshot := r.items
	r.items = nil
	if err := r.store.Remove(ctx, storage.KeyBudgets); err != nil {
		r.items = snapshot
		return err
	}
	return nil
}

func (r *Budgets) indexOf(id string) int {
	for i, b := range r.items {
		if b.ID == id {
			return i
		}
	}
	return -1
}

func (r *Budgets) persist(ctx context.Context) error {
	if err := r.store.Set(ctx, storage.KeyBudgets, r.items); err != nil {
		return fmt.Errorf("failed to persist budgets: %w", err)
	}
	return nil
}
