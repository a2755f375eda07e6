package repository

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tallyhq/tally/internal/common"
	"github.com/tallyhq/tally/internal/model"
	"github.com/tallyhq/tally/internal/storage"
)

// defaultCategories are seeded on first launch, before the user has saved
// anything. System categories can never be deleted.
var defaultCategories = []model.Category{
	{Name: "Food & Dining", Icon: "utensils", Color: "#FF6B6B", IsSystem: true},
	{Name: "Transport", Icon: "car", Color: "#4ECDC4", IsSystem: true},
	{Name: "Shopping", Icon: "shopping-bag", Color: "#FFD93D", IsSystem: true},
	{Name: "Bills & Utilities", Icon: "file-text", Color: "#6C5CE7", IsSystem: true},
	{Name: "Entertainment", Icon: "film", Color: "#FD79A8", IsSystem: true},
	{Name: "Health", Icon: "heart", Color: "#00B894", IsSystem: true},
	{Name: "Other", Icon: "more-horizontal", Color: "#95A5A6", IsSystem: true},
}

// ExpenseCounter reports how many expenses reference a category. Implemented
// by the Expenses repository; the registry uses it to block deletes of
// categories that are still in use.
type ExpenseCounter interface {
	CountByCategory(categoryID string) int
}

// Categories is the category registry: display metadata for analytics joins,
// never part of balance logic.
type Categories struct {
	store storage.Store
	items []model.Category
}

// NewCategories loads the registry, seeding system defaults when the
// collection has never been written.
func NewCategories(ctx context.Context, store storage.Store) (*Categories, error) {
	seeded, err := store.Has(ctx, storage.KeyCategories)
	if err != nil {
		return nil, fmt.Errorf("failed to check categories: %w", err)
	}

	r := &Categories{store: store}
	if !seeded {
		for _, cat := range defaultCategories {
			cat.ID = newID()
			cat.CreatedAt = nowMillis()
			cat.UpdatedAt = cat.CreatedAt
			r.items = append(r.items, cat)
		}
		if err := r.persist(ctx); err != nil {
			return nil, err
		}
		slog.Info("seeded system categories", "count", len(r.items))
		return r, nil
	}

	items, err := loadCollection[model.Category](ctx, store, storage.KeyCategories)
	if err != nil {
		return nil, err
	}
	r.items = items
	return r, nil
}

// Create adds a user category. Names are unique case-insensitively.
func (r *Categories) Create(ctx context.Context, name, icon, color string) (model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Category{}, common.NewValidationError("name", "cannot be empty")
	}
	if len(name) > model.MaxCategoryNameLength {
		return model.Category{}, common.NewValidationError("name",
			fmt.Sprintf("cannot exceed %d characters", model.MaxCategoryNameLength))
	}
	for _, cat := range r.items {
		if strings.EqualFold(cat.Name, name) {
			return model.Category{}, fmt.Errorf("category %q: %w", name, common.ErrDuplicateCategory)
		}
	}

	cat := model.Category{
		ID:        newID(),
		Name:      name,
		Icon:      icon,
		Color:     color,
		CreatedAt: nowMillis(),
	}
	cat.UpdatedAt = cat.CreatedAt

	r.items = append(r.items, cat)
	if err := r.persist(ctx); err != nil {
		r.items = r.items[:len(r.items)-1]
		return model.Category{}, err
	}
	return cat, nil
}

// Delete removes a user category. System categories and categories still
// referenced by expenses are rejected; the returned ReferencedError carries
// the blocking count so callers can message the user.
func (r *Categories) Delete(ctx context.Context, id string, refs ExpenseCounter) error {
	idx := -1
	for i, cat := range r.items {
		if cat.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("category %s: %w", id, common.ErrNotFound)
	}
	if r.items[idx].IsSystem {
		return fmt.Errorf("category %q: %w", r.items[idx].Name, common.ErrSystemCategory)
	}
	if count := refs.CountByCategory(id); count > 0 {
		return &common.ReferencedError{Entity: "category", ID: id, Count: count}
	}

	removed := r.items[idx]
	r.items = append(r.items[:idx], r.items[idx+1:]...)
	if err := r.persist(ctx); err != nil {
		r.items = append(r.items[:idx], append([]model.Category{removed}, r.items[idx:]...)...)
		return err
	}
	return nil
}

// GetByID returns the category and whether it exists.
func (r *Categories) GetByID(id string) (model.Category, bool) {
	for _, cat := range r.items {
		if cat.ID == id {
			return cat, true
		}
	}
	return model.Category{}, false
}

// GetByName returns the category with the given name, case-insensitively.
func (r *Categories) GetByName(name string) (model.Category, bool) {
	for _, cat := range r.items {
		if strings.EqualFold(cat.Name, name) {
			return cat, true
		}
	}
	return model.Category{}, false
}

// List returns a copy of all categories.
func (r *Categories) List() []model.Category {
	out := make([]model.Category, len(r.items))
	copy(out, r.items)
	return out
}

// Import merges categories by id, skipping ids already present. Calling it
// twice with the same list is a no-op the second time.
func (r *Categories) Import(ctx context.Context, categories []model.Category) (int, error) {
	existing := make(map[string]struct{}, len(r.items))
	for _, cat := range r.items {
		existing[cat.ID] = struct{}{}
	}

	added := 0
	for _, cat := range categories {
		if _, ok := existing[cat.ID]; ok {
			continue
		}
		existing[cat.ID] = struct{}{}
		r.items = append(r.items, cat)
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

// ClearAll wipes the registry. The next NewCategories re-seeds defaults.
func (r *Categories) ClearAll(ctx context.Context) error {
	snapshot := r.items
	r.items = nil
	if err := r.store.Remove(ctx, storage.KeyCategories); err != nil {
		r.items = snapshot
		return err
	}
	return nil
}

func (r *Categories) persist(ctx context.Context) error {
	if err := r.store.Set(ctx, storage.KeyCategories, r.items); err != nil {
		return fmt.Errorf("failed to persist categories: %w", err)
	}
	return nil
}
