// Package storage provides the key→JSON blob store the repositories persist
// through, with SQLite-backed and in-memory implementations.
package storage

import (
	"context"
	"encoding/json"
)

// Collection keys. One key per repository collection; values are
// JSON-serialized arrays of the owning repository's entities.
const (
	KeyExpenses   = "expenses"
	KeyIncomes    = "incomes"
	KeyTransfers  = "transfers"
	KeyAccounts   = "accounts"
	KeyBudgets    = "budgets"
	KeyCategories = "categories"
)

// Store is a synchronous key→JSON blob store. Set must be write-through:
// when it returns nil the value is durable, and callers rely on that.
type Store interface {
	// Get returns the blob stored under key, or nil when the key is absent.
	Get(ctx context.Context, key string) (json.RawMessage, error)
	// Set serializes value as JSON and stores it under key.
	Set(ctx context.Context, key string, value any) error
	// Has reports whether key is present.
	Has(ctx context.Context, key string) (bool, error)
	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
	Close() error
}
