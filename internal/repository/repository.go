// Package repository holds the entity repositories. Each repository owns one
// collection, keeps it in memory, and writes the whole collection through to
// its storage key on every mutation.
//
// Repositories are not safe for concurrent use. The engine runs on a single
// caller thread; multi-step operations stay consistent through write
// ordering, not locking.
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tallyhq/tally/internal/storage"
)

// loadCollection reads and decodes a persisted collection. An unparsable
// blob degrades to an empty collection rather than failing the load;
// records in a corrupted blob are unrecoverable either way.
func loadCollection[T any](ctx context.Context, store storage.Store, key string) ([]T, error) {
	blob, err := store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", key, err)
	}
	if blob == nil {
		return nil, nil
	}

	var items []T
	if err := json.Unmarshal(blob, &items); err != nil {
		slog.Warn("discarding corrupted collection", "key", key, "error", err)
		return nil, nil
	}

	slog.Debug("loaded collection", "key", key, "count", len(items))
	return items, nil
}

func newID() string {
	return uuid.NewString()
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}
