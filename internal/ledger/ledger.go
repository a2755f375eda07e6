// Package ledger keeps account balances consistent with the transfer
// lifecycle. It owns no data; it orchestrates writes across the account and
// transfer repositories.
package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/tallyhq/tally/internal/common"
	"github.com/tallyhq/tally/internal/model"
	"github.com/tallyhq/tally/internal/repository"
)

// Ledger applies and reverses transfer balance deltas. Only currentBalance
// is ever mutated; credit-card outstanding balances are manually maintained.
type Ledger struct {
	accounts  *repository.Accounts
	transfers *repository.Transfers
}

// New creates a ledger over the given repositories.
func New(accounts *repository.Accounts, transfers *repository.Transfers) *Ledger {
	return &Ledger{accounts: accounts, transfers: transfers}
}

// applyDeltas is the delta set a transfer contributes when applied: amount
// leaves the from side and arrives at the to side. Either side may be
// unlinked (legacy transfers) and contributes nothing.
func applyDeltas(tr model.Transfer) map[string]decimal.Decimal {
	deltas := make(map[string]decimal.Decimal, 2)
	if tr.FromAccountID != "" {
		deltas[tr.FromAccountID] = deltas[tr.FromAccountID].Sub(tr.Amount)
	}
	if tr.ToAccountID != "" {
		deltas[tr.ToAccountID] = deltas[tr.ToAccountID].Add(tr.Amount)
	}
	return deltas
}

// reverseDeltas is the exact inverse of applyDeltas.
func reverseDeltas(tr model.Transfer) map[string]decimal.Decimal {
	deltas := make(map[string]decimal.Decimal, 2)
	if tr.FromAccountID != "" {
		deltas[tr.FromAccountID] = deltas[tr.FromAccountID].Add(tr.Amount)
	}
	if tr.ToAccountID != "" {
		deltas[tr.ToAccountID] = deltas[tr.ToAccountID].Sub(tr.Amount)
	}
	return deltas
}

func mergeDeltas(dst, src map[string]decimal.Decimal) map[string]decimal.Decimal {
	for id, d := range src {
		dst[id] = dst[id].Add(d)
	}
	return dst
}

// CreateTransfer validates the draft, stores the record, and applies its
// balance deltas. A failed balance write removes the record again so no
// half-applied state survives.
func (l *Ledger) CreateTransfer(ctx context.Context, draft repository.TransferDraft) (model.Transfer, error) {
	if err := draft.Validate(); err != nil {
		return model.Transfer{}, err
	}

	tr, err := l.transfers.Add(ctx, draft)
	if err != nil {
		return model.Transfer{}, err
	}

	if err := l.accounts.ApplyBalanceDeltas(ctx, applyDeltas(tr)); err != nil {
		if rbErr := l.transfers.Remove(ctx, tr.ID); rbErr != nil {
			return model.Transfer{}, fmt.Errorf("failed to apply transfer and rollback failed: %w", rbErr)
		}
		return model.Transfer{}, fmt.Errorf("failed to apply transfer: %w", err)
	}
	return tr, nil
}

// EditTransfer atomically replaces a transfer's values: the old record's
// deltas are reversed against the original accounts and the new draft's
// deltas applied against the new accounts. Both delta sets are computed
// before any write, then the record and the merged balance change are
// written in a fixed order with no intermediate state observable.
func (l *Ledger) EditTransfer(ctx context.Context, id string, draft repository.TransferDraft) (model.Transfer, error) {
	old, ok := l.transfers.GetByID(id)
	if !ok {
		return model.Transfer{}, fmt.Errorf("transfer %s: %w", id, common.ErrNotFound)
	}
	if err := draft.Validate(); err != nil {
		return model.Transfer{}, err
	}

	updated := model.Transfer{
		ID:            id,
		Amount:        draft.Amount,
		FromAccountID: draft.FromAccountID,
		ToAccountID:   draft.ToAccountID,
		FromType:      draft.FromType,
		ToType:        draft.ToType,
		Date:          draft.Date,
		Note:          draft.Note,
	}

	// Compute both delta sets before any write. Reversal targets the
	// original accounts, application the new ones; a missing account on
	// either side is skipped, never an error.
	deltas := mergeDeltas(reverseDeltas(old), applyDeltas(updated))

	if err := l.transfers.Replace(ctx, updated); err != nil {
		return model.Transfer{}, err
	}
	if err := l.accounts.ApplyBalanceDeltas(ctx, deltas); err != nil {
		if rbErr := l.transfers.Replace(ctx, old); rbErr != nil {
			return model.Transfer{}, fmt.Errorf("failed to apply edited transfer and rollback failed: %w", rbErr)
		}
		return model.Transfer{}, fmt.Errorf("failed to apply edited transfer: %w", err)
	}

	stored, _ := l.transfers.GetByID(id)
	return stored, nil
}

// DeleteTransfer reverses the transfer's deltas and removes the record.
// Deleting an absent id is a no-op.
func (l *Ledger) DeleteTransfer(ctx context.Context, id string) error {
	tr, ok := l.transfers.GetByID(id)
	if !ok {
		return nil
	}

	// Reverse the balances first so a failed Remove can re-apply them
	// instead of leaving balances that still reflect a missing record.
	deltas := reverseDeltas(tr)
	if err := l.accounts.ApplyBalanceDeltas(ctx, deltas); err != nil {
		return fmt.Errorf("failed to reverse transfer %s: %w", id, err)
	}
	if err := l.transfers.Remove(ctx, id); err != nil {
		if rbErr := l.accounts.ApplyBalanceDeltas(ctx, applyDeltas(tr)); rbErr != nil {
			return fmt.Errorf("failed to remove transfer and rollback failed: %w", rbErr)
		}
		return fmt.Errorf("failed to remove transfer: %w", err)
	}

	slog.Debug("reversed and removed transfer", "id", id, "amount", tr.Amount)
	return nil
}
