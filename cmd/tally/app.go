package main

import (
	"context"
	"fmt"

	"github.com/tallyhq/tally/internal/analytics"
	"github.com/tallyhq/tally/internal/backup"
	"github.com/tallyhq/tally/internal/config"
	"github.com/tallyhq/tally/internal/ledger"
	"github.com/tallyhq/tally/internal/repository"
	"github.com/tallyhq/tally/internal/storage"
)

// app wires the store, repositories, ledger, and analytics engine for one
// command invocation.
type app struct {
	cfg        config.Config
	store      storage.Store
	categories *repository.Categories
	accounts   *repository.Accounts
	expenses   *repository.Expenses
	incomes    *repository.Incomes
	transfers  *repository.Transfers
	budgets    *repository.Budgets
	ledger     *ledger.Ledger
	engine     *analytics.Engine
	formatter  *analytics.CLIFormatter
}

func openApp(ctx context.Context) (*app, error) {
	cfg := config.Load()

	store, err := storage.NewSQLiteStore(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger database: %w", err)
	}

	a := &app{cfg: cfg, store: store}
	if a.categories, err = repository.NewCategories(ctx, store); err != nil {
		return nil, err
	}
	if a.accounts, err = repository.NewAccounts(ctx, store); err != nil {
		return nil, err
	}
	if a.expenses, err = repository.NewExpenses(ctx, store, a.categories); err != nil {
		return nil, err
	}
	if a.incomes, err = repository.NewIncomes(ctx, store, a.categories); err != nil {
		return nil, err
	}
	if a.transfers, err = repository.NewTransfers(ctx, store); err != nil {
		return nil, err
	}
	if a.budgets, err = repository.NewBudgets(ctx, store, a.categories); err != nil {
		return nil, err
	}

	a.ledger = ledger.New(a.accounts, a.transfers)
	a.engine = analytics.NewEngine(a.expenses, a.categories, a.accounts)
	a.formatter = analytics.NewCLIFormatter(cfg.Currency)
	return a, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

func (a *app) backupManager() *backup.Manager {
	return &backup.Manager{
		Categories: a.categories,
		Accounts:   a.accounts,
		Expenses:   a.expenses,
		Incomes:    a.incomes,
		Transfers:  a.transfers,
		Budgets:    a.budgets,
	}
}

// categoryIDByRef resolves a category flag that may be an id or a name.
func (a *app) categoryIDByRef(ref string) (string, error) {
	if cat, ok := a.categories.GetByID(ref); ok {
		return cat.ID, nil
	}
	if cat, ok := a.categories.GetByName(ref); ok {
		return cat.ID, nil
	}
	return "", fmt.Errorf("unknown category %q", ref)
}

// accountIDByRef resolves an account flag that may be an id or a name.
func (a *app) accountIDByRef(ref string) (string, error) {
	if ref == "" {
		return "", nil
	}
	if acc, ok := a.accounts.GetByID(ref); ok {
		return acc.ID, nil
	}
	for _, acc := range a.accounts.List() {
		if acc.Name == ref {
			return acc.ID, nil
		}
	}
	return "", fmt.Errorf("unknown account %q", ref)
}
