package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/tallyhq/tally/internal/backup"
	"github.com/tallyhq/tally/internal/ofx"
)

func exportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a full backup snapshot as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				_ = a.Close()
			}()

			snap := a.backupManager().Export()
			blob, err := json.MarshalIndent(snap, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to serialize snapshot: %w", err)
			}

			if out == "" {
				fmt.Println(string(blob))
				return nil
			}
			if err := os.WriteFile(out, blob, 0600); err != nil {
				return fmt.Errorf("failed to write snapshot: %w", err)
			}
			fmt.Printf("Exported snapshot to %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (default stdout)")
	return cmd
}

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import data into the ledger",
	}

	cmd.AddCommand(importSnapshotCmd())
	cmd.AddCommand(importOFXCmd())

	return cmd
}

func importSnapshotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot <file>",
		Short: "Merge a backup snapshot (skips ids already present)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer func() {
				_ = a.Close()
			}()

			blob, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read snapshot: %w", err)
			}

			var snap backup.Snapshot
			if err := json.Unmarshal(blob, &snap); err != nil {
				return fmt.Errorf("failed to parse snapshot: %w", err)
			}

			result, err := a.backupManager().Import(ctx, snap)
			if err != nil {
				return err
			}
			fmt.Printf("Imported %d entities (%d expenses, %d incomes, %d transfers, %d accounts, %d categories, %d budgets)\n",
				result.Total(), result.Expenses, result.Incomes, result.Transfers,
				result.Accounts, result.Categories, result.Budgets)
			return nil
		},
	}
}

func importOFXCmd() *cobra.Command {
	var (
		account         string
		expenseCategory string
		incomeCategory  string
	)

	cmd := &cobra.Command{
		Use:   "ofx <file>",
		Short: "Import a bank OFX/QFX statement as expenses and income",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer func() {
				_ = a.Close()
			}()

			expenseCategoryID, err := a.categoryIDByRef(expenseCategory)
			if err != nil {
				return err
			}
			incomeCategoryID, err := a.categoryIDByRef(incomeCategory)
			if err != nil {
				return err
			}
			accountID, err := a.accountIDByRef(account)
			if err != nil {
				return err
			}

			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open statement: %w", err)
			}
			defer func() {
				_ = file.Close()
			}()

			entries, err := ofx.NewParser().Parse(file)
			if err != nil {
				return err
			}

			bar := progressbar.Default(int64(len(entries)), "importing")
			expenses, incomes := ofx.ToRecords(entries, expenseCategoryID, incomeCategoryID, accountID, nowMillis())
			addedExpenses, err := a.expenses.Import(ctx, expenses)
			if err != nil {
				return err
			}
			_ = bar.Add(len(expenses))
			addedIncomes, err := a.incomes.Import(ctx, incomes)
			if err != nil {
				return err
			}
			_ = bar.Add(len(incomes))
			_ = bar.Finish()

			skipped := len(entries) - addedExpenses - addedIncomes
			fmt.Printf("Imported %d expenses and %d incomes (%d already present)\n",
				addedExpenses, addedIncomes, skipped)
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "account to link imported records to")
	cmd.Flags().StringVar(&expenseCategory, "expense-category", "Other", "category for imported debits")
	cmd.Flags().StringVar(&incomeCategory, "income-category", "Other", "category for imported credits")
	return cmd
}

func resetCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear every collection",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !force {
				return fmt.Errorf("refusing to clear all data without --force")
			}

			ctx := cmd.Context()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer func() {
				_ = a.Close()
			}()

			if err := a.backupManager().ClearAll(ctx); err != nil {
				return err
			}
			fmt.Println("All collections cleared.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "confirm clearing all data")
	return cmd
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}
