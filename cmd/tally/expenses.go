package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tallyhq/tally/internal/model"
	"github.com/tallyhq/tally/internal/repository"
)

func expensesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expenses",
		Short: "Record and list expenses",
	}

	cmd.AddCommand(addExpenseCmd())
	cmd.AddCommand(listExpensesCmd())
	cmd.AddCommand(removeExpenseCmd())

	return cmd
}

func addExpenseCmd() *cobra.Command {
	var (
		category string
		account  string
		date     string
		note     string
	)

	cmd := &cobra.Command{
		Use:   "add <amount>",
		Short: "Record an expense",
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

			amount, err := model.ParseAmount(args[0])
			if err != nil {
				return err
			}
			categoryID, err := a.categoryIDByRef(category)
			if err != nil {
				return err
			}
			accountID, err := a.accountIDByRef(account)
			if err != nil {
				return err
			}

			day := model.Today()
			if date != "" {
				if day, err = model.ParseDate(date); err != nil {
					return err
				}
			}

			exp, err := a.expenses.Add(ctx, repository.ExpenseDraft{
				Amount:     amount,
				CategoryID: categoryID,
				AccountID:  accountID,
				Date:       day,
				Note:       note,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Recorded expense %s on %s (%s)\n",
				model.FormatAmount(exp.Amount, a.cfg.Currency), exp.Date, exp.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "category id or name (required)")
	cmd.Flags().StringVar(&account, "account", "", "account id or name")
	cmd.Flags().StringVar(&date, "date", "", "date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&note, "note", "", "note")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func listExpensesCmd() *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List expenses by date",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				_ = a.Close()
			}()

			expenses := a.expenses.List()
			if from != "" && to != "" {
				start, err := model.ParseDate(from)
				if err != nil {
					return err
				}
				end, err := model.ParseDate(to)
				if err != nil {
					return err
				}
				expenses = a.expenses.ListByDateRange(start, end)
			}
			sort.Slice(expenses, func(i, j int) bool {
				return expenses[i].Date.Before(expenses[j].Date)
			})

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() {
				_ = w.Flush()
			}()

			fmt.Fprintln(w, "Date\tAmount\tCategory\tAccount\tNote\tID")
			for _, exp := range expenses {
				cat := a.engine.ResolveCategory(exp.CategoryID)
				accName := ""
				if exp.AccountID != "" {
					accName = a.engine.ResolveAccount(exp.AccountID).Name
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					exp.Date,
					model.FormatAmount(exp.Amount, a.cfg.Currency),
					cat.Name, accName, exp.Note, exp.ID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "end date (YYYY-MM-DD)")
	return cmd
}

func removeExpenseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Delete an expense",
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

			if err := a.expenses.Remove(ctx, args[0]); err != nil {
				return err
			}
			fmt.Println("Expense removed.")
			return nil
		},
	}
}
