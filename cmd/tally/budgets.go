package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tallyhq/tally/internal/model"
	"github.com/tallyhq/tally/internal/repository"
)

func budgetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budgets",
		Short: "Set and inspect monthly category budgets",
	}

	cmd.AddCommand(setBudgetCmd())
	cmd.AddCommand(budgetStatusCmd())

	return cmd
}

func setBudgetCmd() *cobra.Command {
	var (
		month    string
		category string
		rollover bool
	)

	cmd := &cobra.Command{
		Use:   "set <limit>",
		Short: "Create a budget for a category and month",
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

			limit, err := model.ParseAmount(args[0])
			if err != nil {
				return err
			}
			categoryID, err := a.categoryIDByRef(category)
			if err != nil {
				return err
			}
			if month == "" {
				month = model.Today().MonthKey()
			}

			budget, err := a.budgets.Add(ctx, repository.BudgetDraft{
				Month:      month,
				CategoryID: categoryID,
				Limit:      limit,
				Rollover:   rollover,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Budget set: %s for %s in %s\n",
				model.FormatAmount(budget.Limit, a.cfg.Currency), category, budget.Month)
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "month (YYYY-MM, default current)")
	cmd.Flags().StringVar(&category, "category", "", "category id or name (required)")
	cmd.Flags().BoolVar(&rollover, "rollover", false, "roll unused budget into next month")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func budgetStatusCmd() *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show budget usage for a month",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				_ = a.Close()
			}()

			if month == "" {
				month = model.Today().MonthKey()
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() {
				_ = w.Flush()
			}()

			fmt.Fprintln(w, "Category\tLimit\tSpent\tRemaining\tUsed\tOver")
			for _, budget := range a.budgets.ListByMonth(month) {
				status, err := a.budgets.Status(budget, a.expenses)
				if err != nil {
					return err
				}
				over := ""
				if status.IsOverBudget {
					over = "OVER"
				}
				cat := a.engine.ResolveCategory(budget.CategoryID)
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.1f%%\t%s\n",
					cat.Name,
					model.FormatAmount(budget.Limit, a.cfg.Currency),
					model.FormatAmount(status.Spent, a.cfg.Currency),
					model.FormatAmount(status.Remaining, a.cfg.Currency),
					status.Percentage,
					over)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "month (YYYY-MM, default current)")
	return cmd
}
