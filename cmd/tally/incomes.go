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

func incomesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "incomes",
		Short: "Record and list income",
	}

	cmd.AddCommand(addIncomeCmd())
	cmd.AddCommand(listIncomesCmd())

	return cmd
}

func addIncomeCmd() *cobra.Command {
	var (
		category  string
		account   string
		date      string
		note      string
		method    string
		recurring string
	)

	cmd := &cobra.Command{
		Use:   "add <amount>",
		Short: "Record income",
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

			draft := repository.IncomeDraft{
				Amount:        amount,
				CategoryID:    categoryID,
				AccountID:     accountID,
				Date:          day,
				Note:          note,
				PaymentMethod: method,
			}
			if recurring != "" {
				draft.IsRecurring = true
				draft.Frequency = model.RecurringFrequency(recurring)
			}

			inc, err := a.incomes.Add(ctx, draft)
			if err != nil {
				return err
			}
			fmt.Printf("Recorded income %s on %s (%s)\n",
				model.FormatAmount(inc.Amount, a.cfg.Currency), inc.Date, inc.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "category id or name (required)")
	cmd.Flags().StringVar(&account, "account", "", "account id or name")
	cmd.Flags().StringVar(&date, "date", "", "date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&note, "note", "", "note")
	cmd.Flags().StringVar(&method, "method", "", "payment method")
	cmd.Flags().StringVar(&recurring, "recurring", "", "recurring frequency (weekly, monthly, yearly)")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func listIncomesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List income records by date",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				_ = a.Close()
			}()

			incomes := a.incomes.List()
			sort.Slice(incomes, func(i, j int) bool {
				return incomes[i].Date.Before(incomes[j].Date)
			})

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() {
				_ = w.Flush()
			}()

			fmt.Fprintln(w, "Date\tAmount\tCategory\tMethod\tRecurring\tID")
			for _, inc := range incomes {
				cat := a.engine.ResolveCategory(inc.CategoryID)
				recurring := ""
				if inc.IsRecurring {
					recurring = string(inc.Frequency)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					inc.Date,
					model.FormatAmount(inc.Amount, a.cfg.Currency),
					cat.Name, inc.PaymentMethod, recurring, inc.ID)
			}
			return nil
		},
	}
}
