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

func accountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage accounts",
	}

	cmd.AddCommand(listAccountsCmd())
	cmd.AddCommand(addAccountCmd())
	cmd.AddCommand(setDefaultAccountCmd())
	cmd.AddCommand(reorderAccountsCmd())
	cmd.AddCommand(removeAccountCmd())

	return cmd
}

func listAccountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts in display order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				_ = a.Close()
			}()

			accounts := a.accounts.List()
			sort.Slice(accounts, func(i, j int) bool {
				return accounts[i].SortOrder < accounts[j].SortOrder
			})

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() {
				_ = w.Flush()
			}()

			fmt.Fprintln(w, "#\tName\tType\tBalance\tDefault")
			for _, acc := range accounts {
				def := ""
				if acc.IsDefault {
					def = "*"
				}
				balance := model.FormatAmount(acc.CurrentBalance, a.cfg.Currency)
				if acc.Category == model.AccountCreditCard && acc.OutstandingBalance != nil {
					balance = model.FormatAmount(*acc.OutstandingBalance, a.cfg.Currency) + " due"
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", acc.SortOrder, acc.Name, acc.Category, balance, def)
			}
			return nil
		},
	}
}

func addAccountCmd() *cobra.Command {
	var (
		kind        string
		opening     string
		creditLimit string
		isDefault   bool
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a new account",
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

			openingBalance, err := model.ParseAmount(opening)
			if err != nil {
				return err
			}

			draft := repository.AccountDraft{
				Name:           args[0],
				Category:       model.AccountCategory(kind),
				OpeningBalance: openingBalance,
				IsDefault:      isDefault,
			}
			if creditLimit != "" {
				limit, err := model.ParseAmount(creditLimit)
				if err != nil {
					return err
				}
				draft.CreditLimit = &limit
			}

			acc, err := a.accounts.Add(ctx, draft)
			if err != nil {
				return err
			}
			fmt.Printf("Created account %q (%s) with balance %s\n",
				acc.Name, acc.ID, model.FormatAmount(acc.CurrentBalance, a.cfg.Currency))
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "type", "bank", "account type (cash, bank, credit_card, debit_card, upi, wallet, other)")
	cmd.Flags().StringVar(&opening, "opening", "0", "opening balance")
	cmd.Flags().StringVar(&creditLimit, "credit-limit", "", "credit limit (credit cards)")
	cmd.Flags().BoolVar(&isDefault, "default", false, "make this the default account")
	return cmd
}

func setDefaultAccountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-default <id-or-name>",
		Short: "Make an account the single default",
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

			id, err := a.accountIDByRef(args[0])
			if err != nil {
				return err
			}
			if err := a.accounts.SetDefault(ctx, id); err != nil {
				return err
			}
			fmt.Println("Default account updated.")
			return nil
		},
	}
}

func reorderAccountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <id> [<id> ...]",
		Short: "Reorder accounts for display",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer func() {
				_ = a.Close()
			}()

			if err := a.accounts.Reorder(ctx, args); err != nil {
				return err
			}
			fmt.Println("Accounts reordered.")
			return nil
		},
	}
}

func removeAccountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id-or-name>",
		Short: "Remove an account (transactions keep their reference)",
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

			id, err := a.accountIDByRef(args[0])
			if err != nil {
				return err
			}
			if err := a.accounts.Remove(ctx, id); err != nil {
				return err
			}
			fmt.Println("Account removed. Existing transactions keep their account reference.")
			return nil
		},
	}
}
