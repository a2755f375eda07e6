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

func transfersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfers",
		Short: "Move value between accounts",
	}

	cmd.AddCommand(addTransferCmd())
	cmd.AddCommand(editTransferCmd())
	cmd.AddCommand(deleteTransferCmd())
	cmd.AddCommand(listTransfersCmd())

	return cmd
}

func transferDraftFlags(cmd *cobra.Command, from, to, date, note *string) {
	cmd.Flags().StringVar(from, "from", "", "source account id or name")
	cmd.Flags().StringVar(to, "to", "", "destination account id or name")
	cmd.Flags().StringVar(date, "date", "", "date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(note, "note", "", "note")
}

func buildTransferDraft(a *app, amountArg, from, to, date, note string) (repository.TransferDraft, error) {
	amount, err := model.ParseAmount(amountArg)
	if err != nil {
		return repository.TransferDraft{}, err
	}
	fromID, err := a.accountIDByRef(from)
	if err != nil {
		return repository.TransferDraft{}, err
	}
	toID, err := a.accountIDByRef(to)
	if err != nil {
		return repository.TransferDraft{}, err
	}

	day := model.Today()
	if date != "" {
		if day, err = model.ParseDate(date); err != nil {
			return repository.TransferDraft{}, err
		}
	}

	return repository.TransferDraft{
		Amount:        amount,
		FromAccountID: fromID,
		ToAccountID:   toID,
		Date:          day,
		Note:          note,
	}, nil
}

func addTransferCmd() *cobra.Command {
	var from, to, date, note string

	cmd := &cobra.Command{
		Use:   "add <amount>",
		Short: "Record a transfer between accounts",
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

			draft, err := buildTransferDraft(a, args[0], from, to, date, note)
			if err != nil {
				return err
			}

			tr, err := a.ledger.CreateTransfer(ctx, draft)
			if err != nil {
				return err
			}
			fmt.Printf("Transferred %s (%s)\n", model.FormatAmount(tr.Amount, a.cfg.Currency), tr.ID)
			return nil
		},
	}

	transferDraftFlags(cmd, &from, &to, &date, &note)
	return cmd
}

func editTransferCmd() *cobra.Command {
	var from, to, date, note string

	cmd := &cobra.Command{
		Use:   "edit <id> <amount>",
		Short: "Edit a transfer; balances are reversed and reapplied",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer func() {
				_ = a.Close()
			}()

			draft, err := buildTransferDraft(a, args[1], from, to, date, note)
			if err != nil {
				return err
			}

			tr, err := a.ledger.EditTransfer(ctx, args[0], draft)
			if err != nil {
				return err
			}
			fmt.Printf("Transfer updated to %s\n", model.FormatAmount(tr.Amount, a.cfg.Currency))
			return nil
		},
	}

	transferDraftFlags(cmd, &from, &to, &date, &note)
	return cmd
}

func deleteTransferCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transfer and reverse its balance effect",
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

			if err := a.ledger.DeleteTransfer(ctx, args[0]); err != nil {
				return err
			}
			fmt.Println("Transfer deleted.")
			return nil
		},
	}
}

func listTransfersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List transfers by date",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				_ = a.Close()
			}()

			transfers := a.transfers.List()
			sort.Slice(transfers, func(i, j int) bool {
				return transfers[i].Date.Before(transfers[j].Date)
			})

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() {
				_ = w.Flush()
			}()

			fmt.Fprintln(w, "Date\tAmount\tFrom\tTo\tID")
			for _, tr := range transfers {
				from := string(tr.FromType)
				if tr.FromAccountID != "" {
					from = a.engine.ResolveAccount(tr.FromAccountID).Name
				}
				to := string(tr.ToType)
				if tr.ToAccountID != "" {
					to = a.engine.ResolveAccount(tr.ToAccountID).Name
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					tr.Date, model.FormatAmount(tr.Amount, a.cfg.Currency), from, to, tr.ID)
			}
			return nil
		},
	}
}
