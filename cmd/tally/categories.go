package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tallyhq/tally/internal/common"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage expense categories",
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(deleteCategoryCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer func() {
				_ = a.Close()
			}()

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() {
				_ = w.Flush()
			}()

			fmt.Fprintln(w, "ID\tName\tIcon\tColor\tSystem")
			for _, cat := range a.categories.List() {
				system := ""
				if cat.IsSystem {
					system = "yes"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", cat.ID, cat.Name, cat.Icon, cat.Color, system)
			}
			return nil
		},
	}
}

func addCategoryCmd() *cobra.Command {
	var icon, color string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a new category",
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

			cat, err := a.categories.Create(ctx, args[0], icon, color)
			if err != nil {
				return err
			}
			fmt.Printf("Created category %q (%s)\n", cat.Name, cat.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&icon, "icon", "tag", "icon token")
	cmd.Flags().StringVar(&color, "color", "#95A5A6", "color token")
	return cmd
}

func deleteCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id-or-name>",
		Short: "Delete a user category",
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

			id, err := a.categoryIDByRef(args[0])
			if err != nil {
				return err
			}

			if err := a.categories.Delete(ctx, id, a.expenses); err != nil {
				var refErr *common.ReferencedError
				if errors.As(err, &refErr) {
					return fmt.Errorf("cannot delete: %d expense(s) still use this category", refErr.Count)
				}
				return err
			}
			fmt.Println("Category deleted.")
			return nil
		},
	}
}
