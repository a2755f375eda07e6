package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tallyhq/tally/internal/analytics"
	"github.com/tallyhq/tally/internal/model"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Spending analytics",
	}

	cmd.AddCommand(reportDailyCmd())
	cmd.AddCommand(reportCategoriesCmd())
	cmd.AddCommand(reportMonthCmd())
	cmd.AddCommand(reportTrendCmd())

	return cmd
}

func parseRange(from, to string) (model.Date, model.Date, error) {
	start, err := model.ParseDate(from)
	if err != nil {
		return model.Date{}, model.Date{}, err
	}
	end, err := model.ParseDate(to)
	if err != nil {
		return model.Date{}, model.Date{}, err
	}
	return start, end, nil
}

func reportDailyCmd() *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Daily spending series over a date range",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				_ = a.Close()
			}()

			start, end, err := parseRange(from, to)
			if err != nil {
				return err
			}

			series := a.engine.DailySeries(start, end)
			fmt.Println(a.formatter.FormatDailySeries(series))
			fmt.Println(a.formatter.FormatVelocity(analytics.Velocity(series)))
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "end date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func reportCategoriesCmd() *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Category breakdown over a date range",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				_ = a.Close()
			}()

			start, end, err := parseRange(from, to)
			if err != nil {
				return err
			}

			fmt.Println(a.formatter.FormatBreakdown(a.engine.CategoryBreakdown(start, end)))
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "end date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func reportMonthCmd() *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "month",
		Short: "Monthly spending summary",
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
			stats, err := a.engine.MonthlyStats(month)
			if err != nil {
				return err
			}
			fmt.Println(a.formatter.FormatMonthly(stats))
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "month (YYYY-MM, default current)")
	return cmd
}

func reportTrendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trend",
		Short: "Month-over-month spending trend",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				_ = a.Close()
			}()

			stats, err := a.engine.ComparisonStats(model.Today())
			if err != nil {
				return err
			}
			fmt.Println(a.formatter.FormatComparison(stats))
			return nil
		},
	}
}
