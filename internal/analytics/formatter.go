package analytics

import (
	"fmt"
	"strings"

	"github.com/tallyhq/tally/internal/model"
)

// CLIFormatter renders analytics results for terminal display. Rendering is
// presentation only; all numbers come in precomputed.
type CLIFormatter struct {
	styles   *Styles
	currency string
}

// NewCLIFormatter creates a formatter that renders amounts in the given ISO
// currency.
func NewCLIFormatter(currency string) *CLIFormatter {
	return &CLIFormatter{styles: NewStyles(), currency: currency}
}

// FormatDailySeries renders the series as a date/amount table with a spark
// bar scaled to the busiest day.
func (f *CLIFormatter) FormatDailySeries(series []DailyPoint) string {
	if len(series) == 0 {
		return f.styles.Subtle.Render("No activity in range.")
	}

	max := series[0].Total
	for _, p := range series[1:] {
		if p.Total.GreaterThan(max) {
			max = p.Total
		}
	}

	var b strings.Builder
	b.WriteString(f.styles.Title.Render("Daily Spending"))
	b.WriteString("\n")
	for _, p := range series {
		bar := ""
		if max.IsPositive() {
			ratio, _ := p.Total.Div(max).Float64()
			bar = f.styles.Bar.Render(strings.Repeat("█", int(ratio*24)))
		}
		b.WriteString(fmt.Sprintf("%s  %12s  %s\n",
			f.styles.Subtle.Render(p.Date.String()),
			model.FormatAmount(p.Total, f.currency),
			bar))
	}
	return b.String()
}

// FormatBreakdown renders category rows with percentage bars.
func (f *CLIFormatter) FormatBreakdown(breakdown []CategorySpend) string {
	if len(breakdown) == 0 {
		return f.styles.Subtle.Render("No expenses in range.")
	}

	var b strings.Builder
	b.WriteString(f.styles.Title.Render("Spending by Category"))
	b.WriteString("\n")
	for _, row := range breakdown {
		name := row.Category.Name
		if !row.Category.Known {
			name = f.styles.Warning.Render(name)
		}
		barWidth := 20
		filled := int(row.Percentage / 100 * float64(barWidth))
		if filled > barWidth {
			filled = barWidth
		}
		bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
		b.WriteString(fmt.Sprintf("%-24s %12s  %s %5.1f%%  (%d)\n",
			name,
			model.FormatAmount(row.Total, f.currency),
			f.styles.Bar.Render(bar),
			row.Percentage,
			row.Count))
	}
	return b.String()
}

// FormatMonthly renders a month summary with its breakdown.
func (f *CLIFormatter) FormatMonthly(stats MonthlyStats) string {
	var b strings.Builder
	b.WriteString(f.styles.Title.Render("Month " + stats.Month))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Total spent:    %s\n", model.FormatAmount(stats.Total, f.currency)))
	b.WriteString(fmt.Sprintf("Transactions:   %d\n", stats.Count))
	b.WriteString(fmt.Sprintf("Average daily:  %s %s\n",
		model.FormatAmount(stats.AverageDaily, f.currency),
		f.styles.Subtle.Render("(active days)")))
	if stats.HighestCategory != nil {
		b.WriteString(fmt.Sprintf("Top category:   %s (%s)\n",
			stats.HighestCategory.Category.Name,
			model.FormatAmount(stats.HighestCategory.Total, f.currency)))
	}
	b.WriteString("\n")
	b.WriteString(f.FormatBreakdown(stats.CategoryBreakdown))
	return b.String()
}

// FormatComparison renders the month-over-month trend line.
func (f *CLIFormatter) FormatComparison(stats ComparisonStats) string {
	var trendText string
	switch stats.Trend {
	case TrendUp:
		trendText = f.styles.Error.Render(fmt.Sprintf("▲ up %.1f%%", stats.PercentageChange))
	case TrendDown:
		trendText = f.styles.Success.Render(fmt.Sprintf("▼ down %.1f%%", -stats.PercentageChange))
	default:
		trendText = f.styles.Subtle.Render("— stable")
	}

	var b strings.Builder
	b.WriteString(f.styles.Title.Render("Month over Month"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s:  %s\n", stats.PreviousMonth.Month,
		model.FormatAmount(stats.PreviousMonth.Total, f.currency)))
	b.WriteString(fmt.Sprintf("%s:  %s  %s\n", stats.CurrentMonth.Month,
		model.FormatAmount(stats.CurrentMonth.Total, f.currency), trendText))
	return b.String()
}

// FormatVelocity renders the half-over-half spend comparison.
func (f *CLIFormatter) FormatVelocity(stats VelocityStats) string {
	var label string
	switch stats.Trend {
	case TrendUp:
		label = f.styles.Warning.Render("accelerating")
	case TrendDown:
		label = f.styles.Success.Render("decelerating")
	default:
		label = f.styles.Subtle.Render("steady")
	}
	return fmt.Sprintf("Spending velocity: %s (first half avg %s, second half avg %s)",
		label,
		model.FormatAmount(stats.FirstHalfAverage, f.currency),
		model.FormatAmount(stats.SecondHalfAverage, f.currency))
}
