// Package analytics computes read-side statistics over the expense and
// income collections. Everything here is a pure function of repository
// snapshots; the engine has no mutation rights.
package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/tallyhq/tally/internal/model"
)

// ExpenseSource is the read-only expense access the engine computes over.
type ExpenseSource interface {
	ListByDateRange(start, end model.Date) []model.Expense
}

// CategorySource resolves category ids for analytics joins.
type CategorySource interface {
	GetByID(id string) (model.Category, bool)
}

// AccountSource resolves account ids for display joins.
type AccountSource interface {
	GetByID(id string) (model.Account, bool)
}

// Engine derives time-windowed analytics. Construct once and call freely;
// results depend only on the current repository snapshots.
type Engine struct {
	expenses   ExpenseSource
	categories CategorySource
	accounts   AccountSource
}

// NewEngine creates an analytics engine over the given sources.
func NewEngine(expenses ExpenseSource, categories CategorySource, accounts AccountSource) *Engine {
	return &Engine{expenses: expenses, categories: categories, accounts: accounts}
}

// DailyPoint is one day of a spending series.
type DailyPoint struct {
	Date  model.Date
	Total decimal.Decimal
}

// CategorySpend is one row of a category breakdown.
type CategorySpend struct {
	Category   ResolvedCategory
	Total      decimal.Decimal
	Count      int
	Percentage float64
}

// MonthlyStats summarizes one month of spending.
type MonthlyStats struct {
	Month             string
	Total             decimal.Decimal
	Count             int
	AverageDaily      decimal.Decimal
	HighestCategory   *CategorySpend
	DailySeries       []DailyPoint
	CategoryBreakdown []CategorySpend
}

// Trend classifies period-over-period spending change.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// ComparisonStats compares the current month against the previous one.
//
// PercentageChange is 0 when the previous month's total is 0, and the trend
// is stable exactly when the two totals are equal (decimal comparison, no
// tolerance band). A month spending 500 after a month spending 0 therefore
// reports a stable trend; callers wanting a "new spending" signal must look
// at the totals themselves.
type ComparisonStats struct {
	CurrentMonth     MonthlyStats
	PreviousMonth    MonthlyStats
	PercentageChange float64
	Trend            Trend
}

// ResolvedCategory is a category join result. Records can outlive the
// category they reference; a dangling id resolves to the placeholder with
// Known=false instead of failing.
type ResolvedCategory struct {
	ID    string
	Name  string
	Icon  string
	Color string
	Known bool
}

// ResolvedAccount is the account equivalent of ResolvedCategory.
type ResolvedAccount struct {
	ID    string
	Name  string
	Known bool
}

// ResolveCategory joins a category id against the registry, substituting
// the unknown-category placeholder for dangling references.
func (e *Engine) ResolveCategory(id string) ResolvedCategory {
	if cat, ok := e.categories.GetByID(id); ok {
		return ResolvedCategory{ID: id, Name: cat.Name, Icon: cat.Icon, Color: cat.Color, Known: true}
	}
	return ResolvedCategory{ID: id, Name: model.UnknownCategoryName}
}

// ResolveAccount joins an account id, substituting the unknown-account
// placeholder for dangling or empty references.
func (e *Engine) ResolveAccount(id string) ResolvedAccount {
	if id != "" && e.accounts != nil {
		if acc, ok := e.accounts.GetByID(id); ok {
			return ResolvedAccount{ID: id, Name: acc.Name, Known: true}
		}
	}
	return ResolvedAccount{ID: id, Name: model.UnknownAccountName}
}

// DailySeries returns one point per calendar day in the inclusive range, in
// ascending date order, including zero-total days so charts render a
// continuous axis. An empty or inverted range yields an empty series.
func (e *Engine) DailySeries(start, end model.Date) []DailyPoint {
	if start.IsZero() || end.IsZero() || end.Before(start) {
		return nil
	}

	totals := make(map[model.Date]decimal.Decimal)
	for _, exp := range e.expenses.ListByDateRange(start, end) {
		totals[exp.Date] = totals[exp.Date].Add(exp.Amount)
	}

	var series []DailyPoint
	for day := start; !day.After(end); day = day.Add(1) {
		series = append(series, DailyPoint{Date: day, Total: totals[day]})
	}
	return series
}

// CategoryBreakdown groups expenses in the inclusive range by category,
// sorted descending by total. Categories with no matching expenses are
// omitted. Percentage is total/grandTotal*100, and 0 when the grand total
// is 0.
func (e *Engine) CategoryBreakdown(start, end model.Date) []CategorySpend {
	type bucket struct {
		total decimal.Decimal
		count int
	}
	buckets := make(map[string]*bucket)
	grandTotal := decimal.Zero

	for _, exp := range e.expenses.ListByDateRange(start, end) {
		b, ok := buckets[exp.CategoryID]
		if !ok {
			b = &bucket{}
			buckets[exp.CategoryID] = b
		}
		b.total = b.total.Add(exp.Amount)
		b.count++
		grandTotal = grandTotal.Add(exp.Amount)
	}

	breakdown := make([]CategorySpend, 0, len(buckets))
	for id, b := range buckets {
		row := CategorySpend{
			Category: e.ResolveCategory(id),
			Total:    b.total,
			Count:    b.count,
		}
		if grandTotal.IsPositive() {
			pct, _ := b.total.Div(grandTotal).Mul(decimal.NewFromInt(100)).Float64()
			row.Percentage = pct
		}
		breakdown = append(breakdown, row)
	}

	sort.Slice(breakdown, func(i, j int) bool {
		if !breakdown[i].Total.Equal(breakdown[j].Total) {
			return breakdown[i].Total.GreaterThan(breakdown[j].Total)
		}
		return breakdown[i].Category.ID < breakdown[j].Category.ID
	})
	return breakdown
}

// MonthlyStats summarizes the given 2006-01 month. AverageDaily divides by
// days that actually had spend, not calendar days; a month with no activity
// averages 0.
func (e *Engine) MonthlyStats(month string) (MonthlyStats, error) {
	start, end, err := model.MonthBounds(month)
	if err != nil {
		return MonthlyStats{}, err
	}

	series := e.DailySeries(start, end)
	stats := MonthlyStats{
		Month:             month,
		DailySeries:       series,
		CategoryBreakdown: e.CategoryBreakdown(start, end),
	}

	activeDays := 0
	for _, point := range series {
		if point.Total.IsPositive() {
			activeDays++
		}
		stats.Total = stats.Total.Add(point.Total)
	}
	stats.Count = len(e.expenses.ListByDateRange(start, end))
	if activeDays > 0 {
		stats.AverageDaily = stats.Total.Div(decimal.NewFromInt(int64(activeDays))).Round(2)
	}
	if len(stats.CategoryBreakdown) > 0 {
		stats.HighestCategory = &stats.CategoryBreakdown[0]
	}
	return stats, nil
}

// ComparisonStats compares the month containing asOf against the month
// before it.
func (e *Engine) ComparisonStats(asOf model.Date) (ComparisonStats, error) {
	currentKey := asOf.MonthKey()
	previousKey := model.NewDate(asOf.Year(), asOf.Month()-1, 1).MonthKey()

	current, err := e.MonthlyStats(currentKey)
	if err != nil {
		return ComparisonStats{}, err
	}
	previous, err := e.MonthlyStats(previousKey)
	if err != nil {
		return ComparisonStats{}, err
	}

	stats := ComparisonStats{
		CurrentMonth:  current,
		PreviousMonth: previous,
		Trend:         TrendStable,
	}

	diff := current.Total.Sub(previous.Total)
	if previous.Total.IsPositive() {
		pct, _ := diff.Div(previous.Total).Mul(decimal.NewFromInt(100)).Float64()
		stats.PercentageChange = pct
	}
	switch {
	case previous.Total.IsZero():
		// Zero-previous rule: change is 0 and the trend stays stable even
		// when the current month has spend.
		stats.Trend = TrendStable
	case diff.IsPositive():
		stats.Trend = TrendUp
	case diff.IsNegative():
		stats.Trend = TrendDown
	}
	return stats, nil
}

// VelocityStats compares the two halves of a daily series to flag
// accelerating or decelerating spend.
type VelocityStats struct {
	FirstHalfAverage  decimal.Decimal
	SecondHalfAverage decimal.Decimal
	Trend             Trend
}

// Velocity splits the series at its midpoint and compares the average daily
// spend of the halves. Odd-length series put the extra day in the second
// half.
func Velocity(series []DailyPoint) VelocityStats {
	stats := VelocityStats{Trend: TrendStable}
	if len(series) == 0 {
		return stats
	}

	mid := len(series) / 2
	stats.FirstHalfAverage = averageTotal(series[:mid])
	stats.SecondHalfAverage = averageTotal(series[mid:])

	switch {
	case stats.SecondHalfAverage.GreaterThan(stats.FirstHalfAverage):
		stats.Trend = TrendUp
	case stats.SecondHalfAverage.LessThan(stats.FirstHalfAverage):
		stats.Trend = TrendDown
	}
	return stats
}

func averageTotal(points []DailyPoint) decimal.Decimal {
	if len(points) == 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, p := range points {
		sum = sum.Add(p.Total)
	}
	return sum.Div(decimal.NewFromInt(int64(len(points)))).Round(4)
}
