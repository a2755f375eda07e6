package model

import "github.com/shopspring/decimal"

// Budget is a monthly spending limit for a category.
type Budget struct {
	ID         string          `json:"id"`
	Month      string          `json:"month"` // 2006-01
	CategoryID string          `json:"categoryId"`
	Limit      decimal.Decimal `json:"amount"`
	Rollover   bool            `json:"rollover,omitempty"`
	CreatedAt  int64           `json:"createdAt"`
	UpdatedAt  int64           `json:"updatedAt"`
}

// BudgetStatus is the derived view of a budget against actual spend for its
// month. Never stored; recomputed from the expense collection on demand.
type BudgetStatus struct {
	Budget       Budget
	Spent        decimal.Decimal
	Remaining    decimal.Decimal
	Percentage   float64
	IsOverBudget bool
}
