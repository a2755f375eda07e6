package model

import "github.com/shopspring/decimal"

// Expense is a single spend record. AccountID is optional; expenses can
// outlive the account they were paid from.
type Expense struct {
	ID         string          `json:"id"`
	Amount     decimal.Decimal `json:"amount"`
	CategoryID string          `json:"categoryId"`
	AccountID  string          `json:"accountId,omitempty"`
	Date       Date            `json:"date"`
	Note       string          `json:"note,omitempty"`
	CreatedAt  int64           `json:"createdAt"`
	UpdatedAt  int64           `json:"updatedAt"`
}
