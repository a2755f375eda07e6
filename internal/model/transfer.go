package model

import "github.com/shopspring/decimal"

// Transfer moves value between two accounts. It is neither income nor
// expense and never changes the combined balance of the accounts involved.
//
// Either account id may be empty. Legacy transfers recorded before account
// linking carry only the coarse FromType/ToType tags; those sides never
// touch any account's currentBalance.
type Transfer struct {
	ID            string          `json:"id"`
	Amount        decimal.Decimal `json:"amount"`
	FromAccountID string          `json:"fromAccountId,omitempty"`
	ToAccountID   string          `json:"toAccountId,omitempty"`
	FromType      AccountCategory `json:"fromType,omitempty"`
	ToType        AccountCategory `json:"toType,omitempty"`
	Date          Date            `json:"date"`
	Note          string          `json:"note,omitempty"`
	CreatedAt     int64           `json:"createdAt"`
	UpdatedAt     int64           `json:"updatedAt"`
}

// IsLegacy reports whether the transfer has no linked accounts at all.
func (t Transfer) IsLegacy() bool {
	return t.FromAccountID == "" && t.ToAccountID == ""
}
