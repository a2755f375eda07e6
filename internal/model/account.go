package model

import "github.com/shopspring/decimal"

// AccountCategory classifies the kind of account an Account represents.
type AccountCategory string

const (
	AccountCash       AccountCategory = "cash"
	AccountBank       AccountCategory = "bank"
	AccountCreditCard AccountCategory = "credit_card"
	AccountDebitCard  AccountCategory = "debit_card"
	AccountUPI        AccountCategory = "upi"
	AccountWallet     AccountCategory = "wallet"
	AccountOther      AccountCategory = "other"
)

// ValidAccountCategory reports whether c is one of the known account kinds.
func ValidAccountCategory(c AccountCategory) bool {
	switch c {
	case AccountCash, AccountBank, AccountCreditCard, AccountDebitCard,
		AccountUPI, AccountWallet, AccountOther:
		return true
	}
	return false
}

// Account is a money container whose currentBalance the ledger keeps
// consistent with the settled transactions that reference it.
//
// For non-credit accounts, CurrentBalance always equals OpeningBalance plus
// the signed sum of applied transactions. Credit cards track
// OutstandingBalance as the user-facing figure instead; it is manually
// maintained and never touched by transfers.
type Account struct {
	ID                 string           `json:"id"`
	Name               string           `json:"name"`
	Category           AccountCategory  `json:"category"`
	OpeningBalance     decimal.Decimal  `json:"openingBalance"`
	CurrentBalance     decimal.Decimal  `json:"currentBalance"`
	CreditLimit        *decimal.Decimal `json:"creditLimit,omitempty"`
	OutstandingBalance *decimal.Decimal `json:"outstandingBalance,omitempty"`
	IsActive           bool             `json:"isActive"`
	IsDefault          bool             `json:"isDefault"`
	SortOrder          int              `json:"sortOrder"`
	CreatedAt          int64            `json:"createdAt"`
	UpdatedAt          int64            `json:"updatedAt"`
}
