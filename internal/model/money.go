package model

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Amounts and balances are decimal values throughout; floating point only
// appears at the display edge (percentages, averages rendered by the CLI).

// ParseAmount parses a decimal amount string, e.g. "12.50".
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount %q: %w", s, err)
	}
	return d, nil
}

// FormatAmount renders a decimal amount in the given ISO currency,
// e.g. FormatAmount(decimal.NewFromInt(1250), "USD") -> "$1,250.00".
func FormatAmount(d decimal.Decimal, currencyCode string) string {
	cur := money.GetCurrency(currencyCode)
	if cur == nil {
		return d.StringFixed(2)
	}
	minor := d.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, cur.Code).Display()
}
