package model

import "github.com/shopspring/decimal"

// RecurringFrequency describes how often a recurring income repeats.
// Metadata only; recurrence has no balance effect of its own.
type RecurringFrequency string

const (
	FrequencyWeekly  RecurringFrequency = "weekly"
	FrequencyMonthly RecurringFrequency = "monthly"
	FrequencyYearly  RecurringFrequency = "yearly"
)

// Income is a single earning record.
type Income struct {
	ID            string             `json:"id"`
	Amount        decimal.Decimal    `json:"amount"`
	CategoryID    string             `json:"categoryId"`
	AccountID     string             `json:"accountId,omitempty"`
	Date          Date               `json:"date"`
	Note          string             `json:"note,omitempty"`
	PaymentMethod string             `json:"paymentMethod,omitempty"`
	IsRecurring   bool               `json:"isRecurring,omitempty"`
	Frequency     RecurringFrequency `json:"frequency,omitempty"`
	CreatedAt     int64              `json:"createdAt"`
	UpdatedAt     int64              `json:"updatedAt"`
}
