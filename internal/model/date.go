package model

import (
	"fmt"
	"time"
)

// DateFormat is the wire format for calendar days.
const DateFormat = "2006-01-02"

// MonthFormat is the wire format for budget months.
const MonthFormat = "2006-01"

// Date represents a calendar day with no time component.
type Date struct {
	y int
	m time.Month
	d int
}

// NewDate returns a normalized Date for the given year, month, and day.
func NewDate(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.time().Date()
	return d
}

// DateOf truncates a time.Time to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Date())
}

// Today returns the current date.
func Today() Date {
	return DateOf(time.Now())
}

// ParseDate parses a date in 2006-01-02 form.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return Date{}, fmt.Errorf("failed to parse date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// time returns the canonical representation of the day, midnight UTC.
func (d Date) time() time.Time {
	return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC)
}

// Add returns a new Date with the given number of days added.
func (d Date) Add(days int) Date { return NewDate(d.y, d.m, d.d+days) }

// Before reports whether d falls before x.
func (d Date) Before(x Date) bool { return d.time().Before(x.time()) }

// After reports whether d falls after x.
func (d Date) After(x Date) bool { return d.time().After(x.time()) }

// Equal reports whether d and x are the same day.
func (d Date) Equal(x Date) bool { return d == x }

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool { return d == Date{} }

// Year returns the year of the date.
func (d Date) Year() int { return d.y }

// Month returns the month of the date.
func (d Date) Month() time.Month { return d.m }

// Day returns the day of the month.
func (d Date) Day() int { return d.d }

// MonthKey returns the 2006-01 key of the month containing d.
func (d Date) MonthKey() string { return d.time().Format(MonthFormat) }

func (d Date) String() string { return d.time().Format(DateFormat) }

// MarshalJSON encodes the date as a "2006-01-02" string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes a "2006-01-02" string.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date %s", s)
	}
	parsed, err := ParseDate(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MonthBounds returns the first and last day of a 2006-01 month key.
func MonthBounds(month string) (Date, Date, error) {
	t, err := time.Parse(MonthFormat, month)
	if err != nil {
		return Date{}, Date{}, fmt.Errorf("failed to parse month %q: %w", month, err)
	}
	start := DateOf(t)
	end := NewDate(t.Year(), t.Month()+1, 0) // day 0 normalizes to the previous month's last day
	return start, end, nil
}
