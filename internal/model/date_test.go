package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, 2024, d.Year())
	assert.Equal(t, time.March, d.Month())
	assert.Equal(t, 15, d.Day())

	_, err = ParseDate("15/03/2024")
	assert.Error(t, err)
}

func TestDate_Add(t *testing.T) {
	d := NewDate(2024, time.January, 31)
	assert.Equal(t, NewDate(2024, time.February, 1), d.Add(1))
	assert.Equal(t, NewDate(2024, time.January, 30), d.Add(-1))

	// leap year
	assert.Equal(t, NewDate(2024, time.February, 29), NewDate(2024, time.February, 28).Add(1))
	assert.Equal(t, NewDate(2023, time.March, 1), NewDate(2023, time.February, 28).Add(1))
}

func TestDate_Ordering(t *testing.T) {
	a := NewDate(2024, time.May, 1)
	b := NewDate(2024, time.May, 2)
	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.True(t, a.Equal(NewDate(2024, time.May, 1)))
	assert.False(t, a.Equal(b))
}

func TestDate_JSONRoundTrip(t *testing.T) {
	d := NewDate(2024, time.December, 9)

	blob, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-12-09"`, string(blob))

	var decoded Date
	require.NoError(t, json.Unmarshal(blob, &decoded))
	assert.Equal(t, d, decoded)

	assert.Error(t, json.Unmarshal([]byte(`"not-a-date"`), &decoded))
}

func TestMonthBounds(t *testing.T) {
	tests := []struct {
		month     string
		wantStart Date
		wantEnd   Date
		wantErr   bool
	}{
		{month: "2024-02", wantStart: NewDate(2024, time.February, 1), wantEnd: NewDate(2024, time.February, 29)},
		{month: "2023-02", wantStart: NewDate(2023, time.February, 1), wantEnd: NewDate(2023, time.February, 28)},
		{month: "2024-12", wantStart: NewDate(2024, time.December, 1), wantEnd: NewDate(2024, time.December, 31)},
		{month: "2024-13", wantErr: true},
		{month: "nope", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.month, func(t *testing.T) {
			start, end, err := MonthBounds(tt.month)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestDate_MonthKey(t *testing.T) {
	assert.Equal(t, "2024-03", NewDate(2024, time.March, 15).MonthKey())
	assert.Equal(t, "2024-01", NewDate(2024, time.January, 1).MonthKey())
}
