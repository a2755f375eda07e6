package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	d, err := ParseAmount("12.50")
	require.NoError(t, err)
	assert.True(t, d.Equal(decimal.New(1250, -2)))

	_, err = ParseAmount("twelve")
	assert.Error(t, err)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "$1,250.00", FormatAmount(decimal.NewFromInt(1250), "USD"))
	assert.Equal(t, "$0.50", FormatAmount(decimal.New(50, -2), "USD"))

	// Unknown currency falls back to a plain fixed-point string.
	assert.Equal(t, "3.14", FormatAmount(decimal.New(314, -2), "XXX-NOT-A-CURRENCY"))
}
