package format

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCurrency(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		code     string
		expected string
	}{
		{"USD positive", 1234.56, "USD", "$1,234.56"},
		{"USD negative", -1234.56, "USD", "-$1,234.56"},
		{"USD small", 5, "usd", "$5.00"},
		{"Unknown code", 10.5, "ZZZ", "10.50 ZZZ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Currency(tt.amount, tt.code))
		})
	}
}

func TestDecimalCurrencyRoundsToMinorUnits(t *testing.T) {
	assert.Equal(t, "$0.01", DecimalCurrency(decimal.RequireFromString("0.005"), "USD"))
	assert.Equal(t, "$140,575.89", DecimalCurrency(decimal.RequireFromString("140575.888"), "USD"))
}

func TestCurrencyDefaultsCode(t *testing.T) {
	assert.Equal(t, Currency(1000, "CLP"), Currency(1000, ""))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "18.00%", Percent(0.18, 2))
	assert.Equal(t, "0.1081%", Percent(0.001081293, 4))
	assert.Equal(t, "-3.0%", Percent(-0.03, 1))
}
