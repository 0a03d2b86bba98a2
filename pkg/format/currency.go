// Package format renders amounts for human-facing output.
package format

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/iwvelando/rental-cashflow/pkg/constants"
	"github.com/shopspring/decimal"
)

// Currency returns amount formatted with the symbol, separators and minor
// units of the ISO 4217 code (e.g. "-$3.964.000" for CLP, "$1,234.56" for
// USD). An empty code selects the default currency.
func Currency(amount float64, code string) string {
	return DecimalCurrency(decimal.NewFromFloat(amount), code)
}

// DecimalCurrency is Currency for exact amounts.
func DecimalCurrency(amount decimal.Decimal, code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		code = constants.DefaultCurrency
	}
	if money.GetCurrency(code) == nil {
		return amount.StringFixed(2) + " " + code
	}
	cur := money.New(0, code).Currency()
	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}

// Percent renders a fraction as a percentage with the given precision
// (0.18 -> "18.00%").
func Percent(fraction float64, places int) string {
	return fmt.Sprintf("%.*f%%", places, fraction*constants.PercentageMultiplier)
}
