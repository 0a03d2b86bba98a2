package projection

import (
	"github.com/iwvelando/rental-cashflow/pkg/constants"
	"github.com/shopspring/decimal"
)

// YearIndex returns the 0-based 12-month block of a 1-based month. Months
// 1-12 are year 0, months 13-24 year 1, and so on.
func YearIndex(month int) int {
	return (month - 1) / constants.MonthsPerYear
}

// GrowthFactor returns (1+rate)^years. Repeated multiplication keeps the
// result exact for decimal rates.
func GrowthFactor(rate decimal.Decimal, years int) decimal.Decimal {
	step := one.Add(rate)
	factor := one
	for i := 0; i < years; i++ {
		factor = factor.Mul(step)
	}
	return factor
}

// EffectiveRate is the nightly rate charged in month. It is zero during the
// grace period; otherwise the base rate grows once per 12-month block,
// counted from month 1 regardless of where the grace period ends.
func EffectiveRate(month int, p ParameterSet) decimal.Decimal {
	if p.InGrace(month) {
		return zero
	}
	return p.BaseNightlyRate().Mul(GrowthFactor(p.AnnualGrowthRate(), YearIndex(month)))
}

// Nights is the number of occupied nights in month.
func Nights(month int, p ParameterSet) decimal.Decimal {
	if p.InGrace(month) {
		return zero
	}
	return p.AvgNightsPerMonth()
}
