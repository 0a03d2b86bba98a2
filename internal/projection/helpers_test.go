package projection

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// scenarioA mirrors the furnished-apartment defaults: 36 months, six of
// them without guests.
func scenarioA() Parameters {
	return Parameters{
		HorizonMonths:     36,
		GraceMonths:       6,
		BaseNightlyRate:   dec("38000"),
		AvgNightsPerMonth: dec("21"),
		AnnualGrowthRate:  dec("0.03"),
		CommissionRate:    dec("0.18"),
		FixedCosts: FixedCosts{
			CommonCharges:   dec("90000"),
			Utilities:       dec("60000"),
			MaintenanceFund: dec("40000"),
			RentOrDividend:  dec("274000"),
		},
		InitialInvestment:  dec("3500000"),
		AnnualDiscountRate: dec("0.12"),
	}
}

func assertDecimal(t *testing.T, expected string, actual decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	if !dec(expected).Equal(actual) {
		t.Errorf("expected %s, got %s %v", expected, actual.String(), msgAndArgs)
	}
}
