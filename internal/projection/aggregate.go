package projection

import "github.com/shopspring/decimal"

// Totals holds the column totals of a projection.
type Totals struct {
	Months int `json:"months"`

	// AverageEffectiveRate is the mean over all months, grace months
	// included; rates are not additive.
	AverageEffectiveRate decimal.Decimal `json:"averageEffectiveRate"`

	Nights          decimal.Decimal `json:"nights"`
	GrossRevenue    decimal.Decimal `json:"grossRevenue"`
	Commission      decimal.Decimal `json:"commission"`
	NetRevenue      decimal.Decimal `json:"netRevenue"`
	CommonCharges   decimal.Decimal `json:"commonCharges"`
	Utilities       decimal.Decimal `json:"utilities"`
	MaintenanceFund decimal.Decimal `json:"maintenanceFund"`
	RentOrDividend  decimal.Decimal `json:"rentOrDividend"`
	TotalExpenses   decimal.Decimal `json:"totalExpenses"`
	NetCashFlow     decimal.Decimal `json:"netCashFlow"`

	// FinalBalance is the cumulative balance of the last month.
	FinalBalance decimal.Decimal `json:"finalBalance"`
}

// Aggregate folds rows into column totals.
func Aggregate(rows []MonthlyRow) Totals {
	t := Totals{Months: len(rows)}
	rateSum := zero
	for _, row := range rows {
		rateSum = rateSum.Add(row.EffectiveRate)
		t.Nights = t.Nights.Add(row.Nights)
		t.GrossRevenue = t.GrossRevenue.Add(row.GrossRevenue)
		t.Commission = t.Commission.Add(row.Commission)
		t.NetRevenue = t.NetRevenue.Add(row.NetRevenue)
		t.CommonCharges = t.CommonCharges.Add(row.CommonCharges)
		t.Utilities = t.Utilities.Add(row.Utilities)
		t.MaintenanceFund = t.MaintenanceFund.Add(row.MaintenanceFund)
		t.RentOrDividend = t.RentOrDividend.Add(row.RentOrDividend)
		t.TotalExpenses = t.TotalExpenses.Add(row.TotalExpenses)
		t.NetCashFlow = t.NetCashFlow.Add(row.NetCashFlow)
	}
	if len(rows) > 0 {
		t.AverageEffectiveRate = rateSum.Div(decimal.NewFromInt(int64(len(rows))))
		t.FinalBalance = rows[len(rows)-1].CumulativeBalance
	}
	return t
}
