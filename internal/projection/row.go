package projection

import (
	"github.com/iwvelando/rental-cashflow/pkg/datetime"
	"github.com/shopspring/decimal"
)

// MonthlyRow is one month of the cash-flow ledger.
type MonthlyRow struct {
	Month       int    `json:"month"`
	PeriodLabel string `json:"periodLabel"`
	InGrace     bool   `json:"inGrace"`

	EffectiveRate decimal.Decimal `json:"effectiveRate"`
	Nights        decimal.Decimal `json:"nights"`
	GrossRevenue  decimal.Decimal `json:"grossRevenue"`
	Commission    decimal.Decimal `json:"commission"`
	NetRevenue    decimal.Decimal `json:"netRevenue"`

	CommonCharges   decimal.Decimal `json:"commonCharges"`
	Utilities       decimal.Decimal `json:"utilities"`
	MaintenanceFund decimal.Decimal `json:"maintenanceFund"`
	RentOrDividend  decimal.Decimal `json:"rentOrDividend"`
	TotalExpenses   decimal.Decimal `json:"totalExpenses"`

	NetCashFlow       decimal.Decimal `json:"netCashFlow"`
	CumulativeBalance decimal.Decimal `json:"cumulativeBalance"`
}

// GenerateRow produces the ledger row for month. previousBalance is the
// cumulative balance of the preceding month; for month 1 it is ignored and
// the initial investment is subtracted instead.
func GenerateRow(month int, p ParameterSet, previousBalance decimal.Decimal) MonthlyRow {
	rate := EffectiveRate(month, p)
	nights := Nights(month, p)
	gross := rate.Mul(nights)
	commission := gross.Mul(p.CommissionRate())
	net := gross.Sub(commission)

	costs := p.FixedCosts()
	expenses := costs.Total()
	flow := net.Sub(expenses)

	opening := previousBalance
	if month == 1 {
		opening = p.InitialInvestment().Neg()
	}

	return MonthlyRow{
		Month:             month,
		PeriodLabel:       datetime.PeriodLabel(p.StartDate(), month),
		InGrace:           p.InGrace(month),
		EffectiveRate:     rate,
		Nights:            nights,
		GrossRevenue:      gross,
		Commission:        commission,
		NetRevenue:        net,
		CommonCharges:     costs.CommonCharges,
		Utilities:         costs.Utilities,
		MaintenanceFund:   costs.MaintenanceFund,
		RentOrDividend:    costs.RentOrDividend,
		TotalExpenses:     expenses,
		NetCashFlow:       flow,
		CumulativeBalance: opening.Add(flow),
	}
}

// GenerateRows folds GenerateRow over months 1..HorizonMonths.
func GenerateRows(p ParameterSet) []MonthlyRow {
	rows := make([]MonthlyRow, 0, p.HorizonMonths())
	balance := zero
	for month := 1; month <= p.HorizonMonths(); month++ {
		row := GenerateRow(month, p, balance)
		balance = row.CumulativeBalance
		rows = append(rows, row)
	}
	return rows
}

// NetCashFlows extracts the net cash flow column.
func NetCashFlows(rows []MonthlyRow) []decimal.Decimal {
	flows := make([]decimal.Decimal, len(rows))
	for i, row := range rows {
		flows[i] = row.NetCashFlow
	}
	return flows
}

// CumulativeBalances extracts the cumulative balance column.
func CumulativeBalances(rows []MonthlyRow) []decimal.Decimal {
	balances := make([]decimal.Decimal, len(rows))
	for i, row := range rows {
		balances[i] = row.CumulativeBalance
	}
	return balances
}
