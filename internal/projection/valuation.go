package projection

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/iwvelando/rental-cashflow/pkg/constants"
	"github.com/iwvelando/rental-cashflow/pkg/mathutil"
	"github.com/shopspring/decimal"
)

// IRR is the internal rate of return of a cash-flow series. When no rate
// zeroes the NPV (no sign change, or the solver did not converge)
// Determinable is false and the rates carry no meaning.
type IRR struct {
	Monthly      float64
	Annual       float64
	Determinable bool
	Iterations   int
}

func (i IRR) String() string {
	if !i.Determinable {
		return "not determinable"
	}
	return fmt.Sprintf("%.4f%% monthly (%.2f%% annual)",
		i.Monthly*constants.PercentageMultiplier, i.Annual*constants.PercentageMultiplier)
}

// MarshalJSON encodes undeterminable rates as null.
func (i IRR) MarshalJSON() ([]byte, error) {
	out := struct {
		Monthly      *float64 `json:"monthly"`
		Annual       *float64 `json:"annual"`
		Determinable bool     `json:"determinable"`
		Iterations   int      `json:"iterations"`
	}{Determinable: i.Determinable, Iterations: i.Iterations}
	if i.Determinable {
		monthly, annual := i.Monthly, i.Annual
		out.Monthly, out.Annual = &monthly, &annual
	}
	return json.Marshal(out)
}

// Payback is the first month whose cumulative balance is non-negative.
type Payback struct {
	Month     int  `json:"month"`
	Recovered bool `json:"recovered"`
}

func (p Payback) String() string {
	if !p.Recovered {
		return "not recovered within horizon"
	}
	if p.Month == 1 {
		return "1 month"
	}
	return fmt.Sprintf("%d months", p.Month)
}

// Valuation groups the investment KPIs of a projection.
type Valuation struct {
	MonthlyDiscountRate float64 `json:"monthlyDiscountRate"`
	NPV                 float64 `json:"npv"`
	IRR                 IRR     `json:"irr"`
	Payback             Payback `json:"payback"`
}

// MonthlyDiscountRate converts an effective annual rate into the equivalent
// effective monthly rate.
func MonthlyDiscountRate(annual float64) float64 {
	return math.Pow(1+annual, 1.0/constants.MonthsPerYear) - 1
}

// AnnualizeRate compounds a monthly rate over twelve months.
func AnnualizeRate(monthly float64) float64 {
	return math.Pow(1+monthly, constants.MonthsPerYear) - 1
}

// NPV discounts flows received at t=1..N at rate and subtracts the
// undiscounted investment made at t=0.
func NPV(flows []float64, rate, investment float64) float64 {
	return presentValue(flows, rate, 1) - investment
}

// presentValue discounts flows whose first element occurs at period first.
func presentValue(flows []float64, rate float64, first int) float64 {
	factor := 1 / (1 + rate)
	discount := math.Pow(factor, float64(first))
	sum := 0.0
	for _, flow := range flows {
		sum += flow * discount
		discount *= factor
	}
	return sum
}

// absolutePresentValue discounts the magnitudes of flows from t=0. It scales
// the residual check of a candidate rate.
func absolutePresentValue(flows []float64, rate float64) float64 {
	magnitudes := make([]float64, len(flows))
	for i, flow := range flows {
		magnitudes[i] = math.Abs(flow)
	}
	return presentValue(magnitudes, rate, 0)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// zeroesNPV reports whether rate discounts flows to zero within
// constants.IRRResidualTolerance of the discounted gross flow.
func zeroesNPV(flows []float64, rate float64) bool {
	if rate <= -1 || !isFinite(rate) {
		return false
	}
	value := presentValue(flows, rate, 0)
	scale := absolutePresentValue(flows, rate)
	if !isFinite(value) || !isFinite(scale) || scale == 0 {
		return false
	}
	return math.Abs(value) <= constants.IRRResidualTolerance*scale
}

// presentValueDerivative is d/drate of presentValue(flows, rate, 0).
func presentValueDerivative(flows []float64, rate float64) float64 {
	sum := 0.0
	for t, flow := range flows {
		if t == 0 {
			continue
		}
		sum -= float64(t) * flow / math.Pow(1+rate, float64(t+1))
	}
	return sum
}

func hasSignChange(flows []float64) bool {
	positive, negative := false, false
	for _, flow := range flows {
		if flow > 0 {
			positive = true
		} else if flow < 0 {
			negative = true
		}
	}
	return positive && negative
}

// SolveIRR finds the periodic rate zeroing the NPV of flows, where flows[0]
// occurs at t=0. Newton-Raphson is tried first from constants.IRRGuess; if
// it diverges, a bracketed bisection over (-1, constants.IRRUpperBound] is
// used. Both phases are bounded by constants.IRRMaxIterations, and a rate is
// only reported when it actually zeroes the present value.
func SolveIRR(flows []float64) IRR {
	if len(flows) < 2 || !hasSignChange(flows) {
		return IRR{}
	}

	if rate, iterations, ok := newtonIRR(flows); ok && zeroesNPV(flows, rate) {
		return IRR{Monthly: rate, Annual: AnnualizeRate(rate), Determinable: true, Iterations: iterations}
	}
	if rate, iterations, ok := bisectIRR(flows); ok && zeroesNPV(flows, rate) {
		return IRR{Monthly: rate, Annual: AnnualizeRate(rate), Determinable: true, Iterations: iterations}
	}
	return IRR{}
}

func newtonIRR(flows []float64) (float64, int, bool) {
	rate := constants.IRRGuess
	for iterations := 1; iterations <= constants.IRRMaxIterations; iterations++ {
		value := presentValue(flows, rate, 0)
		slope := presentValueDerivative(flows, rate)
		if slope == 0 || math.IsNaN(slope) || math.IsInf(slope, 0) {
			return 0, iterations, false
		}
		next := rate - value/slope
		if math.IsNaN(next) || math.IsInf(next, 0) || next <= -1 {
			return 0, iterations, false
		}
		if math.Abs(next-rate) <= constants.IRRTolerance {
			return next, iterations, true
		}
		rate = next
	}
	return 0, constants.IRRMaxIterations, false
}

// finiteLowerBound returns the rate closest to -1, starting from
// constants.IRRLowerBound, at which the present value of flows is still
// finite. Long series overflow float64 near -1, so the distance to -1 is
// doubled until it does not.
func finiteLowerBound(flows []float64) (float64, float64, bool) {
	for gap := 1 + constants.IRRLowerBound; gap < 1; gap *= 2 {
		lower := gap - 1
		if value := presentValue(flows, lower, 0); isFinite(value) {
			return lower, value, true
		}
	}
	return 0, 0, false
}

func bisectIRR(flows []float64) (float64, int, bool) {
	lower, valueLower, ok := finiteLowerBound(flows)
	if !ok {
		return 0, 0, false
	}
	upper := constants.IRRGuess
	valueUpper := presentValue(flows, upper, 0)

	// Widen the upper bound until the interval brackets a root.
	for mathutil.SameSign(valueLower, valueUpper) {
		if upper >= constants.IRRUpperBound {
			return 0, 0, false
		}
		upper = math.Min(upper*2+1, constants.IRRUpperBound)
		valueUpper = presentValue(flows, upper, 0)
	}
	if !isFinite(valueUpper) {
		return 0, 0, false
	}
	if valueLower == 0 {
		return lower, 0, true
	}
	if valueUpper == 0 {
		return upper, 0, true
	}

	iterations := 0
	for iterations < constants.IRRMaxIterations && math.Abs(upper-lower) > constants.IRRTolerance {
		mid := lower + (upper-lower)/2
		valueMid := presentValue(flows, mid, 0)
		iterations++
		if !isFinite(valueMid) {
			return 0, iterations, false
		}
		if valueMid == 0 {
			return mid, iterations, true
		}
		if mathutil.SameSign(valueMid, valueLower) {
			lower, valueLower = mid, valueMid
		} else {
			upper = mid
		}
	}
	if math.Abs(upper-lower) > constants.IRRTolerance {
		return 0, iterations, false
	}
	return lower + (upper-lower)/2, iterations, true
}

// FindPayback scans a cumulative balance column for the first non-negative
// month.
func FindPayback(balances []decimal.Decimal) Payback {
	for i, balance := range balances {
		if !balance.IsNegative() {
			return Payback{Month: i + 1, Recovered: true}
		}
	}
	return Payback{}
}

// Evaluate computes NPV, IRR and payback for a net cash-flow series received
// at months 1..N, an investment made at t=0 and an effective annual discount
// rate.
func Evaluate(netCashFlows []decimal.Decimal, investment, annualDiscountRate decimal.Decimal) Valuation {
	flows := make([]float64, len(netCashFlows))
	balances := make([]decimal.Decimal, len(netCashFlows))
	balance := investment.Neg()
	for i, flow := range netCashFlows {
		flows[i] = flow.InexactFloat64()
		balance = balance.Add(flow)
		balances[i] = balance
	}

	monthlyRate := MonthlyDiscountRate(annualDiscountRate.InexactFloat64())
	invested := investment.InexactFloat64()

	series := make([]float64, 0, len(flows)+1)
	series = append(series, -invested)
	series = append(series, flows...)

	return Valuation{
		MonthlyDiscountRate: monthlyRate,
		NPV:                 NPV(flows, monthlyRate, invested),
		IRR:                 SolveIRR(series),
		Payback:             FindPayback(balances),
	}
}
