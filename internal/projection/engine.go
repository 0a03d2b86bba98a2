package projection

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ExpectedMonthly is the steady-state month implied by the base parameters:
// no grace period and no growth.
type ExpectedMonthly struct {
	GrossRevenue decimal.Decimal `json:"grossRevenue"`
	Commission   decimal.Decimal `json:"commission"`
	NetRevenue   decimal.Decimal `json:"netRevenue"`
	FixedCosts   decimal.Decimal `json:"fixedCosts"`
	Margin       decimal.Decimal `json:"margin"`
}

// Expected computes the steady-state month for p.
func Expected(p ParameterSet) ExpectedMonthly {
	gross := p.BaseNightlyRate().Mul(p.AvgNightsPerMonth())
	commission := gross.Mul(p.CommissionRate())
	net := gross.Sub(commission)
	fixed := p.FixedCosts().Total()
	return ExpectedMonthly{
		GrossRevenue: gross,
		Commission:   commission,
		NetRevenue:   net,
		FixedCosts:   fixed,
		Margin:       net.Sub(fixed),
	}
}

// ProjectionResult is the complete output of one projection run.
type ProjectionResult struct {
	Parameters ParameterSet    `json:"parameters"`
	Rows       []MonthlyRow    `json:"rows"`
	Totals     Totals          `json:"totals"`
	Valuation  Valuation       `json:"valuation"`
	Expected   ExpectedMonthly `json:"expected"`
}

// Engine runs the projection pipeline. It holds no mutable state and is safe
// for concurrent use.
type Engine struct {
	logger *zap.Logger
}

// NewEngine creates a projection engine with the given logger.
// If logger is nil, it will use a no-op logger to prevent panics.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

// Project generates the monthly rows for p, aggregates them and evaluates
// the valuation KPIs.
func (e *Engine) Project(p ParameterSet) (ProjectionResult, error) {
	if !p.Valid() {
		return ProjectionResult{}, fmt.Errorf("projection requires a validated parameter set: %w", ErrInvalidParameter)
	}

	rows := GenerateRows(p)
	totals := Aggregate(rows)
	valuation := Evaluate(NetCashFlows(rows), p.InitialInvestment(), p.AnnualDiscountRate())
	if !isFinite(valuation.NPV) {
		return ProjectionResult{}, fmt.Errorf("net present value is not representable for annual discount rate %s over %d months: %w",
			p.AnnualDiscountRate().String(), p.HorizonMonths(), ErrInvalidParameter)
	}

	e.logger.Debug("projection computed",
		zap.String("op", "projection.Project"),
		zap.Int("months", len(rows)),
		zap.Int("graceMonths", p.GraceMonths()),
		zap.String("finalBalance", totals.FinalBalance.String()),
		zap.Float64("npv", valuation.NPV),
		zap.Bool("irrDeterminable", valuation.IRR.Determinable),
		zap.Bool("recovered", valuation.Payback.Recovered),
	)

	return ProjectionResult{
		Parameters: p,
		Rows:       rows,
		Totals:     totals,
		Valuation:  valuation,
		Expected:   Expected(p),
	}, nil
}

// Project runs the pipeline without logging.
func Project(p ParameterSet) (ProjectionResult, error) {
	return NewEngine(nil).Project(p)
}
