// Package optimizer searches for break-even values of a single projection
// parameter.
package optimizer

import (
	"fmt"

	"github.com/iwvelando/rental-cashflow/internal/config"
	"github.com/iwvelando/rental-cashflow/internal/projection"
	"github.com/iwvelando/rental-cashflow/pkg/format"
	"github.com/iwvelando/rental-cashflow/pkg/mathutil"
	"github.com/iwvelando/rental-cashflow/pkg/optimization"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Runner evaluates break-even directives.
type Runner struct {
	logger   *zap.Logger
	engine   *projection.Engine
	currency string
}

type evaluation struct {
	value  float64
	result projection.ProjectionResult
	target string
}

func (e evaluation) feasible() bool {
	switch e.target {
	case config.OptimizerTargetPayback:
		return e.result.Valuation.Payback.Recovered
	default:
		return e.result.Valuation.NPV >= 0
	}
}

// NewRunner constructs a Runner. currency is only used for display values.
func NewRunner(logger *zap.Logger, currency string) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{logger: logger, engine: projection.NewEngine(logger), currency: currency}
}

// Run finds the break-even value of the scenario's optimizer field. For
// revenue drivers this is the smallest value meeting the target; for the
// initial investment it is the largest.
func (r *Runner) Run(scenario config.ScenarioParameters) (optimization.Summary, error) {
	cfg := scenario.Optimizer
	if cfg == nil {
		return optimization.Summary{}, fmt.Errorf("optimizer configuration missing for scenario %s", scenario.Name)
	}
	if err := cfg.Validate(); err != nil {
		return optimization.Summary{}, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	original, err := getFieldValue(scenario.Parameters, cfg.Field)
	if err != nil {
		return optimization.Summary{}, err
	}
	minVal, maxVal := *cfg.Min, *cfg.Max

	lowerEval, err := r.evaluate(scenario.Parameters, cfg, minVal)
	if err != nil {
		return optimization.Summary{}, err
	}
	upperEval, err := r.evaluate(scenario.Parameters, cfg, maxVal)
	if err != nil {
		return optimization.Summary{}, err
	}

	summary := optimization.Summary{
		Scenario:        scenario.Name,
		Field:           cfg.Field,
		Target:          cfg.Target,
		Original:        original,
		OriginalDisplay: r.display(cfg.Field, original),
	}

	// feasibleEval meets the target, infeasibleEval does not; bisection keeps
	// that invariant while narrowing the gap.
	var feasibleEval, infeasibleEval evaluation
	switch {
	case !lowerEval.feasible() && !upperEval.feasible():
		best := upperEval
		if !cfg.Increasing() {
			best = lowerEval
		}
		summary.Notes = []string{fmt.Sprintf("unable to reach %s target within bounds %s to %s",
			cfg.Target, r.display(cfg.Field, minVal), r.display(cfg.Field, maxVal))}
		return r.finish(summary, best, 0, false), nil
	case cfg.Increasing() && lowerEval.feasible():
		return r.finish(summary, lowerEval, 0, true), nil
	case !cfg.Increasing() && upperEval.feasible():
		return r.finish(summary, upperEval, 0, true), nil
	case cfg.Increasing():
		feasibleEval, infeasibleEval = upperEval, lowerEval
	default:
		feasibleEval, infeasibleEval = lowerEval, upperEval
	}

	iterations := 0
	for iterations < cfg.MaxIterations && !mathutil.WithinTolerance(feasibleEval.value, infeasibleEval.value, cfg.Tolerance) {
		mid := infeasibleEval.value + (feasibleEval.value-infeasibleEval.value)/2
		evalMid, err := r.evaluate(scenario.Parameters, cfg, mid)
		if err != nil {
			return optimization.Summary{}, err
		}
		iterations++
		if evalMid.feasible() {
			feasibleEval = evalMid
		} else {
			infeasibleEval = evalMid
		}
	}

	converged := mathutil.WithinTolerance(feasibleEval.value, infeasibleEval.value, cfg.Tolerance)
	if !converged {
		summary.Notes = append(summary.Notes, fmt.Sprintf("stopped after %d iterations without reaching tolerance %g",
			iterations, cfg.Tolerance))
	}

	r.logger.Info("optimizer found break-even value",
		zap.String("op", "optimizer.Run"),
		zap.String("scenario", scenario.Name),
		zap.String("field", cfg.Field),
		zap.String("target", cfg.Target),
		zap.Float64("original", original),
		zap.Float64("value", feasibleEval.value),
		zap.Int("iterations", iterations),
		zap.Bool("converged", converged),
	)

	return r.finish(summary, feasibleEval, iterations, converged), nil
}

func (r *Runner) finish(summary optimization.Summary, eval evaluation, iterations int, converged bool) optimization.Summary {
	summary.Value = eval.value
	summary.ValueDisplay = r.display(summary.Field, eval.value)
	summary.NPV = mathutil.Round(eval.result.Valuation.NPV)
	if eval.result.Valuation.Payback.Recovered {
		summary.PaybackMonth = eval.result.Valuation.Payback.Month
	}
	summary.Iterations = iterations
	summary.Converged = converged
	return summary
}

func (r *Runner) evaluate(base projection.ParameterSet, cfg *config.OptimizerConfig, value float64) (evaluation, error) {
	ps, err := setFieldValue(base, cfg.Field, value)
	if err != nil {
		return evaluation{}, err
	}
	result, err := r.engine.Project(ps)
	if err != nil {
		return evaluation{}, err
	}
	return evaluation{value: value, result: result, target: cfg.Target}, nil
}

func (r *Runner) display(field string, value float64) string {
	if field == config.OptimizerFieldAvgNightsPerMonth {
		return fmt.Sprintf("%.2f nights", value)
	}
	return format.Currency(value, r.currency)
}

func getFieldValue(ps projection.ParameterSet, field string) (float64, error) {
	switch field {
	case config.OptimizerFieldBaseNightlyRate:
		return ps.BaseNightlyRate().InexactFloat64(), nil
	case config.OptimizerFieldAvgNightsPerMonth:
		return ps.AvgNightsPerMonth().InexactFloat64(), nil
	case config.OptimizerFieldInitialInvestment:
		return ps.InitialInvestment().InexactFloat64(), nil
	default:
		return 0, fmt.Errorf("optimizer field %q is not supported", field)
	}
}

func setFieldValue(ps projection.ParameterSet, field string, value float64) (projection.ParameterSet, error) {
	p := ps.Values()
	d := decimal.NewFromFloat(value)
	switch field {
	case config.OptimizerFieldBaseNightlyRate:
		p.BaseNightlyRate = d
	case config.OptimizerFieldAvgNightsPerMonth:
		p.AvgNightsPerMonth = d
	case config.OptimizerFieldInitialInvestment:
		p.InitialInvestment = d
	default:
		return projection.ParameterSet{}, fmt.Errorf("optimizer field %q is not supported", field)
	}
	return projection.NewParameterSet(p)
}
