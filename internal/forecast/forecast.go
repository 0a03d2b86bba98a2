// Package forecast defines the data structures related to a given forecast and
// includes functions for computing the forecasts.
package forecast

import (
	"fmt"

	"github.com/iwvelando/rental-cashflow/internal/config"
	"github.com/iwvelando/rental-cashflow/internal/optimizer"
	"github.com/iwvelando/rental-cashflow/internal/projection"
	"github.com/iwvelando/rental-cashflow/pkg/loans"
	"github.com/iwvelando/rental-cashflow/pkg/optimization"
	"go.uber.org/zap"
)

// Forecast holds all information related to a specific scenario projection.
type Forecast struct {
	Name    string                      `json:"name"`
	Result  projection.ProjectionResult `json:"result"`
	Metrics Metrics                     `json:"metrics"`
}

// Metrics holds derived results computed alongside the projection.
type Metrics struct {
	BreakEven *optimization.Summary `json:"breakEven,omitempty"`
	// Mortgage totals the loan payments falling inside the horizon.
	Mortgage *loans.Summary `json:"mortgage,omitempty"`
}

// GetForecast projects every active scenario in configuration order.
func GetForecast(logger *zap.Logger, conf config.Configuration) ([]Forecast, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	for _, scenario := range conf.Scenarios {
		if !scenario.Active {
			logger.Debug(fmt.Sprintf("skipping scenario %s because it is inactive", scenario.Name),
				zap.String("op", "forecast.GetForecast"),
			)
		}
	}

	sets, err := conf.ParameterSets()
	if err != nil {
		return nil, err
	}

	engine := projection.NewEngine(logger)
	runner := optimizer.NewRunner(logger, conf.Currency)
	amortization := loans.NewAmortizationScheduleGenerator(logger)

	results := make([]Forecast, 0, len(sets))
	for _, set := range sets {
		result, err := engine.Project(set.Parameters)
		if err != nil {
			return results, fmt.Errorf("scenario %s: %w", set.Name, err)
		}

		f := Forecast{Name: set.Name, Result: result}
		if set.Optimizer != nil {
			summary, err := runner.Run(set)
			if err != nil {
				return results, err
			}
			f.Metrics.BreakEven = &summary
		}
		if set.Mortgage != nil {
			schedule, err := amortization.GenerateSchedule(*set.Mortgage, set.Parameters.HorizonMonths())
			if err != nil {
				return results, fmt.Errorf("scenario %s: %w", set.Name, err)
			}
			summary := loans.Summarize(*set.Mortgage, schedule)
			f.Metrics.Mortgage = &summary
		}

		logger.Info("scenario projected",
			zap.String("op", "forecast.GetForecast"),
			zap.String("scenario", set.Name),
			zap.Float64("npv", result.Valuation.NPV),
			zap.String("irr", result.Valuation.IRR.String()),
			zap.String("payback", result.Valuation.Payback.String()),
		)
		results = append(results, f)
	}

	return results, nil
}
