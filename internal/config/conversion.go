package config

import (
	"fmt"

	"github.com/iwvelando/rental-cashflow/internal/projection"
	"github.com/iwvelando/rental-cashflow/pkg/datetime"
	"github.com/iwvelando/rental-cashflow/pkg/loans"
	"github.com/shopspring/decimal"
)

// FixedCosts are the monthly costs as written in the config file.
type FixedCosts struct {
	CommonCharges   float64 `yaml:"commonCharges" mapstructure:"commonCharges"`
	Utilities       float64 `yaml:"utilities" mapstructure:"utilities"`
	MaintenanceFund float64 `yaml:"maintenanceFund" mapstructure:"maintenanceFund"`
	RentOrDividend  float64 `yaml:"rentOrDividend" mapstructure:"rentOrDividend"`
}

// Parameters are the projection inputs as written in the config file.
type Parameters struct {
	HorizonMonths      int        `yaml:"horizonMonths" mapstructure:"horizonMonths"`
	GraceMonths        int        `yaml:"graceMonths" mapstructure:"graceMonths"`
	BaseNightlyRate    float64    `yaml:"baseNightlyRate" mapstructure:"baseNightlyRate"`
	AvgNightsPerMonth  float64    `yaml:"avgNightsPerMonth" mapstructure:"avgNightsPerMonth"`
	AnnualGrowthRate   float64    `yaml:"annualGrowthRate" mapstructure:"annualGrowthRate"`
	CommissionRate     float64    `yaml:"commissionRate" mapstructure:"commissionRate"`
	FixedCosts         FixedCosts `yaml:"fixedCosts" mapstructure:"fixedCosts"`
	InitialInvestment  float64    `yaml:"initialInvestment" mapstructure:"initialInvestment"`
	AnnualDiscountRate float64    `yaml:"annualDiscountRate" mapstructure:"annualDiscountRate"`
	// Mortgage, when set, replaces FixedCosts.RentOrDividend with its
	// monthly payment.
	Mortgage *loans.Mortgage `yaml:"mortgage,omitempty" mapstructure:"mortgage"`
}

// Overrides replaces individual common parameters for one scenario. Nil
// fields keep the common value.
type Overrides struct {
	HorizonMonths      *int     `yaml:"horizonMonths,omitempty" mapstructure:"horizonMonths"`
	GraceMonths        *int     `yaml:"graceMonths,omitempty" mapstructure:"graceMonths"`
	BaseNightlyRate    *float64 `yaml:"baseNightlyRate,omitempty" mapstructure:"baseNightlyRate"`
	AvgNightsPerMonth  *float64 `yaml:"avgNightsPerMonth,omitempty" mapstructure:"avgNightsPerMonth"`
	AnnualGrowthRate   *float64 `yaml:"annualGrowthRate,omitempty" mapstructure:"annualGrowthRate"`
	CommissionRate     *float64 `yaml:"commissionRate,omitempty" mapstructure:"commissionRate"`
	CommonCharges      *float64 `yaml:"commonCharges,omitempty" mapstructure:"commonCharges"`
	Utilities          *float64 `yaml:"utilities,omitempty" mapstructure:"utilities"`
	MaintenanceFund    *float64 `yaml:"maintenanceFund,omitempty" mapstructure:"maintenanceFund"`
	RentOrDividend     *float64 `yaml:"rentOrDividend,omitempty" mapstructure:"rentOrDividend"`
	InitialInvestment  *float64 `yaml:"initialInvestment,omitempty" mapstructure:"initialInvestment"`
	AnnualDiscountRate *float64 `yaml:"annualDiscountRate,omitempty" mapstructure:"annualDiscountRate"`
	// Mortgage replaces the common mortgage as a whole.
	Mortgage *loans.Mortgage `yaml:"mortgage,omitempty" mapstructure:"mortgage"`
}

// Merge returns a copy of p with every non-nil override applied.
func (p Parameters) Merge(o Overrides) Parameters {
	setInt := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}
	setFloat := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}

	setInt(&p.HorizonMonths, o.HorizonMonths)
	setInt(&p.GraceMonths, o.GraceMonths)
	setFloat(&p.BaseNightlyRate, o.BaseNightlyRate)
	setFloat(&p.AvgNightsPerMonth, o.AvgNightsPerMonth)
	setFloat(&p.AnnualGrowthRate, o.AnnualGrowthRate)
	setFloat(&p.CommissionRate, o.CommissionRate)
	setFloat(&p.FixedCosts.CommonCharges, o.CommonCharges)
	setFloat(&p.FixedCosts.Utilities, o.Utilities)
	setFloat(&p.FixedCosts.MaintenanceFund, o.MaintenanceFund)
	setFloat(&p.FixedCosts.RentOrDividend, o.RentOrDividend)
	setFloat(&p.InitialInvestment, o.InitialInvestment)
	setFloat(&p.AnnualDiscountRate, o.AnnualDiscountRate)
	if o.Mortgage != nil {
		m := *o.Mortgage
		p.Mortgage = &m
	}
	return p
}

// ToProjectionParameters converts config values into engine inputs. Floats
// are converted with their shortest decimal representation so 0.03 stays
// exactly 0.03.
func (p Parameters) ToProjectionParameters(startDate string) (projection.Parameters, error) {
	start, err := datetime.ParseStartDate(startDate)
	if err != nil {
		return projection.Parameters{}, err
	}
	rentOrDividend := p.FixedCosts.RentOrDividend
	if p.Mortgage != nil {
		if err := p.Mortgage.Validate(); err != nil {
			return projection.Parameters{}, err
		}
		rentOrDividend = p.Mortgage.MonthlyPayment()
	}
	return projection.Parameters{
		HorizonMonths:     p.HorizonMonths,
		GraceMonths:       p.GraceMonths,
		BaseNightlyRate:   decimal.NewFromFloat(p.BaseNightlyRate),
		AvgNightsPerMonth: decimal.NewFromFloat(p.AvgNightsPerMonth),
		AnnualGrowthRate:  decimal.NewFromFloat(p.AnnualGrowthRate),
		CommissionRate:    decimal.NewFromFloat(p.CommissionRate),
		FixedCosts: projection.FixedCosts{
			CommonCharges:   decimal.NewFromFloat(p.FixedCosts.CommonCharges),
			Utilities:       decimal.NewFromFloat(p.FixedCosts.Utilities),
			MaintenanceFund: decimal.NewFromFloat(p.FixedCosts.MaintenanceFund),
			RentOrDividend:  decimal.NewFromFloat(rentOrDividend),
		},
		InitialInvestment:  decimal.NewFromFloat(p.InitialInvestment),
		AnnualDiscountRate: decimal.NewFromFloat(p.AnnualDiscountRate),
		StartDate:          start,
	}, nil
}

// ScenarioParameters pairs an active scenario with its validated parameters.
type ScenarioParameters struct {
	Name       string
	Parameters projection.ParameterSet
	Optimizer  *OptimizerConfig
	Mortgage   *loans.Mortgage
}

// ParameterSets builds validated parameter sets for every active scenario,
// in configuration order.
func (c *Configuration) ParameterSets() ([]ScenarioParameters, error) {
	var sets []ScenarioParameters
	for _, scenario := range c.ActiveScenarios() {
		merged := c.Common.Merge(scenario.Overrides)
		raw, err := merged.ToProjectionParameters(c.StartDate)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
		ps, err := projection.NewParameterSet(raw)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
		if scenario.Optimizer != nil {
			if err := scenario.Optimizer.Validate(); err != nil {
				return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
			}
		}
		sets = append(sets, ScenarioParameters{
			Name:       scenario.Name,
			Parameters: ps,
			Optimizer:  scenario.Optimizer,
			Mortgage:   merged.Mortgage,
		})
	}
	return sets, nil
}
