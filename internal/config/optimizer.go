package config

import (
	"fmt"
	"strings"
)

const (
	OptimizerFieldBaseNightlyRate   = "baseNightlyRate"
	OptimizerFieldAvgNightsPerMonth = "avgNightsPerMonth"
	OptimizerFieldInitialInvestment = "initialInvestment"

	OptimizerTargetNPV     = "npv"
	OptimizerTargetPayback = "payback"

	defaultToleranceAmount = 0.01
	defaultMaxIterations   = 50
)

// OptimizerConfig defines a single-parameter break-even directive: find the
// value of Field within [Min, Max] at which Target is just met.
type OptimizerConfig struct {
	Field         string   `yaml:"field,omitempty" mapstructure:"field"`
	Target        string   `yaml:"target,omitempty" mapstructure:"target"`
	Min           *float64 `yaml:"min,omitempty" mapstructure:"min"`
	Max           *float64 `yaml:"max,omitempty" mapstructure:"max"`
	Tolerance     float64  `yaml:"tolerance,omitempty" mapstructure:"tolerance"`
	MaxIterations int      `yaml:"maxIterations,omitempty" mapstructure:"maxIterations"`
}

// CanonicalOptimizerField returns the canonical identifier for an optimizer field.
func CanonicalOptimizerField(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return OptimizerFieldBaseNightlyRate
	}
	switch strings.ToLower(trimmed) {
	case "basenightlyrate", "base_nightly_rate", "nightlyrate", "adr":
		return OptimizerFieldBaseNightlyRate
	case "avgnightspermonth", "avg_nights_per_month", "nights":
		return OptimizerFieldAvgNightsPerMonth
	case "initialinvestment", "initial_investment", "investment":
		return OptimizerFieldInitialInvestment
	default:
		return strings.ToLower(trimmed)
	}
}

// Normalize ensures defaults and canonical values are applied before validation.
func (o *OptimizerConfig) Normalize() {
	if o == nil {
		return
	}
	o.Field = CanonicalOptimizerField(o.Field)

	o.Target = strings.ToLower(strings.TrimSpace(o.Target))
	if o.Target == "" {
		o.Target = OptimizerTargetNPV
	}

	if o.Tolerance <= 0 {
		o.Tolerance = defaultToleranceAmount
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = defaultMaxIterations
	}
}

// Validate returns an error when the optimizer configuration is unsupported.
func (o *OptimizerConfig) Validate() error {
	if o == nil {
		return fmt.Errorf("optimizer configuration cannot be nil")
	}

	o.Normalize()

	switch o.Field {
	case OptimizerFieldBaseNightlyRate, OptimizerFieldAvgNightsPerMonth, OptimizerFieldInitialInvestment:
		// supported fields
	default:
		return fmt.Errorf("optimizer field %q is not supported", o.Field)
	}
	switch o.Target {
	case OptimizerTargetNPV, OptimizerTargetPayback:
		// supported targets
	default:
		return fmt.Errorf("optimizer target %q is not supported", o.Target)
	}

	if o.Min == nil {
		return fmt.Errorf("optimizer requires a minimum bound")
	}
	if o.Max == nil {
		return fmt.Errorf("optimizer requires a maximum bound")
	}
	if *o.Min < 0 {
		return fmt.Errorf("optimizer minimum %.2f must not be negative", *o.Min)
	}
	if *o.Min >= *o.Max {
		return fmt.Errorf("optimizer minimum %.2f must be less than maximum %.2f", *o.Min, *o.Max)
	}
	return nil
}

// Increasing reports whether raising the field makes the target easier to
// meet. Revenue drivers help; a larger investment hurts.
func (o *OptimizerConfig) Increasing() bool {
	return o.Field != OptimizerFieldInitialInvestment
}
