// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"
)

// maxNightsPerMonth is the longest calendar month.
const maxNightsPerMonth = 31

// ScenarioConfig is the subset of a merged scenario that validation inspects.
type ScenarioConfig struct {
	Name              string
	Active            bool
	HorizonMonths     int
	GraceMonths       int
	AvgNightsPerMonth float64
	CommissionRate    float64
	RentOrDividend    float64
	HasMortgage       bool
}

// ConfigValidator produces soft warnings for a configuration. Hard
// constraints are enforced when parameter sets are built.
type ConfigValidator struct {
	Scenarios []ScenarioConfig
}

// ValidateGracePeriod warns when the grace period leaves no revenue months.
func ValidateGracePeriod(scenarioName string, horizonMonths, graceMonths int) string {
	if horizonMonths > 0 && graceMonths >= horizonMonths {
		return fmt.Sprintf("Scenario '%s' grace period covers the whole horizon (%d >= %d) - no revenue will be projected",
			scenarioName, graceMonths, horizonMonths)
	}
	return ""
}

// ValidateOccupancy checks that the average nights fit in a month and that
// the commission leaves some revenue.
func ValidateOccupancy(scenarioName string, avgNights, commissionRate float64) []string {
	var warnings []string

	if avgNights == 0 {
		warnings = append(warnings, fmt.Sprintf("Scenario '%s' has zero average nights per month - no revenue will be projected",
			scenarioName))
	}
	if avgNights > maxNightsPerMonth {
		warnings = append(warnings, fmt.Sprintf("Scenario '%s' average nights per month exceeds %d (%.1f)",
			scenarioName, maxNightsPerMonth, avgNights))
	}
	if commissionRate == 1 {
		warnings = append(warnings, fmt.Sprintf("Scenario '%s' commission of 100%% leaves no net revenue", scenarioName))
	}
	return warnings
}

// ValidateFinancing warns when a mortgage hides an explicit rent or dividend.
func ValidateFinancing(scenarioName string, rentOrDividend float64, hasMortgage bool) string {
	if hasMortgage && rentOrDividend != 0 {
		return fmt.Sprintf("Scenario '%s' sets both a mortgage and rentOrDividend (%.2f) - the mortgage payment is used",
			scenarioName, rentOrDividend)
	}
	return ""
}

// ValidateAll validates the entire configuration and returns warnings
func (cv *ConfigValidator) ValidateAll() []string {
	var warnings []string

	seen := make(map[string]bool)
	active := 0
	for _, scenario := range cv.Scenarios {
		if seen[scenario.Name] {
			warnings = append(warnings, fmt.Sprintf("Scenario name '%s' is used more than once", scenario.Name))
		}
		seen[scenario.Name] = true

		if !scenario.Active {
			continue
		}
		active++

		if warning := ValidateGracePeriod(scenario.Name, scenario.HorizonMonths, scenario.GraceMonths); warning != "" {
			warnings = append(warnings, warning)
		}
		warnings = append(warnings, ValidateOccupancy(scenario.Name, scenario.AvgNightsPerMonth, scenario.CommissionRate)...)
		if warning := ValidateFinancing(scenario.Name, scenario.RentOrDividend, scenario.HasMortgage); warning != "" {
			warnings = append(warnings, warning)
		}
	}

	if active == 0 {
		warnings = append(warnings, "No active scenarios - nothing will be projected")
	}

	return warnings
}
