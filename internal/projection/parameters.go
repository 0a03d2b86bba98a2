// Package projection implements the monthly cash-flow projection and the
// valuation metrics (NPV, IRR, payback) derived from it.
package projection

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/iwvelando/rental-cashflow/pkg/datetime"
	"github.com/shopspring/decimal"
)

// ErrInvalidParameter is wrapped by every parameter validation failure.
var ErrInvalidParameter = errors.New("invalid parameter")

var (
	zero     = decimal.Zero
	one      = decimal.NewFromInt(1)
	minusOne = decimal.NewFromInt(-1)
)

// ValidationError describes a single parameter that violates its constraint.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid parameter %s: %s", e.Field, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidParameter.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidParameter
}

// FixedCosts are the monthly costs that accrue regardless of occupancy.
type FixedCosts struct {
	CommonCharges   decimal.Decimal `json:"commonCharges"`
	Utilities       decimal.Decimal `json:"utilities"`
	MaintenanceFund decimal.Decimal `json:"maintenanceFund"`
	RentOrDividend  decimal.Decimal `json:"rentOrDividend"`
}

// Total returns the sum of the four fixed costs.
func (f FixedCosts) Total() decimal.Decimal {
	return f.CommonCharges.Add(f.Utilities).Add(f.MaintenanceFund).Add(f.RentOrDividend)
}

// Parameters is the raw input to a projection. It is validated into a
// ParameterSet by NewParameterSet.
type Parameters struct {
	HorizonMonths      int             `json:"horizonMonths"`
	GraceMonths        int             `json:"graceMonths"`
	BaseNightlyRate    decimal.Decimal `json:"baseNightlyRate"`
	AvgNightsPerMonth  decimal.Decimal `json:"avgNightsPerMonth"`
	AnnualGrowthRate   decimal.Decimal `json:"annualGrowthRate"`
	CommissionRate     decimal.Decimal `json:"commissionRate"`
	FixedCosts         FixedCosts      `json:"fixedCosts"`
	InitialInvestment  decimal.Decimal `json:"initialInvestment"`
	AnnualDiscountRate decimal.Decimal `json:"annualDiscountRate"`
	// StartDate is the calendar month of month 1. It only drives period
	// labels; the zero value means the default start month.
	StartDate time.Time `json:"startDate"`
}

// ParameterSet is a validated, immutable set of projection parameters.
type ParameterSet struct {
	p     Parameters
	valid bool
}

// NewParameterSet validates p and returns the corresponding ParameterSet.
// Every violated constraint is reported; the returned error wraps
// ErrInvalidParameter.
func NewParameterSet(p Parameters) (ParameterSet, error) {
	var errs []error
	check := func(ok bool, field, reason string) {
		if !ok {
			errs = append(errs, &ValidationError{Field: field, Reason: reason})
		}
	}

	check(p.HorizonMonths > 0, "horizonMonths", fmt.Sprintf("must be greater than 0, got %d", p.HorizonMonths))
	check(p.GraceMonths >= 0, "graceMonths", fmt.Sprintf("must not be negative, got %d", p.GraceMonths))
	check(!p.BaseNightlyRate.IsNegative(), "baseNightlyRate", "must not be negative, got "+p.BaseNightlyRate.String())
	check(!p.AvgNightsPerMonth.IsNegative(), "avgNightsPerMonth", "must not be negative, got "+p.AvgNightsPerMonth.String())
	check(p.AnnualGrowthRate.GreaterThan(minusOne), "annualGrowthRate", "must be greater than -1, got "+p.AnnualGrowthRate.String())
	check(!p.CommissionRate.IsNegative() && p.CommissionRate.LessThanOrEqual(one), "commissionRate",
		"must be between 0 and 1, got "+p.CommissionRate.String())
	check(!p.FixedCosts.CommonCharges.IsNegative(), "fixedCosts.commonCharges", "must not be negative, got "+p.FixedCosts.CommonCharges.String())
	check(!p.FixedCosts.Utilities.IsNegative(), "fixedCosts.utilities", "must not be negative, got "+p.FixedCosts.Utilities.String())
	check(!p.FixedCosts.MaintenanceFund.IsNegative(), "fixedCosts.maintenanceFund", "must not be negative, got "+p.FixedCosts.MaintenanceFund.String())
	check(!p.FixedCosts.RentOrDividend.IsNegative(), "fixedCosts.rentOrDividend", "must not be negative, got "+p.FixedCosts.RentOrDividend.String())
	check(!p.InitialInvestment.IsNegative(), "initialInvestment", "must not be negative, got "+p.InitialInvestment.String())
	check(p.AnnualDiscountRate.GreaterThan(minusOne), "annualDiscountRate", "must be greater than -1, got "+p.AnnualDiscountRate.String())

	if len(errs) > 0 {
		return ParameterSet{}, errors.Join(errs...)
	}

	if p.StartDate.IsZero() {
		start, err := datetime.ParseStartDate("")
		if err != nil {
			return ParameterSet{}, err
		}
		p.StartDate = start
	}

	return ParameterSet{p: p, valid: true}, nil
}

// MustParameterSet is like NewParameterSet but panics on invalid input.
// It is intended for tests and fixed fixtures.
func MustParameterSet(p Parameters) ParameterSet {
	ps, err := NewParameterSet(p)
	if err != nil {
		panic(err)
	}
	return ps
}

func (ps ParameterSet) Valid() bool                         { return ps.valid }
func (ps ParameterSet) Values() Parameters                  { return ps.p }
func (ps ParameterSet) HorizonMonths() int                  { return ps.p.HorizonMonths }
func (ps ParameterSet) GraceMonths() int                    { return ps.p.GraceMonths }
func (ps ParameterSet) BaseNightlyRate() decimal.Decimal    { return ps.p.BaseNightlyRate }
func (ps ParameterSet) AvgNightsPerMonth() decimal.Decimal  { return ps.p.AvgNightsPerMonth }
func (ps ParameterSet) AnnualGrowthRate() decimal.Decimal   { return ps.p.AnnualGrowthRate }
func (ps ParameterSet) CommissionRate() decimal.Decimal     { return ps.p.CommissionRate }
func (ps ParameterSet) FixedCosts() FixedCosts              { return ps.p.FixedCosts }
func (ps ParameterSet) InitialInvestment() decimal.Decimal  { return ps.p.InitialInvestment }
func (ps ParameterSet) AnnualDiscountRate() decimal.Decimal { return ps.p.AnnualDiscountRate }
func (ps ParameterSet) StartDate() time.Time                { return ps.p.StartDate }

// InGrace reports whether month falls within the revenue-free ramp-up.
func (ps ParameterSet) InGrace(month int) bool {
	return month <= ps.p.GraceMonths
}

// MarshalJSON encodes the underlying parameters.
func (ps ParameterSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(ps.p)
}

// UnmarshalJSON decodes and validates parameters.
func (ps *ParameterSet) UnmarshalJSON(data []byte) error {
	var p Parameters
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	validated, err := NewParameterSet(p)
	if err != nil {
		return err
	}
	*ps = validated
	return nil
}
