// Package loans provides mortgage amortization utilities.
package loans

import (
	"fmt"
	"math"

	"github.com/iwvelando/rental-cashflow/pkg/constants"
	"github.com/iwvelando/rental-cashflow/pkg/mathutil"
	"go.uber.org/zap"
)

// Payment holds the values for a given payment.
type Payment struct {
	Month              int     `json:"month"`
	Payment            float64 `json:"payment"`
	Principal          float64 `json:"principal"`
	Interest           float64 `json:"interest"`
	RemainingPrincipal float64 `json:"remainingPrincipal"`
}

// Mortgage describes a fixed-rate loan financing the property. Its monthly
// payment is the dividend carried as a fixed cost.
type Mortgage struct {
	Principal   float64 `yaml:"principal" mapstructure:"principal" json:"principal"`
	DownPayment float64 `yaml:"downPayment,omitempty" mapstructure:"downPayment" json:"downPayment"`
	// InterestRate is the nominal annual rate in percent (4.5 means 4.5%).
	InterestRate float64 `yaml:"interestRate" mapstructure:"interestRate" json:"interestRate"`
	TermMonths   int     `yaml:"termMonths" mapstructure:"termMonths" json:"termMonths"`
}

// Validate reports an unusable mortgage definition.
func (m Mortgage) Validate() error {
	if m.Principal <= 0 {
		return fmt.Errorf("mortgage principal must be greater than 0, got %.2f", m.Principal)
	}
	if m.DownPayment < 0 || m.DownPayment >= m.Principal {
		return fmt.Errorf("mortgage down payment must be between 0 and the principal, got %.2f", m.DownPayment)
	}
	if m.InterestRate < 0 {
		return fmt.Errorf("mortgage interest rate must not be negative, got %.4f", m.InterestRate)
	}
	if m.TermMonths <= 0 {
		return fmt.Errorf("mortgage term must be greater than 0 months, got %d", m.TermMonths)
	}
	return nil
}

// MonthlyPayment returns the rounded level payment of m.
func (m Mortgage) MonthlyPayment() float64 {
	return mathutil.Round(CalculateMonthlyPayment(m.Principal, m.DownPayment, m.InterestRate, m.TermMonths))
}

// CalculateMonthlyPayment calculates the monthly payment for a loan using the standard amortization formula.
func CalculateMonthlyPayment(principal, downPayment, annualInterestRate float64, termMonths int) float64 {
	if annualInterestRate == 0 {
		// For zero interest, simply divide the principal by term
		return (principal - downPayment) / float64(termMonths)
	}

	periodicInterestRate := annualInterestRate / (constants.PercentageMultiplier * constants.MonthsPerYear)
	power := math.Pow((1.00 + periodicInterestRate), float64(termMonths))
	discountFactor := (power - 1.00) / power
	return (principal - downPayment) * periodicInterestRate / discountFactor
}

// CalculateInterestPayment calculates the interest portion of a payment.
func CalculateInterestPayment(remainingPrincipal, annualInterestRate float64) float64 {
	return remainingPrincipal * annualInterestRate / (constants.PercentageMultiplier * constants.MonthsPerYear)
}

// AmortizationScheduleGenerator provides utilities for generating loan amortization schedules
type AmortizationScheduleGenerator struct {
	logger *zap.Logger
}

// NewAmortizationScheduleGenerator creates a new generator instance
func NewAmortizationScheduleGenerator(logger *zap.Logger) *AmortizationScheduleGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AmortizationScheduleGenerator{logger: logger}
}

// GenerateSchedule returns the first months payments of m, stopping early
// when the loan matures. Month 1 is the first payment.
func (g *AmortizationScheduleGenerator) GenerateSchedule(m Mortgage, months int) ([]Payment, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	monthlyPayment := CalculateMonthlyPayment(m.Principal, m.DownPayment, m.InterestRate, m.TermMonths)
	remaining := m.Principal - m.DownPayment

	schedule := make([]Payment, 0, min(months, m.TermMonths))
	for month := 1; month <= months && month <= m.TermMonths; month++ {
		var current Payment
		current.Month = month
		current.Payment = monthlyPayment
		current.Interest = CalculateInterestPayment(remaining, m.InterestRate)
		current.Principal = monthlyPayment - current.Interest

		if month == m.TermMonths || mathutil.IsZero(remaining-current.Principal) {
			// We will get machine error otherwise so just set to 0.
			current.RemainingPrincipal = 0.00
			schedule = append(schedule, current)
			g.logger.Debug(fmt.Sprintf("mortgage matured at month %d", month),
				zap.String("op", "loans.GenerateSchedule"),
			)
			break
		}
		current.RemainingPrincipal = remaining - current.Principal
		remaining = current.RemainingPrincipal
		schedule = append(schedule, current)
	}

	return schedule, nil
}

// Summary totals a schedule.
type Summary struct {
	MonthlyPayment     float64 `json:"monthlyPayment"`
	InterestPaid       float64 `json:"interestPaid"`
	PrincipalPaid      float64 `json:"principalPaid"`
	RemainingPrincipal float64 `json:"remainingPrincipal"`
}

// Summarize totals the interest and principal paid over schedule.
func Summarize(m Mortgage, schedule []Payment) Summary {
	s := Summary{
		MonthlyPayment:     m.MonthlyPayment(),
		RemainingPrincipal: m.Principal - m.DownPayment,
	}
	for _, p := range schedule {
		s.InterestPaid += p.Interest
		s.PrincipalPaid += p.Principal
		s.RemainingPrincipal = p.RemainingPrincipal
	}
	s.InterestPaid = mathutil.Round(s.InterestPaid)
	s.PrincipalPaid = mathutil.Round(s.PrincipalPaid)
	s.RemainingPrincipal = mathutil.Round(s.RemainingPrincipal)
	return s
}
