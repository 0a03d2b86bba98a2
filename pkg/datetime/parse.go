// Package datetime provides date and time utility functions.
package datetime

import (
	"fmt"
	"time"

	"github.com/iwvelando/rental-cashflow/pkg/constants"
)

const (
	// DateTimeLayout is the format expected in config files for the
	// projection start month.
	DateTimeLayout = constants.DateTimeLayout
)

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseStartDate parses a YYYY-MM start month. An empty value yields the
// default start month.
func ParseStartDate(date string) (time.Time, error) {
	if date == "" {
		date = constants.DefaultStartDate
	}
	t, err := time.Parse(DateTimeLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid start date %q: %w", date, err)
	}
	return t, nil
}

// PeriodLabel returns the calendar label ("Jan 2025") of the given 1-based
// projection month counted from start.
func PeriodLabel(start time.Time, month int) string {
	first := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first.AddDate(0, month-1, 0).Format(constants.PeriodLabelLayout)
}
