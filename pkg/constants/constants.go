// Package constants provides shared constants for the rental-cashflow application.
package constants

import "time"

// DateTimeLayout is the format expected in config files for the projection
// start month.
const DateTimeLayout = "2006-01"

// PeriodLabelLayout is the calendar label shown for each projected month.
const PeriodLabelLayout = "Jan 2006"

// DefaultStartDate is the calendar month assigned to month 1 when the
// configuration does not set one.
const DefaultStartDate = "2025-01"

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// DefaultCurrency is the ISO 4217 code used when none is configured
	DefaultCurrency = "CLP"
)

// IRR solver budget
const (
	// IRRGuess is the starting point for the Newton iteration.
	IRRGuess = 0.1

	// IRRMaxIterations bounds both the Newton and the bisection phases.
	IRRMaxIterations = 200

	// IRRTolerance is the absolute rate tolerance for convergence.
	IRRTolerance = 1e-10

	// IRRLowerBound keeps the monthly rate strictly above -100%.
	IRRLowerBound = -0.9999

	// IRRUpperBound caps bracket expansion for the bisection phase.
	IRRUpperBound = 1e6

	// IRRResidualTolerance bounds |NPV(irr)| relative to the discounted
	// magnitude of the series.
	IRRResidualTolerance = 1e-4
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the machine-readable JSON format
	OutputFormatJSON = "json"

	// OutputFormatMarkdown is the markdown report format
	OutputFormatMarkdown = "markdown"
)

// OutputFormats lists every supported output format.
var OutputFormats = []string{
	OutputFormatPretty,
	OutputFormatCSV,
	OutputFormatJSON,
	OutputFormatMarkdown,
}

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// DefaultEnvFile is loaded into the environment before configuration
	// parsing when present.
	DefaultEnvFile = ".env"

	// DefaultStoragePath is the SQLite file used for the run archive
	DefaultStoragePath = "runs.db"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum request body size (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024

	// DefaultCacheTTL is how long projection results stay cached
	DefaultCacheTTL = 10 * time.Minute

	// DefaultRunListLimit caps the runs returned by a listing
	DefaultRunListLimit = 50
)

// Validation constants
const (
	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)
