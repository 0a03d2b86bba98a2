package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/rental-cashflow/internal/projection"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `startDate: "2025-03"
currency: CLP
logging:
  level: debug
  format: console
output:
  format: csv
storage:
  path: /tmp/runs.db
cache:
  redisAddr: localhost:6379
  ttl: 5m
common:
  horizonMonths: 36
  graceMonths: 6
  baseNightlyRate: 38000
  avgNightsPerMonth: 21
  annualGrowthRate: 0.03
  commissionRate: 0.18
  fixedCosts:
    commonCharges: 90000
    utilities: 60000
    maintenanceFund: 40000
    rentOrDividend: 274000
  initialInvestment: 3500000
  annualDiscountRate: 0.12
scenarios:
  - name: Furnished
    active: true
  - name: Unfurnished
    active: true
    overrides:
      graceMonths: 0
      initialInvestment: 0
      baseNightlyRate: 30000
  - name: Draft
    active: false
    optimizer:
      field: nights
      min: 1
      max: 31
`

func TestLoadConfiguration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0600))

	conf, err := LoadConfiguration(path)
	require.NoError(t, err)

	assert.Equal(t, "2025-03", conf.StartDate)
	assert.Equal(t, "CLP", conf.Currency)
	assert.Equal(t, "debug", conf.Logging.Level)
	assert.Equal(t, "csv", conf.Output.Format)
	assert.Equal(t, "/tmp/runs.db", conf.Storage.Path)
	assert.Equal(t, "localhost:6379", conf.Cache.RedisAddr)
	assert.Equal(t, 5*time.Minute, conf.Cache.TTL)
	assert.Equal(t, 36, conf.Common.HorizonMonths)
	assert.Equal(t, 274000.0, conf.Common.FixedCosts.RentOrDividend)
	require.Len(t, conf.Scenarios, 3)
	require.NotNil(t, conf.Scenarios[1].Overrides.GraceMonths)
	assert.Equal(t, 0, *conf.Scenarios[1].Overrides.GraceMonths)
	assert.Nil(t, conf.Scenarios[1].Overrides.CommissionRate)
	require.NotNil(t, conf.Scenarios[2].Optimizer)
	assert.Equal(t, "nights", conf.Scenarios[2].Optimizer.Field)
}

func TestLoadConfigurationMissingFile(t *testing.T) {
	_, err := LoadConfiguration(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigurationFromReaderDefaults(t *testing.T) {
	conf, err := LoadConfigurationFromReader(strings.NewReader("common:\n  horizonMonths: 12\n"))
	require.NoError(t, err)

	assert.Equal(t, "CLP", conf.Currency)
	require.Len(t, conf.Scenarios, 1)
	assert.Equal(t, DefaultScenarioName, conf.Scenarios[0].Name)
	assert.True(t, conf.Scenarios[0].Active)
}

func TestLoadConfigurationFromReaderJSON(t *testing.T) {
	conf, err := LoadConfigurationFromReader(strings.NewReader(`{"currency": "USD", "common": {"horizonMonths": 24}}`))
	require.NoError(t, err)
	assert.Equal(t, "USD", conf.Currency)
	assert.Equal(t, 24, conf.Common.HorizonMonths)
}

func TestActiveScenarios(t *testing.T) {
	conf, err := LoadConfigurationFromReader(strings.NewReader(sampleConfig))
	require.NoError(t, err)

	active := conf.ActiveScenarios()
	require.Len(t, active, 2)
	assert.Equal(t, "Furnished", active[0].Name)
	assert.Equal(t, "Unfurnished", active[1].Name)
}

func TestParametersMerge(t *testing.T) {
	base := Parameters{
		HorizonMonths:   36,
		GraceMonths:     6,
		BaseNightlyRate: 38000,
		FixedCosts:      FixedCosts{Utilities: 60000, RentOrDividend: 274000},
	}

	merged := base.Merge(Overrides{
		GraceMonths:    intPtr(0),
		Utilities:      floatPtr(0),
		CommissionRate: floatPtr(0.15),
	})

	assert.Equal(t, 36, merged.HorizonMonths)
	assert.Equal(t, 0, merged.GraceMonths)
	assert.Equal(t, 38000.0, merged.BaseNightlyRate)
	assert.Equal(t, 0.0, merged.FixedCosts.Utilities)
	assert.Equal(t, 274000.0, merged.FixedCosts.RentOrDividend)
	assert.Equal(t, 0.15, merged.CommissionRate)

	// the receiver is untouched
	assert.Equal(t, 6, base.GraceMonths)
	assert.Equal(t, 60000.0, base.FixedCosts.Utilities)
}

func TestToProjectionParametersExactDecimals(t *testing.T) {
	p := Parameters{HorizonMonths: 12, AnnualGrowthRate: 0.03, CommissionRate: 0.18}
	raw, err := p.ToProjectionParameters("2024-07")
	require.NoError(t, err)

	assert.True(t, raw.AnnualGrowthRate.Equal(decimal.RequireFromString("0.03")))
	assert.True(t, raw.CommissionRate.Equal(decimal.RequireFromString("0.18")))
	assert.Equal(t, time.July, raw.StartDate.Month())
	assert.Equal(t, 2024, raw.StartDate.Year())

	_, err = p.ToProjectionParameters("July 2024")
	assert.Error(t, err)
}

func TestParameterSets(t *testing.T) {
	conf, err := LoadConfigurationFromReader(strings.NewReader(sampleConfig))
	require.NoError(t, err)

	sets, err := conf.ParameterSets()
	require.NoError(t, err)
	require.Len(t, sets, 2)

	furnished := sets[0]
	assert.Equal(t, "Furnished", furnished.Name)
	assert.True(t, furnished.Parameters.Valid())
	assert.Equal(t, 6, furnished.Parameters.GraceMonths())
	assert.Nil(t, furnished.Optimizer)

	unfurnished := sets[1]
	assert.Equal(t, 0, unfurnished.Parameters.GraceMonths())
	assert.True(t, unfurnished.Parameters.InitialInvestment().IsZero())
	assert.True(t, unfurnished.Parameters.BaseNightlyRate().Equal(decimal.NewFromInt(30000)))
	assert.Equal(t, time.March, unfurnished.Parameters.StartDate().Month())
}

func TestParameterSetsInvalid(t *testing.T) {
	conf, err := LoadConfigurationFromReader(strings.NewReader(sampleConfig))
	require.NoError(t, err)

	conf.Scenarios[1].Overrides.CommissionRate = floatPtr(1.2)
	_, err = conf.ParameterSets()
	require.Error(t, err)
	assert.ErrorIs(t, err, projection.ErrInvalidParameter)
	assert.Contains(t, err.Error(), "Unfurnished")

	conf.Scenarios[1].Overrides.CommissionRate = nil
	conf.Scenarios[0].Optimizer = &OptimizerConfig{Field: "nights"}
	_, err = conf.ParameterSets()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "minimum bound")
}

func TestValidateConfiguration(t *testing.T) {
	conf, err := LoadConfigurationFromReader(strings.NewReader(sampleConfig))
	require.NoError(t, err)
	assert.Empty(t, conf.ValidateConfiguration())

	conf.Scenarios[0].Overrides.AvgNightsPerMonth = floatPtr(0)
	conf.Scenarios[1].Name = "Furnished"
	warnings := conf.ValidateConfiguration()
	require.Len(t, warnings, 2)
	assert.Contains(t, strings.Join(warnings, "\n"), "is used more than once")
}

func TestParameterSetsMortgage(t *testing.T) {
	financed := sampleConfig + `  - name: Financed
    active: true
    overrides:
      rentOrDividend: 0
      mortgage:
        principal: 60000000
        downPayment: 12000000
        interestRate: 4.5
        termMonths: 240
`
	conf, err := LoadConfigurationFromReader(strings.NewReader(financed))
	require.NoError(t, err)

	sets, err := conf.ParameterSets()
	require.NoError(t, err)
	require.Len(t, sets, 3)

	assert.Nil(t, sets[0].Mortgage)
	assert.True(t, sets[0].Parameters.FixedCosts().RentOrDividend.Equal(decimal.NewFromInt(274000)))

	require.NotNil(t, sets[2].Mortgage)
	assert.Equal(t, 240, sets[2].Mortgage.TermMonths)
	assert.True(t, sets[2].Parameters.FixedCosts().RentOrDividend.Equal(decimal.RequireFromString("303671.7")))
	assert.Empty(t, conf.ValidateConfiguration())

	conf.Scenarios[3].Overrides.RentOrDividend = nil
	warnings := conf.ValidateConfiguration()
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "Financed")

	conf.Scenarios[3].Overrides.Mortgage.TermMonths = 0
	_, err = conf.ParameterSets()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mortgage term")
}
