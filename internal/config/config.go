// Package config defines the data structures related to configuration and
// includes functions for loading and validating the config.
package config

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/iwvelando/rental-cashflow/pkg/constants"
	"github.com/iwvelando/rental-cashflow/pkg/validation"
	"github.com/spf13/viper"
)

// DateTimeLayout is the format expected in config files for the start month.
const DateTimeLayout = constants.DateTimeLayout

// DefaultScenarioName names the implicit scenario used when a configuration
// lists none.
const DefaultScenarioName = "base"

// Configuration holds all configuration for rental-cashflow.
type Configuration struct {
	StartDate string        `yaml:"startDate,omitempty" mapstructure:"startDate"`
	Currency  string        `yaml:"currency,omitempty" mapstructure:"currency"`
	Common    Parameters    `yaml:"common" mapstructure:"common"`
	Scenarios []Scenario    `yaml:"scenarios,omitempty" mapstructure:"scenarios"`
	Logging   LoggingConfig `yaml:"logging,omitempty" mapstructure:"logging"`
	Output    OutputConfig  `yaml:"output,omitempty" mapstructure:"output"`
	Storage   StorageConfig `yaml:"storage,omitempty" mapstructure:"storage"`
	Cache     CacheConfig   `yaml:"cache,omitempty" mapstructure:"cache"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" mapstructure:"level"`           // debug, info, warn, error
	Format     string `yaml:"format,omitempty" mapstructure:"format"`         // json, console
	OutputFile string `yaml:"outputFile,omitempty" mapstructure:"outputFile"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty" mapstructure:"format"` // pretty, csv, json, markdown
}

// StorageConfig locates the run archive.
type StorageConfig struct {
	Path string `yaml:"path,omitempty" mapstructure:"path"`
}

// CacheConfig configures the projection cache. An empty RedisAddr selects
// the in-process cache.
type CacheConfig struct {
	RedisAddr string        `yaml:"redisAddr,omitempty" mapstructure:"redisAddr"`
	TTL       time.Duration `yaml:"ttl,omitempty" mapstructure:"ttl"`
}

// Scenario is a named variant of the common parameters for the same
// property.
type Scenario struct {
	Name      string           `yaml:"name" mapstructure:"name"`
	Active    bool             `yaml:"active" mapstructure:"active"`
	Overrides Overrides        `yaml:"overrides,omitempty" mapstructure:"overrides"`
	Optimizer *OptimizerConfig `yaml:"optimizer,omitempty" mapstructure:"optimizer"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. Environment variables override file values.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads a YAML or JSON configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yml")

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	if configuration.Currency == "" {
		configuration.Currency = constants.DefaultCurrency
	}
	if len(configuration.Scenarios) == 0 {
		configuration.Scenarios = []Scenario{{Name: DefaultScenarioName, Active: true}}
	}
	return &configuration, nil
}

// ActiveScenarios returns the scenarios that will be projected.
func (c *Configuration) ActiveScenarios() []Scenario {
	var active []Scenario
	for _, scenario := range c.Scenarios {
		if scenario.Active {
			active = append(active, scenario)
		}
	}
	return active
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	var scenarios []validation.ScenarioConfig
	for _, scenario := range c.Scenarios {
		merged := c.Common.Merge(scenario.Overrides)
		scenarios = append(scenarios, validation.ScenarioConfig{
			Name:              scenario.Name,
			Active:            scenario.Active,
			HorizonMonths:     merged.HorizonMonths,
			GraceMonths:       merged.GraceMonths,
			AvgNightsPerMonth: merged.AvgNightsPerMonth,
			CommissionRate:    merged.CommissionRate,
			RentOrDividend:    merged.FixedCosts.RentOrDividend,
			HasMortgage:       merged.Mortgage != nil,
		})
	}

	validator := validation.ConfigValidator{Scenarios: scenarios}
	return validator.ValidateAll()
}
