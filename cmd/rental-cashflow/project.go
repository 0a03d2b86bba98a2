package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/iwvelando/rental-cashflow/internal/config"
	"github.com/iwvelando/rental-cashflow/internal/forecast"
	"github.com/iwvelando/rental-cashflow/internal/store"
	"github.com/iwvelando/rental-cashflow/pkg/constants"
	"github.com/iwvelando/rental-cashflow/pkg/output"
	"github.com/iwvelando/rental-cashflow/pkg/validation"
	"go.uber.org/zap"
)

type projectCmd struct {
	configLocation string
	outputFormat   string
	logLevel       string
	render         bool
	style          string
	archive        bool
}

func (*projectCmd) Name() string     { return "project" }
func (*projectCmd) Synopsis() string { return "project every active scenario and print the results" }
func (*projectCmd) Usage() string {
	return `project [-config config.yaml] [-output-format pretty|csv|json|markdown] [-render] [-archive]

Loads the configuration, projects each active scenario and writes the
ledger and valuation to stdout.
`
}

func (c *projectCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.configLocation, "config", constants.DefaultConfigFile, "path to configuration file")
	f.StringVar(&c.outputFormat, "output-format", "", "type of output override: pretty, csv, json, markdown")
	f.StringVar(&c.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	f.BoolVar(&c.render, "render", false, "render markdown output for the terminal")
	f.StringVar(&c.style, "style", "dark", "terminal style used with -render (dark, light, notty)")
	f.BoolVar(&c.archive, "archive", false, "save each scenario result to the run archive")
}

func (c *projectCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	conf, err := config.LoadConfiguration(c.configLocation)
	if err != nil {
		fatal("failed to load configuration at "+c.configLocation, err)
		return subcommands.ExitFailure
	}

	logger, err := initializeLogger(conf.Logging, c.logLevel)
	if err != nil {
		fatal("failed to initialize logger", err)
		return subcommands.ExitFailure
	}
	defer func() {
		_ = logger.Sync()
	}()

	// CLI override takes precedence over config
	outputFormat := conf.Output.Format
	if c.outputFormat != "" {
		outputFormat = c.outputFormat
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Error(err.Error(), zap.String("op", "main.project"))
		return subcommands.ExitUsageError
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main.project"),
		)
	}

	results, err := forecast.GetForecast(logger, *conf)
	if err != nil {
		logger.Error("failed to compute projection",
			zap.String("op", "main.project"),
			zap.Error(err),
		)
		return subcommands.ExitFailure
	}

	if c.archive {
		if err := archiveResults(ctx, conf.Storage.Path, results); err != nil {
			logger.Error("failed to archive runs",
				zap.String("op", "main.project"),
				zap.Error(err),
			)
			return subcommands.ExitFailure
		}
	}

	if outputFormat == constants.OutputFormatMarkdown && c.render {
		rendered, err := output.Terminal(results, conf.Currency, c.style, 120)
		if err != nil {
			logger.Error("failed to render markdown",
				zap.String("op", "main.project"),
				zap.Error(err),
			)
			return subcommands.ExitFailure
		}
		fmt.Print(rendered)
		return subcommands.ExitSuccess
	}

	if err := output.Write(os.Stdout, outputFormat, results, conf.Currency); err != nil {
		logger.Error("failed to write output",
			zap.String("op", "main.project"),
			zap.Error(err),
		)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func archiveResults(ctx context.Context, path string, results []forecast.Forecast) error {
	if path == "" {
		path = constants.DefaultStoragePath
	}
	s, err := store.New(path)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	for _, result := range results {
		run, err := store.NewRun("", result)
		if err != nil {
			return err
		}
		if _, err := s.Save(ctx, run); err != nil {
			return err
		}
	}
	return nil
}
