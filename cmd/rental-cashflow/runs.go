package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"
	"github.com/iwvelando/rental-cashflow/internal/config"
	"github.com/iwvelando/rental-cashflow/internal/store"
	"github.com/iwvelando/rental-cashflow/pkg/constants"
	"github.com/iwvelando/rental-cashflow/pkg/format"
)

type runsCmd struct {
	configLocation string
	storagePath    string
	limit          int
}

func (*runsCmd) Name() string     { return "runs" }
func (*runsCmd) Synopsis() string { return "list or show archived projection runs" }
func (*runsCmd) Usage() string {
	return `runs [-config config.yaml] [-storage runs.db] [-limit 50] list
runs [-config config.yaml] [-storage runs.db] show <id>

The archive is -storage when given, else storage.path of the
configuration, else runs.db.
`
}

func (c *runsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.configLocation, "config", constants.DefaultConfigFile, "configuration whose storage.path locates the archive")
	f.StringVar(&c.storagePath, "storage", "", "path to the run archive, overriding the configuration")
	f.IntVar(&c.limit, "limit", constants.DefaultRunListLimit, "maximum number of runs to list")
}

func (c *runsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) == 0 {
		args = []string{"list"}
	}

	storagePath, err := resolveStoragePath(c.storagePath, c.configLocation)
	if err != nil {
		fatal("failed to load configuration at "+c.configLocation, err)
		return subcommands.ExitFailure
	}

	s, err := store.New(storagePath)
	if err != nil {
		fatal("failed to open run archive "+storagePath, err)
		return subcommands.ExitFailure
	}
	defer func() { _ = s.Close() }()

	switch args[0] {
	case "list":
		runs, err := s.List(ctx, c.limit)
		if err != nil {
			fatal("failed to list runs", err)
			return subcommands.ExitFailure
		}
		writeRunList(runs)
	case "show":
		if len(args) != 2 {
			fmt.Fprintln(os.Stderr, "Error: show requires a run id.")
			return subcommands.ExitUsageError
		}
		run, err := s.Get(ctx, args[1])
		if err != nil {
			fatal("failed to load run "+args[1], err)
			return subcommands.ExitFailure
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(run); err != nil {
			fatal("failed to write run", err)
			return subcommands.ExitFailure
		}
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown action %q.\n", args[0])
		return subcommands.ExitUsageError
	}
	return subcommands.ExitSuccess
}

// resolveStoragePath picks the archive the same way project -archive does. A
// missing configuration file falls back to the default path.
func resolveStoragePath(storagePath, configLocation string) (string, error) {
	if storagePath != "" {
		return storagePath, nil
	}
	if configLocation != "" {
		if _, err := os.Stat(configLocation); err == nil {
			conf, err := config.LoadConfiguration(configLocation)
			if err != nil {
				return "", err
			}
			if conf.Storage.Path != "" {
				return conf.Storage.Path, nil
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
	}
	return constants.DefaultStoragePath, nil
}

func writeRunList(runs []store.Run) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tScenario\tCreated\tNPV\tIRR (monthly)\tPayback")
	for _, run := range runs {
		irr := "n/a"
		if run.IRR != nil {
			irr = format.Percent(*run.IRR, 4)
		}
		payback := "not recovered"
		if run.PaybackMonth != nil {
			payback = fmt.Sprintf("month %d", *run.PaybackMonth)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%s\t%s\n",
			run.ID, run.Scenario, run.CreatedAt.Format("2006-01-02 15:04"), run.NPV, irr, payback)
	}
	_ = tw.Flush()
}

type versionCmd struct{}

func (*versionCmd) Name() string           { return "version" }
func (*versionCmd) Synopsis() string       { return "print the build version" }
func (*versionCmd) Usage() string          { return "version\n" }
func (*versionCmd) SetFlags(*flag.FlagSet) {}
func (*versionCmd) Execute(context.Context, *flag.FlagSet, ...interface{}) subcommands.ExitStatus {
	fmt.Println(version)
	return subcommands.ExitSuccess
}
