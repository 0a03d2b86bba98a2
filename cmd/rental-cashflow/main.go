// Command rental-cashflow projects the monthly cash flow of a short-term
// rental and evaluates it as an investment.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/iwvelando/rental-cashflow/pkg/constants"
	"github.com/joho/godotenv"
)

var version = "dev"

func main() {
	envFile := flag.String("env-file", constants.DefaultEnvFile, "dotenv file loaded before reading configuration")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(&projectCmd{}, "")
	commander.Register(&serveCmd{}, "")
	commander.Register(&runsCmd{}, "")
	commander.Register(&versionCmd{}, "")

	flag.Parse()
	loadEnv(*envFile)
	os.Exit(int(commander.Execute(context.Background())))
}

// loadEnv populates the environment from a dotenv file. A missing file is
// not an error; existing variables are never overwritten.
func loadEnv(path string) {
	if path == "" {
		return
	}
	if _, err := os.Stat(path); err != nil {
		return
	}
	if err := godotenv.Load(path); err != nil {
		fatal("failed to load env file "+path, err)
	}
}
