package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

func main() {
	app := &cli.Command{
		Name:    "scribe",
		Version: Version,
		Usage:   "Run scripts against a persistent environment",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to TOML configuration file",
				Sources: cli.EnvVars("SCRIBE_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (trace, debug, info, warn, error); overrides the config file",
				Sources: cli.EnvVars("SCRIBE_LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "log-format",
				Usage:   "Log format (text, json); overrides the config file",
				Sources: cli.EnvVars("SCRIBE_LOG_FORMAT"),
			},
		},
		Commands: []*cli.Command{
			versionCmd,
			validateCmd,
			runCmd,
			consoleCmd,
			serveCmd,
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
