package main

import (
	"context"
	"os"

	"github.com/atlanticdynamic/scribe/cmd/scribe/server"
	"github.com/atlanticdynamic/scribe/internal/console"
	"github.com/urfave/cli/v3"
)

var serveCmd = &cli.Command{
	Name:  "serve",
	Usage: "Serve the MCP control endpoint without a console",
	Flags: []cli.Flag{listenFlag},
	Action: func(ctx context.Context, cmd *cli.Command) error {
		cfg, logger, closer, err := setup(cmd)
		if err != nil {
			return cli.Exit(err, 1)
		}
		defer func() { _ = closer.Close() }()

		listenAddr := cmd.String("listen")
		if listenAddr == "" && !cfg.Control.Enabled() {
			return cli.Exit("either --listen or a [control] listen address in the config file is required", 1)
		}

		opts := server.Options{
			Config:     cfg,
			Sink:       console.NewWriter(os.Stdout, console.WithColor(cfg.Console.Color)),
			ListenAddr: listenAddr,
			Version:    cmd.Root().Version,
		}
		if err := server.Run(ctx, logger, opts); err != nil {
			return cli.Exit(err, 1)
		}
		return nil
	},
}
