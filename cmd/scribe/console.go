package main

import (
	"context"
	"os"

	"github.com/atlanticdynamic/scribe/cmd/scribe/server"
	"github.com/atlanticdynamic/scribe/internal/console"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v3"
)

var listenFlag = &cli.StringFlag{
	Name:    "listen",
	Aliases: []string{"l"},
	Usage:   "Address for the MCP control endpoint (host:port); overrides the config file",
}

var consoleCmd = &cli.Command{
	Name:  "console",
	Usage: "Read script lines from standard input",
	Flags: []cli.Flag{listenFlag},
	Action: func(ctx context.Context, cmd *cli.Command) error {
		cfg, logger, closer, err := setup(cmd)
		if err != nil {
			return cli.Exit(err, 1)
		}
		defer func() { _ = closer.Close() }()

		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		opts := server.Options{
			Config:     cfg,
			Sink:       console.NewWriter(os.Stdout, console.WithColor(cfg.Console.Color)),
			Input:      os.Stdin,
			OnInputEOF: cancel,
			ListenAddr: cmd.String("listen"),
			Version:    cmd.Root().Version,
		}
		if isatty.IsTerminal(os.Stdin.Fd()) {
			opts.PromptOut = os.Stdout
		}

		if err := server.Run(ctx, logger, opts); err != nil {
			return cli.Exit(err, 1)
		}
		return nil
	},
}
