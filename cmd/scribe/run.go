package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/atlanticdynamic/scribe/internal/config"
	"github.com/atlanticdynamic/scribe/internal/console"
	"github.com/atlanticdynamic/scribe/internal/extensions"
	"github.com/atlanticdynamic/scribe/internal/server/runnables/host"
	"github.com/urfave/cli/v3"
)

// exitInterrupted is the conventional status for a process stopped by SIGINT.
const exitInterrupted = 130

var errScriptAborted = errors.New("script aborted")

var runCmd = &cli.Command{
	Name:      "run",
	Usage:     "Execute a script file once against a fresh environment",
	ArgsUsage: "<file or URI>",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "echo",
			Usage: "Echo the script to the console before running it",
		},
	},
	Action: runAction,
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	uri := cmd.Args().First()
	if uri == "" {
		return cli.Exit("script file or URI required", 1)
	}

	cfg, logger, closer, err := setup(cmd)
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer func() { _ = closer.Close() }()

	code, err := extensions.ReadURI(uri)
	if err != nil {
		return cli.Exit(err, 1)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	sink := console.NewWriter(os.Stdout, console.WithColor(cfg.Console.Color))
	err = runScript(ctx, logger, cfg, sink, code, !cmd.Bool("echo"))
	switch {
	case errors.Is(err, errScriptAborted):
		return cli.Exit(err, exitInterrupted)
	case err != nil:
		return cli.Exit(err, 1)
	}
	return nil
}

// runScript boots a script host, executes code once and shuts the host down.
func runScript(
	ctx context.Context,
	logger *slog.Logger,
	cfg *config.Config,
	sink console.Sink,
	code string,
	silent bool,
) error {
	h, err := host.NewRunner(cfg, sink,
		host.WithContext(ctx),
		host.WithLogHandler(logger.Handler()),
	)
	if err != nil {
		return fmt.Errorf("failed to create script host: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- h.Run(ctx)
	}()

	if err := waitRunning(ctx, h, errCh); err != nil {
		return err
	}

	run := h.Slot().Execute(code, silent)
	waitErr := run.Wait(ctx)

	h.Stop()
	hostErr := <-errCh

	switch {
	case waitErr != nil || run.Aborted():
		return errScriptAborted
	case run.Err() != nil:
		return fmt.Errorf("script failed: %w", run.Err())
	case hostErr != nil:
		return fmt.Errorf("script host did not shut down cleanly: %w", hostErr)
	}
	logger.Debug("Script finished", "run", run.ID, "steps", run.Steps(), "elapsed", run.Elapsed())
	return nil
}

// waitRunning blocks until the host has booted, failed to boot, or ctx is done.
func waitRunning(ctx context.Context, h *host.Runner, errCh <-chan error) error {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for !h.IsRunning() {
		select {
		case <-ctx.Done():
			return errScriptAborted
		case err := <-errCh:
			if err == nil {
				return errScriptAborted
			}
			return err
		case <-ticker.C:
		}
	}
	return nil
}
