// Package server assembles the scribe runnables and runs them under a
// supervisor until the context is canceled or a signal arrives.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/atlanticdynamic/scribe/internal/config"
	"github.com/atlanticdynamic/scribe/internal/console"
	"github.com/atlanticdynamic/scribe/internal/control"
	"github.com/atlanticdynamic/scribe/internal/server/runnables/host"
	"github.com/atlanticdynamic/scribe/internal/server/runnables/listener"
	"github.com/atlanticdynamic/scribe/internal/server/runnables/terminal"
	"github.com/robbyt/go-supervisor/supervisor"
)

var ErrNothingToServe = errors.New("nothing to serve: no console input and no control listen address")

// Options selects which runnables are started next to the script host.
type Options struct {
	Config *config.Config
	Sink   console.Sink

	// Input enables the console runnable when set.
	Input     io.Reader
	PromptOut io.Writer
	// OnInputEOF is called once Input is exhausted and the run started from
	// the last line has finished.
	OnInputEOF func()

	// ListenAddr overrides the control listen address of the config.
	ListenAddr string
	Version    string
}

// Build creates the runnables in start order: host, then the optional
// console and control listener. The host is returned for callers that need
// the execution slot.
func Build(ctx context.Context, logger *slog.Logger, opts Options) ([]supervisor.Runnable, *host.Runner, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.NewDefault()
	}
	logHandler := logger.Handler()

	hostRunner, err := host.NewRunner(cfg, opts.Sink,
		host.WithContext(ctx),
		host.WithLogHandler(logHandler),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create script host: %w", err)
	}
	runnables := []supervisor.Runnable{hostRunner}

	if opts.Input != nil {
		termOpts := []terminal.Option{
			terminal.WithContext(ctx),
			terminal.WithLogHandler(logHandler),
			terminal.WithEcho(cfg.Console.Echo),
		}
		if opts.PromptOut != nil {
			termOpts = append(termOpts, terminal.WithPrompt(opts.PromptOut, cfg.Console.Prompt))
		}
		if opts.OnInputEOF != nil {
			s := hostRunner.Slot()
			termOpts = append(termOpts, terminal.WithEOFHandler(func() {
				if err := s.Wait(ctx); err != nil {
					logger.Debug("Gave up waiting for the last run", "error", err)
				}
				opts.OnInputEOF()
			}))
		}
		term, err := terminal.NewRunner(hostRunner.Slot(), opts.Input, opts.Sink, termOpts...)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create console: %w", err)
		}
		runnables = append(runnables, term)
	}

	listenAddr := cfg.Control.Listen
	if opts.ListenAddr != "" {
		listenAddr = opts.ListenAddr
	}
	if listenAddr != "" {
		version := opts.Version
		if version == "" {
			version = "dev"
		}
		ctrl, err := control.NewServer(hostRunner.Slot(),
			control.WithLogHandler(logHandler),
			control.WithImplementation("scribe", version),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create control server: %w", err)
		}
		lst, err := listener.NewRunner(listenAddr, cfg.Control.Path, ctrl.Handler(),
			listener.WithLogHandler(logHandler),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create control listener: %w", err)
		}
		runnables = append(runnables, lst)
	}

	if len(runnables) == 1 {
		return nil, nil, ErrNothingToServe
	}
	return runnables, hostRunner, nil
}

// Run builds the runnables and supervises them until ctx is canceled.
func Run(ctx context.Context, logger *slog.Logger, opts Options) error {
	runnables, _, err := Build(ctx, logger, opts)
	if err != nil {
		return err
	}

	super, err := supervisor.New(
		supervisor.WithContext(ctx),
		supervisor.WithLogHandler(logger.Handler()),
		supervisor.WithRunnables(runnables...),
	)
	if err != nil {
		return fmt.Errorf("failed to create supervisor: %w", err)
	}
	if err := super.Run(); err != nil {
		return fmt.Errorf("failed to run server: %w", err)
	}

	logger.Info("Server shutdown complete")
	return nil
}
