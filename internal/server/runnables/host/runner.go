// Package host runs the script environment and its execution slot under the
// supervisor: it preloads extensions on boot, initializes the environment and
// stops the current run on shutdown.
package host

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/atlanticdynamic/scribe/internal/capabilities"
	"github.com/atlanticdynamic/scribe/internal/config"
	"github.com/atlanticdynamic/scribe/internal/console"
	"github.com/atlanticdynamic/scribe/internal/extensions"
	"github.com/atlanticdynamic/scribe/internal/scripting/environment"
	"github.com/atlanticdynamic/scribe/internal/scripting/slot"
	"github.com/atlanticdynamic/scribe/internal/server/finitestate"
	"github.com/robbyt/go-supervisor/supervisor"
)

const DefaultShutdownTimeout = 5 * time.Second

var (
	_ supervisor.Runnable   = (*Runner)(nil)
	_ supervisor.Reloadable = (*Runner)(nil)
	_ supervisor.Stateable  = (*Runner)(nil)
)

type Runner struct {
	cfg  *config.Config
	sink console.Sink

	capabilities    *capabilities.Set
	unhandled       func(run *slot.Run, err error)
	shutdownTimeout time.Duration

	env        *environment.Environment
	slot       *slot.Slot
	extensions *extensions.Loader

	logger *slog.Logger
	fsm    finitestate.Machine

	runCtx    context.Context
	runCancel context.CancelFunc
	parentCtx context.Context
}

// NewRunner builds the environment and slot described by cfg. Output of every
// run goes to sink.
func NewRunner(cfg *config.Config, sink console.Sink, opts ...Option) (*Runner, error) {
	if cfg == nil {
		cfg = config.NewDefault()
	}
	if sink == nil {
		sink = console.Discard
	}
	runner := &Runner{
		cfg:             cfg,
		sink:            sink,
		shutdownTimeout: DefaultShutdownTimeout,
		logger:          slog.Default().WithGroup("host.Runner"),
		parentCtx:       context.Background(),
	}

	for _, opt := range opts {
		opt(runner)
	}
	runner.runCtx, runner.runCancel = context.WithCancel(runner.parentCtx)

	fsm, err := finitestate.New(runner.logger.WithGroup("fsm").Handler())
	if err != nil {
		return nil, fmt.Errorf("failed to create state machine: %w", err)
	}
	runner.fsm = fsm

	envOpts := []environment.Option{
		environment.WithLogger(runner.logger),
		environment.WithPerformanceStats(cfg.Environment.PerformanceStats),
		environment.WithMaxSteps(cfg.Environment.MaxSteps),
	}
	if runner.capabilities != nil {
		envOpts = append(envOpts, environment.WithCapabilities(*runner.capabilities))
	}
	runner.env, err = environment.New(sink, envOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create environment: %w", err)
	}

	slotOpts := []slot.Option{
		slot.WithLogger(runner.logger),
		slot.WithContext(runner.runCtx),
	}
	if runner.unhandled != nil {
		slotOpts = append(slotOpts, slot.WithUnhandledErrorHandler(runner.unhandled))
	}
	runner.slot, err = slot.New(runner.env, slotOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create execution slot: %w", err)
	}

	runner.extensions = extensions.New(
		extensions.WithLogger(runner.logger),
		extensions.WithDirectory(cfg.Environment.ExtensionsDir, cfg.Environment.ExtensionGlob),
		extensions.WithURIs(cfg.Environment.Extensions...),
	)
	return runner, nil
}

// String implements the supervisor.Runnable interface
func (r *Runner) String() string {
	return "host.Runner"
}

// Slot returns the execution slot. It is usable before Run is called.
func (r *Runner) Slot() *slot.Slot {
	return r.slot
}

// Environment returns the shared script environment.
func (r *Runner) Environment() *environment.Environment {
	return r.env
}

// Run implements the supervisor.Runnable interface
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Debug("Starting Runner")

	if err := r.fsm.Transition(finitestate.StatusBooting); err != nil {
		return fmt.Errorf("failed to transition to booting state: %w", err)
	}

	if err := r.boot(ctx); err != nil {
		if stateErr := r.fsm.Transition(finitestate.StatusError); stateErr != nil {
			r.logger.Error("Failed to transition to error state", "error", stateErr)
		}
		return fmt.Errorf("failed to boot script host: %w", err)
	}

	if err := r.fsm.Transition(finitestate.StatusRunning); err != nil {
		return fmt.Errorf("failed to transition to running state: %w", err)
	}

	select {
	case <-ctx.Done():
		r.logger.Debug("Context canceled")
	case <-r.runCtx.Done():
		r.logger.Debug("Run context canceled")
	}

	r.logger.Info("Runner shutting down")
	if r.fsm.GetState() != finitestate.StatusStopping {
		if err := r.fsm.Transition(finitestate.StatusStopping); err != nil {
			r.logger.Error("Failed to transition to stopping state", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), r.shutdownTimeout)
	defer cancel()
	shutdownErr := r.slot.Shutdown(shutdownCtx)
	if shutdownErr != nil {
		r.logger.Error("Script worker did not exit", "error", shutdownErr)
	}

	if err := r.fsm.Transition(finitestate.StatusStopped); err != nil {
		return fmt.Errorf("failed to transition to stopped state: %w", err)
	}
	return shutdownErr
}

// boot preloads the extensions and initializes the environment. Extensions
// that fail to read or run are reported and skipped; an unusable extensions
// directory fails the boot.
func (r *Runner) boot(ctx context.Context) error {
	loaded, err := r.extensions.Load(ctx, r.slot)
	if err != nil {
		if errors.Is(err, extensions.ErrDirectory) || errors.Is(err, extensions.ErrBadPattern) {
			return err
		}
		r.logger.Warn("Some extensions failed to load", "loaded", loaded, "error", err)
		r.sink.WriteLine(console.SeverityError, err.Error())
	}
	r.logger.Debug("Extensions loaded", "count", loaded)

	r.slot.Initialize()
	return nil
}

// Stop implements the supervisor.Runnable interface
func (r *Runner) Stop() {
	r.logger.Debug("Stopping Runner")
	if err := r.fsm.Transition(finitestate.StatusStopping); err != nil {
		r.logger.Error("Failed to transition to stopping state", "error", err)
	}
	r.runCancel()
}

// Reload implements the supervisor.Reloadable interface by running the
// extensions again, so edited extension files take effect without a restart.
func (r *Runner) Reload() {
	r.logger.Debug("Starting Reload...")
	loaded, err := r.extensions.Load(r.runCtx, r.slot)
	if err != nil {
		r.logger.Error("Failed to reload extensions", "loaded", loaded, "error", err)
		return
	}
	r.logger.Info("Extensions reloaded", "count", loaded)
}
