// Package terminal reads console lines from an input stream and drives the
// execution slot with them. Lines starting with ':' are commands, everything
// else is console input for the running script.
package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/atlanticdynamic/scribe/internal/console"
	"github.com/atlanticdynamic/scribe/internal/extensions"
	"github.com/atlanticdynamic/scribe/internal/scripting/slot"
	"github.com/atlanticdynamic/scribe/internal/server/finitestate"
	"github.com/robbyt/go-supervisor/supervisor"
)

var (
	_ supervisor.Runnable  = (*Runner)(nil)
	_ supervisor.Stateable = (*Runner)(nil)
)

// Controller is the part of the execution slot driven from the console.
type Controller interface {
	Execute(code string, silent bool) *slot.Run
	InjectLine(code string) *slot.Run
	Stop()
	Suspend()
	Resume()
	IsActive() bool
	IsPaused() bool
	QueueLen() int
	CurrentRun() *slot.Run
}

var _ Controller = (*slot.Slot)(nil)

type Runner struct {
	ctrl Controller
	in   io.Reader
	sink console.Sink

	prompt     string
	promptOut  io.Writer
	echo       bool
	onEOF      func()
	readScript func(uri string) (string, error)

	logger *slog.Logger
	fsm    finitestate.Machine

	runCtx    context.Context
	runCancel context.CancelFunc
	parentCtx context.Context
}

// NewRunner creates a Runner reading lines from in. Command feedback is
// written to sink.
func NewRunner(ctrl Controller, in io.Reader, sink console.Sink, opts ...Option) (*Runner, error) {
	if ctrl == nil {
		return nil, ErrNilController
	}
	if in == nil {
		return nil, ErrNilInput
	}
	if sink == nil {
		sink = console.Discard
	}
	runner := &Runner{
		ctrl:       ctrl,
		in:         in,
		sink:       sink,
		readScript: extensions.ReadURI,
		logger:     slog.Default().WithGroup("terminal.Runner"),
		parentCtx:  context.Background(),
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
	return runner, nil
}

// String implements the supervisor.Runnable interface
func (r *Runner) String() string {
	return "terminal.Runner"
}

// Run implements the supervisor.Runnable interface
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Debug("Starting Runner")

	if err := r.fsm.Transition(finitestate.StatusBooting); err != nil {
		return fmt.Errorf("failed to transition to booting state: %w", err)
	}

	lines := make(chan string)
	go r.scan(lines)

	if err := r.fsm.Transition(finitestate.StatusRunning); err != nil {
		return fmt.Errorf("failed to transition to running state: %w", err)
	}
	r.writePrompt()

	for running := true; running; {
		select {
		case <-ctx.Done():
			r.logger.Debug("Context canceled")
			running = false
		case <-r.runCtx.Done():
			r.logger.Debug("Run context canceled")
			running = false
		case line, ok := <-lines:
			if !ok {
				r.logger.Debug("Console input closed")
				lines = nil
				if r.onEOF != nil {
					go r.onEOF()
				}
				continue
			}
			r.Handle(line)
			r.writePrompt()
		}
	}

	r.logger.Info("Runner shutting down")
	if r.fsm.GetState() != finitestate.StatusStopping {
		if err := r.fsm.Transition(finitestate.StatusStopping); err != nil {
			r.logger.Error("Failed to transition to stopping state", "error", err)
		}
	}
	if err := r.fsm.Transition(finitestate.StatusStopped); err != nil {
		return fmt.Errorf("failed to transition to stopped state: %w", err)
	}
	return nil
}

// scan feeds input lines into lines until the input ends or the runner stops.
// A reader blocked in Read is left behind when the runner stops.
func (r *Runner) scan(lines chan<- string) {
	defer close(lines)
	scanner := bufio.NewScanner(r.in)
	for scanner.Scan() {
		select {
		case lines <- scanner.Text():
		case <-r.runCtx.Done():
			return
		}
	}
	if err := scanner.Err(); err != nil {
		r.logger.Error("Failed to read console input", "error", err)
	}
}

func (r *Runner) writePrompt() {
	if r.promptOut == nil || r.prompt == "" {
		return
	}
	if _, err := io.WriteString(r.promptOut, r.prompt); err != nil {
		r.logger.Debug("Failed to write prompt", "error", err)
	}
}

// Stop implements the supervisor.Runnable interface
func (r *Runner) Stop() {
	r.logger.Debug("Stopping Runner")
	if err := r.fsm.Transition(finitestate.StatusStopping); err != nil {
		r.logger.Error("Failed to transition to stopping state", "error", err)
	}
	r.runCancel()
}
