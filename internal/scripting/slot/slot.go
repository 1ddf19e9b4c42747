// Package slot runs scripts one at a time against a shared environment.
//
// Starting a run displaces the previous one. The displaced worker is canceled
// and the new worker waits until it has released the environment, so at most
// one worker ever touches the interpreter state. A displaced run writes no
// more output and never commits its globals.
package slot

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/atlanticdynamic/scribe/internal/console"
	"github.com/atlanticdynamic/scribe/internal/scripting/environment"
	"github.com/atlanticdynamic/scribe/internal/scripting/finitestate"
	"github.com/atlanticdynamic/scribe/internal/scripting/inputqueue"
	"github.com/atlanticdynamic/scribe/internal/scripting/reporter"
	"go.starlark.net/starlark"
)

const threadName = "script"

// Slot is the single execution slot of an Environment.
type Slot struct {
	env       *environment.Environment
	sink      console.Sink
	logger    *slog.Logger
	ctx       context.Context
	queue     *inputqueue.Queue
	reporter  *reporter.Reporter
	unhandled func(run *Run, err error)

	// execMu is held by whichever worker is using env.
	execMu sync.Mutex

	mu      sync.Mutex
	current *Run
	last    *Run
	workers sync.WaitGroup
}

// New creates a Slot executing against env.
func New(env *environment.Environment, opts ...Option) (*Slot, error) {
	if env == nil {
		return nil, ErrNilEnvironment
	}
	s := &Slot{
		env:       env,
		sink:      env.Sink(),
		logger:    slog.Default(),
		ctx:       context.Background(),
		unhandled: panicOnUnhandled,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.queue == nil {
		s.queue = inputqueue.New()
	}
	s.logger = s.logger.WithGroup("slot")
	s.reporter = reporter.New(s.sink, s.logger)
	return s, nil
}

func panicOnUnhandled(run *Run, err error) {
	panic(fmt.Sprintf("unhandled script failure in run %s: %v", run.ID, err))
}

// Environment returns the environment the slot executes against.
func (s *Slot) Environment() *environment.Environment {
	return s.env
}

// Initialize initializes the environment.
func (s *Slot) Initialize() {
	s.env.Initialize()
}

// Execute clears the console input queue, echoes code unless silent, aborts
// the current run and starts code on a new worker. It returns without waiting.
func (s *Slot) Execute(code string, silent bool) *Run {
	if !silent {
		s.sink.WriteLine(console.SeverityEcho, "> "+code)
	}

	run := newRun(s, code, silent, false)

	// The previous run is aborted before the lock is released so that no
	// displaced worker can still be live once a later run becomes current.
	// Queued input is cleared under the same lock, so a line can only be
	// queued for the run that is current when it arrives.
	s.mu.Lock()
	if n := s.queue.Clear(); n > 0 {
		s.logger.Debug("Discarded queued console input", "lines", n)
	}
	prev := s.current
	s.current = run
	if prev != nil && prev.abort("displaced") {
		s.logger.Debug("Displaced run", "previous", prev.ID, "next", run.ID)
	}
	s.workers.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.workers.Done()
		s.execute(run)
	}()
	return run
}

// InjectLine queues code for the running script to process when the current
// run is still executing, and otherwise runs it inline on the caller. A run
// that was stopped or has already produced its outcome no longer takes
// input. The inline run becomes the current run: Stop aborts it and Execute
// displaces it like any other. It returns the inline run, or nil when the
// line was queued.
func (s *Slot) InjectLine(code string) *Run {
	s.mu.Lock()
	if cur := s.current; cur != nil && cur.live() {
		s.queue.Push(code)
		s.mu.Unlock()
		s.logger.Debug("Queued console input", "run", cur.ID, "queued", s.queue.Len())
		return nil
	}
	if n := s.queue.Clear(); n > 0 {
		s.logger.Debug("Discarded console input left by a finished run", "lines", n)
	}
	run := newRun(s, code, true, true)
	s.current = run
	s.mu.Unlock()

	s.execute(run)
	return run
}

// Stop aborts the current run. It is a no-op when nothing is running.
func (s *Slot) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur := s.current; cur != nil && cur.abort("stopped") {
		s.logger.Info("Run stopped", "run", cur.ID)
	}
}

// Suspend has no effect.
func (s *Slot) Suspend() {
	s.logger.Debug("Suspend requested, ignoring")
}

// Resume has no effect.
func (s *Slot) Resume() {
	s.logger.Debug("Resume requested, ignoring")
}

// IsPaused reports whether the current run is blocked in a capability wait
// such as core.sleep. A run that is computing, and an idle slot, are not
// paused.
func (s *Slot) IsPaused() bool {
	cur := s.CurrentRun()
	return cur != nil && !cur.Aborted() && cur.Paused()
}

// IsActive reports whether a run has started and not yet finished.
func (s *Slot) IsActive() bool {
	cur := s.CurrentRun()
	return cur != nil && !cur.Finished()
}

// CurrentRun returns the most recently started run, finished or not.
func (s *Slot) CurrentRun() *Run {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// LastRun returns the most recently finished run.
func (s *Slot) LastRun() *Run {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// QueueLen returns the number of queued console lines.
func (s *Slot) QueueLen() int {
	return s.queue.Len()
}

// Preload runs extension code against the environment once no worker is
// using it.
func (s *Slot) Preload(ctx context.Context, name, code string) error {
	s.execMu.Lock()
	defer s.execMu.Unlock()
	return s.env.Preload(ctx, name, code)
}

// Wait blocks until the current run, if any, is finished.
func (s *Slot) Wait(ctx context.Context) error {
	cur := s.CurrentRun()
	if cur == nil {
		return nil
	}
	return cur.Wait(ctx)
}

// Shutdown stops the current run and waits for every worker to exit.
func (s *Slot) Shutdown(ctx context.Context) error {
	s.Stop()

	done := make(chan struct{})
	go func() {
		s.workers.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrShutdownTimeout, ctx.Err())
	}
}

// execute runs code on the calling goroutine once the environment is free.
func (s *Slot) execute(run *Run) {
	s.execMu.Lock()
	unhandled := s.runLocked(run)
	s.execMu.Unlock()
	close(run.done)

	if unhandled != nil {
		s.unhandled(run, unhandled)
	}
}

func (s *Slot) runLocked(run *Run) error {
	globals := s.env.Snapshot()
	thread := s.env.NewThread(threadName, run, run)
	if !run.attach(thread, globals) {
		s.settle(run, thread, globals, nil)
		return nil
	}
	run.fsm.TransitionBool(finitestate.StateRunning)
	run.logger.Debug("Run started")

	err := s.exec(thread, globals, run.Code)
	return s.settle(run, thread, globals, err)
}

// exec turns a panic inside a builtin into an unclassified error.
func (s *Slot) exec(thread *starlark.Thread, globals starlark.StringDict, code string) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", ErrScriptPanic, p)
		}
	}()
	return s.env.Exec(thread, globals, code)
}

// settle records the outcome of run. Globals are committed only when the run
// was not aborted and got past parsing. Once settled, the run can no longer be
// aborted, so its state always agrees with Aborted. Failures outside the taxonomy are
// returned for the unhandled hook.
func (s *Slot) settle(run *Run, thread *starlark.Thread, globals starlark.StringDict, err error) error {
	steps := thread.ExecutionSteps()

	run.mu.Lock()
	run.settled = true
	elapsed := time.Since(run.started)
	run.steps = steps
	run.elapsed = elapsed
	if s.ctx.Err() != nil {
		// The slot is shutting down; the run may have seen its context
		// canceled before the shutdown hook aborted it.
		run.aborted = true
	}
	if run.aborted {
		run.mu.Unlock()
		s.env.Performance().Record(environment.Sample{Outcome: finitestate.StateAborted, Steps: steps, Elapsed: elapsed})
		s.finish(run, finitestate.StateAborted, steps, elapsed)
		return nil
	}

	kind := reporter.Classify(err)
	state := finitestate.StateCompleted
	switch {
	case err == nil:
		s.env.Commit(globals)
	case kind == reporter.KindSyntax:
		state = finitestate.StateFailedSyntax
	case kind == reporter.KindRuntime:
		s.env.Commit(globals)
		state = finitestate.StateFailedRuntime
	default:
		state = finitestate.StateFailedRuntime
	}
	run.err = err
	run.mu.Unlock()

	var unhandled error
	if err != nil && !s.reporter.WithSink(run).Report(err) {
		unhandled = err
	}

	perf := s.env.Performance()
	perf.Record(environment.Sample{Outcome: state, Steps: steps, Elapsed: elapsed})
	if perf.Enabled() {
		run.WriteLine(console.SeverityPerf, perf.Line())
	}

	s.finish(run, state, steps, elapsed)
	return unhandled
}

func (s *Slot) finish(run *Run, state string, steps uint64, elapsed time.Duration) {
	if !run.fsm.TransitionBool(state) {
		run.logger.Warn("Unexpected run transition", "from", run.State(), "to", state)
	}

	run.mu.Lock()
	run.finished = true
	run.mu.Unlock()
	run.stopOnShutdown()
	run.cancel()

	s.mu.Lock()
	s.last = run
	s.mu.Unlock()

	run.logger.Info("Run finished", "state", state, "steps", steps, "elapsed", elapsed)
}
