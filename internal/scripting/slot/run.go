package slot

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/atlanticdynamic/scribe/internal/console"
	"github.com/atlanticdynamic/scribe/internal/scripting/finitestate"
	"github.com/charmbracelet/lipgloss"
	"github.com/gofrs/uuid/v5"
	"github.com/robbyt/go-loglater"
	"github.com/robbyt/go-loglater/storage"
	"go.starlark.net/starlark"
)

// Run is one Execute or inline InjectLine call. It implements console.Sink and
// capabilities.Run; its output is dropped once it has been aborted.
type Run struct {
	ID        uuid.UUID
	Code      string
	Silent    bool
	Inline    bool
	CreatedAt time.Time

	slot         *Slot
	fsm          finitestate.Machine
	logger       *slog.Logger
	logCollector *loglater.LogCollector

	ctx            context.Context
	cancel         context.CancelFunc
	stopOnShutdown func() bool

	mu         sync.RWMutex
	aborted    bool
	settled    bool
	finished   bool
	thread     *starlark.Thread
	runGlobals starlark.StringDict
	err        error
	steps      uint64
	started    time.Time
	elapsed    time.Duration

	waiting atomic.Int32
	done    chan struct{}
}

func newRun(s *Slot, code string, silent, inline bool) *Run {
	id := uuid.Must(uuid.NewV6())

	logCollector := loglater.NewLogCollector(s.logger.Handler())
	logger := slog.New(logCollector).With("run", id.String(), "inline", inline)

	// The transition table is static, so creation cannot fail.
	sm, err := finitestate.NewRunMachine(logger.Handler())
	if err != nil {
		panic(fmt.Sprintf("run state machine: %v", err))
	}

	ctx, cancel := context.WithCancel(s.ctx)
	r := &Run{
		ID:           id,
		Code:         code,
		Silent:       silent,
		Inline:       inline,
		CreatedAt:    time.Now(),
		slot:         s,
		fsm:          sm,
		logger:       logger,
		logCollector: logCollector,
		ctx:          ctx,
		cancel:       cancel,
		done:         make(chan struct{}),
	}
	r.stopOnShutdown = context.AfterFunc(s.ctx, func() { r.abort("shutdown") })
	r.logger.Debug("Run created", "bytes", len(code))
	return r
}

func (r *Run) String() string {
	return fmt.Sprintf("Run(%s, %s)", r.ID, r.State())
}

// State returns the lifecycle state of the run.
func (r *Run) State() string {
	return r.fsm.GetState()
}

// Done is closed once the worker has released the environment.
func (r *Run) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until the run finishes or ctx is done.
func (r *Run) Wait(ctx context.Context) error {
	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Err returns the execution error of a finished run. Aborted runs report nil.
func (r *Run) Err() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.err
}

// Aborted reports whether the run was displaced or stopped.
func (r *Run) Aborted() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.aborted
}

// Finished reports whether the run reached a terminal state.
func (r *Run) Finished() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.finished
}

// Paused reports whether the run is blocked inside a capability call.
func (r *Run) Paused() bool {
	return r.waiting.Load() > 0 && !r.Finished()
}

// Steps returns the interpreter steps executed by a finished run.
func (r *Run) Steps() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.steps
}

// Elapsed returns the execution time, or time since start for a live run.
func (r *Run) Elapsed() time.Duration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.finished || r.started.IsZero() {
		return r.elapsed
	}
	return time.Since(r.started)
}

// PlaybackLogs replays the run's log history into handler.
func (r *Run) PlaybackLogs(handler slog.Handler) error {
	return r.logCollector.PlayLogs(handler)
}

// Logs returns the run's log history.
func (r *Run) Logs() []storage.Record {
	return r.logCollector.GetLogs()
}

// Context is canceled when the run is aborted.
func (r *Run) Context() context.Context {
	return r.ctx
}

// Sink returns the run itself, so writes are gated on it being live.
func (r *Run) Sink() console.Sink {
	return r
}

// WriteLine forwards to the slot's sink unless the run was aborted.
func (r *Run) WriteLine(severity console.Severity, text string) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.aborted {
		return
	}
	r.slot.sink.WriteLine(severity, text)
}

// WriteColored forwards to the slot's sink unless the run was aborted.
func (r *Run) WriteColored(color lipgloss.Color, text string) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.aborted {
		return
	}
	r.slot.sink.WriteColored(color, text)
}

// BeginWait marks the run as blocked until end is called.
func (r *Run) BeginWait() (end func()) {
	r.waiting.Add(1)
	var once sync.Once
	return func() {
		once.Do(func() { r.waiting.Add(-1) })
	}
}

// PendingInput returns the number of queued console lines.
func (r *Run) PendingInput() int {
	return r.slot.queue.Len()
}

// DrainInput executes each queued console line on thread against the run's
// globals. Failures of a line are reported and do not stop the drain.
func (r *Run) DrainInput(thread *starlark.Thread) (int, error) {
	if r.Aborted() {
		return 0, nil
	}
	r.mu.RLock()
	globals := r.runGlobals
	r.mu.RUnlock()

	lines := r.slot.queue.Drain()
	for i, line := range lines {
		if r.Aborted() {
			return i, nil
		}
		r.logger.Debug("Processing console input", "line", line)
		if err := r.slot.env.Exec(thread, globals, line); err != nil {
			if r.Aborted() {
				return i, nil
			}
			if !r.slot.reporter.WithSink(r).Report(err) {
				return i, err
			}
		}
	}
	return len(lines), nil
}

// live reports whether the run is still executing and has not been aborted.
func (r *Run) live() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return !r.aborted && !r.settled && !r.finished
}

// abort cancels the run. It returns false when the run had already been
// aborted or its outcome was already recorded. Once abort returns true, the
// run writes nothing more.
func (r *Run) abort(reason string) bool {
	r.mu.Lock()
	if r.aborted || r.settled || r.finished {
		r.mu.Unlock()
		return false
	}
	r.aborted = true
	thread := r.thread
	r.mu.Unlock()

	r.cancel()
	if thread != nil {
		thread.Cancel(reason)
	}
	r.logger.Info("Run aborted", "reason", reason)
	return true
}

// attach binds the interpreter thread. A run aborted before it started has its
// thread canceled immediately.
func (r *Run) attach(thread *starlark.Thread, globals starlark.StringDict) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.thread = thread
	r.runGlobals = globals
	r.started = time.Now()
	if r.aborted {
		thread.Cancel("aborted")
		return false
	}
	return true
}
