package capabilities

import (
	"context"

	"github.com/atlanticdynamic/scribe/internal/console"
	"go.starlark.net/starlark"
)

// RunLocalKey is the thread-local key under which the executing run is stored.
const RunLocalKey = "scribe.run"

// Run is the view builtins get of the execution that called them.
type Run interface {
	// Context is canceled when the run is aborted.
	Context() context.Context

	// Sink receives script output; it goes quiet once the run is displaced.
	Sink() console.Sink

	// BeginWait marks the run as blocked until the returned func is called.
	BeginWait() (end func())

	// DrainInput executes every queued console line on thread and returns how
	// many lines were consumed.
	DrainInput(thread *starlark.Thread) (int, error)

	// PendingInput returns the number of queued console lines.
	PendingInput() int
}

// RunFromThread returns the Run attached to thread, or a detached one.
func RunFromThread(thread *starlark.Thread) Run {
	if thread != nil {
		if r, ok := thread.Local(RunLocalKey).(Run); ok && r != nil {
			return r
		}
	}
	return Detached(context.Background(), console.Discard)
}

// Detached returns a Run with no input queue, used outside the execution slot
// (extension preloading, tests).
func Detached(ctx context.Context, sink console.Sink) Run {
	if sink == nil {
		sink = console.Discard
	}
	return &detached{ctx: ctx, sink: sink}
}

type detached struct {
	ctx  context.Context
	sink console.Sink
}

func (d *detached) Context() context.Context                 { return d.ctx }
func (d *detached) Sink() console.Sink                       { return d.sink }
func (d *detached) BeginWait() func()                        { return func() {} }
func (d *detached) DrainInput(*starlark.Thread) (int, error) { return 0, nil }
func (d *detached) PendingInput() int                        { return 0 }
