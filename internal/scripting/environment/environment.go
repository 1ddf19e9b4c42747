// Package environment owns the interpreter state shared by every run.
package environment

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/atlanticdynamic/scribe/internal/capabilities"
	"github.com/atlanticdynamic/scribe/internal/console"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// MarkerLine is written to the sink on every Initialize call.
const MarkerLine = "-- SCRIPTER INITIALIZED"

// Environment is not safe for concurrent runs; callers serialize Exec.
type Environment struct {
	logger       *slog.Logger
	sink         console.Sink
	capabilities *capabilities.Set
	maxSteps     uint64
	perf         *PerformanceStats
	fileOptions  *syntax.FileOptions

	mu           sync.Mutex
	bindings     starlark.StringDict
	bindingOrder []string
	sealed       bool
	globals      starlark.StringDict
	initialized  bool
}

// New creates an Environment writing to sink, with the fixed capability
// bindings already registered.
func New(sink console.Sink, opts ...Option) (*Environment, error) {
	if sink == nil {
		sink = console.Discard
	}
	e := &Environment{
		logger:   slog.Default(),
		sink:     sink,
		perf:     newPerformanceStats(),
		bindings: make(starlark.StringDict),
		globals:  make(starlark.StringDict),
		fileOptions: &syntax.FileOptions{
			Set:             true,
			While:           true,
			TopLevelControl: true,
			GlobalReassign:  true,
			Recursion:       true,
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.WithGroup("environment")

	if e.capabilities == nil {
		set := capabilities.NewHeadless(e.logger).Set()
		e.capabilities = &set
	}
	if err := e.capabilities.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBindings, err)
	}
	for _, mod := range e.capabilities.Modules() {
		if err := e.RegisterBinding(mod.Name, mod); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Initialize announces the environment on the sink. Repeat calls only repeat
// the announcement.
func (e *Environment) Initialize() {
	e.mu.Lock()
	first := !e.initialized
	e.initialized = true
	e.mu.Unlock()

	if first {
		e.logger.Info("Environment initialized", "bindings", e.Bindings())
	}
	e.sink.WriteLine(console.SeverityStatus, MarkerLine)
}

// Initialized reports whether Initialize has been called.
func (e *Environment) Initialized() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.initialized
}

// Sink returns the environment's output sink.
func (e *Environment) Sink() console.Sink {
	return e.sink
}

// RegisterBinding exposes value to scripts as the global name. Each name can
// be bound once, and only before the first snapshot is taken.
func (e *Environment) RegisterBinding(name string, value starlark.Value) error {
	if name == "" {
		return ErrEmptyBindingName
	}
	if value == nil {
		return fmt.Errorf("%w: %s", ErrNilBinding, name)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sealed {
		return fmt.Errorf("%w: %s", ErrBindingsSealed, name)
	}
	if _, exists := e.bindings[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateBinding, name)
	}
	e.bindings[name] = value
	e.bindingOrder = append(e.bindingOrder, name)
	e.logger.Debug("Binding registered", "name", name, "type", value.Type())
	return nil
}

// Bindings returns the bound names in registration order.
func (e *Environment) Bindings() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.bindingOrder)
}

// Sealed reports whether bindings can still be registered.
func (e *Environment) Sealed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sealed
}

// Snapshot seals the bindings and returns a private copy of the globals for a
// run. Bindings always shadow script assignments of the same name.
func (e *Environment) Snapshot() starlark.StringDict {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sealed = true
	out := maps.Clone(e.globals)
	maps.Copy(out, e.bindings)
	return out
}

// Commit makes globals the persistent namespace.
func (e *Environment) Commit(globals starlark.StringDict) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.globals = maps.Clone(globals)
}

// Global returns the committed value of name.
func (e *Environment) Global(name string) (starlark.Value, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if v, ok := e.globals[name]; ok {
		return v, true
	}
	v, ok := e.bindings[name]
	return v, ok
}

// GlobalNames returns the sorted committed names that are not bindings.
func (e *Environment) GlobalNames() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	var names []string
	for name := range e.globals {
		if _, bound := e.bindings[name]; !bound {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// NewThread prepares an interpreter thread for run. print() goes to sink as
// debug output.
func (e *Environment) NewThread(name string, sink console.Sink, run capabilities.Run) *starlark.Thread {
	if sink == nil {
		sink = e.sink
	}
	thread := &starlark.Thread{
		Name: name,
		Print: func(_ *starlark.Thread, msg string) {
			sink.WriteLine(console.SeverityDebug, msg)
		},
		Load: func(_ *starlark.Thread, module string) (starlark.StringDict, error) {
			return nil, fmt.Errorf("load(%q): modules are not supported, use extensions", module)
		},
	}
	if e.maxSteps > 0 {
		thread.SetMaxExecutionSteps(e.maxSteps)
	}
	thread.SetLocal(capabilities.RunLocalKey, run)
	return thread
}

// Parse checks code without running it.
func (e *Environment) Parse(filename, code string) (*syntax.File, error) {
	return e.fileOptions.Parse(filename, code, 0)
}

// Exec parses code and runs it against globals. Syntax errors are returned
// before any statement executes; assignments made before a runtime failure
// are kept in globals.
func (e *Environment) Exec(thread *starlark.Thread, globals starlark.StringDict, code string) error {
	f, err := e.Parse(thread.Name, code)
	if err != nil {
		return err
	}
	return starlark.ExecREPLChunk(f, thread, globals)
}

// Preload runs an extension once against the persistent globals, committing
// them only on success. Canceling ctx interrupts blocking builtins and stops
// the interpreter.
func (e *Environment) Preload(ctx context.Context, name, code string) error {
	globals := e.Snapshot()
	thread := e.NewThread(name, e.sink, capabilities.Detached(ctx, e.sink))
	stop := context.AfterFunc(ctx, func() { thread.Cancel("preload canceled") })
	defer stop()

	if err := e.Exec(thread, globals, code); err != nil {
		e.logger.Warn("Extension failed", "name", name, "error", err)
		return err
	}
	e.Commit(globals)
	e.logger.Debug("Extension loaded", "name", name, "steps", thread.ExecutionSteps())
	return nil
}

// Performance returns the counters shared by every run.
func (e *Environment) Performance() *PerformanceStats {
	return e.perf
}
