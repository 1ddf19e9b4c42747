// Package finitestate tracks the lifecycle of a single script run.
//
// Run Lifecycle:
//  1. Created - the run exists but its worker has not touched the environment
//  2. Running - the worker is executing the script
//
// Terminal states:
//   - Completed - the script ran to the end
//   - FailedSyntax - the script was rejected before execution began
//   - FailedRuntime - the script failed mid-execution
//   - Aborted - the run was displaced or stopped from outside
package finitestate

import (
	"context"
	"log/slog"

	"github.com/robbyt/go-fsm"
)

const (
	StateCreated       = "created"
	StateRunning       = "running"
	StateCompleted     = "completed"
	StateFailedSyntax  = "failed_syntax"
	StateFailedRuntime = "failed_runtime"
	StateAborted       = "aborted"
)

// RunTransitions lists the allowed transitions of a run. Aborted is reachable
// from both live states since cancellation may land before the worker starts.
var RunTransitions = map[string][]string{
	StateCreated:       {StateRunning, StateAborted},
	StateRunning:       {StateCompleted, StateFailedSyntax, StateFailedRuntime, StateAborted},
	StateCompleted:     {},
	StateFailedSyntax:  {},
	StateFailedRuntime: {},
	StateAborted:       {},
}

// Machine is the subset of the fsm used to track a run.
type Machine interface {
	// Transition attempts to transition the state machine to the specified state.
	Transition(state string) error

	// TransitionBool attempts to transition the state machine to the specified state.
	TransitionBool(state string) bool

	// GetState returns the current state of the state machine.
	GetState() string

	// GetStateChan returns a channel that emits the state machine's state whenever it changes.
	// The channel is closed when the provided context is canceled.
	GetStateChan(ctx context.Context) <-chan string
}

// NewRunMachine creates a state machine starting in StateCreated.
func NewRunMachine(handler slog.Handler) (Machine, error) {
	return fsm.New(handler, StateCreated, RunTransitions)
}

// IsTerminal reports whether no further transitions are possible from state.
func IsTerminal(state string) bool {
	switch state {
	case StateCompleted, StateFailedSyntax, StateFailedRuntime, StateAborted:
		return true
	default:
		return false
	}
}
