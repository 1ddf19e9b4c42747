// Package finitestate tracks the lifecycle of the long-running scribe
// components (script host, console reader, control server).
package finitestate

import (
	"context"
	"log/slog"

	"github.com/robbyt/go-fsm"
)

const (
	StatusNew      = fsm.StatusNew
	StatusBooting  = fsm.StatusBooting
	StatusRunning  = fsm.StatusRunning
	StatusStopping = fsm.StatusStopping
	StatusStopped  = fsm.StatusStopped
	StatusError    = fsm.StatusError
	StatusUnknown  = fsm.StatusUnknown
)

// TypicalTransitions is the new → booting → running → stopping → stopped
// lifecycle, with error reachable from every state.
var TypicalTransitions = fsm.TypicalTransitions

// Machine is the subset of the fsm used by the runnables.
type Machine interface {
	// Transition moves to state, failing when the transition is not allowed.
	Transition(state string) error

	// TransitionBool is Transition reporting success as a bool.
	TransitionBool(state string) bool

	// TransitionIfCurrentState transitions only when the machine is in currentState.
	TransitionIfCurrentState(currentState, newState string) error

	// SetState forces the state without checking transitions.
	SetState(state string) error

	// GetState returns the current state.
	GetState() string

	// GetStateChan emits every state change until ctx is canceled.
	GetStateChan(ctx context.Context) <-chan string
}

// New creates a lifecycle machine starting in StatusNew.
func New(handler slog.Handler) (Machine, error) {
	return fsm.New(handler, StatusNew, TypicalTransitions)
}
