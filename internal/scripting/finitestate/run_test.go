package finitestate

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRunMachine(t *testing.T) {
	t.Parallel()

	m, err := NewRunMachine(slog.Default().Handler())
	require.NoError(t, err)
	assert.Equal(t, StateCreated, m.GetState())
}

func TestRunTransitions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		path  []string
		final string
	}{
		{"completed", []string{StateRunning, StateCompleted}, StateCompleted},
		{"syntax failure", []string{StateRunning, StateFailedSyntax}, StateFailedSyntax},
		{"runtime failure", []string{StateRunning, StateFailedRuntime}, StateFailedRuntime},
		{"aborted while running", []string{StateRunning, StateAborted}, StateAborted},
		{"aborted before start", []string{StateAborted}, StateAborted},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m, err := NewRunMachine(slog.Default().Handler())
			require.NoError(t, err)
			for _, state := range tc.path {
				require.NoError(t, m.Transition(state))
			}
			assert.Equal(t, tc.final, m.GetState())
			assert.True(t, IsTerminal(m.GetState()))
		})
	}
}

func TestTerminalStatesAreFinal(t *testing.T) {
	t.Parallel()

	m, err := NewRunMachine(slog.Default().Handler())
	require.NoError(t, err)
	require.NoError(t, m.Transition(StateRunning))
	require.NoError(t, m.Transition(StateCompleted))

	assert.Error(t, m.Transition(StateAborted))
	assert.False(t, m.TransitionBool(StateRunning))
	assert.Equal(t, StateCompleted, m.GetState())
}

func TestIsTerminal(t *testing.T) {
	t.Parallel()

	assert.False(t, IsTerminal(StateCreated))
	assert.False(t, IsTerminal(StateRunning))
	assert.False(t, IsTerminal("unknown"))
}
