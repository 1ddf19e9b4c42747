package environment

import (
	"log/slog"

	"github.com/atlanticdynamic/scribe/internal/capabilities"
)

type Option func(*Environment)

// WithLogger sets a custom logger for the Environment.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Environment) {
		e.logger = logger
	}
}

// WithLogHandler sets a custom log handler for the Environment.
func WithLogHandler(handler slog.Handler) Option {
	return func(e *Environment) {
		e.logger = slog.New(handler)
	}
}

// WithCapabilities replaces the default headless capability backends.
func WithCapabilities(set capabilities.Set) Option {
	return func(e *Environment) {
		e.capabilities = &set
	}
}

// WithPerformanceStats toggles the per-run performance log.
func WithPerformanceStats(enabled bool) Option {
	return func(e *Environment) {
		e.perf.SetEnabled(enabled)
	}
}

// WithMaxSteps caps the interpreter steps of a single run. Zero means no limit.
func WithMaxSteps(steps uint64) Option {
	return func(e *Environment) {
		e.maxSteps = steps
	}
}
