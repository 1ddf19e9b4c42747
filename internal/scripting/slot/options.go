package slot

import (
	"context"
	"log/slog"

	"github.com/atlanticdynamic/scribe/internal/console"
	"github.com/atlanticdynamic/scribe/internal/scripting/inputqueue"
)

type Option func(*Slot)

// WithLogger sets a custom logger for the Slot.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Slot) {
		s.logger = logger
	}
}

// WithLogHandler sets a custom log handler for the Slot.
func WithLogHandler(handler slog.Handler) Option {
	return func(s *Slot) {
		s.logger = slog.New(handler)
	}
}

// WithContext sets the parent context of every run.
func WithContext(ctx context.Context) Option {
	return func(s *Slot) {
		s.ctx = ctx
	}
}

// WithSink overrides the environment's sink for run output.
func WithSink(sink console.Sink) Option {
	return func(s *Slot) {
		s.sink = sink
	}
}

// WithQueue shares an existing console input queue.
func WithQueue(q *inputqueue.Queue) Option {
	return func(s *Slot) {
		s.queue = q
	}
}

// WithUnhandledErrorHandler replaces the default handler for failures outside
// the syntax/runtime taxonomy, which panics.
func WithUnhandledErrorHandler(fn func(run *Run, err error)) Option {
	return func(s *Slot) {
		s.unhandled = fn
	}
}
