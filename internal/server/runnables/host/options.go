package host

import (
	"context"
	"log/slog"
	"time"

	"github.com/atlanticdynamic/scribe/internal/capabilities"
	"github.com/atlanticdynamic/scribe/internal/scripting/slot"
)

type Option func(*Runner)

// WithLogger sets a custom logger for the Runner instance.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithLogHandler sets a custom log handler for the Runner instance.
func WithLogHandler(handler slog.Handler) Option {
	return func(r *Runner) {
		r.logger = slog.New(handler)
	}
}

// WithContext sets a custom parent context for the Runner instance.
func WithContext(ctx context.Context) Option {
	return func(r *Runner) {
		r.parentCtx = ctx
	}
}

// WithCapabilities replaces the headless capability backends.
func WithCapabilities(set capabilities.Set) Option {
	return func(r *Runner) {
		r.capabilities = &set
	}
}

// WithUnhandledErrorHandler is passed through to the execution slot.
func WithUnhandledErrorHandler(fn func(run *slot.Run, err error)) Option {
	return func(r *Runner) {
		r.unhandled = fn
	}
}

// WithShutdownTimeout bounds how long Run waits for the last worker to exit.
func WithShutdownTimeout(d time.Duration) Option {
	return func(r *Runner) {
		r.shutdownTimeout = d
	}
}
