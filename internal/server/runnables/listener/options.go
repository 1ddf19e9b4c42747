package listener

import (
	"log/slog"
	"time"
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

// WithTimeouts overrides the HTTP server timeouts. Zero values keep the
// server defaults.
func WithTimeouts(timeouts Timeouts) Option {
	return func(r *Runner) {
		r.timeouts = timeouts
	}
}

// Timeouts contains timeout configuration for the HTTP server
type Timeouts struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	DrainTimeout time.Duration
}
