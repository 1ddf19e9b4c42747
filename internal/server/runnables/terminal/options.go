package terminal

import (
	"context"
	"io"
	"log/slog"
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

// WithPrompt prints prompt to out before each line is read.
func WithPrompt(out io.Writer, prompt string) Option {
	return func(r *Runner) {
		r.promptOut = out
		r.prompt = prompt
	}
}

// WithEcho echoes console input lines to the sink.
func WithEcho(enabled bool) Option {
	return func(r *Runner) {
		r.echo = enabled
	}
}

// WithEOFHandler is called once, on its own goroutine, when the input ends.
func WithEOFHandler(fn func()) Option {
	return func(r *Runner) {
		r.onEOF = fn
	}
}

// WithScriptReader replaces how :run resolves a file or URL to code.
func WithScriptReader(fn func(uri string) (string, error)) Option {
	return func(r *Runner) {
		r.readScript = fn
	}
}
