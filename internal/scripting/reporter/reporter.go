// Package reporter classifies script failures and writes them to the console.
package reporter

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/atlanticdynamic/scribe/internal/console"
	"go.starlark.net/resolve"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Kind is the failure taxonomy of the execution core.
type Kind int

const (
	// KindUnclassified is any failure outside the taxonomy.
	KindUnclassified Kind = iota
	// KindSyntax means the code was rejected before execution began.
	KindSyntax
	// KindRuntime means execution started and failed.
	KindRuntime
)

func (k Kind) String() string {
	switch k {
	case KindSyntax:
		return "Syntax Error"
	case KindRuntime:
		return "Runtime Error"
	default:
		return "Unclassified Error"
	}
}

// Classify maps an execution error to its Kind. A nil error is unclassified.
func Classify(err error) Kind {
	if err == nil {
		return KindUnclassified
	}

	var scanErr syntax.Error
	if errors.As(err, &scanErr) {
		return KindSyntax
	}
	var resolveErrs resolve.ErrorList
	if errors.As(err, &resolveErrs) {
		return KindSyntax
	}
	var evalErr *starlark.EvalError
	if errors.As(err, &evalErr) {
		return KindRuntime
	}
	return KindUnclassified
}

// Reporter writes classified failures to a sink.
type Reporter struct {
	sink   console.Sink
	logger *slog.Logger
}

// New creates a Reporter writing to sink.
func New(sink console.Sink, logger *slog.Logger) *Reporter {
	if sink == nil {
		sink = console.Discard
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Reporter{
		sink:   sink,
		logger: logger.WithGroup("reporter"),
	}
}

// WithSink returns a Reporter sharing the logger but writing to sink.
func (r *Reporter) WithSink(sink console.Sink) *Reporter {
	return &Reporter{sink: sink, logger: r.logger}
}

// Report writes err to the sink when it belongs to the taxonomy and returns
// true. Unclassified errors are left to the caller and false is returned.
func (r *Reporter) Report(err error) bool {
	kind := Classify(err)
	if kind == KindUnclassified {
		return false
	}

	r.sink.WriteLine(console.SeverityError, Format(kind, err))

	var evalErr *starlark.EvalError
	if errors.As(err, &evalErr) {
		r.logger.Debug("Script failed", "kind", kind, "backtrace", evalErr.Backtrace())
	} else {
		r.logger.Debug("Script rejected", "kind", kind, "error", err)
	}
	return true
}

// Format renders err the way it appears on the console.
func Format(kind Kind, err error) string {
	return fmt.Sprintf("%s: %s", kind, Message(err))
}

// Message extracts the human readable part of an execution error.
func Message(err error) string {
	var evalErr *starlark.EvalError
	if errors.As(err, &evalErr) {
		return evalErr.Msg
	}
	return err.Error()
}
