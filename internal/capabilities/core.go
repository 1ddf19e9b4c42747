package capabilities

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/atlanticdynamic/scribe/internal/console"
	"github.com/charmbracelet/lipgloss"
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
)

// ErrInterrupted is returned by blocking core builtins when the run is aborted.
var ErrInterrupted = errors.New("interrupted")

const inputPollInterval = 25 * time.Millisecond

// CoreModule is the "core" global: console output, sleeping and the console
// input queue.
func CoreModule() *starlarkstruct.Module {
	return &starlarkstruct.Module{
		Name: NameCore,
		Members: starlark.StringDict{
			"write":                 starlark.NewBuiltin("core.write", coreWrite),
			"write_line":            starlark.NewBuiltin("core.write_line", coreWriteLine),
			"sleep":                 starlark.NewBuiltin("core.sleep", coreSleep),
			"wait_input":            starlark.NewBuiltin("core.wait_input", coreWaitInput),
			"process_console_input": starlark.NewBuiltin("core.process_console_input", coreProcessConsoleInput),
			"console_input_pending": starlark.NewBuiltin("core.console_input_pending", coreConsoleInputPending),
		},
	}
}

func coreWrite(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	sep := " "
	if err := starlark.UnpackArgs(b.Name(), nil, kwargs, "sep?", &sep); err != nil {
		return nil, err
	}
	parts := make([]string, len(args))
	for i, arg := range args {
		if s, ok := starlark.AsString(arg); ok {
			parts[i] = s
		} else {
			parts[i] = arg.String()
		}
	}
	RunFromThread(thread).Sink().WriteLine(console.SeverityPlain, strings.Join(parts, sep))
	return starlark.None, nil
}

func coreWriteLine(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var text starlark.Value
	var color string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "text", &text, "color?", &color); err != nil {
		return nil, err
	}
	s, ok := starlark.AsString(text)
	if !ok {
		s = text.String()
	}

	sink := RunFromThread(thread).Sink()
	if color == "" {
		sink.WriteLine(console.SeverityPlain, s)
	} else {
		sink.WriteColored(lipgloss.Color(color), s)
	}
	return starlark.None, nil
}

func coreSleep(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var seconds starlark.Value
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "seconds", &seconds); err != nil {
		return nil, err
	}
	d, err := toDuration(b, seconds)
	if err != nil {
		return nil, err
	}

	run := RunFromThread(thread)
	end := run.BeginWait()
	defer end()

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return starlark.None, nil
	case <-run.Context().Done():
		return nil, fmt.Errorf("%s: %w", b.Name(), ErrInterrupted)
	}
}

// coreWaitInput blocks until the console queue has a line, the optional
// timeout elapses or the run is aborted. It returns whether input is pending.
func coreWaitInput(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var timeout starlark.Value = starlark.None
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "timeout?", &timeout); err != nil {
		return nil, err
	}

	run := RunFromThread(thread)
	var deadline <-chan time.Time
	if timeout != starlark.None {
		d, err := toDuration(b, timeout)
		if err != nil {
			return nil, err
		}
		timer := time.NewTimer(d)
		defer timer.Stop()
		deadline = timer.C
	}

	if run.PendingInput() > 0 {
		return starlark.True, nil
	}

	end := run.BeginWait()
	defer end()

	ticker := time.NewTicker(inputPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if run.PendingInput() > 0 {
				return starlark.True, nil
			}
		case <-deadline:
			return starlark.False, nil
		case <-run.Context().Done():
			return nil, fmt.Errorf("%s: %w", b.Name(), ErrInterrupted)
		}
	}
}

func coreProcessConsoleInput(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
		return nil, err
	}
	n, err := RunFromThread(thread).DrainInput(thread)
	if err != nil {
		return nil, err
	}
	return starlark.MakeInt(n), nil
}

func coreConsoleInputPending(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
		return nil, err
	}
	return starlark.MakeInt(RunFromThread(thread).PendingInput()), nil
}

// toDuration converts a number of seconds to a duration. Durations past the
// range of time.Duration are clamped to the maximum.
func toDuration(b *starlark.Builtin, v starlark.Value) (time.Duration, error) {
	f, ok := starlark.AsFloat(v)
	switch {
	case !ok:
		return 0, errNotNumber(b, v)
	case math.IsNaN(f):
		return 0, fmt.Errorf("%s: duration is NaN", b.Name())
	case f < 0:
		return 0, fmt.Errorf("%s: negative duration", b.Name())
	}
	ns := f * float64(time.Second)
	if ns >= math.MaxInt64 {
		return time.Duration(math.MaxInt64), nil
	}
	return time.Duration(ns), nil
}

func errNotNumber(b *starlark.Builtin, v starlark.Value) error {
	return fmt.Errorf("%s: got %s, want number", b.Name(), v.Type())
}
