// Package capabilities defines the host automation surface scripts see as
// globals, one typed interface per domain, and turns each into a Starlark
// module.
package capabilities

import (
	"context"
	"errors"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
)

// Global names of the fixed binding set.
const (
	NameCore      = "core"
	NameInput     = "input"
	NameInterface = "interface"
	NameScreen    = "screen"
	NameWebDriver = "webdriver"
	NameAudio     = "audio"
)

// ErrMissingCapability is returned when a Set has a nil backend.
var ErrMissingCapability = errors.New("missing capability backend")

// Input synthesizes keyboard and mouse events.
type Input interface {
	KeyPress(ctx context.Context, key string) error
	TypeText(ctx context.Context, text string) error
	MouseMove(ctx context.Context, x, y int) error
	Click(ctx context.Context, button string) error
}

// Screen reads the display.
type Screen interface {
	Size(ctx context.Context) (width, height int, err error)
	Capture(ctx context.Context, path string) error
}

// Audio plays sounds.
type Audio interface {
	Play(ctx context.Context, path string) error
	SetVolume(ctx context.Context, volume float64) error
}

// WebDriver drives a browser session.
type WebDriver interface {
	Navigate(ctx context.Context, url string) error
	CurrentURL(ctx context.Context) (string, error)
	Close(ctx context.Context) error
}

// Interface talks to the host application's own UI.
type Interface interface {
	Notify(ctx context.Context, title, message string) error
	SetStatus(ctx context.Context, text string) error
}

// Set is the fixed collection of backends registered at startup.
type Set struct {
	Input     Input
	Screen    Screen
	Audio     Audio
	WebDriver WebDriver
	Interface Interface
}

// Validate checks that every backend is present.
func (s Set) Validate() error {
	var errs []error
	if s.Input == nil {
		errs = append(errs, errors.Join(ErrMissingCapability, errors.New(NameInput)))
	}
	if s.Screen == nil {
		errs = append(errs, errors.Join(ErrMissingCapability, errors.New(NameScreen)))
	}
	if s.Audio == nil {
		errs = append(errs, errors.Join(ErrMissingCapability, errors.New(NameAudio)))
	}
	if s.WebDriver == nil {
		errs = append(errs, errors.Join(ErrMissingCapability, errors.New(NameWebDriver)))
	}
	if s.Interface == nil {
		errs = append(errs, errors.Join(ErrMissingCapability, errors.New(NameInterface)))
	}
	return errors.Join(errs...)
}

// Modules builds the Starlark module for every binding, core included, in
// registration order.
func (s Set) Modules() []*starlarkstruct.Module {
	return []*starlarkstruct.Module{
		CoreModule(),
		InputModule(s.Input),
		InterfaceModule(s.Interface),
		ScreenModule(s.Screen),
		WebDriverModule(s.WebDriver),
		AudioModule(s.Audio),
	}
}

type blockingFunc func(
	ctx context.Context,
	thread *starlark.Thread,
	b *starlark.Builtin,
	args starlark.Tuple,
	kwargs []starlark.Tuple,
) (starlark.Value, error)

// blocking wraps a backend call so the run reads as waiting for its duration.
func blocking(module, name string, fn blockingFunc) *starlark.Builtin {
	return starlark.NewBuiltin(module+"."+name, func(
		thread *starlark.Thread,
		b *starlark.Builtin,
		args starlark.Tuple,
		kwargs []starlark.Tuple,
	) (starlark.Value, error) {
		run := RunFromThread(thread)
		end := run.BeginWait()
		defer end()
		return fn(run.Context(), thread, b, args, kwargs)
	})
}
