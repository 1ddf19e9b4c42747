package config

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/atlanticdynamic/scribe/internal/config/errz"
	"github.com/atlanticdynamic/scribe/internal/fancy"
	"github.com/charmbracelet/lipgloss/tree"
)

const (
	DefaultExtensionsDir = "${SCRIBE_EXTENSIONS:extensions}"
	DefaultExtensionGlob = "*.star"
)

// Environment configures the script environment and its preloaded extensions.
type Environment struct {
	ExtensionsDir    string   `toml:"extensions_dir" env_interpolation:"yes"`
	ExtensionGlob    string   `toml:"extension_glob"`
	Extensions       []string `toml:"extensions" env_interpolation:"yes"`
	PerformanceStats bool     `toml:"performance_stats"`
	MaxSteps         uint64   `toml:"max_steps"`
}

// Validate checks the environment section.
func (e *Environment) Validate() error {
	var errs []error
	if e.ExtensionGlob == "" {
		errs = append(errs, fmt.Errorf("%w: extension_glob", errz.ErrMissingRequiredField))
	} else if _, err := filepath.Match(e.ExtensionGlob, ""); err != nil {
		errs = append(errs, fmt.Errorf("%w: %q: %w", errz.ErrInvalidPattern, e.ExtensionGlob, err))
	}
	for i, uri := range e.Extensions {
		if uri == "" {
			errs = append(errs, fmt.Errorf("%w: extensions[%d] is empty", errz.ErrInvalidPath, i))
		}
	}
	return errors.Join(errs...)
}

// ToTree returns a tree visualization of the environment section.
func (e *Environment) ToTree() *tree.Tree {
	t := fancy.BranchNode("Environment", "")
	t.Child(fancy.KeyValue("Extensions dir", e.ExtensionsDir))
	t.Child(fancy.KeyValue("Extension glob", e.ExtensionGlob))
	if len(e.Extensions) > 0 {
		ext := tree.New().Root(fmt.Sprintf("Extensions (%s)", fancy.CountText(fmt.Sprint(len(e.Extensions)))))
		for _, uri := range e.Extensions {
			ext.Child(fancy.PathText(uri))
		}
		t.Child(ext)
	}
	t.Child(fancy.KeyValue("Performance stats", fmt.Sprint(e.PerformanceStats)))
	maxSteps := "unlimited"
	if e.MaxSteps > 0 {
		maxSteps = fmt.Sprint(e.MaxSteps)
	}
	t.Child(fancy.KeyValue("Max steps", maxSteps))
	return t
}
