package config

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/atlanticdynamic/scribe/internal/config/errz"
	"github.com/atlanticdynamic/scribe/internal/fancy"
	"github.com/charmbracelet/lipgloss/tree"
)

// DefaultControlPath is where the MCP endpoint is mounted.
const DefaultControlPath = "/mcp"

// Control configures the remote control endpoint. It is disabled when Listen
// is empty.
type Control struct {
	Listen string `toml:"listen" env_interpolation:"yes"`
	Path   string `toml:"path"`
}

// Enabled reports whether the control endpoint should be served.
func (c *Control) Enabled() bool {
	return c.Listen != ""
}

// Validate checks the control section.
func (c *Control) Validate() error {
	if !c.Enabled() {
		return nil
	}
	var errs []error
	if _, _, err := net.SplitHostPort(c.Listen); err != nil {
		errs = append(errs, fmt.Errorf("%w: %q: %w", errz.ErrInvalidAddress, c.Listen, err))
	}
	if !strings.HasPrefix(c.Path, "/") {
		errs = append(errs, fmt.Errorf("%w: %q must start with /", errz.ErrInvalidPath, c.Path))
	}
	return errors.Join(errs...)
}

// ToTree returns a tree visualization of the control section.
func (c *Control) ToTree() *tree.Tree {
	if !c.Enabled() {
		return fancy.BranchNode("Control", "disabled")
	}
	t := fancy.BranchNode("Control", "MCP")
	t.Child(fancy.KeyValue("Listen", c.Listen))
	t.Child(fancy.KeyValue("Path", c.Path))
	return t
}
