package config

import (
	"fmt"

	"github.com/atlanticdynamic/scribe/internal/fancy"
)

// String renders the config as a lipgloss tree, one branch per section.
func (c *Config) String() string {
	t := fancy.Tree()
	t.Root(fancy.RootStyle.Render(fmt.Sprintf("Scribe Config (%s)", c.Version)))
	t.Child(
		c.Logging.ToTree(),
		c.Environment.ToTree(),
		c.Console.ToTree(),
		c.Control.ToTree(),
	)
	return t.String()
}
