package logs

import (
	"fmt"

	"github.com/atlanticdynamic/scribe/internal/fancy"
	"github.com/charmbracelet/lipgloss/tree"
)

func (lc *Config) String() string {
	return fmt.Sprintf("%s/%s -> %s", lc.Format, lc.Level, lc.Output)
}

// ToTree renders the logging section for `scribe validate --tree`.
func (lc *Config) ToTree() *tree.Tree {
	t := fancy.BranchNode("Logging", lc.Level.String())
	t.Child(fancy.KeyValue("Format", lc.Format.String()))
	t.Child(fancy.KeyValue("Output", lc.Output))
	return t
}
