package config

import (
	"fmt"

	"github.com/atlanticdynamic/scribe/internal/fancy"
	"github.com/charmbracelet/lipgloss/tree"
)

// DefaultPrompt is printed before each interactive console line.
const DefaultPrompt = "> "

// Console configures the interactive console.
type Console struct {
	Echo   bool   `toml:"echo"`
	Color  bool   `toml:"color"`
	Prompt string `toml:"prompt"`
}

// Validate checks the console section. Every combination is accepted.
func (c *Console) Validate() error {
	return nil
}

// ToTree returns a tree visualization of the console section.
func (c *Console) ToTree() *tree.Tree {
	t := fancy.BranchNode("Console", "")
	t.Child(fancy.KeyValue("Echo", fmt.Sprint(c.Echo)))
	t.Child(fancy.KeyValue("Color", fmt.Sprint(c.Color)))
	t.Child(fancy.KeyValue("Prompt", fmt.Sprintf("%q", c.Prompt)))
	return t
}
