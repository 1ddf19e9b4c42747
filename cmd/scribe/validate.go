package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/atlanticdynamic/scribe/internal/config"
	"github.com/atlanticdynamic/scribe/internal/config/loader"
	"github.com/urfave/cli/v3"
)

var validateCmd = &cli.Command{
	Name:      "validate",
	Aliases:   []string{"lint"},
	Usage:     "Validate a configuration file",
	ArgsUsage: "[config file]",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    "tree",
			Aliases: []string{"t"},
			Usage:   "Show detailed tree view of the validated configuration",
		},
	},
	Suggest: true,
	Action:  validateAction,
}

func validateAction(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.Args().Get(0)
	if configPath == "" {
		configPath = cmd.String("config")
	}
	if configPath == "" {
		return fmt.Errorf(
			"config file path required (use the --config flag, or provide the config file as positional argument)",
		)
	}

	out, err := validateLocal(ctx, configPath, cmd.Bool("tree"))
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

// validateLocal loads and validates the file, returning the text to print.
func validateLocal(_ context.Context, configPath string, treeView bool) (string, error) {
	cfg, err := loader.LoadFile(configPath)
	if err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}

	var out strings.Builder
	fmt.Fprintf(&out, "Configuration file %s is valid\n", configPath)
	if treeView {
		out.WriteString(cfg.String())
		out.WriteString("\n")
		return out.String(), nil
	}
	out.WriteString(renderConfigSummary(configPath, cfg))
	out.WriteString("\n")
	return out.String(), nil
}

// renderConfigSummary creates a formatted summary string for the configuration
func renderConfigSummary(path string, cfg *config.Config) string {
	var summary strings.Builder

	control := "disabled"
	if cfg.Control.Enabled() {
		control = cfg.Control.Listen + cfg.Control.Path
	}

	summary.WriteString("\nConfig Summary:\n")
	summary.WriteString(fmt.Sprintf("- Path: %s\n", path))
	summary.WriteString(fmt.Sprintf("- Version: %s\n", cfg.Version))
	summary.WriteString(fmt.Sprintf("- Extensions dir: %s\n", cfg.Environment.ExtensionsDir))
	summary.WriteString(fmt.Sprintf("- Extension URIs: %d\n", len(cfg.Environment.Extensions)))
	summary.WriteString(fmt.Sprintf("- Control: %s\n", control))
	summary.WriteString("\nUse --tree for a more detailed view of the config.")

	return summary.String()
}
