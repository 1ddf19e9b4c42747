package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/atlanticdynamic/scribe/internal/config"
	"github.com/atlanticdynamic/scribe/internal/config/loader"
	"github.com/atlanticdynamic/scribe/internal/config/logs"
	"github.com/atlanticdynamic/scribe/internal/logging"
	"github.com/atlanticdynamic/scribe/internal/logging/writers"
	"github.com/urfave/cli/v3"
)

// loadConfig reads the file named by --config, or the defaults when the flag
// is empty.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	path := cmd.String("config")
	if path == "" {
		return loader.Default()
	}
	cfg, err := loader.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// SetupLogger configures the default logger from the logging section of cfg.
// Non-empty level and format arguments take precedence over the file. The
// returned Closer releases the log output.
func SetupLogger(cfg *config.Config, level, format string) (*slog.Logger, io.Closer, error) {
	lvl, err := logs.LevelFromString(level)
	if err != nil {
		return nil, nil, err
	}
	if lvl == logs.LevelUnspecified {
		lvl = cfg.Logging.Level
	}
	f, err := logs.FormatFromString(format)
	if err != nil {
		return nil, nil, err
	}
	if f == logs.FormatUnspecified {
		f = cfg.Logging.Format
	}

	out, err := writers.Open(cfg.Logging.Output)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log output: %w", err)
	}
	return logging.SetupLogger(f.String(), lvl.String(), out), out, nil
}

// setup loads the config and installs the logger for a command action.
func setup(cmd *cli.Command) (*config.Config, *slog.Logger, io.Closer, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	logger, closer, err := SetupLogger(cfg, cmd.String("log-level"), cmd.String("log-format"))
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, logger, closer, nil
}
