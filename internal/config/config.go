// Package config holds the scribe configuration domain model.
package config

import (
	"github.com/atlanticdynamic/scribe/internal/config/logs"
)

// VersionLatest is the only config file version understood.
const VersionLatest = "v1"

// Config is the whole scribe configuration.
type Config struct {
	Version     string      `toml:"version"`
	Logging     logs.Config `toml:"logging"`
	Environment Environment `toml:"environment"`
	Console     Console     `toml:"console"`
	Control     Control     `toml:"control"`
}

// NewDefault returns a Config where every section holds its defaults. Files
// are decoded on top of it, so absent keys keep these values.
func NewDefault() *Config {
	return &Config{
		Version: VersionLatest,
		Logging: logs.Config{}.WithDefaults(),
		Environment: Environment{
			ExtensionsDir:    DefaultExtensionsDir,
			ExtensionGlob:    DefaultExtensionGlob,
			PerformanceStats: true,
		},
		Console: Console{
			Color:  true,
			Prompt: DefaultPrompt,
		},
		Control: Control{
			Path: DefaultControlPath,
		},
	}
}
