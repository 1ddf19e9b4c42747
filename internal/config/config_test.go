package config

import (
	"testing"

	"github.com/atlanticdynamic/scribe/internal/config/errz"
	"github.com/atlanticdynamic/scribe/internal/config/logs"
	"github.com/stretchr/testify/assert"
)

func TestNewDefault(t *testing.T) {
	t.Parallel()

	cfg := NewDefault()
	assert.Equal(t, VersionLatest, cfg.Version)
	assert.Equal(t, DefaultExtensionsDir, cfg.Environment.ExtensionsDir)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr []error
	}{
		{
			name:    "unsupported version",
			mutate:  func(c *Config) { c.Version = "v0" },
			wantErr: []error{errz.ErrUnsupportedConfigVer},
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: []error{errz.ErrFailedToValidateConfig, logs.ErrInvalidLogFormat},
		},
		{
			name:    "empty glob",
			mutate:  func(c *Config) { c.Environment.ExtensionGlob = "" },
			wantErr: []error{errz.ErrMissingRequiredField},
		},
		{
			name:    "malformed glob",
			mutate:  func(c *Config) { c.Environment.ExtensionGlob = "[" },
			wantErr: []error{errz.ErrInvalidPattern},
		},
		{
			name:    "empty extension uri",
			mutate:  func(c *Config) { c.Environment.Extensions = []string{""} },
			wantErr: []error{errz.ErrInvalidPath},
		},
		{
			name: "control without port and relative path",
			mutate: func(c *Config) {
				c.Control.Listen = "localhost"
				c.Control.Path = "mcp"
			},
			wantErr: []error{errz.ErrInvalidAddress, errz.ErrInvalidPath},
		},
		{
			name: "control disabled ignores path",
			mutate: func(c *Config) {
				c.Control.Listen = ""
				c.Control.Path = ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := NewDefault()
			tt.mutate(cfg)
			err := cfg.Validate()
			if len(tt.wantErr) == 0 {
				assert.NoError(t, err)
				return
			}
			for _, want := range tt.wantErr {
				assert.ErrorIs(t, err, want)
			}
		})
	}
}

func TestConfigTree(t *testing.T) {
	t.Parallel()

	cfg := NewDefault()
	cfg.Environment.Extensions = []string{"https://example.com/a.star"}
	cfg.Control.Listen = "localhost:8765"

	out := cfg.String()
	for _, want := range []string{"Scribe Config (v1)", "Logging", "Environment", "Console", "Control", "a.star", "localhost:8765", "unlimited"} {
		assert.Contains(t, out, want)
	}

	cfg.Control.Listen = ""
	assert.Contains(t, cfg.String(), "disabled")
}
