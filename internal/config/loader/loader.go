// Package loader reads configuration files into the config domain model.
package loader

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/atlanticdynamic/scribe/internal/config"
	"github.com/atlanticdynamic/scribe/internal/interpolation"
)

// Loader turns a source into a validated Config.
type Loader interface {
	Load() (*config.Config, error)
}

// NewLoaderFromBytes creates a TOML Loader for data.
func NewLoaderFromBytes(data []byte) (Loader, error) {
	if len(data) == 0 {
		return nil, ErrNoSourceProvided
	}
	return NewTomlLoader(data), nil
}

// NewLoaderFromReader creates a TOML Loader from everything reader yields.
func NewLoaderFromReader(reader io.Reader) (Loader, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read config data from reader: %w", err)
	}
	return NewLoaderFromBytes(data)
}

// NewLoaderFromFilePath creates a Loader based on the file extension.
func NewLoaderFromFilePath(filePath string) (Loader, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: config file does not exist: %s", ErrFailedToLoadConfig, filePath)
	}

	ext := filepath.Ext(filePath)
	if ext != ".toml" {
		return nil, fmt.Errorf("%w: '%s'", ErrUnsupportedExtension, ext)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read config file '%s': %w", ErrFailedToLoadConfig, filePath, err)
	}
	return NewLoaderFromBytes(data)
}

// LoadFile loads and validates the config at path.
func LoadFile(path string) (*config.Config, error) {
	l, err := NewLoaderFromFilePath(path)
	if err != nil {
		return nil, err
	}
	return l.Load()
}

// Default returns the interpolated and validated default config, used when no
// file is given.
func Default() (*config.Config, error) {
	cfg := config.NewDefault()
	if err := interpolation.InterpolateStruct(cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInterpolation, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
