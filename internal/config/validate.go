package config

import (
	"errors"
	"fmt"

	"github.com/atlanticdynamic/scribe/internal/config/errz"
)

// Validate performs comprehensive validation of the configuration
func (c *Config) Validate() error {
	if c.Version != VersionLatest {
		return fmt.Errorf("%w: %q", errz.ErrUnsupportedConfigVer, c.Version)
	}

	var errs []error
	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("logging: %w", err))
	}
	if err := c.Environment.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("environment: %w", err))
	}
	if err := c.Console.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("console: %w", err))
	}
	if err := c.Control.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("control: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", errz.ErrFailedToValidateConfig, errors.Join(errs...))
	}
	return nil
}
