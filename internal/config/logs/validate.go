package logs

import (
	"errors"
	"fmt"
	"strings"
)

// Validate reports every unusable field of the logging section at once.
func (lc *Config) Validate() error {
	var errs []error
	if !lc.Format.IsValid() {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidLogFormat, lc.Format))
	}
	if !lc.Level.IsValid() {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidLogLevel, lc.Level))
	}
	if err := validateOutput(lc.Output); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func validateOutput(output string) error {
	switch {
	case output == "", output == "stdout", output == "stderr":
		return nil
	case strings.HasPrefix(output, "file://"):
		if strings.TrimPrefix(output, "file://") == "" {
			return fmt.Errorf("%w: %q has no path", ErrInvalidLogOutput, output)
		}
		return nil
	case strings.Contains(output, "://"):
		return fmt.Errorf("%w: %q: only file:// URIs are supported", ErrInvalidLogOutput, output)
	}
	return nil
}
