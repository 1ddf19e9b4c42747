// Package errz holds the sentinel errors shared by the config package, its
// sections and the loader.
package errz

import "errors"

var (
	ErrFailedToLoadConfig     = errors.New("failed to load config")
	ErrFailedToValidateConfig = errors.New("failed to validate config")
	ErrUnsupportedConfigVer   = errors.New("unsupported config version")
)

// Section validation errors. Callers wrap them with the offending value.
var (
	ErrMissingRequiredField = errors.New("missing required field")
	ErrInvalidAddress       = errors.New("invalid listen address")
	ErrInvalidPath          = errors.New("invalid path")
	ErrInvalidPattern       = errors.New("invalid glob pattern")
)
