package loader

import (
	"errors"

	"github.com/atlanticdynamic/scribe/internal/config/errz"
)

var (
	ErrFailedToLoadConfig   = errz.ErrFailedToLoadConfig
	ErrUnsupportedConfigVer = errz.ErrUnsupportedConfigVer

	ErrNoSourceProvided     = errors.New("no source provided to loader")
	ErrUnsupportedExtension = errors.New("only .toml config files are supported")
	ErrParseToml            = errors.New("failed to parse TOML")
	ErrUnknownField         = errors.New("unknown config field")
	ErrInterpolation        = errors.New("failed to interpolate config")
)
