package loader

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/atlanticdynamic/scribe/internal/config"
	"github.com/atlanticdynamic/scribe/internal/interpolation"
	gotoml "github.com/pelletier/go-toml/v2"
)

// TomlLoader implements Loader for TOML sources.
//
// Loading happens in steps: the version is checked first, the document is
// decoded strictly on top of the defaults so absent keys keep their default
// and unknown keys are rejected, tagged fields are interpolated from the
// environment, and the result is validated.
type TomlLoader struct {
	source []byte
}

// NewTomlLoader creates a new TOML configuration loader
func NewTomlLoader(source []byte) *TomlLoader {
	return &TomlLoader{source: source}
}

// Load parses and validates the TOML source.
func (l *TomlLoader) Load() (*config.Config, error) {
	if len(l.source) == 0 {
		return nil, ErrNoSourceProvided
	}

	var versionCheck struct {
		Version string `toml:"version"`
	}
	if err := gotoml.Unmarshal(l.source, &versionCheck); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseToml, err)
	}
	if versionCheck.Version == "" {
		versionCheck.Version = config.VersionLatest
	}
	if versionCheck.Version != config.VersionLatest {
		return nil, fmt.Errorf("version %s is not supported: %w", versionCheck.Version, ErrUnsupportedConfigVer)
	}

	cfg := config.NewDefault()
	dec := gotoml.NewDecoder(bytes.NewReader(l.source))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var strictErr *gotoml.StrictMissingError
		if errors.As(err, &strictErr) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownField, strictErr.String())
		}
		return nil, fmt.Errorf("%w: %w", ErrParseToml, err)
	}
	cfg.Version = versionCheck.Version

	if err := interpolation.InterpolateStruct(cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInterpolation, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
