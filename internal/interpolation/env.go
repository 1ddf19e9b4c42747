// Package interpolation expands ${VAR} and ${VAR:default} references in
// configuration values.
package interpolation

import (
	"errors"
	"fmt"
	"os"
	"regexp"
)

// ErrUndefinedVariable is returned for a ${VAR} reference with no default
// whose variable is not set.
var ErrUndefinedVariable = errors.New("environment variable not defined")

// Captures the name, whether a colon was present, and the default.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:)?([^}]*)\}`)

// LookupFunc resolves a variable name.
type LookupFunc func(name string) (string, bool)

// ExpandEnvVars expands references against the process environment.
func ExpandEnvVars(input string) (string, error) {
	return Expand(input, os.LookupEnv)
}

// Expand replaces every ${VAR} or ${VAR:default} in input using lookup. A set
// variable wins over its default, ${VAR:} defaults to the empty string, and a
// missing variable without a default is left in place and reported.
func Expand(input string, lookup LookupFunc) (string, error) {
	if input == "" {
		return "", nil
	}

	var missing []error
	result := envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		sub := envVarPattern.FindStringSubmatch(match)
		name, hasDefault, def := sub[1], sub[2] == ":", sub[3]

		if value, ok := lookup(name); ok {
			return value
		}
		if hasDefault {
			return def
		}
		missing = append(missing, fmt.Errorf("%w: %s", ErrUndefinedVariable, name))
		return match
	})
	return result, errors.Join(missing...)
}
