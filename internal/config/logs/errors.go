package logs

import "errors"

var (
	ErrInvalidLogFormat = errors.New("invalid log format")
	ErrInvalidLogLevel  = errors.New("invalid log level")
	// ErrInvalidLogOutput is returned for outputs other than stdout, stderr or
	// a file path / file:// URI.
	ErrInvalidLogOutput = errors.New("invalid log output")
)
