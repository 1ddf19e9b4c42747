package slot

import "errors"

var (
	ErrNilEnvironment  = errors.New("environment is nil")
	ErrShutdownTimeout = errors.New("timed out waiting for runs to finish")
	ErrScriptPanic     = errors.New("script panicked")
)
