package terminal

import "errors"

var (
	ErrNilController  = errors.New("controller cannot be nil")
	ErrNilInput       = errors.New("input reader cannot be nil")
	ErrUnknownCommand = errors.New("unknown command")
	ErrMissingArg     = errors.New("missing argument")
)
