package control

import "errors"

var (
	ErrNilSlot   = errors.New("slot cannot be nil")
	ErrEmptyCode = errors.New("code cannot be empty")
	ErrNoRun     = errors.New("no run has been started")
)
