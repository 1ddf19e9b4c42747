package environment

import "errors"

var (
	ErrEmptyBindingName = errors.New("binding name is empty")
	ErrNilBinding       = errors.New("binding value is nil")
	ErrDuplicateBinding = errors.New("binding already registered")
	ErrBindingsSealed   = errors.New("bindings are sealed once a run has begun")
	ErrInvalidBindings  = errors.New("invalid capability set")
)
