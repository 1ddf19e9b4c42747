package listener

import "errors"

var (
	ErrEmptyAddress = errors.New("listen address cannot be empty")
	ErrNilHandler   = errors.New("handler cannot be nil")
)
