package extensions

import "errors"

var (
	ErrDirectory  = errors.New("invalid extensions directory")
	ErrBadPattern = errors.New("invalid extension glob")
	ErrRead       = errors.New("failed to read extension")
	ErrPreload    = errors.New("failed to preload extension")
)
