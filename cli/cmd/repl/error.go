package repl

import "errors"

// Sentinel errors.
var (
	ErrOutOfBounds  = errors.New("index out of range")
	ErrUsage        = errors.New("invalid command usage")
	ErrNotSet       = errors.New("loaded value is not an attribute set")
	ErrEditDeclined = errors.New("decline edit")
)
