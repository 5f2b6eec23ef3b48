package engine

import "errors"

// Acquisition failures. The messages double as user-facing reasons.
var (
	ErrInvalidAction         = errors.New("Invalid action")
	ErrRunNotActive          = errors.New("Run not active")
	ErrInvalidStackCount     = errors.New("Invalid stack count")
	ErrPreAcquireCheckFailed = errors.New("Pre-acquire check failed")
	ErrAlreadyAtMax          = errors.New("Already at max stacks")
)
