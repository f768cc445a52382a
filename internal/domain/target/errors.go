package target

import "errors"

// Sentinel kinds for target errors.
var (
	ErrNotReady   = errors.New("target not set yet")
	ErrAlreadySet = errors.New("target already set")
)
