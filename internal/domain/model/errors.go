package model

import "errors"

// ErrNotFound reports that a title did not resolve to any record.
var ErrNotFound = errors.New("not found")
