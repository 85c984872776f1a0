package storage

import "errors"

// ErrNotFound is returned when an activity does not exist.
var ErrNotFound = errors.New("activity not found")
