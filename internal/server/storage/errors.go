package storage

import "errors"

// Common storage errors
var (
	// ErrEventNotFound indicates that the referenced event id does not exist
	ErrEventNotFound = errors.New("event not found")
)
