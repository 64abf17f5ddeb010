package storage

import "errors"

// Common client storage errors
var (
	// ErrAuthNotFound indicates that no authentication data exists
	ErrAuthNotFound = errors.New("authentication data not found")

	// ErrHistoryNotFound indicates that the room has no cached history
	ErrHistoryNotFound = errors.New("cached history not found")
)
