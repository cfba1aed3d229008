package store

import "errors"

// Common store errors used across all store implementations.
var (
	// ErrInvalidEntity is returned when an entity cannot be stored as given.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrWriteFailed is returned when the underlying storage rejects a write.
	ErrWriteFailed = errors.New("write failed")

	// ErrClosed is returned when writing to a store that has been closed.
	ErrClosed = errors.New("store is closed")
)
