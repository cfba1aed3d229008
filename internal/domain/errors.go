package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrEmptyContent is returned when required content is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrInvalidCardContent is returned when card content is not a JSON
	// object made of the known string fields.
	ErrInvalidCardContent = errors.New("invalid card content")
)
