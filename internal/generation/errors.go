package generation

import "errors"

// Common errors returned by the generation package
var (
	// ErrGenerationFailed is returned when card generation fails for any general reason
	ErrGenerationFailed = errors.New("failed to generate card")

	// ErrInvalidResponse is returned when the LLM response cannot be decoded or is malformed
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the LLM blocks the content due to safety filters
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrRetriesExhausted is returned when every attempt allowed by the retry policy failed
	ErrRetriesExhausted = errors.New("retry attempts exhausted")

	// ErrInvalidConfig is returned when the generator configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")

	// ErrEmptyWord is returned when a prompt is requested for an empty word
	ErrEmptyWord = errors.New("word cannot be empty")
)
