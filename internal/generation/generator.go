package generation

import "context"

// Generator defines the interface for generating flashcard content for a word.
// This interface serves as a boundary between the pipeline and external
// AI/LLM services, following the hexagonal architecture pattern.
type Generator interface {
	// GenerateCardJSON asks the model for the card of a single word and
	// returns the raw text content of the reply, expected to be a JSON
	// object. An empty string means the model replied without content.
	//
	// Request-level failures are retried by the implementation; the returned
	// error is final.
	GenerateCardJSON(ctx context.Context, word string) (string, error)
}
