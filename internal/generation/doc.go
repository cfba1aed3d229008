// Package generation provides interfaces and shared building blocks for
// interacting with external AI/LLM services for content generation. It
// abstracts the details of LLM API integration (OpenAI, Gemini), allowing the
// pipeline to generate flashcards for words without coupling to a specific
// provider.
//
// The package contains the Generator interface implemented by the platform
// adapters, the card prompt, and the retry policy every adapter applies to
// its requests.
package generation
