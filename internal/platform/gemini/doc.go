// Package gemini provides an implementation of the generation.Generator interface
// that uses Google's Gemini API for generating flashcard JSON from a word.
//
// This package is an infrastructure adapter in the hexagonal architecture,
// connecting the card pipeline to Google's external Gemini service without
// exposing the details of the external service to the core application.
//
// Key components:
//
// 1. Generator:
//   - Implements the generation.Generator interface
//   - Requests a JSON response via the response MIME type
//   - Returns the model text unparsed; parsing belongs to the domain
//
// 2. Error Handling:
//   - Retries failed requests through generation.RetryPolicy
//   - Maps safety blocks to generation.ErrContentBlocked, which is not retried
//
// The package depends on the google.golang.org/genai client library.
package gemini
