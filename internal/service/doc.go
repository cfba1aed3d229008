// Package service contains the application use case: turning a word list
// into flashcards. It orchestrates the generation port (internal/generation)
// and the output ports (internal/store) without knowing which model provider
// or file format sits behind them.
//
// Key components:
//
// 1. CardPipeline:
//   - Processes words strictly in order, one at a time
//   - Logs every fetched response before parsing it
//   - Writes a card only after it parsed completely
//
// 2. Error Handling:
//   - Per-word failures are wrapped in PipelineError, logged and skipped
//   - Only context cancellation stops a run early
//
// Services receive their dependencies through constructor injection.
package service
