package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Type identifies what happened to a word or to the run.
type Type string

// Event types emitted by the card pipeline.
const (
	WordStarted Type = "word_started"
	CardWritten Type = "card_written"
	WordSkipped Type = "word_skipped"
	RunFinished Type = "run_finished"
)

// PipelineEvent is a single progress notification.
type PipelineEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	Type Type `json:"type"`

	// Word is empty for RunFinished
	Word string `json:"word,omitempty"`

	// Reason explains a WordSkipped event
	Reason string `json:"reason,omitempty"`

	// Written and Skipped carry the run totals on RunFinished
	Written int `json:"written,omitempty"`
	Skipped int `json:"skipped,omitempty"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// NewPipelineEvent creates a new PipelineEvent for word.
func NewPipelineEvent(eventType Type, word string) *PipelineEvent {
	return &PipelineEvent{
		ID:        uuid.New(),
		Type:      eventType,
		Word:      word,
		CreatedAt: time.Now(),
	}
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *PipelineEvent) error
}

// EventEmitter defines an interface for components that can emit events.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *PipelineEvent) error
}

// HandlerFunc adapts a function to EventHandler.
type HandlerFunc func(ctx context.Context, event *PipelineEvent) error

// HandleEvent calls f.
func (f HandlerFunc) HandleEvent(ctx context.Context, event *PipelineEvent) error {
	return f(ctx, event)
}
