package service

import (
	"errors"
	"fmt"
)

// Stages of a word at which the pipeline can give up on it.
const (
	StageGenerate = "generate"
	StageRawLog   = "raw_log"
	StageParse    = "parse"
	StageSave     = "save"
)

// ErrNilDependency is returned when the pipeline is built without a required collaborator.
var ErrNilDependency = errors.New("required dependency is nil")

// PipelineError wraps errors from the card pipeline with context.
type PipelineError struct {
	// Operation is the operation or stage that failed (e.g., "create_pipeline", "parse")
	Operation string
	// Word is the word being processed, empty for construction errors
	Word string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for PipelineError.
func (e *PipelineError) Error() string {
	prefix := fmt.Sprintf("card pipeline %s failed", e.Operation)
	if e.Word != "" {
		prefix = fmt.Sprintf("card pipeline %s failed for %q", e.Operation, e.Word)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *PipelineError) Unwrap() error {
	return e.Err
}

func newStageError(stage, word, message string, err error) error {
	return &PipelineError{
		Operation: stage,
		Word:      word,
		Message:   message,
		Err:       err,
	}
}
