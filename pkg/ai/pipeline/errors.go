package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"ai-assistant-be/pkg/extract"
)

var (
	// ErrValidation rejects input before any Turn exists.
	ErrValidation = errors.New("validation failed")

	// ErrExtractionEmpty means the extractor answered but found no text.
	ErrExtractionEmpty = errors.New("no readable text found")

	// ErrEmptyReply is a provider answering with nothing.
	ErrEmptyReply = errors.New("empty reply")

	// ErrAbandoned is returned when the generation was superseded mid-way.
	ErrAbandoned = errors.New("generation abandoned")
)

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// TransportError wraps a failed call to an external collaborator.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ExhaustedFallbackError means every tier of a pipeline failed.
type ExhaustedFallbackError struct {
	Pipeline string
	Errs     []error
}

func (e *ExhaustedFallbackError) Error() string {
	msgs := make([]string, len(e.Errs))
	for i, err := range e.Errs {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%s: all fallbacks failed: %s", e.Pipeline, strings.Join(msgs, "; "))
}

func (e *ExhaustedFallbackError) Unwrap() []error { return e.Errs }

// UploadError is an upload that failed before any Turn was created.
// Notice is the one message the user should see.
type UploadError struct {
	Category extract.Category
	Notice   string
	Err      error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload %s: %v", e.Category, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }
