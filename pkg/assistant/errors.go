package assistant

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable is returned before any network call when no API key is configured.
	ErrUnavailable = errors.New("assistant: AI features are disabled, set API_KEY or GEMINI_API_KEY")
	// ErrEmptyPrompt is returned when the user prompt is blank.
	ErrEmptyPrompt = errors.New("assistant: prompt is empty")
)

// GenerationError wraps a failure of the model call itself.
type GenerationError struct {
	Op  string
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("assistant: %s: generation failed: %v", e.Op, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// SchemaError reports a model response that does not satisfy the expected shape.
type SchemaError struct {
	Op      string
	Field   string
	Reason  string
	Payload string
	Err     error
}

func (e *SchemaError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("assistant: %s: invalid response: %s", e.Op, e.Reason)
	}
	return fmt.Sprintf("assistant: %s: invalid response field %q: %s", e.Op, e.Field, e.Reason)
}

func (e *SchemaError) Unwrap() error { return e.Err }
