package types

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a TravelRequest id does not exist.
var ErrNotFound = errors.New("Request not found")

// ValidationError reports invalid caller input. It is never retried.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ProviderError is a failure talking to the model provider: transport errors,
// timeouts and API-level errors such as rate limits or auth failures.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s API error: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// MalformedResponseError means the model output was not valid JSON.
type MalformedResponseError struct {
	Provider string
	Err      error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("%s returned invalid JSON.", e.Provider)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// ShapeError means the model output parsed but was not an array of the
// requested length.
type ShapeError struct {
	Provider string
	Expected int
	Got      int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("Invalid response from %s: number of places does not match.", e.Provider)
}

// GenerationError is the single outward-facing failure of the generation
// path. Its message is the cause text.
type GenerationError struct {
	Cause error
}

func (e *GenerationError) Error() string {
	if e.Cause == nil {
		return "generation failed"
	}
	return e.Cause.Error()
}

func (e *GenerationError) Unwrap() error { return e.Cause }
