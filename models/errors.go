package models

import "fmt"

// InterpretationError means the model output never converged to a valid
// SearchFilter within the bounded retry count.
type InterpretationError struct {
	Msg string
	Err error
}

func (e *InterpretationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("interpretation failed: %s: %v", e.Msg, e.Err)
	}
	return fmt.Sprintf("interpretation failed: %s", e.Msg)
}

func (e *InterpretationError) Unwrap() error { return e.Err }

// FetchError means the listings source was unreachable and zero
// candidates were collected.
type FetchError struct {
	Msg string
	Err error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch failed: %s: %v", e.Msg, e.Err)
	}
	return fmt.Sprintf("fetch failed: %s", e.Msg)
}

func (e *FetchError) Unwrap() error { return e.Err }

// OrchestrationError wraps the first fatal pipeline failure and is what
// the caller sees. Kind names the failing stage.
type OrchestrationError struct {
	Kind string
	Err  error
}

func (e *OrchestrationError) Error() string {
	return fmt.Sprintf("search failed at %s: %v", e.Kind, e.Err)
}

func (e *OrchestrationError) Unwrap() error { return e.Err }
