package booking

import (
	"errors"
	"fmt"
)

var (
	// ErrWrongStep rejects an action that does not belong to the current step.
	ErrWrongStep = errors.New("booking: action not allowed at current step")
	// ErrAlreadySubmitted rejects edits after submission; Reset starts over.
	ErrAlreadySubmitted = errors.New("booking: already submitted")
	// ErrSessionNotFound is returned for unknown or expired session ids.
	ErrSessionNotFound = errors.New("booking: session not found")
	// ErrSubmissionInFlight rejects any change while a submission is posting.
	ErrSubmissionInFlight = errors.New("booking: submission already in flight")
	// ErrSessionBusy rejects concurrent changes to the same session.
	ErrSessionBusy = errors.New("booking: session busy")
)

// SubmissionError wraps a failed relay POST. The wizard stays at Review and
// the same submission can be retried.
type SubmissionError struct {
	Reference string
	Err       error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("booking: submit %s: %v", e.Reference, e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// Retryable is always true; nothing about the state was consumed.
func (e *SubmissionError) Retryable() bool { return true }
