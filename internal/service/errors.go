package service

import (
	"errors"
	"fmt"
)

// Sentinel errors for the operations' failure modes. Controllers match them
// with errors.Is and map them to HTTP statuses. "Not found" deliberately
// covers both a missing entity and an entity that does not belong to the
// caller, so unauthorized callers cannot probe for existence.
var (
	ErrNotFound          = errors.New("not found")
	ErrAccessDenied      = errors.New("access denied")
	ErrInvalidAccessCode = errors.New("access code must be 6 alphanumeric characters")
	ErrInvalidChoice     = errors.New("selected choice must be one of A, B, C, D")
	ErrInvalidDirection  = errors.New("direction must be 'next' or 'previous'")

	ErrSessionNotStarted = errors.New("test has not started yet")
	ErrSessionExpired    = errors.New("test session has expired")
	ErrSessionCancelled  = errors.New("test session has been cancelled")

	ErrAlreadyJoined      = errors.New("student has already joined this session")
	ErrAlreadySubmitted   = errors.New("attempt has already been submitted")
	ErrNotSubmitted       = errors.New("attempt has not been submitted")
	ErrAlreadyReleased    = errors.New("result has already been released")
	ErrResultsNotVisible  = errors.New("results are not available yet")
	ErrStartTimeInPast    = errors.New("start time must be in the future")
	ErrInvalidReleaseMode = errors.New("invalid result release mode")
)

// NotExpiredYetError is the hard block returned when an auto-submit request
// arrives before the scoring boundary. The remaining seconds come from the
// server clock; a fast client clock never gets an attempt finalized early.
type NotExpiredYetError struct {
	RemainingSeconds int
}

func (e *NotExpiredYetError) Error() string {
	return fmt.Sprintf("test has not expired yet, %d seconds remaining", e.RemainingSeconds)
}
