// Package apperr defines the error taxonomy shared by all domain services.
// The kinds are terminal from the caller's point of view except Transient,
// which a client may retry. Degraded side-effect failures (notification
// emits, display-name lookups) are never represented here: they are logged
// and counted at the point of failure and swallowed.
package apperr

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNotFound: a referenced entity (event, record, organization, user)
	// does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateRequest: a clearance request targets a pair that is
	// already pending or approved.
	ErrDuplicateRequest = errors.New("duplicate request")

	// ErrInvalidTransition: a status change targets a record whose current
	// state does not permit it.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrTransient: the backend call failed on timeout or connectivity;
	// safe to retry.
	ErrTransient = errors.New("transient backend error")

	// ErrValidation: caller input failed validation.
	ErrValidation = errors.New("validation failed")
)

// NotFound wraps ErrNotFound naming the missing entity.
func NotFound(entity string) error {
	return fmt.Errorf("%s: %w", entity, ErrNotFound)
}

// Validation wraps ErrValidation with a caller-facing reason.
func Validation(reason string) error {
	return fmt.Errorf("%s: %w", reason, ErrValidation)
}

// Transient wraps a raw driver error as ErrTransient. Timeouts,
// cancellations and connectivity failures all land here: once the terminal
// kinds are ruled out, a failed store round trip is retryable by policy.
func Transient(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %v: %w", op, err, ErrTransient)
}

// Timeout reports whether err came from a deadline or cancellation.
func Timeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}
