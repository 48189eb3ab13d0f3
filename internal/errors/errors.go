// Package errors consolidates the error definitions for the pipeline.
//
// It provides:
// - Sentinel errors for all error conditions
// - Error category checking functions
// - Error wrapping utilities
package errors

import (
	"errors"
	"fmt"
)

// ============================================================================
// Sentinel errors for common conditions
// ============================================================================

var (
	// Delivery errors (node side)
	ErrTransport = errors.New("transport failure")
	ErrBadStatus = errors.New("unexpected response status")

	// Validation errors (ingestion boundary)
	ErrRequestTooLarge = errors.New("request too large")
	ErrInvalidBatch    = errors.New("invalid batch")
	ErrMissingField    = errors.New("missing required field")

	// Writer errors
	ErrNotInitialized = errors.New("writer not initialized")
	ErrQueueClosed    = errors.New("write queue closed")

	// Storage errors
	ErrStorage     = errors.New("storage error")
	ErrShardClosed = errors.New("shard closed")
)

// ============================================================================
// Helper functions for error checking
// ============================================================================

// Is is a convenience wrapper for errors.Is
var Is = errors.Is

// As is a convenience wrapper for errors.As
var As = errors.As

// IsValidation returns true if err is a client-caused validation error.
// Validation errors are terminal: the server never retries them and the
// delivery client must not resubmit the same payload.
func IsValidation(err error) bool {
	return errors.Is(err, ErrRequestTooLarge) ||
		errors.Is(err, ErrInvalidBatch) ||
		errors.Is(err, ErrMissingField)
}

// IsRetriable returns true if the error is potentially retriable by the
// delivery client. A non-2xx application response is retried as well: the
// collector may be restarting or shedding load.
func IsRetriable(err error) bool {
	return errors.Is(err, ErrTransport) ||
		errors.Is(err, ErrBadStatus)
}

// IsQueueError returns true if err means the writer is unavailable or
// shutting down.
func IsQueueError(err error) bool {
	return errors.Is(err, ErrNotInitialized) ||
		errors.Is(err, ErrQueueClosed)
}

// ============================================================================
// Error wrapping utilities
// ============================================================================

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// ============================================================================
// Error constructors with context
// ============================================================================

// NewMissingField creates a missing field error.
func NewMissingField(field string) error {
	return fmt.Errorf("%s: %w", field, ErrMissingField)
}

// NewRequestTooLarge creates a request-too-large error carrying both sizes.
func NewRequestTooLarge(size, max int) error {
	return fmt.Errorf("%d bytes (max: %d): %w", size, max, ErrRequestTooLarge)
}
