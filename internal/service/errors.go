package service

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is returned when input validation fails.
	ErrValidation = errors.New("validation error")
	// ErrIntegrity is returned when the vector index and its chunk metadata disagree.
	// An operation failing with this error requires a full index rebuild.
	ErrIntegrity = errors.New("integrity error")
	// ErrOracleUnavailable is returned when the generation backend cannot be reached.
	ErrOracleUnavailable = errors.New("generation backend unavailable")
	// ErrOracleTimeout is returned when the generation backend did not answer in time.
	ErrOracleTimeout = errors.New("generation backend timed out")
	// ErrRebuildInProgress is returned when an index rebuild is already running.
	ErrRebuildInProgress = errors.New("index rebuild already in progress")
)

// ValidationError represents a validation error with a field name.
// It unwraps to ErrValidation so callers can match the whole class.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// WrapError wraps an error with additional context.
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}
