package model

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRecord matches every *ValidationError via errors.Is.
	ErrInvalidRecord = errors.New("invalid documentation record")

	// ErrEmptyRecord is returned by DecodeRecord when the input holds no document.
	ErrEmptyRecord = errors.New("empty documentation record")

	// ErrInvalidLogicFlow is returned when logicFlow is neither a list of
	// steps nor a single string.
	ErrInvalidLogicFlow = errors.New("logicFlow must be a list of steps or a string")

	// ErrUnknownMode is returned when a mode name cannot be parsed.
	ErrUnknownMode = errors.New("unknown mode: must be \"standard\" or \"qa\"")
)

// ValidationError reports a missing or out-of-range required field.
type ValidationError struct {
	// Field is the record key that failed validation (e.g. "purpose").
	Field string

	// Reason is a short human-readable explanation.
	Reason string

	// Value holds the offending numeric value, when there is one.
	Value any
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("%s: %s: %s (got %v)", ErrInvalidRecord, e.Field, e.Reason, e.Value)
	}
	return fmt.Sprintf("%s: %s: %s", ErrInvalidRecord, e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidRecord) true for validation errors.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidRecord
}
