package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrAuth       = errors.New("external credentials rejected")
	ErrForbidden  = errors.New("permission denied")
	ErrFormat     = errors.New("unrecognized format")
	ErrDraftGone  = errors.New("draft expired or unknown")
)

// ValidationError carries every problem found in a request, in the order they were found.
type ValidationError struct {
	Problems []string
}

func NewValidationError(problems ...string) *ValidationError {
	return &ValidationError{Problems: problems}
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// FormatError reports a date or time string that matched none of the accepted patterns.
// It is validation-class: errors.Is(err, ErrValidation) holds.
type FormatError struct {
	Field string
	Input string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("unrecognized %s format: %q", e.Field, e.Input)
}

func (e *FormatError) Is(target error) bool {
	return target == ErrFormat || target == ErrValidation
}
