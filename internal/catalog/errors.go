package catalog

import (
	"errors"
	"strings"
)

var (
	// ErrValidation matches any *ValidationError
	ErrValidation = errors.New("validation failed")
	// ErrFileUnavailable is returned when a download is requested for a mod with no file
	ErrFileUnavailable = errors.New("file not available")
	ErrNotFound        = errors.New("mod not found")
	// ErrCorruptState means the persisted list could not be parsed and defaults were used
	ErrCorruptState = errors.New("persisted catalog is malformed")
)

// ValidationError lists the required draft fields that were left empty
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
