package analysis

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrValidation marks client input that fails shape, length or count rules.
	ErrValidation = errors.New("invalid analysis request")
	// ErrAuthRequired means no identity was present on the request.
	ErrAuthRequired = errors.New("authentication required")
	// ErrConfiguration means the generation credential is missing.
	ErrConfiguration = errors.New("generation service not configured")
	// ErrUpstream covers unreachable, timed out or non-success generation calls.
	ErrUpstream = errors.New("generation service failed")
	// ErrMalformedResponse means the model output could not be parsed into a Result.
	ErrMalformedResponse = errors.New("malformed generation response")
	// ErrPersistence wraps any store write or read failure.
	ErrPersistence = errors.New("analysis store failure")
	// ErrNotFound is returned for missing records and for records owned by someone else.
	ErrNotFound = errors.New("analysis not found")
	// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
	ErrQuotaExceeded = errors.New("ai quota exceeded")
)

// ValidationError carries per-field messages. It matches ErrValidation with errors.Is.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Field builds a single-field validation error.
func Field(name, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{name: msg}}
}
