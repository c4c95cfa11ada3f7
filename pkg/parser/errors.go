package parser

import (
	"errors"
	"fmt"
)

// ErrEmptyResults marks a pool-results payload that decoded to an empty
// array. Callers that poll before a round closes match it with errors.Is
// to distinguish "not posted yet" from a malformed payload.
var ErrEmptyResults = errors.New("pool results array is empty")

// ParseError reports structurally malformed input: a required element or
// marker is absent from the payload entirely.
type ParseError struct {
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse: %s", e.Msg)
}

// ValidationError reports a well-formed payload whose content violates the
// record contract, such as a results record missing a required field.
// Index is the zero-based record position, or -1 when the failure is not
// tied to a single record.
type ValidationError struct {
	Index int
	Field string
	Msg   string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation: record %d: missing required field %q", e.Index, e.Field)
	}
	return fmt.Sprintf("validation: %s", e.Msg)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
