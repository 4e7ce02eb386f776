// Package errors defines the error values reported by the openddl parser
// and validator. Message text is contractual: callers and tests match on
// the exact strings produced by Error().
package errors

import (
	"errors"
	"fmt"
)

// ParseError reports the first syntax or lexical violation found while
// parsing a document. Line is 1-based.
type ParseError struct {
	Line    int
	Message string
}

// Error returns the single diagnostic line for the parse failure.
func (e *ParseError) Error() string {
	if e == nil {
		return "parse <nil>"
	}
	return fmt.Sprintf("parse: %s on line %d", e.Message, e.Line)
}

// NewParse builds a ParseError with a formatted message.
func NewParse(line int, format string, args ...any) *ParseError {
	return &ParseError{Line: line, Message: fmt.Sprintf(format, args...)}
}

// ValidationError reports the first schema violation found while validating
// a parsed document against structure rules.
type ValidationError struct {
	Message string
}

// Error returns the single diagnostic line for the validation failure.
func (e *ValidationError) Error() string {
	if e == nil {
		return "validate <nil>"
	}
	return "validate: " + e.Message
}

// NewValidation builds a ValidationError with a formatted message.
func NewValidation(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// DanglingReference reports a reference value whose name has no matching
// structure in the document. It surfaces at query time, never during
// parsing or validation.
type DanglingReference struct {
	Name string
}

func (e *DanglingReference) Error() string {
	if e == nil {
		return "dangling reference <nil>"
	}
	return "unresolved reference " + e.Name
}

// AsParseError extracts a ParseError from an error chain.
func AsParseError(err error) (*ParseError, bool) {
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return parseErr, true
	}
	return nil, false
}

// AsValidationError extracts a ValidationError from an error chain.
func AsValidationError(err error) (*ValidationError, bool) {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr, true
	}
	return nil, false
}

// AsDanglingReference extracts a DanglingReference from an error chain.
func AsDanglingReference(err error) (*DanglingReference, bool) {
	var danglingErr *DanglingReference
	if errors.As(err, &danglingErr) {
		return danglingErr, true
	}
	return nil, false
}
