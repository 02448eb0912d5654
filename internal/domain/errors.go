package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a failure so callers can decide its scope.
type ErrorKind string

const (
	KindMissingContentBlock  ErrorKind = "MissingContentBlock"
	KindInvalidCardinality   ErrorKind = "InvalidCardinality"
	KindMissingMetadata      ErrorKind = "MissingMetadata"
	KindInvalidMetadataValue ErrorKind = "InvalidMetadataValue"
	KindInvalidPattern       ErrorKind = "InvalidPattern"
	KindInvalidPlaceholder   ErrorKind = "InvalidPlaceholder"
	KindBuildFailure         ErrorKind = "BuildFailure"
	KindAssertionMismatch    ErrorKind = "AssertionMismatch"
)

// Error is the base error type with context.
type Error struct {
	Phase      string // "config", "scan", "parse", "classify", "load", "build", "check"
	Kind       ErrorKind
	File       string
	LineNumber int
	Path       []string // Group/Test/"variant, scenario" path, when known
	Message    string
	Suggestion string
	Cause      error
}

func (e *Error) Error() string {
	s := fmt.Sprintf("[%s]", e.Phase)
	if e.Kind != "" {
		s += fmt.Sprintf(" %s", e.Kind)
	}
	if e.File != "" {
		s += fmt.Sprintf(" %s", e.File)
	}
	if e.LineNumber > 0 {
		s += fmt.Sprintf(":%d", e.LineNumber)
	}
	if len(e.Path) > 0 {
		s += fmt.Sprintf(" (%s)", strings.Join(e.Path, " / "))
	}
	s += fmt.Sprintf(": %s", e.Message)
	if e.Cause != nil {
		s += fmt.Sprintf(": %v", e.Cause)
	}
	if e.Suggestion != "" {
		s += fmt.Sprintf(" (hint: %s)", e.Suggestion)
	}
	return s
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new Error without a kind.
func NewError(phase, file string, line int, message string, cause error) *Error {
	return &Error{
		Phase:      phase,
		File:       file,
		LineNumber: line,
		Message:    message,
		Cause:      cause,
	}
}

// NewErrorWithSuggestion creates a new Error carrying a hint for the user.
func NewErrorWithSuggestion(phase, file string, line int, message, suggestion string, cause error) *Error {
	e := NewError(phase, file, line, message, cause)
	e.Suggestion = suggestion
	return e
}

// NewKindError creates a new Error of the given kind.
func NewKindError(phase string, kind ErrorKind, message string, cause error) *Error {
	return &Error{
		Phase:   phase,
		Kind:    kind,
		Message: message,
		Cause:   cause,
	}
}

// KindOf returns the kind of the outermost *Error in err's chain, or "".
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}

// WithLocation returns a copy of err located at file:line and path. Errors
// that are not *Error are wrapped under the given phase.
func WithLocation(err error, phase, file string, line int, path []string) *Error {
	var src *Error
	if !errors.As(err, &src) {
		src = NewError(phase, "", 0, "unexpected failure", err)
	}
	located := *src
	if located.File == "" {
		located.File = file
	}
	if located.LineNumber == 0 {
		located.LineNumber = line
	}
	located.Path = append([]string(nil), path...)
	return &located
}
