package entry

import (
	"fmt"
	"strings"
)

// ErrorKind discriminates interpretation failures so callers can map them
// to status codes without matching on message strings.
type ErrorKind string

const (
	// ErrTranscriptionUnavailable — speech-to-text failed or returned empty.
	ErrTranscriptionUnavailable ErrorKind = "transcription_unavailable"

	// ErrInferenceUnavailable — the inference service call itself failed.
	ErrInferenceUnavailable ErrorKind = "inference_unavailable"

	// ErrMalformedOutput — inference returned text that is not parseable
	// JSON after fence-stripping.
	ErrMalformedOutput ErrorKind = "malformed_output"

	// ErrSchemaViolation — parsed JSON does not satisfy the expected
	// output contract; Violations carries the field-level reasons.
	ErrSchemaViolation ErrorKind = "schema_violation"

	// ErrExtractionIncomplete — the classifier chose weight/steps but
	// could not extract the corresponding value.
	ErrExtractionIncomplete ErrorKind = "extraction_incomplete"

	// ErrToolExecutionFailure — the record-store query behind a tool call
	// failed, or an unknown tool was requested.
	ErrToolExecutionFailure ErrorKind = "tool_execution_failure"

	// ErrUnsupportedIntent — the classifier produced an intent outside the
	// five recognized ones.
	ErrUnsupportedIntent ErrorKind = "unsupported_intent"
)

// FieldViolation describes one way a decoded value failed its contract.
type FieldViolation struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (v FieldViolation) String() string {
	return v.Field + ": " + v.Reason
}

// Error is a terminal interpretation failure. Every failure in the
// pipeline surfaces as one of these; none are downgraded to defaults.
type Error struct {
	Kind       ErrorKind
	Message    string
	Violations []FieldViolation
	Err        error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if len(e.Violations) > 0 {
		parts := make([]string, len(e.Violations))
		for i, v := range e.Violations {
			parts[i] = v.String()
		}
		msg += " (" + strings.Join(parts, "; ") + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// NewError builds an Error of the given kind.
func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapError builds an Error of the given kind around an underlying cause.
func WrapError(kind ErrorKind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// SchemaError builds a schema-violation Error carrying every violated field.
func SchemaError(violations []FieldViolation) *Error {
	return &Error{
		Kind:       ErrSchemaViolation,
		Message:    fmt.Sprintf("output failed validation with %d violation(s)", len(violations)),
		Violations: violations,
	}
}
