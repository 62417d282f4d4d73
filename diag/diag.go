// Package diag defines the error taxonomy shared by the descriptor model,
// the Rust emitter and the handle runtime.
//
// Every failure carries a machine-readable Code plus the construct that
// triggered it (a declaration, variant, field or type) and, where relevant,
// the offending form (e.g. "TraitObject"). Errors are created with a stack
// trace via github.com/cockroachdb/errors; use CodeOf or Is to classify them
// after wrapping.
package diag

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
)

// Code is a machine-readable error code.
type Code string

const (
	// Generation-time failures.
	CodeUnsupportedTypeForm          Code = "unsupported_type_form"
	CodeUnsupportedGenericConstParam Code = "unsupported_generic_const_param"
	CodeUnimplementedForm            Code = "unimplemented_form"
	CodeWrongDeclarationKind         Code = "wrong_declaration_kind"
	CodeMalformedInvocation          Code = "malformed_invocation"
	CodeInvalidDescriptor            Code = "invalid_descriptor"

	// Failures raised by generated code or the handle runtime. Generated
	// Rust reports them as panic messages prefixed with the code.
	CodeWrongVariantAccess         Code = "wrong_variant_access"
	CodeCounterOverflow            Code = "counter_overflow"
	CodeSerializationRangeExceeded Code = "serialization_range_exceeded"
)

// Error is a classified failure. It is always returned wrapped with a stack
// trace; use errors.As (or CodeOf) to recover it.
type Error struct {
	Code Code
	// Construct names what was being generated, e.g. "List::Cons field 1".
	Construct string
	// Form is the unsupported shape or modifier, if any.
	Form    string
	Message string
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Form != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Form)
	}
	if e.Construct != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Construct, msg)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

// New creates a classified error with a stack trace.
func New(code Code, construct, message string) error {
	return errors.WithStack(&Error{Code: code, Construct: construct, Message: message})
}

// Newf is like New with a formatted message.
func Newf(code Code, construct, format string, args ...any) error {
	return New(code, construct, fmt.Sprintf(format, args...))
}

// Unsupported creates an error naming an unsupported form.
func Unsupported(code Code, construct, form, message string) error {
	return errors.WithStack(&Error{Code: code, Construct: construct, Form: form, Message: message})
}

// WithHint attaches a user-facing hint to err.
func WithHint(err error, hint string) error {
	return errors.WithHint(err, hint)
}

// CodeOf returns the code of the first classified error in err's chain,
// or "" if there is none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}

// Hints returns the flattened user hints attached to err.
func Hints(err error) string {
	return errors.FlattenHints(err)
}

// HTTPStatus maps a Code to an HTTP status code.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeUnsupportedTypeForm, CodeUnsupportedGenericConstParam, CodeUnimplementedForm,
		CodeWrongDeclarationKind, CodeMalformedInvocation, CodeInvalidDescriptor:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
