package bundle

import (
	"errors"
	"log/slog"
	"strings"
)

// Predefined errors (sentinel values).
var (
	// ErrUnknownMessage is returned when the requested message does not exist.
	// Terms are never queryable and also produce this error.
	ErrUnknownMessage = NewError("unknown message")

	// ErrUnknownAttribute is returned when the requested message exists but
	// has no attribute of the requested name.
	ErrUnknownAttribute = NewError("unknown attribute")

	// ErrNoValue is returned when the requested message only has attributes.
	ErrNoValue = NewError("message has no value")

	// ErrStrictParse is returned by [New] in strict mode when any source has
	// a syntax error. It wraps the first [*syntax.ParseError].
	ErrStrictParse = NewError("syntax error in strict mode")

	// ErrStrictValidation is returned by [New] in strict mode when the merged
	// bundle fails validation. It wraps the first [*ValidationError].
	ErrStrictValidation = NewError("validation error in strict mode")

	// ErrVariableKey is returned by [VariablesOf] for a non-string key.
	ErrVariableKey = NewError("variable name must be a string")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error
	attrs []slog.Attr
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// Error implements the error interface.
// Attributes are rendered as key=value pairs after the message.
func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString(e.msg)

	for _, a := range e.attrs {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}

		sb.WriteString(a.String())
	}

	if e.err != nil {
		if sb.Len() > 0 {
			sb.WriteString(": ")
		}

		sb.WriteString(e.err.Error())
	}

	return sb.String()
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel this error was derived from.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || t.err != nil || len(t.attrs) > 0 {
		return false
	}

	return t.msg != "" && t.msg == e.msg
}

// LogValue implements slog.LogValuer.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.Any("cause", e.err))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{msg: e.msg, err: err, attrs: e.attrs}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{msg: e.msg, err: e.err, attrs: newAttrs}
}
