package syntax

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values).
var (
	ErrReadInput = NewError("failed to read input")
	ErrSyntax    = NewError("syntax error")
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

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel this error was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.err == nil && t.msg != "" && t.msg == e.msg
}

// LogValue implements slog.LogValuer.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs,
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}

// ErrorKind classifies a [ParseError].
type ErrorKind int

const (
	KindExpectedEntry ErrorKind = iota
	KindExpectedToken
	KindExpectedCharRange
	KindExpectedMessageField
	KindExpectedTermField
	KindForbiddenCallee
	KindMissingDefaultVariant
	KindMissingVariants
	KindMissingValue
	KindMultipleDefaultVariants
	KindMessageReferenceAsSelector
	KindMessageAttributeAsSelector
	KindTermReferenceAsSelector
	KindTermAttributeAsPlaceable
	KindExpectedSimpleSelector
	KindUnterminatedString
	KindPositionalAfterNamed
	KindDuplicatedNamedArgument
	KindInvalidArgumentName
	KindUnknownEscapeSequence
	KindInvalidUnicodeEscape
	KindUnbalancedClosingBrace
	KindExpectedInlineExpression
	KindExpectedLiteral
	KindDuplicateAttribute
	KindDepthExceeded
)

var errorKindName = [...]string{
	KindExpectedEntry:              "ExpectedEntry",
	KindExpectedToken:              "ExpectedToken",
	KindExpectedCharRange:          "ExpectedCharRange",
	KindExpectedMessageField:       "ExpectedMessageField",
	KindExpectedTermField:          "ExpectedTermField",
	KindForbiddenCallee:            "ForbiddenCallee",
	KindMissingDefaultVariant:      "MissingDefaultVariant",
	KindMissingVariants:            "MissingVariants",
	KindMissingValue:               "MissingValue",
	KindMultipleDefaultVariants:    "MultipleDefaultVariants",
	KindMessageReferenceAsSelector: "MessageReferenceAsSelector",
	KindMessageAttributeAsSelector: "MessageAttributeAsSelector",
	KindTermReferenceAsSelector:    "TermReferenceAsSelector",
	KindTermAttributeAsPlaceable:   "TermAttributeAsPlaceable",
	KindExpectedSimpleSelector:     "ExpectedSimpleSelector",
	KindUnterminatedString:         "UnterminatedString",
	KindPositionalAfterNamed:       "PositionalAfterNamed",
	KindDuplicatedNamedArgument:    "DuplicatedNamedArgument",
	KindInvalidArgumentName:        "InvalidArgumentName",
	KindUnknownEscapeSequence:      "UnknownEscapeSequence",
	KindInvalidUnicodeEscape:       "InvalidUnicodeEscape",
	KindUnbalancedClosingBrace:     "UnbalancedClosingBrace",
	KindExpectedInlineExpression:   "ExpectedInlineExpression",
	KindExpectedLiteral:            "ExpectedLiteral",
	KindDuplicateAttribute:         "DuplicateAttribute",
	KindDepthExceeded:              "DepthExceeded",
}

// String returns the name of the error kind.
func (k ErrorKind) String() string {
	if k >= 0 && int(k) < len(errorKindName) {
		return errorKindName[k]
	}

	return "Unknown"
}

// ParseError describes one syntax problem found while parsing a resource.
// Line and Column are 1-based; Column counts bytes. ByteStart and ByteEnd
// are 0-based offsets into the source text.
type ParseError struct {
	Kind      ErrorKind
	Message   string
	Line      int
	Column    int
	ByteStart int
	ByteEnd   int
	Source    string // empty when the source is unnamed
}

// Error implements the error interface.
func (e *ParseError) Error() string { return e.String() }

// Is matches [ErrSyntax].
func (e *ParseError) Is(target error) bool { return target == ErrSyntax }

// String renders the error as "source:line:col: message".
func (e *ParseError) String() string {
	var sb strings.Builder

	if e.Source != "" {
		sb.WriteString(e.Source)
		sb.WriteByte(':')
	}

	sb.WriteString(strconv.Itoa(e.Line))
	sb.WriteByte(':')
	sb.WriteString(strconv.Itoa(e.Column))
	sb.WriteString(": ")
	sb.WriteString(e.Message)

	return sb.String()
}

// LogValue implements slog.LogValuer.
func (e *ParseError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("kind", e.Kind.String()),
		slog.String("message", e.Message),
		slog.String("source", e.Source),
		slog.Int("line", e.Line),
		slog.Int("column", e.Column),
		slog.Int("byte_start", e.ByteStart),
		slog.Int("byte_end", e.ByteEnd),
	)
}

// Snippet returns the offending source line followed by a caret under the
// error column.
func (e *ParseError) Snippet(source string) string {
	lines := strings.Split(source, "\n")
	if e.Line <= 0 || e.Line > len(lines) {
		return ""
	}

	var sb strings.Builder

	num := strconv.Itoa(e.Line)
	fmt.Fprintf(&sb, "  %s | %s\n", num, strings.TrimSuffix(lines[e.Line-1], "\r"))

	// +5 accounts for 2 leading spaces and " | "
	sb.WriteString(strings.Repeat(" ", len(num)+5))

	if e.Column > 0 {
		sb.WriteString(strings.Repeat(" ", e.Column-1))
	}

	sb.WriteString("^\n")

	return sb.String()
}

// syntaxError is raised inside the parser and converted to a ParseError
// once the entry is abandoned.
type syntaxError struct {
	kind ErrorKind
	msg  string
	pos  int
}

func (p *parser) fail(kind ErrorKind, format string, args ...any) *syntaxError {
	return &syntaxError{kind: kind, msg: fmt.Sprintf(format, args...), pos: p.pos}
}

// lineColumn converts a byte offset into 1-based line and byte column.
func lineColumn(src string, offset int) (line, col int) {
	offset = min(max(offset, 0), len(src))
	head := src[:offset]
	line = strings.Count(head, "\n") + 1
	col = offset - (strings.LastIndexByte(head, '\n') + 1) + 1

	return line, col
}
