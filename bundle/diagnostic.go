package bundle

import (
	"log/slog"
	"strings"
)

// ValidationKind classifies a [ValidationError].
type ValidationKind int

const (
	// DuplicateMessageID reports an identifier defined twice in one source.
	// Redefinition in a later source is an override and is not reported.
	DuplicateMessageID ValidationKind = iota
	// UnknownMessage reports a reference to a message that does not exist.
	UnknownMessage
	// UnknownTerm reports a reference to a term that does not exist.
	UnknownTerm
	// UnknownAttribute reports a reference to a missing attribute of an
	// existing message or term.
	UnknownAttribute
	// CyclicReference reports a cycle in the reference graph.
	CyclicReference
)

var validationKindName = [...]string{
	DuplicateMessageID: "DuplicateMessageId",
	UnknownMessage:     "UnknownMessage",
	UnknownTerm:        "UnknownTerm",
	UnknownAttribute:   "UnknownAttribute",
	CyclicReference:    "CyclicReference",
}

func (k ValidationKind) String() string {
	if k >= 0 && int(k) < len(validationKindName) {
		return validationKindName[k]
	}

	return "Unknown"
}

// ValidationError is a semantic problem found in a merged bundle.
type ValidationError struct {
	Kind ValidationKind
	// Message is a human-readable description.
	Message string
	// Identifier is the entry containing the problem; terms carry the "-"
	// sigil.
	Identifier string
	// Reference is the offending reference as written, e.g. "-brand.gender".
	// For cycles it is the entry holding the edge that closes the cycle.
	Reference string
	// Source is the name of the source that defined Identifier.
	Source string
	// Suggestion is the closest existing identifier for unknown references,
	// or empty.
	Suggestion string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var sb strings.Builder

	if e.Source != "" {
		sb.WriteString(e.Source)
		sb.WriteString(": ")
	}

	sb.WriteString(e.Message)

	if e.Suggestion != "" {
		sb.WriteString(` (did you mean "`)
		sb.WriteString(e.Suggestion)
		sb.WriteString(`"?)`)
	}

	return sb.String()
}

// LogValue implements slog.LogValuer.
func (e *ValidationError) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("kind", e.Kind.String()),
		slog.String("message", e.Message),
		slog.String("identifier", e.Identifier),
	}

	if e.Reference != "" {
		attrs = append(attrs, slog.String("reference", e.Reference))
	}

	if e.Source != "" {
		attrs = append(attrs, slog.String("source", e.Source))
	}

	if e.Suggestion != "" {
		attrs = append(attrs, slog.String("suggestion", e.Suggestion))
	}

	return slog.GroupValue(attrs...)
}

// FormatKind classifies a [FormatError].
type FormatKind int

const (
	// MissingVariable reports a variable absent from the supplied mapping.
	MissingVariable FormatKind = iota
	// InvalidVariableType reports a variable of an unsupported kind, or an
	// integer outside the 32-bit signed range.
	InvalidVariableType
	// UnknownReference reports a message, term, or attribute that cannot be
	// resolved at runtime.
	UnknownReference
	// CyclicExpansion reports a reference that would expand itself.
	CyclicExpansion
	// DepthExceeded reports reference nesting beyond the configured limit.
	DepthExceeded
	// TooManyPlaceables reports that the placeable budget of one call was
	// exhausted; the output is truncated.
	TooManyPlaceables
	// UnknownFunction reports a call to an unregistered function.
	UnknownFunction
	// FunctionFailed reports an error returned by a function.
	FunctionFailed
	// NumberOverflow reports a numeric literal too large for its numeric
	// form, used where its value matters.
	NumberOverflow
)

var formatKindName = [...]string{
	MissingVariable:     "MissingVariable",
	InvalidVariableType: "InvalidVariableType",
	UnknownReference:    "UnknownReference",
	CyclicExpansion:     "CyclicReference",
	DepthExceeded:       "DepthExceeded",
	TooManyPlaceables:   "TooManyPlaceables",
	UnknownFunction:     "UnknownFunction",
	FunctionFailed:      "FunctionError",
	NumberOverflow:      "NumberOverflow",
}

func (k FormatKind) String() string {
	if k >= 0 && int(k) < len(formatKindName) {
		return formatKindName[k]
	}

	return "Unknown"
}

// FormatError is a non-fatal problem found while formatting one message.
type FormatError struct {
	Kind    FormatKind
	Message string
	// Identifier is the message or term whose pattern was being resolved.
	Identifier string
	// Variable is the variable name for variable problems.
	Variable string
	// Expected and Actual describe the type mismatch of InvalidVariableType.
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *FormatError) Error() string { return e.Message }

// LogValue implements slog.LogValuer.
func (e *FormatError) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("kind", e.Kind.String()),
		slog.String("message", e.Message),
		slog.String("identifier", e.Identifier),
	}

	if e.Variable != "" {
		attrs = append(attrs, slog.String("variable", e.Variable))
	}

	if e.Expected != "" || e.Actual != "" {
		attrs = append(attrs,
			slog.String("expected", e.Expected),
			slog.String("actual", e.Actual))
	}

	return slog.GroupValue(attrs...)
}

// CompileError pairs a load-time diagnostic with the source it came from.
// Err is a [*syntax.ParseError] or a [*ValidationError].
type CompileError struct {
	Source string
	Err    error
}

// Error implements the error interface.
func (e CompileError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying diagnostic.
func (e CompileError) Unwrap() error { return e.Err }
