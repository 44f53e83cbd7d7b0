package bundle

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ardnew/ftl/syntax"
)

// Value is the result of resolving an expression.
// It is a [Text] or a [Number]; functions may return either.
type Value interface {
	String() string
}

// Text is a string value.
type Text string

// String returns the text.
func (t Text) String() string { return string(t) }

// fallback is the visible placeholder for an expression that failed to
// resolve. It never matches a variant key.
type fallback string

func (f fallback) String() string { return string(f) }

// Number is a numeric value that remembers its decimal representation, so
// "1.50" is rendered as written and selects plural forms by its visible
// fraction digits.
type Number struct {
	Value    float64
	text     string
	overflow bool
}

// IntNumber returns the Number for n.
func IntNumber(n int64) Number {
	return Number{Value: float64(n), text: strconv.FormatInt(n, 10)}
}

// FloatNumber returns the Number for f in its shortest decimal form.
func FloatNumber(f float64) Number {
	return Number{Value: f, text: strconv.FormatFloat(f, 'f', -1, 64)}
}

// ParseNumber parses a decimal string, keeping s as the representation.
func ParseNumber(s string) (Number, error) {
	s = strings.TrimSpace(s)

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || strings.ContainsAny(s, "eEnNiIxXpP_") {
		return Number{}, fmt.Errorf("invalid number %q", s)
	}

	return Number{Value: f, text: s}, nil
}

func literalNumber(lit *syntax.NumberLiteral) Number {
	return Number{Value: lit.Value, text: lit.Raw, overflow: lit.Overflow}
}

// String returns the decimal representation.
func (n Number) String() string {
	if n.text == "" {
		return strconv.FormatFloat(n.Value, 'f', -1, 64)
	}

	return n.text
}

// Overflow reports whether the number came from a literal too large for
// float64.
func (n Number) Overflow() bool { return n.overflow }

// operandLimit bounds plural operands; the rules only inspect the low digits.
const operandLimit = 10_000_000

// operands returns the CLDR plural operands of the decimal representation:
// integer digits i, visible fraction digit count v (and w without trailing
// zeros), and the fraction digits f (and t without trailing zeros). Values
// are reduced modulo 10,000,000.
func (n Number) operands() (i, v, w, f, t int) {
	s := strings.TrimPrefix(n.String(), "-")
	intPart, frac, _ := strings.Cut(s, ".")
	trimmed := strings.TrimRight(frac, "0")

	return digitsMod(intPart), len(frac), len(trimmed), digitsMod(frac), digitsMod(trimmed)
}

func digitsMod(s string) int {
	n := 0

	for _, c := range s {
		if c >= '0' && c <= '9' {
			n = (n*10 + int(c-'0')) % operandLimit
		}
	}

	return n
}

// withFractionDigits re-renders n with at least minDigits and at most
// maxDigits fraction digits. A negative bound is ignored.
func (n Number) withFractionDigits(minDigits, maxDigits int) Number {
	_, frac, _ := strings.Cut(n.String(), ".")
	digits := len(frac)

	if maxDigits >= 0 && digits > maxDigits {
		digits = maxDigits
		n.text = strconv.FormatFloat(n.Value, 'f', digits, 64)
	}

	if minDigits > digits {
		n.text = strconv.FormatFloat(n.Value, 'f', minDigits, 64)
	}

	return n
}

// VariablesOf converts a dynamically typed mapping into variables. A key
// that is not a string is a caller error reported with [ErrVariableKey]; it
// is never deferred to formatting.
func VariablesOf(m map[any]any) (map[string]any, error) {
	vars := make(map[string]any, len(m))

	for k, v := range m {
		name, ok := k.(string)
		if !ok {
			return nil, ErrVariableKey.With(
				slog.String("key", fmt.Sprint(k)),
				slog.String("type", fmt.Sprintf("%T", k)))
		}

		vars[name] = v
	}

	return vars, nil
}

// variableError describes why a variable could not be converted.
type variableError struct {
	expected, actual, reason string
}

const supportedKinds = "string, integer, time.Time, or bundle.Number"

// toValue converts a caller-supplied variable into a [Value].
// Integers must fit in 32 bits; dates render as YYYY-MM-DD.
func toValue(v any) (Value, *variableError) {
	var (
		signed   int64
		unsigned uint64
		isSigned bool
	)

	switch x := v.(type) {
	case string:
		return Text(x), nil
	case Text:
		return x, nil
	case Number:
		return x, nil
	case time.Time:
		return Text(x.Format(time.DateOnly)), nil
	case int:
		signed, isSigned = int64(x), true
	case int8:
		signed, isSigned = int64(x), true
	case int16:
		signed, isSigned = int64(x), true
	case int32:
		signed, isSigned = int64(x), true
	case int64:
		signed, isSigned = x, true
	case uint:
		unsigned = uint64(x)
	case uint8:
		unsigned = uint64(x)
	case uint16:
		unsigned = uint64(x)
	case uint32:
		unsigned = uint64(x)
	case uint64:
		unsigned = x
	default:
		return nil, &variableError{
			expected: supportedKinds,
			actual:   fmt.Sprintf("%T", v),
			reason:   "unsupported type",
		}
	}

	if !isSigned {
		if unsigned > math.MaxInt32 {
			return nil, outOfRange(v)
		}

		signed = int64(unsigned)
	}

	if signed < math.MinInt32 || signed > math.MaxInt32 {
		return nil, outOfRange(v)
	}

	return IntNumber(signed), nil
}

func outOfRange(v any) *variableError {
	return &variableError{
		expected: "int32",
		actual:   fmt.Sprintf("%T(%v)", v, v),
		reason:   "integer out of 32-bit range",
	}
}
