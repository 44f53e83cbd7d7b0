package bundle

import (
	"errors"
	"fmt"
	"strconv"
)

// Function is a callable available to placeables as NAME(args). Positional
// arguments are resolved values; named arguments are literals.
type Function func(positional []Value, named map[string]Value) (Value, error)

var errNumberArgument = errors.New("NUMBER expects exactly one numeric argument")

// builtinFunctions returns the functions registered in every bundle.
func builtinFunctions() map[string]Function {
	return map[string]Function{
		"NUMBER": numberFunction,
	}
}

// numberFunction converts its argument to a [Number]. It honors the
// minimumFractionDigits and maximumFractionDigits options, which also
// affect plural selection ("1.0" is not "one" in English).
func numberFunction(positional []Value, named map[string]Value) (Value, error) {
	if len(positional) != 1 {
		return nil, errNumberArgument
	}

	var n Number

	switch arg := positional[0].(type) {
	case Number:
		n = arg
	case Text:
		parsed, err := ParseNumber(string(arg))
		if err != nil {
			return nil, fmt.Errorf("NUMBER: %w", err)
		}

		n = parsed
	default:
		return nil, errNumberArgument
	}

	minDigits, err := intOption(named, "minimumFractionDigits")
	if err != nil {
		return nil, err
	}

	maxDigits, err := intOption(named, "maximumFractionDigits")
	if err != nil {
		return nil, err
	}

	return n.withFractionDigits(minDigits, maxDigits), nil
}

// intOption returns the named option as a small non-negative integer, or -1
// when absent.
func intOption(named map[string]Value, name string) (int, error) {
	v, ok := named[name]
	if !ok {
		return -1, nil
	}

	d, err := strconv.Atoi(v.String())
	if err != nil || d < 0 || d > 20 {
		return -1, fmt.Errorf("NUMBER: option %s must be an integer in [0, 20], got %q",
			name, v.String())
	}

	return d, nil
}
