package bundle

import (
	"fmt"
	"log/slog"
	"maps"
	"strings"

	"github.com/ardnew/ftl/syntax"
)

// Unicode directional isolation marks placed around placeables.
const (
	isolateStart = "\u2068" // FIRST STRONG ISOLATE
	isolateEnd   = "\u2069" // POP DIRECTIONAL ISOLATE
)

// FormatOption configures a single call to [Bundle.Format].
type FormatOption func(*formatConfig)

type formatConfig struct {
	isolate bool
}

// WithIsolation controls whether placeables are wrapped in Unicode
// directional isolation marks. Isolation is enabled by default.
func WithIsolation(isolate bool) FormatOption {
	return func(c *formatConfig) { c.isolate = isolate }
}

// Format resolves the message id ("name" or "name.attribute") with vars.
//
// The only errors are an unknown message ([ErrUnknownMessage]), a missing
// attribute ([ErrUnknownAttribute]) and a message without a value
// ([ErrNoValue]). Every other problem is returned as a [*FormatError] in
// pattern order, and the output carries a visible placeholder in its place.
func (b *Bundle) Format(
	id string,
	vars map[string]any,
	opts ...FormatOption,
) (string, []*FormatError, error) {
	fc := formatConfig{isolate: true}

	for _, opt := range opts {
		if opt != nil {
			opt(&fc)
		}
	}

	pattern, err := b.lookup(id)
	if err != nil {
		return "", nil, err
	}

	ident, _, _ := strings.Cut(id, ".")

	s := &scope{
		bundle:  b,
		vars:    vars,
		isolate: fc.isolate,
		ident:   ident,
		active:  map[*syntax.Pattern]bool{pattern: true},
	}

	out := s.pattern(pattern)

	if len(s.errs) > 0 {
		b.cfg.logger.Debug("formatted with errors",
			slog.String("id", id),
			slog.Int("errors", len(s.errs)))
	}

	return out, s.errs, nil
}

// Translate resolves id like [Bundle.Format] and appends any format errors
// to *errs when errs is non-nil.
func (b *Bundle) Translate(
	id string,
	vars map[string]any,
	isolating bool,
	errs *[]*FormatError,
) (string, error) {
	out, ferrs, err := b.Format(id, vars, WithIsolation(isolating))
	if errs != nil {
		*errs = append(*errs, ferrs...)
	}

	return out, err
}

// lookup returns the pattern named by a top-level id.
func (b *Bundle) lookup(id string) (*syntax.Pattern, error) {
	name, attr, hasAttr := strings.Cut(id, ".")

	msg, ok := b.message(name)
	if !ok || strings.HasPrefix(name, syntax.TermSigil) {
		return nil, ErrUnknownMessage.With(slog.String("id", name))
	}

	if hasAttr {
		a := msg.Attribute(attr)
		if a == nil {
			return nil, ErrUnknownAttribute.With(
				slog.String("id", name),
				slog.String("attribute", attr))
		}

		return a.Value, nil
	}

	if msg.Value == nil {
		return nil, ErrNoValue.With(slog.String("id", name))
	}

	return msg.Value, nil
}

// scope is the state of one Format call.
type scope struct {
	bundle  *Bundle
	vars    map[string]any
	isolate bool
	errs    []*FormatError

	// ident is the message or term whose pattern is being resolved.
	ident string
	// active holds the patterns on the current reference chain.
	active map[*syntax.Pattern]bool
	depth  int

	placeables int
	// dirty is set once the placeable budget is spent; resolution stops.
	dirty bool
}

func (s *scope) fail(kind FormatKind, format string, args ...any) {
	s.errs = append(s.errs, &FormatError{
		Kind:       kind,
		Message:    fmt.Sprintf(format, args...),
		Identifier: s.ident,
	})
}

func (s *scope) pattern(p *syntax.Pattern) string {
	var sb strings.Builder

	for _, el := range p.Elements {
		if s.dirty {
			break
		}

		switch el := el.(type) {
		case *syntax.Text:
			sb.WriteString(el.Value)
		case *syntax.Placeable:
			s.placeables++
			if s.placeables > s.bundle.cfg.maxPlaceables {
				s.dirty = true
				s.fail(TooManyPlaceables,
					"too many placeables expanded in one call (limit %d)",
					s.bundle.cfg.maxPlaceables)

				return sb.String()
			}

			v := s.expression(el.Expression)

			if s.isolate {
				sb.WriteString(isolateStart)
				sb.WriteString(v.String())
				sb.WriteString(isolateEnd)
			} else {
				sb.WriteString(v.String())
			}
		}
	}

	return sb.String()
}

func (s *scope) expression(expr syntax.Expression) Value {
	switch e := expr.(type) {
	case *syntax.StringLiteral:
		return Text(e.Value)
	case *syntax.NumberLiteral:
		return literalNumber(e)
	case *syntax.VariableReference:
		return s.variable(e.ID.Name)
	case *syntax.MessageReference:
		return s.message(e)
	case *syntax.TermReference:
		return s.term(e)
	case *syntax.FunctionReference:
		return s.call(e)
	case *syntax.SelectExpression:
		return s.selectVariant(e)
	case *syntax.Placeable:
		return s.expression(e.Expression)
	default:
		return fallback("???")
	}
}

func (s *scope) variable(name string) Value {
	raw, ok := s.vars[name]
	if !ok {
		// Term parameters are optional; a term falls back to its default
		// variant without a diagnostic.
		if strings.HasPrefix(s.ident, syntax.TermSigil) {
			return fallback(name)
		}

		s.errs = append(s.errs, &FormatError{
			Kind:       MissingVariable,
			Message:    "unknown variable: $" + name,
			Identifier: s.ident,
			Variable:   name,
		})

		return fallback(name)
	}

	v, verr := toValue(raw)
	if verr != nil {
		s.errs = append(s.errs, &FormatError{
			Kind: InvalidVariableType,
			Message: fmt.Sprintf("variable $%s: %s: expected %s, got %s",
				name, verr.reason, verr.expected, verr.actual),
			Identifier: s.ident,
			Variable:   name,
			Expected:   verr.expected,
			Actual:     verr.actual,
		})

		return fallback(name)
	}

	return v
}

func (s *scope) message(ref *syntax.MessageReference) Value {
	name := ref.Name()

	msg, ok := s.bundle.message(ref.ID.Name)
	if !ok {
		s.fail(UnknownReference, "unknown message: %s", name)

		return fallback("{" + name + "}")
	}

	p := msg.Value

	if ref.Attribute != nil {
		a := msg.Attribute(ref.Attribute.Name)
		if a == nil {
			s.fail(UnknownReference, "unknown attribute: %s", name)

			return fallback("{" + name + "}")
		}

		p = a.Value
	}

	if p == nil {
		s.fail(UnknownReference, "message %s has no value", name)

		return fallback("{" + name + "}")
	}

	return s.reference(ref.ID.Name, name, p, s.vars)
}

// term resolves a term reference. Named arguments shadow the ambient
// variables while the term is resolved; positional arguments are ignored.
func (s *scope) term(ref *syntax.TermReference) Value {
	name := ref.Name()

	term, ok := s.bundle.term(ref.ID.Name)
	if !ok {
		s.fail(UnknownReference, "unknown term: %s", name)

		return fallback("{" + name + "}")
	}

	p := term.Value

	if ref.Attribute != nil {
		a := term.Attribute(ref.Attribute.Name)
		if a == nil {
			s.fail(UnknownReference, "unknown attribute: %s", name)

			return fallback("{" + name + "}")
		}

		p = a.Value
	}

	vars := s.vars

	if ref.Arguments != nil && len(ref.Arguments.Named) > 0 {
		vars = maps.Clone(s.vars)
		if vars == nil {
			vars = make(map[string]any, len(ref.Arguments.Named))
		}

		for _, arg := range ref.Arguments.Named {
			vars[arg.Name.Name] = s.expression(arg.Value)
		}
	}

	return s.reference(syntax.TermSigil+ref.ID.Name, name, p, vars)
}

// reference resolves the pattern of another entry, guarding against cycles
// and excessive nesting.
func (s *scope) reference(ident, name string, p *syntax.Pattern, vars map[string]any) Value {
	if s.active[p] {
		s.fail(CyclicExpansion, "cyclic reference: %s", name)

		return fallback("{" + name + "}")
	}

	if s.depth >= s.bundle.cfg.maxDepth {
		s.fail(DepthExceeded, "reference depth exceeds %d at %s",
			s.bundle.cfg.maxDepth, name)

		return fallback("{" + name + "}")
	}

	prevIdent, prevVars := s.ident, s.vars

	s.ident, s.vars = ident, vars
	s.active[p] = true
	s.depth++

	out := s.pattern(p)

	s.depth--
	delete(s.active, p)
	s.ident, s.vars = prevIdent, prevVars

	return Text(out)
}

func (s *scope) call(ref *syntax.FunctionReference) Value {
	name := ref.ID.Name

	fn, ok := s.bundle.cfg.functions[name]
	if !ok {
		s.fail(UnknownFunction, "unknown function: %s()", name)

		return fallback(name + "()")
	}

	var (
		positional []Value
		named      map[string]Value
	)

	if args := ref.Arguments; args != nil {
		positional = make([]Value, 0, len(args.Positional))

		for _, arg := range args.Positional {
			v := s.expression(arg)
			if n, ok := v.(Number); ok && n.Overflow() {
				s.fail(NumberOverflow, "number %s is out of range in %s()", n, name)

				return fallback(name + "()")
			}

			positional = append(positional, v)
		}

		named = make(map[string]Value, len(args.Named))

		for _, arg := range args.Named {
			named[arg.Name.Name] = s.expression(arg.Value)
		}
	}

	v, err := fn(positional, named)
	if err != nil {
		s.fail(FunctionFailed, "%s(): %v", name, err)

		return fallback(name + "()")
	}

	if v == nil {
		return Text("")
	}

	return v
}

func (s *scope) selectVariant(sel *syntax.SelectExpression) Value {
	key := s.expression(sel.Selector)

	variant := s.match(key, sel.Variants)
	if variant == nil {
		variant = sel.DefaultVariant()
	}

	if variant == nil {
		return fallback("???")
	}

	return Text(s.pattern(variant.Value))
}

// match returns the variant selected by key, or nil to use the default.
// An exact key wins over a plural category.
func (s *scope) match(key Value, variants []*syntax.Variant) *syntax.Variant {
	switch k := key.(type) {
	case fallback:
		return nil
	case Number:
		if k.Overflow() {
			s.fail(NumberOverflow, "number %s is out of range in selector", k)

			return nil
		}

		for _, v := range variants {
			if lit, ok := v.Key.(*syntax.NumberLiteral); ok &&
				!lit.Overflow && lit.Value == k.Value {
				return v
			}
		}

		category := string(s.bundle.cfg.plurals.Category(s.bundle.lang, k))

		for _, v := range variants {
			if id, ok := v.Key.(*syntax.Identifier); ok && id.Name == category {
				return v
			}
		}
	default:
		text := key.String()

		for _, v := range variants {
			if id, ok := v.Key.(*syntax.Identifier); ok && id.Name == text {
				return v
			}
		}
	}

	return nil
}
