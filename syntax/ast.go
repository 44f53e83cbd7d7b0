package syntax

import (
	"iter"
	"strings"
)

// Resource is the ordered list of entries parsed from one source text.
type Resource struct {
	Name string
	Body []Entry
}

// Span is a half-open range of byte offsets into the source text.
type Span struct {
	Start int
	End   int
}

// Entry is a top-level item of a [Resource]: a [*Message], a [*Term], or
// [*Junk].
type Entry interface {
	EntrySpan() Span
	entry()
}

// Identifier names a message, term, attribute, variable, or function.
type Identifier struct {
	Name string
}

// Message is a public translation entry.
type Message struct {
	ID         Identifier
	Value      *Pattern // nil when the message only has attributes
	Attributes []*Attribute
	Span       Span
}

// Term is a private translation entry referenced with the "-" sigil.
type Term struct {
	ID         Identifier
	Value      *Pattern
	Attributes []*Attribute
	Span       Span
}

// Attribute is a named sub-pattern of a message or term.
type Attribute struct {
	ID    Identifier
	Value *Pattern
}

// Junk holds the text of an entry that failed to parse.
type Junk struct {
	Content string
	Span    Span
}

func (m *Message) EntrySpan() Span { return m.Span }
func (t *Term) EntrySpan() Span    { return t.Span }
func (j *Junk) EntrySpan() Span    { return j.Span }

func (*Message) entry() {}
func (*Term) entry()    {}
func (*Junk) entry()    {}

// Attribute returns the attribute with the given name, or nil.
func (m *Message) Attribute(name string) *Attribute {
	return findAttribute(m.Attributes, name)
}

// Attribute returns the attribute with the given name, or nil.
func (t *Term) Attribute(name string) *Attribute {
	return findAttribute(t.Attributes, name)
}

func findAttribute(attrs []*Attribute, name string) *Attribute {
	for _, a := range attrs {
		if a.ID.Name == name {
			return a
		}
	}

	return nil
}

// Messages returns an iterator over the messages of the resource in source
// order.
func (r *Resource) Messages() iter.Seq[*Message] {
	return func(yield func(*Message) bool) {
		for _, e := range r.Body {
			if m, ok := e.(*Message); ok && !yield(m) {
				return
			}
		}
	}
}

// Terms returns an iterator over the terms of the resource in source order.
func (r *Resource) Terms() iter.Seq[*Term] {
	return func(yield func(*Term) bool) {
		for _, e := range r.Body {
			if t, ok := e.(*Term); ok && !yield(t) {
				return
			}
		}
	}
}

// Pattern is the renderable content of a message, term, attribute, or
// variant. A parsed Pattern always has at least one element.
type Pattern struct {
	Elements []PatternElement
}

// PatternElement is a [*Text] run or a [*Placeable].
type PatternElement interface {
	patternElement()
}

// Text is a literal run of pattern text.
type Text struct {
	Value string
}

// Placeable embeds an expression in a pattern. A Placeable is also an
// [Expression] when nested directly inside another placeable.
type Placeable struct {
	Expression Expression
}

func (*Text) patternElement()      {}
func (*Placeable) patternElement() {}

// Expression is the content of a placeable.
type Expression interface {
	expression()
}

// StringLiteral is a quoted string. Value has escapes already decoded.
type StringLiteral struct {
	Value string
	Raw   string
}

// NumberLiteral is a decimal number. Raw keeps the source text; Overflow
// reports that Value could not represent it.
type NumberLiteral struct {
	Raw      string
	Value    float64
	Overflow bool
}

// VariableReference refers to a caller-supplied variable: $name.
type VariableReference struct {
	ID Identifier
}

// MessageReference refers to another message: name or name.attr.
type MessageReference struct {
	ID        Identifier
	Attribute *Identifier
}

// TermReference refers to a term: -name, -name.attr, or -name(args).
type TermReference struct {
	ID        Identifier
	Attribute *Identifier
	Arguments *CallArguments
}

// FunctionReference calls a function: NAME(args).
type FunctionReference struct {
	ID        Identifier
	Arguments *CallArguments
}

// CallArguments are the arguments of a term or function call.
type CallArguments struct {
	Positional []Expression
	Named      []*NamedArgument
}

// NamedArgument is a name: literal pair. Value is a [*StringLiteral] or a
// [*NumberLiteral].
type NamedArgument struct {
	Name  Identifier
	Value Expression
}

// SelectExpression picks one of its variants based on the selector value.
type SelectExpression struct {
	Selector Expression
	Variants []*Variant
}

// Variant is one branch of a [*SelectExpression].
type Variant struct {
	Key     VariantKey
	Value   *Pattern
	Default bool
}

// VariantKey is an [*Identifier] or a [*NumberLiteral].
type VariantKey interface {
	variantKey()
	String() string
}

func (*StringLiteral) expression()     {}
func (*NumberLiteral) expression()     {}
func (*VariableReference) expression() {}
func (*MessageReference) expression()  {}
func (*TermReference) expression()     {}
func (*FunctionReference) expression() {}
func (*SelectExpression) expression()  {}
func (*Placeable) expression()         {}

func (*Identifier) variantKey()    {}
func (*NumberLiteral) variantKey() {}

// String returns the identifier name.
func (id *Identifier) String() string { return id.Name }

// String returns the literal source text.
func (n *NumberLiteral) String() string { return n.Raw }

// DefaultVariant returns the variant marked with "*".
func (s *SelectExpression) DefaultVariant() *Variant {
	for _, v := range s.Variants {
		if v.Default {
			return v
		}
	}

	return nil
}

// Name returns the reference in source form, e.g. "msg.attr".
func (r *MessageReference) Name() string {
	return qualifiedName("", r.ID, r.Attribute)
}

// Name returns the reference in source form, e.g. "-term.attr".
func (r *TermReference) Name() string {
	return qualifiedName(TermSigil, r.ID, r.Attribute)
}

// TermSigil prefixes term identifiers in source and in bundle keys.
const TermSigil = "-"

func qualifiedName(prefix string, id Identifier, attr *Identifier) string {
	var sb strings.Builder

	sb.WriteString(prefix)
	sb.WriteString(id.Name)

	if attr != nil {
		sb.WriteByte('.')
		sb.WriteString(attr.Name)
	}

	return sb.String()
}
