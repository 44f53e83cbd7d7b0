package syntax

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ardnew/ftl/log"
)

// DefaultMaxDepth is the default maximum nesting depth of placeables and
// call arguments. Users may modify this before parsing to change the default.
var DefaultMaxDepth = 100

// Option configures the parser.
type Option func(*config)

type config struct {
	maxDepth int
	logger   log.Logger
}

// WithMaxDepth sets the maximum nesting depth of placeables. Values below 1
// restore [DefaultMaxDepth].
func WithMaxDepth(depth int) Option {
	return func(c *config) {
		if depth < 1 {
			depth = DefaultMaxDepth
		}

		c.maxDepth = depth
	}
}

// WithLogger sets the logger used for parser trace output.
func WithLogger(logger log.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// ParseReader reads all of r and parses it as a resource named name.
// The returned error is non-nil only when reading fails; syntax problems are
// reported through the returned ParseError list.
func ParseReader(
	ctx context.Context,
	name string,
	r io.Reader,
	opts ...Option,
) (*Resource, []*ParseError, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, ErrReadInput.Wrap(err).
			With(slog.String("source", name))
	}

	res, errs := parse(ctx, name, string(data), opts...)

	return res, errs, nil
}

// Parse parses text as a resource. The name is only used in diagnostics.
//
// Parsing never fails as a whole: each malformed entry is recorded as [*Junk]
// together with a [*ParseError], and parsing resumes at the next line that
// looks like the start of an entry.
func Parse(name, text string, opts ...Option) (*Resource, []*ParseError) {
	return parse(log.DefaultContextProvider(), name, text, opts...)
}

func parse(
	ctx context.Context,
	name, text string,
	opts ...Option,
) (*Resource, []*ParseError) {
	cfg := config{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(&cfg)
	}

	p := &parser{src: text, maxDepth: cfg.maxDepth}
	res, errs := p.parseResource(name)

	cfg.logger.TraceContext(ctx, "parse complete",
		slog.String("source", name),
		slog.Int("bytes", len(text)),
		slog.Int("entries", len(res.Body)),
		slog.Int("errors", len(errs)))

	return res, errs
}

const byteOrderMark = "\ufeff"

// parser holds the parser state. All positions are byte offsets into src.
type parser struct {
	src      string
	pos      int
	depth    int
	maxDepth int
}

func (p *parser) parseResource(name string) (*Resource, []*ParseError) {
	res := &Resource{Name: name}

	var errs []*ParseError

	if strings.HasPrefix(p.src, byteOrderMark) {
		p.pos = len(byteOrderMark)
	}

	p.skipBlankBlock()

	for !p.eof() {
		start := p.pos

		entry, err := p.parseEntry()
		if err == nil {
			err = p.expectLineEnd()
		}

		if err != nil {
			errPos := err.pos

			p.skipToNextEntryStart(start)

			if p.pos < errPos {
				errPos = p.pos
			}

			res.Body = append(res.Body, &Junk{
				Content: p.src[start:p.pos],
				Span:    Span{Start: start, End: p.pos},
			})
			errs = append(errs, p.parseError(name, err, errPos))
		} else if entry != nil {
			res.Body = append(res.Body, entry)
		}

		p.skipBlankBlock()
	}

	return res, errs
}

func (p *parser) parseError(name string, err *syntaxError, pos int) *ParseError {
	line, col := lineColumn(p.src, pos)

	end := pos
	if pos < len(p.src) {
		_, size := utf8.DecodeRuneInString(p.src[pos:])
		end += size
	}

	return &ParseError{
		Kind:      err.kind,
		Message:   err.msg,
		Line:      line,
		Column:    col,
		ByteStart: pos,
		ByteEnd:   end,
		Source:    name,
	}
}

// skipToNextEntryStart moves past the broken entry to the beginning of the
// next line starting with a letter, "-", or "#".
func (p *parser) skipToNextEntryStart(junkStart int) {
	if p.pos < len(p.src) {
		if nl := strings.LastIndexByte(p.src[:p.pos+1], '\n'); nl > junkStart {
			p.pos = nl
		}
	}

	for !p.eof() {
		if p.src[p.pos] != '\n' {
			p.pos++

			continue
		}

		p.pos++

		if p.eof() {
			break
		}

		if c := p.src[p.pos]; isAlpha(c) || c == '-' || c == '#' {
			break
		}
	}
}

// parseEntry returns a nil Entry for comments.
func (p *parser) parseEntry() (Entry, *syntaxError) {
	switch c := p.cur(); {
	case c == '#':
		return nil, p.parseComment()

	case c == '-':
		return p.parseTerm()

	case isAlpha(c):
		return p.parseMessage()

	default:
		return nil, p.fail(KindExpectedEntry, "expected an entry start")
	}
}

// parseComment consumes one "#", "##", or "###" comment line.
func (p *parser) parseComment() *syntaxError {
	for i := 0; i < 3 && p.cur() == '#'; i++ {
		p.pos++
	}

	if p.atLineEnd() {
		return nil
	}

	if p.cur() != ' ' {
		return p.fail(KindExpectedToken, `expected token " "`)
	}

	for !p.atLineEnd() {
		p.pos++
	}

	return nil
}

// parseMessage parses: Identifier "=" Pattern? Attribute*.
func (p *parser) parseMessage() (Entry, *syntaxError) {
	start := p.pos

	id, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}

	p.skipBlankInline()

	if err := p.expect('='); err != nil {
		return nil, err
	}

	value, err := p.maybePattern()
	if err != nil {
		return nil, err
	}

	attrs, err := p.parseAttributes()
	if err != nil {
		return nil, err
	}

	if value == nil && len(attrs) == 0 {
		return nil, p.fail(KindExpectedMessageField,
			"expected a message field for %q", id.Name)
	}

	return &Message{
		ID:         id,
		Value:      value,
		Attributes: attrs,
		Span:       Span{Start: start, End: p.pos},
	}, nil
}

// parseTerm parses: "-" Identifier "=" Pattern Attribute*.
func (p *parser) parseTerm() (Entry, *syntaxError) {
	start := p.pos

	p.pos++ // skip '-'

	id, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}

	p.skipBlankInline()

	if err := p.expect('='); err != nil {
		return nil, err
	}

	value, err := p.maybePattern()
	if err != nil {
		return nil, err
	}

	if value == nil {
		return nil, p.fail(KindExpectedTermField,
			"expected a term field for %q", TermSigil+id.Name)
	}

	attrs, err := p.parseAttributes()
	if err != nil {
		return nil, err
	}

	return &Term{
		ID:         id,
		Value:      value,
		Attributes: attrs,
		Span:       Span{Start: start, End: p.pos},
	}, nil
}

func (p *parser) parseAttributes() ([]*Attribute, *syntaxError) {
	var attrs []*Attribute

	for {
		saved := p.pos

		p.skipBlank()

		if p.cur() != '.' {
			p.pos = saved

			return attrs, nil
		}

		start := p.pos

		attr, err := p.parseAttribute()
		if err != nil {
			return nil, err
		}

		if findAttribute(attrs, attr.ID.Name) != nil {
			return nil, &syntaxError{
				kind: KindDuplicateAttribute,
				msg:  "attribute " + strconv.Quote(attr.ID.Name) + " is defined more than once",
				pos:  start,
			}
		}

		attrs = append(attrs, attr)
	}
}

// parseAttribute parses: "." Identifier "=" Pattern.
func (p *parser) parseAttribute() (*Attribute, *syntaxError) {
	p.pos++ // skip '.'

	id, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}

	p.skipBlankInline()

	if err := p.expect('='); err != nil {
		return nil, err
	}

	value, err := p.maybePattern()
	if err != nil {
		return nil, err
	}

	if value == nil {
		return nil, p.fail(KindMissingValue, "expected a value")
	}

	return &Attribute{ID: id, Value: value}, nil
}

// maybePattern parses a pattern that starts either on the current line or
// on an indented following line. It returns nil without consuming input when
// there is no pattern.
func (p *parser) maybePattern() (*Pattern, *syntaxError) {
	saved := p.pos

	p.skipBlankInline()

	if !p.atLineEnd() {
		return p.parsePattern(false)
	}

	p.peekBlankBlock()

	if p.isValueContinuation() {
		return p.parsePattern(true)
	}

	p.pos = saved

	return nil, nil
}

// indent is a line break (plus any blank lines) followed by the leading
// spaces of a continuation line. It is resolved into text by dedent.
type indent struct {
	value string
}

// parsePattern collects text, placeables, and indents up to the first line
// end that is not followed by a continuation line, then strips the common
// indentation.
func (p *parser) parsePattern(block bool) (*Pattern, *syntaxError) {
	var elements []any

	common := -1

	if block {
		start := p.pos
		p.skipBlankInline()
		elements = append(elements, &indent{value: p.src[start:p.pos]})
		common = p.pos - start
	}

	for !p.eof() {
		switch c := p.src[p.pos]; {
		case p.atEOL():
			saved := p.pos
			lines := p.peekBlankBlock()

			if !p.isValueContinuation() {
				p.pos = saved

				return dedent(elements, common), nil
			}

			start := p.pos
			p.skipBlankInline()

			if width := p.pos - start; common < 0 || width < common {
				common = width
			}

			elements = append(elements, &indent{
				value: strings.Repeat("\n", lines) + p.src[start:p.pos],
			})

		case c == '{':
			ph, err := p.parsePlaceable()
			if err != nil {
				return nil, err
			}

			elements = append(elements, ph)

		case c == '}':
			return nil, p.fail(KindUnbalancedClosingBrace, "unbalanced closing brace")

		default:
			start := p.pos

			for !p.eof() {
				if c := p.src[p.pos]; c == '{' || c == '}' || p.atEOL() {
					break
				}

				p.pos++
			}

			elements = append(elements, &Text{Value: p.src[start:p.pos]})
		}
	}

	return dedent(elements, common), nil
}

func dedent(elements []any, common int) *Pattern {
	common = max(common, 0)

	out := make([]PatternElement, 0, len(elements))

	for _, el := range elements {
		var text string

		switch e := el.(type) {
		case *Placeable:
			out = append(out, e)

			continue

		case *indent:
			text = e.value[:len(e.value)-common]
			if text == "" {
				continue
			}

		case *Text:
			text = e.Value
		}

		if n := len(out); n > 0 {
			if prev, ok := out[n-1].(*Text); ok {
				out[n-1] = &Text{Value: prev.Value + text}

				continue
			}
		}

		out = append(out, &Text{Value: text})
	}

	if n := len(out); n > 0 {
		if last, ok := out[n-1].(*Text); ok {
			trimmed := strings.TrimRight(last.Value, " \n\r")
			if trimmed == "" {
				out = out[:n-1]
			} else {
				out[n-1] = &Text{Value: trimmed}
			}
		}
	}

	if len(out) == 0 {
		return nil
	}

	return &Pattern{Elements: out}
}

// parsePlaceable parses: "{" Expression "}".
func (p *parser) parsePlaceable() (*Placeable, *syntaxError) {
	if p.depth >= p.maxDepth {
		return nil, p.fail(KindDepthExceeded,
			"maximum nesting depth %d exceeded", p.maxDepth)
	}

	p.depth++
	defer func() { p.depth-- }()

	p.pos++ // skip '{'
	p.skipBlank()

	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if err := p.expect('}'); err != nil {
		return nil, err
	}

	return &Placeable{Expression: expr}, nil
}

// parseExpression parses an inline expression, optionally followed by
// "->" and a variant list.
func (p *parser) parseExpression() (Expression, *syntaxError) {
	selector, err := p.parseInlineExpression()
	if err != nil {
		return nil, err
	}

	p.skipBlank()

	if p.cur() != '-' || p.peekAt(1) != '>' {
		if t, ok := selector.(*TermReference); ok && t.Attribute != nil {
			return nil, p.fail(KindTermAttributeAsPlaceable,
				"term attributes can't be used as a placeable")
		}

		return selector, nil
	}

	switch s := selector.(type) {
	case *MessageReference:
		if s.Attribute == nil {
			return nil, p.fail(KindMessageReferenceAsSelector,
				"message references can't be used as a selector")
		}

		return nil, p.fail(KindMessageAttributeAsSelector,
			"message attributes can't be used as a selector")

	case *TermReference:
		if s.Attribute == nil {
			return nil, p.fail(KindTermReferenceAsSelector,
				"term references can't be used as a selector")
		}

	case *Placeable:
		return nil, p.fail(KindExpectedSimpleSelector,
			"expected a simple expression as selector")
	}

	p.pos += 2 // skip "->"
	p.skipBlankInline()

	if err := p.expectLineEnd(); err != nil {
		return nil, err
	}

	variants, err := p.parseVariants()
	if err != nil {
		return nil, err
	}

	return &SelectExpression{Selector: selector, Variants: variants}, nil
}

func (p *parser) parseVariants() ([]*Variant, *syntaxError) {
	var variants []*Variant

	hasDefault := false

	p.skipBlank()

	for p.isVariantStart() {
		v, err := p.parseVariant(hasDefault)
		if err != nil {
			return nil, err
		}

		hasDefault = hasDefault || v.Default
		variants = append(variants, v)

		if err := p.expectLineEnd(); err != nil {
			return nil, err
		}

		p.skipBlank()
	}

	if len(variants) == 0 {
		return nil, p.fail(KindMissingVariants,
			`expected at least one variant after "->"`)
	}

	if !hasDefault {
		return nil, p.fail(KindMissingDefaultVariant,
			"the select expression must have a default variant")
	}

	return variants, nil
}

// parseVariant parses: "*"? "[" VariantKey "]" Pattern.
func (p *parser) parseVariant(hasDefault bool) (*Variant, *syntaxError) {
	isDefault := false

	if p.cur() == '*' {
		if hasDefault {
			return nil, p.fail(KindMultipleDefaultVariants,
				"a select expression can only have one default variant")
		}

		p.pos++
		isDefault = true
	}

	if err := p.expect('['); err != nil {
		return nil, err
	}

	p.skipBlank()

	var key VariantKey

	if p.isNumberStart() {
		num, err := p.parseNumber()
		if err != nil {
			return nil, err
		}

		key = num
	} else {
		id, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}

		key = &id
	}

	p.skipBlank()

	if err := p.expect(']'); err != nil {
		return nil, err
	}

	value, err := p.maybePattern()
	if err != nil {
		return nil, err
	}

	if value == nil {
		return nil, p.fail(KindMissingValue, "expected a value")
	}

	return &Variant{Key: key, Value: value, Default: isDefault}, nil
}

var calleePattern = regexp.MustCompile(`^[A-Z][A-Z0-9_-]*$`)

func (p *parser) parseInlineExpression() (Expression, *syntaxError) {
	switch c := p.cur(); {
	case p.eof():
		return nil, p.fail(KindExpectedInlineExpression, "expected an inline expression")

	case c == '{':
		return p.parsePlaceable()

	case p.isNumberStart():
		return p.parseNumber()

	case c == '"':
		return p.parseString()

	case c == '$':
		p.pos++

		id, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}

		return &VariableReference{ID: id}, nil

	case c == '-':
		p.pos++

		id, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}

		ref := &TermReference{ID: id}

		if p.cur() == '.' {
			p.pos++

			attr, err := p.parseIdentifier()
			if err != nil {
				return nil, err
			}

			ref.Attribute = &attr
		}

		saved := p.pos
		p.skipBlank()

		if p.cur() != '(' {
			p.pos = saved

			return ref, nil
		}

		ref.Arguments, err = p.parseCallArguments()
		if err != nil {
			return nil, err
		}

		return ref, nil

	case isAlpha(c):
		id, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}

		saved := p.pos
		p.skipBlank()

		if p.cur() == '(' {
			if !calleePattern.MatchString(id.Name) {
				return nil, p.fail(KindForbiddenCallee, "forbidden callee %q", id.Name)
			}

			args, err := p.parseCallArguments()
			if err != nil {
				return nil, err
			}

			return &FunctionReference{ID: id, Arguments: args}, nil
		}

		p.pos = saved
		ref := &MessageReference{ID: id}

		if p.cur() == '.' {
			p.pos++

			attr, err := p.parseIdentifier()
			if err != nil {
				return nil, err
			}

			ref.Attribute = &attr
		}

		return ref, nil

	default:
		return nil, p.fail(KindExpectedInlineExpression, "expected an inline expression")
	}
}

// parseCallArguments parses: "(" (Argument ("," Argument)* ","?)? ")".
// Positional arguments must precede named ones; named ones must be unique.
func (p *parser) parseCallArguments() (*CallArguments, *syntaxError) {
	if p.depth >= p.maxDepth {
		return nil, p.fail(KindDepthExceeded,
			"maximum nesting depth %d exceeded", p.maxDepth)
	}

	p.depth++
	defer func() { p.depth-- }()

	p.pos++ // skip '('
	p.skipBlank()

	args := &CallArguments{}
	seen := make(map[string]struct{})

	for !p.eof() && p.cur() != ')' {
		expr, named, err := p.parseCallArgument()
		if err != nil {
			return nil, err
		}

		if named != nil {
			if _, dup := seen[named.Name.Name]; dup {
				return nil, p.fail(KindDuplicatedNamedArgument,
					"the %q argument appears twice", named.Name.Name)
			}

			seen[named.Name.Name] = struct{}{}
			args.Named = append(args.Named, named)
		} else {
			if len(seen) > 0 {
				return nil, p.fail(KindPositionalAfterNamed,
					"positional arguments must come before named arguments")
			}

			args.Positional = append(args.Positional, expr)
		}

		p.skipBlank()

		if p.cur() != ',' {
			break
		}

		p.pos++
		p.skipBlank()
	}

	if err := p.expect(')'); err != nil {
		return nil, err
	}

	return args, nil
}

func (p *parser) parseCallArgument() (Expression, *NamedArgument, *syntaxError) {
	expr, err := p.parseInlineExpression()
	if err != nil {
		return nil, nil, err
	}

	p.skipBlank()

	if p.cur() != ':' {
		return expr, nil, nil
	}

	ref, ok := expr.(*MessageReference)
	if !ok || ref.Attribute != nil {
		return nil, nil, p.fail(KindInvalidArgumentName,
			"the argument name has to be a simple identifier")
	}

	p.pos++ // skip ':'
	p.skipBlank()

	value, err := p.parseLiteral()
	if err != nil {
		return nil, nil, err
	}

	return nil, &NamedArgument{Name: ref.ID, Value: value}, nil
}

func (p *parser) parseLiteral() (Expression, *syntaxError) {
	switch {
	case p.isNumberStart():
		return p.parseNumber()

	case p.cur() == '"':
		return p.parseString()

	default:
		return nil, p.fail(KindExpectedLiteral, "expected a string or number literal")
	}
}

// parseNumber parses: "-"? digits ("." digits)?. A literal too large for
// float64 is kept with Overflow set.
func (p *parser) parseNumber() (*NumberLiteral, *syntaxError) {
	start := p.pos

	if p.cur() == '-' {
		p.pos++
	}

	if err := p.parseDigits(); err != nil {
		return nil, err
	}

	if p.cur() == '.' {
		p.pos++

		if err := p.parseDigits(); err != nil {
			return nil, err
		}
	}

	raw := p.src[start:p.pos]
	value, err := strconv.ParseFloat(raw, 64)

	return &NumberLiteral{Raw: raw, Value: value, Overflow: err != nil}, nil
}

func (p *parser) parseDigits() *syntaxError {
	start := p.pos

	for !p.eof() && isDigit(p.src[p.pos]) {
		p.pos++
	}

	if p.pos == start {
		return p.fail(KindExpectedCharRange, "expected a character from range 0-9")
	}

	return nil
}

// parseString parses a quoted string literal, decoding escapes.
func (p *parser) parseString() (*StringLiteral, *syntaxError) {
	p.pos++ // skip '"'
	start := p.pos

	var sb strings.Builder

	for {
		if p.atLineEnd() {
			return nil, p.fail(KindUnterminatedString, "unterminated string literal")
		}

		c := p.src[p.pos]
		if c == '"' {
			break
		}

		if c != '\\' {
			sb.WriteByte(c)
			p.pos++

			continue
		}

		if err := p.parseEscape(&sb); err != nil {
			return nil, err
		}
	}

	raw := p.src[start:p.pos]
	p.pos++ // skip '"'

	return &StringLiteral{Value: sb.String(), Raw: raw}, nil
}

func (p *parser) parseEscape(sb *strings.Builder) *syntaxError {
	p.pos++ // skip '\'

	if p.eof() {
		return p.fail(KindUnknownEscapeSequence, `unknown escape sequence "\"`)
	}

	switch c := p.src[p.pos]; c {
	case '\\', '"':
		sb.WriteByte(c)
		p.pos++

		return nil

	case 'u':
		return p.parseUnicodeEscape(sb, c, 4)

	case 'U':
		return p.parseUnicodeEscape(sb, c, 6)

	default:
		r, _ := utf8.DecodeRuneInString(p.src[p.pos:])

		return p.fail(KindUnknownEscapeSequence, `unknown escape sequence "\%c"`, r)
	}
}

func (p *parser) parseUnicodeEscape(sb *strings.Builder, u byte, n int) *syntaxError {
	p.pos++ // skip 'u' or 'U'
	start := p.pos

	for i := 0; i < n; i++ {
		if p.eof() || !isHexDigit(p.src[p.pos]) {
			return p.fail(KindInvalidUnicodeEscape,
				`invalid unicode escape sequence "\%c%s"`, u, p.src[start:p.pos])
		}

		p.pos++
	}

	cp, _ := strconv.ParseUint(p.src[start:p.pos], 16, 32)

	r := rune(cp)
	if !utf8.ValidRune(r) {
		r = utf8.RuneError
	}

	sb.WriteRune(r)

	return nil
}

// parseIdentifier parses: [a-zA-Z][a-zA-Z0-9_-]*.
func (p *parser) parseIdentifier() (Identifier, *syntaxError) {
	start := p.pos

	if !isAlpha(p.cur()) {
		return Identifier{}, p.fail(KindExpectedCharRange,
			"expected a character from range a-zA-Z")
	}

	p.pos++

	for !p.eof() {
		c := p.src[p.pos]
		if !isAlpha(c) && !isDigit(c) && c != '_' && c != '-' {
			break
		}

		p.pos++
	}

	return Identifier{Name: p.src[start:p.pos]}, nil
}

// Helper methods

func (p *parser) eof() bool { return p.pos >= len(p.src) }

// cur returns the current byte, or 0 at end of input.
func (p *parser) cur() byte { return p.peekAt(0) }

func (p *parser) peekAt(n int) byte {
	if p.pos+n >= len(p.src) {
		return 0
	}

	return p.src[p.pos+n]
}

// eolLen returns the length of the line ending at the current position, or 0.
func (p *parser) eolLen() int {
	switch {
	case p.cur() == '\n':
		return 1
	case p.cur() == '\r' && p.peekAt(1) == '\n':
		return 2
	default:
		return 0
	}
}

func (p *parser) atEOL() bool { return p.eolLen() > 0 }

func (p *parser) atLineEnd() bool { return p.eof() || p.atEOL() }

func (p *parser) expect(c byte) *syntaxError {
	if p.eof() || p.src[p.pos] != c {
		return p.fail(KindExpectedToken, "expected token %q", string(c))
	}

	p.pos++

	return nil
}

func (p *parser) expectLineEnd() *syntaxError {
	if p.eof() {
		return nil
	}

	if n := p.eolLen(); n > 0 {
		p.pos += n

		return nil
	}

	return p.fail(KindExpectedToken, `expected token "\n"`)
}

func (p *parser) skipBlankInline() {
	for p.cur() == ' ' {
		p.pos++
	}
}

// skipBlank skips spaces and line ends.
func (p *parser) skipBlank() {
	for {
		switch {
		case p.cur() == ' ':
			p.pos++
		case p.atEOL():
			p.pos += p.eolLen()
		default:
			return
		}
	}
}

// skipBlankBlock skips blank lines between entries, including trailing
// spaces at end of input.
func (p *parser) skipBlankBlock() {
	for {
		start := p.pos
		p.skipBlankInline()

		if p.eof() {
			return
		}

		if n := p.eolLen(); n > 0 {
			p.pos += n

			continue
		}

		p.pos = start

		return
	}
}

// peekBlankBlock moves to the first column of the next non-blank line and
// returns the number of line ends crossed.
func (p *parser) peekBlankBlock() int {
	lines := 0

	for {
		start := p.pos
		p.skipBlankInline()

		if n := p.eolLen(); n > 0 {
			p.pos += n
			lines++

			continue
		}

		p.pos = start

		return lines
	}
}

// isValueContinuation reports whether the line starting at the current
// position continues a pattern. It does not consume input.
func (p *parser) isValueContinuation() bool {
	start := p.pos
	defer func() { p.pos = start }()

	p.skipBlankInline()

	if p.cur() == '{' {
		return true
	}

	if p.pos == start || p.atLineEnd() {
		return false
	}

	switch p.src[p.pos] {
	case '}', '.', '[', '*':
		return false
	default:
		return true
	}
}

func (p *parser) isVariantStart() bool {
	if p.cur() == '*' {
		return p.peekAt(1) == '['
	}

	return p.cur() == '['
}

func (p *parser) isNumberStart() bool {
	if p.cur() == '-' {
		return isDigit(p.peekAt(1))
	}

	return isDigit(p.cur())
}

// Character classification

func isAlpha(c byte) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHexDigit(c byte) bool {
	return isDigit(c) || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}
