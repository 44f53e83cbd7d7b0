package syntax_test

import (
	"errors"
	"slices"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/ardnew/ftl/syntax"
)

// flatten renders a pattern as its text with each placeable shown as "{}".
func flatten(p *syntax.Pattern) string {
	if p == nil {
		return "<nil>"
	}

	var sb strings.Builder

	for _, el := range p.Elements {
		switch el := el.(type) {
		case *syntax.Text:
			sb.WriteString(el.Value)
		case *syntax.Placeable:
			sb.WriteString("{}")
		}
	}

	return sb.String()
}

func mustParse(t *testing.T, src string) *syntax.Resource {
	t.Helper()

	res, errs := syntax.Parse("test.ftl", src)
	for _, err := range errs {
		t.Errorf("unexpected parse error: %v", err)
	}

	return res
}

func firstMessage(t *testing.T, res *syntax.Resource) *syntax.Message {
	t.Helper()

	for m := range res.Messages() {
		return m
	}

	t.Fatal("no message parsed")

	return nil
}

func TestParse_PatternValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"inline", "hello = Hello, world!\n", "Hello, world!"},
		{"no trailing newline", "hello = Hello", "Hello"},
		{"trailing spaces trimmed", "hello = Hello   \n", "Hello"},
		{"block", "multi =\n    Line one\n    Line two\n", "Line one\nLine two"},
		{"inline then block", "m = a\n      b\n   c\n", "a\n   b\nc"},
		{"first line extra indent", "m =\n        a\n    b\n", "    a\nb"},
		{"blank lines kept", "m =\n    a\n\n    b\n", "a\n\nb"},
		{"blank lines with spaces", "m =\n    a\n   \n    b\n", "a\n\nb"},
		{"trailing blank lines trimmed", "m = a\n\n\n", "a"},
		{"crlf", "m =\r\n    x\r\n    y\r\n", "x\ny"},
		{"placeable at column one", "m =\n{ $x } text\n", "{} text"},
		{"placeables", "m = a { $x } b { -t } c\n", "a {} b {} c"},
		{"tab is text", "m = a\tb\n", "a\tb"},
		{"unicode text", "m = Grüße, 世界\n", "Grüße, 世界"},
		{"leading bom", "\ufeffm = x\n", "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := mustParse(t, tt.input)
			if got := flatten(firstMessage(t, res).Value); got != tt.want {
				t.Errorf("value = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParse_Attributes(t *testing.T) {
	t.Parallel()

	res := mustParse(t, `login = Predefined value
    .placeholder = email@example.com
    .title =
        Multi
        line
only-attrs =
    .label = Label
`)

	login := firstMessage(t, res)
	if got := flatten(login.Value); got != "Predefined value" {
		t.Errorf("value = %q", got)
	}

	if len(login.Attributes) != 2 {
		t.Fatalf("attributes = %d, want 2", len(login.Attributes))
	}

	if got := flatten(login.Attribute("placeholder").Value); got != "email@example.com" {
		t.Errorf("placeholder = %q", got)
	}

	if got := flatten(login.Attribute("title").Value); got != "Multi\nline" {
		t.Errorf("title = %q", got)
	}

	if login.Attribute("missing") != nil {
		t.Error("unexpected attribute")
	}

	msgs := slices.Collect(res.Messages())
	if len(msgs) != 2 {
		t.Fatalf("messages = %d, want 2", len(msgs))
	}

	if msgs[1].Value != nil {
		t.Errorf("only-attrs should have no value, got %q", flatten(msgs[1].Value))
	}

	if got := flatten(msgs[1].Attribute("label").Value); got != "Label" {
		t.Errorf("label = %q", got)
	}
}

func TestParse_Terms(t *testing.T) {
	t.Parallel()

	res := mustParse(t, "-brand = Firefox\n    .gender = masculine\nabout = About { -brand }\n")

	terms := slices.Collect(res.Terms())
	if len(terms) != 1 || terms[0].ID.Name != "brand" {
		t.Fatalf("terms = %v", terms)
	}

	if got := flatten(terms[0].Attribute("gender").Value); got != "masculine" {
		t.Errorf("gender = %q", got)
	}

	about := firstMessage(t, res)
	ref, ok := about.Value.Elements[1].(*syntax.Placeable).Expression.(*syntax.TermReference)
	if !ok {
		t.Fatalf("expected term reference, got %T", about.Value.Elements[1])
	}

	if ref.Name() != "-brand" {
		t.Errorf("Name() = %q", ref.Name())
	}
}

func TestParse_SelectExpression(t *testing.T) {
	t.Parallel()

	res := mustParse(t, `emails = { $count ->
    [one] One email
    [0] No email
   *[other] { $count } emails
}
`)

	msg := firstMessage(t, res)
	if len(msg.Value.Elements) != 1 {
		t.Fatalf("elements = %d, want 1", len(msg.Value.Elements))
	}

	sel, ok := msg.Value.Elements[0].(*syntax.Placeable).Expression.(*syntax.SelectExpression)
	if !ok {
		t.Fatalf("expected select expression")
	}

	if v, ok := sel.Selector.(*syntax.VariableReference); !ok || v.ID.Name != "count" {
		t.Errorf("selector = %#v", sel.Selector)
	}

	var keys []string
	for _, v := range sel.Variants {
		keys = append(keys, v.Key.String())
	}

	if want := []string{"one", "0", "other"}; !slices.Equal(keys, want) {
		t.Errorf("keys = %v, want %v", keys, want)
	}

	if _, ok := sel.Variants[1].Key.(*syntax.NumberLiteral); !ok {
		t.Errorf("numeric key parsed as %T", sel.Variants[1].Key)
	}

	def := sel.DefaultVariant()
	if def == nil || def.Key.String() != "other" {
		t.Fatalf("default = %v", def)
	}

	if got := flatten(def.Value); got != "{} emails" {
		t.Errorf("default value = %q", got)
	}
}

func TestParse_CallArguments(t *testing.T) {
	t.Parallel()

	res := mustParse(t, `a = { -brand(case: "locative") }
b = { -brand("x") }
c = { NUMBER($n, minimumFractionDigits: 2, style: "percent",) }
`)

	msgs := slices.Collect(res.Messages())
	if len(msgs) != 3 {
		t.Fatalf("messages = %d, want 3", len(msgs))
	}

	expr := func(i int) syntax.Expression {
		return msgs[i].Value.Elements[0].(*syntax.Placeable).Expression
	}

	a := expr(0).(*syntax.TermReference)
	if len(a.Arguments.Named) != 1 || a.Arguments.Named[0].Name.Name != "case" {
		t.Errorf("a named = %v", a.Arguments.Named)
	}

	if lit := a.Arguments.Named[0].Value.(*syntax.StringLiteral); lit.Value != "locative" {
		t.Errorf("a value = %q", lit.Value)
	}

	b := expr(1).(*syntax.TermReference)
	if len(b.Arguments.Positional) != 1 || len(b.Arguments.Named) != 0 {
		t.Errorf("b arguments = %+v", b.Arguments)
	}

	c := expr(2).(*syntax.FunctionReference)
	if c.ID.Name != "NUMBER" || len(c.Arguments.Positional) != 1 || len(c.Arguments.Named) != 2 {
		t.Errorf("c = %+v", c.Arguments)
	}

	// A term attribute is a valid selector but not a placeable on its own;
	// inside a select it is accepted.
	res2, errs := syntax.Parse("", "d = { -brand.gender ->\n *[x] X\n}\n")
	if len(errs) != 0 || len(res2.Body) != 1 {
		t.Errorf("term attribute selector rejected: %v", errs)
	}
}

func TestParse_Literals(t *testing.T) {
	t.Parallel()

	res := mustParse(t, `s = { "a\"b\\c\u0041\U01F600" }
bad = { "\UFFFFFF\uD800" }
n = { 1.50 }
neg = { -3 }
huge = { 1`+strings.Repeat("0", 400)+` }
`)

	msgs := slices.Collect(res.Messages())
	lit := func(i int) syntax.Expression {
		return msgs[i].Value.Elements[0].(*syntax.Placeable).Expression
	}

	if s := lit(0).(*syntax.StringLiteral); s.Value != "a\"b\\cA\U0001F600" {
		t.Errorf("string = %q", s.Value)
	}

	if s := lit(1).(*syntax.StringLiteral); s.Value != "\uFFFD\uFFFD" {
		t.Errorf("invalid code points = %q", s.Value)
	}

	if n := lit(2).(*syntax.NumberLiteral); n.Raw != "1.50" || n.Value != 1.5 || n.Overflow {
		t.Errorf("number = %+v", n)
	}

	if n := lit(3).(*syntax.NumberLiteral); n.Raw != "-3" || n.Value != -3 {
		t.Errorf("negative = %+v", n)
	}

	if n := lit(4).(*syntax.NumberLiteral); !n.Overflow {
		t.Errorf("huge literal should overflow: %+v", n)
	}
}

func TestParse_Comments(t *testing.T) {
	t.Parallel()

	res := mustParse(t, "# c\n## s\n### r\n#\nfoo = bar\n# trailing")

	if len(res.Body) != 1 {
		t.Fatalf("body = %d entries, want 1", len(res.Body))
	}
}

func TestParse_Spans(t *testing.T) {
	t.Parallel()

	res := mustParse(t, "a = 1\nbb = 2\n")

	want := []syntax.Span{{Start: 0, End: 5}, {Start: 6, End: 12}}
	for i, e := range res.Body {
		if got := e.EntrySpan(); got != want[i] {
			t.Errorf("span[%d] = %+v, want %+v", i, got, want[i])
		}
	}
}

func TestParse_ErrorKinds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		kind  syntax.ErrorKind
	}{
		{"missing equals", "foo\n", syntax.KindExpectedToken},
		{"indented entry", " foo = bar\n", syntax.KindExpectedEntry},
		{"four hashes", "#### c\n", syntax.KindExpectedToken},
		{"empty placeable", "foo = {\n", syntax.KindExpectedInlineExpression},
		{"no message field", "foo =\n", syntax.KindExpectedMessageField},
		{"no term value", "-foo =\n    .a = b\n", syntax.KindExpectedTermField},
		{"lower-case callee", "foo = { bar() }\n", syntax.KindForbiddenCallee},
		{"no default", "foo = { $x ->\n  [a] A\n}\n", syntax.KindMissingDefaultVariant},
		{"no variants", "foo = { $x ->\n}\n", syntax.KindMissingVariants},
		{"two defaults", "foo = { $x ->\n *[a] A\n *[b] B\n}\n", syntax.KindMultipleDefaultVariants},
		{"variant without value", "foo = { $x ->\n *[a]\n}\n", syntax.KindMissingValue},
		{"attribute without value", "foo = x\n    .a =\n", syntax.KindMissingValue},
		{"message selector", "foo = { bar ->\n *[a] A\n}\n", syntax.KindMessageReferenceAsSelector},
		{"message attribute selector", "foo = { bar.baz ->\n *[a] A\n}\n", syntax.KindMessageAttributeAsSelector},
		{"term selector", "foo = { -bar ->\n *[a] A\n}\n", syntax.KindTermReferenceAsSelector},
		{"term attribute placeable", "foo = { -bar.baz }\n", syntax.KindTermAttributeAsPlaceable},
		{"placeable selector", "foo = { { $x } ->\n *[a] A\n}\n", syntax.KindExpectedSimpleSelector},
		{"unterminated string", "foo = { \"abc }\n", syntax.KindUnterminatedString},
		{"positional after named", "foo = { FUN(a: 1, $x) }\n", syntax.KindPositionalAfterNamed},
		{"duplicate named", "foo = { FUN(a: 1, a: 2) }\n", syntax.KindDuplicatedNamedArgument},
		{"attribute argument name", "foo = { FUN(a.b: 1) }\n", syntax.KindInvalidArgumentName},
		{"non-literal named value", "foo = { FUN(a: $x) }\n", syntax.KindExpectedLiteral},
		{"unknown escape", "foo = { \"\\q\" }\n", syntax.KindUnknownEscapeSequence},
		{"short unicode escape", "foo = { \"\\u00ZZ\" }\n", syntax.KindInvalidUnicodeEscape},
		{"unbalanced brace", "foo = }\n", syntax.KindUnbalancedClosingBrace},
		{"duplicate attribute", "foo = A\n    .x = 1\n    .x = 2\n", syntax.KindDuplicateAttribute},
		{"bad identifier start", "foo = { $1 }\n", syntax.KindExpectedCharRange},
		{"missing fraction digits", "foo = { 1. }\n", syntax.KindExpectedCharRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res, errs := syntax.Parse("test.ftl", tt.input)
			if len(errs) == 0 {
				t.Fatalf("expected %v, got no errors", tt.kind)
			}

			if errs[0].Kind != tt.kind {
				t.Errorf("kind = %v (%s), want %v", errs[0].Kind, errs[0].Message, tt.kind)
			}

			if _, ok := res.Body[0].(*syntax.Junk); !ok {
				t.Errorf("first entry = %T, want *syntax.Junk", res.Body[0])
			}

			if !errors.Is(errs[0], syntax.ErrSyntax) {
				t.Error("parse errors should match ErrSyntax")
			}
		})
	}
}

func TestParse_JunkRecovery(t *testing.T) {
	t.Parallel()

	src := "good = ok\nbad\nalso = fine\n"

	res, errs := syntax.Parse("app.ftl", src)
	if len(errs) != 1 {
		t.Fatalf("errors = %d, want 1", len(errs))
	}

	if len(res.Body) != 3 {
		t.Fatalf("body = %d entries, want 3", len(res.Body))
	}

	junk, ok := res.Body[1].(*syntax.Junk)
	if !ok {
		t.Fatalf("entry 1 = %T, want junk", res.Body[1])
	}

	if junk.Content != "bad\n" || junk.Span != (syntax.Span{Start: 10, End: 14}) {
		t.Errorf("junk = %q %+v", junk.Content, junk.Span)
	}

	err := errs[0]
	if err.Line != 2 || err.Column != 4 || err.ByteStart != 13 || err.ByteEnd != 14 {
		t.Errorf("position = %d:%d [%d,%d)", err.Line, err.Column, err.ByteStart, err.ByteEnd)
	}

	if got, want := err.String(), `app.ftl:2:4: expected token "="`; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	if got, want := err.Snippet(src), "  2 | bad\n         ^\n"; got != want {
		t.Errorf("Snippet() = %q, want %q", got, want)
	}
}

func TestParse_JunkSpansMultipleLines(t *testing.T) {
	t.Parallel()

	src := "a = 1\nbroken = { $x ->\n    [one] One\n}\nb = 2\n"

	res, errs := syntax.Parse("", src)
	if len(errs) != 1 {
		t.Fatalf("errors = %d, want 1", len(errs))
	}

	if errs[0].Kind != syntax.KindMissingDefaultVariant {
		t.Errorf("kind = %v", errs[0].Kind)
	}

	if errs[0].Source != "" || strings.HasPrefix(errs[0].String(), ":") {
		t.Errorf("unnamed source rendered as %q", errs[0].String())
	}

	var ids []string
	for m := range res.Messages() {
		ids = append(ids, m.ID.Name)
	}

	if !slices.Equal(ids, []string{"a", "b"}) {
		t.Errorf("messages = %v", ids)
	}

	junk := res.Body[1].(*syntax.Junk)
	if junk.Content != "broken = { $x ->\n    [one] One\n}\n" {
		t.Errorf("junk = %q", junk.Content)
	}
}

func TestParse_EntriesIndependentOfLaterEntries(t *testing.T) {
	t.Parallel()

	entries := []string{
		"one = 1\n",
		"-two = { one }\n",
		"three = { $x ->\n   *[a] A\n}\n",
		"four =\n    .attr = value\n",
	}

	full := strings.Join(entries, "") + "five = { oops\n"

	res, errs := syntax.Parse("", full)
	if len(errs) != 1 {
		t.Fatalf("errors = %d, want 1", len(errs))
	}

	if len(res.Body) != len(entries)+1 {
		t.Fatalf("body = %d entries", len(res.Body))
	}

	for i, src := range entries {
		alone := mustParse(t, src)
		a := alone.Body[0].EntrySpan()
		b := res.Body[i].EntrySpan()

		if full[b.Start:b.End] != src[a.Start:a.End] {
			t.Errorf("entry %d differs: %q vs %q", i, full[b.Start:b.End], src[a.Start:a.End])
		}
	}
}

func TestParse_MaxDepth(t *testing.T) {
	t.Parallel()

	src := "foo = " + strings.Repeat("{", 5) + "$x" + strings.Repeat("}", 5) + "\n"

	if _, errs := syntax.Parse("", src); len(errs) != 0 {
		t.Fatalf("default depth rejected nesting: %v", errs)
	}

	_, errs := syntax.Parse("", src, syntax.WithMaxDepth(3))
	if len(errs) != 1 || errs[0].Kind != syntax.KindDepthExceeded {
		t.Fatalf("errors = %v, want DepthExceeded", errs)
	}

	deep := "foo = " + strings.Repeat("{", 10000) + "\n"
	if _, errs := syntax.Parse("", deep); len(errs) != 1 || errs[0].Kind != syntax.KindDepthExceeded {
		t.Errorf("pathological nesting not bounded: %v", errs)
	}
}

func TestParseReader(t *testing.T) {
	t.Parallel()

	res, errs, err := syntax.ParseReader(t.Context(), "r.ftl", strings.NewReader("a = b\n"))
	if err != nil || len(errs) != 0 || len(res.Body) != 1 {
		t.Fatalf("ParseReader() = %v, %v, %v", res, errs, err)
	}

	_, _, err = syntax.ParseReader(t.Context(), "r.ftl", iotest.ErrReader(errors.New("boom")))
	if !errors.Is(err, syntax.ErrReadInput) {
		t.Errorf("error = %v, want ErrReadInput", err)
	}
}

func FuzzParse(f *testing.F) {
	seeds := []string{
		"hello = Hello\n",
		"-t = T\n    .a = A\n",
		"m = { $n ->\n    [one] one\n   *[other] other\n}\n",
		"m = { -t(case: \"x\", 1) } { NUMBER(1.5) }\n",
		"bad\n\n  }\n# c\n",
		"m = {{{{\n",
	}
	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, src string) {
		res, errs := syntax.Parse("fuzz.ftl", src)

		prev := 0
		for _, e := range res.Body {
			span := e.EntrySpan()
			if span.Start < prev || span.End < span.Start || span.End > len(src) {
				t.Fatalf("bad span %+v (prev end %d, len %d)", span, prev, len(src))
			}

			prev = span.End
		}

		for _, err := range errs {
			if err.ByteStart < 0 || err.ByteEnd > len(src) || err.Line < 1 || err.Column < 1 {
				t.Fatalf("bad error position: %+v", err)
			}
		}
	})
}
