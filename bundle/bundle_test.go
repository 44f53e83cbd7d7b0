package bundle_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/ardnew/ftl/bundle"
	"github.com/ardnew/ftl/syntax"
)

func mustNew(t *testing.T, text string, opts ...bundle.Option) *bundle.Bundle {
	t.Helper()

	b, err := bundle.New("en-US", []bundle.Source{{Name: "test.ftl", Text: text}}, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	return b
}

func kinds(errs []*bundle.ValidationError) []bundle.ValidationKind {
	out := make([]bundle.ValidationKind, 0, len(errs))

	for _, e := range errs {
		out = append(out, e.Kind)
	}

	return out
}

func TestNew_MergeOverride(t *testing.T) {
	t.Parallel()

	b, err := bundle.New("en", []bundle.Source{
		{Name: "base.ftl", Text: "hello = Hello\nbye = Bye\n"},
		{Name: "override.ftl", Text: "hello = Howdy\n"},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if errs := b.CompileErrors(); len(errs) != 0 {
		t.Fatalf("CompileErrors() = %v, want none", errs)
	}

	out, _, err := b.Format("hello", nil)
	if err != nil || out != "Howdy" {
		t.Errorf("Format(hello) = %q, %v; want %q", out, err, "Howdy")
	}

	if src, _ := b.Source("hello"); src != "override.ftl" {
		t.Errorf("Source(hello) = %q, want override.ftl", src)
	}

	if src, _ := b.Source("bye"); src != "base.ftl" {
		t.Errorf("Source(bye) = %q, want base.ftl", src)
	}
}

func TestNew_Accessors(t *testing.T) {
	t.Parallel()

	b := mustNew(t, "b = B\na = A\n-t = T\n")

	if got := b.Language(); got != "en-US" {
		t.Errorf("Language() = %q", got)
	}

	if got := slices.Collect(b.Messages()); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("Messages() = %v, want [a b]", got)
	}

	if !b.HasMessage("a") || b.HasMessage("-t") || b.HasMessage("t") {
		t.Error("HasMessage() reports terms or misses messages")
	}

	if _, _, err := b.Format("-t", nil); !errors.Is(err, bundle.ErrUnknownMessage) {
		t.Errorf("Format(-t) error = %v, want ErrUnknownMessage", err)
	}

	if got := b.Functions(); !slices.Contains(got, "NUMBER") {
		t.Errorf("Functions() = %v, want NUMBER", got)
	}
}

func TestNew_JunkStaysOut(t *testing.T) {
	t.Parallel()

	b := mustNew(t, "hello = Hi\nbad\nworld = W\n")

	if !b.HasMessage("hello") || !b.HasMessage("world") {
		t.Error("valid entries around junk are missing")
	}

	if got := len(b.ParseErrors()); got != 1 {
		t.Fatalf("ParseErrors() = %d, want 1", got)
	}

	compile := b.CompileErrors()
	if len(compile) != 1 || compile[0].Source != "test.ftl" {
		t.Fatalf("CompileErrors() = %v", compile)
	}

	var pe *syntax.ParseError
	if !errors.As(compile[0], &pe) || pe.Line != 2 {
		t.Errorf("CompileErrors()[0] = %v, want parse error on line 2", compile[0])
	}

	if _, _, err := b.Format("bad", nil); !errors.Is(err, bundle.ErrUnknownMessage) {
		t.Errorf("Format(bad) error = %v, want ErrUnknownMessage", err)
	}
}

func TestNew_Strict(t *testing.T) {
	t.Parallel()

	t.Run("parse", func(t *testing.T) {
		t.Parallel()

		b, err := bundle.New("en", []bundle.Source{
			{Name: "ok.ftl", Text: "a = A\n"},
			{Name: "bad.ftl", Text: "hello\n"},
		}, bundle.WithStrict(true))
		if b != nil || !errors.Is(err, bundle.ErrStrictParse) {
			t.Fatalf("New() = %v, %v; want ErrStrictParse", b, err)
		}

		var pe *syntax.ParseError
		if !errors.As(err, &pe) || pe.Source != "bad.ftl" {
			t.Errorf("New() error does not wrap the parse error of bad.ftl: %v", err)
		}
	})

	t.Run("validation", func(t *testing.T) {
		t.Parallel()

		_, err := bundle.New("en", []bundle.Source{
			{Name: "refs.ftl", Text: "a = { missing }\n"},
		}, bundle.WithStrict(true))
		if !errors.Is(err, bundle.ErrStrictValidation) {
			t.Fatalf("New() error = %v, want ErrStrictValidation", err)
		}

		var ve *bundle.ValidationError
		if !errors.As(err, &ve) || ve.Kind != bundle.UnknownMessage {
			t.Errorf("New() error does not wrap an UnknownMessage: %v", err)
		}
	})

	t.Run("no validation", func(t *testing.T) {
		t.Parallel()

		b, err := bundle.New("en", []bundle.Source{
			{Name: "refs.ftl", Text: "a = { missing }\n"},
		}, bundle.WithStrict(true), bundle.WithValidation(false))
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}

		if got := b.ValidationErrors(); len(got) != 0 {
			t.Errorf("ValidationErrors() = %v, want none", got)
		}
	})
}

func TestValidate_Duplicates(t *testing.T) {
	t.Parallel()

	b, err := bundle.New("en", []bundle.Source{
		{Name: "one.ftl", Text: "hello = A\nhello = B\n-t = 1\n-t = 2\n"},
		{Name: "two.ftl", Text: "hello = C\n"},
	})
	if err != nil {
		t.Fatal(err)
	}

	errs := b.ValidationErrors()
	if got := kinds(errs); !slices.Equal(got, []bundle.ValidationKind{
		bundle.DuplicateMessageID, bundle.DuplicateMessageID,
	}) {
		t.Fatalf("kinds = %v", got)
	}

	if errs[0].Identifier != "hello" || errs[0].Source != "one.ftl" {
		t.Errorf("errs[0] = %+v", errs[0])
	}

	if errs[1].Identifier != "-t" {
		t.Errorf("errs[1].Identifier = %q, want -t", errs[1].Identifier)
	}

	if out, _, _ := b.Format("hello", nil); out != "C" {
		t.Errorf("Format(hello) = %q, want C", out)
	}
}

func TestValidate_UnknownReferences(t *testing.T) {
	t.Parallel()

	b := mustNew(t, `a = { helo } and { helo }
hello = Hi
    .title = Title
b = { -brnd }
-brand = Firefox
c = { -brand.gender ->
   *[other] x
}
d = { hello.titl }
`)

	want := []struct {
		kind       bundle.ValidationKind
		identifier string
		reference  string
		suggestion string
	}{
		{bundle.UnknownMessage, "a", "helo", "hello"},
		{bundle.UnknownTerm, "b", "-brnd", "-brand"},
		{bundle.UnknownAttribute, "c", "-brand.gender", ""},
		{bundle.UnknownAttribute, "d", "hello.titl", "title"},
	}

	errs := b.ValidationErrors()
	if len(errs) != len(want) {
		t.Fatalf("ValidationErrors() = %v, want %d errors", errs, len(want))
	}

	for i, w := range want {
		e := errs[i]
		if e.Kind != w.kind || e.Identifier != w.identifier ||
			e.Reference != w.reference || e.Suggestion != w.suggestion {
			t.Errorf("errs[%d] = %+v, want %+v", i, *e, w)
		}

		if e.Source != "test.ftl" {
			t.Errorf("errs[%d].Source = %q", i, e.Source)
		}
	}

	if got := errs[0].Error(); got != `test.ftl: message "helo" referenced by "a" does not exist (did you mean "hello"?)` {
		t.Errorf("Error() = %q", got)
	}
}

func TestValidate_Cycles(t *testing.T) {
	t.Parallel()

	const (
		termA = "-term-a = A\n    .attr = { -term-b }\n"
		termB = "-term-b = { -term-a }\n"
		msg   = "msg = { -term-b }\n"
	)

	orders := map[string]string{
		"a first": termA + termB + msg,
		"b first": msg + termB + termA,
	}

	for name, text := range orders {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			errs := mustNew(t, text).ValidationErrors()
			if len(errs) != 1 || errs[0].Kind != bundle.CyclicReference {
				t.Fatalf("ValidationErrors() = %v, want one CyclicReference", errs)
			}

			if got := errs[0].Message; got != "cyclic reference: -term-a -> -term-b -> -term-a" {
				t.Errorf("Message = %q", got)
			}

			if errs[0].Identifier != "-term-a" || errs[0].Reference != "-term-b" {
				t.Errorf("Identifier, Reference = %q, %q", errs[0].Identifier, errs[0].Reference)
			}
		})
	}
}

func TestValidate_DiamondIsNotCycle(t *testing.T) {
	t.Parallel()

	b := mustNew(t, `-brand = Firefox
a = { -brand }
b = { -brand }
top = { a } { b }
self = { self }
`)

	errs := b.ValidationErrors()
	if len(errs) != 1 || errs[0].Identifier != "self" {
		t.Fatalf("ValidationErrors() = %v, want only the self reference", errs)
	}

	if errs[0].Message != "cyclic reference: self -> self" {
		t.Errorf("Message = %q", errs[0].Message)
	}
}

func TestRequiredVariables(t *testing.T) {
	t.Parallel()

	b := mustNew(t, `item-status = { $count ->
    [one] { $user } has one item
   *[other] { $user } has { $count } items
}
-thing = { $case ->
    [gen] Thing's
   *[nom] Thing
} { $extra }
bound = { -thing(case: "gen") } { $x }
unbound = { -thing }
nested = { item-status } { NUMBER($total) }
loop-a = { loop-b } { $a }
loop-b = { loop-a } { $b }
login = Login
    .title = Hi { $name }
attr = { login.title }
`)

	tests := []struct {
		id   string
		want []string
	}{
		{"item-status", []string{"count", "user"}},
		{"bound", []string{"extra", "x"}},
		{"unbound", []string{"case", "extra"}},
		{"nested", []string{"count", "total", "user"}},
		{"loop-a", []string{"a", "b"}},
		{"login", []string{}},
		{"login.title", []string{"name"}},
		{"attr", []string{"name"}},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			t.Parallel()

			got, err := b.RequiredVariables(tt.id)
			if err != nil {
				t.Fatalf("RequiredVariables() error = %v", err)
			}

			if !slices.Equal(got, tt.want) {
				t.Errorf("RequiredVariables() = %v, want %v", got, tt.want)
			}
		})
	}

	if _, err := b.RequiredVariables("nope"); !errors.Is(err, bundle.ErrUnknownMessage) {
		t.Errorf("RequiredVariables(nope) error = %v, want ErrUnknownMessage", err)
	}
}
