package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/ftl/bundle"
	"github.com/ardnew/ftl/log"
	"github.com/ardnew/ftl/syntax"
)

// Check compiles the resources and reports their syntax and validation
// errors.
type Check struct {
	Strict     bool   `help:"Stop at the first syntax or validation error."`
	NoValidate bool   `help:"Skip semantic validation."`
	Where      string `help:"Only report diagnostics for which the expr-lang expression EXPR is true." placeholder:"EXPR"`
	Output     string `default:"text" enum:"text,json,yaml" help:"Report format (${enum})." short:"o"`
}

// diagnostic is the reported form of a compile error. Its fields are the
// variables available to --where.
type diagnostic struct {
	Stage      string `expr:"stage"      json:"stage"                yaml:"stage"`
	Kind       string `expr:"kind"       json:"kind"                 yaml:"kind"`
	Source     string `expr:"source"     json:"source,omitempty"     yaml:"source,omitempty"`
	Message    string `expr:"message"    json:"message"              yaml:"message"`
	Identifier string `expr:"identifier" json:"identifier,omitempty" yaml:"identifier,omitempty"`
	Reference  string `expr:"reference"  json:"reference,omitempty"  yaml:"reference,omitempty"`
	Suggestion string `expr:"suggestion" json:"suggestion,omitempty" yaml:"suggestion,omitempty"`
	Line       int    `expr:"line"       json:"line,omitempty"       yaml:"line,omitempty"`
	Column     int    `expr:"column"     json:"column,omitempty"     yaml:"column,omitempty"`

	parse *syntax.ParseError
}

const (
	stageSyntax     = "syntax"
	stageValidation = "validation"
)

// diagnosticOf converts a parse or validation error. It reports false for
// any other error.
func diagnosticOf(err error) (diagnostic, bool) {
	var (
		pe *syntax.ParseError
		ve *bundle.ValidationError
	)

	switch {
	case errors.As(err, &pe):
		return diagnostic{
			Stage:   stageSyntax,
			Kind:    pe.Kind.String(),
			Source:  pe.Source,
			Message: pe.Message,
			Line:    pe.Line,
			Column:  pe.Column,
			parse:   pe,
		}, true
	case errors.As(err, &ve):
		return diagnostic{
			Stage:      stageValidation,
			Kind:       ve.Kind.String(),
			Source:     ve.Source,
			Message:    ve.Message,
			Identifier: ve.Identifier,
			Reference:  ve.Reference,
			Suggestion: ve.Suggestion,
		}, true
	default:
		return diagnostic{}, false
	}
}

// filter is a compiled --where expression.
type filter struct {
	program *vm.Program
}

func compileFilter(where string) (*filter, error) {
	if strings.TrimSpace(where) == "" {
		return nil, nil
	}

	program, err := expr.Compile(where, expr.Env(diagnostic{}), expr.AsBool())
	if err != nil {
		return nil, ErrWhere.Wrap(err).With(slog.String("expr", where))
	}

	return &filter{program: program}, nil
}

func (f *filter) match(d diagnostic) (bool, error) {
	if f == nil {
		return true, nil
	}

	out, err := expr.Run(f.program, d)
	if err != nil {
		return false, ErrWhere.Wrap(err)
	}

	ok, _ := out.(bool)

	return ok, nil
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) error {
	where, err := compileFilter(c.Where)
	if err != nil {
		return err
	}

	b, text, err := buildBundle(ctx,
		bundle.WithStrict(c.Strict),
		bundle.WithValidation(!c.NoValidate))

	var found []diagnostic

	switch {
	case err == nil:
		for _, ce := range b.CompileErrors() {
			if d, ok := diagnosticOf(ce.Err); ok {
				if d.Source == "" {
					d.Source = ce.Source
				}

				found = append(found, d)
			}
		}
	case errors.Is(err, bundle.ErrStrictParse), errors.Is(err, bundle.ErrStrictValidation):
		d, ok := diagnosticOf(err)
		if !ok {
			return ErrBuildBundle.Wrap(err)
		}

		found = append(found, d)
	default:
		return err
	}

	report := make([]diagnostic, 0, len(found))

	for _, d := range found {
		ok, err := where.match(d)
		if err != nil {
			return err
		}

		if ok {
			report = append(report, d)
		}
	}

	log.DebugContext(ctx, "check complete",
		slog.Int("diagnostics", len(found)),
		slog.Int("reported", len(report)))

	if err := c.write(ctx, outputFrom(ctx), report, text); err != nil {
		return err
	}

	if len(report) > 0 {
		return ErrDiagnostics.With(slog.Int("count", len(report)))
	}

	return nil
}

func (c *Check) write(ctx context.Context, w io.Writer, ds []diagnostic, text map[string]string) error {
	switch c.Output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		if err := enc.Encode(ds); err != nil {
			return ErrJSONMarshal.Wrap(err)
		}

		return nil
	case "yaml":
		data, err := yaml.MarshalContext(ctx, ds)
		if err != nil {
			return ErrYAMLMarshal.Wrap(err)
		}

		_, err = w.Write(data)

		return err
	default:
		return writeText(w, ds, text)
	}
}

// writeText renders diagnostics for a terminal. Colors are dropped when w
// is not one.
func writeText(w io.Writer, ds []diagnostic, text map[string]string) error {
	r := lipgloss.NewRenderer(w)

	var (
		loc     = r.NewStyle().Bold(true)
		errKind = r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
		hint    = r.NewStyle().Foreground(lipgloss.Color("6"))
		snippet = r.NewStyle().Faint(true)
	)

	var sb strings.Builder

	for _, d := range ds {
		where := d.Source
		if d.Line > 0 {
			where = fmt.Sprintf("%s:%d:%d", where, d.Line, d.Column)
		}

		if where != "" {
			sb.WriteString(loc.Render(where + ":"))
			sb.WriteByte(' ')
		}

		sb.WriteString(errKind.Render(d.Kind))
		sb.WriteString(": ")
		sb.WriteString(d.Message)
		sb.WriteByte('\n')

		if d.parse != nil {
			if s := d.parse.Snippet(text[d.Source]); s != "" {
				sb.WriteString(snippet.Render(strings.TrimSuffix(s, "\n")))
				sb.WriteByte('\n')
			}
		}

		if d.Suggestion != "" {
			sb.WriteString(hint.Render(fmt.Sprintf("  did you mean %q?", d.Suggestion)))
			sb.WriteByte('\n')
		}
	}

	if n := len(ds); n > 0 {
		plural := "s"
		if n == 1 {
			plural = ""
		}

		fmt.Fprintf(&sb, "%d problem%s\n", n, plural)
	}

	_, err := io.WriteString(w, sb.String())

	return err
}
