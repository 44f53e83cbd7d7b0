package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/ftl/bundle"
	"github.com/ardnew/ftl/log"
)

// Get formats one message and prints the result.
type Get struct {
	ID        string   `arg:"" help:"Message id, optionally followed by .attribute."`
	Args      []string `arg:"" help:"Variables as name=value; integers and YYYY-MM-DD dates are converted." optional:""`
	Vars      string   `help:"YAML file mapping variable names to values." placeholder:"FILE" type:"existingfile"`
	NoIsolate bool     `help:"Do not wrap placeables in Unicode isolation marks."`
}

// Run executes the get command.
func (g *Get) Run(ctx context.Context) error {
	vars, err := g.variables(ctx)
	if err != nil {
		return err
	}

	b, _, err := buildBundle(ctx)
	if err != nil {
		return ErrBuildBundle.Wrap(err)
	}

	for _, ce := range b.CompileErrors() {
		log.InfoContext(ctx, "resource error", slog.Any("error", ce.Err))
	}

	out, errs, err := b.Format(g.ID, vars, bundle.WithIsolation(!g.NoIsolate))
	if err != nil {
		return ErrFormat.Wrap(err).With(slog.String("id", g.ID))
	}

	for _, fe := range errs {
		log.WarnContext(ctx, "format", slog.Any("error", fe))
	}

	_, err = fmt.Fprintln(outputFrom(ctx), out)

	return err
}

// variables merges the --vars file with the positional name=value
// arguments; arguments override the file.
func (g *Get) variables(ctx context.Context) (map[string]any, error) {
	vars := make(map[string]any, len(g.Args))

	if g.Vars != "" {
		data, err := os.ReadFile(g.Vars)
		if err != nil {
			return nil, ErrVariables.Wrap(err).With(slog.String("file", g.Vars))
		}

		var doc map[any]any
		if err := yaml.UnmarshalContext(ctx, data, &doc); err != nil {
			return nil, ErrVariables.Wrap(err).With(slog.String("file", g.Vars))
		}

		fromFile, err := bundle.VariablesOf(doc)
		if err != nil {
			return nil, ErrVariables.Wrap(err).With(slog.String("file", g.Vars))
		}

		for name, v := range fromFile {
			if s, ok := v.(string); ok {
				v = parseDate(s)
			}

			vars[name] = v
		}
	}

	for _, arg := range g.Args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok || name == "" {
			return nil, ErrVariables.With(slog.String("arg", arg))
		}

		vars[name] = parseValue(value)
	}

	return vars, nil
}

// parseValue interprets a command-line value as an integer, then a date,
// and otherwise keeps it as a string.
func parseValue(s string) any {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}

	return parseDate(s)
}

func parseDate(s string) any {
	if t, err := time.ParseInLocation(time.DateOnly, s, time.Local); err == nil {
		return t
	}

	return s
}
