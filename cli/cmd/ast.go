package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/ftl/log"
	"github.com/ardnew/ftl/syntax"
)

// AST parses one resource file and prints its syntax tree.
type AST struct {
	Output string `default:"yaml" enum:"yaml,json" help:"Output format (${enum})." short:"o"`
	Indent int    `default:"2"                      help:"Indent width; 0 selects compact output." short:"i"`

	File string `arg:"" default:"-" help:"Resource file or '-' for stdin." name:"file"`
}

// Run executes the ast command.
func (a *AST) Run(ctx context.Context) error {
	var r io.Reader

	name := a.File
	if name == stdinSource {
		r, name = stdinFrom(ctx), "<stdin>"
	} else {
		f, err := os.Open(a.File)
		if err != nil {
			return ErrReadSource.Wrap(err).With(slog.String("source", a.File))
		}
		defer f.Close()

		r = f
	}

	res, errs, err := syntax.ParseReader(ctx, name, r, syntax.WithLogger(log.Default()))
	if err != nil {
		return err
	}

	for _, pe := range errs {
		log.WarnContext(ctx, "syntax error", slog.Any("error", pe))
	}

	w := outputFrom(ctx)

	switch a.Output {
	case "json":
		if err := res.FormatJSON(ctx, w, a.Indent); err != nil {
			return ErrJSONMarshal.Wrap(err)
		}
	default:
		if err := res.FormatYAML(ctx, w, a.Indent); err != nil {
			return ErrYAMLMarshal.Wrap(err)
		}
	}

	return nil
}
