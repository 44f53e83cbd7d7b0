package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/ftl/log"
)

// Vars lists the variables a message requires, one per line.
type Vars struct {
	ID string `arg:"" help:"Message id, optionally followed by .attribute."`
}

// Run executes the vars command.
func (v *Vars) Run(ctx context.Context) error {
	b, _, err := buildBundle(ctx)
	if err != nil {
		return ErrBuildBundle.Wrap(err)
	}

	names, err := b.RequiredVariables(v.ID)
	if err != nil {
		return ErrFormat.Wrap(err).With(slog.String("id", v.ID))
	}

	log.DebugContext(ctx, "required variables",
		slog.String("id", v.ID),
		slog.Int("count", len(names)))

	w := outputFrom(ctx)

	for _, name := range names {
		if _, err := fmt.Fprintln(w, name); err != nil {
			return err
		}
	}

	return nil
}
