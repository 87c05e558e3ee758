package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/folio/log"
	"github.com/ardnew/folio/plan"
)

// Compile compiles a plan against a master library and writes the
// resolved document for a downstream renderer.
type Compile struct {
	inputs

	Output     string  `default:"-"    help:"Output file or '-' for stdout."         short:"o"`
	Format     string  `default:"yaml" enum:"yaml,json" help:"Output document format." short:"f"`
	Indent     int     `default:"2"    help:"Indent width for JSON output."`
	PageBudget int     `default:"0"    help:"Page-count ceiling (0 uses the default)."`
	MinTouch   float64 `default:"0"    help:"Touch-target minimum in points (0 uses the default)."`
}

// Run executes the compile command.
func (c *Compile) Run(ctx context.Context) error {
	lib, p, err := c.load()
	if err != nil {
		return err
	}

	doc, err := plan.Compile(ctx, lib, p,
		plan.WithPageBudget(c.PageBudget),
		plan.WithDevice(plan.Profile{MinTouch: c.MinTouch}),
		plan.WithLogger(log.Default().Slog()),
	)
	if err != nil {
		return plan.WrapError(err).
			With(slog.String("command", "compile"))
	}

	var out io.Writer = os.Stdout

	if c.Output != "-" {
		file, err := os.Create(c.Output)
		if err != nil {
			return err
		}
		defer file.Close()

		out = file
	}

	if c.Format == "json" {
		return doc.FormatJSON(ctx, out, c.Indent)
	}

	return doc.FormatYAML(ctx, out)
}
