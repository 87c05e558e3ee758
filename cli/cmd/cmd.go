package cmd

import (
	"log/slog"

	"github.com/ardnew/folio/plan"
)

// inputs holds the flags shared by every command that reads a master
// library and a plan document.
type inputs struct {
	Library string `help:"Master library file." required:"" short:"l" type:"existingfile"`
	Plan    string `help:"Plan document file."  required:"" short:"n" type:"existingfile"`
}

// load reads and decodes both input documents.
func (in *inputs) load() (*plan.Library, *plan.Plan, error) {
	lib, err := plan.LoadLibrary(in.Library)
	if err != nil {
		return nil, nil, plan.WrapError(err).
			With(slog.String("library", in.Library))
	}

	p, err := plan.LoadPlan(in.Plan)
	if err != nil {
		return nil, nil, plan.WrapError(err).
			With(slog.String("plan", in.Plan))
	}

	return lib, p, nil
}
