package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/folio/plan"
)

// Estimate prints the closed-form page-count estimate for a plan.
type Estimate struct {
	inputs
}

// Run executes the estimate command.
func (e *Estimate) Run(_ context.Context) error {
	lib, p, err := e.load()
	if err != nil {
		return err
	}

	err = p.Validate(lib)
	if err != nil {
		return plan.WrapError(err).
			With(slog.String("command", "estimate"))
	}

	fmt.Println(p.EstimatePages())

	return nil
}
