package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/folio/plan"
)

// Validate runs the structural and scope checks without compiling.
type Validate struct {
	inputs
}

// Run executes the validate command.
func (v *Validate) Run(_ context.Context) error {
	lib, p, err := v.load()
	if err != nil {
		return err
	}

	err = p.Validate(lib)
	if err != nil {
		return plan.WrapError(err).
			With(slog.String("command", "validate"))
	}

	fmt.Printf("ok: %d section(s), %d master(s)\n", len(p.Sections), lib.Len())

	return nil
}
