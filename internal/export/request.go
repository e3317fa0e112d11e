package export

import (
	"fmt"

	"cardpress/internal/cards"
	"cardpress/internal/config"
	"cardpress/internal/layout"
	"cardpress/internal/plan"
	"cardpress/internal/services"
)

// Request describes one export job. It is read-only once execution starts:
// the orchestrator never mutates it, and callers must not either.
type Request struct {
	Mode        plan.Mode
	Fronts      []cards.Face
	Geometry    layout.Geometry
	PixelBudget int64
}

// Normalize fills in defaulted fields. The zero pixel budget means "use the
// default ceiling", not "unbounded".
func (r Request) Normalize() Request {
	if r.PixelBudget <= 0 {
		r.PixelBudget = config.DefaultPixelBudget
	}
	return r
}

// Validate rejects requests that cannot be planned.
func (r Request) Validate() error {
	if !r.Mode.Valid() {
		return services.Wrap(services.ErrValidation, "export", "validate", fmt.Sprintf("unknown export mode %q", string(r.Mode)), nil)
	}
	if err := r.Geometry.Validate(); err != nil {
		return err
	}
	for _, front := range r.Fronts {
		if front.IsBack() {
			return services.Wrap(services.ErrValidation, "export", "validate", fmt.Sprintf("front sequence contains back-only face %q", front.ID), nil)
		}
	}
	return nil
}
