package cards

import (
	"context"
	"log/slog"

	"cardpress/internal/logging"
)

// Lookup resolves a back face by identifier. The second return reports
// whether the identifier was known; errors cover the lookup transport only.
type Lookup interface {
	Back(ctx context.Context, id string) (Face, bool, error)
}

// Resolver produces the back sequence for a front sequence. Lookup failures
// are never fatal: a missing or unreadable back silently degrades to a blank
// placeholder.
type Resolver struct {
	lookup Lookup
	logger *slog.Logger
}

// NewResolver constructs a Resolver. A nil lookup resolves every front to a
// blank placeholder back.
func NewResolver(lookup Lookup, logger *slog.Logger) *Resolver {
	return &Resolver{
		lookup: lookup,
		logger: logging.NewComponentLogger(logger, "resolver"),
	}
}

// ResolveBacks returns the 1:1, blank-padded back sequence for fronts.
// Resolution happens once per export request; callers reuse the result for
// every sheet that needs it.
func (r *Resolver) ResolveBacks(ctx context.Context, fronts []Face) ([]Face, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	backs := make([]Face, 0, len(fronts))
	for _, front := range fronts {
		backs = append(backs, r.resolveOne(ctx, front))
	}
	return backs, nil
}

func (r *Resolver) resolveOne(ctx context.Context, front Face) Face {
	if !front.HasLinkedBack() || r.lookup == nil {
		return BlankBackFor(front)
	}

	back, ok, err := r.lookup.Back(ctx, front.LinkedBackID)
	if err != nil {
		r.logger.Debug("back lookup failed; using blank placeholder",
			logging.String("front_id", front.ID),
			logging.String("back_id", front.LinkedBackID),
			logging.Error(err),
		)
		return BlankBackFor(front)
	}
	if !ok {
		r.logger.Debug("linked back not found; using blank placeholder",
			logging.String("front_id", front.ID),
			logging.String("back_id", front.LinkedBackID),
		)
		return BlankBackFor(front)
	}

	back.LinkedFrontID = front.ID
	return back
}
