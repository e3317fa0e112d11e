package export

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"cardpress/internal/batch"
	"cardpress/internal/cards"
	"cardpress/internal/logging"
	"cardpress/internal/merge"
	"cardpress/internal/plan"
	"cardpress/internal/render"
	"cardpress/internal/services"
)

// Merger concatenates rendered artifacts into one deliverable.
type Merger interface {
	Merge(ctx context.Context, artifacts []render.Artifact) (render.Artifact, error)
}

// Hooks carries the optional per-request observers. All fields may be nil.
type Hooks struct {
	// OnProgress receives the overall integer percentage, monotonically
	// non-decreasing within a request.
	OnProgress func(percent int)
	// OnStatus receives every lifecycle transition in order.
	OnStatus func(status Status)
}

func (h Hooks) progress(percent int) {
	if h.OnProgress != nil {
		h.OnProgress(percent)
	}
}

func (h Hooks) status(status Status) {
	if h.OnStatus != nil {
		h.OnStatus(status)
	}
}

// Result is the terminal outcome of one export request.
type Result struct {
	Status     Status
	Artifact   render.Artifact
	Filename   string
	OutputPath string
	Batches    int
	RequestID  string
	Elapsed    time.Duration
}

// Delivered reports whether the request produced a deliverable.
func (r Result) Delivered() bool {
	return r.Status == StatusDelivered && len(r.Artifact.Data) > 0
}

// Orchestrator sequences resolution, planning, batching, rendering, and
// merging for one request at a time. It owns no request state between calls;
// everything request-scoped lives on the stack of Export.
type Orchestrator struct {
	resolver   *cards.Resolver
	renderer   render.Renderer
	merger     Merger
	filePrefix string
	logger     *slog.Logger
	now        func() time.Time

	busy atomic.Bool
}

// NewOrchestrator wires the export pipeline. A nil merger falls back to the
// standard page-appending merger.
func NewOrchestrator(resolver *cards.Resolver, renderer render.Renderer, merger Merger, filePrefix string, logger *slog.Logger) *Orchestrator {
	if resolver == nil {
		resolver = cards.NewResolver(nil, logger)
	}
	if merger == nil {
		merger = merge.New(logger)
	}
	return &Orchestrator{
		resolver:   resolver,
		renderer:   renderer,
		merger:     merger,
		filePrefix: filePrefix,
		logger:     logging.NewComponentLogger(logger, "export"),
		now:        time.Now,
	}
}

// Export runs one request to a terminal status. Cancellation is not a
// failure: a cancelled request returns Status Cancelled with a nil error and
// delivers nothing. The returned error is non-nil only for Failed, already
// carrying a display-ready message.
func (o *Orchestrator) Export(ctx context.Context, req Request, hooks Hooks) (Result, error) {
	if !o.busy.CompareAndSwap(false, true) {
		return Result{Status: StatusFailed}, services.Wrap(services.ErrValidation, "export", "start", "an export is already in progress", nil)
	}

	requestID := uuid.NewString()
	ctx = services.WithRequestID(ctx, requestID)
	logger := o.logger.With(logging.String(logging.FieldCorrelationID, requestID))

	started := o.now()
	result := Result{Status: StatusIdle, RequestID: requestID}
	defer func() {
		o.busy.Store(false)
		result.Elapsed = o.now().Sub(started)
		logger.Info("export finished",
			logging.String("status", string(result.Status)),
			logging.Int("batches", result.Batches),
			logging.Int("pages", result.Artifact.Pages),
			logging.String(logging.FieldEventType, "export_finished"),
		)
		hooks.status(result.Status)
	}()

	req = req.Normalize()
	if err := req.Validate(); err != nil {
		result.Status = StatusFailed
		return result, err
	}

	result.Status = StatusPlanning
	hooks.status(StatusPlanning)
	logger.Info("export started",
		logging.String("mode", string(req.Mode)),
		logging.Int("fronts", len(req.Fronts)),
		logging.String(logging.FieldEventType, "export_started"),
	)

	jobPlan, err := o.buildPlan(ctx, req)
	if err != nil {
		if services.IsCancelled(err) {
			result.Status = StatusCancelled
			return result, nil
		}
		result.Status = StatusFailed
		return result, err
	}

	if jobPlan.Empty() {
		result.Status = StatusDelivered
		hooks.progress(100)
		logger.Info("nothing to export; delivering empty result")
		return result, nil
	}

	sides := splitBatches(jobPlan, req)
	for _, side := range sides {
		result.Batches += len(side.batches)
	}

	result.Status = StatusRendering
	hooks.status(StatusRendering)
	tracker := newProgressTracker(hooks.progress)

	artifacts, err := o.renderSides(ctx, req, sides, tracker, logger)
	if err != nil {
		if services.IsCancelled(err) {
			result.Status = StatusCancelled
			logger.Info("export cancelled; discarding partial artifacts",
				logging.Int("artifacts_discarded", len(artifacts)),
			)
			return result, nil
		}
		result.Status = StatusFailed
		return result, err
	}

	result.Status = StatusMerging
	hooks.status(StatusMerging)
	tracker.Update(Percent(req.Mode, PhaseMerge, 0))

	merged, err := o.merger.Merge(ctx, artifacts)
	if err != nil {
		if services.IsCancelled(err) {
			result.Status = StatusCancelled
			return result, nil
		}
		result.Status = StatusFailed
		return result, fmt.Errorf("merge %d artifacts: %w", len(artifacts), err)
	}
	tracker.Update(Percent(req.Mode, PhaseMerge, 1))

	result.Status = StatusDelivered
	result.Artifact = merged
	result.Filename = Filename(o.filePrefix, req.Mode, started)
	return result, nil
}

// buildPlan resolves backs when the mode needs them and applies the mode's
// inclusion rules. Resolution happens once per request.
func (o *Orchestrator) buildPlan(ctx context.Context, req Request) (plan.Plan, error) {
	var backs []cards.Face
	if req.Mode.NeedsBacks() {
		resolved, err := o.resolver.ResolveBacks(ctx, req.Fronts)
		if err != nil {
			return plan.Plan{}, err
		}
		backs = resolved
	}
	return plan.Build(req.Mode, req.Fronts, backs, req.Geometry.Columns)
}

// sideWork pairs one sheet's batches with its slot in the progress table.
type sideWork struct {
	phase   Phase
	batches []batch.PageBatch
}

// splitBatches turns the plan's sheets into per-side batch lists. Front
// sheets always precede back sheets, which fixes the merge order for Duplex.
func splitBatches(jobPlan plan.Plan, req Request) []sideWork {
	sides := make([]sideWork, 0, len(jobPlan.Sheets))
	for _, sheet := range jobPlan.Sheets {
		phase := PhaseRenderFront
		if sheet.Side == plan.SideBack && jobPlan.Mode.TwoSided() {
			phase = PhaseRenderBack
		}
		sides = append(sides, sideWork{
			phase:   phase,
			batches: batch.Split(sheet.Faces, req.Geometry, req.PixelBudget, sheet.RightAligned),
		})
	}
	return sides
}

// renderSides renders every batch strictly in sequence: all front batches,
// then all back batches. Progress weighting and merge ordering both depend
// on that order. Once cancellation fires no further batch starts.
func (o *Orchestrator) renderSides(ctx context.Context, req Request, sides []sideWork, tracker *progressTracker, logger *slog.Logger) ([]render.Artifact, error) {
	var artifacts []render.Artifact
	for _, side := range sides {
		total := len(side.batches)
		for i, b := range side.batches {
			if err := ctx.Err(); err != nil {
				return artifacts, err
			}

			index := i
			phase := side.phase
			artifact, err := o.renderer.Render(ctx, b, req.Geometry, func(update render.ProgressUpdate) {
				tracker.Update(Percent(req.Mode, phase, batchFraction(index, total, update.Fraction)))
			})
			if err != nil {
				if services.IsCancelled(err) || ctx.Err() != nil {
					return artifacts, context.Canceled
				}
				return artifacts, fmt.Errorf("render batch %d of %d (%s): %w", i+1, total, phase, err)
			}

			artifacts = append(artifacts, artifact)
			tracker.Update(Percent(req.Mode, phase, batchFraction(index, total, 1)))
			logger.Debug("batch rendered",
				logging.String("phase", string(phase)),
				logging.Int("batch", i+1),
				logging.Int("batches", total),
				logging.Int("pages", artifact.Pages),
			)
		}
	}
	return artifacts, nil
}
