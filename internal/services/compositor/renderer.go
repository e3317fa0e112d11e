package compositor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"cardpress/internal/batch"
	"cardpress/internal/layout"
	"cardpress/internal/logging"
	"cardpress/internal/render"
	"cardpress/internal/services"
)

// Renderer adapts the compositing client to the render boundary the export
// orchestrator drives. Each batch gets its own scratch directory under the
// staging dir; spec and artifact files are removed once the artifact bytes
// are in memory.
type Renderer struct {
	client     Client
	stagingDir string
	logger     *slog.Logger
}

// NewRenderer constructs a Renderer backed by the given compositing client.
func NewRenderer(client Client, stagingDir string, logger *slog.Logger) *Renderer {
	return &Renderer{
		client:     client,
		stagingDir: stagingDir,
		logger:     logging.NewComponentLogger(logger, "compositor"),
	}
}

// Render composites one batch into one PDF artifact.
func (r *Renderer) Render(ctx context.Context, b batch.PageBatch, geom layout.Geometry, progress func(render.ProgressUpdate)) (render.Artifact, error) {
	if err := ctx.Err(); err != nil {
		return render.Artifact{}, err
	}

	scratch, err := os.MkdirTemp(r.stagingDir, "batch-*")
	if err != nil {
		return render.Artifact{}, services.Wrap(services.ErrTransient, "compositor", "render", "create scratch directory", err)
	}
	defer os.RemoveAll(scratch)

	specPath := filepath.Join(scratch, "batch.json")
	outputPath := filepath.Join(scratch, "batch.pdf")
	if err := writeSpec(specPath, b, geom); err != nil {
		return render.Artifact{}, err
	}

	pages := b.Pages(geom)
	err = r.client.Render(ctx, specPath, outputPath, func(update ProgressUpdate) {
		if progress == nil {
			return
		}
		progress(render.ProgressUpdate{
			Page:     update.Page,
			Pages:    update.Pages,
			Fraction: fraction(update, pages),
			Message:  update.Message,
		})
	})
	if err != nil {
		if services.IsCancelled(err) || ctx.Err() != nil {
			return render.Artifact{}, context.Canceled
		}
		return render.Artifact{}, services.Wrap(services.ErrExternalTool, "compositor", "render", fmt.Sprintf("%d faces", len(b.Faces)), err)
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		return render.Artifact{}, services.Wrap(services.ErrExternalTool, "compositor", "render", "read artifact", err)
	}

	gotPages, err := render.PageCount(data)
	if err != nil {
		return render.Artifact{}, services.Wrap(services.ErrExternalTool, "compositor", "render", "artifact unreadable", err)
	}
	if gotPages != pages {
		r.logger.Warn("artifact page count differs from batch layout",
			logging.Int("expected_pages", pages),
			logging.Int("actual_pages", gotPages),
		)
	}

	return render.Artifact{Data: data, Pages: gotPages}, nil
}

func writeSpec(path string, b batch.PageBatch, geom layout.Geometry) error {
	spec := RenderSpec{
		Columns:      geom.Columns,
		Rows:         geom.Rows,
		PageWidthPx:  geom.PageWidthPx,
		PageHeightPx: geom.PageHeightPx,
		RightAligned: b.RightAligned,
		Faces:        make([]FaceSpec, 0, len(b.Faces)),
	}
	for _, face := range b.Faces {
		spec.Faces = append(spec.Faces, FaceSpec{
			ID:    face.ID,
			Name:  face.DisplayName,
			Image: face.ImageRef,
			Blank: face.BlankPlaceholder,
		})
	}

	data, err := json.MarshalIndent(spec, "", "  ")
	if err != nil {
		return services.Wrap(services.ErrValidation, "compositor", "render", "encode batch spec", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return services.Wrap(services.ErrTransient, "compositor", "render", "write batch spec", err)
	}
	return nil
}

func fraction(update ProgressUpdate, fallbackPages int) float64 {
	switch {
	case update.Pages > 0 && update.Page > 0:
		return clamp01(float64(update.Page) / float64(update.Pages))
	case update.Percent > 0:
		return clamp01(update.Percent / 100)
	case fallbackPages > 0 && update.Page > 0:
		return clamp01(float64(update.Page) / float64(fallbackPages))
	default:
		return 0
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

var _ render.Renderer = (*Renderer)(nil)
