package merge

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"cardpress/internal/logging"
	"cardpress/internal/render"
	"cardpress/internal/services"
)

// Merger concatenates rendered artifacts, in order, into one deliverable.
type Merger struct {
	logger *slog.Logger
}

// New constructs a Merger.
func New(logger *slog.Logger) *Merger {
	return &Merger{logger: logging.NewComponentLogger(logger, "merge")}
}

// Merge appends every page of every artifact in list order. The output page
// count is the sum of the inputs; pages are never reordered or dropped.
func (m *Merger) Merge(ctx context.Context, artifacts []render.Artifact) (render.Artifact, error) {
	if err := ctx.Err(); err != nil {
		return render.Artifact{}, err
	}
	if len(artifacts) == 0 {
		return render.Artifact{}, services.Wrap(services.ErrValidation, "merge", "merge", "no artifacts to merge", nil)
	}

	wantPages := 0
	for _, artifact := range artifacts {
		wantPages += artifact.Pages
	}

	if len(artifacts) == 1 {
		return artifacts[0], nil
	}

	readers := make([]io.ReadSeeker, 0, len(artifacts))
	for _, artifact := range artifacts {
		readers = append(readers, bytes.NewReader(artifact.Data))
	}

	var buf bytes.Buffer
	if err := api.MergeRaw(readers, &buf, false, nil); err != nil {
		return render.Artifact{}, services.Wrap(services.ErrExternalTool, "merge", "merge", fmt.Sprintf("merge %d artifacts", len(artifacts)), err)
	}

	merged := render.Artifact{Data: buf.Bytes(), Pages: wantPages}
	gotPages, err := render.PageCount(merged.Data)
	if err != nil {
		return render.Artifact{}, services.Wrap(services.ErrExternalTool, "merge", "verify", "merged document unreadable", err)
	}
	if gotPages != wantPages {
		return render.Artifact{}, services.Wrap(services.ErrExternalTool, "merge", "verify", fmt.Sprintf("merged page count %d, expected %d", gotPages, wantPages), nil)
	}

	m.logger.Debug("artifacts merged",
		logging.Int("artifacts", len(artifacts)),
		logging.Int("pages", merged.Pages),
	)
	return merged, nil
}
