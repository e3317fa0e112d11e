package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"cardpress/internal/batch"
	"cardpress/internal/layout"
)

// ProgressUpdate reports per-page rendering progress for one batch.
type ProgressUpdate struct {
	Page     int
	Pages    int
	Fraction float64
	Message  string
}

// Artifact is a rendered output document: PDF bytes plus a page count.
// Artifacts are transient; they exist only between rendering and merging.
type Artifact struct {
	Data  []byte
	Pages int
}

// Renderer turns one batch into one artifact. Implementations report
// fractional progress in [0,1] page by page and observe cancellation between
// pages, returning context.Canceled rather than a generic error. This is the
// most expensive step of an export and the only one expected to run work
// outside the calling goroutine.
type Renderer interface {
	Render(ctx context.Context, b batch.PageBatch, geom layout.Geometry, progress func(ProgressUpdate)) (Artifact, error)
}

// PageCount reads the page count out of a PDF artifact's bytes.
func PageCount(data []byte) (int, error) {
	count, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		return 0, fmt.Errorf("count pages: %w", err)
	}
	return count, nil
}
