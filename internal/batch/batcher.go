package batch

import (
	"cardpress/internal/cards"
	"cardpress/internal/layout"
)

// PageBatch is a page-aligned slice of one sheet, rendered as one
// intermediate artifact. Its length is a multiple of the grid capacity except
// possibly the sheet's final batch.
type PageBatch struct {
	Faces        []cards.Face
	RightAligned bool
}

// Pages returns how many pages the batch renders under geom.
func (b PageBatch) Pages(geom layout.Geometry) int {
	return geom.PageCount(len(b.Faces))
}

// PagesPerBatch returns how many whole pages fit under the pixel budget.
// A budget smaller than one page still yields one page per batch; batches
// must make progress.
func PagesPerBatch(geom layout.Geometry, pixelBudget int64) int {
	pixelsPerPage := geom.PixelsPerPage()
	if pixelsPerPage <= 0 {
		return 1
	}
	pages := int(pixelBudget / pixelsPerPage)
	if pages < 1 {
		return 1
	}
	return pages
}

// Split slices a sheet into consecutive page-aligned batches under the pixel
// budget. Every batch inherits the sheet's right-alignment flag; the final
// batch may be shorter than the rest. Unbounded jobs must never render as one
// monolithic artifact: the split bounds peak memory while producing chunks
// that merge losslessly.
func Split(faces []cards.Face, geom layout.Geometry, pixelBudget int64, rightAligned bool) []PageBatch {
	if len(faces) == 0 {
		return nil
	}

	facesPerBatch := PagesPerBatch(geom, pixelBudget) * geom.FacesPerPage()
	if facesPerBatch < 1 {
		facesPerBatch = 1
	}

	batches := make([]PageBatch, 0, (len(faces)+facesPerBatch-1)/facesPerBatch)
	for start := 0; start < len(faces); start += facesPerBatch {
		end := start + facesPerBatch
		if end > len(faces) {
			end = len(faces)
		}
		chunk := make([]cards.Face, end-start)
		copy(chunk, faces[start:end])
		batches = append(batches, PageBatch{Faces: chunk, RightAligned: rightAligned})
	}
	return batches
}
