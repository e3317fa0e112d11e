package batch_test

import (
	"fmt"
	"testing"

	"cardpress/internal/batch"
	"cardpress/internal/cards"
	"cardpress/internal/layout"
)

func sequence(n int) []cards.Face {
	faces := make([]cards.Face, 0, n)
	for i := 0; i < n; i++ {
		faces = append(faces, cards.Face{ID: fmt.Sprintf("card-%d", i)})
	}
	return faces
}

func letterGrid() layout.Geometry {
	return layout.Geometry{Columns: 3, Rows: 3, PageWidthPx: 2550, PageHeightPx: 3300}
}

func TestPagesPerBatchReferenceScenario(t *testing.T) {
	// 2e9 budget over 2550x3300 pages: 8,415,000 px/page, 237 pages/batch.
	got := batch.PagesPerBatch(letterGrid(), 2_000_000_000)
	if got != 237 {
		t.Fatalf("PagesPerBatch: got %d want 237", got)
	}
}

func TestPagesPerBatchNeverZero(t *testing.T) {
	geom := letterGrid()
	if got := batch.PagesPerBatch(geom, 1); got != 1 {
		t.Fatalf("tiny budget: got %d want 1", got)
	}
	if got := batch.PagesPerBatch(geom, geom.PixelsPerPage()-1); got != 1 {
		t.Fatalf("budget below one page: got %d want 1", got)
	}
}

func TestSplitTenThousandCardJob(t *testing.T) {
	batches := batch.Split(sequence(10_000), letterGrid(), 2_000_000_000, false)
	if len(batches) != 5 {
		t.Fatalf("expected 5 batches, got %d", len(batches))
	}

	facesPerBatch := 237 * 9
	total := 0
	for i, b := range batches {
		total += len(b.Faces)
		if i < len(batches)-1 && len(b.Faces) != facesPerBatch {
			t.Fatalf("batch %d: got %d faces want %d", i, len(b.Faces), facesPerBatch)
		}
	}
	if total != 10_000 {
		t.Fatalf("faces lost in split: %d", total)
	}
	if want := 10_000 - 4*facesPerBatch; len(batches[4].Faces) != want {
		t.Fatalf("final batch: got %d faces want %d", len(batches[4].Faces), want)
	}
}

func TestSplitPreservesOrderAndAlignment(t *testing.T) {
	faces := sequence(20)
	geom := layout.Geometry{Columns: 2, Rows: 2, PageWidthPx: 100, PageHeightPx: 100}
	batches := batch.Split(faces, geom, 20_000, true) // two pages per batch

	index := 0
	for _, b := range batches {
		if !b.RightAligned {
			t.Fatal("batches must inherit right alignment")
		}
		for _, face := range b.Faces {
			if face.ID != faces[index].ID {
				t.Fatalf("order broken at %d: got %q want %q", index, face.ID, faces[index].ID)
			}
			index++
		}
	}
	if index != len(faces) {
		t.Fatalf("split dropped faces: %d of %d", index, len(faces))
	}
}

func TestSplitBatchBoundariesFallOnPages(t *testing.T) {
	geom := layout.Geometry{Columns: 2, Rows: 3, PageWidthPx: 200, PageHeightPx: 100}
	batches := batch.Split(sequence(50), geom, 3*geom.PixelsPerPage(), false)
	perPage := geom.FacesPerPage()
	for i, b := range batches[:len(batches)-1] {
		if len(b.Faces)%perPage != 0 {
			t.Fatalf("batch %d: %d faces not page aligned (page=%d)", i, len(b.Faces), perPage)
		}
	}
}

func TestSplitEmptySheet(t *testing.T) {
	if got := batch.Split(nil, letterGrid(), 2_000_000_000, false); got != nil {
		t.Fatalf("expected no batches, got %d", len(got))
	}
}

func TestBatchPages(t *testing.T) {
	geom := letterGrid()
	b := batch.PageBatch{Faces: sequence(10)}
	if got := b.Pages(geom); got != 2 {
		t.Fatalf("Pages: got %d want 2", got)
	}
}
