package layout

import (
	"fmt"

	"cardpress/internal/services"
)

// Geometry fixes the rectangular grid printed on every page.
type Geometry struct {
	Columns      int
	Rows         int
	PageWidthPx  int
	PageHeightPx int
}

// Validate rejects degenerate geometry before any rendering starts.
func (g Geometry) Validate() error {
	if g.Columns < 1 {
		return services.Wrap(services.ErrConfiguration, "layout", "validate", fmt.Sprintf("columns must be at least 1 (got %d)", g.Columns), nil)
	}
	if g.Rows < 1 {
		return services.Wrap(services.ErrConfiguration, "layout", "validate", fmt.Sprintf("rows must be at least 1 (got %d)", g.Rows), nil)
	}
	if g.PageWidthPx <= 0 {
		return services.Wrap(services.ErrConfiguration, "layout", "validate", fmt.Sprintf("page width must be positive (got %d)", g.PageWidthPx), nil)
	}
	if g.PageHeightPx <= 0 {
		return services.Wrap(services.ErrConfiguration, "layout", "validate", fmt.Sprintf("page height must be positive (got %d)", g.PageHeightPx), nil)
	}
	return nil
}

// FacesPerPage returns the grid capacity of one page.
func (g Geometry) FacesPerPage() int {
	return g.Columns * g.Rows
}

// PixelsPerPage returns the raster cost of one page.
func (g Geometry) PixelsPerPage() int64 {
	return int64(g.PageWidthPx) * int64(g.PageHeightPx)
}

// PageCount returns how many pages a sheet of the given length occupies.
func (g Geometry) PageCount(faces int) int {
	perPage := g.FacesPerPage()
	if perPage <= 0 || faces <= 0 {
		return 0
	}
	return (faces + perPage - 1) / perPage
}
