package layout_test

import (
	"errors"
	"testing"

	"cardpress/internal/layout"
	"cardpress/internal/services"
)

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		geom layout.Geometry
		ok   bool
	}{
		{"letter grid", layout.Geometry{Columns: 3, Rows: 3, PageWidthPx: 2550, PageHeightPx: 3300}, true},
		{"single cell", layout.Geometry{Columns: 1, Rows: 1, PageWidthPx: 1, PageHeightPx: 1}, true},
		{"zero columns", layout.Geometry{Columns: 0, Rows: 3, PageWidthPx: 2550, PageHeightPx: 3300}, false},
		{"zero rows", layout.Geometry{Columns: 3, Rows: 0, PageWidthPx: 2550, PageHeightPx: 3300}, false},
		{"zero width", layout.Geometry{Columns: 3, Rows: 3, PageWidthPx: 0, PageHeightPx: 3300}, false},
		{"negative height", layout.Geometry{Columns: 3, Rows: 3, PageWidthPx: 2550, PageHeightPx: -1}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.geom.Validate()
			if tc.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.ok {
				if err == nil {
					t.Fatal("expected configuration error")
				}
				if !errors.Is(err, services.ErrConfiguration) {
					t.Fatalf("expected configuration sentinel, got %v", err)
				}
			}
		})
	}
}

func TestPixelsPerPageAvoidsOverflow(t *testing.T) {
	geom := layout.Geometry{Columns: 3, Rows: 3, PageWidthPx: 100_000, PageHeightPx: 100_000}
	if got := geom.PixelsPerPage(); got != 10_000_000_000 {
		t.Fatalf("pixels per page: got %d", got)
	}
}

func TestPageCount(t *testing.T) {
	geom := layout.Geometry{Columns: 3, Rows: 3, PageWidthPx: 2550, PageHeightPx: 3300}
	cases := []struct {
		faces int
		want  int
	}{
		{0, 0},
		{1, 1},
		{9, 1},
		{10, 2},
		{18, 2},
		{19, 3},
	}
	for _, tc := range cases {
		if got := geom.PageCount(tc.faces); got != tc.want {
			t.Fatalf("PageCount(%d): got %d want %d", tc.faces, got, tc.want)
		}
	}
}
