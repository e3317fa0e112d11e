package plan

import (
	"fmt"

	"cardpress/internal/cards"
	"cardpress/internal/services"
)

// Mirror reverses each grid row of the sequence in place of its original
// position: faces are partitioned into consecutive rows of exactly columns
// elements (the final row holds the remainder) and each row's internal order
// is reversed independently. No face crosses its original row boundary, and a
// short final row is never padded; the caller flags it for right-alignment at
// render time instead, so printed backs line up under their fronts after a
// sheet flip.
func Mirror(faces []cards.Face, columns int) ([]cards.Face, error) {
	if columns <= 0 {
		return nil, services.Wrap(services.ErrConfiguration, "plan", "mirror", fmt.Sprintf("columns must be positive (got %d)", columns), nil)
	}

	mirrored := make([]cards.Face, len(faces))
	for start := 0; start < len(faces); start += columns {
		end := start + columns
		if end > len(faces) {
			end = len(faces)
		}
		for i := start; i < end; i++ {
			mirrored[i] = faces[end-1-(i-start)]
		}
	}
	return mirrored, nil
}
