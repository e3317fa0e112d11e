package cards

import "strings"

// Face is one printable side of one card slot in an export job.
//
// A face with BlankPlaceholder set carries no image reference and is only
// ever used as a back.
type Face struct {
	ID               string
	DisplayName      string
	ImageRef         string
	LinkedBackID     string
	LinkedFrontID    string
	BlankPlaceholder bool
	DefaultBack      bool
}

// IsBack reports whether the face belongs on a back sheet.
func (f Face) IsBack() bool {
	return f.BlankPlaceholder || f.LinkedFrontID != ""
}

// HasLinkedBack reports whether the front declares a back to resolve.
func (f Face) HasLinkedBack() bool {
	return strings.TrimSpace(f.LinkedBackID) != ""
}

// BlankBackFor fabricates the placeholder back for a front. The ID is derived
// from the front so duplicate fronts keep distinct, stable backs.
func BlankBackFor(front Face) Face {
	return Face{
		ID:               front.ID + ":blank-back",
		DisplayName:      "Blank back",
		LinkedFrontID:    front.ID,
		BlankPlaceholder: true,
		DefaultBack:      true,
	}
}
