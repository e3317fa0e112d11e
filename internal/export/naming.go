package export

import (
	"fmt"
	"time"

	"cardpress/internal/plan"
)

const dateLayout = "2006-01-02"

// Filename builds the deliverable's file name from the configured prefix,
// the export mode, and the request date. Duplex fixes its own name; the
// other modes share the generic suffix path.
func Filename(prefix string, mode plan.Mode, now time.Time) string {
	if prefix == "" {
		prefix = "cards"
	}
	date := now.Format(dateLayout)

	if mode.TwoSided() {
		return fmt.Sprintf("%s_%s_duplex.pdf", prefix, date)
	}
	return fmt.Sprintf("%s_%s%s.pdf", prefix, date, modeSuffix(mode))
}

func modeSuffix(mode plan.Mode) string {
	switch mode {
	case plan.ModeFrontsOnly:
		return "_fronts"
	case plan.ModeInterleavedAll:
		return "_interleaved-all"
	case plan.ModeInterleavedCustom:
		return "_interleaved-custom"
	case plan.ModeBacksOnly:
		return "_backs"
	default:
		return "_" + string(mode)
	}
}
