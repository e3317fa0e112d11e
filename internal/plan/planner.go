package plan

import (
	"fmt"

	"cardpress/internal/cards"
	"cardpress/internal/services"
)

// Side labels which physical side of a duplex job a sheet belongs to.
type Side string

const (
	SideFront Side = "front"
	SideBack  Side = "back"
)

// Sheet is one ordered face sequence destined for one physical side.
type Sheet struct {
	Side         Side
	Faces        []cards.Face
	RightAligned bool
}

// Plan is the planner's output: one sheet for single-sided modes, two for
// Duplex, none when the job is empty.
type Plan struct {
	Mode   Mode
	Sheets []Sheet
}

// Empty reports whether the plan produces no pages at all.
func (p Plan) Empty() bool {
	for _, sheet := range p.Sheets {
		if len(sheet.Faces) > 0 {
			return false
		}
	}
	return true
}

// Build applies the mode's inclusion rules to the front sequence and the
// resolved back sequence. backs must be the resolver's 1:1, blank-padded
// output whenever the mode consumes backs.
func Build(mode Mode, fronts, backs []cards.Face, columns int) (Plan, error) {
	if !mode.Valid() {
		return Plan{}, services.Wrap(services.ErrValidation, "plan", "build", fmt.Sprintf("unknown export mode %q", string(mode)), nil)
	}
	for _, front := range fronts {
		if front.IsBack() {
			return Plan{}, services.Wrap(services.ErrValidation, "plan", "build", fmt.Sprintf("front sequence contains back-only face %q", front.ID), nil)
		}
	}
	if mode.NeedsBacks() && len(backs) != len(fronts) {
		return Plan{}, services.Wrap(services.ErrValidation, "plan", "build", fmt.Sprintf("back sequence length %d does not match %d fronts", len(backs), len(fronts)), nil)
	}

	if len(fronts) == 0 {
		return Plan{Mode: mode}, nil
	}

	switch mode {
	case ModeFrontsOnly:
		return Plan{Mode: mode, Sheets: []Sheet{{Side: SideFront, Faces: copyFaces(fronts)}}}, nil

	case ModeInterleavedAll:
		return Plan{Mode: mode, Sheets: []Sheet{{Side: SideFront, Faces: interleave(fronts, backs, false)}}}, nil

	case ModeInterleavedCustom:
		return Plan{Mode: mode, Sheets: []Sheet{{Side: SideFront, Faces: interleave(fronts, backs, true)}}}, nil

	case ModeBacksOnly:
		mirrored, err := Mirror(backs, columns)
		if err != nil {
			return Plan{}, err
		}
		return Plan{Mode: mode, Sheets: []Sheet{{Side: SideBack, Faces: mirrored, RightAligned: true}}}, nil

	case ModeDuplex:
		mirrored, err := Mirror(backs, columns)
		if err != nil {
			return Plan{}, err
		}
		return Plan{Mode: mode, Sheets: []Sheet{
			{Side: SideFront, Faces: copyFaces(fronts)},
			{Side: SideBack, Faces: mirrored, RightAligned: true},
		}}, nil
	}

	return Plan{}, services.Wrap(services.ErrValidation, "plan", "build", fmt.Sprintf("unhandled export mode %q", string(mode)), nil)
}

// interleave emits each front followed by its back when the back qualifies:
// blank placeholders never qualify, and with customOnly set, default backs
// are skipped as well.
func interleave(fronts, backs []cards.Face, customOnly bool) []cards.Face {
	out := make([]cards.Face, 0, len(fronts)*2)
	for i, front := range fronts {
		out = append(out, front)
		back := backs[i]
		if back.BlankPlaceholder {
			continue
		}
		if customOnly && back.DefaultBack {
			continue
		}
		out = append(out, back)
	}
	return out
}

func copyFaces(faces []cards.Face) []cards.Face {
	cp := make([]cards.Face, len(faces))
	copy(cp, faces)
	return cp
}
