package export

import (
	"sync"

	"cardpress/internal/plan"
)

// Phase identifies one weighted span of an export request.
type Phase string

const (
	PhaseRenderFront Phase = "render-front"
	PhaseRenderBack  Phase = "render-back"
	PhaseMerge       Phase = "merge"
)

// span is a phase's slice of the overall percentage scale.
type span struct {
	start int
	end   int
}

// phaseSpan returns the weight-table entry for a phase under a mode.
// Single-sided modes spend the whole scale on rendering and snap to 100 at
// merge time. Duplex splits rendering across its two sheets and reserves the
// tail for the merge, so the bar keeps moving while pages are copied.
func phaseSpan(mode plan.Mode, phase Phase) span {
	if mode.TwoSided() {
		switch phase {
		case PhaseRenderFront:
			return span{0, 45}
		case PhaseRenderBack:
			return span{45, 90}
		case PhaseMerge:
			return span{90, 100}
		}
	}
	switch phase {
	case PhaseRenderFront, PhaseRenderBack:
		return span{0, 100}
	case PhaseMerge:
		return span{100, 100}
	}
	return span{0, 0}
}

// Percent maps a phase-local fraction in [0,1] to the overall integer
// percentage for the mode. Pure; the tracker applies monotonicity.
func Percent(mode plan.Mode, phase Phase, fraction float64) int {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	s := phaseSpan(mode, phase)
	return s.start + int(fraction*float64(s.end-s.start))
}

// batchFraction positions batch `index` of `total` at local progress `frac`
// on the phase's [0,1] scale.
func batchFraction(index, total int, frac float64) float64 {
	if total <= 0 {
		return 1
	}
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	return (float64(index) + frac) / float64(total)
}

// progressTracker serializes progress callbacks and enforces the contract
// that reported percentages never decrease within a request.
type progressTracker struct {
	mu      sync.Mutex
	percent int
	publish func(int)
}

func newProgressTracker(publish func(int)) *progressTracker {
	return &progressTracker{publish: publish}
}

func (t *progressTracker) Update(percent int) {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	t.mu.Lock()
	if percent <= t.percent {
		t.mu.Unlock()
		return
	}
	t.percent = percent
	publish := t.publish
	t.mu.Unlock()

	if publish != nil {
		publish(percent)
	}
}

func (t *progressTracker) Current() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.percent
}
