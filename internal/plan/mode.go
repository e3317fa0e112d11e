package plan

import "strings"

// Mode selects how fronts and backs are paired into sheets.
type Mode string

const (
	ModeFrontsOnly        Mode = "fronts"
	ModeInterleavedAll    Mode = "interleaved-all"
	ModeInterleavedCustom Mode = "interleaved-custom"
	ModeDuplex            Mode = "duplex"
	ModeBacksOnly         Mode = "backs"
)

var allModes = []Mode{
	ModeFrontsOnly,
	ModeInterleavedAll,
	ModeInterleavedCustom,
	ModeDuplex,
	ModeBacksOnly,
}

var modeSet = func() map[Mode]struct{} {
	set := make(map[Mode]struct{}, len(allModes))
	for _, mode := range allModes {
		set[mode] = struct{}{}
	}
	return set
}()

// AllModes returns the ordered list of known export modes.
func AllModes() []Mode {
	cp := make([]Mode, len(allModes))
	copy(cp, allModes)
	return cp
}

// ParseMode converts a string into a known Mode.
func ParseMode(value string) (Mode, bool) {
	normalized := Mode(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := modeSet[normalized]
	return normalized, ok
}

// Valid reports whether the mode is one of the five known modes.
func (m Mode) Valid() bool {
	_, ok := modeSet[m]
	return ok
}

// NeedsBacks reports whether planning the mode consumes the resolved back
// sequence.
func (m Mode) NeedsBacks() bool {
	return m != ModeFrontsOnly
}

// TwoSided reports whether the mode plans separate front and back sheets.
func (m Mode) TwoSided() bool {
	return m == ModeDuplex
}

// Description returns a one-line summary for CLI listings.
func (m Mode) Description() string {
	switch m {
	case ModeFrontsOnly:
		return "front faces only, in deck order"
	case ModeInterleavedAll:
		return "each front followed by its real back"
	case ModeInterleavedCustom:
		return "each front followed by its back, custom backs only"
	case ModeDuplex:
		return "front sheet plus mirrored back sheet for double-sided printing"
	case ModeBacksOnly:
		return "mirrored back sheet only"
	default:
		return ""
	}
}
