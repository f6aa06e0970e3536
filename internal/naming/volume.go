package naming

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/sydlexius/shoreline/internal/rules"
)

// VolumeInfo is one parsed volume identifier: a plain volume (Base only), a
// decimal/novella volume, a multi-part release (Part set), or a publisher
// pack (RangeEnd set). Part and RangeEnd are mutually exclusive; zero means
// unset for both.
type VolumeInfo struct {
	Base     float64 `json:"base"`
	RangeEnd float64 `json:"range_end,omitempty"`
	Part     int     `json:"part,omitempty"`
}

// Volume surface forms, evaluated in order; first match wins. The part
// pattern runs before the range pattern so "Vol 3 Part 1" never reads as a
// descending range.
var (
	reVolPart = regexp.MustCompile(
		`(?i)\b(?:vol(?:ume)?s?|books?|v)[\s._#]*([0-9]+(?:\.[0-9]+)?)[\s._,-]*(?:part|pt|p)[\s._]*([0-9]+)\b`)

	reVolRange = regexp.MustCompile(
		`(?i)\b(?:vol(?:ume)?s?|books?)[\s._#]*([0-9]+(?:\.[0-9]+)?)\s*(?:-|–|—|~|to)\s*([0-9]+(?:\.[0-9]+)?)\b`)

	reVolSimple = regexp.MustCompile(
		`(?i)\b(?:vol(?:ume)?s?|books?|v)[\s._#]*([0-9]+(?:\.[0-9]+)?)\b`)
)

// ParseVolume extracts a volume identifier from free text. Alias phrases
// from the rule table are checked first against the whole trimmed text; the
// regex rules run afterward. A false return means no volume was found, which
// is a valid terminal state, not an error — callers omit the volume segment.
func ParseVolume(text string, t *rules.Table) (VolumeInfo, bool) {
	trimmed := strings.ToLower(strings.TrimSpace(text))
	if trimmed == "" {
		return VolumeInfo{}, false
	}

	for _, a := range t.VolumeAliases {
		if trimmed != a.Phrase {
			continue
		}
		if !a.HasBase {
			// Recognized, but maps to "no volume segment".
			return VolumeInfo{}, false
		}
		return VolumeInfo{Base: a.Base}, true
	}

	if m := reVolPart.FindStringSubmatch(text); m != nil {
		return VolumeInfo{Base: parseNum(m[1]), Part: int(parseNum(m[2]))}, true
	}

	if m := reVolRange.FindStringSubmatch(text); m != nil {
		first, second := parseNum(m[1]), parseNum(m[2])
		if second > first {
			return VolumeInfo{Base: first, RangeEnd: second}, true
		}
		// Equal or descending pairs read as part notation. Whether a
		// reversed publisher pack should instead invert the range is
		// undecided upstream; keep the conservative reading until a
		// ruling lands.
		return VolumeInfo{Base: first, Part: int(second)}, true
	}

	if m := reVolSimple.FindStringSubmatch(text); m != nil {
		return VolumeInfo{Base: parseNum(m[1])}, true
	}

	return VolumeInfo{}, false
}

// FormatVolume renders the canonical volume token:
//
//	vol_03  vol_03.5  vol_03p1  vol_01-03
//
// With zeroPad false the integer part is not padded. FormatVolume and
// [ParseVolume] round-trip: formatting a parsed canonical token reproduces
// it exactly, so already-named folders reprocess safely.
func FormatVolume(v VolumeInfo, zeroPad bool) string {
	var b strings.Builder
	b.WriteString("vol_")
	b.WriteString(formatBase(v.Base, zeroPad))
	switch {
	case v.Part > 0:
		b.WriteString("p")
		b.WriteString(strconv.Itoa(v.Part))
	case v.RangeEnd > 0:
		b.WriteString("-")
		b.WriteString(formatBase(v.RangeEnd, zeroPad))
	}
	return b.String()
}

// VolumeToken parses free text and renders the canonical token in one step.
// Returns "" when no volume is found.
func VolumeToken(text string, t *rules.Table, zeroPad bool) string {
	v, ok := ParseVolume(text, t)
	if !ok {
		return ""
	}
	return FormatVolume(v, zeroPad)
}

// PositionToken renders a series-position string ("7", "3.5", "1-3") as a
// canonical volume token. Returns "" when the position is not numeric.
func PositionToken(pos string, zeroPad bool) string {
	pos = strings.TrimSpace(pos)
	if pos == "" {
		return ""
	}
	if first, second, ok := strings.Cut(pos, "-"); ok {
		a, errA := strconv.ParseFloat(strings.TrimSpace(first), 64)
		b, errB := strconv.ParseFloat(strings.TrimSpace(second), 64)
		if errA != nil || errB != nil {
			return ""
		}
		if b > a {
			return FormatVolume(VolumeInfo{Base: a, RangeEnd: b}, zeroPad)
		}
		return FormatVolume(VolumeInfo{Base: a, Part: int(b)}, zeroPad)
	}
	f, err := strconv.ParseFloat(pos, 64)
	if err != nil {
		return ""
	}
	return FormatVolume(VolumeInfo{Base: f}, zeroPad)
}

func parseNum(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

// formatBase renders a volume number with a two-digit integer part:
// 3 → "03", 3.5 → "03.5", 12 → "12".
func formatBase(f float64, zeroPad bool) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !zeroPad {
		return s
	}
	intPart, frac, _ := strings.Cut(s, ".")
	if len(intPart) < 2 {
		intPart = "0" + intPart
	}
	if frac != "" {
		return intPart + "." + frac
	}
	return intPart
}
