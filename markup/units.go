package markup

import (
	"strconv"
	"strings"
)

// This file defines unit-safe parsing for tag attribute values.
// Tag lengths accept a bare number (pixels), an em factor or a percentage,
// e.g. <size=18>, <size=1.5em>, <size=80%>, <indent=10%>.

// LengthUnit represents the original unit of a tag length value.
type LengthUnit int

const (
	UnitPx      LengthUnit = iota // bare numbers are pixels
	UnitEm                        // relative to the current font size
	UnitPercent                   // relative to a caller-chosen reference
)

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64
	Unit  LengthUnit
}

// Resolve converts the length to pixels. em resolves against fontSize,
// percent against ref (callers pass the font size or the wrap width,
// whichever the attribute is relative to).
func (l Length) Resolve(fontSize, ref float64) float64 {
	switch l.Unit {
	case UnitEm:
		return l.Value * fontSize
	case UnitPercent:
		return l.Value / 100 * ref
	default:
		return l.Value
	}
}

// ParseLength parses a tag length value preserving its unit.
// Returns ok=false on non-numeric input; the directive is then ignored.
func ParseLength(value string) (Length, bool) {
	v := strings.TrimSpace(strings.ToLower(value))
	if v == "" {
		return Length{}, false
	}
	unit := UnitPx
	switch {
	case strings.HasSuffix(v, "em"):
		unit = UnitEm
		v = strings.TrimSpace(strings.TrimSuffix(v, "em"))
	case strings.HasSuffix(v, "px"):
		v = strings.TrimSpace(strings.TrimSuffix(v, "px"))
	case strings.HasSuffix(v, "%"):
		unit = UnitPercent
		v = strings.TrimSpace(strings.TrimSuffix(v, "%"))
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return Length{}, false
	}
	return Length{Value: f, Unit: unit}, true
}

// parseFloat is a strict float parse used by scale/rotate handlers.
func parseFloat(value string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
