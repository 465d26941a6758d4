package layout

import (
	"strconv"
	"strings"
)

// This file defines unit-safe lengths and the mm <-> px conversions used by the geometry resolver.

// Unit is the unit a length value was written in.
type Unit int

const (
	UnitNone Unit = iota // unit-less numbers like ratios
	UnitMM               // millimeters
	UnitCM               // centimeters
	UnitIN               // inches
	UnitPT               // points
	UnitPX               // CSS pixels
)

// Conversion constants. Pixel density is fixed at the CSS reference of 96px per inch.
const (
	MmPerInch = 25.4
	PxPerInch = 96.0
	PtPerInch = 72.0
	PtToMm    = MmPerInch / PtPerInch
)

// MMToPx converts millimeters to CSS pixels.
func MMToPx(mm float64) float64 { return PxPerInch * mm / MmPerInch }

// PxToMM converts CSS pixels to millimeters.
func PxToMM(px float64) float64 { return px * MmPerInch / PxPerInch }

// PxToPt converts CSS pixels to points.
func PxToPt(px float64) float64 { return px * PtPerInch / PxPerInch }

// UnitToString returns a short string for a Unit value.
func UnitToString(u Unit) string {
	switch u {
	case UnitMM:
		return "mm"
	case UnitCM:
		return "cm"
	case UnitIN:
		return "in"
	case UnitPT:
		return "pt"
	case UnitPX:
		return "px"
	default:
		return ""
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// String 还原书写形式，例如 "36pt"。
func (l Length) String() string {
	return strconv.FormatFloat(l.Value, 'f', -1, 64) + UnitToString(l.Unit)
}

// ToMM converts the length to millimeters. Unit-less values are taken as millimeters.
func (l Length) ToMM() float64 {
	switch l.Unit {
	case UnitCM:
		return l.Value * 10
	case UnitIN:
		return l.Value * MmPerInch
	case UnitPT:
		return l.Value * PtToMm
	case UnitPX:
		return PxToMM(l.Value)
	default:
		return l.Value
	}
}

// ToPx converts the length to CSS pixels. Unit-less values are taken as pixels.
func (l Length) ToPx() float64 {
	switch l.Unit {
	case UnitPT:
		return l.Value * PxPerInch / PtPerInch
	case UnitIN:
		return l.Value * PxPerInch
	case UnitMM, UnitCM:
		return MMToPx(l.ToMM())
	default:
		return l.Value
	}
}

// ParseLength parses "12", "10mm", "1.5cm", "36pt" or "48px". ok is false when the number is malformed.
func ParseLength(value string) (Length, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, false
	}
	unit := UnitNone
	for _, suf := range []struct {
		s string
		u Unit
	}{{"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}, {"px", UnitPX}} {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			v = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return Length{}, false
	}
	return Length{Value: f, Unit: unit}, true
}
