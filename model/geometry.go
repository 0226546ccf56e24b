package model

import "math"

// Twips converts points to twips (1/20 point), rounding to the nearest
// integer.
func Twips(pt float64) int {
	return int(math.Round(pt * 20))
}

// HalfPoints converts a font size in points to half-points.
func HalfPoints(pt float64) int {
	return int(math.Round(pt * 2))
}

// PixelsToPoints converts a pixel length at the given resolution to points.
// A non-positive dpi is treated as 96.
func PixelsToPoints(px int, dpi float64) float64 {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return float64(px) * 72 / dpi
}

// DefaultDPI is assumed for images that do not record a resolution.
const DefaultDPI = 96

// Margins holds the four edge distances of a box, in points
type Margins struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// NewMargins creates margins with the same value on every edge
func NewMargins(all float64) Margins {
	return Margins{Top: all, Right: all, Bottom: all, Left: all}
}

// IsZero returns true if all edges are zero
func (m Margins) IsZero() bool {
	return m.Top == 0 && m.Right == 0 && m.Bottom == 0 && m.Left == 0
}

// Equals returns true if every edge of m equals the corresponding edge of other
func (m Margins) Equals(other Margins) bool {
	return m == other
}
