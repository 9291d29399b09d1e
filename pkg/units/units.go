// Package units converts physical lengths to device units.
//
// All physical dimensions in bricklabels (label sizes, margins, spacing,
// dot diameters) are given in millimeters. A [Converter] turns them into
// pixel counts at a fixed resolution. Conversion rounds to the nearest
// pixel rather than truncating, so repeated conversions of margins and
// sizes stay consistent with each other.
package units

import "math"

// MMPerInch is the number of millimeters in one inch.
const MMPerInch = 25.4

// Converter converts millimeter lengths to pixels at a fixed resolution.
// The zero value converts everything to zero; use [NewConverter].
type Converter struct {
	dpi int
}

// NewConverter creates a Converter for the given resolution in dots per inch.
func NewConverter(dpi int) Converter {
	return Converter{dpi: dpi}
}

// DPI returns the resolution the converter was created with.
func (c Converter) DPI() int { return c.dpi }

// ToPixels converts a length in millimeters to a pixel count.
// The result rounds half away from zero.
func (c Converter) ToPixels(mm float64) int {
	return int(math.Round(float64(c.dpi) * mm / MMPerInch))
}

// Margins holds the four label margins in millimeters.
type Margins struct {
	Top    float64
	Bottom float64
	Left   float64
	Right  float64
}

// ToPixels converts all four margins using c.
func (m Margins) ToPixels(c Converter) PixelMargins {
	return PixelMargins{
		Top:    c.ToPixels(m.Top),
		Bottom: c.ToPixels(m.Bottom),
		Left:   c.ToPixels(m.Left),
		Right:  c.ToPixels(m.Right),
	}
}

// PixelMargins holds the four margins converted to pixels.
type PixelMargins struct {
	Top    int
	Bottom int
	Left   int
	Right  int
}
