package scan2font

import (
	"math"

	"github.com/handfont/scan2font/logging"
)

// FontMetrics are the target font-unit constants of normalization.
// Coordinates are y-up with the baseline at 0.
type FontMetrics struct {
	UnitsPerEm   int
	CapHeight    int
	Ascender     int
	Descender    int
	LeftBearing  int
	RightBearing int
}

// DefaultFontMetrics returns the standard 1000-unit em with a 700-unit
// cap height and 10-unit side bearings.
func DefaultFontMetrics() FontMetrics {
	return FontMetrics{
		UnitsPerEm:   1000,
		CapHeight:    700,
		Ascender:     750,
		Descender:    -200,
		LeftBearing:  10,
		RightBearing: 10,
	}
}

// NormalizedGlyph is a vector cell mapped into font units: y-up,
// baseline at 0, x starting at the left bearing.
type NormalizedGlyph struct {
	Outlines     []Contour
	Holes        []Contour
	AdvanceWidth int
	Bounds       Rect
	Scale        float64
}

// NormalizeCell maps a vectorized cell from writing-area pixels into
// font units. One uniform scale, derived from the template's
// cap-to-baseline span, is applied to both axes so every glyph on the
// page keeps geometrically correct relative heights; the baseline guide
// lands at font y=0 and x starts at the left bearing.
func NormalizeCell(v VectorCell, tc TemplateCoordinates, m FontMetrics) NormalizedGlyph {
	// Guide offsets translated into writing-area coordinates: the crop
	// removed the label band at the top of the cell.
	baselinePx := tc.Guides.Baseline - tc.Guides.LabelTop
	capPx := tc.Guides.CapHeight - tc.Guides.LabelTop

	templateCapToBaseline := baselinePx - capPx
	fontCapToBaseline := float64(m.CapHeight)
	scale := fontCapToBaseline / templateCapToBaseline

	bbox := v.BBox()
	transform := func(cs []Contour) []Contour {
		out := make([]Contour, len(cs))
		for i, c := range cs {
			nc := make(Contour, len(c))
			for j, p := range c {
				nc[j] = Point{
					X: (p.X-bbox.X)*scale + float64(m.LeftBearing),
					Y: (baselinePx - p.Y) * scale,
				}
			}
			out[i] = nc
		}
		return out
	}

	g := NormalizedGlyph{
		Outlines: transform(v.Outlines),
		Holes:    transform(v.Holes),
		Scale:    scale,
		AdvanceWidth: int(math.Round(
			float64(m.LeftBearing) + bbox.W*scale + float64(m.RightBearing))),
	}
	g.Outlines = enforceWinding(g.Outlines, true)
	g.Holes = enforceWinding(g.Holes, false)
	g.Bounds = glyphBounds(g.Outlines, g.Holes)

	logging.Stage("normalize").Debug("cell normalized",
		"scale", scale, "advance", g.AdvanceWidth)
	return g
}

// enforceWinding guarantees positive signed area for outlines and
// negative for holes in font space, independent of the tracer's
// orientation conventions.
func enforceWinding(cs []Contour, outline bool) []Contour {
	out := make([]Contour, len(cs))
	for i, c := range cs {
		area := c.SignedArea()
		if outline && area < 0 || !outline && area > 0 {
			out[i] = c.Reversed()
		} else {
			out[i] = c
		}
	}
	return out
}

// glyphBounds returns the union bounding box of all contours.
func glyphBounds(outlines, holes []Contour) Rect {
	first := true
	var minX, minY, maxX, maxY float64
	for _, cs := range [][]Contour{outlines, holes} {
		for _, c := range cs {
			b := c.BBox()
			if first {
				minX, minY = b.X, b.Y
				maxX, maxY = b.X+b.W, b.Y+b.H
				first = false
				continue
			}
			minX = math.Min(minX, b.X)
			minY = math.Min(minY, b.Y)
			maxX = math.Max(maxX, b.X+b.W)
			maxY = math.Max(maxY, b.Y+b.H)
		}
	}
	if first {
		return Rect{}
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}
