package scan2font

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ringCell builds a VectorCell with one square outline and one square
// hole, in writing-area pixel coordinates (y down).
func ringCell(x, y, outer, inner float64) VectorCell {
	off := (outer - inner) / 2
	v := VectorCell{
		Outlines: []Contour{square(x, y, outer)},
		Holes:    []Contour{square(x+off, y+off, inner)},
	}
	v.BBoxInCell = v.BBox()
	return v
}

func TestNormalizeCellBaselineAtZero(t *testing.T) {
	tc, err := GetTemplateCoordinates(testConfig())
	require.NoError(t, err)
	m := DefaultFontMetrics()

	baselinePx := tc.Guides.Baseline - tc.Guides.LabelTop
	capPx := tc.Guides.CapHeight - tc.Guides.LabelTop

	// A bar sitting exactly on the baseline, reaching up to cap height.
	v := VectorCell{Outlines: []Contour{{
		{X: 10, Y: capPx},
		{X: 30, Y: capPx},
		{X: 30, Y: baselinePx},
		{X: 10, Y: baselinePx},
	}}}
	v.BBoxInCell = v.BBox()

	g := NormalizeCell(v, tc, m)
	require.Len(t, g.Outlines, 1)

	// Baseline maps to y=0, cap height to the font cap height.
	assert.InDelta(t, 0.0, g.Bounds.Y, 1e-9)
	assert.InDelta(t, float64(m.CapHeight), g.Bounds.Y+g.Bounds.H, 1e-9)

	// x starts at the left bearing.
	assert.InDelta(t, float64(m.LeftBearing), g.Bounds.X, 1e-9)
}

func TestNormalizeCellUniformScale(t *testing.T) {
	tc, err := GetTemplateCoordinates(testConfig())
	require.NoError(t, err)
	m := DefaultFontMetrics()

	v := ringCell(5, 20, 40, 20)
	g := NormalizeCell(v, tc, m)

	// One scale on both axes: the square outline stays square.
	require.Len(t, g.Outlines, 1)
	b := g.Outlines[0].BBox()
	assert.InDelta(t, b.W, b.H, 1e-9)

	templateSpan := (tc.Guides.Baseline - tc.Guides.CapHeight)
	assert.InDelta(t, float64(m.CapHeight)/templateSpan, g.Scale, 1e-12)
}

func TestNormalizeCellAdvanceArithmetic(t *testing.T) {
	tc, err := GetTemplateCoordinates(testConfig())
	require.NoError(t, err)
	m := DefaultFontMetrics()

	v := ringCell(5, 20, 40, 20)
	g := NormalizeCell(v, tc, m)

	want := int(math.Round(40*g.Scale)) + 2*m.LeftBearing
	assert.InDelta(t, float64(want), float64(g.AdvanceWidth), 1.0)
	assert.GreaterOrEqual(t, g.AdvanceWidth, 2*m.LeftBearing)
}

func TestNormalizeCellWinding(t *testing.T) {
	tc, err := GetTemplateCoordinates(testConfig())
	require.NoError(t, err)

	g := NormalizeCell(ringCell(5, 20, 40, 20), tc, DefaultFontMetrics())
	require.Len(t, g.Outlines, 1)
	require.Len(t, g.Holes, 1)
	assert.Positive(t, g.Outlines[0].SignedArea(), "outline must be CCW in font space")
	assert.Negative(t, g.Holes[0].SignedArea(), "hole must be CW in font space")
}

func TestNormalizeCellYUp(t *testing.T) {
	tc, err := GetTemplateCoordinates(testConfig())
	require.NoError(t, err)

	// Two points, one above the other in pixel space.
	v := VectorCell{Outlines: []Contour{{
		{X: 0, Y: 10}, {X: 10, Y: 10}, {X: 10, Y: 40}, {X: 0, Y: 40},
	}}}
	v.BBoxInCell = v.BBox()
	g := NormalizeCell(v, tc, DefaultFontMetrics())

	// The pixel-space top (y=10) must map to the larger font-space y.
	baselinePx := tc.Guides.Baseline - tc.Guides.LabelTop
	var ys []float64
	for _, p := range g.Outlines[0] {
		ys = append(ys, p.Y)
	}
	assert.InDelta(t, (baselinePx-10)*g.Scale, maxFloat(ys), 1e-9)
	assert.InDelta(t, (baselinePx-40)*g.Scale, minFloat(ys), 1e-9)
}

func TestBuildGlyphRecordSkipsEmptyCell(t *testing.T) {
	tc, err := GetTemplateCoordinates(testConfig())
	require.NoError(t, err)

	_, ok := BuildGlyphRecord('q', VectorCell{}, tc, DefaultFontMetrics())
	assert.False(t, ok, "no partial record for a blank cell")
}

func TestBuildGlyphRecordSerializesPath(t *testing.T) {
	tc, err := GetTemplateCoordinates(testConfig())
	require.NoError(t, err)

	rec, ok := BuildGlyphRecord('o', ringCell(5, 20, 40, 20), tc, DefaultFontMetrics())
	require.True(t, ok)
	assert.Equal(t, 'o', rec.Unicode)

	contours, err := ParsePath(rec.SVGPath)
	require.NoError(t, err)
	assert.Len(t, contours, 2)
	assert.Positive(t, rec.AdvanceWidth)
}

func maxFloat(vs []float64) float64 {
	m := math.Inf(-1)
	for _, v := range vs {
		if v > m {
			m = v
		}
	}
	return m
}

func minFloat(vs []float64) float64 {
	m := math.Inf(1)
	for _, v := range vs {
		if v < m {
			m = v
		}
	}
	return m
}
