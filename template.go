// Package scan2font converts a scanned handwriting template page into
// baseline-aligned vector glyph outlines in font units. The core is a
// staged pipeline: template geometry, blank template rendering, fiducial
// detection, perspective rectification, template differencing,
// morphological cleanup, per-cell extraction, vectorization and
// baseline-anchored normalization.
package scan2font

import (
	"fmt"
	"math"
)

// PageSize selects the physical paper size of the printed template.
type PageSize string

const (
	PageLetter PageSize = "letter"
	PageA4     PageSize = "a4"
)

// Physical template constants in millimeters. Marker squares are printed
// in the page margin just outside the content rectangle.
const (
	marginMM       = 14.0
	markerSizeMM   = 6.0
	markerOffsetMM = 2.5
)

// CellGuides holds the per-cell guide line positions as fractions of the
// cell height. The defaults are tuned to the printed template; alternate
// templates can supply their own fractions.
type CellGuides struct {
	LabelTop  float64
	CapHeight float64
	XHeight   float64
	Baseline  float64
	Descender float64
}

// DefaultCellGuides returns the guide fractions of the standard printed
// template.
func DefaultCellGuides() CellGuides {
	return CellGuides{
		LabelTop:  0.18,
		CapHeight: 0.25,
		XHeight:   0.45,
		Baseline:  0.75,
		Descender: 0.90,
	}
}

// zero reports whether the guides were left unset.
func (g CellGuides) zero() bool {
	return g == CellGuides{}
}

// TemplateConfig selects the page geometry of one printed template.
// The zero Guides value means DefaultCellGuides.
type TemplateConfig struct {
	PageSize    PageSize
	CellsPerRow int
	RowsPerPage int
	DPI         int
	Guides      CellGuides
}

// DefaultConfig returns the standard template: letter paper, an 8×10
// grid, rendered and scanned at 150 dpi.
func DefaultConfig() TemplateConfig {
	return TemplateConfig{
		PageSize:    PageLetter,
		CellsPerRow: 8,
		RowsPerPage: 10,
		DPI:         150,
		Guides:      DefaultCellGuides(),
	}
}

// Validate checks the config for dimensions that would make the geometry
// meaningless. It returns ErrConfigInvalid (wrapped) on failure.
func (c TemplateConfig) Validate() error {
	if c.PageSize != PageLetter && c.PageSize != PageA4 {
		return fmt.Errorf("%w: unknown page size %q", ErrConfigInvalid, c.PageSize)
	}
	if c.CellsPerRow < 1 || c.RowsPerPage < 1 {
		return fmt.Errorf("%w: grid %dx%d", ErrConfigInvalid, c.CellsPerRow, c.RowsPerPage)
	}
	if c.DPI <= 0 {
		return fmt.Errorf("%w: dpi %d", ErrConfigInvalid, c.DPI)
	}
	return nil
}

// guides returns the configured guide fractions, substituting the
// defaults for a zero value.
func (c TemplateConfig) guides() CellGuides {
	if c.Guides.zero() {
		return DefaultCellGuides()
	}
	return c.Guides
}

// pageSizeMM returns the physical page dimensions in millimeters.
func (c TemplateConfig) pageSizeMM() (w, h float64) {
	switch c.PageSize {
	case PageA4:
		return 210.0, 297.0
	default:
		return 215.9, 279.4
	}
}

// MMToPixels converts a physical length to pixels at the given dpi.
func MMToPixels(mm float64, dpi int) int {
	return int(math.Round(mm * float64(dpi) / 25.4))
}

// Margins are the distances from the page edges to the content rectangle,
// in pixels.
type Margins struct {
	Top    int
	Bottom int
	Left   int
	Right  int
}

// Grid describes the character cell layout inside the content rectangle.
// Cell dimensions are fractional so that rounding does not accumulate
// across a row.
type Grid struct {
	CellsPerRow int
	RowsPerPage int
	CellWidth   float64
	CellHeight  float64
	StartX      int
	StartY      int
}

// MarkerCenters holds the expected center of each corner fiducial.
type MarkerCenters struct {
	TL Point
	TR Point
	BL Point
	BR Point
}

// CellGuideOffsets are the guide line y-offsets within one cell, in
// pixels from the cell top.
type CellGuideOffsets struct {
	LabelTop  float64
	CapHeight float64
	XHeight   float64
	Baseline  float64
	Descender float64
}

// TemplateCoordinates is the full derived geometry of one template page,
// in pixels at the configured dpi. It is a pure function of the config.
type TemplateCoordinates struct {
	PageWidth  int
	PageHeight int
	Margins    Margins
	Markers    MarkerCenters
	MarkerSize int
	Grid       Grid
	Guides     CellGuideOffsets
}

// GetTemplateCoordinates derives the page geometry from a config. The
// result is deterministic and self-consistent: grid.StartX equals the
// left margin and the cells exactly tile the content rectangle.
func GetTemplateCoordinates(c TemplateConfig) (TemplateCoordinates, error) {
	if err := c.Validate(); err != nil {
		return TemplateCoordinates{}, err
	}

	wMM, hMM := c.pageSizeMM()
	pageW := MMToPixels(wMM, c.DPI)
	pageH := MMToPixels(hMM, c.DPI)
	margin := MMToPixels(marginMM, c.DPI)
	markerSize := MMToPixels(markerSizeMM, c.DPI)
	markerOffset := MMToPixels(markerOffsetMM, c.DPI)

	m := Margins{Top: margin, Bottom: margin, Left: margin, Right: margin}

	// Marker centers sit outside the content rectangle, offset from the
	// margin line toward the page edge.
	d := float64(markerOffset) + float64(markerSize)/2
	markers := MarkerCenters{
		TL: Point{X: float64(m.Left) - d, Y: float64(m.Top) - d},
		TR: Point{X: float64(pageW-m.Right) + d, Y: float64(m.Top) - d},
		BL: Point{X: float64(m.Left) - d, Y: float64(pageH-m.Bottom) + d},
		BR: Point{X: float64(pageW-m.Right) + d, Y: float64(pageH-m.Bottom) + d},
	}

	cellW := float64(pageW-m.Left-m.Right) / float64(c.CellsPerRow)
	cellH := float64(pageH-m.Top-m.Bottom) / float64(c.RowsPerPage)

	g := c.guides()
	coords := TemplateCoordinates{
		PageWidth:  pageW,
		PageHeight: pageH,
		Margins:    m,
		Markers:    markers,
		MarkerSize: markerSize,
		Grid: Grid{
			CellsPerRow: c.CellsPerRow,
			RowsPerPage: c.RowsPerPage,
			CellWidth:   cellW,
			CellHeight:  cellH,
			StartX:      m.Left,
			StartY:      m.Top,
		},
		Guides: CellGuideOffsets{
			LabelTop:  g.LabelTop * cellH,
			CapHeight: g.CapHeight * cellH,
			XHeight:   g.XHeight * cellH,
			Baseline:  g.Baseline * cellH,
			Descender: g.Descender * cellH,
		},
	}
	return coords, nil
}

// CellOrigin returns the top-left corner of the cell at (row, col), in
// page pixels.
func (tc TemplateCoordinates) CellOrigin(row, col int) Point {
	return Point{
		X: float64(tc.Grid.StartX) + float64(col)*tc.Grid.CellWidth,
		Y: float64(tc.Grid.StartY) + float64(row)*tc.Grid.CellHeight,
	}
}

// ExpectedMarkers returns the four expected marker centers in a fixed
// TL, TR, BL, BR order.
func (tc TemplateCoordinates) ExpectedMarkers() [4]Point {
	return [4]Point{tc.Markers.TL, tc.Markers.TR, tc.Markers.BL, tc.Markers.BR}
}
