package scan2font

import (
	"image"
	"math"

	"github.com/katalvlaran/lvlath/gridgraph"

	"github.com/handfont/scan2font/imageutil"
	"github.com/handfont/scan2font/logging"
)

// cellInset is the margin in pixels trimmed from the left, right and
// bottom of a cell's writing area, keeping the printed cell border out
// of the mask.
const cellInset = 4

// DefaultMinComponentArea is the connected-component area floor of the
// per-cell filter, in pixels.
const DefaultMinComponentArea = 50

// DefaultRejectTopFraction is the fraction of the cell height below the
// label band within which component centroids are rejected, catching
// label glyphs that bleed past the band.
const DefaultRejectTopFraction = 0.15

// CellMask is the extracted ink mask of one template cell, in
// writing-area coordinates.
type CellMask struct {
	Row     int
	Col     int
	Unicode rune

	// Mask is the component-filtered post-morphology crop (ink=255).
	Mask *imageutil.GrayImage

	// PreMorph is the companion crop of the pre-morphology mask, kept
	// for diagnostics only.
	PreMorph *imageutil.GrayImage

	// WritingArea is the crop rectangle in page coordinates.
	WritingArea image.Rectangle
}

// WritingArea returns the writable region of the cell at (row, col) in
// page coordinates: the cell rectangle minus the label band at the top
// and a small inset on the remaining sides.
func (tc TemplateCoordinates) WritingArea(row, col int) image.Rectangle {
	origin := tc.CellOrigin(row, col)
	x0 := int(math.Round(origin.X)) + cellInset
	y0 := int(math.Round(origin.Y + tc.Guides.LabelTop))
	x1 := int(math.Round(origin.X+tc.Grid.CellWidth)) - cellInset
	y1 := int(math.Round(origin.Y+tc.Grid.CellHeight)) - cellInset
	return image.Rect(x0, y0, x1, y1)
}

// ExtractCellMask crops one cell's writing area from the cleaned page
// mask and filters its connected components: components smaller than
// minArea and components whose centroid sits in the top
// rejectTopFraction of the cell are dropped. Filtering is by component
// id, never by erosion, so holes inside letterforms survive untouched.
func ExtractCellMask(cleaned, preMorph *imageutil.GrayImage, tc TemplateCoordinates, row, col int, unicode rune, minArea int, rejectTopFraction float64) CellMask {
	area := tc.WritingArea(row, col)
	mask := cleaned.Crop(area)
	companion := preMorph.Crop(area)

	filtered := filterCellComponents(mask, minArea, rejectTopFraction*tc.Grid.CellHeight)

	return CellMask{
		Row:         row,
		Col:         col,
		Unicode:     unicode,
		Mask:        filtered,
		PreMorph:    companion,
		WritingArea: area,
	}
}

// filterCellComponents keeps only the 8-connected ink components that
// pass the area floor and sit below the label rejection line (in
// writing-area pixels from the top).
func filterCellComponents(mask *imageutil.GrayImage, minArea int, rejectBelowY float64) *imageutil.GrayImage {
	w, h := mask.Width(), mask.Height()
	if w == 0 || h == 0 {
		return mask
	}

	grid := make([][]int, h)
	for y := 0; y < h; y++ {
		grid[y] = make([]int, w)
		for x := 0; x < w; x++ {
			if mask.GetGray(x, y) != imageutil.Paper {
				grid[y][x] = 1
			}
		}
	}

	gg, err := gridgraph.From2D(grid, gridgraph.Conn8)
	if err != nil {
		// Only empty or ragged grids error, and neither can happen here.
		return mask
	}

	out := imageutil.NewGrayImage(w, h)
	kept, dropped := 0, 0
	for _, comp := range gg.ConnectedComponents() {
		sumY := 0
		for _, idx := range comp {
			_, y := gg.Coordinate(idx)
			sumY += y
		}
		centroidY := float64(sumY) / float64(len(comp))

		if len(comp) < minArea || centroidY < rejectBelowY {
			dropped++
			continue
		}
		kept++
		for _, idx := range comp {
			x, y := gg.Coordinate(idx)
			out.Pix[y*out.Stride+x] = imageutil.Ink
		}
	}
	if dropped > 0 {
		logging.Stage("cells").Debug("components filtered",
			"kept", kept, "dropped", dropped, "min_area", minArea)
	}
	return out
}
