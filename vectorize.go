package scan2font

import (
	"image"

	"github.com/handfont/scan2font/imageutil"
	"github.com/handfont/scan2font/logging"
)

// Vectorizer tuning constants, in cell-pixel units.
const (
	// vectorizePad is the padding around the tight ink crop.
	vectorizePad = 2

	// vectorizeBlurSigma pre-smooths stair-step edges before tracing.
	vectorizeBlurSigma = 0.8

	// vectorizeEpsilon is the Douglas-Peucker tolerance.
	vectorizeEpsilon = 0.6

	// minPathAreaFrac drops dust: paths with a bounding box smaller
	// than this fraction of the cell area.
	minPathAreaFrac = 0.0001

	// maxOutlineAreaFrac drops spurious background outlines: outlines
	// with a bounding box larger than this fraction of the cell area.
	maxOutlineAreaFrac = 0.85
)

// VectorizeCell traces the ink mask of one cell into outlines and holes.
// The mask is tight-cropped and pre-smoothed, contours are traced with
// topological outline/hole classification, filtered by size, winding is
// normalized, and every contour is Douglas-Peucker simplified. The
// returned contours are in writing-area coordinates (y down); winding is
// chosen so that outlines become counterclockwise-positive after the
// y-flip into font space.
func VectorizeCell(cell CellMask) VectorCell {
	log := logging.Stage("vectorize")
	mask := cell.Mask
	cellArea := float64(mask.Width() * mask.Height())

	bounds, ok := mask.InkBounds()
	if !ok {
		return VectorCell{}
	}
	pad := image.Rect(
		bounds.Min.X-vectorizePad, bounds.Min.Y-vectorizePad,
		bounds.Max.X+vectorizePad, bounds.Max.Y+vectorizePad,
	).Intersect(mask.Bounds())
	crop := mask.Crop(pad)

	// Pre-smooth and re-binarize to reduce stair-step edges before
	// tracing.
	smoothed := imageutil.Threshold(
		imageutil.GaussianBlurGray(crop, 3, vectorizeBlurSigma), 127)

	borders := imageutil.FindContours(smoothed)

	var outlines, holes []Contour
	dust, spurious := 0, 0
	for _, b := range borders {
		bbox := imageutil.BoundingBox(b.Points)
		bboxArea := float64(bbox.Dx() * bbox.Dy())
		if bboxArea < minPathAreaFrac*cellArea {
			dust++
			continue
		}
		if !b.Hole && bboxArea > maxOutlineAreaFrac*cellArea {
			spurious++
			continue
		}

		contour := make(Contour, len(b.Points))
		for i, p := range b.Points {
			contour[i] = Point{
				X: float64(p.X + pad.Min.X),
				Y: float64(p.Y + pad.Min.Y),
			}
		}
		contour = fixWinding(contour, !b.Hole)
		contour = SimplifyContour(contour, vectorizeEpsilon)
		if len(contour) < 3 {
			dust++
			continue
		}

		if b.Hole {
			holes = append(holes, contour)
		} else {
			outlines = append(outlines, contour)
		}
	}

	if dust > 0 || spurious > 0 {
		log.Debug("paths filtered", "dust", dust, "spurious", spurious)
	}

	v := VectorCell{Outlines: outlines, Holes: holes}
	v.BBoxInCell = v.BBox()
	return v
}

// fixWinding orients a contour so that its area is positive (outline) or
// negative (hole) in the y-up convention of font space. Contour points
// are in y-down pixel coordinates, where the y-flip negates signed area.
func fixWinding(c Contour, outline bool) Contour {
	areaUp := -c.SignedArea()
	if outline && areaUp < 0 || !outline && areaUp > 0 {
		return c.Reversed()
	}
	return c
}
