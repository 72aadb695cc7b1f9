package scan2font

import (
	"math"

	"github.com/handfont/scan2font/imageutil"
	"github.com/handfont/scan2font/logging"
)

// Candidate filter constants for fiducial detection, as fractions of the
// image. Markers are small solid squares, so candidates must be compact
// (high solidity) and roughly square.
const (
	fiducialMinAreaFrac  = 0.0001
	fiducialMaxAreaFrac  = 0.01
	fiducialMinAspect    = 0.5
	fiducialMaxAspect    = 2.0
	fiducialMinSolidity  = 0.7
	fiducialCornerMargin = 0.2
)

// Marker is one detected fiducial.
type Marker struct {
	Center      Point
	Area        float64
	BBoxCorners [4]Point
}

// FiducialResult is the outcome of marker detection. On failure the
// partial result and the binarized image remain available for
// user-facing diagnostics.
type FiducialResult struct {
	TL *Marker
	TR *Marker
	BL *Marker
	BR *Marker

	Success   bool
	Binarized *imageutil.GrayImage
}

// Found returns the set of corners that produced a marker.
func (r FiducialResult) Found() map[Corner]bool {
	return map[Corner]bool{
		CornerTL: r.TL != nil,
		CornerTR: r.TR != nil,
		CornerBL: r.BL != nil,
		CornerBR: r.BR != nil,
	}
}

// Centers returns the marker centers in TL, TR, BL, BR order. Valid only
// when Success is true.
func (r FiducialResult) Centers() [4]Point {
	return [4]Point{r.TL.Center, r.TR.Center, r.BL.Center, r.BR.Center}
}

// DetectFiducials locates the four corner markers of a scanned template
// page. The scan is binarized with Otsu's method (ink=255), external
// contours are filtered to compact square-ish candidates, candidates are
// partitioned into the four 20% corner regions, and the candidate
// closest to each image corner wins its quadrant.
func DetectFiducials(scan *imageutil.RGBAImage, backend Backend) FiducialResult {
	log := logging.Stage("fiducials")
	w, h := scan.Width(), scan.Height()

	gray := backend.Grayscale(scan)
	bin := backend.OtsuBinarizeInv(gray)

	contours := backend.ExternalContours(bin)
	imgArea := float64(w) * float64(h)
	minArea := fiducialMinAreaFrac * imgArea
	maxArea := fiducialMaxAreaFrac * imgArea

	var candidates []Marker
	for _, c := range contours {
		if c.Area < minArea || c.Area > maxArea {
			continue
		}
		bw, bh := float64(c.BBox.Dx()), float64(c.BBox.Dy())
		if bh == 0 {
			continue
		}
		aspect := bw / bh
		if aspect < fiducialMinAspect || aspect > fiducialMaxAspect {
			continue
		}
		if c.HullArea <= 0 || c.Area/c.HullArea < fiducialMinSolidity {
			continue
		}
		minX, minY := float64(c.BBox.Min.X), float64(c.BBox.Min.Y)
		maxX, maxY := float64(c.BBox.Max.X-1), float64(c.BBox.Max.Y-1)
		candidates = append(candidates, Marker{
			Center: Point{X: (minX + maxX) / 2, Y: (minY + maxY) / 2},
			Area:   c.Area,
			BBoxCorners: [4]Point{
				{X: minX, Y: minY},
				{X: maxX, Y: minY},
				{X: minX, Y: maxY},
				{X: maxX, Y: maxY},
			},
		})
	}
	log.Debug("marker candidates filtered", "contours", len(contours), "candidates", len(candidates))

	mx := fiducialCornerMargin * float64(w)
	my := fiducialCornerMargin * float64(h)
	corners := map[Corner]Point{
		CornerTL: {X: 0, Y: 0},
		CornerTR: {X: float64(w - 1), Y: 0},
		CornerBL: {X: 0, Y: float64(h - 1)},
		CornerBR: {X: float64(w - 1), Y: float64(h - 1)},
	}

	inQuadrant := func(p Point, c Corner) bool {
		switch c {
		case CornerTL:
			return p.X < mx && p.Y < my
		case CornerTR:
			return p.X > float64(w)-mx && p.Y < my
		case CornerBL:
			return p.X < mx && p.Y > float64(h)-my
		default:
			return p.X > float64(w)-mx && p.Y > float64(h)-my
		}
	}

	pick := func(c Corner) *Marker {
		best := -1
		bestDist := math.Inf(1)
		for i := range candidates {
			if !inQuadrant(candidates[i].Center, c) {
				continue
			}
			if d := candidates[i].Center.Dist(corners[c]); d < bestDist {
				bestDist = d
				best = i
			}
		}
		if best < 0 {
			return nil
		}
		m := candidates[best]
		return &m
	}

	result := FiducialResult{
		TL:        pick(CornerTL),
		TR:        pick(CornerTR),
		BL:        pick(CornerBL),
		BR:        pick(CornerBR),
		Binarized: bin,
	}
	result.Success = result.TL != nil && result.TR != nil && result.BL != nil && result.BR != nil
	if !result.Success {
		log.Warn("fiducial detection incomplete", "found", result.Found())
	}
	return result
}
