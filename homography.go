package scan2font

import (
	"fmt"
	"math"

	"github.com/handfont/scan2font/imageutil"
)

// ComputeHomography finds the 3×3 projective transform H with h33=1 that
// maps src points onto dst points. With exactly four correspondences the
// solution is exact (in the absence of noise); with more it minimizes the
// algebraic least-squares residual via the normal equations. At least
// four correspondences are required, and near-collinear configurations
// return ErrHomographyDegenerate.
func ComputeHomography(src, dst []Point) (imageutil.Matrix3, error) {
	if len(src) != len(dst) || len(src) < 4 {
		return imageutil.Matrix3{}, fmt.Errorf("%w: need at least 4 correspondences, have %d",
			ErrHomographyDegenerate, len(src))
	}
	if hasCollinearTriple(src) || hasCollinearTriple(dst) {
		return imageutil.Matrix3{}, fmt.Errorf("%w: collinear correspondences", ErrHomographyDegenerate)
	}

	// Each correspondence contributes two rows of A·h = b with
	// h = (h11 h12 h13 h21 h22 h23 h31 h32).
	n := 2 * len(src)
	a := make([][]float64, n)
	b := make([]float64, n)
	for i, s := range src {
		d := dst[i]
		a[2*i] = []float64{s.X, s.Y, 1, 0, 0, 0, -d.X * s.X, -d.X * s.Y}
		b[2*i] = d.X
		a[2*i+1] = []float64{0, 0, 0, s.X, s.Y, 1, -d.Y * s.X, -d.Y * s.Y}
		b[2*i+1] = d.Y
	}

	// Normal equations: (AᵀA)·h = Aᵀb. For n=8 this is equivalent to the
	// direct solve.
	var ata [8][9]float64
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			sum := 0.0
			for k := 0; k < n; k++ {
				sum += a[k][r] * a[k][c]
			}
			ata[r][c] = sum
		}
		sum := 0.0
		for k := 0; k < n; k++ {
			sum += a[k][r] * b[k]
		}
		ata[r][8] = sum
	}

	h, ok := solveLinear8(&ata)
	if !ok {
		return imageutil.Matrix3{}, ErrHomographyDegenerate
	}

	return imageutil.Matrix3{
		h[0], h[1], h[2],
		h[3], h[4], h[5],
		h[6], h[7], 1,
	}, nil
}

// hasCollinearTriple reports whether any three of the first four points
// are (near-)collinear, which makes the 4-point solution degenerate. The
// tolerance is relative to the point spread.
func hasCollinearTriple(pts []Point) bool {
	n := len(pts)
	if n > 4 {
		n = 4
	}
	spread := 0.0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if d := pts[i].Dist(pts[j]); d > spread {
				spread = d
			}
		}
	}
	if spread == 0 {
		return true
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			for k := j + 1; k < n; k++ {
				a, b, c := pts[i], pts[j], pts[k]
				area := math.Abs((b.X-a.X)*(c.Y-a.Y) - (c.X-a.X)*(b.Y-a.Y))
				if area < 1e-6*spread*spread {
					return true
				}
			}
		}
	}
	return false
}

// solveLinear8 performs Gaussian elimination with partial pivoting on an
// 8×8 system in augmented form. Returns false when the system is
// singular or near-singular relative to its largest element.
func solveLinear8(m *[8][9]float64) ([8]float64, bool) {
	var x [8]float64
	maxAbs := 0.0
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			if v := math.Abs(m[r][c]); v > maxAbs {
				maxAbs = v
			}
		}
	}
	if maxAbs == 0 {
		return x, false
	}
	for col := 0; col < 8; col++ {
		pivot := col
		for r := col + 1; r < 8; r++ {
			if math.Abs(m[r][col]) > math.Abs(m[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(m[pivot][col]) < 1e-12*maxAbs {
			return x, false
		}
		m[col], m[pivot] = m[pivot], m[col]

		for r := col + 1; r < 8; r++ {
			f := m[r][col] / m[col][col]
			for c := col; c < 9; c++ {
				m[r][c] -= f * m[col][c]
			}
		}
	}
	for r := 7; r >= 0; r-- {
		sum := m[r][8]
		for c := r + 1; c < 8; c++ {
			sum -= m[r][c] * x[c]
		}
		x[r] = sum / m[r][r]
	}
	return x, true
}

// ReprojectionError returns the mean distance between H(src) and dst.
func ReprojectionError(h imageutil.Matrix3, src, dst []Point) float64 {
	if len(src) == 0 {
		return 0
	}
	total := 0.0
	for i, s := range src {
		x, y := h.Apply(s.X, s.Y)
		total += Point{X: x, Y: y}.Dist(dst[i])
	}
	return total / float64(len(src))
}

// Rectify warps the scan into the template coordinate frame. The
// homography is computed from the template's expected marker centers to
// the detected scan centers, so it directly serves as the
// destination→source mapping of the perspective warp. The result is
// exactly PageWidth×PageHeight.
func Rectify(scan *imageutil.RGBAImage, detected [4]Point, tc TemplateCoordinates, backend Backend) (*imageutil.RGBAImage, imageutil.Matrix3, error) {
	expected := tc.ExpectedMarkers()
	h, err := ComputeHomography(expected[:], detected[:])
	if err != nil {
		return nil, imageutil.Matrix3{}, err
	}
	warped := backend.WarpPerspective(scan, h, tc.PageWidth, tc.PageHeight)
	return warped, h, nil
}
