package imageutil

import "math"

// Matrix3 is a row-major 3×3 projective transform.
type Matrix3 [9]float64

// Apply maps a point through the transform, performing the perspective
// divide.
func (m Matrix3) Apply(x, y float64) (float64, float64) {
	w := m[6]*x + m[7]*y + m[8]
	if w == 0 {
		return 0, 0
	}
	return (m[0]*x + m[1]*y + m[2]) / w, (m[3]*x + m[4]*y + m[5]) / w
}

// Mul returns the matrix product m·n.
func (m Matrix3) Mul(n Matrix3) Matrix3 {
	var out Matrix3
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			sum := 0.0
			for k := 0; k < 3; k++ {
				sum += m[r*3+k] * n[k*3+c]
			}
			out[r*3+c] = sum
		}
	}
	return out
}

// Inverse returns the inverse transform and false if the matrix is
// singular or nearly so.
func (m Matrix3) Inverse() (Matrix3, bool) {
	a, b, c := m[0], m[1], m[2]
	d, e, f := m[3], m[4], m[5]
	g, h, i := m[6], m[7], m[8]

	det := a*(e*i-f*h) - b*(d*i-f*g) + c*(d*h-e*g)
	if math.Abs(det) < 1e-12 {
		return Matrix3{}, false
	}
	inv := Matrix3{
		(e*i - f*h), (c*h - b*i), (b*f - c*e),
		(f*g - d*i), (a*i - c*g), (c*d - a*f),
		(d*h - e*g), (b*g - a*h), (a*e - b*d),
	}
	for k := range inv {
		inv[k] /= det
	}
	return inv, true
}

// WarpPerspective resamples src into a width×height destination image.
// m maps destination coordinates to source coordinates (the inverse of
// the scan→template homography), and sampling is bilinear. Destination
// pixels that map outside the source are white, matching blank paper.
func WarpPerspective(src *RGBAImage, m Matrix3, width, height int) *RGBAImage {
	dst := NewRGBAImage(width, height)
	sw, sh := src.Width(), src.Height()

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			sx, sy := m.Apply(float64(x), float64(y))
			if sx < 0 || sy < 0 || sx > float64(sw-1) || sy > float64(sh-1) {
				dst.SetRGB(x, y, RGB{R: 255, G: 255, B: 255})
				continue
			}
			x0, y0 := int(sx), int(sy)
			x1, y1 := x0+1, y0+1
			if x1 >= sw {
				x1 = sw - 1
			}
			if y1 >= sh {
				y1 = sh - 1
			}
			fx, fy := sx-float64(x0), sy-float64(y0)

			c00 := src.GetRGB(x0, y0)
			c10 := src.GetRGB(x1, y0)
			c01 := src.GetRGB(x0, y1)
			c11 := src.GetRGB(x1, y1)

			lerp := func(a, b, c, d uint8) uint8 {
				top := float64(a)*(1-fx) + float64(b)*fx
				bot := float64(c)*(1-fx) + float64(d)*fx
				return clampUint8(top*(1-fy) + bot*fy)
			}
			dst.SetRGB(x, y, RGB{
				R: lerp(c00.R, c10.R, c01.R, c11.R),
				G: lerp(c00.G, c10.G, c01.G, c11.G),
				B: lerp(c00.B, c10.B, c01.B, c11.B),
			})
		}
	}
	return dst
}
