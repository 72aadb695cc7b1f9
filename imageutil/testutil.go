package imageutil

import "math"

// CreateSolidImage creates a solid color image.
func CreateSolidImage(width, height int, c RGB) *RGBAImage {
	img := NewRGBAImage(width, height)
	img.Fill(c)
	return img
}

// CreateBlankMask creates an all-background binary mask.
func CreateBlankMask(width, height int) *GrayImage {
	return NewGrayImage(width, height)
}

// DrawRectMask fills an axis-aligned rectangle of a mask with ink.
func DrawRectMask(mask *GrayImage, x, y, w, h int) {
	for yy := y; yy < y+h; yy++ {
		for xx := x; xx < x+w; xx++ {
			if xx >= 0 && xx < mask.Width() && yy >= 0 && yy < mask.Height() {
				mask.Pix[yy*mask.Stride+xx] = Ink
			}
		}
	}
}

// DrawDiskMask fills a disk of the given radius with ink.
func DrawDiskMask(mask *GrayImage, cx, cy, radius int) {
	for yy := cy - radius; yy <= cy+radius; yy++ {
		for xx := cx - radius; xx <= cx+radius; xx++ {
			if xx < 0 || xx >= mask.Width() || yy < 0 || yy >= mask.Height() {
				continue
			}
			dx, dy := float64(xx-cx), float64(yy-cy)
			if dx*dx+dy*dy <= float64(radius)*float64(radius) {
				mask.Pix[yy*mask.Stride+xx] = Ink
			}
		}
	}
}

// DrawRingMask draws a circle outline of the given radius and stroke
// thickness with ink.
func DrawRingMask(mask *GrayImage, cx, cy, radius, thickness int) {
	outer := float64(radius)
	inner := float64(radius - thickness)
	for yy := cy - radius; yy <= cy+radius; yy++ {
		for xx := cx - radius; xx <= cx+radius; xx++ {
			if xx < 0 || xx >= mask.Width() || yy < 0 || yy >= mask.Height() {
				continue
			}
			dx, dy := float64(xx-cx), float64(yy-cy)
			d := math.Sqrt(dx*dx + dy*dy)
			if d <= outer && d > inner {
				mask.Pix[yy*mask.Stride+xx] = Ink
			}
		}
	}
}

// DrawLineMask draws a 1-pixel line between two points with ink, using
// integer Bresenham stepping.
func DrawLineMask(mask *GrayImage, x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		if x0 >= 0 && x0 < mask.Width() && y0 >= 0 && y0 < mask.Height() {
			mask.Pix[y0*mask.Stride+x0] = Ink
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawCircleOutlineMask draws a 1-pixel-wide circle outline, used for
// skeleton tests where strokes must be single-pixel.
func DrawCircleOutlineMask(mask *GrayImage, cx, cy, radius int) {
	steps := 16 * radius
	if steps < 32 {
		steps = 32
	}
	px, py := cx+radius, cy
	for i := 1; i <= steps; i++ {
		theta := 2 * math.Pi * float64(i) / float64(steps)
		x := cx + int(math.Round(float64(radius)*math.Cos(theta)))
		y := cy + int(math.Round(float64(radius)*math.Sin(theta)))
		DrawLineMask(mask, px, py, x, y)
		px, py = x, y
	}
}
