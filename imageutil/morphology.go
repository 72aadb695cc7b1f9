package imageutil

import "math"

// StructuringElement is a binary neighborhood mask for morphological
// operations. Offsets are relative to the anchor pixel.
type StructuringElement struct {
	Offsets [][2]int
}

// EllipseElement builds an elliptical structuring element over a
// size×size grid with the anchor at (size/2, size/2), matching OpenCV's
// MORPH_ELLIPSE. Ellipses avoid the axis-aligned artifacts a rectangle
// introduces on diagonal strokes. Size values below 1 yield a
// single-pixel element; size 3 is the 4-connected cross.
func EllipseElement(size int) *StructuringElement {
	if size < 1 {
		size = 1
	}
	r := size / 2
	if r == 0 {
		return &StructuringElement{Offsets: [][2]int{{0, 0}}}
	}
	var offsets [][2]int
	for i := 0; i < size; i++ {
		dy := i - r
		span := int(float64(r) * math.Sqrt(math.Max(0, 1-float64(dy*dy)/float64(r*r))))
		for j := r - span; j <= r+span; j++ {
			if j < 0 || j >= size {
				continue
			}
			offsets = append(offsets, [2]int{j - r, dy})
		}
	}
	return &StructuringElement{Offsets: offsets}
}

// Dilate grows ink regions: a pixel is ink in the output if any pixel
// under the element is ink in the input.
func Dilate(img *GrayImage, se *StructuringElement) *GrayImage {
	width, height := img.Width(), img.Height()
	dst := NewGrayImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var v uint8
			for _, off := range se.Offsets {
				sx, sy := x+off[0], y+off[1]
				if sx < 0 || sx >= width || sy < 0 || sy >= height {
					continue
				}
				if p := img.Pix[sy*img.Stride+sx]; p > v {
					v = p
					if v == Ink {
						break
					}
				}
			}
			dst.Pix[y*dst.Stride+x] = v
		}
	}
	return dst
}

// Erode shrinks ink regions: a pixel survives only if every pixel under
// the element is ink. Pixels outside the image count as background.
func Erode(img *GrayImage, se *StructuringElement) *GrayImage {
	width, height := img.Width(), img.Height()
	dst := NewGrayImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := uint8(Ink)
			for _, off := range se.Offsets {
				sx, sy := x+off[0], y+off[1]
				if sx < 0 || sx >= width || sy < 0 || sy >= height {
					v = Paper
					break
				}
				if p := img.Pix[sy*img.Stride+sx]; p < v {
					v = p
					if v == Paper {
						break
					}
				}
			}
			dst.Pix[y*dst.Stride+x] = v
		}
	}
	return dst
}

// MorphClose dilates then erodes, bridging small gaps between strokes.
// A size below 1 returns the input unchanged.
func MorphClose(img *GrayImage, size int) *GrayImage {
	if size < 1 {
		return img
	}
	se := EllipseElement(size)
	return Erode(Dilate(img, se), se)
}

// MorphOpen erodes then dilates, removing specks smaller than the element.
// A size below 1 returns the input unchanged.
func MorphOpen(img *GrayImage, size int) *GrayImage {
	if size < 1 {
		return img
	}
	se := EllipseElement(size)
	return Dilate(Erode(img, se), se)
}
