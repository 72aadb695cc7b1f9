package imageutil

import "image/color"

// ToGrayscale converts an RGBA image to grayscale using the standard
// luminance formula: Y = 0.299*R + 0.587*G + 0.114*B
// This matches the BT.601 standard used by OpenCV's COLOR_BGR2GRAY.
func ToGrayscale(img *RGBAImage) *GrayImage {
	width, height := img.Width(), img.Height()
	gray := NewGrayImage(width, height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := img.RGBAAt(x, y)
			// Integer math, scaled by 1000
			lum := (299*int(c.R) + 587*int(c.G) + 114*int(c.B) + 500) / 1000
			if lum > 255 {
				lum = 255
			}
			gray.Gray.SetGray(x, y, color.Gray{Y: uint8(lum)})
		}
	}

	return gray
}

// GrayscaleToRGBA converts a grayscale image back to RGBA.
func GrayscaleToRGBA(gray *GrayImage) *RGBAImage {
	width, height := gray.Width(), gray.Height()
	rgba := NewRGBAImage(width, height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := gray.GrayAt(x, y).Y
			rgba.SetRGB(x, y, RGB{R: v, G: v, B: v})
		}
	}

	return rgba
}

// IsBinary reports whether every pixel of the image is 0 or 255.
func IsBinary(img *GrayImage) bool {
	w, h := img.Width(), img.Height()
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w]
		for _, v := range row {
			if v != Paper && v != Ink {
				return false
			}
		}
	}
	return true
}

// EnsureInkForeground normalizes a binary mask to the ink=255 convention.
// A handwriting mask is mostly background; if the majority of pixels are
// ink the polarity is inverted. The mask is modified in place and also
// returned for chaining. Masks that are not binary are left untouched.
func EnsureInkForeground(mask *GrayImage) *GrayImage {
	if !IsBinary(mask) {
		return mask
	}
	total := mask.Width() * mask.Height()
	if total == 0 {
		return mask
	}
	if mask.CountNonZero()*2 > total {
		mask.Invert()
	}
	return mask
}
