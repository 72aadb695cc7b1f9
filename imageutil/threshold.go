package imageutil

// Threshold binarizes a grayscale image with a fixed cutoff: pixels
// strictly above thresh become 255, the rest become 0. Applying it to an
// already-binary ink=255 image with any thresh in (0, 255) is a no-op.
func Threshold(img *GrayImage, thresh uint8) *GrayImage {
	width, height := img.Width(), img.Height()
	dst := NewGrayImage(width, height)
	for y := 0; y < height; y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+width]
		out := dst.Pix[y*dst.Stride : y*dst.Stride+width]
		for x, v := range src {
			if v > thresh {
				out[x] = Ink
			} else {
				out[x] = Paper
			}
		}
	}
	return dst
}

// ThresholdInv binarizes with inverted polarity: pixels at or below thresh
// become 255. Dark ink on white paper maps to ink=255.
func ThresholdInv(img *GrayImage, thresh uint8) *GrayImage {
	width, height := img.Width(), img.Height()
	dst := NewGrayImage(width, height)
	for y := 0; y < height; y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+width]
		out := dst.Pix[y*dst.Stride : y*dst.Stride+width]
		for x, v := range src {
			if v <= thresh {
				out[x] = Ink
			} else {
				out[x] = Paper
			}
		}
	}
	return dst
}

// OtsuThreshold computes the global threshold that maximizes between-class
// variance of the image histogram (Otsu's method). Matches OpenCV's
// THRESH_OTSU selection.
func OtsuThreshold(img *GrayImage) uint8 {
	var hist [256]int
	width, height := img.Width(), img.Height()
	for y := 0; y < height; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+width]
		for _, v := range row {
			hist[v]++
		}
	}

	total := width * height
	var sum float64
	for i, c := range hist {
		sum += float64(i) * float64(c)
	}

	var sumB, wB float64
	var best uint8
	var maxVar float64
	for t := 0; t < 256; t++ {
		wB += float64(hist[t])
		if wB == 0 {
			continue
		}
		wF := float64(total) - wB
		if wF == 0 {
			break
		}
		sumB += float64(t) * float64(hist[t])
		mB := sumB / wB
		mF := (sum - sumB) / wF
		between := wB * wF * (mB - mF) * (mB - mF)
		if between > maxVar {
			maxVar = between
			best = uint8(t)
		}
	}
	return best
}

// OtsuBinarizeInv binarizes with Otsu's threshold and inverted polarity,
// turning dark ink on a light page into an ink=255 mask.
func OtsuBinarizeInv(img *GrayImage) *GrayImage {
	return ThresholdInv(img, OtsuThreshold(img))
}

// AbsDiff computes the per-pixel absolute difference of two equally-sized
// grayscale images.
func AbsDiff(a, b *GrayImage) *GrayImage {
	width, height := a.Width(), a.Height()
	dst := NewGrayImage(width, height)
	for y := 0; y < height; y++ {
		ra := a.Pix[y*a.Stride : y*a.Stride+width]
		rb := b.Pix[y*b.Stride : y*b.Stride+width]
		out := dst.Pix[y*dst.Stride : y*dst.Stride+width]
		for x := range ra {
			d := int(ra[x]) - int(rb[x])
			if d < 0 {
				d = -d
			}
			out[x] = uint8(d)
		}
	}
	return dst
}
