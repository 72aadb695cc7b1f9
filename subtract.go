package scan2font

import (
	"fmt"

	"github.com/handfont/scan2font/imageutil"
	"github.com/handfont/scan2font/logging"
)

// Blur parameters of the differencer. The first blur absorbs sub-pixel
// registration jitter between the rectified scan and the rendered
// reference; the second heals 1-pixel stroke breaks the subtraction
// opens up.
const (
	subtractBlurSize  = 3
	subtractBlurSigma = 0.6
)

// DefaultSubtractThreshold is the binarization cutoff of the differencer
// on the 0-255 difference scale.
const DefaultSubtractThreshold = 30

// SubtractTemplate isolates user ink by differencing the rectified scan
// against the rendered blank reference. Both images are blurred before
// the per-pixel absolute difference, the difference is blurred once more,
// then binarized at the given threshold. The returned raw difference image is kept for
// diagnostics; the mask follows the ink=255 convention.
func SubtractTemplate(warped, reference *imageutil.RGBAImage, threshold uint8, backend Backend) (diff, mask *imageutil.GrayImage) {
	grayScan := backend.GaussianBlur(backend.Grayscale(warped), subtractBlurSize, subtractBlurSigma)
	grayRef := backend.GaussianBlur(backend.Grayscale(reference), subtractBlurSize, subtractBlurSigma)

	diff = backend.AbsDiff(grayScan, grayRef)
	healed := backend.GaussianBlur(diff, subtractBlurSize, subtractBlurSigma)
	mask = backend.Threshold(healed, threshold)

	logging.Stage("subtract").Debug("template differenced",
		"threshold", threshold, "ink_pixels", mask.CountNonZero())
	return diff, mask
}

// CleanMask applies morphological closing (bridge stroke gaps) followed
// by opening (remove specks) with elliptical kernels. Either size may be
// zero to skip that operation; closing always precedes opening. The
// input polarity is normalized to ink=255 first, so a mask that arrives
// inverted is healed rather than destroyed; a mask that is not binary at
// all cannot be normalized and fails with ErrInvalidPolarity (a
// programming error upstream, never a scan defect).
func CleanMask(mask *imageutil.GrayImage, closeSize, openSize int, backend Backend) (*imageutil.GrayImage, error) {
	if !imageutil.IsBinary(mask) {
		return nil, fmt.Errorf("%w: mask reaching morphology is not binary", ErrInvalidPolarity)
	}
	imageutil.EnsureInkForeground(mask)

	out := backend.MorphClose(mask, closeSize)
	out = backend.MorphOpen(out, openSize)

	logging.Stage("morphology").Debug("mask cleaned",
		"close", closeSize, "open", openSize, "ink_pixels", out.CountNonZero())
	return out, nil
}
