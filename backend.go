package scan2font

import (
	"image"

	"github.com/handfont/scan2font/imageutil"
)

// ContourFeatures summarizes one external contour of a binary mask, with
// the statistics the fiducial detector filters on.
type ContourFeatures struct {
	Points   []image.Point
	Area     float64
	BBox     image.Rectangle
	HullArea float64
}

// Backend provides the page-level raster operations of the pipeline
// (fiducial detection through morphology). Making the backend an explicit
// dependency avoids hidden library initialization and lets tests run on a
// deterministic in-process implementation. All binary masks follow the
// ink=255 convention.
type Backend interface {
	// Grayscale converts RGBA to 8-bit luminance (BT.601 weights).
	Grayscale(img *imageutil.RGBAImage) *imageutil.GrayImage

	// GaussianBlur blurs with a size×size kernel of the given sigma.
	GaussianBlur(img *imageutil.GrayImage, size int, sigma float64) *imageutil.GrayImage

	// OtsuBinarizeInv binarizes with Otsu's threshold, inverted so that
	// dark ink becomes 255.
	OtsuBinarizeInv(img *imageutil.GrayImage) *imageutil.GrayImage

	// Threshold binarizes with a fixed cutoff (v > thresh → 255).
	Threshold(img *imageutil.GrayImage, thresh uint8) *imageutil.GrayImage

	// AbsDiff computes the per-pixel absolute difference.
	AbsDiff(a, b *imageutil.GrayImage) *imageutil.GrayImage

	// MorphClose closes with an elliptical kernel; size < 1 is a no-op.
	MorphClose(img *imageutil.GrayImage, size int) *imageutil.GrayImage

	// MorphOpen opens with an elliptical kernel; size < 1 is a no-op.
	MorphOpen(img *imageutil.GrayImage, size int) *imageutil.GrayImage

	// WarpPerspective resamples src through m (destination→source
	// mapping) into a width×height image with bilinear interpolation.
	WarpPerspective(src *imageutil.RGBAImage, m imageutil.Matrix3, width, height int) *imageutil.RGBAImage

	// ExternalContours extracts the top-level outer contours of a
	// binary mask together with area, bounding box and convex hull
	// area.
	ExternalContours(mask *imageutil.GrayImage) []ContourFeatures
}

// PureBackend implements Backend with the pure Go operations of the
// imageutil package. It is the default backend: deterministic, free of
// native dependencies, and the implementation every test runs against.
type PureBackend struct{}

// NewPureBackend returns the in-process backend.
func NewPureBackend() *PureBackend {
	return &PureBackend{}
}

func (*PureBackend) Grayscale(img *imageutil.RGBAImage) *imageutil.GrayImage {
	return imageutil.ToGrayscale(img)
}

func (*PureBackend) GaussianBlur(img *imageutil.GrayImage, size int, sigma float64) *imageutil.GrayImage {
	return imageutil.GaussianBlurGray(img, size, sigma)
}

func (*PureBackend) OtsuBinarizeInv(img *imageutil.GrayImage) *imageutil.GrayImage {
	return imageutil.OtsuBinarizeInv(img)
}

func (*PureBackend) Threshold(img *imageutil.GrayImage, thresh uint8) *imageutil.GrayImage {
	return imageutil.Threshold(img, thresh)
}

func (*PureBackend) AbsDiff(a, b *imageutil.GrayImage) *imageutil.GrayImage {
	return imageutil.AbsDiff(a, b)
}

func (*PureBackend) MorphClose(img *imageutil.GrayImage, size int) *imageutil.GrayImage {
	return imageutil.MorphClose(img, size)
}

func (*PureBackend) MorphOpen(img *imageutil.GrayImage, size int) *imageutil.GrayImage {
	return imageutil.MorphOpen(img, size)
}

func (*PureBackend) WarpPerspective(src *imageutil.RGBAImage, m imageutil.Matrix3, width, height int) *imageutil.RGBAImage {
	return imageutil.WarpPerspective(src, m, width, height)
}

func (*PureBackend) ExternalContours(mask *imageutil.GrayImage) []ContourFeatures {
	contours := imageutil.ExternalContours(mask)
	out := make([]ContourFeatures, 0, len(contours))
	for _, pts := range contours {
		hull := imageutil.ConvexHull(pts)
		out = append(out, ContourFeatures{
			Points:   pts,
			Area:     imageutil.PolygonArea(pts),
			BBox:     imageutil.BoundingBox(pts),
			HullArea: imageutil.PolygonArea(hull),
		})
	}
	return out
}
