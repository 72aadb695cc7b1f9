// Package opencv implements the scan2font processing backend on top of
// gocv (OpenCV). It is behaviorally interchangeable with the pure Go
// backend; hosts that already link OpenCV get its SIMD-optimized page
// operations, while tests and dependency-free builds use the pure
// backend.
package opencv

import (
	"image"

	"gocv.io/x/gocv"

	scan2font "github.com/handfont/scan2font"
	"github.com/handfont/scan2font/imageutil"
)

// Backend implements scan2font.Backend with gocv.
type Backend struct{}

// NewBackend returns the OpenCV-backed implementation.
func NewBackend() *Backend {
	return &Backend{}
}

// matFromRGBA copies an RGBA image into an 8UC4 Mat.
func matFromRGBA(img *imageutil.RGBAImage) gocv.Mat {
	mat, err := gocv.NewMatFromBytes(img.Height(), img.Width(), gocv.MatTypeCV8UC4, img.Pix)
	if err != nil {
		return gocv.NewMat()
	}
	return mat
}

// matFromGray copies a grayscale image into an 8UC1 Mat.
func matFromGray(img *imageutil.GrayImage) gocv.Mat {
	mat, err := gocv.NewMatFromBytes(img.Height(), img.Width(), gocv.MatTypeCV8UC1, img.Pix)
	if err != nil {
		return gocv.NewMat()
	}
	return mat
}

// grayFromMat copies an 8UC1 Mat back into a grayscale image.
func grayFromMat(mat gocv.Mat) *imageutil.GrayImage {
	out := imageutil.NewGrayImage(mat.Cols(), mat.Rows())
	data := mat.ToBytes()
	copy(out.Pix, data)
	return out
}

// rgbaFromMat copies an 8UC4 Mat back into an RGBA image.
func rgbaFromMat(mat gocv.Mat) *imageutil.RGBAImage {
	out := imageutil.NewRGBAImage(mat.Cols(), mat.Rows())
	data := mat.ToBytes()
	copy(out.Pix, data)
	return out
}

func (*Backend) Grayscale(img *imageutil.RGBAImage) *imageutil.GrayImage {
	src := matFromRGBA(img)
	defer src.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	gocv.CvtColor(src, &dst, gocv.ColorRGBAToGray)
	return grayFromMat(dst)
}

func (*Backend) GaussianBlur(img *imageutil.GrayImage, size int, sigma float64) *imageutil.GrayImage {
	src := matFromGray(img)
	defer src.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	gocv.GaussianBlur(src, &dst, image.Pt(size, size), sigma, sigma, gocv.BorderDefault)
	return grayFromMat(dst)
}

func (*Backend) OtsuBinarizeInv(img *imageutil.GrayImage) *imageutil.GrayImage {
	src := matFromGray(img)
	defer src.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	gocv.Threshold(src, &dst, 0, 255, gocv.ThresholdBinaryInv|gocv.ThresholdOtsu)
	return grayFromMat(dst)
}

func (*Backend) Threshold(img *imageutil.GrayImage, thresh uint8) *imageutil.GrayImage {
	src := matFromGray(img)
	defer src.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	gocv.Threshold(src, &dst, float32(thresh), 255, gocv.ThresholdBinary)
	return grayFromMat(dst)
}

func (*Backend) AbsDiff(a, b *imageutil.GrayImage) *imageutil.GrayImage {
	ma := matFromGray(a)
	defer ma.Close()
	mb := matFromGray(b)
	defer mb.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	gocv.AbsDiff(ma, mb, &dst)
	return grayFromMat(dst)
}

func (*Backend) MorphClose(img *imageutil.GrayImage, size int) *imageutil.GrayImage {
	if size < 1 {
		return img
	}
	return morphologyEx(img, gocv.MorphClose, size)
}

func (*Backend) MorphOpen(img *imageutil.GrayImage, size int) *imageutil.GrayImage {
	if size < 1 {
		return img
	}
	return morphologyEx(img, gocv.MorphOpen, size)
}

func morphologyEx(img *imageutil.GrayImage, op gocv.MorphType, size int) *imageutil.GrayImage {
	src := matFromGray(img)
	defer src.Close()

	kernel := gocv.GetStructuringElement(gocv.MorphEllipse, image.Pt(size, size))
	defer kernel.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	gocv.MorphologyEx(src, &dst, op, kernel)
	return grayFromMat(dst)
}

func (*Backend) WarpPerspective(src *imageutil.RGBAImage, m imageutil.Matrix3, width, height int) *imageutil.RGBAImage {
	// The pipeline hands a destination→source mapping; OpenCV wants the
	// forward transform.
	forward, ok := m.Inverse()
	if !ok {
		return imageutil.NewRGBAImage(width, height)
	}

	srcMat := matFromRGBA(src)
	defer srcMat.Close()

	h := gocv.NewMatWithSize(3, 3, gocv.MatTypeCV64F)
	defer h.Close()
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			h.SetDoubleAt(r, c, forward[r*3+c])
		}
	}

	dst := gocv.NewMat()
	defer dst.Close()
	gocv.WarpPerspective(srcMat, &dst, h, image.Pt(width, height))
	return rgbaFromMat(dst)
}

func (*Backend) ExternalContours(mask *imageutil.GrayImage) []scan2font.ContourFeatures {
	src := matFromGray(mask)
	defer src.Close()

	contours := gocv.FindContours(src, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	out := make([]scan2font.ContourFeatures, 0, contours.Size())
	for i := 0; i < contours.Size(); i++ {
		pv := contours.At(i)
		pts := pv.ToPoints()

		hull := imageutil.ConvexHull(pts)
		out = append(out, scan2font.ContourFeatures{
			Points:   pts,
			Area:     gocv.ContourArea(pv),
			BBox:     gocv.BoundingRect(pv),
			HullArea: imageutil.PolygonArea(hull),
		})
	}
	return out
}
