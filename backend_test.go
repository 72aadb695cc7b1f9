package scan2font

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handfont/scan2font/imageutil"
)

func TestPureBackendExternalContoursFeatures(t *testing.T) {
	mask := imageutil.CreateBlankMask(60, 60)
	imageutil.DrawRectMask(mask, 10, 10, 20, 20)

	features := NewPureBackend().ExternalContours(mask)
	require.Len(t, features, 1)

	f := features[0]
	assert.Equal(t, 10, f.BBox.Min.X)
	assert.Equal(t, 30, f.BBox.Max.X)
	// Boundary polygon of a 20x20 block encloses 19x19.
	assert.InDelta(t, 361.0, f.Area, 1e-9)
	// A solid square is its own hull.
	assert.InDelta(t, f.Area, f.HullArea, 1e-9)
}

func TestPureBackendExternalContoursIgnoresHoles(t *testing.T) {
	mask := imageutil.CreateBlankMask(60, 60)
	imageutil.DrawRingMask(mask, 30, 30, 20, 6)

	features := NewPureBackend().ExternalContours(mask)
	require.Len(t, features, 1, "RETR_EXTERNAL semantics: only the outer border")

	// The external contour's area includes the hole (polygon area, not
	// ink count), so solidity of a ring stays high.
	assert.Greater(t, features[0].Area/features[0].HullArea, 0.7)
}

func TestPureBackendGrayscaleWeights(t *testing.T) {
	img := imageutil.CreateSolidImage(4, 4, imageutil.RGB{R: 255, G: 0, B: 0})
	gray := NewPureBackend().Grayscale(img)
	// BT.601: pure red maps to ~76.
	assert.InDelta(t, 76, int(gray.GetGray(1, 1)), 1)
}

func TestNewPipelineDefaultsToPureBackend(t *testing.T) {
	p := NewPipeline(nil)
	require.NotNil(t, p)
	scan := imageutil.CreateSolidImage(50, 50, imageutil.RGB{R: 255, G: 255, B: 255})
	_, err := p.ProcessTemplatePage(scan, testOptions())
	assert.Error(t, err, "white page has no markers")
}
