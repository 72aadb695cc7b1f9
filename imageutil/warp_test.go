package imageutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatrix3Identity(t *testing.T) {
	id := Matrix3{1, 0, 0, 0, 1, 0, 0, 0, 1}
	x, y := id.Apply(12.5, 7.25)
	assert.Equal(t, 12.5, x)
	assert.Equal(t, 7.25, y)
}

func TestMatrix3Inverse(t *testing.T) {
	m := Matrix3{2, 0, 3, 0, 4, 5, 0, 0, 1}
	inv, ok := m.Inverse()
	require.True(t, ok)

	x, y := m.Apply(3, 7)
	bx, by := inv.Apply(x, y)
	assert.InDelta(t, 3.0, bx, 1e-9)
	assert.InDelta(t, 7.0, by, 1e-9)
}

func TestMatrix3SingularInverse(t *testing.T) {
	m := Matrix3{1, 2, 3, 2, 4, 6, 0, 0, 1}
	_, ok := m.Inverse()
	assert.False(t, ok)
}

func TestWarpPerspectiveIdentity(t *testing.T) {
	src := CreateSolidImage(16, 16, RGB{R: 255, G: 255, B: 255})
	src.SetRGB(4, 9, RGB{R: 10, G: 20, B: 30})

	id := Matrix3{1, 0, 0, 0, 1, 0, 0, 0, 1}
	dst := WarpPerspective(src, id, 16, 16)
	assert.Equal(t, RGB{R: 10, G: 20, B: 30}, dst.GetRGB(4, 9))
	assert.Equal(t, RGB{R: 255, G: 255, B: 255}, dst.GetRGB(0, 0))
}

func TestWarpPerspectiveTranslation(t *testing.T) {
	src := CreateSolidImage(16, 16, RGB{R: 0, G: 0, B: 0})
	src.SetRGB(5, 5, RGB{R: 200, G: 100, B: 50})

	// dst(x,y) samples src(x+2, y+3).
	m := Matrix3{1, 0, 2, 0, 1, 3, 0, 0, 1}
	dst := WarpPerspective(src, m, 16, 16)
	assert.Equal(t, RGB{R: 200, G: 100, B: 50}, dst.GetRGB(3, 2))
}

func TestWarpPerspectiveOutOfBoundsIsWhite(t *testing.T) {
	src := CreateSolidImage(8, 8, RGB{R: 0, G: 0, B: 0})

	// Shift far off the source image.
	m := Matrix3{1, 0, 100, 0, 1, 100, 0, 0, 1}
	dst := WarpPerspective(src, m, 8, 8)
	assert.Equal(t, RGB{R: 255, G: 255, B: 255}, dst.GetRGB(4, 4))
}
