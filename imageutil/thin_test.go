package imageutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// neighborCount returns the number of ink 8-neighbors of (x, y).
func neighborCount(mask *GrayImage, x, y int) int {
	n := 0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := x+dx, y+dy
			if nx < 0 || nx >= mask.Width() || ny < 0 || ny >= mask.Height() {
				continue
			}
			if mask.GetGray(nx, ny) == Ink {
				n++
			}
		}
	}
	return n
}

func TestZhangSuenThinThickBar(t *testing.T) {
	mask := CreateBlankMask(60, 20)
	DrawRectMask(mask, 5, 5, 50, 7)

	thin := ZhangSuenThin(mask)
	require.Greater(t, thin.CountNonZero(), 0)

	// Skeleton pixels away from the endpoints must have at most two
	// neighbors (1-pixel-wide line).
	for y := 0; y < thin.Height(); y++ {
		for x := 8; x < 52; x++ {
			if thin.GetGray(x, y) == Ink {
				assert.LessOrEqual(t, neighborCount(thin, x, y), 2,
					"skeleton must be single-pixel at (%d,%d)", x, y)
			}
		}
	}
}

func TestZhangSuenThinPreservesLoop(t *testing.T) {
	mask := CreateBlankMask(60, 60)
	DrawRingMask(mask, 30, 30, 20, 6)

	thin := ZhangSuenThin(mask)
	require.Greater(t, thin.CountNonZero(), 0)

	// A thinned ring keeps its hole: background inside the ring must not
	// connect to the outside.
	borders := FindContours(thin)
	holes := 0
	for _, b := range borders {
		if b.Hole {
			holes++
		}
	}
	assert.GreaterOrEqual(t, holes, 1, "thinned ring should still enclose a hole")
}

func TestZhangSuenThinIdempotentOnSkeleton(t *testing.T) {
	mask := CreateBlankMask(30, 30)
	DrawLineMask(mask, 3, 3, 26, 26)

	once := ZhangSuenThin(mask)
	twice := ZhangSuenThin(once)
	assert.Equal(t, once.Pix, twice.Pix, "a 1-pixel skeleton must be a fixed point")
}

func TestZhangSuenThinBlankMask(t *testing.T) {
	mask := CreateBlankMask(10, 10)
	thin := ZhangSuenThin(mask)
	assert.Zero(t, thin.CountNonZero())
}
