package imageutil

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindContoursSolidSquare(t *testing.T) {
	mask := CreateBlankMask(30, 30)
	DrawRectMask(mask, 5, 5, 10, 10)

	borders := FindContours(mask)
	require.Len(t, borders, 1)
	assert.False(t, borders[0].Hole)
	assert.Equal(t, -1, borders[0].Parent)
	assert.Equal(t, image.Rect(5, 5, 15, 15), BoundingBox(borders[0].Points))
}

func TestFindContoursRingHasHole(t *testing.T) {
	mask := CreateBlankMask(50, 50)
	DrawRingMask(mask, 25, 25, 15, 5)

	borders := FindContours(mask)
	var outers, holes int
	holeParent := -2
	for _, b := range borders {
		if b.Hole {
			holes++
			holeParent = b.Parent
		} else {
			outers++
		}
	}
	require.Equal(t, 1, outers, "ring has one outer border")
	require.Equal(t, 1, holes, "ring has one hole border")

	// The hole's parent is the outer border.
	require.GreaterOrEqual(t, holeParent, 0)
	assert.False(t, borders[holeParent].Hole)
}

func TestFindContoursTwoBlobs(t *testing.T) {
	mask := CreateBlankMask(40, 20)
	DrawRectMask(mask, 2, 2, 8, 8)
	DrawRectMask(mask, 20, 5, 8, 8)

	ext := ExternalContours(mask)
	assert.Len(t, ext, 2)
}

func TestFindContoursIsolatedPixel(t *testing.T) {
	mask := CreateBlankMask(10, 10)
	mask.SetGrayValue(4, 4, Ink)

	borders := FindContours(mask)
	require.Len(t, borders, 1)
	assert.Equal(t, []image.Point{{X: 4, Y: 4}}, borders[0].Points)
}

func TestConvexHullSquarePlusInterior(t *testing.T) {
	pts := []image.Point{
		{0, 0}, {10, 0}, {10, 10}, {0, 10},
		{5, 5}, {3, 7}, // interior points must not appear on the hull
	}
	hull := ConvexHull(pts)
	assert.Len(t, hull, 4)
	assert.InDelta(t, 100.0, PolygonArea(hull), 1e-9)
}

func TestPolygonAreaDegenerate(t *testing.T) {
	assert.Zero(t, PolygonArea(nil))
	assert.Zero(t, PolygonArea([]image.Point{{0, 0}, {5, 5}}))
}
