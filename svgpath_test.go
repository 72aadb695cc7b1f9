package scan2font

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPathSingleContour(t *testing.T) {
	p := BuildPath([]Contour{square(0, 0, 10)}, nil)
	assert.Equal(t, "M 0 0 L 10 0 L 10 10 L 0 10 Z", p)
}

func TestBuildPathOutlineAndHole(t *testing.T) {
	p := BuildPath([]Contour{square(0, 0, 10)}, []Contour{square(3, 3, 4)})
	assert.Equal(t, 2, strings.Count(p, "M "))
	assert.Equal(t, 2, strings.Count(p, "Z"))
}

func TestBuildPathRoundsCoordinates(t *testing.T) {
	p := BuildPath([]Contour{{{X: 1.23456, Y: -0.005}, {X: 2, Y: 3}, {X: 0, Y: 3}}}, nil)
	assert.Contains(t, p, "1.23")
	assert.NotContains(t, p, "1.23456")
}

func TestParsePathRoundTrip(t *testing.T) {
	outlines := []Contour{square(0, 0, 10)}
	holes := []Contour{square(2, 2, 5)}
	parsed, err := ParsePath(BuildPath(outlines, holes))
	require.NoError(t, err)
	require.Len(t, parsed, 2)
	assert.Equal(t, outlines[0], parsed[0])
	assert.Equal(t, holes[0], parsed[1])
}

func TestParsePathDensifiesCurves(t *testing.T) {
	contours, err := ParsePath("M 0 0 Q 5 10 10 0 Z")
	require.NoError(t, err)
	require.Len(t, contours, 1)
	// 1 start point + 16 samples.
	assert.Len(t, contours[0], 17)
	// The curve apex is at (5, 5) for this control polygon.
	mid := contours[0][8]
	assert.InDelta(t, 5.0, mid.X, 1e-9)
	assert.InDelta(t, 5.0, mid.Y, 1e-9)
}

func TestParsePathCubic(t *testing.T) {
	contours, err := ParsePath("M 0 0 C 0 10 10 10 10 0 Z")
	require.NoError(t, err)
	require.Len(t, contours, 1)
	assert.Len(t, contours[0], 17)
}

func TestParsePathCommasAndTightSpacing(t *testing.T) {
	contours, err := ParsePath("M0,0 L10,0 L10,10Z")
	require.NoError(t, err)
	require.Len(t, contours, 1)
	assert.Equal(t, Contour{{0, 0}, {10, 0}, {10, 10}}, contours[0])
}

func TestParsePathNegativeNumbers(t *testing.T) {
	contours, err := ParsePath("M -5 -3 L 5-3 L 0 4 Z")
	require.NoError(t, err)
	require.Len(t, contours, 1)
	assert.Equal(t, Contour{{-5, -3}, {5, -3}, {0, 4}}, contours[0])
}

func TestParsePathRejectsRelativeCommands(t *testing.T) {
	_, err := ParsePath("M 0 0 l 5 5 Z")
	assert.Error(t, err)
}

func TestParsePathRejectsTruncated(t *testing.T) {
	_, err := ParsePath("M 0")
	assert.Error(t, err)
	_, err = ParsePath("M 0 0 C 1 2 3")
	assert.Error(t, err)
}
