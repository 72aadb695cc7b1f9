package scan2font

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handfont/scan2font/imageutil"
)

func TestWritingAreaExcludesLabelBand(t *testing.T) {
	tc, err := GetTemplateCoordinates(testConfig())
	require.NoError(t, err)

	area := tc.WritingArea(0, 0)
	origin := tc.CellOrigin(0, 0)

	assert.GreaterOrEqual(t, float64(area.Min.Y), origin.Y+tc.Guides.LabelTop-1)
	assert.Greater(t, area.Min.X, int(origin.X))
	assert.Less(t, area.Max.X, int(origin.X+tc.Grid.CellWidth))
}

// pageMask builds an empty page-sized mask pair for extractor tests.
func pageMask(t *testing.T) (*imageutil.GrayImage, TemplateCoordinates) {
	t.Helper()
	tc, err := GetTemplateCoordinates(testConfig())
	require.NoError(t, err)
	return imageutil.CreateBlankMask(tc.PageWidth, tc.PageHeight), tc
}

func TestExtractCellMaskKeepsCellInk(t *testing.T) {
	mask, tc := pageMask(t)
	area := tc.WritingArea(1, 2)
	imageutil.DrawDiskMask(mask, (area.Min.X+area.Max.X)/2, (area.Min.Y+area.Max.Y)/2, 10)

	cell := ExtractCellMask(mask, mask, tc, 1, 2, 'x', 50, DefaultRejectTopFraction)
	assert.Equal(t, area, cell.WritingArea)
	assert.Greater(t, cell.Mask.CountNonZero(), 200)
	assert.Equal(t, 'x', cell.Unicode)
}

func TestExtractCellMaskDropsSmallComponents(t *testing.T) {
	mask, tc := pageMask(t)
	area := tc.WritingArea(0, 0)
	// A 4x4 blob: 16 px, below the 50 px floor.
	imageutil.DrawRectMask(mask, area.Min.X+20, area.Min.Y+40, 4, 4)

	cell := ExtractCellMask(mask, mask, tc, 0, 0, 'a', 50, DefaultRejectTopFraction)
	assert.Zero(t, cell.Mask.CountNonZero())
}

func TestExtractCellMaskRejectsLabelBleed(t *testing.T) {
	mask, tc := pageMask(t)
	area := tc.WritingArea(0, 0)

	// Ink hugging the top of the writing area: centroid inside the top
	// 15% of the cell, like a label glyph bleeding past the band.
	imageutil.DrawRectMask(mask, area.Min.X+10, area.Min.Y, 30, 3)
	// Real ink lower in the cell.
	lowY := area.Min.Y + (area.Max.Y-area.Min.Y)/2
	imageutil.DrawRectMask(mask, area.Min.X+10, lowY, 30, 10)

	cell := ExtractCellMask(mask, mask, tc, 0, 0, 'A', 50, DefaultRejectTopFraction)

	// Only the lower component survives.
	assert.Equal(t, 300, cell.Mask.CountNonZero())
	assert.Equal(t, uint8(imageutil.Paper), cell.Mask.GetGray(15, 1))
}

func TestExtractCellMaskPreservesHoles(t *testing.T) {
	mask, tc := pageMask(t)
	area := tc.WritingArea(0, 1)
	cx := (area.Min.X + area.Max.X) / 2
	cy := (area.Min.Y + area.Max.Y) / 2
	imageutil.DrawRingMask(mask, cx, cy, 16, 5)

	cell := ExtractCellMask(mask, mask, tc, 0, 1, 'O', 50, DefaultRejectTopFraction)

	// The ring survives as one component and its hole is still
	// background.
	borders := imageutil.FindContours(cell.Mask)
	holes := 0
	for _, b := range borders {
		if b.Hole {
			holes++
		}
	}
	assert.GreaterOrEqual(t, holes, 1)
	assert.Equal(t, uint8(imageutil.Paper), cell.Mask.GetGray(cx-area.Min.X, cy-area.Min.Y))
}
