package imageutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOtsuThresholdBimodal(t *testing.T) {
	// Half the image at 40, half at 210: Otsu must land between the modes.
	img := NewGrayImage(40, 40)
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			if x < 20 {
				img.SetGrayValue(x, y, 40)
			} else {
				img.SetGrayValue(x, y, 210)
			}
		}
	}
	thresh := OtsuThreshold(img)
	assert.GreaterOrEqual(t, thresh, uint8(40))
	assert.Less(t, thresh, uint8(210))
}

func TestOtsuBinarizeInvPolarity(t *testing.T) {
	// Dark ink on light paper must come out as ink=255.
	img := NewGrayImage(20, 20)
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			img.SetGrayValue(x, y, 230)
		}
	}
	img.SetGrayValue(10, 10, 20)
	img.SetGrayValue(11, 10, 20)

	bin := OtsuBinarizeInv(img)
	require.True(t, IsBinary(bin))
	assert.Equal(t, uint8(Ink), bin.GetGray(10, 10))
	assert.Equal(t, uint8(Paper), bin.GetGray(0, 0))
}

func TestThresholdIdempotentOnBinary(t *testing.T) {
	mask := CreateBlankMask(30, 30)
	DrawDiskMask(mask, 15, 15, 8)

	once := Threshold(mask, 128)
	twice := Threshold(once, 128)
	assert.Equal(t, once.Pix, twice.Pix, "binarizing a binary ink=255 image must be idempotent")
}

func TestAbsDiff(t *testing.T) {
	a := NewGrayImage(4, 4)
	b := NewGrayImage(4, 4)
	a.SetGrayValue(1, 1, 200)
	b.SetGrayValue(1, 1, 50)
	b.SetGrayValue(2, 2, 30)

	d := AbsDiff(a, b)
	assert.Equal(t, uint8(150), d.GetGray(1, 1))
	assert.Equal(t, uint8(30), d.GetGray(2, 2))
	assert.Equal(t, uint8(0), d.GetGray(0, 0))
}
