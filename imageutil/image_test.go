package imageutil

import (
	"image"
	"testing"
)

func TestNewRGBAImage(t *testing.T) {
	img := NewRGBAImage(100, 50)
	if img.Width() != 100 {
		t.Errorf("Expected width 100, got %d", img.Width())
	}
	if img.Height() != 50 {
		t.Errorf("Expected height 50, got %d", img.Height())
	}
}

func TestRGBAImageGetSetRGB(t *testing.T) {
	img := NewRGBAImage(10, 10)
	c := RGB{R: 100, G: 150, B: 200}
	img.SetRGB(5, 5, c)

	got := img.GetRGB(5, 5)
	if got != c {
		t.Errorf("Expected %v, got %v", c, got)
	}
}

func TestGrayImageCrop(t *testing.T) {
	img := NewGrayImage(20, 20)
	img.SetGrayValue(5, 5, 200)
	img.SetGrayValue(9, 9, 100)

	crop := img.Crop(image.Rect(5, 5, 10, 10))
	if crop.Width() != 5 || crop.Height() != 5 {
		t.Fatalf("Expected 5x5 crop, got %dx%d", crop.Width(), crop.Height())
	}
	if crop.GetGray(0, 0) != 200 {
		t.Errorf("Expected 200 at crop origin, got %d", crop.GetGray(0, 0))
	}
	if crop.GetGray(4, 4) != 100 {
		t.Errorf("Expected 100 at crop corner, got %d", crop.GetGray(4, 4))
	}

	// Crop is a deep copy
	crop.SetGrayValue(0, 0, 7)
	if img.GetGray(5, 5) != 200 {
		t.Error("Modifying crop should not affect original")
	}
}

func TestGrayImageInkBounds(t *testing.T) {
	mask := CreateBlankMask(30, 30)
	if _, ok := mask.InkBounds(); ok {
		t.Fatal("Blank mask should have no ink bounds")
	}

	DrawRectMask(mask, 4, 6, 10, 5)
	bounds, ok := mask.InkBounds()
	if !ok {
		t.Fatal("Expected ink bounds")
	}
	want := image.Rect(4, 6, 14, 11)
	if bounds != want {
		t.Errorf("Expected bounds %v, got %v", want, bounds)
	}
}

func TestGrayImageCountNonZeroAndInvert(t *testing.T) {
	mask := CreateBlankMask(10, 10)
	DrawRectMask(mask, 0, 0, 3, 3)
	if got := mask.CountNonZero(); got != 9 {
		t.Errorf("Expected 9 ink pixels, got %d", got)
	}

	mask.Invert()
	if got := mask.CountNonZero(); got != 91 {
		t.Errorf("Expected 91 ink pixels after invert, got %d", got)
	}
}

func TestEnsureInkForeground(t *testing.T) {
	// Background-majority mask stays unchanged.
	mask := CreateBlankMask(20, 20)
	DrawRectMask(mask, 0, 0, 5, 5)
	EnsureInkForeground(mask)
	if mask.GetGray(0, 0) != Ink {
		t.Error("Correctly-polarized mask should be unchanged")
	}

	// Ink-majority mask gets inverted.
	inverted := CreateBlankMask(20, 20)
	DrawRectMask(inverted, 0, 0, 20, 20)
	DrawRectMask(inverted, 0, 0, 5, 5)
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			inverted.SetGrayValue(x, y, Paper)
		}
	}
	EnsureInkForeground(inverted)
	if inverted.GetGray(0, 0) != Ink {
		t.Error("Expected the dominant-white mask to be inverted")
	}
	if inverted.GetGray(10, 10) != Paper {
		t.Error("Expected former ink to become background after inversion")
	}
}
