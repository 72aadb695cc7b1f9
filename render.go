package scan2font

import (
	"fmt"
	"image"
	"math"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"

	"github.com/handfont/scan2font/imageutil"
)

// Template ink colors. Guides and ghost glyphs are light gray so the
// differencer can separate real ink from the printed template; markers
// are solid black and labels mid gray.
var (
	colorPaper  = imageutil.RGB{R: 255, G: 255, B: 255}
	colorMarker = imageutil.RGB{R: 0, G: 0, B: 0}
	colorBorder = imageutil.RGB{R: 210, G: 210, B: 210}
	colorGuide  = imageutil.RGB{R: 200, G: 200, B: 200}
	colorGhost  = imageutil.RGB{R: 215, G: 215, B: 215}
	colorLabel  = imageutil.RGB{R: 120, G: 120, B: 120}
)

// templateFont lazily parses the embedded sans face used for ghost
// glyphs and cell labels.
var (
	templateFontOnce sync.Once
	templateFont     *truetype.Font
	templateFontErr  error
)

func loadTemplateFont() (*truetype.Font, error) {
	templateFontOnce.Do(func() {
		templateFont, templateFontErr = freetype.ParseFont(goregular.TTF)
	})
	return templateFont, templateFontErr
}

// RenderBlankTemplate renders the expected printed page as an RGBA image
// at exactly PageWidth×PageHeight. The rendering must match the printed
// template up to anti-aliasing: it is the reference the scan is
// differenced against.
func RenderBlankTemplate(cfg TemplateConfig, pageNumber int, set CharacterSet) (*imageutil.RGBAImage, error) {
	tc, err := GetTemplateCoordinates(cfg)
	if err != nil {
		return nil, err
	}
	ttf, err := loadTemplateFont()
	if err != nil {
		return nil, fmt.Errorf("template font: %w", err)
	}

	img := imageutil.NewRGBAImage(tc.PageWidth, tc.PageHeight)
	img.Fill(colorPaper)

	for _, center := range tc.ExpectedMarkers() {
		drawMarker(img, center, tc.MarkerSize)
	}

	chars := PageCharacters(set, cfg, pageNumber)
	labelSize := tc.Guides.LabelTop * 0.65
	ghostSize := (tc.Guides.Baseline - tc.Guides.CapHeight) * 1.05

	for row := 0; row < tc.Grid.RowsPerPage; row++ {
		for col := 0; col < tc.Grid.CellsPerRow; col++ {
			origin := tc.CellOrigin(row, col)
			x0 := int(math.Round(origin.X))
			y0 := int(math.Round(origin.Y))
			w := int(math.Round(tc.Grid.CellWidth))
			h := int(math.Round(tc.Grid.CellHeight))

			strokeRect(img, x0, y0, w, h, 1, colorBorder)

			for _, gy := range []float64{tc.Guides.CapHeight, tc.Guides.XHeight, tc.Guides.Baseline, tc.Guides.Descender} {
				yy := y0 + int(math.Round(gy))
				hLine(img, x0+2, yy, w-4, colorGuide)
			}

			idx := row*tc.Grid.CellsPerRow + col
			if idx >= len(chars) {
				continue
			}
			ch := chars[idx]

			// Ghost glyph: large, light gray, horizontally centered,
			// sitting on the baseline guide.
			if err := drawGlyph(img, ttf, ch, ghostSize, colorGhost,
				origin.X+tc.Grid.CellWidth/2, origin.Y+tc.Guides.Baseline, true); err != nil {
				return nil, err
			}

			// Label in the top-left of the label band.
			label := fmt.Sprintf("%c U+%04X", ch, ch)
			if err := drawText(img, ttf, label, labelSize, colorLabel,
				origin.X+4, origin.Y+tc.Guides.LabelTop-2); err != nil {
				return nil, err
			}
		}
	}
	return img, nil
}

// drawMarker draws one fiducial: a filled square inside a stroked square,
// both centered on the given point. The detector locates the outer
// square, the top-level external contour; its side is the computed
// marker size.
func drawMarker(img *imageutil.RGBAImage, center Point, size int) {
	outer := size
	inner := int(math.Round(float64(size) * 0.6))
	cx := int(math.Round(center.X))
	cy := int(math.Round(center.Y))

	strokeRect(img, cx-outer/2, cy-outer/2, outer, outer, 2, colorMarker)
	fillRect(img, cx-inner/2, cy-inner/2, inner, inner, colorMarker)
}

// fillRect fills an axis-aligned rectangle, clipped to the image.
func fillRect(img *imageutil.RGBAImage, x, y, w, h int, c imageutil.RGB) {
	for yy := y; yy < y+h; yy++ {
		for xx := x; xx < x+w; xx++ {
			if xx >= 0 && xx < img.Width() && yy >= 0 && yy < img.Height() {
				img.SetRGB(xx, yy, c)
			}
		}
	}
}

// strokeRect draws a rectangle outline of the given stroke width.
func strokeRect(img *imageutil.RGBAImage, x, y, w, h, stroke int, c imageutil.RGB) {
	fillRect(img, x, y, w, stroke, c)
	fillRect(img, x, y+h-stroke, w, stroke, c)
	fillRect(img, x, y, stroke, h, c)
	fillRect(img, x+w-stroke, y, stroke, h, c)
}

// hLine draws a 1-pixel horizontal line.
func hLine(img *imageutil.RGBAImage, x, y, w int, c imageutil.RGB) {
	fillRect(img, x, y, w, 1, c)
}

// drawGlyph draws a single character with its baseline at baselineY.
// When centered, anchorX is the glyph's horizontal center, otherwise its
// left edge.
func drawGlyph(img *imageutil.RGBAImage, ttf *truetype.Font, ch rune, sizePx float64, c imageutil.RGB, anchorX, baselineY float64, centered bool) error {
	face := truetype.NewFace(ttf, &truetype.Options{
		Size:    sizePx,
		DPI:     72, // size is given in pixels
		Hinting: font.HintingNone,
	})
	defer face.Close()

	x := anchorX
	if centered {
		adv, ok := face.GlyphAdvance(ch)
		if !ok {
			return nil // glyph not in the face; leave the cell empty
		}
		x -= float64(adv) / 64 / 2
	}

	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(ttf)
	ctx.SetFontSize(sizePx)
	ctx.SetClip(img.Bounds())
	ctx.SetDst(img.RGBA)
	ctx.SetSrc(image.NewUniform(c.ToColor()))
	_, err := ctx.DrawString(string(ch), fixed.Point26_6{
		X: fixed.Int26_6(x * 64),
		Y: fixed.Int26_6(baselineY * 64),
	})
	return err
}

// drawText draws a short label string with its baseline at baselineY.
func drawText(img *imageutil.RGBAImage, ttf *truetype.Font, text string, sizePx float64, c imageutil.RGB, x, baselineY float64) error {
	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(ttf)
	ctx.SetFontSize(sizePx)
	ctx.SetClip(img.Bounds())
	ctx.SetDst(img.RGBA)
	ctx.SetSrc(image.NewUniform(c.ToColor()))
	_, err := ctx.DrawString(text, fixed.Point26_6{
		X: fixed.Int26_6(x * 64),
		Y: fixed.Int26_6(baselineY * 64),
	})
	return err
}
