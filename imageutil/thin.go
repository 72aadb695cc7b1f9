package imageutil

// MaxThinningIterations caps Zhang-Suen in case of pathological input.
// Each iteration peels at most one pixel of stroke radius, so typical
// handwriting converges in well under a hundred iterations.
const MaxThinningIterations = 1000

// ZhangSuenThin reduces ink regions of a binary mask to a 1-pixel-wide
// skeleton while preserving connectivity. The input is not modified.
// Iteration stops when neither sub-iteration removes a pixel, or after
// MaxThinningIterations.
func ZhangSuenThin(mask *GrayImage) *GrayImage {
	width, height := mask.Width(), mask.Height()
	cur := make([]uint8, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if mask.Pix[y*mask.Stride+x] != Paper {
				cur[y*width+x] = 1
			}
		}
	}

	get := func(x, y int) uint8 {
		if x < 0 || x >= width || y < 0 || y >= height {
			return 0
		}
		return cur[y*width+x]
	}

	var toClear [][2]int
	for iter := 0; iter < MaxThinningIterations; iter++ {
		changed := false

		for sub := 0; sub < 2; sub++ {
			toClear = toClear[:0]
			for y := 0; y < height; y++ {
				for x := 0; x < width; x++ {
					if cur[y*width+x] == 0 {
						continue
					}
					// Neighbors P2..P9 clockwise from north.
					p2 := get(x, y-1)
					p3 := get(x+1, y-1)
					p4 := get(x+1, y)
					p5 := get(x+1, y+1)
					p6 := get(x, y+1)
					p7 := get(x-1, y+1)
					p8 := get(x-1, y)
					p9 := get(x-1, y-1)

					a := int(p2) + int(p3) + int(p4) + int(p5) +
						int(p6) + int(p7) + int(p8) + int(p9)
					if a < 2 || a > 6 {
						continue
					}

					// B: 0->1 transitions in the sequence P2..P9,P2.
					seq := [9]uint8{p2, p3, p4, p5, p6, p7, p8, p9, p2}
					b := 0
					for i := 0; i < 8; i++ {
						if seq[i] == 0 && seq[i+1] == 1 {
							b++
						}
					}
					if b != 1 {
						continue
					}

					if sub == 0 {
						if p2*p4*p6 != 0 || p4*p6*p8 != 0 {
							continue
						}
					} else {
						if p2*p4*p8 != 0 || p2*p6*p8 != 0 {
							continue
						}
					}
					toClear = append(toClear, [2]int{x, y})
				}
			}
			for _, p := range toClear {
				cur[p[1]*width+p[0]] = 0
				changed = true
			}
		}

		if !changed {
			break
		}
	}

	out := NewGrayImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if cur[y*width+x] == 1 {
				out.Pix[y*out.Stride+x] = Ink
			}
		}
	}
	return out
}
