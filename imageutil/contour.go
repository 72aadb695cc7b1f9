package imageutil

import "image"

// Border is one closed border of a binary mask, produced by FindContours.
// Hole distinguishes hole borders (background enclosed by ink) from outer
// borders. Parent is the index of the enclosing border in the returned
// slice, or -1 for top-level borders.
type Border struct {
	Points []image.Point
	Hole   bool
	Parent int
}

// Neighbor directions in counterclockwise order starting east.
var dir8 = [8][2]int{
	{1, 0}, {1, -1}, {0, -1}, {-1, -1},
	{-1, 0}, {-1, 1}, {0, 1}, {1, 1},
}

// FindContours follows every border of the ink=255 regions of a binary
// mask using the Suzuki-Abe border following algorithm. Unlike tracers
// that infer holes from fill color, the outer/hole distinction here comes
// from border topology, and the parent tree records nesting.
func FindContours(mask *GrayImage) []Border {
	width, height := mask.Width(), mask.Height()
	if width == 0 || height == 0 {
		return nil
	}

	// f holds the border-labelled image. 0 = background, 1 = unvisited
	// ink, other values are NBD labels (negative when the pixel is the
	// right-edge terminus of its border).
	f := make([][]int, height)
	for y := 0; y < height; y++ {
		f[y] = make([]int, width)
		for x := 0; x < width; x++ {
			if mask.Pix[y*mask.Stride+x] != Paper {
				f[y][x] = 1
			}
		}
	}

	at := func(p image.Point) int {
		if p.X < 0 || p.X >= width || p.Y < 0 || p.Y >= height {
			return 0
		}
		return f[p.Y][p.X]
	}

	type borderInfo struct {
		hole      bool
		parentNBD int
		index     int
	}
	// NBD 1 is the frame, a hole border with no parent.
	info := map[int]*borderInfo{1: {hole: true, parentNBD: 0, index: -1}}

	var borders []Border
	nbd := 1

	for y := 0; y < height; y++ {
		lnbd := 1
		for x := 0; x < width; x++ {
			v := f[y][x]
			if v == 0 {
				continue
			}

			var start2 image.Point
			var hole bool
			left := 0
			if x > 0 {
				left = f[y][x-1]
			}
			right := 0
			if x+1 < width {
				right = f[y][x+1]
			}

			switch {
			case v == 1 && left == 0:
				// Outer border start.
				nbd++
				hole = false
				start2 = image.Point{X: x - 1, Y: y}
			case v >= 1 && right == 0:
				// Hole border start.
				nbd++
				hole = true
				start2 = image.Point{X: x + 1, Y: y}
				if v > 1 {
					lnbd = v
				}
			default:
				if v != 1 {
					lnbd = abs(v)
				}
				continue
			}

			// Parent from the border type table of Suzuki-Abe.
			prev := info[lnbd]
			parentNBD := lnbd
			if prev != nil && prev.hole == hole {
				parentNBD = prev.parentNBD
			}
			bi := &borderInfo{hole: hole, parentNBD: parentNBD, index: len(borders)}
			info[nbd] = bi

			points := followBorder(f, at, image.Point{X: x, Y: y}, start2, nbd, width, height)

			parentIdx := -1
			if p := info[parentNBD]; p != nil {
				parentIdx = p.index
			}
			borders = append(borders, Border{Points: points, Hole: hole, Parent: parentIdx})

			if f[y][x] != 1 {
				lnbd = abs(f[y][x])
			}
		}
	}
	return borders
}

// followBorder walks one border starting at start, where from is the
// zero pixel that triggered the border detection. It marks visited border
// pixels in f with nbd and returns the border points in trace order.
func followBorder(f [][]int, at func(image.Point) int, start, from image.Point, nbd, width, height int) []image.Point {
	// Step 3.1: clockwise search for a nonzero neighbor.
	dir := dirOf(start, from)
	found := -1
	for i := 0; i < 8; i++ {
		dir = (dir + 7) % 8
		p := image.Point{X: start.X + dir8[dir][0], Y: start.Y + dir8[dir][1]}
		if at(p) != 0 {
			found = dir
			break
		}
	}
	if found < 0 {
		// Isolated pixel.
		f[start.Y][start.X] = -nbd
		return []image.Point{start}
	}

	p1 := image.Point{X: start.X + dir8[found][0], Y: start.Y + dir8[found][1]}
	p2 := p1
	p3 := start
	var points []image.Point

	for {
		// Step 3.4: counterclockwise search from the neighbor after p2.
		dir = dirOf(p3, p2)
		var p4 image.Point
		examinedRight := false
		for i := 0; i < 8; i++ {
			dir = (dir + 1) % 8
			cand := image.Point{X: p3.X + dir8[dir][0], Y: p3.Y + dir8[dir][1]}
			if at(cand) != 0 {
				p4 = cand
				break
			}
			if cand.X == p3.X+1 && cand.Y == p3.Y {
				examinedRight = true
			}
		}

		// Step 3.5: mark the current pixel.
		if examinedRight {
			f[p3.Y][p3.X] = -nbd
		} else if f[p3.Y][p3.X] == 1 {
			f[p3.Y][p3.X] = nbd
		}
		points = append(points, p3)

		if p4 == start && p3 == p1 {
			return points
		}
		p2 = p3
		p3 = p4
	}
}

// dirOf returns the index of the neighbor direction from a to b.
func dirOf(a, b image.Point) int {
	dx, dy := b.X-a.X, b.Y-a.Y
	for i, d := range dir8 {
		if d[0] == dx && d[1] == dy {
			return i
		}
	}
	return 0
}

// ExternalContours returns only the top-level outer borders of the mask,
// matching OpenCV's RETR_EXTERNAL retrieval mode.
func ExternalContours(mask *GrayImage) [][]image.Point {
	var out [][]image.Point
	for _, b := range FindContours(mask) {
		if !b.Hole && b.Parent < 0 {
			out = append(out, b.Points)
		}
	}
	return out
}

// ConvexHull computes the convex hull of a point set using the monotone
// chain algorithm. The hull is returned in clockwise order as seen on
// screen in image coordinates (y down), i.e. with a positive shoelace sum.
func ConvexHull(points []image.Point) []image.Point {
	n := len(points)
	if n < 3 {
		return append([]image.Point(nil), points...)
	}
	pts := append([]image.Point(nil), points...)
	sortPoints(pts)

	cross := func(o, a, b image.Point) int {
		return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
	}

	hull := make([]image.Point, 0, 2*n)
	for _, p := range pts {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := n - 2; i >= 0; i-- {
		p := pts[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull[:len(hull)-1]
}

// PolygonArea returns the absolute area of a closed polygon given by its
// vertices, via the shoelace formula.
func PolygonArea(points []image.Point) float64 {
	n := len(points)
	if n < 3 {
		return 0
	}
	sum := 0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += points[i].X*points[j].Y - points[j].X*points[i].Y
	}
	if sum < 0 {
		sum = -sum
	}
	return float64(sum) / 2
}

// BoundingBox returns the axis-aligned bounding box of a point set.
func BoundingBox(points []image.Point) image.Rectangle {
	if len(points) == 0 {
		return image.Rectangle{}
	}
	r := image.Rect(points[0].X, points[0].Y, points[0].X+1, points[0].Y+1)
	for _, p := range points[1:] {
		if p.X < r.Min.X {
			r.Min.X = p.X
		}
		if p.X+1 > r.Max.X {
			r.Max.X = p.X + 1
		}
		if p.Y < r.Min.Y {
			r.Min.Y = p.Y
		}
		if p.Y+1 > r.Max.Y {
			r.Max.Y = p.Y + 1
		}
	}
	return r
}

// sortPoints orders points by x, then y (insertion sort is fine for the
// small candidate sets the detector produces; larger sets come presorted
// from raster order).
func sortPoints(pts []image.Point) {
	for i := 1; i < len(pts); i++ {
		p := pts[i]
		j := i - 1
		for j >= 0 && (pts[j].X > p.X || (pts[j].X == p.X && pts[j].Y > p.Y)) {
			pts[j+1] = pts[j]
			j--
		}
		pts[j+1] = p
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
