package scan2font

import "math"

// Point is a 2D point. Coordinates are cell pixels during vectorization
// and font units after normalization.
type Point struct {
	X float64
	Y float64
}

// Dist returns the euclidean distance to another point.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X float64
	Y float64
	W float64
	H float64
}

// Contains reports whether r fully contains s.
func (r Rect) Contains(s Rect) bool {
	return s.X >= r.X && s.Y >= r.Y &&
		s.X+s.W <= r.X+r.W && s.Y+s.H <= r.Y+r.H
}

// Contour is an ordered list of points forming a closed loop. The closing
// segment from the last point back to the first is implicit.
type Contour []Point

// SignedArea computes ½·Σ(x_i·y_{i+1} − x_{i+1}·y_i). After the y-flip
// into font space, positive area means counterclockwise (an outline) and
// negative means clockwise (a hole).
func (c Contour) SignedArea() float64 {
	n := len(c)
	if n < 3 {
		return 0
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += c[i].X*c[j].Y - c[j].X*c[i].Y
	}
	return sum / 2
}

// Reversed returns a copy of the contour with opposite orientation.
func (c Contour) Reversed() Contour {
	out := make(Contour, len(c))
	for i, p := range c {
		out[len(c)-1-i] = p
	}
	return out
}

// BBox returns the bounding box of the contour.
func (c Contour) BBox() Rect {
	if len(c) == 0 {
		return Rect{}
	}
	minX, minY := c[0].X, c[0].Y
	maxX, maxY := c[0].X, c[0].Y
	for _, p := range c[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// VectorCell is the vectorized content of one template cell: ink outlines
// and the background holes they enclose, in writing-area pixel
// coordinates (y down).
type VectorCell struct {
	Outlines   []Contour
	Holes      []Contour
	BBoxInCell Rect
}

// Empty reports whether the cell produced no outlines.
func (v VectorCell) Empty() bool {
	return len(v.Outlines) == 0
}

// BBox returns the union bounding box of all outlines and holes.
func (v VectorCell) BBox() Rect {
	first := true
	var minX, minY, maxX, maxY float64
	grow := func(cs []Contour) {
		for _, c := range cs {
			b := c.BBox()
			if first {
				minX, minY = b.X, b.Y
				maxX, maxY = b.X+b.W, b.Y+b.H
				first = false
				continue
			}
			minX = math.Min(minX, b.X)
			minY = math.Min(minY, b.Y)
			maxX = math.Max(maxX, b.X+b.W)
			maxY = math.Max(maxY, b.Y+b.H)
		}
	}
	grow(v.Outlines)
	grow(v.Holes)
	if first {
		return Rect{}
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// perpDistance is the perpendicular distance from p to the chord a-b.
func perpDistance(p, a, b Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return p.Dist(a)
	}
	return math.Abs(dy*p.X-dx*p.Y+b.X*a.Y-b.Y*a.X) / length
}

// DouglasPeucker simplifies a polyline, removing vertices whose
// perpendicular distance from the chord is below epsilon. With epsilon 0
// it is the identity, and it is idempotent for any epsilon.
func DouglasPeucker(points []Point, epsilon float64) []Point {
	if len(points) < 3 || epsilon <= 0 {
		return append([]Point(nil), points...)
	}

	maxDist := 0.0
	index := 0
	last := len(points) - 1
	for i := 1; i < last; i++ {
		d := perpDistance(points[i], points[0], points[last])
		if d > maxDist {
			maxDist = d
			index = i
		}
	}

	if maxDist <= epsilon {
		return []Point{points[0], points[last]}
	}

	left := DouglasPeucker(points[:index+1], epsilon)
	right := DouglasPeucker(points[index:], epsilon)
	return append(left[:len(left)-1], right...)
}

// SimplifyContour runs Douglas-Peucker on a closed contour. The closing
// edge is made explicit for the recursion and stripped again afterwards.
func SimplifyContour(c Contour, epsilon float64) Contour {
	if len(c) < 4 || epsilon <= 0 {
		return append(Contour(nil), c...)
	}
	closed := append(append([]Point(nil), c...), c[0])
	simplified := DouglasPeucker(closed, epsilon)
	if len(simplified) > 1 && simplified[0] == simplified[len(simplified)-1] {
		simplified = simplified[:len(simplified)-1]
	}
	return Contour(simplified)
}

// MovingAverage smooths a polyline with a sliding mean of the given
// window. Endpoints are preserved so strokes keep their termini.
func MovingAverage(points []Point, window int) []Point {
	if window < 2 || len(points) <= 2 {
		return append([]Point(nil), points...)
	}
	out := make([]Point, len(points))
	out[0] = points[0]
	out[len(points)-1] = points[len(points)-1]
	for i := 1; i < len(points)-1; i++ {
		lo := i - window/2
		hi := i + window/2
		if lo < 0 {
			lo = 0
		}
		if hi > len(points)-1 {
			hi = len(points) - 1
		}
		var sx, sy float64
		for j := lo; j <= hi; j++ {
			sx += points[j].X
			sy += points[j].Y
		}
		n := float64(hi - lo + 1)
		out[i] = Point{X: sx / n, Y: sy / n}
	}
	return out
}

// Chaikin applies corner-cutting subdivision: each segment a-b is
// replaced by the points at 1/4 and 3/4 along it. Endpoints of open
// polylines are preserved.
func Chaikin(points []Point, iterations int, closed bool) []Point {
	out := append([]Point(nil), points...)
	for it := 0; it < iterations; it++ {
		if len(out) < 3 {
			return out
		}
		var next []Point
		if !closed {
			next = append(next, out[0])
		}
		n := len(out)
		limit := n - 1
		if closed {
			limit = n
		}
		for i := 0; i < limit; i++ {
			a := out[i]
			b := out[(i+1)%n]
			next = append(next,
				Point{X: 0.75*a.X + 0.25*b.X, Y: 0.75*a.Y + 0.25*b.Y},
				Point{X: 0.25*a.X + 0.75*b.X, Y: 0.25*a.Y + 0.75*b.Y},
			)
		}
		if !closed {
			next = append(next, out[n-1])
		}
		out = next
	}
	return out
}

// StrokeLength sums the euclidean segment lengths of a polyline.
func StrokeLength(points []Point) float64 {
	total := 0.0
	for i := 1; i < len(points); i++ {
		total += points[i].Dist(points[i-1])
	}
	return total
}
