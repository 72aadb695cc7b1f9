package scan2font

import (
	"image"
	"math"

	"github.com/handfont/scan2font/imageutil"
	"github.com/handfont/scan2font/logging"
)

// Monoline extraction constants.
const (
	// monolineJoinPasses bounds the endpoint-joining iterations.
	monolineJoinPasses = 10

	// DefaultChaikinIterations smooths strokes with two rounds of
	// corner cutting.
	DefaultChaikinIterations = 2

	// DefaultWeldRadius clusters stroke endpoints within this distance
	// so strokes that should meet share exact coordinates.
	DefaultWeldRadius = 2.5
)

// Stroke is one polyline of the monoline representation.
type Stroke struct {
	Points []Point
	Length float64
}

// Closed reports whether the stroke forms a loop.
func (s Stroke) Closed() bool {
	return len(s.Points) > 2 && s.Points[0] == s.Points[len(s.Points)-1]
}

// MonolineOptions tunes the skeleton-to-stroke conversion.
type MonolineOptions struct {
	ChaikinIterations int
	WeldRadius        float64
}

// DefaultMonolineOptions returns the standard smoothing and welding
// parameters.
func DefaultMonolineOptions() MonolineOptions {
	return MonolineOptions{
		ChaikinIterations: DefaultChaikinIterations,
		WeldRadius:        DefaultWeldRadius,
	}
}

// ExtractMonoline converts a cell mask into centerline strokes: the mask
// is thinned to a 1-pixel skeleton, strokes are walked from endpoints
// and remaining loops, nearby stroke termini are joined, short branches
// pruned, and the result smoothed and welded. Useful for plotter and
// stroke-art output as an alternative to outline tracing.
func ExtractMonoline(cell CellMask, opts MonolineOptions) []Stroke {
	log := logging.Stage("monoline")

	mask := imageutil.EnsureInkForeground(cell.Mask.Clone())
	skeleton := imageutil.ZhangSuenThin(mask)
	bounds, ok := skeleton.InkBounds()
	if !ok {
		return nil
	}
	minDim := float64(bounds.Dx())
	if d := float64(bounds.Dy()); d < minDim {
		minDim = d
	}

	strokes := walkSkeleton(skeleton)
	log.Debug("skeleton walked", "strokes", len(strokes))

	// Join before pruning so short branches get absorbed rather than
	// discarded.
	joinGap := math.Max(5, 0.3*minDim)
	for pass := 0; pass < monolineJoinPasses; pass++ {
		joined, changed := joinStrokes(strokes, joinGap)
		strokes = joined
		if !changed {
			break
		}
	}

	minLen := math.Max(3, 0.05*minDim)
	kept := strokes[:0]
	for _, s := range strokes {
		if StrokeLength(s.Points) >= minLen || s.Closed() {
			kept = append(kept, s)
		}
	}
	strokes = kept

	epsilon := math.Max(0.5, 0.005*minDim)
	for i := range strokes {
		closed := strokes[i].Closed()
		pts := strokes[i].Points
		if closed {
			pts = pts[:len(pts)-1]
		}
		pts = MovingAverage(pts, 2)
		pts = Chaikin(pts, opts.ChaikinIterations, closed)
		pts = DouglasPeucker(pts, epsilon)
		if closed && len(pts) > 2 {
			pts = append(pts, pts[0])
		}
		strokes[i].Points = pts
		strokes[i].Length = StrokeLength(pts)
	}

	strokes = WeldEndpoints(strokes, opts.WeldRadius)
	log.Debug("monoline extracted", "strokes", len(strokes))
	return strokes
}

// skeletonGraph indexes skeleton pixels as flat arrays: coordinates plus
// adjacency by pixel index. Cycles are handled by a second walking pass,
// so no owning pointer chains are needed.
type skeletonGraph struct {
	width  int
	coords []image.Point
	index  map[int]int // y*width+x -> pixel index
	adj    [][]int
}

func buildSkeletonGraph(skeleton *imageutil.GrayImage) *skeletonGraph {
	w, h := skeleton.Width(), skeleton.Height()
	g := &skeletonGraph{width: w, index: make(map[int]int)}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if skeleton.GetGray(x, y) == imageutil.Ink {
				g.index[y*w+x] = len(g.coords)
				g.coords = append(g.coords, image.Point{X: x, Y: y})
			}
		}
	}
	g.adj = make([][]int, len(g.coords))
	for i, p := range g.coords {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				if j, ok := g.index[(p.Y+dy)*w+p.X+dx]; ok {
					g.adj[i] = append(g.adj[i], j)
				}
			}
		}
	}
	return g
}

// walkSkeleton extracts strokes from a 1-pixel skeleton: endpoints
// (1 neighbor) are walked outward until a junction (>2 neighbors) or
// dead-end, then unvisited neighbors of junctions are walked as spurs,
// then any remaining unvisited pixels are walked as loops.
func walkSkeleton(skeleton *imageutil.GrayImage) []Stroke {
	g := buildSkeletonGraph(skeleton)
	visited := make([]bool, len(g.coords))
	var strokes []Stroke

	toPoint := func(i int) Point {
		return Point{X: float64(g.coords[i].X), Y: float64(g.coords[i].Y)}
	}

	walk := func(start int) []Point {
		pts := []Point{toPoint(start)}
		visited[start] = true
		cur := start
		for {
			next := -1
			for _, n := range g.adj[cur] {
				if !visited[n] {
					next = n
					break
				}
			}
			if next < 0 {
				return pts
			}
			pts = append(pts, toPoint(next))
			if len(g.adj[next]) > 2 {
				// Stop at the junction; it stays available as a seed
				// for the strokes that continue through it.
				visited[next] = true
				return pts
			}
			visited[next] = true
			cur = next
		}
	}

	// Pass 1: endpoint walks.
	for i := range g.coords {
		if len(g.adj[i]) == 1 && !visited[i] {
			pts := walk(i)
			if len(pts) > 1 {
				strokes = append(strokes, Stroke{Points: pts, Length: StrokeLength(pts)})
			}
		}
	}

	// Pass 2: junction spurs. Walk outward from each junction through
	// any neighbors the endpoint walks did not consume.
	for i := range g.coords {
		if len(g.adj[i]) > 2 {
			for _, n := range g.adj[i] {
				if visited[n] {
					continue
				}
				pts := append([]Point{toPoint(i)}, walk(n)...)
				if len(pts) > 1 {
					strokes = append(strokes, Stroke{Points: pts, Length: StrokeLength(pts)})
				}
			}
		}
	}

	// Pass 3: pure loops (no endpoints, no junctions), e.g. an 'o'.
	for i := range g.coords {
		if !visited[i] {
			pts := walk(i)
			if len(pts) > 2 {
				pts = append(pts, pts[0]) // close the loop
				strokes = append(strokes, Stroke{Points: pts, Length: StrokeLength(pts)})
			}
		}
	}
	return strokes
}

// joinStrokes concatenates the closest pair of open stroke termini
// within gap. It reports whether a join happened; callers iterate until
// a fixed point.
func joinStrokes(strokes []Stroke, gap float64) ([]Stroke, bool) {
	bestA, bestB := -1, -1
	var revA, revB bool
	bestDist := gap

	for i := 0; i < len(strokes); i++ {
		if strokes[i].Closed() {
			continue
		}
		for j := i + 1; j < len(strokes); j++ {
			if strokes[j].Closed() {
				continue
			}
			ia := strokes[i].Points
			jb := strokes[j].Points
			ends := []struct {
				a, b   Point
				ra, rb bool
			}{
				{ia[len(ia)-1], jb[0], false, false},        // tail -> head
				{ia[len(ia)-1], jb[len(jb)-1], false, true}, // tail -> tail
				{ia[0], jb[0], true, false},                 // head -> head
				{ia[0], jb[len(jb)-1], true, true},          // head -> tail
			}
			for _, e := range ends {
				if d := e.a.Dist(e.b); d <= bestDist {
					bestDist = d
					bestA, bestB = i, j
					revA, revB = e.ra, e.rb
				}
			}
		}
	}

	if bestA < 0 {
		return strokes, false
	}

	a := strokes[bestA].Points
	b := strokes[bestB].Points
	if revA {
		a = reversePoints(a)
	}
	if revB {
		b = reversePoints(b)
	}
	merged := append(append([]Point(nil), a...), b...)

	var out []Stroke
	for i, s := range strokes {
		if i == bestA || i == bestB {
			continue
		}
		out = append(out, s)
	}
	out = append(out, Stroke{Points: merged, Length: StrokeLength(merged)})
	return out, true
}

func reversePoints(pts []Point) []Point {
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[len(pts)-1-i] = p
	}
	return out
}

// WeldEndpoints clusters all stroke termini within radius using
// union-find and snaps each cluster to its centroid, guaranteeing that
// strokes that should meet share exact coordinates.
func WeldEndpoints(strokes []Stroke, radius float64) []Stroke {
	type terminus struct {
		stroke int
		last   bool
		p      Point
	}
	var ts []terminus
	for i, s := range strokes {
		if len(s.Points) == 0 {
			continue
		}
		ts = append(ts, terminus{stroke: i, last: false, p: s.Points[0]})
		if len(s.Points) > 1 {
			ts = append(ts, terminus{stroke: i, last: true, p: s.Points[len(s.Points)-1]})
		}
	}

	dsu := newDSU(len(ts))
	for i := 0; i < len(ts); i++ {
		for j := i + 1; j < len(ts); j++ {
			if ts[i].p.Dist(ts[j].p) <= radius {
				dsu.union(i, j)
			}
		}
	}

	type cluster struct {
		sumX, sumY float64
		n          int
	}
	clusters := make(map[int]*cluster)
	for i, t := range ts {
		root := dsu.find(i)
		c := clusters[root]
		if c == nil {
			c = &cluster{}
			clusters[root] = c
		}
		c.sumX += t.p.X
		c.sumY += t.p.Y
		c.n++
	}

	out := make([]Stroke, len(strokes))
	copy(out, strokes)
	for i := range out {
		out[i].Points = append([]Point(nil), out[i].Points...)
	}
	for i, t := range ts {
		c := clusters[dsu.find(i)]
		if c.n < 2 {
			continue
		}
		welded := Point{X: c.sumX / float64(c.n), Y: c.sumY / float64(c.n)}
		pts := out[t.stroke].Points
		if t.last {
			pts[len(pts)-1] = welded
		} else {
			pts[0] = welded
		}
	}
	for i := range out {
		out[i].Length = StrokeLength(out[i].Points)
	}
	return out
}

// CountNearbyEndpoints counts pairs of stroke termini that are within
// radius of each other but do not share exact coordinates. After
// welding the count is zero.
func CountNearbyEndpoints(strokes []Stroke, radius float64) int {
	var pts []Point
	for _, s := range strokes {
		if len(s.Points) == 0 {
			continue
		}
		pts = append(pts, s.Points[0])
		if len(s.Points) > 1 {
			pts = append(pts, s.Points[len(s.Points)-1])
		}
	}
	count := 0
	for i := 0; i < len(pts); i++ {
		for j := i + 1; j < len(pts); j++ {
			d := pts[i].Dist(pts[j])
			if d > 0 && d <= radius {
				count++
			}
		}
	}
	return count
}

// dsu is a small union-find over integer ids with path compression.
type dsu struct {
	parent []int
}

func newDSU(n int) *dsu {
	d := &dsu{parent: make([]int, n)}
	for i := range d.parent {
		d.parent[i] = i
	}
	return d
}

func (d *dsu) find(x int) int {
	for d.parent[x] != x {
		d.parent[x] = d.parent[d.parent[x]]
		x = d.parent[x]
	}
	return x
}

func (d *dsu) union(a, b int) {
	ra, rb := d.find(a), d.find(b)
	if ra != rb {
		d.parent[rb] = ra
	}
}
