package scan2font

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// The glyph boundary speaks a strict SVG path sub-dialect: absolute
// M, L, C, Q and Z commands with whitespace-separated decimal numbers.
// The emitter produces only M/L/Z (contours are polylines); the parser
// accepts the full subset and densifies curves to point samples, so paths
// drawn in the on-screen UI flow through the same simplification code.

// curveSamples is the number of line segments a C or Q segment is
// densified into before simplification.
const curveSamples = 16

// formatCoord renders a coordinate with at most two decimals.
func formatCoord(v float64) string {
	r := math.Round(v*100) / 100
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// BuildPath serializes outlines followed by holes into one multi-contour
// path string. Each contour becomes M, a run of L, then Z.
func BuildPath(outlines, holes []Contour) string {
	var sb strings.Builder
	emit := func(c Contour) {
		if len(c) == 0 {
			return
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString("M ")
		sb.WriteString(formatCoord(c[0].X))
		sb.WriteByte(' ')
		sb.WriteString(formatCoord(c[0].Y))
		for _, p := range c[1:] {
			sb.WriteString(" L ")
			sb.WriteString(formatCoord(p.X))
			sb.WriteByte(' ')
			sb.WriteString(formatCoord(p.Y))
		}
		sb.WriteString(" Z")
	}
	for _, c := range outlines {
		emit(c)
	}
	for _, c := range holes {
		emit(c)
	}
	return sb.String()
}

// ParsePath parses the sub-dialect into contours, one per M..Z segment
// run. C and Q segments are densified to curveSamples line segments each,
// so downstream simplification sees true curvature.
func ParsePath(d string) ([]Contour, error) {
	tokens := tokenizePath(d)
	var contours []Contour
	var cur Contour
	var pos Point

	takeNumbers := func(i, n int) ([]float64, int, error) {
		if i+n > len(tokens) {
			return nil, i, fmt.Errorf("path truncated: want %d numbers", n)
		}
		nums := make([]float64, n)
		for k := 0; k < n; k++ {
			v, err := strconv.ParseFloat(tokens[i+k], 64)
			if err != nil {
				return nil, i, fmt.Errorf("bad number %q: %w", tokens[i+k], err)
			}
			nums[k] = v
		}
		return nums, i + n, nil
	}

	closeCurrent := func() {
		if len(cur) > 1 && cur[0] == cur[len(cur)-1] {
			cur = cur[:len(cur)-1]
		}
		if len(cur) > 0 {
			contours = append(contours, cur)
		}
		cur = nil
	}

	i := 0
	for i < len(tokens) {
		cmd := tokens[i]
		i++
		switch cmd {
		case "M":
			closeCurrent()
			nums, ni, err := takeNumbers(i, 2)
			if err != nil {
				return nil, err
			}
			i = ni
			pos = Point{X: nums[0], Y: nums[1]}
			cur = Contour{pos}
		case "L":
			nums, ni, err := takeNumbers(i, 2)
			if err != nil {
				return nil, err
			}
			i = ni
			pos = Point{X: nums[0], Y: nums[1]}
			cur = append(cur, pos)
		case "Q":
			nums, ni, err := takeNumbers(i, 4)
			if err != nil {
				return nil, err
			}
			i = ni
			c := Point{X: nums[0], Y: nums[1]}
			end := Point{X: nums[2], Y: nums[3]}
			for s := 1; s <= curveSamples; s++ {
				t := float64(s) / curveSamples
				cur = append(cur, quadPoint(pos, c, end, t))
			}
			pos = end
		case "C":
			nums, ni, err := takeNumbers(i, 6)
			if err != nil {
				return nil, err
			}
			i = ni
			c1 := Point{X: nums[0], Y: nums[1]}
			c2 := Point{X: nums[2], Y: nums[3]}
			end := Point{X: nums[4], Y: nums[5]}
			for s := 1; s <= curveSamples; s++ {
				t := float64(s) / curveSamples
				cur = append(cur, cubicPoint(pos, c1, c2, end, t))
			}
			pos = end
		case "Z":
			closeCurrent()
		default:
			return nil, fmt.Errorf("unsupported path command %q", cmd)
		}
	}
	closeCurrent()
	return contours, nil
}

// quadPoint evaluates a quadratic bezier at t.
func quadPoint(p0, c, p1 Point, t float64) Point {
	u := 1 - t
	return Point{
		X: u*u*p0.X + 2*u*t*c.X + t*t*p1.X,
		Y: u*u*p0.Y + 2*u*t*c.Y + t*t*p1.Y,
	}
}

// cubicPoint evaluates a cubic bezier at t.
func cubicPoint(p0, c1, c2, p1 Point, t float64) Point {
	u := 1 - t
	return Point{
		X: u*u*u*p0.X + 3*u*u*t*c1.X + 3*u*t*t*c2.X + t*t*t*p1.X,
		Y: u*u*u*p0.Y + 3*u*u*t*c1.Y + 3*u*t*t*c2.Y + t*t*t*p1.Y,
	}
}

// tokenizePath splits a path string into command letters and number
// tokens, tolerating commas and tight "L10 20" spacing.
func tokenizePath(d string) []string {
	var tokens []string
	var num strings.Builder
	flush := func() {
		if num.Len() > 0 {
			tokens = append(tokens, num.String())
			num.Reset()
		}
	}
	for _, r := range d {
		switch {
		case r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z':
			if r == 'e' || r == 'E' {
				// Exponent inside a number.
				num.WriteRune(r)
				continue
			}
			flush()
			tokens = append(tokens, string(r))
		case r == ' ' || r == '\t' || r == '\n' || r == ',':
			flush()
		case r == '-':
			// A minus sign starts a new number unless it follows an
			// exponent marker.
			s := num.String()
			if num.Len() > 0 && !strings.HasSuffix(s, "e") && !strings.HasSuffix(s, "E") {
				flush()
			}
			num.WriteRune(r)
		default:
			num.WriteRune(r)
		}
	}
	flush()
	return tokens
}
