// Package gamemath holds the polygon and rectangle math shared by the tileset
// loader, level placement and the collision world. Pure functions only.
package gamemath

import "math"

// Point is a 2D coordinate in pixels.
type Point struct {
	X, Y float64
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Rect is an axis-aligned rectangle with its origin at the top-left corner.
type Rect struct {
	X, Y, W, H float64
}

// Max returns the bottom-right corner.
func (r Rect) Max() Point {
	return Point{X: r.X + r.W, Y: r.Y + r.H}
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Intersects reports whether r and o share any area or edge.
func (r Rect) Intersects(o Rect) bool {
	return r.X <= o.X+o.W && o.X <= r.X+r.W && r.Y <= o.Y+o.H && o.Y <= r.Y+r.H
}

// Corners returns the four corners clockwise from the top-left.
func (r Rect) Corners() []Point {
	return []Point{
		{X: r.X, Y: r.Y},
		{X: r.X + r.W, Y: r.Y},
		{X: r.X + r.W, Y: r.Y + r.H},
		{X: r.X, Y: r.Y + r.H},
	}
}

// Bounds returns the smallest rectangle containing every point of poly.
// An empty polygon yields the zero Rect.
func Bounds(poly []Point) Rect {
	if len(poly) == 0 {
		return Rect{}
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range poly {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Translate returns a copy of poly moved by (dx, dy).
func Translate(poly []Point, dx, dy float64) []Point {
	out := make([]Point, len(poly))
	for i, p := range poly {
		out[i] = Point{X: p.X + dx, Y: p.Y + dy}
	}
	return out
}

// SignedArea is positive for clockwise winding in screen space (y down).
func SignedArea(poly []Point) float64 {
	var sum float64
	for i := range poly {
		a := poly[i]
		b := poly[(i+1)%len(poly)]
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum / 2
}

// IsConvex reports whether poly turns the same way at every vertex.
// Collinear vertices are ignored.
func IsConvex(poly []Point) bool {
	if len(poly) < 3 {
		return false
	}
	sign := 0
	for i := range poly {
		a := poly[i]
		b := poly[(i+1)%len(poly)]
		c := poly[(i+2)%len(poly)]
		cross := (b.X-a.X)*(c.Y-b.Y) - (b.Y-a.Y)*(c.X-b.X)
		switch {
		case cross > 0:
			if sign < 0 {
				return false
			}
			sign = 1
		case cross < 0:
			if sign > 0 {
				return false
			}
			sign = -1
		}
	}
	return sign != 0
}

// ContainsPoint uses the even-odd rule, so it works for non-convex polygons.
// Points exactly on an edge count as inside.
func ContainsPoint(poly []Point, p Point) bool {
	if len(poly) < 3 {
		return false
	}
	inside := false
	j := len(poly) - 1
	for i := range poly {
		a, b := poly[i], poly[j]
		if onSegment(a, b, p) {
			return true
		}
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := a.X + (p.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
			if p.X < x {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// SegmentsIntersect reports whether segments a1-a2 and b1-b2 touch.
func SegmentsIntersect(a1, a2, b1, b2 Point) bool {
	d1 := orient(b1, b2, a1)
	d2 := orient(b1, b2, a2)
	d3 := orient(a1, a2, b1)
	d4 := orient(a1, a2, b2)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	return (d1 == 0 && onSegment(b1, b2, a1)) ||
		(d2 == 0 && onSegment(b1, b2, a2)) ||
		(d3 == 0 && onSegment(a1, a2, b1)) ||
		(d4 == 0 && onSegment(a1, a2, b2))
}

// IntersectsRect reports whether poly and r overlap. Handles non-convex
// polygons: any contained vertex or crossing edge counts.
func IntersectsRect(poly []Point, r Rect) bool {
	if len(poly) < 3 || !Bounds(poly).Intersects(r) {
		return false
	}
	for _, p := range poly {
		if r.Contains(p) {
			return true
		}
	}
	corners := r.Corners()
	for _, c := range corners {
		if ContainsPoint(poly, c) {
			return true
		}
	}
	for i := range poly {
		a, b := poly[i], poly[(i+1)%len(poly)]
		for k := range corners {
			if SegmentsIntersect(a, b, corners[k], corners[(k+1)%len(corners)]) {
				return true
			}
		}
	}
	return false
}

func orient(a, b, c Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

func onSegment(a, b, p Point) bool {
	if orient(a, b, p) != 0 {
		return false
	}
	return p.X >= math.Min(a.X, b.X) && p.X <= math.Max(a.X, b.X) &&
		p.Y >= math.Min(a.Y, b.Y) && p.Y <= math.Max(a.Y, b.Y)
}

// ClipToRect clips poly against r (Sutherland-Hodgman). Concave polygons
// may come back with zero-width bridges along r's edges; they enclose no
// extra area. The result is empty when poly lies outside r.
func ClipToRect(poly []Point, r Rect) []Point {
	hi := r.Max()
	edges := []struct {
		inside func(Point) bool
		cross  func(a, b Point) Point
	}{
		{
			inside: func(p Point) bool { return p.X >= r.X },
			cross:  func(a, b Point) Point { return atX(a, b, r.X) },
		},
		{
			inside: func(p Point) bool { return p.X <= hi.X },
			cross:  func(a, b Point) Point { return atX(a, b, hi.X) },
		},
		{
			inside: func(p Point) bool { return p.Y >= r.Y },
			cross:  func(a, b Point) Point { return atY(a, b, r.Y) },
		},
		{
			inside: func(p Point) bool { return p.Y <= hi.Y },
			cross:  func(a, b Point) Point { return atY(a, b, hi.Y) },
		},
	}

	out := poly
	for _, e := range edges {
		in := out
		out = make([]Point, 0, len(in)+2)
		for i, cur := range in {
			prev := in[(i+len(in)-1)%len(in)]
			switch curIn, prevIn := e.inside(cur), e.inside(prev); {
			case curIn && prevIn:
				out = append(out, cur)
			case curIn:
				out = append(out, e.cross(prev, cur), cur)
			case prevIn:
				out = append(out, e.cross(prev, cur))
			}
		}
		if len(out) == 0 {
			return out
		}
	}
	return out
}

func atX(a, b Point, x float64) Point {
	t := (x - a.X) / (b.X - a.X)
	return Point{X: x, Y: a.Y + t*(b.Y-a.Y)}
}

func atY(a, b Point, y float64) Point {
	t := (y - a.Y) / (b.Y - a.Y)
	return Point{X: a.X + t*(b.X-a.X), Y: y}
}
