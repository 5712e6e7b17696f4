package gamemath

import "math"

// SurfaceY returns the topmost y at which the vertical line through x meets
// an edge of poly. ok is false when the line misses the polygon.
// Vertical edges lying on the line contribute their upper end.
func SurfaceY(poly []Point, x float64) (y float64, ok bool) {
	y = math.Inf(1)
	for i := range poly {
		a, b := poly[i], poly[(i+1)%len(poly)]
		if x < math.Min(a.X, b.X) || x > math.Max(a.X, b.X) {
			continue
		}
		var hit float64
		if a.X == b.X {
			hit = math.Min(a.Y, b.Y)
		} else {
			t := (x - a.X) / (b.X - a.X)
			hit = a.Y + t*(b.Y-a.Y)
		}
		if hit < y {
			y = hit
			ok = true
		}
	}
	return y, ok
}

// SnapToSlopeY returns the Y position to snap an object onto a slope surface.
func SnapToSlopeY(objectH, surfaceY, offset float64) float64 {
	return surfaceY - objectH + offset
}
