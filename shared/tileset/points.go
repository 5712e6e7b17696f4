package tileset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParsePoints parses a Tiled points attribute such as "0,0 32,0 32,-5".
// Pairs are separated by whitespace and components by a single comma.
func ParsePoints(s string) ([]Point, error) {
	fields := strings.Fields(s)
	points := make([]Point, 0, len(fields))
	for i, pair := range fields {
		xs, ys, ok := strings.Cut(pair, ",")
		if !ok || strings.Contains(ys, ",") {
			return nil, fmt.Errorf("point %d %q: want x,y", i, pair)
		}
		x, err := parseCoord(xs)
		if err != nil {
			return nil, fmt.Errorf("point %d %q: x: %w", i, pair, err)
		}
		y, err := parseCoord(ys)
		if err != nil {
			return nil, fmt.Errorf("point %d %q: y: %w", i, pair, err)
		}
		points = append(points, Point{X: x, Y: y})
	}
	return points, nil
}

// FormatPoints is the inverse of ParsePoints.
func FormatPoints(points []Point) string {
	var b strings.Builder
	for i, p := range points {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(formatCoord(p.X))
		b.WriteByte(',')
		b.WriteString(formatCoord(p.Y))
	}
	return b.String()
}

func parseCoord(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not finite", s)
	}
	return v, nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
