// Package collision answers overlap queries against the collision shapes
// of a loaded level, using a resolv space as the broadphase.
package collision

import (
	"math"
	"sync"

	"github.com/automoto/tilegeom/config"
	"github.com/automoto/tilegeom/shared/gamemath"
	"github.com/automoto/tilegeom/shared/leveldata"
	"github.com/rs/zerolog"
	"github.com/solarlune/resolv"
)

// Option customises NewWorld.
type Option func(*options)

type options struct {
	cfg config.CollisionConfig
	log zerolog.Logger
}

// WithConfig replaces config.Collision for one world.
func WithConfig(cfg config.CollisionConfig) Option {
	return func(o *options) {
		o.cfg = cfg
	}
}

// WithLogger sets the logger for world diagnostics.
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// World holds a level's collision space. Shapes never change after
// NewWorld; the mutex only guards the temporary probe objects that
// queries add to the space.
type World struct {
	Space     *resolv.Space
	MapWidth  int
	MapHeight int

	tag    string
	mu     sync.Mutex
	shapes map[*resolv.Object]leveldata.WorldShape
}

// NewWorld builds a resolv.Space from parsed collision data. Each shape is
// registered by its bounding box, tagged solid, plus its slope name if any.
func NewWorld(data *leveldata.CollisionData, opts ...Option) *World {
	o := &options{cfg: config.Collision, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(o)
	}

	cell := o.cfg.CellSize
	w := &World{
		Space:     resolv.NewSpace(data.MapWidth, data.MapHeight, cell, cell),
		MapWidth:  data.MapWidth,
		MapHeight: data.MapHeight,
		tag:       o.cfg.SolidTag,
		shapes:    make(map[*resolv.Object]leveldata.WorldShape, len(data.Shapes)),
	}

	for _, s := range data.Shapes {
		b := s.Bounds()
		tags := []string{w.tag}
		if s.Slope != "" {
			tags = append(tags, s.Slope)
		}
		obj := resolv.NewObject(b.X, b.Y, b.W, b.H, tags...)
		w.Space.Add(obj)
		w.shapes[obj] = s
	}

	o.log.Debug().
		Str("component", "collision").
		Int("shapes", len(data.Shapes)).
		Int("width", data.MapWidth).
		Int("height", data.MapHeight).
		Msg("built collision world")
	return w
}

// Overlapping returns the shapes whose polygon intersects the rectangle,
// in no particular order.
func (w *World) Overlapping(x, y, width, height float64) []leveldata.WorldShape {
	r := gamemath.Rect{X: x, Y: y, W: width, H: height}
	var hits []leveldata.WorldShape
	for _, s := range w.candidates(r) {
		if gamemath.IntersectsRect(s.Points, r) {
			hits = append(hits, s)
		}
	}
	return hits
}

// Solid reports whether the point lies inside any shape.
func (w *World) Solid(x, y float64) bool {
	p := gamemath.Point{X: x, Y: y}
	for _, s := range w.candidates(gamemath.Rect{X: x, Y: y}) {
		if gamemath.ContainsPoint(s.Points, p) {
			return true
		}
	}
	return false
}

// GroundY returns the highest shape surface crossing the vertical line at
// x between top and bottom.
func (w *World) GroundY(x, top, bottom float64) (float64, bool) {
	best, found := math.Inf(1), false
	for _, s := range w.candidates(gamemath.Rect{X: x, Y: top, H: bottom - top}) {
		y, ok := gamemath.SurfaceY(s.Points, x)
		if !ok || y < top || y > bottom {
			continue
		}
		if y < best {
			best, found = y, true
		}
	}
	return best, found
}

// SnapY returns the Y at which an object of height objectH standing at x
// rests on the ground found between top and bottom.
func (w *World) SnapY(x, top, bottom, objectH float64) (float64, bool) {
	ground, ok := w.GroundY(x, top, bottom)
	if !ok {
		return 0, false
	}
	return gamemath.SnapToSlopeY(objectH, ground, 0), true
}

// candidates runs the broadphase: every shape whose box shares a space cell
// with r.
func (w *World) candidates(r gamemath.Rect) []leveldata.WorldShape {
	w.mu.Lock()
	defer w.mu.Unlock()

	probe := resolv.NewObject(r.X, r.Y, math.Max(r.W, 1), math.Max(r.H, 1))
	w.Space.Add(probe)
	check := probe.Check(0, 0, w.tag)
	w.Space.Remove(probe)
	if check == nil {
		return nil
	}

	objects := check.ObjectsByTags(w.tag)
	seen := make(map[*resolv.Object]bool, len(objects))
	out := make([]leveldata.WorldShape, 0, len(objects))
	for _, obj := range objects {
		s, ok := w.shapes[obj]
		if !ok || seen[obj] {
			continue
		}
		seen[obj] = true
		out = append(out, s)
	}
	return out
}
