package leveldata

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/automoto/tilegeom/config"
	"github.com/automoto/tilegeom/shared/gamemath"
	"github.com/automoto/tilegeom/shared/tileset"
	"github.com/lafriks/go-tiled"
	"github.com/rs/zerolog"
)

// Option customises level loading.
type Option func(*options)

type options struct {
	layer     string
	slopeProp string
	library   *tileset.Library
	log       zerolog.Logger
}

// WithLayer selects the tile layer carrying collision tiles.
func WithLayer(name string) Option {
	return func(o *options) {
		o.layer = name
	}
}

// WithLibrary shares a tileset cache across levels. The library must read
// from the same file system as the levels.
func WithLibrary(lib *tileset.Library) Option {
	return func(o *options) {
		o.library = lib
	}
}

// WithLogger sets the logger for load diagnostics.
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

func newOptions(fsys fs.FS, opts []Option) *options {
	o := &options{
		layer:     config.Collision.Layer,
		slopeProp: config.Collision.SlopeProp,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.library == nil {
		o.library = tileset.NewLibrary(fsys, tileset.WithLogger(o.log))
	}
	return o
}

// LoadCollisionData parses a TMX file and places the collision shapes of
// every tile in the collision layer into world space. It takes an fs.FS so
// callers can pass embed.FS or os.DirFS.
func LoadCollisionData(fsys fs.FS, tmxPath string, opts ...Option) (*CollisionData, error) {
	return newOptions(fsys, opts).load(fsys, tmxPath)
}

func (o *options) load(fsys fs.FS, tmxPath string) (*CollisionData, error) {
	levelMap, err := tiled.LoadFile(tmxPath, tiled.WithFileSystem(fsys))
	if err != nil {
		return nil, fmt.Errorf("load TMX %s: %w", tmxPath, err)
	}

	var layer *tiled.Layer
	for _, l := range levelMap.Layers {
		if l.Name == o.layer {
			layer = l
			break
		}
	}
	if layer == nil {
		return nil, fmt.Errorf("load TMX %s: no tile layer named %q", tmxPath, o.layer)
	}

	data := &CollisionData{
		MapWidth:   levelMap.Width * levelMap.TileWidth,
		MapHeight:  levelMap.Height * levelMap.TileHeight,
		TileWidth:  levelMap.TileWidth,
		TileHeight: levelMap.TileHeight,
	}

	embedded := make(map[*tiled.Tileset]*tileset.TileSet)
	geometry := func(src *tiled.Tileset) (*tileset.TileSet, error) {
		if src.Source != "" {
			return o.library.Get(path.Join(path.Dir(tmxPath), src.Source))
		}
		if ts, ok := embedded[src]; ok {
			return ts, nil
		}
		ts, err := tileset.FromTiled(src, tileset.WithLogger(o.log))
		if err != nil {
			return nil, err
		}
		embedded[src] = ts
		return ts, nil
	}

	cellW := float64(levelMap.TileWidth)
	cellH := float64(levelMap.TileHeight)
	for y := 0; y < levelMap.Height; y++ {
		for x := 0; x < levelMap.Width; x++ {
			tile := layer.Tiles[y*levelMap.Width+x]
			if tile.IsNil() {
				continue
			}

			ts, err := geometry(tile.Tileset)
			if err != nil {
				return nil, fmt.Errorf("load TMX %s: tileset %q: %w", tmxPath, tile.Tileset.Name, err)
			}
			id := int(tile.ID)
			shapes := ts.ShapesFor(id)
			if len(shapes) == 0 {
				continue
			}

			var slope string
			if t, ok := ts.Tile(id); ok {
				slope, _ = t.Property(o.slopeProp)
			}

			// Tiles taller than the map grid are bottom-aligned to their cell.
			originX := float64(x) * cellW
			originY := float64(y+1)*cellH - float64(ts.TileHeight)
			flip := flips{h: tile.HorizontalFlip, v: tile.VerticalFlip, d: tile.DiagonalFlip}

			for _, s := range shapes {
				local := s.Absolute()
				world := make([]gamemath.Point, len(local))
				for i, p := range local {
					p = flip.apply(p, float64(ts.TileWidth), float64(ts.TileHeight))
					world[i] = gamemath.Point{X: originX + p.X, Y: originY + p.Y}
				}
				data.Shapes = append(data.Shapes, WorldShape{
					TileX:   x,
					TileY:   y,
					TileID:  id,
					Tileset: ts.Name,
					Slope:   slope,
					Points:  world,
				})
			}
		}
	}

	o.log.Info().
		Str("component", "leveldata").
		Str("level", tmxPath).
		Int("shapes", len(data.Shapes)).
		Int("width", data.MapWidth).
		Int("height", data.MapHeight).
		Msg("loaded level collision")
	return data, nil
}

type flips struct {
	h, v, d bool
}

// apply maps a tile-space point through Tiled's flip flags: the diagonal
// flip swaps axes first, then the horizontal and vertical mirrors follow.
func (f flips) apply(p gamemath.Point, w, h float64) gamemath.Point {
	if f.d {
		p.X, p.Y = p.Y, p.X
		w, h = h, w
	}
	if f.h {
		p.X = w - p.X
	}
	if f.v {
		p.Y = h - p.Y
	}
	return p
}

// LoadAllLevels discovers all .tmx files in levelsDir within fsys, loads collision
// data for each, and returns a map keyed by stem name plus a sorted list of names.
// Tilesets shared between levels are loaded once.
func LoadAllLevels(fsys fs.FS, levelsDir string, opts ...Option) (map[string]*CollisionData, []string, error) {
	pattern := levelsDir + "/*.tmx"
	matches, err := fs.Glob(fsys, pattern)
	if err != nil {
		return nil, nil, fmt.Errorf("glob %s: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, nil, fmt.Errorf("no .tmx files found in %s", levelsDir)
	}

	o := newOptions(fsys, opts)
	levels := make(map[string]*CollisionData, len(matches))
	names := make([]string, 0, len(matches))

	for _, p := range matches {
		data, err := o.load(fsys, p)
		if err != nil {
			return nil, nil, fmt.Errorf("load %s: %w", p, err)
		}
		stem := strings.TrimSuffix(path.Base(p), ".tmx")
		levels[stem] = data
		names = append(names, stem)
	}

	sort.Strings(names)
	return levels, names, nil
}
