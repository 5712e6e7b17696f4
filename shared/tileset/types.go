// Package tileset loads Tiled tileset (.tsx) collision geometry into an
// immutable lookup table keyed by tile id.
//
// A *TileSet is never modified after Load returns, so it can be shared by
// any number of goroutines without locking. Slices returned by its methods
// alias internal storage and must not be modified.
package tileset

import (
	"image"
	"slices"

	"github.com/automoto/tilegeom/shared/gamemath"
)

// Point is a tile-local coordinate in pixels.
type Point = gamemath.Point

// ShapeKind records which Tiled object produced a shape.
type ShapeKind uint8

const (
	KindPolygon ShapeKind = iota
	KindRectangle
)

func (k ShapeKind) String() string {
	switch k {
	case KindPolygon:
		return "polygon"
	case KindRectangle:
		return "rectangle"
	}
	return "unknown"
}

// Shape is one collision polygon of a tile. Points are relative to Anchor,
// which is itself relative to the tile's top-left corner. Both may be
// negative or exceed the tile size for overhanging pieces.
type Shape struct {
	ObjectID int
	Name     string
	Type     string
	Kind     ShapeKind
	Anchor   Point
	Points   []Point
}

// Absolute returns the points with the anchor applied, in tile space.
func (s Shape) Absolute() []Point {
	return gamemath.Translate(s.Points, s.Anchor.X, s.Anchor.Y)
}

// Bounds returns the axis-aligned box of the shape in tile space.
func (s Shape) Bounds() gamemath.Rect {
	return gamemath.Bounds(s.Absolute())
}

// Image is the sprite sheet the tileset cuts its tiles from.
type Image struct {
	Source string
	Width  int
	Height int
}

// Property is a custom Tiled property attached to a tile.
type Property struct {
	Name  string
	Type  string
	Value string
}

// Tile is the metadata declared for a single tile id.
type Tile struct {
	ID         int
	Type       string
	Properties []Property

	// Object group carrying the collision shapes.
	GroupID   int
	DrawOrder string
	Shapes    []Shape
}

// Property returns the value of the named custom property.
func (t *Tile) Property(name string) (string, bool) {
	for _, p := range t.Properties {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

// TileSet is a loaded tileset. Only tiles declared in the source have
// entries; every other id simply has no collision.
type TileSet struct {
	Version      string
	TiledVersion string
	Name         string
	TileWidth    int
	TileHeight   int
	TileCount    int
	Columns      int
	Image        Image

	tiles map[int]*Tile
}

// ShapesFor returns the shapes declared for id in draw order. Ids without
// shapes, including ids outside the tileset, yield an empty result.
func (ts *TileSet) ShapesFor(id int) []Shape {
	t, ok := ts.tiles[id]
	if !ok {
		return nil
	}
	return t.Shapes
}

// ImageReference returns the image path exactly as written in the document.
func (ts *TileSet) ImageReference() string {
	return ts.Image.Source
}

// Tile returns the declared entry for id.
func (ts *TileSet) Tile(id int) (*Tile, bool) {
	t, ok := ts.tiles[id]
	return t, ok
}

// IDs returns the ids that have a tile entry, ascending.
func (ts *TileSet) IDs() []int {
	ids := make([]int, 0, len(ts.tiles))
	for id := range ts.tiles {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Len is the number of declared tile entries.
func (ts *TileSet) Len() int {
	return len(ts.tiles)
}

// Rows is the number of grid rows, rounding a partial last row up.
func (ts *TileSet) Rows() int {
	if ts.Columns <= 0 {
		return 0
	}
	return (ts.TileCount + ts.Columns - 1) / ts.Columns
}

// TileRect returns the pixel rectangle of id within the tileset image.
func (ts *TileSet) TileRect(id int) (image.Rectangle, bool) {
	if id < 0 || id >= ts.TileCount || ts.Columns <= 0 {
		return image.Rectangle{}, false
	}
	x := (id % ts.Columns) * ts.TileWidth
	y := (id / ts.Columns) * ts.TileHeight
	return image.Rect(x, y, x+ts.TileWidth, y+ts.TileHeight), true
}

func (ts *TileSet) add(t *Tile) bool {
	if ts.tiles == nil {
		ts.tiles = make(map[int]*Tile)
	}
	if _, dup := ts.tiles[t.ID]; dup {
		return false
	}
	ts.tiles[t.ID] = t
	return true
}
