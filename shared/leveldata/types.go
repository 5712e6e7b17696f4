// Package leveldata places tileset collision shapes into TMX levels.
// It has no dependencies on a renderer or physics engine; pure data only.
package leveldata

import "github.com/automoto/tilegeom/shared/gamemath"

// CollisionData holds all collision-relevant data parsed from a TMX level file.
type CollisionData struct {
	Shapes     []WorldShape
	MapWidth   int
	MapHeight  int
	TileWidth  int
	TileHeight int
}

// WorldShape is one tileset collision polygon placed in the level.
type WorldShape struct {
	TileX, TileY int    // Cell in the collision layer
	TileID       int    // Local id within Tileset
	Tileset      string // Tileset name
	Slope        string // Value of the slope property, "" if none
	Points       []gamemath.Point
}

// Bounds returns the shape's axis-aligned box in world space.
func (s WorldShape) Bounds() gamemath.Rect {
	return gamemath.Bounds(s.Points)
}
