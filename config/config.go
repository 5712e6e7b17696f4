package config

import "image/color"

// LoaderConfig contains tileset loading defaults
type LoaderConfig struct {
	StrictGrid bool // Require tilecount to fill whole rows and fit the image
}

// CollisionConfig contains level placement and collision world settings
type CollisionConfig struct {
	Layer     string // Tile layer whose tiles carry collision shapes
	LevelsDir string // Directory scanned for .tmx levels
	CellSize  int    // resolv space cell size in pixels
	SolidTag  string // resolv tag on every collision object
	SlopeProp string // Tile property naming a slope direction
}

// OverlayConfig contains debug overlay rendering settings
type OverlayConfig struct {
	Fill    color.RGBA
	Outline color.RGBA
	Grid    color.RGBA
	Scale   int     // Output pixels per tileset pixel
	Stroke  float32 // Outline width in output pixels
}

// Global configuration instances
var Loader LoaderConfig
var Collision CollisionConfig
var Overlay OverlayConfig

// Shared RGBA color constants
var (
	Red            = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	TranslucentRed = color.RGBA{R: 255, G: 60, B: 60, A: 110}
	GridGray       = color.RGBA{R: 128, G: 128, B: 128, A: 90}
)

func init() {
	Loader = LoaderConfig{
		StrictGrid: false,
	}

	Collision = CollisionConfig{
		Layer:     "collision",
		LevelsDir: "levels",
		CellSize:  16,
		SolidTag:  "solid",
		SlopeProp: "slope",
	}

	Overlay = OverlayConfig{
		Fill:    TranslucentRed,
		Outline: Red,
		Grid:    GridGray,
		Scale:   2,
		Stroke:  1,
	}
}
