// Package overlay draws a tileset's collision shapes on top of its tile grid
// so authors can eyeball the geometry without opening Tiled.
package overlay

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/automoto/tilegeom/config"
	"github.com/automoto/tilegeom/shared/gamemath"
	"github.com/automoto/tilegeom/shared/tileset"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

// Options controls a render. Zero fields fall back to config.Overlay.
type Options struct {
	Background image.Image // Tileset image, scaled to fit under the shapes
	Scale      int
	Fill       color.Color
	Outline    color.Color
	Grid       color.Color
	Stroke     float32
}

func (o Options) withDefaults() Options {
	if o.Scale <= 0 {
		o.Scale = config.Overlay.Scale
	}
	if o.Fill == nil {
		o.Fill = config.Overlay.Fill
	}
	if o.Outline == nil {
		o.Outline = config.Overlay.Outline
	}
	if o.Grid == nil {
		o.Grid = config.Overlay.Grid
	}
	if o.Stroke <= 0 {
		o.Stroke = config.Overlay.Stroke
	}
	return o
}

// Render returns an image of the tile grid with every collision shape
// filled and outlined at its tile's position.
func Render(ts *tileset.TileSet, opts Options) *image.RGBA {
	opts = opts.withDefaults()
	scale := float64(opts.Scale)
	w := ts.Columns * ts.TileWidth * opts.Scale
	h := ts.Rows() * ts.TileHeight * opts.Scale
	dst := image.NewRGBA(image.Rect(0, 0, w, h))

	if opts.Background != nil {
		xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), opts.Background, opts.Background.Bounds(), xdraw.Over, nil)
	}
	drawGrid(dst, ts, opts)

	r := vector.NewRasterizer(w, h)
	fill := image.NewUniform(opts.Fill)
	outline := image.NewUniform(opts.Outline)
	for _, id := range ts.IDs() {
		cell, ok := ts.TileRect(id)
		if !ok {
			continue
		}
		origin := gamemath.Point{X: float64(cell.Min.X), Y: float64(cell.Min.Y)}
		for _, s := range ts.ShapesFor(id) {
			pts := make([]gamemath.Point, 0, len(s.Points))
			for _, p := range s.Absolute() {
				p = p.Add(origin)
				pts = append(pts, gamemath.Point{X: p.X * scale, Y: p.Y * scale})
			}
			fillPolygon(r, dst, fill, pts)
			strokePolygon(r, dst, outline, pts, float64(opts.Stroke))
		}
	}
	return dst
}

// WritePNG encodes img as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode overlay: %w", err)
	}
	return nil
}

func drawGrid(dst *image.RGBA, ts *tileset.TileSet, opts Options) {
	b := dst.Bounds()
	src := image.NewUniform(opts.Grid)
	stepX := ts.TileWidth * opts.Scale
	stepY := ts.TileHeight * opts.Scale
	for x := stepX; x < b.Dx(); x += stepX {
		draw.Draw(dst, image.Rect(x, 0, x+1, b.Dy()), src, image.Point{}, draw.Over)
	}
	for y := stepY; y < b.Dy(); y += stepY {
		draw.Draw(dst, image.Rect(0, y, b.Dx(), y+1), src, image.Point{}, draw.Over)
	}
}

func fillPolygon(r *vector.Rasterizer, dst *image.RGBA, src image.Image, pts []gamemath.Point) {
	b := dst.Bounds()
	// Overhanging shapes may leave the canvas.
	pts = gamemath.ClipToRect(pts, gamemath.Rect{W: float64(b.Dx()), H: float64(b.Dy())})
	if len(pts) < 3 {
		return
	}
	r.Reset(b.Dx(), b.Dy())
	for i, p := range pts {
		x, y := float32(p.X), float32(p.Y)
		if i == 0 {
			r.MoveTo(x, y)
			continue
		}
		r.LineTo(x, y)
	}
	r.ClosePath()
	r.Draw(dst, b, src, image.Point{})
}

// strokePolygon outlines pts by filling a thin quad along every edge.
func strokePolygon(r *vector.Rasterizer, dst *image.RGBA, src image.Image, pts []gamemath.Point, width float64) {
	half := width / 2
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		dx, dy := b.X-a.X, b.Y-a.Y
		length := math.Hypot(dx, dy)
		if length == 0 {
			continue
		}
		nx, ny := -dy/length*half, dx/length*half
		fillPolygon(r, dst, src, []gamemath.Point{
			{X: a.X + nx, Y: a.Y + ny},
			{X: b.X + nx, Y: b.Y + ny},
			{X: b.X - nx, Y: b.Y - ny},
			{X: a.X - nx, Y: a.Y - ny},
		})
	}
}
