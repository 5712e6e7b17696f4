package tileset

import (
	"fmt"

	"github.com/lafriks/go-tiled"
)

// FromTiled converts a tileset already decoded by go-tiled, typically one
// embedded in a map, applying the same validation as Decode.
func FromTiled(src *tiled.Tileset, opts ...LoaderOption) (*TileSet, error) {
	l := newLoader(opts)

	ts := &TileSet{
		Version:      src.Version,
		TiledVersion: src.TiledVersion,
		Name:         src.Name,
		TileWidth:    src.TileWidth,
		TileHeight:   src.TileHeight,
		TileCount:    src.TileCount,
		Columns:      src.Columns,
	}
	if src.Image == nil || src.Image.Source == "" {
		return nil, schemaErr("tileset/image", "missing")
	}
	ts.Image = Image{
		Source: src.Image.Source,
		Width:  src.Image.Width,
		Height: src.Image.Height,
	}

	for _, st := range src.Tiles {
		t := &Tile{ID: int(st.ID), Type: st.Type}
		if t.Type == "" {
			t.Type = st.Class
		}
		path := fmt.Sprintf("tile[%d]", t.ID)
		for _, p := range st.Properties {
			t.Properties = append(t.Properties, Property{Name: p.Name, Type: p.Type, Value: p.Value})
		}

		if len(st.ObjectGroups) > 1 {
			return nil, schemaErr(path, "%d objectgroups, want at most one", len(st.ObjectGroups))
		}
		for _, og := range st.ObjectGroups {
			t.GroupID = int(og.ID)
			t.DrawOrder = og.DrawOrder
			for i, o := range og.Objects {
				s, err := shapeFromTiled(fmt.Sprintf("%s/object#%d", path, i), o)
				if err != nil {
					return nil, err
				}
				t.Shapes = append(t.Shapes, s)
			}
		}

		if !ts.add(t) {
			return nil, schemaErr(path, "duplicate tile id")
		}
	}

	if err := validate(ts, l.strictGrid); err != nil {
		return nil, err
	}
	l.log.Debug().
		Str("component", "tileset").
		Str("name", ts.Name).
		Int("entries", ts.Len()).
		Msg("converted embedded tileset")
	return ts, nil
}

func shapeFromTiled(path string, o *tiled.Object) (Shape, error) {
	s := Shape{
		ObjectID: int(o.ID),
		Name:     o.Name,
		Type:     o.Class,
		Anchor:   Point{X: o.X, Y: o.Y},
	}
	if s.Type == "" {
		s.Type = o.Type //nolint:staticcheck // older TSX files use type=
	}

	switch {
	case len(o.Ellipses) > 0:
		return Shape{}, schemaErr(path, "ellipse collision shapes are not supported")
	case len(o.PolyLines) > 0:
		return Shape{}, schemaErr(path, "polylines are open and cannot be collision shapes")
	case len(o.Polygons) > 1:
		return Shape{}, schemaErr(path, "%d polygons, want one", len(o.Polygons))
	case len(o.Polygons) == 1:
		s.Kind = KindPolygon
		if pts := o.Polygons[0].Points; pts != nil {
			for _, p := range *pts {
				s.Points = append(s.Points, Point{X: p.X, Y: p.Y})
			}
		}
		return s, nil
	}

	if o.Width <= 0 || o.Height <= 0 {
		return Shape{}, schemaErr(path, "object has neither a polygon nor a positive size")
	}
	s.Kind = KindRectangle
	s.Points = rectPoints(o.Width, o.Height)
	return s, nil
}
