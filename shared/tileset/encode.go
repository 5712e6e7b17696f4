package tileset

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"

	"github.com/automoto/tilegeom/shared/gamemath"
)

// Encode writes ts in the .tsx layout Tiled produces. Decoding the output
// yields a TileSet equal to ts.
func Encode(w io.Writer, ts *TileSet) error {
	doc := xmlTileset{
		XMLName:      xml.Name{Local: "tileset"},
		Version:      ts.Version,
		TiledVersion: ts.TiledVersion,
		Name:         ts.Name,
		TileWidth:    strconv.Itoa(ts.TileWidth),
		TileHeight:   strconv.Itoa(ts.TileHeight),
		TileCount:    strconv.Itoa(ts.TileCount),
		Columns:      strconv.Itoa(ts.Columns),
		Image: &xmlImage{
			Source: ts.Image.Source,
			Width:  strconv.Itoa(ts.Image.Width),
			Height: strconv.Itoa(ts.Image.Height),
		},
	}

	for _, id := range ts.IDs() {
		doc.Tiles = append(doc.Tiles, encodeTile(ts.tiles[id]))
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("encode tileset: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", " ")
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("encode tileset: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode tileset: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func encodeTile(t *Tile) xmlTile {
	x := xmlTile{
		ID:   strconv.Itoa(t.ID),
		Type: t.Type,
	}
	for _, p := range t.Properties {
		x.Properties = append(x.Properties, xmlProperty(p))
	}
	if len(t.Shapes) == 0 && t.GroupID == 0 && t.DrawOrder == "" {
		return x
	}

	group := xmlObjectGroup{DrawOrder: t.DrawOrder}
	if t.GroupID != 0 {
		group.ID = strconv.Itoa(t.GroupID)
	}
	for _, s := range t.Shapes {
		group.Objects = append(group.Objects, encodeShape(s))
	}
	x.ObjectGroups = []xmlObjectGroup{group}
	return x
}

func encodeShape(s Shape) xmlObject {
	o := xmlObject{
		Name: s.Name,
		Type: s.Type,
		X:    formatCoord(s.Anchor.X),
		Y:    formatCoord(s.Anchor.Y),
	}
	if s.ObjectID != 0 {
		o.ID = strconv.Itoa(s.ObjectID)
	}
	if s.Kind == KindRectangle {
		b := gamemath.Bounds(s.Points)
		o.Width = formatCoord(b.W)
		o.Height = formatCoord(b.H)
		return o
	}
	o.Polygons = []xmlPolygon{{Points: FormatPoints(s.Points)}}
	return o
}
