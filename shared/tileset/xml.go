package tileset

import "encoding/xml"

// The xml* types mirror the .tsx layout with every attribute kept as a
// string, so a missing attribute can be told apart from a zero and a
// non-numeric value surfaces as a schema violation instead of a parse error.

type xmlTileset struct {
	XMLName      xml.Name
	Version      string    `xml:"version,attr,omitempty"`
	TiledVersion string    `xml:"tiledversion,attr,omitempty"`
	Name         string    `xml:"name,attr"`
	TileWidth    string    `xml:"tilewidth,attr"`
	TileHeight   string    `xml:"tileheight,attr"`
	TileCount    string    `xml:"tilecount,attr"`
	Columns      string    `xml:"columns,attr"`
	Image        *xmlImage `xml:"image"`
	Tiles        []xmlTile `xml:"tile"`
}

type xmlImage struct {
	Source string `xml:"source,attr"`
	Width  string `xml:"width,attr"`
	Height string `xml:"height,attr"`
}

type xmlTile struct {
	ID           string           `xml:"id,attr"`
	Type         string           `xml:"type,attr,omitempty"`
	Class        string           `xml:"class,attr,omitempty"`
	Properties   []xmlProperty    `xml:"properties>property,omitempty"`
	ObjectGroups []xmlObjectGroup `xml:"objectgroup"`
}

type xmlProperty struct {
	Name  string `xml:"name,attr"`
	Type  string `xml:"type,attr,omitempty"`
	Value string `xml:"value,attr"`
}

type xmlObjectGroup struct {
	DrawOrder string      `xml:"draworder,attr,omitempty"`
	ID        string      `xml:"id,attr,omitempty"`
	Objects   []xmlObject `xml:"object"`
}

type xmlObject struct {
	ID        string       `xml:"id,attr,omitempty"`
	Name      string       `xml:"name,attr,omitempty"`
	Type      string       `xml:"type,attr,omitempty"`
	Class     string       `xml:"class,attr,omitempty"`
	X         string       `xml:"x,attr"`
	Y         string       `xml:"y,attr"`
	Width     string       `xml:"width,attr,omitempty"`
	Height    string       `xml:"height,attr,omitempty"`
	Ellipse   *struct{}    `xml:"ellipse"`
	Point     *struct{}    `xml:"point"`
	Polygons  []xmlPolygon `xml:"polygon"`
	Polylines []xmlPolygon `xml:"polyline"`
}

type xmlPolygon struct {
	Points string `xml:"points,attr"`
}
