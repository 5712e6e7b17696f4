package tileset

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"

	"github.com/automoto/tilegeom/config"
	"github.com/rs/zerolog"
)

// LoaderOption customises a single load.
type LoaderOption func(*loader)

type loader struct {
	fsys       fs.FS
	strictGrid bool
	log        zerolog.Logger
}

// WithFileSystem makes LoadFile read from fsys instead of the OS.
func WithFileSystem(fsys fs.FS) LoaderOption {
	return func(l *loader) {
		l.fsys = fsys
	}
}

// WithStrictGrid requires tilecount to fill whole rows of the grid and the
// image to be large enough to hold every tile.
func WithStrictGrid() LoaderOption {
	return func(l *loader) {
		l.strictGrid = true
	}
}

// WithLogger sets the logger used for load diagnostics.
func WithLogger(log zerolog.Logger) LoaderOption {
	return func(l *loader) {
		l.log = log
	}
}

func newLoader(opts []LoaderOption) *loader {
	l := &loader{
		strictGrid: config.Loader.StrictGrid,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadFile reads and parses the tileset at path.
func LoadFile(path string, opts ...LoaderOption) (*TileSet, error) {
	l := newLoader(opts)

	var (
		f   io.ReadCloser
		err error
	)
	if l.fsys != nil {
		f, err = l.fsys.Open(path)
	} else {
		f, err = os.Open(path)
	}
	if err != nil {
		return nil, fmt.Errorf("open tileset %s: %w", path, err)
	}
	defer f.Close()

	ts, err := l.decode(f)
	if err != nil {
		return nil, fmt.Errorf("load tileset %s: %w", path, err)
	}
	return ts, nil
}

// LoadBytes parses an in-memory tileset document.
func LoadBytes(data []byte, opts ...LoaderOption) (*TileSet, error) {
	return Decode(bytes.NewReader(data), opts...)
}

// Decode parses a tileset document from r. Nothing is returned unless the
// whole document is valid.
func Decode(r io.Reader, opts ...LoaderOption) (*TileSet, error) {
	return newLoader(opts).decode(r)
}

func (l *loader) decode(r io.Reader) (*TileSet, error) {
	var doc xmlTileset
	dec := xml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, malformed(err)
	}
	if err := checkTrailing(dec); err != nil {
		return nil, err
	}
	if doc.XMLName.Local != "tileset" {
		return nil, schemaErr("/", "root element is <%s>, want <tileset>", doc.XMLName.Local)
	}

	ts, err := build(&doc)
	if err != nil {
		return nil, err
	}
	if err := validate(ts, l.strictGrid); err != nil {
		return nil, err
	}

	l.log.Debug().
		Str("component", "tileset").
		Str("name", ts.Name).
		Int("tilecount", ts.TileCount).
		Int("entries", ts.Len()).
		Msg("loaded tileset")
	return ts, nil
}

// checkTrailing reads the rest of the document. Only whitespace, comments
// and processing instructions may follow the root element.
func checkTrailing(dec *xml.Decoder) error {
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return malformed(err)
		}
		switch tok := tok.(type) {
		case xml.Comment, xml.ProcInst:
		case xml.CharData:
			if len(bytes.TrimSpace(tok)) > 0 {
				return malformed(fmt.Errorf("text %q after root element", bytes.TrimSpace(tok)))
			}
		case xml.StartElement:
			return malformed(fmt.Errorf("second root element <%s>", tok.Name.Local))
		default:
			return malformed(fmt.Errorf("unexpected %T after root element", tok))
		}
	}
}

func build(doc *xmlTileset) (*TileSet, error) {
	ts := &TileSet{
		Version:      doc.Version,
		TiledVersion: doc.TiledVersion,
		Name:         doc.Name,
	}

	var err error
	if ts.TileWidth, err = requiredInt("tileset@tilewidth", doc.TileWidth); err != nil {
		return nil, err
	}
	if ts.TileHeight, err = requiredInt("tileset@tileheight", doc.TileHeight); err != nil {
		return nil, err
	}
	if ts.TileCount, err = requiredInt("tileset@tilecount", doc.TileCount); err != nil {
		return nil, err
	}
	if ts.Columns, err = requiredInt("tileset@columns", doc.Columns); err != nil {
		return nil, err
	}

	if doc.Image == nil {
		return nil, schemaErr("tileset/image", "missing")
	}
	if doc.Image.Source == "" {
		return nil, schemaErr("tileset/image@source", "missing")
	}
	ts.Image.Source = doc.Image.Source
	if ts.Image.Width, err = requiredInt("tileset/image@width", doc.Image.Width); err != nil {
		return nil, err
	}
	if ts.Image.Height, err = requiredInt("tileset/image@height", doc.Image.Height); err != nil {
		return nil, err
	}

	for i := range doc.Tiles {
		t, err := buildTile(i, &doc.Tiles[i])
		if err != nil {
			return nil, err
		}
		if !ts.add(t) {
			return nil, schemaErr(fmt.Sprintf("tile[%d]", t.ID), "duplicate tile id")
		}
	}
	return ts, nil
}

func buildTile(index int, x *xmlTile) (*Tile, error) {
	id, err := requiredInt(fmt.Sprintf("tile#%d@id", index), x.ID)
	if err != nil {
		return nil, err
	}
	path := fmt.Sprintf("tile[%d]", id)

	t := &Tile{ID: id, Type: x.Type}
	if t.Type == "" {
		t.Type = x.Class
	}
	for _, p := range x.Properties {
		if p.Name == "" {
			return nil, schemaErr(path+"/property@name", "missing")
		}
		t.Properties = append(t.Properties, Property(p))
	}

	switch len(x.ObjectGroups) {
	case 0:
		return t, nil
	case 1:
	default:
		return nil, schemaErr(path, "%d objectgroups, want at most one", len(x.ObjectGroups))
	}

	group := &x.ObjectGroups[0]
	if t.GroupID, err = optionalInt(path+"/objectgroup@id", group.ID); err != nil {
		return nil, err
	}
	t.DrawOrder = group.DrawOrder
	for i := range group.Objects {
		s, err := buildShape(fmt.Sprintf("%s/object#%d", path, i), &group.Objects[i])
		if err != nil {
			return nil, err
		}
		t.Shapes = append(t.Shapes, s)
	}
	return t, nil
}

func buildShape(path string, o *xmlObject) (Shape, error) {
	s := Shape{Name: o.Name, Type: o.Type}
	if s.Type == "" {
		s.Type = o.Class
	}

	var err error
	if s.ObjectID, err = optionalInt(path+"@id", o.ID); err != nil {
		return Shape{}, err
	}
	if s.Anchor.X, err = optionalFloat(path+"@x", o.X); err != nil {
		return Shape{}, err
	}
	if s.Anchor.Y, err = optionalFloat(path+"@y", o.Y); err != nil {
		return Shape{}, err
	}

	switch {
	case o.Ellipse != nil:
		return Shape{}, schemaErr(path, "ellipse collision shapes are not supported")
	case o.Point != nil:
		return Shape{}, schemaErr(path, "point objects carry no collision area")
	case len(o.Polylines) > 0:
		return Shape{}, schemaErr(path, "polylines are open and cannot be collision shapes")
	case len(o.Polygons) > 1:
		return Shape{}, schemaErr(path, "%d polygons, want one", len(o.Polygons))
	case len(o.Polygons) == 1:
		s.Kind = KindPolygon
		s.Points, err = ParsePoints(o.Polygons[0].Points)
		if err != nil {
			return Shape{}, schemaErr(path+"/polygon@points", "%v", err)
		}
		return s, nil
	}

	// Plain objects are rectangles.
	w, err := optionalFloat(path+"@width", o.Width)
	if err != nil {
		return Shape{}, err
	}
	h, err := optionalFloat(path+"@height", o.Height)
	if err != nil {
		return Shape{}, err
	}
	if w <= 0 || h <= 0 {
		return Shape{}, schemaErr(path, "object has neither a polygon nor a positive size")
	}
	s.Kind = KindRectangle
	s.Points = rectPoints(w, h)
	return s, nil
}

func rectPoints(w, h float64) []Point {
	return []Point{{X: 0, Y: 0}, {X: w, Y: 0}, {X: w, Y: h}, {X: 0, Y: h}}
}

// validate checks the rules shared by every way of building a TileSet.
func validate(ts *TileSet, strictGrid bool) error {
	if ts.TileWidth <= 0 {
		return schemaErr("tileset@tilewidth", "must be positive, got %d", ts.TileWidth)
	}
	if ts.TileHeight <= 0 {
		return schemaErr("tileset@tileheight", "must be positive, got %d", ts.TileHeight)
	}
	if ts.TileCount < 0 {
		return schemaErr("tileset@tilecount", "must not be negative, got %d", ts.TileCount)
	}
	if ts.Columns <= 0 {
		return schemaErr("tileset@columns", "must be positive, got %d", ts.Columns)
	}
	if ts.Image.Width < 0 || ts.Image.Height < 0 {
		return schemaErr("tileset/image", "negative size %dx%d", ts.Image.Width, ts.Image.Height)
	}

	if strictGrid {
		if ts.TileCount%ts.Columns != 0 {
			return schemaErr("tileset@tilecount", "%d does not fill %d columns", ts.TileCount, ts.Columns)
		}
		needW, needH := ts.Columns*ts.TileWidth, ts.Rows()*ts.TileHeight
		if ts.Image.Width < needW || ts.Image.Height < needH {
			return schemaErr("tileset/image", "%dx%d cannot hold a %dx%d grid",
				ts.Image.Width, ts.Image.Height, needW, needH)
		}
	}

	for _, id := range ts.IDs() {
		path := fmt.Sprintf("tile[%d]", id)
		if id < 0 {
			return schemaErr(path, "negative tile id")
		}
		if id >= ts.TileCount {
			return schemaErr(path, "id out of range, tilecount is %d", ts.TileCount)
		}
		for i, s := range ts.tiles[id].Shapes {
			if len(s.Points) < 3 {
				return schemaErr(fmt.Sprintf("%s/object#%d", path, i), "polygon has %d points, want at least 3", len(s.Points))
			}
		}
	}
	return nil
}

func requiredInt(path, v string) (int, error) {
	if v == "" {
		return 0, schemaErr(path, "missing")
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, schemaErr(path, "%q is not an integer", v)
	}
	return n, nil
}

func optionalInt(path, v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	return requiredInt(path, v)
}

func optionalFloat(path, v string) (float64, error) {
	if v == "" {
		return 0, nil
	}
	f, err := parseCoord(v)
	if err != nil {
		return 0, schemaErr(path, "%q is not a number", v)
	}
	return f, nil
}
