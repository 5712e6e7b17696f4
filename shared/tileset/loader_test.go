package tileset

import (
	"errors"
	"strings"
	"testing"

	"github.com/automoto/tilegeom/shared/gamemath"
	"github.com/google/go-cmp/cmp"
)

func loadShipped(t *testing.T, opts ...LoaderOption) *TileSet {
	t.Helper()
	ts, err := LoadFile("testdata/tiles.tsx", opts...)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	return ts
}

func TestLoadFile_ShippedTileset(t *testing.T) {
	ts := loadShipped(t)

	if ts.Name != "tiles" {
		t.Errorf("Name = %q, want tiles", ts.Name)
	}
	if ts.TileWidth != 32 || ts.TileHeight != 32 {
		t.Errorf("tile size = %dx%d, want 32x32", ts.TileWidth, ts.TileHeight)
	}
	if ts.TileCount != 64 || ts.Columns != 8 {
		t.Errorf("tilecount=%d columns=%d, want 64 and 8", ts.TileCount, ts.Columns)
	}
	if ts.Rows() != 8 {
		t.Errorf("Rows() = %d, want 8", ts.Rows())
	}
	if ts.Version != "1.10" || ts.TiledVersion != "1.11.2" {
		t.Errorf("versions = %q/%q", ts.Version, ts.TiledVersion)
	}
	if got := ts.ImageReference(); got != "../tiles.png" {
		t.Errorf("ImageReference() = %q, want ../tiles.png", got)
	}
	if ts.Image.Width != 256 || ts.Image.Height != 256 {
		t.Errorf("image size = %dx%d, want 256x256", ts.Image.Width, ts.Image.Height)
	}
	if ts.Len() != 30 {
		t.Errorf("Len() = %d, want 30", ts.Len())
	}
}

func TestShapesFor_Tile0(t *testing.T) {
	ts := loadShipped(t)

	want := []Shape{{
		ObjectID: 1,
		Kind:     KindPolygon,
		Anchor:   Point{X: 0, Y: 11},
		Points:   []Point{{X: 0, Y: 0}, {X: 32, Y: 0}, {X: 32, Y: -5}, {X: 0, Y: -5}},
	}}
	if diff := cmp.Diff(want, ts.ShapesFor(0)); diff != "" {
		t.Errorf("ShapesFor(0) mismatch (-want +got):\n%s", diff)
	}

	tile, ok := ts.Tile(0)
	if !ok {
		t.Fatal("Tile(0) missing")
	}
	if tile.GroupID != 2 || tile.DrawOrder != "index" {
		t.Errorf("objectgroup = %d/%q, want 2/index", tile.GroupID, tile.DrawOrder)
	}
}

func TestShapesFor_MissingIDsAreEmpty(t *testing.T) {
	ts := loadShipped(t)

	for _, id := range []int{8, 9, 63, 64, 1000, -1} {
		if got := ts.ShapesFor(id); len(got) != 0 {
			t.Errorf("ShapesFor(%d) = %v, want empty", id, got)
		}
	}
}

func TestShapesFor_NonConvexNotches(t *testing.T) {
	ts := loadShipped(t)

	tests := []struct {
		id     int
		points int
		anchor Point
	}{
		{id: 27, points: 10, anchor: Point{X: 0, Y: 0}},
		{id: 5, points: 7, anchor: Point{X: 0, Y: 3}},
		{id: 35, points: 10, anchor: Point{X: 0, Y: 6}},
	}
	for _, tt := range tests {
		shapes := ts.ShapesFor(tt.id)
		if len(shapes) != 1 {
			t.Fatalf("ShapesFor(%d) returned %d shapes, want 1", tt.id, len(shapes))
		}
		s := shapes[0]
		if len(s.Points) != tt.points {
			t.Errorf("tile %d: %d points, want %d", tt.id, len(s.Points), tt.points)
		}
		if s.Anchor != tt.anchor {
			t.Errorf("tile %d: anchor %v, want %v", tt.id, s.Anchor, tt.anchor)
		}
		if gamemath.IsConvex(s.Points) {
			t.Errorf("tile %d: polygon reported convex", tt.id)
		}
	}
}

func TestShapesFor_EveryPolygonHasThreePoints(t *testing.T) {
	ts := loadShipped(t)

	for _, id := range ts.IDs() {
		for i, s := range ts.ShapesFor(id) {
			if len(s.Points) < 3 {
				t.Errorf("tile %d shape %d has %d points", id, i, len(s.Points))
			}
		}
	}
}

func TestShape_AbsoluteAndBounds(t *testing.T) {
	ts := loadShipped(t)

	s := ts.ShapesFor(0)[0]
	want := []Point{{X: 0, Y: 11}, {X: 32, Y: 11}, {X: 32, Y: 6}, {X: 0, Y: 6}}
	if diff := cmp.Diff(want, s.Absolute()); diff != "" {
		t.Errorf("Absolute() mismatch (-want +got):\n%s", diff)
	}
	if got, want := s.Bounds(), (gamemath.Rect{X: 0, Y: 6, W: 32, H: 5}); got != want {
		t.Errorf("Bounds() = %+v, want %+v", got, want)
	}
}

func TestIDs_Sorted(t *testing.T) {
	ts := loadShipped(t)

	ids := ts.IDs()
	for i := 1; i < len(ids); i++ {
		if ids[i-1] >= ids[i] {
			t.Fatalf("IDs() not ascending at %d: %v", i, ids)
		}
	}
	if ids[0] != 0 || ids[len(ids)-1] != 47 {
		t.Errorf("IDs() range = %d..%d, want 0..47", ids[0], ids[len(ids)-1])
	}
}

func TestTileRect(t *testing.T) {
	ts := loadShipped(t)

	r, ok := ts.TileRect(27)
	if !ok {
		t.Fatal("TileRect(27) not ok")
	}
	if r.Min.X != 96 || r.Min.Y != 96 || r.Dx() != 32 || r.Dy() != 32 {
		t.Errorf("TileRect(27) = %v", r)
	}
	if _, ok := ts.TileRect(64); ok {
		t.Error("TileRect(64) should be out of range")
	}
}

func TestLoadFile_StrictGrid(t *testing.T) {
	loadShipped(t, WithStrictGrid())

	doc := `<tileset name="t" tilewidth="32" tileheight="32" tilecount="10" columns="4">
 <image source="t.png" width="128" height="96"/>
</tileset>`
	if _, err := LoadBytes([]byte(doc)); err != nil {
		t.Fatalf("lenient load failed: %v", err)
	}
	_, err := LoadBytes([]byte(doc), WithStrictGrid())
	if !errors.Is(err, ErrSchemaViolation) {
		t.Fatalf("strict load err = %v, want ErrSchemaViolation", err)
	}
}

func TestLoadBytes_RectangleAndMetadata(t *testing.T) {
	doc := `<tileset name="t" tilewidth="16" tileheight="16" tilecount="4" columns="2">
 <image source="t.png" width="32" height="32"/>
 <tile id="3" class="ramp">
  <properties>
   <property name="slope" value="45_up_left"/>
   <property name="friction" type="float" value="0.5"/>
  </properties>
  <objectgroup draworder="topdown" id="4">
   <object id="7" name="lip" type="ledge" x="2" y="3" width="12" height="4"/>
   <object id="8" x="0.5" y="1.25">
    <polygon points="0,0 4.5,0 4.5,-2.75"/>
   </object>
  </objectgroup>
 </tile>
</tileset>`

	ts, err := LoadBytes([]byte(doc))
	if err != nil {
		t.Fatalf("LoadBytes failed: %v", err)
	}

	tile, ok := ts.Tile(3)
	if !ok {
		t.Fatal("Tile(3) missing")
	}
	if tile.Type != "ramp" {
		t.Errorf("Type = %q, want ramp (from class)", tile.Type)
	}
	if v, ok := tile.Property("slope"); !ok || v != "45_up_left" {
		t.Errorf("slope property = %q, %v", v, ok)
	}
	if _, ok := tile.Property("missing"); ok {
		t.Error("unexpected property found")
	}

	want := []Shape{
		{
			ObjectID: 7, Name: "lip", Type: "ledge", Kind: KindRectangle,
			Anchor: Point{X: 2, Y: 3},
			Points: []Point{{X: 0, Y: 0}, {X: 12, Y: 0}, {X: 12, Y: 4}, {X: 0, Y: 4}},
		},
		{
			ObjectID: 8, Kind: KindPolygon,
			Anchor: Point{X: 0.5, Y: 1.25},
			Points: []Point{{X: 0, Y: 0}, {X: 4.5, Y: 0}, {X: 4.5, Y: -2.75}},
		},
	}
	if diff := cmp.Diff(want, ts.ShapesFor(3)); diff != "" {
		t.Errorf("ShapesFor(3) mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Errors(t *testing.T) {
	const head = `<tileset name="t" tilewidth="32" tileheight="32" tilecount="4" columns="2"><image source="t.png" width="64" height="64"/>`
	poly := func(id, points string) string {
		return `<tile id="` + id + `"><objectgroup><object id="1" x="0" y="0"><polygon points="` + points + `"/></object></objectgroup></tile>`
	}

	tests := []struct {
		name string
		doc  string
		want error
		path string
	}{
		{name: "empty", doc: "", want: ErrMalformedInput},
		{name: "plain text", doc: "not a tileset", want: ErrMalformedInput},
		{name: "truncated", doc: `<tileset name="t"`, want: ErrMalformedInput},
		{name: "mismatched tags", doc: `<tileset></map>`, want: ErrMalformedInput},
		{name: "wrong root", doc: `<map width="1"/>`, want: ErrSchemaViolation, path: "/"},
		{name: "junk after root", doc: head + `</tileset><<<not xml`, want: ErrMalformedInput},
		{name: "unterminated second root", doc: head + `</tileset><tileset`, want: ErrMalformedInput},
		{name: "second root", doc: head + `</tileset><tileset/>`, want: ErrMalformedInput},
		{name: "text after root", doc: head + `</tileset>trailing`, want: ErrMalformedInput},
		{
			name: "undecodable charset",
			doc:  `<?xml version="1.0" encoding="ISO-8859-1"?>` + head + `</tileset>`,
			want: ErrMalformedInput,
		},
		{
			name: "missing tilewidth",
			doc:  `<tileset tileheight="32" tilecount="4" columns="2"><image source="t.png" width="64" height="64"/></tileset>`,
			want: ErrSchemaViolation, path: "tileset@tilewidth",
		},
		{
			name: "non-numeric tilecount",
			doc:  `<tileset tilewidth="32" tileheight="32" tilecount="sixty" columns="2"><image source="t.png" width="64" height="64"/></tileset>`,
			want: ErrSchemaViolation, path: "tileset@tilecount",
		},
		{
			name: "zero columns",
			doc:  `<tileset tilewidth="32" tileheight="32" tilecount="4" columns="0"><image source="t.png" width="64" height="64"/></tileset>`,
			want: ErrSchemaViolation, path: "tileset@columns",
		},
		{
			name: "missing image",
			doc:  `<tileset tilewidth="32" tileheight="32" tilecount="4" columns="2"></tileset>`,
			want: ErrSchemaViolation, path: "tileset/image",
		},
		{
			name: "missing image source",
			doc:  `<tileset tilewidth="32" tileheight="32" tilecount="4" columns="2"><image width="64" height="64"/></tileset>`,
			want: ErrSchemaViolation, path: "tileset/image@source",
		},
		{
			name: "non-numeric image width",
			doc:  `<tileset tilewidth="32" tileheight="32" tilecount="4" columns="2"><image source="t.png" width="wide" height="64"/></tileset>`,
			want: ErrSchemaViolation, path: "tileset/image@width",
		},
		{name: "two points", doc: head + poly("0", "0,0 1,1") + `</tileset>`, want: ErrSchemaViolation, path: "tile[0]/object#0"},
		{name: "bad pair", doc: head + poly("0", "0,0 1 2,2") + `</tileset>`, want: ErrSchemaViolation, path: "tile[0]/object#0/polygon@points"},
		{name: "bad number", doc: head + poly("0", "0,0 1,x 2,2") + `</tileset>`, want: ErrSchemaViolation, path: "tile[0]/object#0/polygon@points"},
		{name: "duplicate id", doc: head + poly("1", "0,0 1,0 1,1") + poly("1", "0,0 2,0 2,2") + `</tileset>`, want: ErrSchemaViolation, path: "tile[1]"},
		{name: "id at tilecount", doc: head + poly("4", "0,0 1,0 1,1") + `</tileset>`, want: ErrSchemaViolation, path: "tile[4]"},
		{name: "negative id", doc: head + poly("-1", "0,0 1,0 1,1") + `</tileset>`, want: ErrSchemaViolation, path: "tile[-1]"},
		{name: "missing id", doc: head + `<tile/></tileset>`, want: ErrSchemaViolation, path: "tile#0@id"},
		{
			name: "ellipse",
			doc:  head + `<tile id="0"><objectgroup><object id="1" x="0" y="0" width="4" height="4"><ellipse/></object></objectgroup></tile></tileset>`,
			want: ErrSchemaViolation, path: "tile[0]/object#0",
		},
		{
			name: "polyline",
			doc:  head + `<tile id="0"><objectgroup><object id="1" x="0" y="0"><polyline points="0,0 1,1 2,0"/></object></objectgroup></tile></tileset>`,
			want: ErrSchemaViolation, path: "tile[0]/object#0",
		},
		{
			name: "sizeless object",
			doc:  head + `<tile id="0"><objectgroup><object id="1" x="3" y="3"/></objectgroup></tile></tileset>`,
			want: ErrSchemaViolation, path: "tile[0]/object#0",
		},
		{
			name: "two objectgroups",
			doc:  head + `<tile id="0"><objectgroup/><objectgroup/></tile></tileset>`,
			want: ErrSchemaViolation, path: "tile[0]",
		},
		{
			name: "non-numeric anchor",
			doc:  head + `<tile id="0"><objectgroup><object id="1" x="left" y="0"><polygon points="0,0 1,0 1,1"/></object></objectgroup></tile></tileset>`,
			want: ErrSchemaViolation, path: "tile[0]/object#0@x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, err := LoadBytes([]byte(tt.doc))
			if ts != nil {
				t.Errorf("got a TileSet alongside error %v", err)
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if tt.path == "" {
				return
			}
			var se *SchemaError
			if !errors.As(err, &se) {
				t.Fatalf("err = %T, want *SchemaError", err)
			}
			if se.Path != tt.path {
				t.Errorf("Path = %q, want %q (reason: %s)", se.Path, tt.path, se.Reason)
			}
		})
	}
}

func TestLoad_TrailingMiscIsAllowed(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<tileset name="t" tilewidth="32" tileheight="32" tilecount="4" columns="2"><image source="t.png" width="64" height="64"/></tileset>
<!-- exported by hand -->
<?editor keep?>

`
	ts, err := LoadBytes([]byte(doc))
	if err != nil {
		t.Fatalf("LoadBytes failed: %v", err)
	}
	if ts.Name != "t" {
		t.Errorf("Name = %q, want t", ts.Name)
	}
}

func TestLoad_MalformedIsNotSchema(t *testing.T) {
	_, err := LoadBytes([]byte("<tileset"))
	if errors.Is(err, ErrSchemaViolation) {
		t.Errorf("syntax error classified as schema violation: %v", err)
	}
	if !strings.Contains(err.Error(), ErrMalformedInput.Error()) {
		t.Errorf("error text %q does not mention malformed input", err)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile("testdata/nope.tsx")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if errors.Is(err, ErrMalformedInput) || errors.Is(err, ErrSchemaViolation) {
		t.Errorf("missing file misclassified: %v", err)
	}
}
