package collision

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/automoto/tilegeom/config"
	"github.com/automoto/tilegeom/shared/gamemath"
	"github.com/automoto/tilegeom/shared/leveldata"
	"github.com/rs/zerolog"
)

// Tile 0 at cell (0,0) and tile 27 at cell (2,0) of the shipped tileset.
func testLevel() *leveldata.CollisionData {
	return &leveldata.CollisionData{
		MapWidth:   128,
		MapHeight:  64,
		TileWidth:  32,
		TileHeight: 32,
		Shapes: []leveldata.WorldShape{
			{
				TileX: 0, TileID: 0, Tileset: "tiles",
				Points: []gamemath.Point{{X: 0, Y: 11}, {X: 32, Y: 11}, {X: 32, Y: 6}, {X: 0, Y: 6}},
			},
			{
				TileX: 2, TileID: 27, Tileset: "tiles", Slope: "notch",
				Points: []gamemath.Point{
					{X: 64, Y: 0}, {X: 85, Y: 0}, {X: 85, Y: 6}, {X: 96, Y: 6}, {X: 96, Y: 11},
					{X: 81, Y: 11}, {X: 81, Y: 32}, {X: 75, Y: 32}, {X: 75, Y: 6}, {X: 64, Y: 6},
				},
			},
		},
	}
}

func TestWorld_Overlapping(t *testing.T) {
	w := NewWorld(testLevel())

	tests := []struct {
		name       string
		x, y, w, h float64
		want       []int
	}{
		{name: "ledge", x: 0, y: 6, w: 4, h: 4, want: []int{0}},
		{name: "inside notch box but outside polygon", x: 68, y: 20, w: 2, h: 2},
		{name: "stem", x: 76, y: 20, w: 2, h: 2, want: []int{27}},
		{name: "empty cell", x: 100, y: 40, w: 8, h: 8},
		{name: "spanning both", x: 20, y: 8, w: 60, h: 2, want: []int{0, 27}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits := w.Overlapping(tt.x, tt.y, tt.w, tt.h)
			got := map[int]bool{}
			for _, s := range hits {
				got[s.TileID] = true
			}
			if len(hits) != len(tt.want) {
				t.Fatalf("got %d hits %v, want tiles %v", len(hits), got, tt.want)
			}
			for _, id := range tt.want {
				if !got[id] {
					t.Errorf("missing tile %d in hits %v", id, got)
				}
			}
		})
	}
}

func TestWorld_Solid(t *testing.T) {
	w := NewWorld(testLevel())

	tests := []struct {
		x, y float64
		want bool
	}{
		{10, 8, true},
		{10, 20, false},
		{78, 20, true},
		{70, 20, false},
		{90, 8, true},
		{120, 60, false},
	}
	for _, tt := range tests {
		if got := w.Solid(tt.x, tt.y); got != tt.want {
			t.Errorf("Solid(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestWorld_GroundAndSnap(t *testing.T) {
	w := NewWorld(testLevel())

	if y, ok := w.GroundY(10, 0, 64); !ok || y != 6 {
		t.Errorf("GroundY(10) = %v, %v, want 6", y, ok)
	}
	if y, ok := w.GroundY(90, 0, 64); !ok || y != 6 {
		t.Errorf("GroundY(90) = %v, %v, want 6", y, ok)
	}
	if y, ok := w.GroundY(78, 0, 64); !ok || y != 0 {
		t.Errorf("GroundY(78) = %v, %v, want 0", y, ok)
	}
	if _, ok := w.GroundY(110, 0, 64); ok {
		t.Error("GroundY(110) found ground in an empty column")
	}
	if _, ok := w.GroundY(10, 20, 64); ok {
		t.Error("GroundY ignored the search window")
	}

	if y, ok := w.SnapY(90, 0, 64, 16); !ok || y != -10 {
		t.Errorf("SnapY = %v, %v, want -10", y, ok)
	}
}

func TestWorld_ConcurrentQueries(t *testing.T) {
	w := NewWorld(testLevel())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if !w.Solid(78, float64(10+i)) {
					t.Error("stem not solid")
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestNewWorld_Options(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	cfg := config.Collision
	cfg.SolidTag = "wall"
	cfg.CellSize = 32
	w := NewWorld(testLevel(), WithConfig(cfg), WithLogger(logger))

	if !w.Solid(10, 8) {
		t.Error("ledge not solid with a custom tag")
	}
	if got := w.Space.Objects(); len(got) != 2 {
		t.Fatalf("space has %d objects, want 2", len(got))
	}
	if !w.Space.Objects()[0].HasTags("wall") {
		t.Error("shape not tagged with the configured solid tag")
	}
	if !strings.Contains(buf.String(), "built collision world") {
		t.Errorf("log output %q missing build message", buf.String())
	}
}
