package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"path"

	"github.com/automoto/tilegeom/shared/tileset"
)

var (
	//go:embed all:subrooms
	assetFS embed.FS

	library = tileset.NewLibrary(assetFS)
)

// SubroomTiles is the embedded path of the subroom tileset.
const SubroomTiles = "subrooms/tiles.tsx"

// FS exposes the embedded asset tree.
func FS() fs.FS {
	return assetFS
}

// Tileset returns the embedded tileset at name, loading it on first use.
func Tileset(name string) (*tileset.TileSet, error) {
	return library.Get(name)
}

// MustLoadTilesets loads every embedded .tsx file and panics on the first
// invalid one.
func MustLoadTilesets() []*tileset.TileSet {
	entries, err := assetFS.ReadDir("subrooms")
	if err != nil {
		panic(fmt.Sprintf("Failed to read subrooms directory: %v", err))
	}

	var sets []*tileset.TileSet
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".tsx" {
			continue
		}
		ts, err := library.Get(path.Join("subrooms", entry.Name()))
		if err != nil {
			panic(err)
		}
		sets = append(sets, ts)
	}

	if len(sets) == 0 {
		panic("No tileset files found in assets/subrooms directory")
	}
	return sets
}
