package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	_ "image/png"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/automoto/tilegeom/assets"
	"github.com/automoto/tilegeom/collision"
	"github.com/automoto/tilegeom/config"
	"github.com/automoto/tilegeom/overlay"
	"github.com/automoto/tilegeom/shared/leveldata"
	"github.com/automoto/tilegeom/shared/tileset"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	tsPath := flag.String("tileset", "", "Tileset (.tsx) to load")
	builtin := flag.Bool("builtin", false, "Use the embedded subroom tileset instead of -tileset")
	tileID := flag.Int("tile", -1, "Print the collision shapes of this tile id")
	mapPath := flag.String("map", "", "Level (.tmx) to place collision shapes into")
	layer := flag.String("layer", config.Collision.Layer, "Tile layer carrying collision tiles")
	root := flag.String("root", "", "Asset root; -tileset and -map are resolved inside it so maps can reach sibling tileset directories")
	overlayPath := flag.String("overlay", "", "Write a PNG of the tileset's collision shapes")
	strict := flag.Bool("strict", config.Loader.StrictGrid, "Require tilecount to fill whole rows")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if err := checkFlags(*tsPath, *builtin, *mapPath, *tileID, *overlayPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}

	if *tsPath != "" || *builtin {
		fsys, name := assets.FS(), assets.SubroomTiles
		if !*builtin {
			fsys, name = source(*root, *tsPath)
		}

		opts := []tileset.LoaderOption{tileset.WithFileSystem(fsys), tileset.WithLogger(log.Logger)}
		if *strict {
			opts = append(opts, tileset.WithStrictGrid())
		}
		ts, err := tileset.LoadFile(name, opts...)
		if err != nil {
			fatal(err)
		}
		printSummary(ts)

		if *tileID >= 0 {
			printShapes(ts, *tileID)
		}
		if *overlayPath != "" {
			if err := writeOverlay(ts, fsys, name, *overlayPath); err != nil {
				fatal(err)
			}
		}
	}

	if *mapPath != "" {
		fsys, name := source(*root, *mapPath)
		data, err := leveldata.LoadCollisionData(fsys, name,
			leveldata.WithLayer(*layer), leveldata.WithLogger(log.Logger))
		if err != nil {
			fatal(err)
		}
		world := collision.NewWorld(data, collision.WithLogger(log.Logger))
		fmt.Printf("%s: %dx%d px, %d collision shapes\n", *mapPath, world.MapWidth, world.MapHeight, len(data.Shapes))
	}
}

func checkFlags(tsPath string, builtin bool, mapPath string, tileID int, overlayPath string) error {
	switch {
	case builtin && tsPath != "":
		return errors.New("-builtin and -tileset are mutually exclusive")
	case tsPath == "" && !builtin && mapPath == "":
		return errors.New("one of -tileset, -builtin or -map is required")
	case tsPath == "" && !builtin && (tileID >= 0 || overlayPath != ""):
		return errors.New("-tile and -overlay need -tileset or -builtin")
	}
	return nil
}

// source returns the file system and slash path to open p with. Without a
// root, p's own directory becomes the root.
func source(root, p string) (fs.FS, string) {
	if root != "" {
		return os.DirFS(root), filepath.ToSlash(filepath.Clean(p))
	}
	dir, name := filepath.Split(p)
	if dir == "" {
		dir = "."
	}
	return os.DirFS(dir), name
}

func printSummary(ts *tileset.TileSet) {
	fmt.Printf("tileset %q: %dx%d tiles, %d tiles in %d columns x %d rows\n",
		ts.Name, ts.TileWidth, ts.TileHeight, ts.TileCount, ts.Columns, ts.Rows())
	fmt.Printf("image: %s (%dx%d)\n", ts.ImageReference(), ts.Image.Width, ts.Image.Height)
	fmt.Printf("tiles with entries: %d %v\n", ts.Len(), ts.IDs())
}

func printShapes(ts *tileset.TileSet, id int) {
	shapes := ts.ShapesFor(id)
	if len(shapes) == 0 {
		fmt.Printf("tile %d: no collision\n", id)
		return
	}
	for i, s := range shapes {
		b := s.Bounds()
		fmt.Printf("tile %d shape %d: %s anchor (%g,%g) points %q bounds %gx%g at (%g,%g)\n",
			id, i, s.Kind, s.Anchor.X, s.Anchor.Y, tileset.FormatPoints(s.Points), b.W, b.H, b.X, b.Y)
	}
}

func writeOverlay(ts *tileset.TileSet, fsys fs.FS, tsName, outPath string) error {
	opts := overlay.Options{}
	imgPath := path.Join(path.Dir(tsName), ts.ImageReference())
	if bg, err := decodeImage(fsys, imgPath); err != nil {
		log.Warn().Err(err).Str("image", imgPath).Msg("drawing overlay without tileset image")
	} else {
		opts.Background = bg
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create overlay: %w", err)
	}
	if err := overlay.WritePNG(out, overlay.Render(ts, opts)); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close overlay: %w", err)
	}
	log.Info().Str("path", outPath).Msg("wrote overlay")
	return nil
}

func decodeImage(fsys fs.FS, name string) (image.Image, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	return img, err
}

func fatal(err error) {
	kind := "error"
	switch {
	case errors.Is(err, tileset.ErrMalformedInput):
		kind = "malformed input"
	case errors.Is(err, tileset.ErrSchemaViolation):
		kind = "schema violation"
	}
	log.Fatal().Err(err).Str("kind", kind).Msg("load failed")
}
