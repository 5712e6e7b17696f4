package tileset

import (
	"context"
	"fmt"
	"io/fs"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Library caches tilesets loaded from one file system. Each path is loaded
// at most once at a time; a TileSet becomes visible to readers only after
// it is completely built.
type Library struct {
	fsys fs.FS
	opts []LoaderOption

	group singleflight.Group

	mu   sync.RWMutex
	sets map[string]*TileSet
	// gen counts publishes and forgets per path. A load only publishes if
	// nothing changed the path since it started.
	gen map[string]uint64
}

// NewLibrary returns an empty library reading from fsys. opts apply to
// every load.
func NewLibrary(fsys fs.FS, opts ...LoaderOption) *Library {
	return &Library{
		fsys: fsys,
		opts: opts,
		sets: make(map[string]*TileSet),
		gen:  make(map[string]uint64),
	}
}

// Get returns the cached tileset for path, loading it on first use.
// Concurrent callers asking for the same path share a single load.
func (lib *Library) Get(path string) (*TileSet, error) {
	lib.mu.RLock()
	ts, ok := lib.sets[path]
	lib.mu.RUnlock()
	if ok {
		return ts, nil
	}

	v, err, _ := lib.group.Do(path, func() (any, error) {
		lib.mu.RLock()
		ts, ok := lib.sets[path]
		lib.mu.RUnlock()
		if ok {
			return ts, nil
		}
		return lib.load(path)
	})
	if err != nil {
		return nil, err
	}
	return v.(*TileSet), nil
}

// Reload loads path again and swaps it in. Readers holding the previous
// value keep using it; on failure the cache is left untouched. A Reload
// never joins a Get that is already reading the file.
func (lib *Library) Reload(path string) (*TileSet, error) {
	v, err, _ := lib.group.Do("reload:"+path, func() (any, error) {
		return lib.load(path)
	})
	if err != nil {
		return nil, err
	}
	return v.(*TileSet), nil
}

// LoadAll loads every path in parallel. Either all succeed and are cached
// or the first error is returned and nothing new is published.
func (lib *Library) LoadAll(ctx context.Context, paths ...string) error {
	loaded := make([]*TileSet, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			ts, err := LoadFile(path, lib.loadOpts()...)
			if err != nil {
				return err
			}
			loaded[i] = ts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("load tilesets: %w", err)
	}

	lib.mu.Lock()
	for i, path := range paths {
		lib.sets[path] = loaded[i]
		lib.gen[path]++
	}
	lib.mu.Unlock()
	return nil
}

// Forget drops path from the cache.
func (lib *Library) Forget(path string) {
	lib.mu.Lock()
	delete(lib.sets, path)
	lib.gen[path]++
	lib.mu.Unlock()
}

// Paths returns the cached paths, sorted.
func (lib *Library) Paths() []string {
	lib.mu.RLock()
	paths := make([]string, 0, len(lib.sets))
	for p := range lib.sets {
		paths = append(paths, p)
	}
	lib.mu.RUnlock()
	slices.Sort(paths)
	return paths
}

func (lib *Library) load(path string) (*TileSet, error) {
	lib.mu.RLock()
	start := lib.gen[path]
	lib.mu.RUnlock()

	ts, err := LoadFile(path, lib.loadOpts()...)
	if err != nil {
		return nil, err
	}

	lib.mu.Lock()
	defer lib.mu.Unlock()
	if lib.gen[path] != start {
		// A newer load or a Forget won; keep its result.
		if cur, ok := lib.sets[path]; ok {
			return cur, nil
		}
		return ts, nil
	}
	lib.sets[path] = ts
	lib.gen[path]++
	return ts, nil
}

func (lib *Library) loadOpts() []LoaderOption {
	opts := make([]LoaderOption, 0, len(lib.opts)+1)
	opts = append(opts, lib.opts...)
	return append(opts, WithFileSystem(lib.fsys))
}
