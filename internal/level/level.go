// Package level runs the full decode pipeline for one level: archive,
// records, composited textures, atlas and wall quads.
package level

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/wadmesh/internal/atlas"
	"github.com/Faultbox/wadmesh/internal/cache"
	"github.com/Faultbox/wadmesh/internal/logger"
	"github.com/Faultbox/wadmesh/internal/mesh"
	"github.com/Faultbox/wadmesh/internal/texture"
	"github.com/Faultbox/wadmesh/pkg/formats"
	"github.com/Faultbox/wadmesh/pkg/wad"
)

// Options controls a pipeline run.
type Options struct {
	// AtlasSize is the atlas edge length in pixels.
	AtlasSize int
	// Cache, when set, is consulted before decoding and filled afterwards.
	Cache *cache.Store
}

// DefaultOptions returns options for a 4096×4096 atlas without caching.
func DefaultOptions() Options {
	return Options{AtlasSize: atlas.DefaultSize}
}

// Bundle is the result of loading a level. The caller owns it and calls
// Release once when done.
type Bundle struct {
	Atlas     []byte // BGRA, AtlasSize*AtlasSize*4 bytes
	AtlasSize int
	Rects     []atlas.Rect
	Polygons  []mesh.Polygon
}

// Release drops the bundle's buffers. The bundle must not be used after.
func (b *Bundle) Release() {
	b.Atlas = nil
	b.Rects = nil
	b.Polygons = nil
	b.AtlasSize = 0
}

// Mesh triangulates the bundle's polygons.
func (b *Bundle) Mesh() *mesh.Mesh {
	return mesh.Build(b.Polygons)
}

// Load opens the archive at path and builds the bundle for level name.
func Load(path, name string, opts Options) (*Bundle, error) {
	if opts.AtlasSize <= 0 {
		opts.AtlasSize = atlas.DefaultSize
	}

	var key string
	if opts.Cache != nil {
		var err error
		if key, err = cache.KeyFile(path, name, opts.AtlasSize); err != nil {
			logger.Debug("cache key failed", zap.String("path", path), zap.Error(err))
		} else if data, ok := opts.Cache.Get(key); ok {
			b, err := UnmarshalBundle(data)
			if err == nil {
				logger.Debug("bundle loaded from cache", zap.String("level", name), zap.String("key", key))
				return b, nil
			}
			logger.Debug("cached bundle unusable", zap.String("key", key), zap.Error(err))
		}
	}

	a, err := wad.Open(path)
	if err != nil {
		return nil, err
	}
	defer a.Close()

	b, err := LoadArchive(a, name, opts)
	if err != nil {
		return nil, err
	}

	if opts.Cache != nil && key != "" {
		if err := opts.Cache.Put(key, b.MarshalBinary()); err != nil {
			logger.Warn("failed to cache bundle", zap.String("level", name), zap.Error(err))
		}
	}
	return b, nil
}

// LoadArchive builds the bundle for level name from an open archive.
func LoadArchive(a *wad.Archive, name string, opts Options) (*Bundle, error) {
	if opts.AtlasSize <= 0 {
		opts.AtlasSize = atlas.DefaultSize
	}

	lvl, err := a.Level(name)
	if err != nil {
		return nil, err
	}

	m, err := formats.LoadMapData(a, lvl)
	if err != nil {
		return nil, fmt.Errorf("level %q: %w", name, err)
	}
	logger.Debug("level records loaded",
		zap.String("level", name),
		zap.Int("sectors", len(m.Sectors)),
		zap.Int("vertices", len(m.Vertices)),
		zap.Int("sidedefs", len(m.SideDefs)),
		zap.Int("linedefs", len(m.LineDefs)))

	packer, err := PackTextures(a, opts.AtlasSize)
	if err != nil {
		return nil, err
	}

	polys, err := mesh.ExportWalls(m, packer)
	if err != nil {
		return nil, fmt.Errorf("level %q: %w", name, err)
	}
	logger.Debug("walls exported", zap.String("level", name), zap.Int("polygons", len(polys)))

	return &Bundle{
		Atlas:     packer.Pixels(),
		AtlasSize: packer.Size(),
		Rects:     packer.Rects(),
		Polygons:  polys,
	}, nil
}

// PackTextures composites every texture of the archive in name order and
// packs them into a new atlas.
func PackTextures(a *wad.Archive, size int) (*atlas.Packer, error) {
	set, err := texture.Load(a)
	if err != nil {
		return nil, err
	}

	packer := atlas.NewPacker(size)
	for _, name := range set.Names() {
		// Reject oversized definitions before compositing allocates them.
		if def, ok := set.Def(name); ok {
			if err := packer.Fits(name, def.Width, def.Height); err != nil {
				return nil, err
			}
		}

		img, err := set.Composite(name)
		if err != nil {
			return nil, err
		}
		if _, err := packer.Add(name, img.Width, img.Height, img.BGR(set.Palette)); err != nil {
			return nil, err
		}
	}
	logger.Debug("atlas packed", zap.Int("textures", len(packer.Rects())), zap.Int("size", packer.Size()))
	return packer, nil
}
