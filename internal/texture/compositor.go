// Package texture builds composite wall textures from patch pictures.
package texture

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/exp/constraints"

	"github.com/Faultbox/wadmesh/internal/logger"
	"github.com/Faultbox/wadmesh/pkg/formats"
	"github.com/Faultbox/wadmesh/pkg/wad"
)

// Set holds everything needed to composite the archive's textures.
type Set struct {
	Palette *formats.Palette
	Patches []*formats.Patch // indexed like PNAMES

	defs map[string]*formats.TextureDef
}

// Image is a composited texture as palette indices, row-major.
type Image struct {
	Name    string
	Width   int
	Height  int
	Indices []byte
}

// Load reads PNAMES, every referenced patch, TEXTURE1, the optional
// TEXTURE2 and the palette.
func Load(a *wad.Archive) (*Set, error) {
	s := &Set{defs: make(map[string]*formats.TextureDef)}

	if err := s.loadPatches(a); err != nil {
		return nil, err
	}

	if err := s.loadDefs(a, "TEXTURE1", true); err != nil {
		return nil, err
	}
	if err := s.loadDefs(a, "TEXTURE2", false); err != nil {
		return nil, err
	}

	data, err := a.ReadLumpByName("PLAYPAL")
	if err != nil {
		return nil, fmt.Errorf("reading palette: %w", err)
	}
	if s.Palette, err = formats.ParsePalette(data); err != nil {
		return nil, err
	}

	logger.Debug("texture set loaded",
		zap.Int("patches", len(s.Patches)),
		zap.Int("textures", len(s.defs)))
	return s, nil
}

func (s *Set) loadPatches(a *wad.Archive) error {
	data, err := a.ReadLumpByName("PNAMES")
	if err != nil {
		return fmt.Errorf("reading patch names: %w", err)
	}
	names, err := formats.ParsePatchNames(data)
	if err != nil {
		return err
	}

	s.Patches = make([]*formats.Patch, len(names))
	for i, name := range names {
		lump, ok := a.Find(strings.ToUpper(name))
		if !ok {
			return fmt.Errorf("%w: patch %q (PNAMES entry %d)", wad.ErrNotFound, name, i)
		}
		raw, err := a.ReadLump(lump)
		if err != nil {
			return fmt.Errorf("reading patch %q: %w", name, err)
		}
		if s.Patches[i], err = formats.ParsePatch(lump.Name, raw); err != nil {
			return err
		}
	}
	return nil
}

func (s *Set) loadDefs(a *wad.Archive, lumpName string, required bool) error {
	lump, ok := a.Find(lumpName)
	if !ok {
		if required {
			return fmt.Errorf("%w: lump %q", wad.ErrNotFound, lumpName)
		}
		return nil
	}

	data, err := a.ReadLump(lump)
	if err != nil {
		return err
	}
	defs, err := formats.ParseTextureDefs(data)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", lumpName, err)
	}

	for i := range defs {
		s.defs[defs[i].Name] = &defs[i]
	}
	return nil
}

// Names returns every texture name in ascending order. Atlas indices follow
// this order.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.defs))
	for name := range s.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Def returns the definition of a texture.
func (s *Set) Def(name string) (*formats.TextureDef, bool) {
	def, ok := s.defs[name]
	return def, ok
}

// Composite stamps the patches of texture name into an index buffer, in
// placement order. Pixels no patch writes stay index 0.
func (s *Set) Composite(name string) (*Image, error) {
	def, ok := s.defs[name]
	if !ok {
		return nil, fmt.Errorf("%w: texture %q", wad.ErrNotFound, name)
	}

	img := &Image{
		Name:    def.Name,
		Width:   def.Width,
		Height:  def.Height,
		Indices: make([]byte, def.Width*def.Height),
	}

	for _, pl := range def.Patches {
		if int(pl.Patch) >= len(s.Patches) {
			return nil, fmt.Errorf("%w: texture %q uses patch %d of %d",
				wad.ErrCorruptData, name, pl.Patch, len(s.Patches))
		}
		if err := img.stamp(s.Patches[pl.Patch], int(pl.OriginX), int(pl.OriginY)); err != nil {
			return nil, fmt.Errorf("texture %q: %w", name, err)
		}
	}
	return img, nil
}

func (img *Image) stamp(patch *formats.Patch, originX, originY int) error {
	x1 := clamp(originX, 0, img.Width)
	x2 := clamp(originX+patch.Width, 0, img.Width)

	for x := x1; x < x2; x++ {
		posts, err := patch.Column(x - originX)
		if err != nil {
			return err
		}

		// A post with topDelta 0 continues below the previous one.
		run := 0
		for _, post := range posts {
			if post.TopDelta > 0 {
				run = 0
			}
			top := originY + int(post.TopDelta) + run
			for i, idx := range post.Pixels {
				y := top + i
				if y < 0 || y >= img.Height {
					continue
				}
				img.Indices[y*img.Width+x] = idx
			}
			run += len(post.Pixels)
		}
	}
	return nil
}

// BGR expands the index buffer through pal into 3 bytes per pixel, stored
// blue, green, red.
func (img *Image) BGR(pal *formats.Palette) []byte {
	out := make([]byte, len(img.Indices)*3)
	for i, idx := range img.Indices {
		c := pal.Colors[idx]
		out[i*3] = c.B
		out[i*3+1] = c.G
		out[i*3+2] = c.R
	}
	return out
}

func clamp[T constraints.Integer](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
