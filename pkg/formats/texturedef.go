package formats

import (
	"encoding/binary"
	"fmt"

	"github.com/Faultbox/wadmesh/pkg/wad"
)

const (
	textureHeaderSize = 22
	placementSize     = 10
)

// PatchPlacement stamps one PNAMES entry into a composite texture.
type PatchPlacement struct {
	OriginX  int16
	OriginY  int16
	Patch    uint16 // index into PNAMES
	StepDir  uint16
	Colormap uint16
}

// TextureDef is one composite texture from TEXTURE1 or TEXTURE2.
type TextureDef struct {
	Name    string
	Flags   uint32
	Width   int
	Height  int
	Patches []PatchPlacement
}

// ParseTextureDefs parses a TEXTURE1/TEXTURE2 lump. The per-texture offset
// table is skipped; definitions are read back to back.
func ParseTextureDefs(data []byte) ([]TextureDef, error) {
	if len(data) < 4 {
		return nil, ErrTruncatedTextures
	}

	count := binary.LittleEndian.Uint32(data)
	off := uint64(4) + uint64(count)*4
	if off > uint64(len(data)) {
		return nil, fmt.Errorf("%w: offset table for %d textures", ErrTruncatedTextures, count)
	}

	pos := int(off)
	defs := make([]TextureDef, 0, count)
	for i := uint32(0); i < count; i++ {
		if pos+textureHeaderSize > len(data) {
			return nil, fmt.Errorf("%w: texture %d header", ErrTruncatedTextures, i)
		}
		h := data[pos:]
		def := TextureDef{
			Name:   wad.Name8(h[0:8]),
			Flags:  binary.LittleEndian.Uint32(h[8:]),
			Width:  int(u16(h[12:])),
			Height: int(u16(h[14:])),
		}
		numPatches := int(u16(h[20:]))
		pos += textureHeaderSize

		if pos+numPatches*placementSize > len(data) {
			return nil, fmt.Errorf("%w: texture %q patch list", ErrTruncatedTextures, def.Name)
		}
		def.Patches = make([]PatchPlacement, numPatches)
		for j := range def.Patches {
			p := data[pos:]
			def.Patches[j] = PatchPlacement{
				OriginX:  i16(p[0:]),
				OriginY:  i16(p[2:]),
				Patch:    u16(p[4:]),
				StepDir:  u16(p[6:]),
				Colormap: u16(p[8:]),
			}
			pos += placementSize
		}

		defs = append(defs, def)
	}

	return defs, nil
}
