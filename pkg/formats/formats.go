// Package formats provides parsers for Doom-engine lump formats: map records,
// patch pictures, texture definitions and the palette.
package formats

import (
	"fmt"

	"github.com/Faultbox/wadmesh/pkg/wad"
)

// Lump format errors. All of them match wad.ErrCorruptData with errors.Is.
var (
	ErrTruncatedPatchNames = fmt.Errorf("%w: truncated PNAMES data", wad.ErrCorruptData)
	ErrTruncatedPatch      = fmt.Errorf("%w: truncated patch picture", wad.ErrCorruptData)
	ErrTruncatedTextures   = fmt.Errorf("%w: truncated texture definitions", wad.ErrCorruptData)
	ErrTruncatedPalette    = fmt.Errorf("%w: truncated PLAYPAL data", wad.ErrCorruptData)
)
