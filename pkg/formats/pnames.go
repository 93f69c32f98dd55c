package formats

import (
	"encoding/binary"
	"fmt"

	"github.com/Faultbox/wadmesh/pkg/wad"
)

// ParsePatchNames parses a PNAMES lump: a uint32 count followed by that many
// 8-byte names.
func ParsePatchNames(data []byte) ([]string, error) {
	if len(data) < 4 {
		return nil, ErrTruncatedPatchNames
	}

	count := binary.LittleEndian.Uint32(data)
	if uint64(len(data)-4) < uint64(count)*wad.NameSize {
		return nil, fmt.Errorf("%w: %d names in %d bytes", ErrTruncatedPatchNames, count, len(data))
	}

	names := make([]string, count)
	for i := range names {
		off := 4 + i*wad.NameSize
		names[i] = wad.Name8(data[off : off+wad.NameSize])
	}
	return names, nil
}
