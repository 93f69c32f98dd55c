package formats

import "fmt"

const paletteBytes = 256 * 3

// Color is one palette entry.
type Color struct {
	R, G, B uint8
}

// Palette is the first 256-colour block of PLAYPAL.
type Palette struct {
	Colors [256]Color
}

// ParsePalette parses the first palette of a PLAYPAL lump. Any further
// blocks are ignored.
func ParsePalette(data []byte) (*Palette, error) {
	if len(data) < paletteBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrTruncatedPalette, len(data))
	}

	p := &Palette{}
	for i := range p.Colors {
		p.Colors[i] = Color{
			R: data[i*3],
			G: data[i*3+1],
			B: data[i*3+2],
		}
	}
	return p, nil
}
