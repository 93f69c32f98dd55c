// Package atlas packs composited textures into one square 4-byte-per-pixel
// atlas using a shelf layout.
package atlas

import (
	"errors"
	"fmt"
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

// DefaultSize is the atlas edge length in pixels.
const DefaultSize = 4096

// BytesPerPixel of the atlas buffer: blue, green, red, alpha.
const BytesPerPixel = 4

// ErrAtlasFull is returned when a texture does not fit in the atlas.
var ErrAtlasFull = errors.New("atlas full")

// Rect locates one texture inside the atlas. Position and Size are
// normalized by the atlas size.
type Rect struct {
	Name     string
	Position mgl32.Vec2
	Size     mgl32.Vec2
	Width    int
	Height   int
}

// Packer places textures left to right, wrapping to a new row below the
// tallest texture of the current row.
type Packer struct {
	size   int
	pixels []byte
	rects  []Rect
	index  map[string]int

	x, y      int
	rowBottom int
}

// NewPacker returns a packer over a zeroed size×size atlas.
func NewPacker(size int) *Packer {
	if size <= 0 {
		size = DefaultSize
	}
	return &Packer{
		size:   size,
		pixels: make([]byte, size*size*BytesPerPixel),
		index:  make(map[string]int),
	}
}

// Size returns the atlas edge length in pixels.
func (p *Packer) Size() int { return p.size }

// Fits reports whether a width×height texture named name can be placed next,
// without touching the atlas. It returns ErrAtlasFull when it cannot.
func (p *Packer) Fits(name string, width, height int) error {
	if width < 0 || height < 0 {
		return fmt.Errorf("texture %q has invalid size %dx%d", name, width, height)
	}
	if width == 0 || height == 0 {
		return nil
	}
	if width > p.size {
		return fmt.Errorf("%w: texture %q is %d wide, atlas is %d", ErrAtlasFull, name, width, p.size)
	}

	_, y := p.next(width)
	if y+height > p.size {
		return fmt.Errorf("%w: no room for %q (%dx%d) at row %d", ErrAtlasFull, name, width, height, y)
	}
	return nil
}

// next returns where a texture of the given width would be placed.
func (p *Packer) next(width int) (x, y int) {
	if p.x+width > p.size {
		return 0, p.rowBottom
	}
	return p.x, p.y
}

// Add blits a width×height texture given as 3-byte BGR pixels and returns
// its atlas index. An empty texture gets a zero-size rectangle and takes no
// atlas space.
func (p *Packer) Add(name string, width, height int, bgr []byte) (int, error) {
	if err := p.Fits(name, width, height); err != nil {
		return 0, err
	}
	if width == 0 || height == 0 {
		return p.record(name, p.x, p.y, width, height), nil
	}
	if len(bgr) < width*height*3 {
		return 0, fmt.Errorf("texture %q: %d pixel bytes, want %d", name, len(bgr), width*height*3)
	}

	p.x, p.y = p.next(width)

	for row := 0; row < height; row++ {
		dst := ((p.y+row)*p.size + p.x) * BytesPerPixel
		src := row * width * 3
		for col := 0; col < width; col++ {
			p.pixels[dst] = bgr[src]
			p.pixels[dst+1] = bgr[src+1]
			p.pixels[dst+2] = bgr[src+2]
			p.pixels[dst+3] = 255
			dst += BytesPerPixel
			src += 3
		}
	}

	idx := p.record(name, p.x, p.y, width, height)
	p.x += width
	p.rowBottom = max(p.rowBottom, p.y+height)
	return idx, nil
}

func (p *Packer) record(name string, x, y, width, height int) int {
	s := float32(p.size)
	p.rects = append(p.rects, Rect{
		Name:     name,
		Position: mgl32.Vec2{float32(x) / s, float32(y) / s},
		Size:     mgl32.Vec2{float32(width) / s, float32(height) / s},
		Width:    width,
		Height:   height,
	})
	idx := len(p.rects) - 1
	p.index[name] = idx
	return idx
}

// Lookup returns the atlas index and rectangle of a packed texture.
func (p *Packer) Lookup(name string) (int, Rect, bool) {
	idx, ok := p.index[name]
	if !ok {
		return 0, Rect{}, false
	}
	return idx, p.rects[idx], true
}

// Rects returns the rectangle table; the slice index is the atlas index.
func (p *Packer) Rects() []Rect { return p.rects }

// Pixels returns the atlas buffer, row-major, 4 bytes per pixel.
func (p *Packer) Pixels() []byte { return p.pixels }

// Image converts a BGRA atlas buffer into an RGBA image.
func Image(pixels []byte, size int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for i := 0; i+3 < len(pixels) && i+3 < len(img.Pix); i += BytesPerPixel {
		img.Pix[i] = pixels[i+2]
		img.Pix[i+1] = pixels[i+1]
		img.Pix[i+2] = pixels[i]
		img.Pix[i+3] = pixels[i+3]
	}
	return img
}

// Image returns the packed atlas as an RGBA image.
func (p *Packer) Image() *image.NRGBA {
	return Image(p.pixels, p.size)
}
