package atlas

import (
	"bytes"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, b, g, r byte) []byte {
	return bytes.Repeat([]byte{b, g, r}, w*h)
}

func TestAdd_Layout(t *testing.T) {
	p := NewPacker(16)

	i0, err := p.Add("A", 8, 4, solid(8, 4, 1, 2, 3))
	require.NoError(t, err)
	i1, err := p.Add("B", 8, 6, solid(8, 6, 4, 5, 6))
	require.NoError(t, err)
	// Exactly fills the row; the next one wraps below the taller texture.
	i2, err := p.Add("C", 4, 2, solid(4, 2, 7, 8, 9))
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 2}, []int{i0, i1, i2})

	rects := p.Rects()
	require.Len(t, rects, 3)
	assert.Equal(t, mgl32.Vec2{0, 0}, rects[0].Position)
	assert.Equal(t, mgl32.Vec2{0.5, 0}, rects[1].Position)
	assert.Equal(t, mgl32.Vec2{0, 6.0 / 16}, rects[2].Position)
	assert.Equal(t, mgl32.Vec2{0.5, 0.25}, rects[0].Size)
	assert.Equal(t, 4, rects[2].Width)
	assert.Equal(t, 2, rects[2].Height)

	px := p.Pixels()
	assert.Equal(t, []byte{1, 2, 3, 255}, px[0:4])
	assert.Equal(t, []byte{4, 5, 6, 255}, px[8*4:8*4+4])
	off := (6*16 + 0) * 4
	assert.Equal(t, []byte{7, 8, 9, 255}, px[off:off+4])
	// Untouched pixel below A stays zero.
	off = (5*16 + 0) * 4
	assert.Equal(t, []byte{0, 0, 0, 0}, px[off:off+4])
}

func TestAdd_RowBound(t *testing.T) {
	const size = 64
	p := NewPacker(size)
	widths := []int{10, 30, 20, 7, 33, 64, 1, 40, 25}
	for i, w := range widths {
		_, err := p.Add(string(rune('A'+i)), w, 3, solid(w, 3, 0, 0, 0))
		require.NoError(t, err)
	}
	for _, r := range p.Rects() {
		x := int(r.Position.X()*size + 0.5)
		assert.LessOrEqual(t, x+r.Width, size, r.Name)
	}
}

func TestAdd_Full(t *testing.T) {
	p := NewPacker(8)

	_, err := p.Add("WIDE", 9, 1, solid(9, 1, 0, 0, 0))
	assert.ErrorIs(t, err, ErrAtlasFull)

	_, err = p.Add("TALL", 8, 6, solid(8, 6, 0, 0, 0))
	require.NoError(t, err)
	_, err = p.Add("NEXT", 2, 3, solid(2, 3, 0, 0, 0))
	assert.ErrorIs(t, err, ErrAtlasFull)
}

func TestFits(t *testing.T) {
	p := NewPacker(8)

	assert.NoError(t, p.Fits("A", 8, 8))
	assert.NoError(t, p.Fits("EMPTY", 0, 65535))
	assert.ErrorIs(t, p.Fits("WIDE", 65535, 1), ErrAtlasFull)
	assert.ErrorIs(t, p.Fits("TALL", 1, 65535), ErrAtlasFull)
	assert.Error(t, p.Fits("NEG", 1, -1))

	_, err := p.Add("ROW", 6, 6, solid(6, 6, 0, 0, 0))
	require.NoError(t, err)
	assert.NoError(t, p.Fits("SIDE", 2, 8))
	assert.ErrorIs(t, p.Fits("WRAP", 3, 3), ErrAtlasFull, "wraps below the 6-pixel row")
	assert.Len(t, p.Rects(), 1, "Fits never records")
}

func TestAdd_InvalidInput(t *testing.T) {
	p := NewPacker(8)
	_, err := p.Add("NEG", -1, 4, nil)
	assert.Error(t, err)
	_, err = p.Add("SHORT", 2, 2, []byte{1, 2, 3})
	assert.Error(t, err)
	assert.Empty(t, p.Rects())
}

func TestAdd_Empty(t *testing.T) {
	p := NewPacker(8)
	idx, err := p.Add("EMPTY", 0, 4, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, idx)

	idx, err = p.Add("NEXT", 8, 8, solid(8, 8, 0, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.Equal(t, mgl32.Vec2{0, 0}, p.Rects()[1].Position)
	assert.Equal(t, 0, p.Rects()[0].Width)
}

func TestLookup(t *testing.T) {
	p := NewPacker(32)
	_, err := p.Add("STARTAN3", 4, 4, solid(4, 4, 0, 0, 0))
	require.NoError(t, err)
	_, err = p.Add("DOOR3", 2, 4, solid(2, 4, 0, 0, 0))
	require.NoError(t, err)

	idx, r, ok := p.Lookup("DOOR3")
	require.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.Equal(t, "DOOR3", r.Name)

	_, _, ok = p.Lookup("SKY1")
	assert.False(t, ok)
}

func TestImage(t *testing.T) {
	p := NewPacker(4)
	_, err := p.Add("T", 1, 1, []byte{10, 20, 30})
	require.NoError(t, err)

	img := p.Image()
	c := img.NRGBAAt(0, 0)
	assert.Equal(t, uint8(30), c.R)
	assert.Equal(t, uint8(20), c.G)
	assert.Equal(t, uint8(10), c.B)
	assert.Equal(t, uint8(255), c.A)
	assert.Equal(t, uint8(0), img.NRGBAAt(1, 0).A)
}

func TestNewPacker_DefaultSize(t *testing.T) {
	assert.Equal(t, DefaultSize, NewPacker(0).Size())
}
