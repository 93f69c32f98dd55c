package formats

import (
	"encoding/binary"
	"fmt"
)

const (
	patchHeaderSize = 8
	postTerminator  = 0xFF
)

// Patch is a column-encoded indexed picture. Columns are decoded on demand
// from the retained lump bytes.
type Patch struct {
	Name       string
	Width      int
	Height     int
	LeftOffset int
	TopOffset  int

	columns []uint32 // byte offsets from the start of the lump
	data    []byte
}

// Post is one vertical run of palette indices within a column.
type Post struct {
	TopDelta byte
	Pixels   []byte
}

// ParsePatch parses a patch picture header and column table.
func ParsePatch(name string, data []byte) (*Patch, error) {
	if len(data) < patchHeaderSize {
		return nil, fmt.Errorf("%w: %s header", ErrTruncatedPatch, name)
	}

	p := &Patch{
		Name:       name,
		Width:      int(i16(data[0:])),
		Height:     int(i16(data[2:])),
		LeftOffset: int(i16(data[4:])),
		TopOffset:  int(i16(data[6:])),
		data:       data,
	}
	if p.Width < 0 || p.Height < 0 {
		return nil, fmt.Errorf("%w: %s has size %dx%d", ErrTruncatedPatch, name, p.Width, p.Height)
	}

	tableEnd := patchHeaderSize + 4*p.Width
	if len(data) < tableEnd {
		return nil, fmt.Errorf("%w: %s column table", ErrTruncatedPatch, name)
	}

	p.columns = make([]uint32, p.Width)
	for x := range p.columns {
		off := binary.LittleEndian.Uint32(data[patchHeaderSize+4*x:])
		if int64(off) >= int64(len(data)) {
			return nil, fmt.Errorf("%w: %s column %d offset %d past end %d", ErrTruncatedPatch, name, x, off, len(data))
		}
		p.columns[x] = off
	}

	return p, nil
}

// Column decodes the posts of column x.
func (p *Patch) Column(x int) ([]Post, error) {
	if x < 0 || x >= p.Width {
		return nil, fmt.Errorf("column %d out of range [0,%d)", x, p.Width)
	}

	var posts []Post
	off := int(p.columns[x])
	for {
		if off >= len(p.data) {
			return nil, fmt.Errorf("%w: %s column %d is unterminated", ErrTruncatedPatch, p.Name, x)
		}
		topDelta := p.data[off]
		if topDelta == postTerminator {
			return posts, nil
		}
		if off+2 >= len(p.data) {
			return nil, fmt.Errorf("%w: %s column %d post header", ErrTruncatedPatch, p.Name, x)
		}

		length := int(p.data[off+1])
		start := off + 3 // topDelta, length, padding
		if start+length > len(p.data) {
			return nil, fmt.Errorf("%w: %s column %d post runs past end", ErrTruncatedPatch, p.Name, x)
		}

		posts = append(posts, Post{TopDelta: topDelta, Pixels: p.data[start : start+length]})
		off = start + length + 1 // trailing padding
	}
}
