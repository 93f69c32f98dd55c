// Package wadtest builds small synthetic WAD archives for unit tests.
package wadtest

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

type entry struct {
	name string
	data []byte
}

// Builder accumulates lumps in directory order.
type Builder struct {
	id      string
	entries []entry
}

// New returns a builder for an IWAD.
func New() *Builder {
	return &Builder{id: "IWAD"}
}

// ID overrides the 4-byte identification.
func (b *Builder) ID(id string) *Builder {
	b.id = id
	return b
}

// Add appends a lump.
func (b *Builder) Add(name string, data []byte) *Builder {
	b.entries = append(b.entries, entry{name: name, data: data})
	return b
}

// Marker appends a zero-size lump.
func (b *Builder) Marker(name string) *Builder {
	return b.Add(name, nil)
}

// Bytes lays out header, lump data, then the directory.
func (b *Builder) Bytes() []byte {
	var data bytes.Buffer
	offsets := make([]int32, len(b.entries))
	for i, e := range b.entries {
		offsets[i] = int32(12 + data.Len())
		data.Write(e.data)
	}

	var out bytes.Buffer
	id := make([]byte, 4)
	copy(id, b.id)
	out.Write(id)
	binary.Write(&out, binary.LittleEndian, int32(len(b.entries)))
	binary.Write(&out, binary.LittleEndian, int32(12+data.Len()))
	out.Write(data.Bytes())

	for i, e := range b.entries {
		binary.Write(&out, binary.LittleEndian, offsets[i])
		binary.Write(&out, binary.LittleEndian, int32(len(e.data)))
		out.Write(Name(e.name))
	}
	return out.Bytes()
}

// WriteFile writes the archive under a test temp dir and returns its path.
func (b *Builder) WriteFile(t testing.TB, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, b.Bytes(), 0644); err != nil {
		t.Fatalf("failed to write test wad: %v", err)
	}
	return path
}

// Name pads or truncates s to an 8-byte name field.
func Name(s string) []byte {
	out := make([]byte, 8)
	copy(out, s)
	return out
}

// Concat joins encoded records into one lump payload.
func Concat(records ...[]byte) []byte {
	return bytes.Join(records, nil)
}

func le(values ...any) []byte {
	var buf bytes.Buffer
	for _, v := range values {
		if s, ok := v.(string); ok {
			buf.Write(Name(s))
			continue
		}
		binary.Write(&buf, binary.LittleEndian, v)
	}
	return buf.Bytes()
}

// Vertex encodes a 4-byte VERTEXES record.
func Vertex(x, y int16) []byte {
	return le(x, y)
}

// Sector encodes a 26-byte SECTORS record.
func Sector(floor, ceiling int16, floorFlat, ceilingFlat string, light, typ int16, tag uint16) []byte {
	return le(floor, ceiling, floorFlat, ceilingFlat, light, typ, tag)
}

// SideDef encodes a 30-byte SIDEDEFS record.
func SideDef(offsetX, offsetY int16, upper, lower, middle string, sector int16) []byte {
	return le(offsetX, offsetY, upper, lower, middle, sector)
}

// LineDef encodes a 14-byte LINEDEFS record.
func LineDef(start, end, flags, typ, tag, right, left uint16) []byte {
	return le(start, end, flags, typ, tag, right, left)
}

// PatchNames encodes a PNAMES lump.
func PatchNames(names ...string) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint32(len(names)))
	for _, n := range names {
		buf.Write(Name(n))
	}
	return buf.Bytes()
}

// Post is one run inside a patch column.
type Post struct {
	TopDelta byte
	Pixels   []byte
}

// Patch encodes a patch picture. columns must have width entries; a nil
// column is fully transparent.
func Patch(width, height int, columns [][]Post) []byte {
	headerLen := 8 + 4*width

	var body bytes.Buffer
	offsets := make([]uint32, width)
	for x := 0; x < width; x++ {
		offsets[x] = uint32(headerLen + body.Len())
		if x < len(columns) {
			for _, p := range columns[x] {
				body.WriteByte(p.TopDelta)
				body.WriteByte(byte(len(p.Pixels)))
				body.WriteByte(0)
				body.Write(p.Pixels)
				body.WriteByte(0)
			}
		}
		body.WriteByte(0xFF)
	}

	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, int16(width))
	binary.Write(&buf, binary.LittleEndian, int16(height))
	binary.Write(&buf, binary.LittleEndian, int16(0))
	binary.Write(&buf, binary.LittleEndian, int16(0))
	binary.Write(&buf, binary.LittleEndian, offsets)
	buf.Write(body.Bytes())
	return buf.Bytes()
}

// SolidPatch encodes a width×height patch filled with one palette index.
// height must fit in a single post (at most 254).
func SolidPatch(width, height int, index byte) []byte {
	columns := make([][]Post, width)
	for x := range columns {
		columns[x] = []Post{{TopDelta: 0, Pixels: bytes.Repeat([]byte{index}, height)}}
	}
	return Patch(width, height, columns)
}

// Placement positions a patch inside a texture definition.
type Placement struct {
	OriginX, OriginY int16
	Patch            uint16
}

// TextureDef describes one TEXTURE1/TEXTURE2 entry.
type TextureDef struct {
	Name          string
	Width, Height uint16
	Patches       []Placement
}

// Textures encodes a TEXTURE1/TEXTURE2 lump including its offset table.
func Textures(defs ...TextureDef) []byte {
	var body bytes.Buffer
	offsets := make([]uint32, len(defs))
	tableLen := 4 + 4*len(defs)
	for i, d := range defs {
		offsets[i] = uint32(tableLen + body.Len())
		body.Write(Name(d.Name))
		binary.Write(&body, binary.LittleEndian, uint32(0))
		binary.Write(&body, binary.LittleEndian, d.Width)
		binary.Write(&body, binary.LittleEndian, d.Height)
		binary.Write(&body, binary.LittleEndian, uint32(0))
		binary.Write(&body, binary.LittleEndian, uint16(len(d.Patches)))
		for _, p := range d.Patches {
			binary.Write(&body, binary.LittleEndian, p.OriginX)
			binary.Write(&body, binary.LittleEndian, p.OriginY)
			binary.Write(&body, binary.LittleEndian, p.Patch)
			binary.Write(&body, binary.LittleEndian, uint16(1))
			binary.Write(&body, binary.LittleEndian, uint16(0))
		}
	}

	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint32(len(defs)))
	binary.Write(&buf, binary.LittleEndian, offsets)
	buf.Write(body.Bytes())
	return buf.Bytes()
}

// Palette encodes a PLAYPAL lump with two palette blocks. Indices not in
// colors are black in the first block; the second block is all white so
// tests can tell which block was used.
func Palette(colors map[byte][3]byte) []byte {
	data := make([]byte, 768*2)
	for idx, c := range colors {
		copy(data[int(idx)*3:], c[:])
	}
	for i := 768; i < len(data); i++ {
		data[i] = 0xFF
	}
	return data
}
