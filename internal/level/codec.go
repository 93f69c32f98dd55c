package level

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/wadmesh/internal/atlas"
	"github.com/Faultbox/wadmesh/internal/mesh"
	"github.com/Faultbox/wadmesh/pkg/wad"
)

const bundleMagic = "WMB1"

// ErrBadBundle is returned when encoded bundle data cannot be decoded.
var ErrBadBundle = fmt.Errorf("%w: invalid bundle encoding", wad.ErrCorruptData)

type diskHeader struct {
	Magic     [4]byte
	AtlasSize uint32
	NumRects  uint32
	NumPolys  uint32
}

type diskRect struct {
	Name     [wad.NameSize]byte
	Position [2]float32
	Size     [2]float32
	Width    uint32
	Height   uint32
}

type diskPolygon struct {
	Right uint8
	_     uint8
	Atlas uint16
	P     [12]float32
	UV    [8]float32
}

// MarshalBinary encodes the bundle: header, rect table, polygons, then the
// raw atlas.
func (b *Bundle) MarshalBinary() []byte {
	var buf bytes.Buffer
	hdr := diskHeader{
		AtlasSize: uint32(b.AtlasSize),
		NumRects:  uint32(len(b.Rects)),
		NumPolys:  uint32(len(b.Polygons)),
	}
	copy(hdr.Magic[:], bundleMagic)
	_ = binary.Write(&buf, binary.LittleEndian, hdr)

	rects := make([]diskRect, len(b.Rects))
	for i, r := range b.Rects {
		copy(rects[i].Name[:], r.Name)
		rects[i].Position = [2]float32(r.Position)
		rects[i].Size = [2]float32(r.Size)
		rects[i].Width = uint32(r.Width)
		rects[i].Height = uint32(r.Height)
	}
	_ = binary.Write(&buf, binary.LittleEndian, rects)

	polys := make([]diskPolygon, len(b.Polygons))
	for i, p := range b.Polygons {
		polys[i].Right = p.Right
		polys[i].Atlas = p.Atlas
		for j := 0; j < 4; j++ {
			copy(polys[i].P[j*3:], p.P[j][:])
			copy(polys[i].UV[j*2:], p.UV[j][:])
		}
	}
	_ = binary.Write(&buf, binary.LittleEndian, polys)

	buf.Write(b.Atlas)
	return buf.Bytes()
}

// UnmarshalBundle decodes data produced by MarshalBinary.
func UnmarshalBundle(data []byte) (*Bundle, error) {
	r := bytes.NewReader(data)

	var hdr diskHeader
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrBadBundle, err)
	}
	if string(hdr.Magic[:]) != bundleMagic {
		return nil, fmt.Errorf("%w: magic %q", ErrBadBundle, hdr.Magic[:])
	}

	atlasLen := int64(hdr.AtlasSize) * int64(hdr.AtlasSize) * atlas.BytesPerPixel
	want := int64(binary.Size(hdr)) +
		int64(hdr.NumRects)*int64(binary.Size(diskRect{})) +
		int64(hdr.NumPolys)*int64(binary.Size(diskPolygon{})) +
		atlasLen
	if want != int64(len(data)) {
		return nil, fmt.Errorf("%w: %d bytes, want %d", ErrBadBundle, len(data), want)
	}

	rects := make([]diskRect, hdr.NumRects)
	if err := binary.Read(r, binary.LittleEndian, rects); err != nil {
		return nil, fmt.Errorf("%w: rects: %v", ErrBadBundle, err)
	}
	polys := make([]diskPolygon, hdr.NumPolys)
	if err := binary.Read(r, binary.LittleEndian, polys); err != nil {
		return nil, fmt.Errorf("%w: polygons: %v", ErrBadBundle, err)
	}

	b := &Bundle{
		AtlasSize: int(hdr.AtlasSize),
		Atlas:     make([]byte, atlasLen),
		Rects:     make([]atlas.Rect, len(rects)),
		Polygons:  make([]mesh.Polygon, len(polys)),
	}
	if _, err := io.ReadFull(r, b.Atlas); err != nil {
		return nil, fmt.Errorf("%w: atlas: %v", ErrBadBundle, err)
	}

	for i, dr := range rects {
		b.Rects[i] = atlas.Rect{
			Name:     wad.Name8(dr.Name[:]),
			Position: mgl32.Vec2(dr.Position),
			Size:     mgl32.Vec2(dr.Size),
			Width:    int(dr.Width),
			Height:   int(dr.Height),
		}
	}
	for i, dp := range polys {
		p := &b.Polygons[i]
		p.Right = dp.Right
		p.Atlas = dp.Atlas
		if int(p.Atlas) >= len(b.Rects) {
			return nil, fmt.Errorf("%w: polygon %d uses atlas %d of %d", ErrBadBundle, i, p.Atlas, len(b.Rects))
		}
		for j := 0; j < 4; j++ {
			p.P[j] = mgl32.Vec3{dp.P[j*3], dp.P[j*3+1], dp.P[j*3+2]}
			p.UV[j] = mgl32.Vec2{dp.UV[j*2], dp.UV[j*2+1]}
		}
	}
	return b, nil
}
