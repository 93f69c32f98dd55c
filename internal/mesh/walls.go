package mesh

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/exp/constraints"

	"github.com/Faultbox/wadmesh/internal/atlas"
	"github.com/Faultbox/wadmesh/pkg/formats"
	"github.com/Faultbox/wadmesh/pkg/wad"
)

// TextureLookup resolves a texture name to its atlas index and rectangle.
// *atlas.Packer satisfies it.
type TextureLookup interface {
	Lookup(name string) (int, atlas.Rect, bool)
}

// Center returns the midpoint of the vertex bounding box, truncated toward
// zero. An empty slice centers on the origin.
func Center(vertices []formats.Vertex) (cx, cy int) {
	if len(vertices) == 0 {
		return 0, 0
	}
	minX, maxX := vertices[0].X, vertices[0].X
	minY, maxY := vertices[0].Y, vertices[0].Y
	for _, v := range vertices[1:] {
		minX, maxX = min(minX, v.X), max(maxX, v.X)
		minY, maxY = min(minY, v.Y), max(maxY, v.Y)
	}
	return midpoint(minX, maxX), midpoint(minY, maxY)
}

func midpoint[T constraints.Integer](lo, hi T) int {
	return (int(lo) + int(hi)) / 2
}

// isqrt returns floor(sqrt(n)) for n >= 0.
func isqrt(n int) int {
	r := int(math32.Sqrt(float32(n)))
	for r > 0 && r*r > n {
		r--
	}
	for (r+1)*(r+1) <= n {
		r++
	}
	return r
}

// side is one resolved side of a line-def.
type side struct {
	def    *formats.SideDef
	sector *formats.Sector
}

type exporter struct {
	m        *formats.MapData
	textures TextureLookup
	cx, cy   int
}

// ExportWalls emits the wall quads of every line-def, left side before right
// side, in line-def order.
func ExportWalls(m *formats.MapData, textures TextureLookup) ([]Polygon, error) {
	e := &exporter{m: m, textures: textures}
	e.cx, e.cy = Center(m.Vertices)

	var out []Polygon
	for i := range m.LineDefs {
		polys, err := e.line(&m.LineDefs[i])
		if err != nil {
			return nil, fmt.Errorf("line-def %d: %w", i, err)
		}
		out = append(out, polys...)
	}
	return out, nil
}

func (e *exporter) line(ld *formats.LineDef) ([]Polygon, error) {
	if int(ld.StartVertex) >= len(e.m.Vertices) || int(ld.EndVertex) >= len(e.m.Vertices) {
		return nil, fmt.Errorf("%w: vertex %d or %d of %d",
			wad.ErrCorruptData, ld.StartVertex, ld.EndVertex, len(e.m.Vertices))
	}

	left, err := e.side(ld.LeftSide)
	if err != nil {
		return nil, err
	}
	right, err := e.side(ld.RightSide)
	if err != nil {
		return nil, err
	}

	var out []Polygon
	if left.def != nil {
		other := right.sector
		if other == nil {
			other = left.sector
		}
		p, ok, err := e.wall(ld, left, other, LeftSide)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, p)
		}
	}
	if right.def != nil {
		other := left.sector
		if other == nil {
			other = right.sector
		}
		p, ok, err := e.wall(ld, right, other, RightSide)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// side resolves a side-def index. NoSide and out-of-range indices mean the
// line has no such side.
func (e *exporter) side(idx uint16) (side, error) {
	if idx == formats.NoSide || int(idx) >= len(e.m.SideDefs) {
		return side{}, nil
	}
	def := &e.m.SideDefs[idx]
	if def.Sector < 0 || int(def.Sector) >= len(e.m.Sectors) {
		return side{}, fmt.Errorf("%w: side-def %d references sector %d of %d",
			wad.ErrCorruptData, idx, def.Sector, len(e.m.Sectors))
	}
	return side{def: def, sector: &e.m.Sectors[def.Sector]}, nil
}

// wall picks middle, then lower, then upper texture. A lower wall runs from
// its own floor to the other ceiling, an upper wall from the other floor to
// its own ceiling.
func (e *exporter) wall(ld *formats.LineDef, s side, other *formats.Sector, flag uint8) (Polygon, bool, error) {
	own := s.sector
	var (
		name           string
		floor, ceiling int16
	)
	switch {
	case formats.HasTexture(s.def.MiddleTexture):
		name, floor, ceiling = s.def.MiddleTexture, own.FloorHeight, own.CeilingHeight
	case formats.HasTexture(s.def.LowerTexture):
		name, floor, ceiling = s.def.LowerTexture, own.FloorHeight, other.CeilingHeight
	case formats.HasTexture(s.def.UpperTexture):
		name, floor, ceiling = s.def.UpperTexture, other.FloorHeight, own.CeilingHeight
	default:
		return Polygon{}, false, nil
	}

	p, err := e.quad(ld, name, int(floor), int(ceiling), int(s.def.OffsetX), int(s.def.OffsetY))
	if err != nil {
		return Polygon{}, false, err
	}
	p.Right = flag
	return p, true, nil
}

func (e *exporter) quad(ld *formats.LineDef, name string, floor, ceiling, offsetX, offsetY int) (Polygon, error) {
	idx, rect, ok := e.textures.Lookup(name)
	if !ok {
		return Polygon{}, fmt.Errorf("%w: texture %q", wad.ErrNotFound, name)
	}
	if rect.Width <= 0 || rect.Height <= 0 {
		return Polygon{}, fmt.Errorf("%w: texture %q is %dx%d", wad.ErrCorruptData, name, rect.Width, rect.Height)
	}

	start := e.m.Vertices[ld.StartVertex]
	end := e.m.Vertices[ld.EndVertex]
	sx, sy := int(start.X)-e.cx, int(start.Y)-e.cy
	ex, ey := int(end.X)-e.cx, int(end.Y)-e.cy

	height := ceiling - floor
	dx, dy := sx-ex, sy-ey
	width := isqrt(dx*dx + dy*dy)

	tw, th := float32(rect.Width), float32(rect.Height)
	offU := float32(offsetX) / tw
	offV := float32(offsetY) / th
	endU := float32(width+offsetX) / tw
	endV := float32(height+offsetY) / th

	return Polygon{
		Atlas: uint16(idx),
		P: [4]mgl32.Vec3{
			{float32(-sx), float32(floor), float32(sy)},
			{float32(-sx), float32(ceiling), float32(sy)},
			{float32(-ex), float32(ceiling), float32(ey)},
			{float32(-ex), float32(floor), float32(ey)},
		},
		UV: [4]mgl32.Vec2{
			{offU, endV},
			{offU, offV},
			{endU, offV},
			{endU, endV},
		},
	}, nil
}
