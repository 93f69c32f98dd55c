package mesh

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// Quad corner orders for the two triangles of a quad. Right-side quads use
// the reversed order so both faces of a two-sided line point outward.
var (
	leftOrder  = [6]uint32{2, 1, 0, 0, 3, 2}
	rightOrder = [6]uint32{2, 3, 0, 0, 1, 2}
)

// Build triangulates polys. Vertices keep polygon order; indices are grouped
// by atlas index in ascending order.
func Build(polys []Polygon) *Mesh {
	m := &Mesh{
		Vertices: make([]Vertex, 0, len(polys)*4),
	}
	if len(polys) == 0 {
		return m
	}

	bounds := Bounds{
		Min: mgl32.Vec3{boundsInit, boundsInit, boundsInit},
		Max: mgl32.Vec3{-boundsInit, -boundsInit, -boundsInit},
	}

	atlasIndices := make(map[uint16][]uint32)
	for _, p := range polys {
		base := uint32(len(m.Vertices))
		for i := range p.P {
			m.Vertices = append(m.Vertices, Vertex{Position: p.P[i], UV: p.UV[i], Atlas: p.Atlas})
			updateBounds(&bounds, p.P[i])
		}

		order := leftOrder
		if p.Right == RightSide {
			order = rightOrder
		}
		for _, o := range order {
			atlasIndices[p.Atlas] = append(atlasIndices[p.Atlas], base+o)
		}
	}

	keys := make([]int, 0, len(atlasIndices))
	for k := range atlasIndices {
		keys = append(keys, int(k))
	}
	sort.Ints(keys)

	for _, k := range keys {
		idx := atlasIndices[uint16(k)]
		m.Groups = append(m.Groups, Group{
			Atlas:      uint16(k),
			StartIndex: int32(len(m.Indices)),
			IndexCount: int32(len(idx)),
		})
		m.Indices = append(m.Indices, idx...)
	}
	m.Bounds = bounds
	return m
}

const boundsInit = float32(1e10)

func updateBounds(b *Bounds, p mgl32.Vec3) {
	for i := 0; i < 3; i++ {
		b.Min[i] = min(b.Min[i], p[i])
		b.Max[i] = max(b.Max[i], p[i])
	}
}
