// Package mesh turns level geometry into textured wall quads and triangle
// meshes.
package mesh

import "github.com/go-gl/mathgl/mgl32"

// Side flags stored in Polygon.Right.
const (
	RightSide uint8 = 0
	LeftSide  uint8 = 1
)

// Polygon is one wall quad. Corners run bottom-start, top-start, top-end,
// bottom-end. UVs are in texture pixels / texture size and grow past 1 on
// walls longer than their texture.
type Polygon struct {
	Right uint8
	Atlas uint16
	P     [4]mgl32.Vec3
	UV    [4]mgl32.Vec2
}

// Normal returns the unit normal of the face Build emits for the quad, or
// the zero vector for a degenerate quad.
func (p Polygon) Normal() mgl32.Vec3 {
	n := p.P[1].Sub(p.P[0]).Cross(p.P[3].Sub(p.P[0]))
	if n.Len() == 0 {
		return mgl32.Vec3{}
	}
	if p.Right == LeftSide {
		n = n.Mul(-1)
	}
	return n.Normalize()
}

// Vertex is a triangulated quad corner.
type Vertex struct {
	Position mgl32.Vec3
	UV       mgl32.Vec2
	Atlas    uint16
}

// Group is a run of indices sharing one atlas texture.
type Group struct {
	Atlas      uint16
	StartIndex int32
	IndexCount int32
}

// Mesh holds triangulated walls ready for upload or export.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Groups   []Group
	Bounds   Bounds
}

// Bounds holds the axis-aligned bounding box of the mesh.
type Bounds struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}
