// Package export writes level bundles to interchange formats: the atlas as
// PNG and the walls as binary glTF.
package export

import (
	"bytes"
	"image"
	"image/draw"
	"image/png"
	"io"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/Faultbox/wadmesh/internal/atlas"
	"github.com/Faultbox/wadmesh/internal/level"
	"github.com/Faultbox/wadmesh/internal/logger"
	"github.com/Faultbox/wadmesh/internal/mesh"
)

// WriteAtlasPNG encodes the bundle atlas as an RGBA PNG.
func WriteAtlasPNG(b *level.Bundle, w io.Writer) error {
	img := atlas.Image(b.Atlas, b.AtlasSize)
	if err := png.Encode(w, img); err != nil {
		return errors.Wrap(err, "encoding atlas png")
	}
	return nil
}

// SaveAtlasPNG writes the bundle atlas to path.
func SaveAtlasPNG(b *level.Bundle, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %q", path)
	}
	if err := WriteAtlasPNG(b, f); err != nil {
		f.Close()
		return err
	}
	return errors.Wrapf(f.Close(), "failed to close %q", path)
}

// Document builds a glTF document with one primitive per atlas texture.
// Wall UVs tile, so each texture is embedded as its own repeating image
// rather than sampled out of the shared atlas.
func Document(b *level.Bundle, name string) (*gltf.Document, error) {
	doc := gltf.NewDocument()
	doc.Asset.Generator = "wadmesh"
	doc.Samplers = []*gltf.Sampler{{
		MagFilter: gltf.MagNearest,
		MinFilter: gltf.MinNearest,
		WrapS:     gltf.WrapRepeat,
		WrapT:     gltf.WrapRepeat,
	}}

	src := atlas.Image(b.Atlas, b.AtlasSize)
	m := mesh.Build(b.Polygons)

	gm := &gltf.Mesh{Name: name}
	for _, g := range m.Groups {
		if int(g.Atlas) >= len(b.Rects) {
			return nil, errors.Errorf("polygon references atlas %d of %d", g.Atlas, len(b.Rects))
		}
		rect := b.Rects[g.Atlas]

		mat, err := addMaterial(doc, src, rect, b.AtlasSize)
		if err != nil {
			return nil, err
		}

		positions, normals, uvs, indices := groupGeometry(b.Polygons, m, g)
		prim := &gltf.Primitive{
			Attributes: map[string]uint32{
				gltf.POSITION:   uint32(modeler.WritePosition(doc, positions)),
				gltf.NORMAL:     uint32(modeler.WriteNormal(doc, normals)),
				gltf.TEXCOORD_0: uint32(modeler.WriteTextureCoord(doc, uvs)),
			},
			Indices:  gltf.Index(uint32(modeler.WriteIndices(doc, indices))),
			Material: gltf.Index(mat),
		}
		gm.Primitives = append(gm.Primitives, prim)
	}

	if len(gm.Primitives) > 0 {
		doc.Meshes = []*gltf.Mesh{gm}
		doc.Nodes = []*gltf.Node{{Name: name, Mesh: gltf.Index(0)}}
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(0))
	}

	logger.Debug("gltf document built",
		zap.String("name", name),
		zap.Int("primitives", len(gm.Primitives)),
		zap.Int("images", len(doc.Images)))
	return doc, nil
}

// WriteGLB encodes the bundle as binary glTF.
func WriteGLB(b *level.Bundle, name string, w io.Writer) error {
	doc, err := Document(b, name)
	if err != nil {
		return err
	}
	enc := gltf.NewEncoder(w)
	enc.AsBinary = true
	if err := enc.Encode(doc); err != nil {
		return errors.Wrap(err, "encoding glb")
	}
	return nil
}

// SaveGLB writes the bundle as binary glTF to path.
func SaveGLB(b *level.Bundle, name, path string) error {
	doc, err := Document(b, name)
	if err != nil {
		return err
	}
	return errors.Wrapf(gltf.SaveBinary(doc, path), "failed to save %q", path)
}

func addMaterial(doc *gltf.Document, src *image.NRGBA, r atlas.Rect, atlasSize int) (uint32, error) {
	x := int(r.Position.X()*float32(atlasSize) + 0.5)
	y := int(r.Position.Y()*float32(atlasSize) + 0.5)

	tile := image.NewNRGBA(image.Rect(0, 0, r.Width, r.Height))
	draw.Draw(tile, tile.Bounds(), src, image.Pt(x, y), draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, tile); err != nil {
		return 0, errors.Wrapf(err, "encoding texture %s", r.Name)
	}
	img, err := modeler.WriteImage(doc, r.Name, "image/png", &buf)
	if err != nil {
		return 0, errors.Wrapf(err, "embedding texture %s", r.Name)
	}

	doc.Textures = append(doc.Textures, &gltf.Texture{
		Sampler: gltf.Index(0),
		Source:  gltf.Index(uint32(img)),
	})
	doc.Materials = append(doc.Materials, &gltf.Material{
		Name:      r.Name,
		AlphaMode: gltf.AlphaOpaque,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor:  &[4]float32{1, 1, 1, 1},
			BaseColorTexture: &gltf.TextureInfo{Index: uint32(len(doc.Textures) - 1)},
			MetallicFactor:   gltf.Float(0),
			RoughnessFactor:  gltf.Float(1),
		},
	})
	return uint32(len(doc.Materials) - 1), nil
}

// groupGeometry extracts the vertices of one group, reindexed from 0.
// Build keeps four vertices per polygon in polygon order.
func groupGeometry(polys []mesh.Polygon, m *mesh.Mesh, g mesh.Group) (positions, normals [][3]float32, uvs [][2]float32, indices []uint32) {
	remap := make(map[uint32]uint32)
	for _, idx := range m.Indices[g.StartIndex : g.StartIndex+g.IndexCount] {
		local, ok := remap[idx]
		if !ok {
			local = uint32(len(positions))
			remap[idx] = local

			v := m.Vertices[idx]
			n := polys[idx/4].Normal()
			if n.Len() == 0 {
				n = mgl32.Vec3{0, 1, 0}
			}
			positions = append(positions, [3]float32(v.Position))
			normals = append(normals, [3]float32(n))
			uvs = append(uvs, [2]float32(v.UV))
		}
		indices = append(indices, local)
	}
	return positions, normals, uvs, indices
}
