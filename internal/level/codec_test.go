package level

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/wadmesh/internal/atlas"
	"github.com/Faultbox/wadmesh/internal/mesh"
	"github.com/Faultbox/wadmesh/pkg/wad"
)

func sampleBundle() *Bundle {
	pixels := make([]byte, 2*2*4)
	for i := range pixels {
		pixels[i] = byte(i)
	}
	return &Bundle{
		Atlas:     pixels,
		AtlasSize: 2,
		Rects: []atlas.Rect{
			{Name: "STARTAN3", Position: mgl32.Vec2{0, 0}, Size: mgl32.Vec2{0.5, 1}, Width: 1, Height: 2},
			{Name: "DOOR3", Position: mgl32.Vec2{0.5, 0}, Size: mgl32.Vec2{0.5, 0.5}, Width: 1, Height: 1},
		},
		Polygons: []mesh.Polygon{{
			Right: mesh.LeftSide,
			Atlas: 1,
			P:     [4]mgl32.Vec3{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}, {-1, -2, -3}},
			UV:    [4]mgl32.Vec2{{0, 1.5}, {0, 0}, {2.25, 0}, {2.25, 1.5}},
		}},
	}
}

func TestBundleCodec(t *testing.T) {
	b := sampleBundle()
	got, err := UnmarshalBundle(b.MarshalBinary())
	require.NoError(t, err)
	assert.Equal(t, b, got)
}

func TestUnmarshalBundle_Invalid(t *testing.T) {
	data := sampleBundle().MarshalBinary()

	for name, bad := range map[string][]byte{
		"empty":     nil,
		"magic":     append([]byte("XXXX"), data[4:]...),
		"truncated": data[:len(data)-1],
		"trailing":  append(append([]byte{}, data...), 0),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := UnmarshalBundle(bad)
			assert.ErrorIs(t, err, ErrBadBundle)
			assert.ErrorIs(t, err, wad.ErrCorruptData)
		})
	}

	b := sampleBundle()
	b.Polygons[0].Atlas = 2
	_, err := UnmarshalBundle(b.MarshalBinary())
	assert.ErrorIs(t, err, ErrBadBundle)
}
