package formats

import (
	"errors"
	"testing"

	"github.com/Faultbox/wadmesh/pkg/wad/wadtest"
)

func TestParseTextureDefs(t *testing.T) {
	data := wadtest.Textures(
		wadtest.TextureDef{Name: "STARTAN3", Width: 128, Height: 128, Patches: []wadtest.Placement{
			{OriginX: 0, OriginY: 0, Patch: 0},
			{OriginX: 64, OriginY: -8, Patch: 2},
		}},
		wadtest.TextureDef{Name: "SKY1", Width: 256, Height: 128, Patches: []wadtest.Placement{
			{OriginX: 0, OriginY: 0, Patch: 1},
		}},
	)

	defs, err := ParseTextureDefs(data)
	if err != nil {
		t.Fatalf("ParseTextureDefs failed: %v", err)
	}
	if len(defs) != 2 {
		t.Fatalf("expected 2 textures, got %d", len(defs))
	}

	d := defs[0]
	if d.Name != "STARTAN3" || d.Width != 128 || d.Height != 128 {
		t.Errorf("unexpected first texture %q %dx%d", d.Name, d.Width, d.Height)
	}
	if len(d.Patches) != 2 {
		t.Fatalf("expected 2 patches, got %d", len(d.Patches))
	}
	if d.Patches[1].OriginX != 64 || d.Patches[1].OriginY != -8 || d.Patches[1].Patch != 2 {
		t.Errorf("unexpected placement %+v", d.Patches[1])
	}
	if d.Patches[1].StepDir != 1 {
		t.Errorf("expected stepdir 1, got %d", d.Patches[1].StepDir)
	}

	if defs[1].Name != "SKY1" || defs[1].Width != 256 {
		t.Errorf("unexpected second texture %q width %d", defs[1].Name, defs[1].Width)
	}
}

func TestParseTextureDefs_Truncated(t *testing.T) {
	data := wadtest.Textures(wadtest.TextureDef{Name: "A", Width: 8, Height: 8, Patches: []wadtest.Placement{{}}})

	for _, n := range []int{2, 6, 20, len(data) - 1} {
		if _, err := ParseTextureDefs(data[:n]); !errors.Is(err, ErrTruncatedTextures) {
			t.Errorf("len %d: expected ErrTruncatedTextures, got %v", n, err)
		}
	}
}
