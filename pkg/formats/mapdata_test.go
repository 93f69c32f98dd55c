package formats

import (
	"bytes"
	"errors"
	"testing"

	"github.com/Faultbox/wadmesh/pkg/wad"
	"github.com/Faultbox/wadmesh/pkg/wad/wadtest"
)

func TestDecodeSector(t *testing.T) {
	rec := wadtest.Sector(-16, 128, "FLOOR4_8", "CEIL3_5", 160, 9, 0xBEEF)
	if len(rec) != SectorSize {
		t.Fatalf("expected %d byte record, got %d", SectorSize, len(rec))
	}

	s := DecodeSector(rec)
	if s.FloorHeight != -16 || s.CeilingHeight != 128 {
		t.Errorf("expected heights -16/128, got %d/%d", s.FloorHeight, s.CeilingHeight)
	}
	if s.FloorTexture != "FLOOR4_8" {
		t.Errorf("expected floor FLOOR4_8, got %q", s.FloorTexture)
	}
	if s.CeilingTexture != "CEIL3_5" {
		t.Errorf("expected ceiling CEIL3_5, got %q", s.CeilingTexture)
	}
	if s.LightLevel != 160 || s.Type != 9 || s.Tag != 0xBEEF {
		t.Errorf("unexpected light/type/tag: %d/%d/%x", s.LightLevel, s.Type, s.Tag)
	}
}

func TestDecodeSideDef(t *testing.T) {
	rec := wadtest.SideDef(-8, 24, "STARTAN3", "-", "", 7)
	if len(rec) != SideDefSize {
		t.Fatalf("expected %d byte record, got %d", SideDefSize, len(rec))
	}

	s := DecodeSideDef(rec)
	if s.OffsetX != -8 || s.OffsetY != 24 {
		t.Errorf("expected offsets -8/24, got %d/%d", s.OffsetX, s.OffsetY)
	}
	if s.UpperTexture != "STARTAN3" || s.LowerTexture != "-" || s.MiddleTexture != "" {
		t.Errorf("unexpected textures %q/%q/%q", s.UpperTexture, s.LowerTexture, s.MiddleTexture)
	}
	if s.Sector != 7 {
		t.Errorf("expected sector 7, got %d", s.Sector)
	}
}

func TestDecodeLineDef(t *testing.T) {
	rec := wadtest.LineDef(1, 2, 4, 11, 3, 0, NoSide)
	if len(rec) != LineDefSize {
		t.Fatalf("expected %d byte record, got %d", LineDefSize, len(rec))
	}

	l := DecodeLineDef(rec)
	want := LineDef{StartVertex: 1, EndVertex: 2, Flags: 4, Type: 11, Tag: 3, RightSide: 0, LeftSide: NoSide}
	if l != want {
		t.Errorf("got %+v, expected %+v", l, want)
	}
}

func TestDecodeVertex(t *testing.T) {
	v := DecodeVertex(wadtest.Vertex(-1024, 3072))
	if v.X != -1024 || v.Y != 3072 {
		t.Errorf("expected (-1024, 3072), got (%d, %d)", v.X, v.Y)
	}
}

func TestHasTexture(t *testing.T) {
	tests := []struct {
		name     string
		expected bool
	}{
		{"", false},
		{"-", false},
		{"-GARBAGE", false},
		{"STARTAN3", true},
		{"W", true},
	}
	for _, tc := range tests {
		if HasTexture(tc.name) != tc.expected {
			t.Errorf("HasTexture(%q): expected %v", tc.name, tc.expected)
		}
	}
}

func TestLoadMapData(t *testing.T) {
	data := wadtest.New().
		Marker("E1M1").
		Add("LINEDEFS", wadtest.LineDef(0, 1, 0, 0, 0, 0, NoSide)).
		Add("SIDEDEFS", wadtest.SideDef(0, 0, "-", "-", "WALL", 0)).
		Add("VERTEXES", wadtest.Concat(wadtest.Vertex(0, 0), wadtest.Vertex(64, 0))).
		Add("SECTORS", wadtest.Sector(0, 128, "F", "C", 255, 0, 0)).
		Bytes()

	a, err := wad.NewReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	level, err := a.Level("E1M1")
	if err != nil {
		t.Fatalf("Level failed: %v", err)
	}

	m, err := LoadMapData(a, level)
	if err != nil {
		t.Fatalf("LoadMapData failed: %v", err)
	}
	if len(m.LineDefs) != 1 || len(m.SideDefs) != 1 || len(m.Vertices) != 2 || len(m.Sectors) != 1 {
		t.Errorf("unexpected record counts: %d/%d/%d/%d",
			len(m.LineDefs), len(m.SideDefs), len(m.Vertices), len(m.Sectors))
	}
	if m.SideDefs[0].MiddleTexture != "WALL" {
		t.Errorf("expected middle texture WALL, got %q", m.SideDefs[0].MiddleTexture)
	}
}

func TestLoadMapData_MissingLump(t *testing.T) {
	data := wadtest.New().
		Marker("E1M1").
		Add("SECTORS", wadtest.Sector(0, 128, "F", "C", 255, 0, 0)).
		Bytes()

	a, err := wad.NewReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	level, _ := a.Level("E1M1")

	_, err = LoadMapData(a, level)
	if !errors.Is(err, wad.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
