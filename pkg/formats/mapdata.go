package formats

import (
	"encoding/binary"
	"fmt"

	"github.com/Faultbox/wadmesh/pkg/wad"
)

// Record sizes of the map lumps, in bytes.
const (
	LineDefSize = 14
	SideDefSize = 30
	VertexSize  = 4
	SectorSize  = 26
)

// NoSide marks an absent side-def on a line-def.
const NoSide uint16 = 0xFFFF

// Sector is a SECTORS record.
type Sector struct {
	FloorHeight    int16
	CeilingHeight  int16
	FloorTexture   string
	CeilingTexture string
	LightLevel     int16
	Type           int16
	Tag            uint16
}

// Vertex is a VERTEXES record in map units.
type Vertex struct {
	X, Y int16
}

// SideDef is a SIDEDEFS record.
type SideDef struct {
	OffsetX       int16
	OffsetY       int16
	UpperTexture  string
	LowerTexture  string
	MiddleTexture string
	Sector        int16
}

// LineDef is a LINEDEFS record.
type LineDef struct {
	StartVertex uint16
	EndVertex   uint16
	Flags       uint16
	Type        uint16
	Tag         uint16
	RightSide   uint16
	LeftSide    uint16
}

// MapData holds the records the wall exporter needs for one level.
type MapData struct {
	Sectors  []Sector
	Vertices []Vertex
	SideDefs []SideDef
	LineDefs []LineDef
}

// HasTexture reports whether a side-def texture slot names a texture.
// Empty names and names starting with "-" mean the slot is unused. The
// prefix rule follows existing map data, where "-" may carry trailing bytes.
func HasTexture(name string) bool {
	return name != "" && name[0] != '-'
}

func i16(b []byte) int16  { return int16(binary.LittleEndian.Uint16(b)) }
func u16(b []byte) uint16 { return binary.LittleEndian.Uint16(b) }

// DecodeSector decodes a 26-byte SECTORS record.
func DecodeSector(rec []byte) Sector {
	return Sector{
		FloorHeight:    i16(rec[0:]),
		CeilingHeight:  i16(rec[2:]),
		FloorTexture:   wad.Name8(rec[4:12]),
		CeilingTexture: wad.Name8(rec[12:20]),
		LightLevel:     i16(rec[20:]),
		Type:           i16(rec[22:]),
		Tag:            u16(rec[24:]),
	}
}

// DecodeVertex decodes a 4-byte VERTEXES record.
func DecodeVertex(rec []byte) Vertex {
	return Vertex{X: i16(rec[0:]), Y: i16(rec[2:])}
}

// DecodeSideDef decodes a 30-byte SIDEDEFS record.
func DecodeSideDef(rec []byte) SideDef {
	return SideDef{
		OffsetX:       i16(rec[0:]),
		OffsetY:       i16(rec[2:]),
		UpperTexture:  wad.Name8(rec[4:12]),
		LowerTexture:  wad.Name8(rec[12:20]),
		MiddleTexture: wad.Name8(rec[20:28]),
		Sector:        i16(rec[28:]),
	}
}

// DecodeLineDef decodes a 14-byte LINEDEFS record.
func DecodeLineDef(rec []byte) LineDef {
	return LineDef{
		StartVertex: u16(rec[0:]),
		EndVertex:   u16(rec[2:]),
		Flags:       u16(rec[4:]),
		Type:        u16(rec[6:]),
		Tag:         u16(rec[8:]),
		RightSide:   u16(rec[10:]),
		LeftSide:    u16(rec[12:]),
	}
}

// LoadSectors reads the SECTORS lump of level.
func LoadSectors(a *wad.Archive, level *wad.Level) ([]Sector, error) {
	return wad.LoadRecords(a, level, "SECTORS", SectorSize, DecodeSector)
}

// LoadVertices reads the VERTEXES lump of level.
func LoadVertices(a *wad.Archive, level *wad.Level) ([]Vertex, error) {
	return wad.LoadRecords(a, level, "VERTEXES", VertexSize, DecodeVertex)
}

// LoadSideDefs reads the SIDEDEFS lump of level.
func LoadSideDefs(a *wad.Archive, level *wad.Level) ([]SideDef, error) {
	return wad.LoadRecords(a, level, "SIDEDEFS", SideDefSize, DecodeSideDef)
}

// LoadLineDefs reads the LINEDEFS lump of level.
func LoadLineDefs(a *wad.Archive, level *wad.Level) ([]LineDef, error) {
	return wad.LoadRecords(a, level, "LINEDEFS", LineDefSize, DecodeLineDef)
}

// LoadMapData reads sectors, vertices, side-defs and line-defs of level.
func LoadMapData(a *wad.Archive, level *wad.Level) (*MapData, error) {
	var (
		m   MapData
		err error
	)

	if m.Sectors, err = LoadSectors(a, level); err != nil {
		return nil, fmt.Errorf("loading sectors: %w", err)
	}
	if m.Vertices, err = LoadVertices(a, level); err != nil {
		return nil, fmt.Errorf("loading vertices: %w", err)
	}
	if m.SideDefs, err = LoadSideDefs(a, level); err != nil {
		return nil, fmt.Errorf("loading side-defs: %w", err)
	}
	if m.LineDefs, err = LoadLineDefs(a, level); err != nil {
		return nil, fmt.Errorf("loading line-defs: %w", err)
	}

	return &m, nil
}
