// Command libwadmesh builds the C shared library exposing the level loader:
//
//	go build -buildmode=c-shared -o libwadmesh.so ./cmd/libwadmesh
//
// Bundles are copied into C-allocated memory and must be released with
// deletePoligonInfo exactly once.
package main

/*
#include <stdlib.h>
#include "wadmesh.h"
*/
import "C"

import (
	"os"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/wadmesh/internal/bridge"
	"github.com/Faultbox/wadmesh/internal/level"
	"github.com/Faultbox/wadmesh/internal/logger"
)

func init() {
	// The host owns stdout/stderr; stay silent unless asked.
	if lvl := os.Getenv("WADMESH_LOG_LEVEL"); lvl != "" {
		_ = logger.Init(lvl, os.Getenv("WADMESH_LOG_FILE"))
	}
}

//export loadPolygonsFromWadFile
func loadPolygonsFromWadFile(path, levelName *C.char) *C.struct_PoligonInfo {
	if path == nil || levelName == nil {
		return nil
	}

	b := bridge.Load(C.GoString(path), C.GoString(levelName))
	if b == nil {
		return nil
	}
	defer bridge.Free(b)

	return toC(b)
}

//export deletePoligonInfo
func deletePoligonInfo(info *C.struct_PoligonInfo) {
	if info == nil {
		return
	}
	C.free(unsafe.Pointer(info.atlas))
	C.free(unsafe.Pointer(info.texture))
	C.free(unsafe.Pointer(info.polygons))
	C.free(unsafe.Pointer(info))
}

func toC(b *level.Bundle) *C.struct_PoligonInfo {
	info := (*C.struct_PoligonInfo)(C.calloc(1, C.size_t(unsafe.Sizeof(C.struct_PoligonInfo{}))))

	info.atlasSize = C.uint(len(b.Rects))
	if n := len(b.Rects); n > 0 {
		info.atlas = (*C.struct_Atlas)(C.calloc(C.size_t(n), C.size_t(unsafe.Sizeof(C.struct_Atlas{}))))
		rects := unsafe.Slice(info.atlas, n)
		for i, r := range b.Rects {
			rects[i].position = vec2(r.Position)
			rects[i].size = vec2(r.Size)
		}
	}

	info.textureSize = C.uint(b.AtlasSize)
	if len(b.Atlas) > 0 {
		info.texture = (*C.uchar)(C.CBytes(b.Atlas))
	}

	info.count = C.uint(len(b.Polygons))
	if n := len(b.Polygons); n > 0 {
		info.polygons = (*C.struct_Poligon)(C.calloc(C.size_t(n), C.size_t(unsafe.Sizeof(C.struct_Poligon{}))))
		polys := unsafe.Slice(info.polygons, n)
		for i, p := range b.Polygons {
			dst := &polys[i]
			dst.right = C.char(p.Right)
			dst.atlas = C.ushort(p.Atlas)
			dst.p1, dst.p2, dst.p3, dst.p4 = vec3(p.P[0]), vec3(p.P[1]), vec3(p.P[2]), vec3(p.P[3])
			dst.uv1, dst.uv2, dst.uv3, dst.uv4 = vec2(p.UV[0]), vec2(p.UV[1]), vec2(p.UV[2]), vec2(p.UV[3])
		}
	}
	return info
}

func vec2(v mgl32.Vec2) C.struct_Vector2d_c {
	return C.struct_Vector2d_c{x: C.float(v[0]), y: C.float(v[1])}
}

func vec3(v mgl32.Vec3) C.struct_Vector3d_c {
	return C.struct_Vector3d_c{x: C.float(v[0]), y: C.float(v[1]), z: C.float(v[2])}
}

func main() {}
