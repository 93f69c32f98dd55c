package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Faultbox/wadmesh/internal/export"
	"github.com/Faultbox/wadmesh/internal/level"
	"github.com/Faultbox/wadmesh/internal/texture"
	"github.com/Faultbox/wadmesh/pkg/wad"
)

func (a *app) cmdInfo(args []string) error {
	if len(args) < 1 {
		return errUsage("wadtool info <file.wad>")
	}

	archive, err := wad.Open(args[0])
	if err != nil {
		return err
	}
	defer archive.Close()

	var total int64
	markers := 0
	for _, l := range archive.Lumps() {
		total += int64(l.Size)
		if l.Size == 0 {
			markers++
		}
	}

	kind := archive.Identification()
	switch kind {
	case "IWAD":
		kind += " (main)"
	case "PWAD":
		kind += " (patch)"
	default:
		kind += " (unknown)"
	}

	fmt.Fprintf(a.out, "Archive:   %s\n", args[0])
	fmt.Fprintf(a.out, "Type:      %s\n", kind)
	fmt.Fprintf(a.out, "Lumps:     %d (%d markers)\n", len(archive.Lumps()), markers)
	fmt.Fprintf(a.out, "Data:      %.2f MB\n", float64(total)/(1024*1024))
	fmt.Fprintf(a.out, "Directory: offset %d\n", archive.Header().DirOffset)
	fmt.Fprintf(a.out, "Levels:    %d\n", len(archive.LevelNames()))

	if archive.Contains("TEXTURE1") {
		set, err := texture.Load(archive)
		if err != nil {
			fmt.Fprintf(a.out, "Textures:  unreadable (%v)\n", err)
			return nil
		}
		fmt.Fprintf(a.out, "Textures:  %d (%d patches)\n", len(set.Names()), len(set.Patches))
	}
	return nil
}

func (a *app) cmdLevels(args []string) error {
	if len(args) < 1 {
		return errUsage("wadtool levels <file.wad>")
	}

	archive, err := wad.Open(args[0])
	if err != nil {
		return err
	}
	defer archive.Close()

	for _, name := range archive.LevelNames() {
		lvl, err := archive.Level(name)
		if err != nil {
			return err
		}
		names := make([]string, len(lvl.Lumps))
		for i, l := range lvl.Lumps {
			names[i] = l.Name
		}
		fmt.Fprintf(a.out, "%-8s %s\n", name, strings.Join(names, " "))
	}
	return nil
}

func (a *app) cmdLumps(args []string) error {
	fs := flag.NewFlagSet("lumps", flag.ContinueOnError)
	fs.SetOutput(a.out)
	limit := fs.Int("n", 0, "Limit output to N lumps (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() < 1 {
		return errUsage("wadtool lumps <file.wad> [pattern]")
	}

	archive, err := wad.Open(fs.Arg(0))
	if err != nil {
		return err
	}
	defer archive.Close()

	pattern := ""
	if fs.NArg() > 1 {
		pattern = strings.ToUpper(fs.Arg(1))
	}

	count := 0
	for i, l := range archive.Lumps() {
		if pattern != "" {
			matched, _ := filepath.Match(pattern, l.Name)
			if !matched {
				continue
			}
		}
		fmt.Fprintf(a.out, "%5d  %-8s %10d %8d\n", i, l.Name, l.Offset, l.Size)
		count++
		if *limit > 0 && count >= *limit {
			break
		}
	}

	if pattern != "" {
		fmt.Fprintf(os.Stderr, "\n(%d lumps matched)\n", count)
	}
	return nil
}

func (a *app) cmdExtract(args []string) error {
	if len(args) < 2 {
		return errUsage("wadtool extract <file.wad> <lump> [output_dir]")
	}

	outputDir := "."
	if len(args) > 2 {
		outputDir = args[2]
	}

	archive, err := wad.Open(args[0])
	if err != nil {
		return err
	}
	defer archive.Close()

	data, err := archive.ReadLumpByName(args[1])
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	outputPath := filepath.Join(outputDir, args[1]+".lmp")
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}

	fmt.Fprintf(a.out, "Extracted: %s (%d bytes)\n", outputPath, len(data))
	return nil
}

func (a *app) cmdTextures(args []string) error {
	if len(args) < 1 {
		return errUsage("wadtool textures <file.wad>")
	}

	archive, err := wad.Open(args[0])
	if err != nil {
		return err
	}
	defer archive.Close()

	set, err := texture.Load(archive)
	if err != nil {
		return err
	}

	for _, name := range set.Names() {
		def, _ := set.Def(name)
		fmt.Fprintf(a.out, "%-8s %4dx%-4d %d patches\n", name, def.Width, def.Height, len(def.Patches))
	}
	return nil
}

func (a *app) cmdAtlas(args []string) error {
	if len(args) < 2 {
		return errUsage("wadtool atlas <file.wad> <out.png>")
	}

	archive, err := wad.Open(args[0])
	if err != nil {
		return err
	}
	defer archive.Close()

	packer, err := level.PackTextures(archive, a.cfg.Atlas.Size)
	if err != nil {
		return err
	}

	b := &level.Bundle{Atlas: packer.Pixels(), AtlasSize: packer.Size(), Rects: packer.Rects()}
	if err := export.SaveAtlasPNG(b, args[1]); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Atlas: %s (%d textures, %dx%d)\n", args[1], len(b.Rects), b.AtlasSize, b.AtlasSize)
	return nil
}

func (a *app) cmdMesh(args []string) error {
	if len(args) < 2 {
		return errUsage("wadtool mesh <file.wad> <level>")
	}

	b, err := level.Load(args[0], args[1], a.options())
	if err != nil {
		return err
	}
	defer b.Release()

	m := b.Mesh()
	left := 0
	for _, p := range b.Polygons {
		if p.Right != 0 {
			left++
		}
	}

	fmt.Fprintf(a.out, "Level:     %s\n", args[1])
	fmt.Fprintf(a.out, "Polygons:  %d (%d left, %d right)\n", len(b.Polygons), left, len(b.Polygons)-left)
	fmt.Fprintf(a.out, "Vertices:  %d\n", len(m.Vertices))
	fmt.Fprintf(a.out, "Triangles: %d\n", len(m.Indices)/3)
	fmt.Fprintf(a.out, "Textures:  %d used of %d\n", len(m.Groups), len(b.Rects))
	fmt.Fprintf(a.out, "Bounds:    (%.0f, %.0f, %.0f) - (%.0f, %.0f, %.0f)\n",
		m.Bounds.Min[0], m.Bounds.Min[1], m.Bounds.Min[2],
		m.Bounds.Max[0], m.Bounds.Max[1], m.Bounds.Max[2])
	return nil
}

func (a *app) cmdExport(args []string) error {
	if len(args) < 2 {
		return errUsage("wadtool export <file.wad> <level> [out.glb]")
	}

	out := filepath.Join(a.cfg.Export.OutputDir, args[1]+".glb")
	if len(args) > 2 {
		out = args[2]
	}

	b, err := level.Load(args[0], args[1], a.options())
	if err != nil {
		return err
	}
	defer b.Release()

	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	if err := export.SaveGLB(b, args[1], out); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Exported: %s (%d polygons)\n", out, len(b.Polygons))
	return nil
}
