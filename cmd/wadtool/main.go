// wadtool is a CLI utility for inspecting WAD archives and exporting levels.
package main

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/wadmesh/internal/cache"
	"github.com/Faultbox/wadmesh/internal/config"
	"github.com/Faultbox/wadmesh/internal/level"
	"github.com/Faultbox/wadmesh/internal/logger"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	args := config.Args()
	if len(args) < 1 {
		printUsage(os.Stdout)
		os.Exit(1)
	}

	a := &app{cfg: cfg, out: os.Stdout}
	defer a.close()

	if err := a.run(args[0], args[1:]); err != nil {
		a.fail(args[0], err)
		os.Exit(1)
	}
}

// errUsage reports a bad invocation with the expected syntax.
type errUsage string

func (e errUsage) Error() string { return "usage: " + string(e) }

type app struct {
	cfg   *config.Config
	out   io.Writer
	store *cache.Store
}

func (a *app) run(command string, args []string) error {
	switch command {
	case "info":
		return a.cmdInfo(args)
	case "levels":
		return a.cmdLevels(args)
	case "lumps", "ls":
		return a.cmdLumps(args)
	case "extract", "x":
		return a.cmdExtract(args)
	case "textures":
		return a.cmdTextures(args)
	case "atlas":
		return a.cmdAtlas(args)
	case "mesh":
		return a.cmdMesh(args)
	case "export":
		return a.cmdExport(args)
	case "help", "-h", "--help":
		printUsage(a.out)
		return nil
	default:
		printUsage(a.out)
		return fmt.Errorf("unknown command: %s", command)
	}
}

// options builds pipeline options from the config, opening the cache lazily.
func (a *app) options() level.Options {
	opts := level.Options{AtlasSize: a.cfg.Atlas.Size}
	if !a.cfg.Cache.Enabled {
		return opts
	}
	if a.store == nil {
		store, err := cache.Open(a.cfg.Cache.Dir)
		if err != nil {
			logger.Warn("cache disabled", zap.Error(err))
			a.cfg.Cache.Enabled = false
			return opts
		}
		a.store = store
	}
	opts.Cache = a.store
	return opts
}

func (a *app) close() {
	if a.store != nil {
		a.store.Close()
		a.store = nil
	}
}

// fail logs a failed command and releases what the deferred close would,
// since os.Exit skips deferred calls.
func (a *app) fail(command string, err error) {
	logger.Error("command failed", zap.String("command", command), zap.Error(err))
	a.close()
	logger.Sync()
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `wadtool - WAD archive and level mesh utility

Usage:
  wadtool [flags] <command> [options]

Flags:
  -config <file>      Config file (default ./wadmesh.yaml or user config dir)
  -debug              Enable debug logging
  -atlas-size <px>    Atlas edge length
  -cache-dir <dir>    Bundle cache directory
  -no-cache           Disable the bundle cache
  -out <dir>          Export output directory

Commands:
  info <file.wad>                       Show archive information
  levels <file.wad>                     List levels and their lumps
  lumps <file.wad> [pattern]            List lumps (optional glob pattern)
  extract <file.wad> <lump> [output]    Extract a lump to a directory
  textures <file.wad>                   List composite textures
  atlas <file.wad> <out.png>            Pack every texture into an atlas PNG
  mesh <file.wad> <level>               Show wall mesh statistics
  export <file.wad> <level> [out.glb]   Export level walls as binary glTF

Examples:
  wadtool info doom1.wad
  wadtool lumps doom1.wad "E1M*"
  wadtool -atlas-size 2048 atlas doom1.wad atlas.png
  wadtool export doom1.wad E1M1`)
}
