package config

import "flag"

var (
	flagConfig    = flag.String("config", "", "Path to config file")
	flagDebug     = flag.Bool("debug", false, "Enable debug logging")
	flagAtlasSize = flag.Int("atlas-size", 0, "Atlas edge length in pixels")
	flagCacheDir  = flag.String("cache-dir", "", "Bundle cache directory")
	flagNoCache   = flag.Bool("no-cache", false, "Disable the bundle cache")
	flagOutDir    = flag.String("out", "", "Export output directory")
)

// ParseFlags parses command-line flags. Call this early in main().
// Flags must precede the subcommand.
func ParseFlags() {
	flag.Parse()
}

// Args returns the arguments left after flag parsing.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagAtlasSize > 0 {
		cfg.Atlas.Size = *flagAtlasSize
	}
	if *flagCacheDir != "" {
		cfg.Cache.Dir = *flagCacheDir
		cfg.Cache.Enabled = true
	}
	if *flagNoCache {
		cfg.Cache.Enabled = false
	}
	if *flagOutDir != "" {
		cfg.Export.OutputDir = *flagOutDir
	}
}
