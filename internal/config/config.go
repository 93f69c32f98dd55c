// Package config handles wadmesh configuration loading and management.
package config

import "fmt"

// MaxAtlasSize bounds the atlas edge length.
const MaxAtlasSize = 16384

// Config holds all tool settings.
type Config struct {
	Atlas   AtlasConfig   `yaml:"atlas"`
	Cache   CacheConfig   `yaml:"cache"`
	Export  ExportConfig  `yaml:"export"`
	Logging LoggingConfig `yaml:"logging"`
}

// AtlasConfig holds texture atlas settings.
type AtlasConfig struct {
	Size int `yaml:"size"` // Edge length in pixels
}

// CacheConfig holds bundle cache settings.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}

// ExportConfig holds export settings.
type ExportConfig struct {
	OutputDir string `yaml:"output_dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Atlas: AtlasConfig{
			Size: 4096,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     CacheDir(),
		},
		Export: ExportConfig{
			OutputDir: ".",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks settings that would make the pipeline fail later.
func (c *Config) Validate() error {
	if c.Atlas.Size <= 0 || c.Atlas.Size > MaxAtlasSize {
		return fmt.Errorf("atlas size %d out of range (1..%d)", c.Atlas.Size, MaxAtlasSize)
	}
	if c.Cache.Enabled && c.Cache.Dir == "" {
		return fmt.Errorf("cache enabled without a directory")
	}
	return nil
}
