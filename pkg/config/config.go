package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/TpouHuK/halstead-js/pkg/models"
)

// EnvConfigPath names the environment variable that overrides config discovery.
const EnvConfigPath = "HALSTEAD_CONFIG"

// Config holds all configuration options for halstead.
type Config struct {
	// Analysis settings
	Analysis AnalysisConfig `koanf:"analysis" toml:"analysis"`

	// Thresholds reported by analyze
	Thresholds ThresholdConfig `koanf:"thresholds" toml:"thresholds"`

	// File exclusion patterns
	Exclude ExcludeConfig `koanf:"exclude" toml:"exclude"`

	// Cache settings
	Cache CacheConfig `koanf:"cache" toml:"cache"`

	// Output settings
	Output OutputConfig `koanf:"output" toml:"output"`
}

// AnalysisConfig controls how files are read and measured.
type AnalysisConfig struct {
	MaxFileSize int64  `koanf:"max_file_size" toml:"max_file_size"` // bytes, 0 = unlimited
	Workers     int    `koanf:"workers" toml:"workers"`             // 0 = NumCPU * multiplier
	Language    string `koanf:"language" toml:"language"`           // forced dialect for stdin input
}

// ThresholdConfig defines metric thresholds. Zero disables a check.
type ThresholdConfig struct {
	MaxIfDepth      int     `koanf:"max_if_depth" toml:"max_if_depth"`
	MaxIfSaturation float64 `koanf:"max_if_saturation" toml:"max_if_saturation"`
	MaxVolume       float64 `koanf:"max_volume" toml:"max_volume"`
}

// ExcludeConfig defines file exclusion patterns.
type ExcludeConfig struct {
	Patterns   []string `koanf:"patterns" toml:"patterns"`
	Extensions []string `koanf:"extensions" toml:"extensions"`
	Dirs       []string `koanf:"dirs" toml:"dirs"`
	Gitignore  bool     `koanf:"gitignore" toml:"gitignore"`
}

// CacheConfig controls caching behavior.
type CacheConfig struct {
	Enabled       bool   `koanf:"enabled" toml:"enabled"`
	Dir           string `koanf:"dir" toml:"dir"`
	TTL           int    `koanf:"ttl" toml:"ttl"` // TTL in hours
	MemoryEntries int    `koanf:"memory_entries" toml:"memory_entries"`
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format string `koanf:"format" toml:"format"` // text, json, markdown, toon, yaml
	Color  bool   `koanf:"color" toml:"color"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	defaults := models.DefaultThresholds()
	return &Config{
		Analysis: AnalysisConfig{
			MaxFileSize: 2 << 20,
			Workers:     0,
			Language:    "javascript",
		},
		Thresholds: ThresholdConfig{
			MaxIfDepth:      defaults.MaxIfDepth,
			MaxIfSaturation: defaults.MaxIfSaturation,
			MaxVolume:       defaults.MaxVolume,
		},
		Exclude: ExcludeConfig{
			Patterns: []string{
				"*.min.js",
				"*.bundle.js",
				"*.d.ts",
			},
			Extensions: []string{
				".map",
			},
			Dirs: []string{
				"node_modules",
				".git",
				".halstead",
				"dist",
				"build",
				"coverage",
			},
			Gitignore: true,
		},
		Cache: CacheConfig{
			Enabled:       true,
			Dir:           ".halstead/cache",
			TTL:           24,
			MemoryEntries: 512,
		},
		Output: OutputConfig{
			Format: "text",
			Color:  true,
		},
	}
}

// Load loads configuration from a file. Keys absent from the file keep
// their default values.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

// configNames are searched in order in "." and ".halstead".
var configNames = []string{
	"halstead.toml",
	"halstead.yaml",
	"halstead.yml",
	"halstead.json",
	".halstead.toml",
	".halstead.yaml",
	".halstead.yml",
	".halstead.json",
}

// Find returns the config file LoadOrDefault would use, or "" when none exists.
func Find() string {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return path
	}
	for _, dir := range []string{".", ".halstead"} {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}
	return ""
}

// LoadOrDefault loads the file named by HALSTEAD_CONFIG or the first standard
// config file found. It falls back to defaults when nothing loads.
func LoadOrDefault() *Config {
	if path := Find(); path != "" {
		if cfg, err := Load(path); err == nil {
			return cfg
		}
	}
	return DefaultConfig()
}

var validFormats = map[string]bool{
	"text":     true,
	"json":     true,
	"markdown": true,
	"toon":     true,
	"yaml":     true,
}

// Validate reports settings that cannot be honored.
func (c *Config) Validate() error {
	var errs []error
	if c.Analysis.MaxFileSize < 0 {
		errs = append(errs, errors.New("analysis.max_file_size must not be negative"))
	}
	if c.Analysis.Workers < 0 {
		errs = append(errs, errors.New("analysis.workers must not be negative"))
	}
	if c.Thresholds.MaxIfDepth < 0 || c.Thresholds.MaxIfSaturation < 0 || c.Thresholds.MaxVolume < 0 {
		errs = append(errs, errors.New("thresholds must not be negative"))
	}
	if c.Cache.TTL < 0 {
		errs = append(errs, errors.New("cache.ttl must not be negative"))
	}
	if c.Output.Format != "" && !validFormats[strings.ToLower(c.Output.Format)] {
		errs = append(errs, fmt.Errorf("unknown output.format %q", c.Output.Format))
	}
	return errors.Join(errs...)
}

// MetricThresholds converts the threshold section for the analyzer.
func (c *Config) MetricThresholds() models.Thresholds {
	return models.Thresholds{
		MaxIfDepth:      c.Thresholds.MaxIfDepth,
		MaxIfSaturation: c.Thresholds.MaxIfSaturation,
		MaxVolume:       c.Thresholds.MaxVolume,
	}
}

// CacheTTL returns the cache lifetime as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTL) * time.Hour
}

// ShouldExclude checks if a path should be excluded from analysis.
func (c *Config) ShouldExclude(path string) bool {
	path = filepath.ToSlash(path)

	for _, dir := range c.Exclude.Dirs {
		if strings.Contains(path, "/"+dir+"/") || strings.HasPrefix(path, dir+"/") {
			return true
		}
	}

	ext := filepath.Ext(path)
	for _, excludeExt := range c.Exclude.Extensions {
		if ext == excludeExt {
			return true
		}
	}

	base := filepath.Base(path)
	for _, pattern := range c.Exclude.Patterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}

	return false
}
