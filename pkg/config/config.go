// Package config loads batchdash configuration from TOML, YAML, or JSON
// files with sensible defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration options for batchdash.
type Config struct {
	// Input controls spreadsheet ingestion.
	Input InputConfig `koanf:"input"`

	// Analysis controls the section analyzers.
	Analysis AnalysisConfig `koanf:"analysis"`

	// Output controls the generated document and console output.
	Output OutputConfig `koanf:"output"`
}

// InputConfig controls how source files are read.
type InputConfig struct {
	// Sheet is the worksheet read from Excel workbooks; empty means the
	// first sheet.
	Sheet string `koanf:"sheet"`

	// Extensions are the data file extensions picked up when a directory is
	// passed instead of individual files.
	Extensions []string `koanf:"extensions"`
}

// AnalysisConfig controls analyzer parameters.
type AnalysisConfig struct {
	TrendMonths      int   `koanf:"trend_months"`
	TopErrorTypes    int   `koanf:"top_error_types"`
	MaxLagMonths     int   `koanf:"max_lag_months"`
	ProjectionMonths int   `koanf:"projection_months"`
	Jitter           bool  `koanf:"jitter"`
	JitterSeed       int64 `koanf:"jitter_seed"`
}

// OutputConfig controls output destination and formatting.
type OutputConfig struct {
	File   string `koanf:"file"`
	Format string `koanf:"format"` // text, json, markdown, toon
	Color  bool   `koanf:"color"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Input: InputConfig{
			Sheet:      "",
			Extensions: []string{".xlsx", ".xlsm", ".csv", ".json"},
		},
		Analysis: AnalysisConfig{
			TrendMonths:      12,
			TopErrorTypes:    3,
			MaxLagMonths:     3,
			ProjectionMonths: 3,
			Jitter:           false,
			JitterSeed:       0,
		},
		Output: OutputConfig{
			File:   "dashboard.json",
			Format: "text",
			Color:  true,
		},
	}
}

// Load loads configuration from a file, layering it over the defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		parser = toml.Parser()
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault tries standard config locations and falls back to defaults.
func LoadOrDefault() *Config {
	names := []string{
		"batchdash.toml",
		"batchdash.yaml",
		"batchdash.yml",
		"batchdash.json",
		".batchdash.toml",
		".batchdash.yaml",
	}

	for _, name := range names {
		if _, err := os.Stat(name); err == nil {
			if cfg, err := Load(name); err == nil {
				return cfg
			}
		}
	}
	return DefaultConfig()
}

// IsDataFile reports whether path has one of the configured data extensions.
func (c *Config) IsDataFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, want := range c.Input.Extensions {
		if ext == want {
			return true
		}
	}
	return false
}
