// Package config loads the airframe CLI settings from YAML.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/chazu/airframe/pkg/component"
	"github.com/chazu/airframe/pkg/engine"
	"github.com/chazu/airframe/pkg/export"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the airframe CLI.
type Config struct {
	LogLevel string `yaml:"log_level"`

	Report ReportConfig `yaml:"report"`
	Export ExportConfig `yaml:"export"`
	Engine EngineConfig `yaml:"engine"`
}

// ReportConfig selects how component trees are tabulated.
type ReportConfig struct {
	Format string `yaml:"format"` // simple, recursive or bom
	Frames bool   `yaml:"frames"` // include O and Oaxis
}

// ExportConfig controls placed-geometry output.
type ExportConfig struct {
	Enabled   bool   `yaml:"enabled"` // also set by the -export flag
	Dir       string `yaml:"dir"`
	Separator string `yaml:"separator"` // joins artifact paths in output
	MeshCells int    `yaml:"mesh_cells"`
	CacheSize int    `yaml:"cache_size"` // local tessellations kept
}

// EngineConfig controls design evaluation.
type EngineConfig struct {
	Timeout time.Duration `yaml:"timeout"`
}

// Default returns Config with sensible defaults.
func Default() Config {
	return Config{
		LogLevel: "info",
		Report: ReportConfig{
			Format: string(component.FormatBOM),
			Frames: true,
		},
		Export: ExportConfig{
			Dir:       "out",
			Separator: export.DefaultSeparator,
			MeshCells: 200,
			CacheSize: 128,
		},
		Engine: EngineConfig{
			Timeout: engine.EvalTimeout,
		},
	}
}

// Load loads config from a YAML file. If the file doesn't exist, returns
// defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks fields that have a closed set of values.
func (c Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	if _, err := component.ParseFormat(c.Report.Format); err != nil {
		return fmt.Errorf("report.format: %w", err)
	}
	if c.Export.MeshCells < 0 {
		return fmt.Errorf("export.mesh_cells: %d is negative", c.Export.MeshCells)
	}
	if c.Export.CacheSize < 0 {
		return fmt.Errorf("export.cache_size: %d is negative", c.Export.CacheSize)
	}
	return nil
}

// Level parses LogLevel. An empty level means info.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level: %w", err)
	}
	return l, nil
}
