// Package config provides YAML-based configuration for the schematic CLI and
// render server.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration document.
type Config struct {
	Render RenderConfig `yaml:"render"`
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
}

// RenderConfig controls how documents are measured and drawn.
type RenderConfig struct {
	// Metrics selects the text metrics provider: "go" or "mono".
	Metrics string `yaml:"metrics"`
	// Strict fails renders that overflow instead of reporting diagnostics.
	Strict bool `yaml:"strict"`
	// Format is the default export format.
	Format string `yaml:"format"`
	// PNGScale is the number of pixels per point for PNG output.
	PNGScale float64 `yaml:"png_scale"`
	// CellWidth and CellHeight size a character cell, in points, for text grid
	// output and the terminal preview.
	CellWidth  float64 `yaml:"cell_width"`
	CellHeight float64 `yaml:"cell_height"`
	// MaxPageSize bounds page width and height, in points. Raster and text
	// grid output allocate in proportion to the page area.
	MaxPageSize float64 `yaml:"max_page_size"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Address      string        `yaml:"address"`
	BodyLimit    string        `yaml:"body_limit"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Render: RenderConfig{
			Metrics:     "go",
			Format:      "svg",
			PNGScale:    2,
			CellWidth:   6,
			CellHeight:  12,
			MaxPageSize: 14400,
		},
		Server: ServerConfig{
			Address:      "127.0.0.1:8090",
			BodyLimit:    "2M",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadConfig reads a YAML file over the defaults. A missing file yields the
// defaults; environment variables override both.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	cfg.applyEnvironmentOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvironmentOverrides lets the environment override file values.
func (c *Config) applyEnvironmentOverrides() {
	if addr := os.Getenv("SCHEMATIC_ADDR"); addr != "" {
		c.Server.Address = addr
	}
	if level := os.Getenv("SCHEMATIC_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
}

// Validate checks values that would otherwise fail deep inside a render.
func (c *Config) Validate() error {
	if c.Render.PNGScale <= 0 {
		return fmt.Errorf("render.png_scale must be positive, got %g", c.Render.PNGScale)
	}
	if c.Render.CellWidth <= 0 || c.Render.CellHeight <= 0 {
		return fmt.Errorf("render cell size must be positive, got %gx%g", c.Render.CellWidth, c.Render.CellHeight)
	}
	if !(c.Render.MaxPageSize > 0) || math.IsInf(c.Render.MaxPageSize, 0) {
		return fmt.Errorf("render.max_page_size must be positive and finite, got %g", c.Render.MaxPageSize)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// Level returns the configured log level.
func (c *Config) Level() slog.Level {
	level, _ := ParseLevel(c.Log.Level)
	return level
}

// ParseLevel converts a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %s", s)
	}
}
