// Package config handles brush tool configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned by Validate for out-of-range settings.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all brush tool settings.
type Config struct {
	Kernel  KernelConfig  `yaml:"kernel"`
	Texture TextureConfig `yaml:"texture"`
	Export  ExportConfig  `yaml:"export"`
	Metrics MetricsConfig `yaml:"metrics"`
	Logging LoggingConfig `yaml:"logging"`
}

// KernelConfig holds the geometry kernel tolerances.
type KernelConfig struct {
	// ClassifyEpsilon is the coarse tolerance used to classify faces and
	// solids against a plane, in world units.
	ClassifyEpsilon float64 `yaml:"classify_epsilon"`
	// ClipEpsilon is the fine tolerance used while clipping polygons.
	ClipEpsilon   float64 `yaml:"clip_epsilon"`
	RoundDecimals int     `yaml:"round_decimals"` // Decimals kept on constructed vertices
	PolygonRadius float64 `yaml:"polygon_radius"` // Half-extent of the initial face polygon
}

// TextureConfig holds texture projection defaults for new faces.
type TextureConfig struct {
	DefaultMaterial string  `yaml:"default_material"`
	DefaultWidth    int     `yaml:"default_width"`
	DefaultHeight   int     `yaml:"default_height"`
	DefaultScale    float64 `yaml:"default_scale"`
	LightmapScale   float64 `yaml:"lightmap_scale"`

	// MaterialDirs are scanned for texture files whose headers give the
	// material sizes.
	MaterialDirs []string `yaml:"material_dirs"`
}

// ExportConfig holds output settings.
type ExportConfig struct {
	IndentJSON bool `yaml:"indent_json"`
}

// MetricsConfig holds kernel metrics settings.
type MetricsConfig struct {
	Report bool `yaml:"report"` // Print kernel counters after each command
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Kernel: KernelConfig{
			ClassifyEpsilon: 0.5,
			ClipEpsilon:     0.0001,
			RoundDecimals:   2,
			PolygonRadius:   1_000_000,
		},
		Texture: TextureConfig{
			DefaultMaterial: "tools/nodraw",
			DefaultWidth:    64,
			DefaultHeight:   64,
			DefaultScale:    0.25,
			LightmapScale:   16,
		},
		Export: ExportConfig{
			IndentJSON: true,
		},
		Metrics: MetricsConfig{
			Report: false,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks that every setting is usable by the kernel.
func (c *Config) Validate() error {
	k := c.Kernel
	switch {
	case k.ClassifyEpsilon <= 0:
		return fmt.Errorf("%w: kernel.classify_epsilon must be positive, got %g", ErrInvalidConfig, k.ClassifyEpsilon)
	case k.ClipEpsilon <= 0:
		return fmt.Errorf("%w: kernel.clip_epsilon must be positive, got %g", ErrInvalidConfig, k.ClipEpsilon)
	case k.RoundDecimals < 0 || k.RoundDecimals > 10:
		return fmt.Errorf("%w: kernel.round_decimals must be in [0, 10], got %d", ErrInvalidConfig, k.RoundDecimals)
	case k.PolygonRadius <= 0:
		return fmt.Errorf("%w: kernel.polygon_radius must be positive, got %g", ErrInvalidConfig, k.PolygonRadius)
	}

	t := c.Texture
	switch {
	case t.DefaultWidth <= 0 || t.DefaultHeight <= 0:
		return fmt.Errorf("%w: texture default size must be positive, got %dx%d", ErrInvalidConfig, t.DefaultWidth, t.DefaultHeight)
	case t.DefaultScale == 0:
		return fmt.Errorf("%w: texture.default_scale must not be zero", ErrInvalidConfig)
	case t.LightmapScale <= 0:
		return fmt.Errorf("%w: texture.lightmap_scale must be positive, got %g", ErrInvalidConfig, t.LightmapScale)
	}
	return nil
}
