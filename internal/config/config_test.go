package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Kernel.ClassifyEpsilon != 0.5 {
		t.Errorf("expected classify epsilon 0.5, got %g", cfg.Kernel.ClassifyEpsilon)
	}
	if cfg.Kernel.ClipEpsilon != 0.0001 {
		t.Errorf("expected clip epsilon 0.0001, got %g", cfg.Kernel.ClipEpsilon)
	}
	if cfg.Kernel.RoundDecimals != 2 {
		t.Errorf("expected 2 round decimals, got %d", cfg.Kernel.RoundDecimals)
	}
	if cfg.Kernel.PolygonRadius != 1_000_000 {
		t.Errorf("expected polygon radius 1e6, got %g", cfg.Kernel.PolygonRadius)
	}

	if cfg.Texture.DefaultMaterial != "tools/nodraw" {
		t.Errorf("expected default material tools/nodraw, got %s", cfg.Texture.DefaultMaterial)
	}
	if cfg.Texture.DefaultScale != 0.25 {
		t.Errorf("expected default scale 0.25, got %g", cfg.Texture.DefaultScale)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "brushtool.yaml")

	yamlContent := `
kernel:
  classify_epsilon: 0.01
  clip_epsilon: 0.00001
  round_decimals: 4
  polygon_radius: 65536

texture:
  default_material: "dev/grid"
  default_width: 128
  default_height: 256
  default_scale: 1
  lightmap_scale: 8

export:
  indent_json: false

logging:
  level: "debug"
  log_file: "brushtool.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Kernel.ClassifyEpsilon != 0.01 {
		t.Errorf("expected classify epsilon 0.01, got %g", cfg.Kernel.ClassifyEpsilon)
	}
	if cfg.Kernel.ClipEpsilon != 0.00001 {
		t.Errorf("expected clip epsilon 1e-5, got %g", cfg.Kernel.ClipEpsilon)
	}
	if cfg.Kernel.RoundDecimals != 4 {
		t.Errorf("expected 4 round decimals, got %d", cfg.Kernel.RoundDecimals)
	}
	if cfg.Kernel.PolygonRadius != 65536 {
		t.Errorf("expected polygon radius 65536, got %g", cfg.Kernel.PolygonRadius)
	}
	if cfg.Texture.DefaultMaterial != "dev/grid" {
		t.Errorf("expected material dev/grid, got %s", cfg.Texture.DefaultMaterial)
	}
	if cfg.Texture.DefaultWidth != 128 || cfg.Texture.DefaultHeight != 256 {
		t.Errorf("expected 128x256, got %dx%d", cfg.Texture.DefaultWidth, cfg.Texture.DefaultHeight)
	}
	if cfg.Texture.LightmapScale != 8 {
		t.Errorf("expected lightmap scale 8, got %g", cfg.Texture.LightmapScale)
	}
	if cfg.Export.IndentJSON {
		t.Error("expected indent_json to be false")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "brushtool.log" {
		t.Errorf("expected log file 'brushtool.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFilePartialKeepsDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "brushtool.yaml")
	if err := os.WriteFile(configPath, []byte("kernel:\n  clip_epsilon: 0.001\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Kernel.ClipEpsilon != 0.001 {
		t.Errorf("expected clip epsilon 0.001, got %g", cfg.Kernel.ClipEpsilon)
	}
	if cfg.Kernel.ClassifyEpsilon != 0.5 {
		t.Errorf("classify epsilon must keep its default, got %g", cfg.Kernel.ClassifyEpsilon)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
kernel:
  clip_epsilon: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/brushtool.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero classify epsilon", func(c *Config) { c.Kernel.ClassifyEpsilon = 0 }},
		{"negative clip epsilon", func(c *Config) { c.Kernel.ClipEpsilon = -1 }},
		{"too many decimals", func(c *Config) { c.Kernel.RoundDecimals = 11 }},
		{"zero radius", func(c *Config) { c.Kernel.PolygonRadius = 0 }},
		{"zero texture size", func(c *Config) { c.Texture.DefaultWidth = 0 }},
		{"zero texture scale", func(c *Config) { c.Texture.DefaultScale = 0 }},
		{"zero lightmap scale", func(c *Config) { c.Texture.LightmapScale = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "brushtool.yaml")
	if err := os.WriteFile(configPath, []byte("kernel:\n  round_decimals: 3\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find brushtool.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "log file flag",
			setup: func() { *flagLogFile = "kernel.log" },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.LogFile != "kernel.log" {
					t.Errorf("expected log file kernel.log, got %s", cfg.Logging.LogFile)
				}
			},
			teardown: func() { *flagLogFile = "" },
		},
		{
			name: "epsilon flags stay independent",
			setup: func() {
				*flagClassifyEps = 0.05
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Kernel.ClassifyEpsilon != 0.05 {
					t.Errorf("expected classify epsilon 0.05, got %g", cfg.Kernel.ClassifyEpsilon)
				}
				if cfg.Kernel.ClipEpsilon != 0.0001 {
					t.Errorf("clip epsilon must not follow the classify flag, got %g", cfg.Kernel.ClipEpsilon)
				}
			},
			teardown: func() { *flagClassifyEps = 0 },
		},
		{
			name:  "clip epsilon flag",
			setup: func() { *flagClipEps = 0.001 },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Kernel.ClipEpsilon != 0.001 {
					t.Errorf("expected clip epsilon 0.001, got %g", cfg.Kernel.ClipEpsilon)
				}
			},
			teardown: func() { *flagClipEps = 0 },
		},
		{
			name:  "round flag accepts zero",
			setup: func() { *flagRound = 0 },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Kernel.RoundDecimals != 0 {
					t.Errorf("expected 0 round decimals, got %d", cfg.Kernel.RoundDecimals)
				}
			},
			teardown: func() { *flagRound = -1 },
		},
		{
			name:  "metrics flag",
			setup: func() { *flagMetrics = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Metrics.Report {
					t.Error("expected metrics report to be enabled")
				}
			},
			teardown: func() { *flagMetrics = false },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)

			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "brushtool.yaml")

	yamlContent := `
kernel:
  classify_epsilon: 0.25
  round_decimals: 3
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagRound = 5
	defer func() {
		*flagConfig = ""
		*flagRound = -1
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Kernel.RoundDecimals != 5 {
		t.Errorf("expected 5 decimals from flag, got %d", cfg.Kernel.RoundDecimals)
	}
	if cfg.Kernel.ClassifyEpsilon != 0.25 {
		t.Errorf("expected classify epsilon 0.25 from file, got %g", cfg.Kernel.ClassifyEpsilon)
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "brushtool.yaml")
	if err := os.WriteFile(configPath, []byte("kernel:\n  clip_epsilon: -1\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "brushtool.yaml")

	cfg := Default()
	cfg.Kernel.RoundDecimals = 6
	cfg.Texture.DefaultMaterial = "dev/orange"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload config: %v", err)
	}
	if loaded.Kernel.RoundDecimals != 6 || loaded.Texture.DefaultMaterial != "dev/orange" {
		t.Errorf("round trip lost values: %+v", loaded)
	}
}
