package core

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config for the engine run.
type Config struct {
	Title       string        `yaml:"title"`
	Width       int           `yaml:"width"`
	Height      int           `yaml:"height"`
	VSync       bool          `yaml:"vsync"`
	ClearColor  [4]float32    `yaml:"clear_color"` // RGBA
	MaxVertices int           `yaml:"max_vertices"`
	Capture     CaptureConfig `yaml:"capture"`
}

// CaptureConfig sizes and names high-resolution frame captures.
type CaptureConfig struct {
	// Scale multiplies the window size; the result is clamped to
	// MaxWidth/MaxHeight and the device texture limit.
	Scale     float32 `yaml:"scale"`
	MaxWidth  int     `yaml:"max_width"`
	MaxHeight int     `yaml:"max_height"`
	Dir       string  `yaml:"dir"`
	Format    string  `yaml:"format"` // png | bmp | tiff
	Name      string  `yaml:"name"`
}

func DefaultCaptureConfig() CaptureConfig {
	return CaptureConfig{
		Scale:     12,
		MaxWidth:  4096,
		MaxHeight: 4096,
		Dir:       "saves",
		Format:    "png",
		Name:      "sketch",
	}
}

func DefaultConfig() Config {
	return Config{
		Title:       "scrawl",
		Width:       1280,
		Height:      720,
		VSync:       true,
		ClearColor:  [4]float32{0.5, 0.5, 0.5, 1},
		MaxVertices: 1 << 16,
		Capture:     DefaultCaptureConfig(),
	}
}

// LoadConfig reads a YAML file over DefaultConfig. Keys absent from the
// file keep their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %q: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.MaxVertices <= 0 {
		return fmt.Errorf("max_vertices must be positive, got %d", c.MaxVertices)
	}
	if c.Capture.Scale <= 0 {
		return fmt.Errorf("capture.scale must be positive, got %g", c.Capture.Scale)
	}
	if c.Capture.MaxWidth <= 0 || c.Capture.MaxHeight <= 0 {
		return fmt.Errorf("capture max size must be positive, got %dx%d", c.Capture.MaxWidth, c.Capture.MaxHeight)
	}
	return nil
}
