package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"StegoTool/pkg/analyzer/image/lsb"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config contains the tool settings that can be overridden from a YAML file
type Config struct {
	OutputDir   string            `yaml:"output_dir"`
	Workers     int               `yaml:"workers"` // parallel analyses for directory scans
	Color       bool              `yaml:"color"`
	Detection   DetectionConfig   `yaml:"detection"`
	Extraction  ExtractionConfig  `yaml:"extraction"`
	Compression CompressionConfig `yaml:"compression"`
}

// DetectionConfig holds the mean LSB bounds
type DetectionConfig struct {
	Thresholds lsb.Thresholds `yaml:"thresholds"`
}

// ExtractionConfig limits what extraction may write
type ExtractionConfig struct {
	MaxOutputSize int `yaml:"max_output_size"` // bytes, after decompression
}

// CompressionConfig controls zstd packing of payloads before embedding
type CompressionConfig struct {
	Enabled bool `yaml:"enabled"`
	Level   int  `yaml:"level"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		OutputDir: "stegotool_output",
		Workers:   1,
		Color:     true,
		Detection: DetectionConfig{
			Thresholds: lsb.DefaultThresholds(), // 0.49 / 0.51
		},
		Extraction: ExtractionConfig{
			MaxOutputSize: 50 * 1024 * 1024, // 50MB
		},
		Compression: CompressionConfig{
			Enabled: false,
			Level:   3,
		},
	}
}

// Load reads a YAML file on top of the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Encode writes the configuration to w as YAML
func (c *Config) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return enc.Close()
}

// Save writes the configuration as YAML
func (c *Config) Save(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := c.Encode(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// Validate rejects settings the tool cannot run with
func (c *Config) Validate() error {
	th := c.Detection.Thresholds
	if th.Low < 0 || th.High > 1 || th.Low > th.High {
		return fmt.Errorf("%w: detection thresholds must satisfy 0 <= low <= high <= 1 (got %.3f, %.3f)",
			ErrInvalidConfig, th.Low, th.High)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1", ErrInvalidConfig)
	}
	if c.Extraction.MaxOutputSize < 0 {
		return fmt.Errorf("%w: max_output_size cannot be negative", ErrInvalidConfig)
	}
	if c.Compression.Level < 1 || c.Compression.Level > 22 {
		return fmt.Errorf("%w: compression level must be between 1 and 22", ErrInvalidConfig)
	}
	return nil
}
