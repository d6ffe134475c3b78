package convert

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"hw2go/internal/link"
	"hw2go/internal/synth"
	"hw2go/internal/target"
)

// Config is the converter configuration document.
type Config struct {
	// Dictionary is the path of a lookup table sidecar. Empty selects the
	// embedded table.
	Dictionary string `yaml:"dictionary,omitempty"`
	// CheckFiles enables probing referenced media files.
	CheckFiles bool `yaml:"check_files"`
	// SilentLoopSample is written for the missing side of a noise.
	SilentLoopSample string `yaml:"silent_loop_sample"`
	// WriteSilentLoop writes a silent loop WAV next to the output when the
	// sample was referenced.
	WriteSilentLoop bool   `yaml:"write_silent_loop"`
	Encoding        string `yaml:"encoding"`
	// ExcludedLinks are linkage rules not applied.
	ExcludedLinks   []link.Exclusion `yaml:"excluded_links"`
	Geometry        synth.Geometry   `yaml:"geometry"`
	NoiseManualName string           `yaml:"noise_manual_name"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	def := synth.DefaultConfig()

	return Config{
		CheckFiles:       true,
		SilentLoopSample: def.SilentLoop,
		WriteSilentLoop:  true,
		Encoding:         target.EncodingUTF8BOM,
		ExcludedLinks:    link.DefaultExclusions(),
		Geometry:         def.Geometry,
		NoiseManualName:  def.NoiseManualName,
	}
}

// LoadConfig loads a configuration file. Keys it omits keep their default.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return ParseConfig(data)
}

// ParseConfig parses a YAML configuration document.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate fills in empty values and rejects unsupported ones.
func (c *Config) Validate() error {
	applyDefaults(c)

	switch c.Encoding {
	case target.EncodingUTF8BOM, target.EncodingLatin1:
		return nil
	default:
		return fmt.Errorf("unsupported encoding %q, want %s or %s",
			c.Encoding, target.EncodingUTF8BOM, target.EncodingLatin1)
	}
}

// Marshal serializes a configuration to YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// applyDefaults fills in empty values.
func applyDefaults(cfg *Config) {
	def := DefaultConfig()

	cfg.Encoding = strings.ToLower(strings.TrimSpace(cfg.Encoding))
	if cfg.Encoding == "" {
		cfg.Encoding = def.Encoding
	}

	if cfg.SilentLoopSample == "" {
		cfg.SilentLoopSample = def.SilentLoopSample
	}

	if cfg.NoiseManualName == "" {
		cfg.NoiseManualName = def.NoiseManualName
	}

	g := &cfg.Geometry

	if g.ScreenWidth <= 0 {
		g.ScreenWidth = def.Geometry.ScreenWidth
	}

	if g.ScreenHeight <= 0 {
		g.ScreenHeight = def.Geometry.ScreenHeight
	}

	if g.BitmapWidth <= 0 {
		g.BitmapWidth = def.Geometry.BitmapWidth
	}

	if g.BitmapHeight <= 0 {
		g.BitmapHeight = def.Geometry.BitmapHeight
	}

	if g.FontSize <= 0 {
		g.FontSize = def.Geometry.FontSize
	}

	if g.FontName == "" {
		g.FontName = def.Geometry.FontName
	}
}
