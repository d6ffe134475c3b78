package synth

// Geometry holds the fallbacks used when the source document leaves a
// dimension out.
type Geometry struct {
	ScreenWidth  int     `yaml:"screen_width"`
	ScreenHeight int     `yaml:"screen_height"`
	BitmapWidth  int     `yaml:"bitmap_width"`
	BitmapHeight int     `yaml:"bitmap_height"`
	FontSize     float64 `yaml:"font_size"`
	FontName     string  `yaml:"font_name"`
}

// Config tunes a synthesis run.
type Config struct {
	Geometry Geometry
	// SilentLoop is the sample path written for the missing side of a noise.
	SilentLoop string
	// NoiseManualName names the hidden manual carrying noise stops.
	NoiseManualName string
	// Progress is notified per phase and per device. It must not block.
	Progress func(string)
}

// Text extent estimate: average glyph width and line height as a fraction
// of the font size.
const (
	glyphWidthRatio = 0.6
	lineHeightRatio = 1.3
)

// DefaultGeometry returns the fallback dimensions.
func DefaultGeometry() Geometry {
	return Geometry{
		ScreenWidth:  1024,
		ScreenHeight: 768,
		BitmapWidth:  64,
		BitmapHeight: 64,
		FontSize:     10,
		FontName:     "Arial",
	}
}

// DefaultConfig returns the default synthesis configuration.
func DefaultConfig() Config {
	return Config{
		Geometry:        DefaultGeometry(),
		SilentLoop:      "GO_SilentLoop.wav",
		NoiseManualName: "Noises",
	}
}

func (c *Config) applyDefaults() {
	def := DefaultConfig()

	if c.Geometry.ScreenWidth <= 0 {
		c.Geometry.ScreenWidth = def.Geometry.ScreenWidth
	}

	if c.Geometry.ScreenHeight <= 0 {
		c.Geometry.ScreenHeight = def.Geometry.ScreenHeight
	}

	if c.Geometry.BitmapWidth <= 0 {
		c.Geometry.BitmapWidth = def.Geometry.BitmapWidth
	}

	if c.Geometry.BitmapHeight <= 0 {
		c.Geometry.BitmapHeight = def.Geometry.BitmapHeight
	}

	if c.Geometry.FontSize <= 0 {
		c.Geometry.FontSize = def.Geometry.FontSize
	}

	if c.Geometry.FontName == "" {
		c.Geometry.FontName = def.Geometry.FontName
	}

	if c.SilentLoop == "" {
		c.SilentLoop = def.SilentLoop
	}

	if c.NoiseManualName == "" {
		c.NoiseManualName = def.NoiseManualName
	}
}
