package config

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/backdrop/internal/particles"
	"github.com/san-kum/backdrop/internal/rain"
	"github.com/san-kum/backdrop/internal/raster"
)

const (
	DefaultFPS             = 60
	DefaultDataDir         = ".backdrop"
	DefaultParticleOpacity = 0.6
	DefaultPrefsBackend    = "file"
	DefaultLogPrefix       = "[backdrop] "
)

// Rain at 0.1 is barely visible over a terminal background.
const DefaultRainOpacity = 0.4

type Config struct {
	FPS       int             `yaml:"fps" env:"BACKDROP_FPS"`
	Seed      int64           `yaml:"seed" env:"BACKDROP_SEED"`
	DataDir   string          `yaml:"data_dir" env:"BACKDROP_DATA_DIR"`
	Particles ParticlesConfig `yaml:"particles"`
	Rain      RainConfig      `yaml:"rain"`
	Prefs     PrefsConfig     `yaml:"prefs"`
	Log       LogConfig       `yaml:"log"`
}

type ParticlesConfig struct {
	Container    string   `yaml:"container"`
	Opacity      float64  `yaml:"opacity"`
	Density      float64  `yaml:"density"`
	LinkDistance float64  `yaml:"link_distance"`
	LinkAlpha    float64  `yaml:"link_alpha"`
	LinkWidth    float64  `yaml:"link_width"`
	MaxSpeed     float64  `yaml:"max_speed"`
	Palette      []string `yaml:"palette"`
}

type RainConfig struct {
	Container      string  `yaml:"container"`
	Opacity        float64 `yaml:"opacity"`
	FontSize       float64 `yaml:"font_size"`
	Fade           float64 `yaml:"fade"`
	ResetThreshold float64 `yaml:"reset_threshold"`
	Color          string  `yaml:"color"`
}

type PrefsConfig struct {
	Backend string `yaml:"backend" env:"BACKDROP_PREFS_BACKEND"`
}

type LogConfig struct {
	File   string `yaml:"file" env:"BACKDROP_LOG_FILE"`
	Prefix string `yaml:"prefix"`
}

func DefaultConfig() *Config {
	return &Config{
		FPS:     DefaultFPS,
		DataDir: DefaultDataDir,
		Particles: ParticlesConfig{
			Container:    "hero",
			Opacity:      DefaultParticleOpacity,
			Density:      particles.DefaultDensity,
			LinkDistance: particles.DefaultLinkDistance,
			LinkAlpha:    particles.DefaultLinkAlpha,
			LinkWidth:    particles.DefaultLinkWidth,
			MaxSpeed:     particles.DefaultMaxSpeed,
			Palette:      []string{"#3b82f6", "#ff6b35"},
		},
		Rain: RainConfig{
			Container:      "cta",
			Opacity:        DefaultRainOpacity,
			FontSize:       rain.DefaultFontSize,
			Fade:           rain.DefaultFade,
			ResetThreshold: rain.DefaultResetThreshold,
			Color:          "#39ff14",
		},
		Prefs: PrefsConfig{Backend: DefaultPrefsBackend},
		Log:   LogConfig{Prefix: DefaultLogPrefix},
	}
}

// Load reads a yaml file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ParseEnv overlays environment variables onto target. Unset variables
// leave fields untouched.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Resolve loads path when given, otherwise the defaults, then applies
// environment overrides.
func Resolve(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		loaded, err := Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if err := ParseEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) ParticleOptions() particles.Options {
	o := particles.DefaultOptions()
	p := c.Particles
	setIf(&o.Density, p.Density)
	setIf(&o.LinkDistance, p.LinkDistance)
	setIf(&o.LinkAlpha, p.LinkAlpha)
	setIf(&o.LinkWidth, p.LinkWidth)
	setIf(&o.MaxSpeed, p.MaxSpeed)
	if len(p.Palette) > 0 {
		o.Palette = make([]raster.Color, len(p.Palette))
		for i, hex := range p.Palette {
			o.Palette[i] = raster.Hex(hex)
		}
	}
	return o
}

func (c *Config) RainOptions() rain.Options {
	o := rain.DefaultOptions()
	r := c.Rain
	setIf(&o.FontSize, r.FontSize)
	setIf(&o.Fade, r.Fade)
	setIf(&o.ResetThreshold, r.ResetThreshold)
	if r.Color != "" {
		o.Color = raster.Hex(r.Color)
	}
	return o
}

func setIf(dst *float64, v float64) {
	if v != 0 {
		*dst = v
	}
}

// OpenLog returns a logger writing to the configured file, or one that
// discards output when no file is set. The terminal UI owns stdout.
func (c *Config) OpenLog() (*log.Logger, io.Closer, error) {
	prefix := c.Log.Prefix
	if c.Log.File == "" {
		return log.New(io.Discard, prefix, log.LstdFlags), nopCloser{}, nil
	}
	f, err := os.OpenFile(c.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log: %w", err)
	}
	return log.New(f, prefix, log.LstdFlags|log.Lmicroseconds), f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
