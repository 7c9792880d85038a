// Package config provides configuration loading and access for the animation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all animation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Tree      TreeConfig      `yaml:"tree"`
	Trunk     TrunkConfig     `yaml:"trunk"`
	Snow      SnowConfig      `yaml:"snow"`
	Flight    FlightConfig    `yaml:"flight"`
	Gifts     GiftsConfig     `yaml:"gifts"`
	Glow      GlowConfig      `yaml:"glow"`
	Outline   OutlineConfig   `yaml:"outline"`
	Vignette  VignetteConfig  `yaml:"vignette"`
	Loop      LoopConfig      `yaml:"loop"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int     `yaml:"width"`
	Height    int     `yaml:"height"`
	TargetFPS int     `yaml:"target_fps"`
	MaxDPR    float64 `yaml:"max_dpr"`
}

// TreeConfig holds canopy geometry and population parameters.
type TreeConfig struct {
	CenterX         float64 `yaml:"center_x"`
	CenterY         float64 `yaml:"center_y"`
	HeightFrac      float64 `yaml:"height_frac"`
	MaxHeight       float64 `yaml:"max_height"`
	BaseWidthFrac   float64 `yaml:"base_width_frac"`
	MaxBaseWidth    float64 `yaml:"max_base_width"`
	TaperExponent   float64 `yaml:"taper_exponent"`
	AreaPerParticle float64 `yaml:"area_per_particle"`
	MinParticles    int     `yaml:"min_particles"`
	MaxParticles    int     `yaml:"max_particles"`
	OutlineChance   float64 `yaml:"outline_chance"`
	OutlineInner    float64 `yaml:"outline_inner"` // |nx| lower bound for edge-biased samples
	OrnamentChance  float64 `yaml:"ornament_chance"`
}

// TrunkConfig holds trunk band parameters.
type TrunkConfig struct {
	Particles  int     `yaml:"particles"`
	WidthFrac  float64 `yaml:"width_frac"`
	MinWidth   float64 `yaml:"min_width"`
	HeightFrac float64 `yaml:"height_frac"`
	MinHeight  float64 `yaml:"min_height"`
}

// SnowConfig holds snow population and motion parameters.
type SnowConfig struct {
	AreaPerParticle float64 `yaml:"area_per_particle"`
	MinParticles    int     `yaml:"min_particles"`
	MaxParticles    int     `yaml:"max_particles"`
	MinRadius       float64 `yaml:"min_radius"`
	MaxRadius       float64 `yaml:"max_radius"`
	MinFallSpeed    float64 `yaml:"min_fall_speed"`
	MaxFallSpeed    float64 `yaml:"max_fall_speed"`
	MaxDriftSpeed   float64 `yaml:"max_drift_speed"`
	MinAlpha        float64 `yaml:"min_alpha"`
	MaxAlpha        float64 `yaml:"max_alpha"`
	BottomMargin    float64 `yaml:"bottom_margin"`
	SideMargin      float64 `yaml:"side_margin"`
	AlphaBoost      float64 `yaml:"alpha_boost"`
}

// FlightConfig holds the sleigh cycle and gift drop schedule.
type FlightConfig struct {
	Period          float64   `yaml:"period"` // seconds per pass
	DropPhases      []float64 `yaml:"drop_phases"`
	WidthFrac       float64   `yaml:"width_frac"`
	MaxWidth        float64   `yaml:"max_width"`
	Aspect          float64   `yaml:"aspect"` // height / width
	MarginFrac      float64   `yaml:"margin_frac"`
	MinBaseY        float64   `yaml:"min_base_y"`
	BaseYFrac       float64   `yaml:"base_y_frac"`
	BobAmplitude    float64   `yaml:"bob_amplitude"`
	DropOffsetX     float64   `yaml:"drop_offset_x"`
	DropOffsetY     float64   `yaml:"drop_offset_y"`
	WobbleAmplitude float64   `yaml:"wobble_amplitude"`
	WobbleRate      float64   `yaml:"wobble_rate"`
	TiltAmplitude   float64   `yaml:"tilt_amplitude"`
	TiltRate        float64   `yaml:"tilt_rate"`
	ImagePath       string    `yaml:"image_path"`
}

// GiftsConfig holds projectile spawn and physics parameters.
type GiftsConfig struct {
	Gravity            float64  `yaml:"gravity"`
	MinSize            float64  `yaml:"min_size"`
	MaxSize            float64  `yaml:"max_size"`
	MaxVX              float64  `yaml:"max_vx"`
	MaxVY              float64  `yaml:"max_vy"`
	MaxRotation        float64  `yaml:"max_rotation"`
	MaxAngularVelocity float64  `yaml:"max_angular_velocity"`
	FadeStart          float64  `yaml:"fade_start"`
	RemovalMargin      float64  `yaml:"removal_margin"`
	MinAlpha           float64  `yaml:"min_alpha"`
	Fills              []string `yaml:"fills"`
	Ribbons            []string `yaml:"ribbons"`
}

// GlowConfig holds pointer glow and particle halo parameters.
type GlowConfig struct {
	RadiusScale      float64 `yaml:"radius_scale"`
	MinRadius        float64 `yaml:"min_radius"`
	RadiusFrac       float64 `yaml:"radius_frac"`
	InfluenceFrac    float64 `yaml:"influence_frac"`
	CanopyBoost      float64 `yaml:"canopy_boost"`
	TrunkBoost       float64 `yaml:"trunk_boost"`
	SizeBoost        float64 `yaml:"size_boost"`
	HaloScale        float64 `yaml:"halo_scale"`
	HaloThreshold    float64 `yaml:"halo_threshold"`
	CoreAlphaBonus   float64 `yaml:"core_alpha_bonus"`
	PointerFallbackX float64 `yaml:"pointer_fallback_x"`
	PointerFallbackY float64 `yaml:"pointer_fallback_y"`
}

// OutlineConfig holds the moving-border sweep parameters.
type OutlineConfig struct {
	Speed    float64 `yaml:"speed"`     // sweeps per second
	FadeSpan float64 `yaml:"fade_span"` // normalized width of fade-in/out
}

// VignetteConfig holds the edge darkening parameters.
type VignetteConfig struct {
	InnerFrac float64 `yaml:"inner_frac"`
	OuterFrac float64 `yaml:"outer_frac"`
	Alpha     float64 `yaml:"alpha"`
}

// LoopConfig holds frame driver parameters.
type LoopConfig struct {
	MaxStep     float64 `yaml:"max_step"`
	HeadlessFPS int     `yaml:"headless_fps"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow int `yaml:"stats_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Fills   []color.RGBA
	Ribbons []color.RGBA
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks invariants the simulation depends on.
func (c *Config) Validate() error {
	var errs []error

	if c.Flight.Period <= 0 {
		errs = append(errs, fmt.Errorf("flight.period must be positive, got %v", c.Flight.Period))
	}
	prev := 0.0
	for i, p := range c.Flight.DropPhases {
		if p <= 0 || p >= 1 {
			errs = append(errs, fmt.Errorf("flight.drop_phases[%d] = %v outside (0, 1)", i, p))
		}
		if i > 0 && p <= prev {
			errs = append(errs, fmt.Errorf("flight.drop_phases must be strictly increasing (index %d)", i))
		}
		prev = p
	}
	if c.Gifts.Gravity <= 0 {
		errs = append(errs, fmt.Errorf("gifts.gravity must be positive, got %v", c.Gifts.Gravity))
	}
	if c.Gifts.FadeStart <= 0 || c.Gifts.FadeStart >= 1 {
		errs = append(errs, fmt.Errorf("gifts.fade_start must be in (0, 1), got %v", c.Gifts.FadeStart))
	}
	if len(c.Gifts.Fills) == 0 || len(c.Gifts.Ribbons) == 0 {
		errs = append(errs, errors.New("gifts.fills and gifts.ribbons must not be empty"))
	}
	if c.Tree.MinParticles > c.Tree.MaxParticles {
		errs = append(errs, fmt.Errorf("tree particle band inverted: %d > %d", c.Tree.MinParticles, c.Tree.MaxParticles))
	}
	if c.Snow.MinParticles > c.Snow.MaxParticles {
		errs = append(errs, fmt.Errorf("snow particle band inverted: %d > %d", c.Snow.MinParticles, c.Snow.MaxParticles))
	}
	if c.Tree.AreaPerParticle <= 0 || c.Snow.AreaPerParticle <= 0 {
		errs = append(errs, errors.New("area_per_particle must be positive"))
	}
	if c.Loop.MaxStep <= 0 {
		errs = append(errs, fmt.Errorf("loop.max_step must be positive, got %v", c.Loop.MaxStep))
	}
	return errors.Join(errs...)
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() error {
	fills, err := parsePalette(c.Gifts.Fills)
	if err != nil {
		return fmt.Errorf("gifts.fills: %w", err)
	}
	ribbons, err := parsePalette(c.Gifts.Ribbons)
	if err != nil {
		return fmt.Errorf("gifts.ribbons: %w", err)
	}
	c.Derived.Fills = fills
	c.Derived.Ribbons = ribbons

	if c.Screen.MaxDPR < 1 {
		c.Screen.MaxDPR = 1
	}
	if c.Loop.HeadlessFPS <= 0 {
		c.Loop.HeadlessFPS = 60
	}
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func parsePalette(hex []string) ([]color.RGBA, error) {
	out := make([]color.RGBA, 0, len(hex))
	for _, h := range hex {
		c, err := ParseHexColor(h)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// ParseHexColor parses "#rrggbb" or "#rrggbbaa" into an opaque-by-default color.
func ParseHexColor(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 && len(h) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	if len(h) == 6 {
		v = v<<8 | 0xff
	}
	return color.RGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}
