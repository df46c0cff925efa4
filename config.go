package pinview

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned when a configuration value is out of range.
var ErrInvalidConfig = errors.New("pinview: invalid config")

// TooltipStyle controls the tooltip panel's appearance.
type TooltipStyle struct {
	Width       float64 `yaml:"width"`
	Padding     float64 `yaml:"padding"`
	LineHeight  float64 `yaml:"lineHeight"`
	Radius      float64 `yaml:"radius"`
	LiftRatio   float64 `yaml:"liftRatio"`   // panel height fraction above the anchor point
	FadeSeconds float64 `yaml:"fadeSeconds"` // opacity transition duration
	Background  Color   `yaml:"background"`
	TextColor   Color   `yaml:"textColor"`
	LinkColor   Color   `yaml:"linkColor"`
}

// Config holds the viewer settings. Obtain defaults with DefaultConfig.
type Config struct {
	// HoverScaleMultiplier scales a hovered or locked marker's base scale.
	HoverScaleMultiplier float64 `yaml:"hoverScaleMultiplier"`
	// HoverLerpFactor is the per-tick approach fraction, in (0, 1].
	HoverLerpFactor float64 `yaml:"hoverLerpFactor"`
	// SnapEpsilon snaps an animated value to its target below this distance.
	SnapEpsilon float64 `yaml:"snapEpsilon"`
	// MarkerSize is the default marker scale as a fraction of ModelSize.
	MarkerSize float64 `yaml:"markerSize"`
	// ProxyRadius is the hit sphere radius per unit of marker scale.
	ProxyRadius   float64 `yaml:"proxyRadius"`
	MarkerColor   Color   `yaml:"markerColor"`
	MarkerOpacity float64 `yaml:"markerOpacity"`
	HoverOpacity  float64 `yaml:"hoverOpacity"`
	// FrameRate is the tick rate used to advance time-based fades.
	FrameRate float64      `yaml:"frameRate"`
	Tooltip   TooltipStyle `yaml:"tooltip"`
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		HoverScaleMultiplier: 1.25,
		HoverLerpFactor:      0.15,
		SnapEpsilon:          1e-4,
		MarkerSize:           0.02,
		ProxyRadius:          1.0,
		MarkerColor:          Color{R: 1, G: 0.176, B: 0.333, A: 1}, // #ff2d55
		MarkerOpacity:        0.85,
		HoverOpacity:         1.0,
		FrameRate:            60,
		Tooltip: TooltipStyle{
			Width:       220,
			Padding:     14,
			LineHeight:  18,
			Radius:      12,
			LiftRatio:   1.15,
			FadeSeconds: 0.16,
			Background:  Color{R: 1, G: 1, B: 1, A: 0.85},
			TextColor:   Color{R: 0.1, G: 0.1, B: 0.1, A: 1},
			LinkColor:   Color{R: 0.118, G: 0.431, B: 0.294, A: 1}, // #1e6e4b
		},
	}
}

// Validate reports the first out-of-range value, wrapped in ErrInvalidConfig.
func (c Config) Validate() error {
	switch {
	case !(c.HoverScaleMultiplier > 0):
		return fmt.Errorf("%w: hoverScaleMultiplier %v must be > 0", ErrInvalidConfig, c.HoverScaleMultiplier)
	case !(c.HoverLerpFactor > 0 && c.HoverLerpFactor <= 1):
		return fmt.Errorf("%w: hoverLerpFactor %v must be in (0, 1]", ErrInvalidConfig, c.HoverLerpFactor)
	case c.SnapEpsilon < 0:
		return fmt.Errorf("%w: snapEpsilon %v must be >= 0", ErrInvalidConfig, c.SnapEpsilon)
	case !(c.MarkerSize > 0):
		return fmt.Errorf("%w: markerSize %v must be > 0", ErrInvalidConfig, c.MarkerSize)
	case !(c.ProxyRadius > 0):
		return fmt.Errorf("%w: proxyRadius %v must be > 0", ErrInvalidConfig, c.ProxyRadius)
	case c.MarkerOpacity < 0 || c.MarkerOpacity > 1:
		return fmt.Errorf("%w: markerOpacity %v must be in [0, 1]", ErrInvalidConfig, c.MarkerOpacity)
	case c.HoverOpacity < 0 || c.HoverOpacity > 1:
		return fmt.Errorf("%w: hoverOpacity %v must be in [0, 1]", ErrInvalidConfig, c.HoverOpacity)
	case !(c.FrameRate > 0):
		return fmt.Errorf("%w: frameRate %v must be > 0", ErrInvalidConfig, c.FrameRate)
	case c.Tooltip.FadeSeconds < 0:
		return fmt.Errorf("%w: tooltip.fadeSeconds %v must be >= 0", ErrInvalidConfig, c.Tooltip.FadeSeconds)
	}
	return nil
}

// ConfigPatch is a partial configuration update. Nil fields are left
// unchanged. The mapstructure tags let viper unmarshal straight into it.
type ConfigPatch struct {
	HoverScaleMultiplier *float64 `yaml:"hoverScaleMultiplier" mapstructure:"hoverScaleMultiplier"`
	HoverLerpFactor      *float64 `yaml:"hoverLerpFactor" mapstructure:"hoverLerpFactor"`
	SnapEpsilon          *float64 `yaml:"snapEpsilon" mapstructure:"snapEpsilon"`
	MarkerSize           *float64 `yaml:"markerSize" mapstructure:"markerSize"`
	ProxyRadius          *float64 `yaml:"proxyRadius" mapstructure:"proxyRadius"`
	MarkerColor          *Color   `yaml:"markerColor" mapstructure:"markerColor"`
	MarkerOpacity        *float64 `yaml:"markerOpacity" mapstructure:"markerOpacity"`
	HoverOpacity         *float64 `yaml:"hoverOpacity" mapstructure:"hoverOpacity"`
	FrameRate            *float64 `yaml:"frameRate" mapstructure:"frameRate"`
	TooltipFadeSeconds   *float64 `yaml:"tooltipFadeSeconds" mapstructure:"tooltipFadeSeconds"`
	TooltipWidth         *float64 `yaml:"tooltipWidth" mapstructure:"tooltipWidth"`
}

// Apply returns c with the patch's non-nil fields applied and validated.
// On error c is returned unchanged.
func (p ConfigPatch) Apply(c Config) (Config, error) {
	next := c
	setF := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	setF(&next.HoverScaleMultiplier, p.HoverScaleMultiplier)
	setF(&next.HoverLerpFactor, p.HoverLerpFactor)
	setF(&next.SnapEpsilon, p.SnapEpsilon)
	setF(&next.MarkerSize, p.MarkerSize)
	setF(&next.ProxyRadius, p.ProxyRadius)
	setF(&next.MarkerOpacity, p.MarkerOpacity)
	setF(&next.HoverOpacity, p.HoverOpacity)
	setF(&next.FrameRate, p.FrameRate)
	setF(&next.Tooltip.FadeSeconds, p.TooltipFadeSeconds)
	setF(&next.Tooltip.Width, p.TooltipWidth)
	if p.MarkerColor != nil {
		next.MarkerColor = *p.MarkerColor
	}
	if err := next.Validate(); err != nil {
		return c, err
	}
	return next, nil
}

// ParseConfig reads a YAML document on top of DefaultConfig.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
