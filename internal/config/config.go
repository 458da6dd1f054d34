// Package config handles loading and parsing of the keyboard layout and
// appearance configuration from TOML.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Default appearance values, in unscaled layout units.
const (
	DefaultCornerRadius    = 8.0
	DefaultBorderThickness = 2.0
	DefaultTextSize        = 18.0
	DefaultRotationDegrees = 0.0
)

// Default color slots.
const (
	DefaultBackgroundInactive  = "#00000000"
	DefaultBackgroundActive    = "#A0A0A0D0"
	DefaultKeyBackground       = "#4D4D4D80"
	DefaultKeyText             = "#B3B3B3CC"
	DefaultKeyOutline          = "#B3B3B3CC"
	DefaultActiveKeyBackground = "#A0A0F0FF"
)

// Config is the root of the TOML configuration.
type Config struct {
	Keys    []KeyConfig   `toml:"key"`
	Overlay OverlayConfig `toml:"overlay"`
}

// KeyConfig describes one key drawn on the overlay. Coordinates and sizes
// are abstract layout units; the render engine scales them to the surface.
type KeyConfig struct {
	Name   string  `toml:"name"`
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
	Left   float64 `toml:"left"`
	Top    float64 `toml:"top"`

	// Keycode accepts a symbolic name string or a raw evdev code number.
	// When omitted the key's Name doubles as the symbolic name.
	Keycode any `toml:"keycode"`

	RotationDegrees *float64 `toml:"rotation_degrees"`
	TextSize        *float64 `toml:"text_size"`
	CornerRadius    *float64 `toml:"corner_radius"`
	BorderThickness *float64 `toml:"border_thickness"`
	BackgroundColor string   `toml:"background_color"`
}

// OverlayConfig describes the overlay surface: where it goes, how big it
// is, and the shared color slots.
type OverlayConfig struct {
	// Screen targets an output by index, name or description. Empty lets
	// the compositor choose.
	Screen   string `toml:"screen"`
	Position string `toml:"position"`

	// SizeWidth/SizeHeight accept an integer (pixels) or a float (ratio of
	// the target screen dimension). Omitting both derives the size from
	// the layout's aspect ratio and 30% of the screen height.
	SizeWidth  any `toml:"size_width"`
	SizeHeight any `toml:"size_height"`

	MarginTop    int `toml:"margin_top"`
	MarginRight  int `toml:"margin_right"`
	MarginBottom int `toml:"margin_bottom"`
	MarginLeft   int `toml:"margin_left"`

	BackgroundColorInactive   string `toml:"background_color_inactive"`
	BackgroundColorActive     string `toml:"background_color_active"`
	DefaultKeyBackgroundColor string `toml:"default_key_background_color"`
	DefaultKeyTextColor       string `toml:"default_key_text_color"`
	DefaultKeyOutlineColor    string `toml:"default_key_outline_color"`
	ActiveKeyBackgroundColor  string `toml:"active_key_background_color"`
	ActiveKeyTextColor        string `toml:"active_key_text_color"`
}

// Overlay anchor positions.
const (
	PositionTop          = "top"
	PositionBottom       = "bottom"
	PositionLeft         = "left"
	PositionRight        = "right"
	PositionCenter       = "center"
	PositionTopLeft      = "top-left"
	PositionTopCenter    = "top-center"
	PositionTopRight     = "top-right"
	PositionBottomLeft   = "bottom-left"
	PositionBottomCenter = "bottom-center"
	PositionBottomRight  = "bottom-right"
	PositionCenterLeft   = "center-left"
	PositionCenterRight  = "center-right"
)

var validPositions = map[string]bool{
	PositionTop: true, PositionBottom: true, PositionLeft: true,
	PositionRight: true, PositionCenter: true, PositionTopLeft: true,
	PositionTopCenter: true, PositionTopRight: true, PositionBottomLeft: true,
	PositionBottomCenter: true, PositionBottomRight: true,
	PositionCenterLeft: true, PositionCenterRight: true,
}

// DefaultConfig returns a Config with default overlay values and no keys.
func DefaultConfig() *Config {
	return &Config{
		Overlay: OverlayConfig{
			Position:                  PositionBottomCenter,
			SizeHeight:                0.3,
			BackgroundColorInactive:   DefaultBackgroundInactive,
			BackgroundColorActive:     DefaultBackgroundActive,
			DefaultKeyBackgroundColor: DefaultKeyBackground,
			DefaultKeyTextColor:       DefaultKeyText,
			DefaultKeyOutlineColor:    DefaultKeyOutline,
			ActiveKeyBackgroundColor:  DefaultActiveKeyBackground,
			ActiveKeyTextColor:        DefaultKeyText,
		},
	}
}

// ConfigPath returns the default config file location.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "keyosd", "keys.toml")
}

// LoadConfig reads and validates the configuration at path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML config %q: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate performs syntactic validation: dimensions, colors, position and
// size types. Keycode resolution and geometric checks happen when the
// layout model is built.
func (c *Config) Validate() error {
	var errs []error

	if c.Overlay.Position != "" && !validPositions[c.Overlay.Position] {
		errs = append(errs, fmt.Errorf("invalid overlay position %q", c.Overlay.Position))
	}
	if _, _, err := ParseDimension(c.Overlay.SizeWidth); err != nil {
		errs = append(errs, fmt.Errorf("overlay size_width: %w", err))
	}
	if _, _, err := ParseDimension(c.Overlay.SizeHeight); err != nil {
		errs = append(errs, fmt.Errorf("overlay size_height: %w", err))
	}

	for slot, s := range map[string]string{
		"background_color_inactive":    c.Overlay.BackgroundColorInactive,
		"background_color_active":      c.Overlay.BackgroundColorActive,
		"default_key_background_color": c.Overlay.DefaultKeyBackgroundColor,
		"default_key_text_color":       c.Overlay.DefaultKeyTextColor,
		"default_key_outline_color":    c.Overlay.DefaultKeyOutlineColor,
		"active_key_background_color":  c.Overlay.ActiveKeyBackgroundColor,
		"active_key_text_color":        c.Overlay.ActiveKeyTextColor,
	} {
		if s == "" {
			continue
		}
		if _, err := ParseColor(s); err != nil {
			errs = append(errs, fmt.Errorf("overlay %s: %w", slot, err))
		}
	}

	for i := range c.Keys {
		k := &c.Keys[i]
		if k.Name == "" {
			errs = append(errs, fmt.Errorf("key #%d has no name", i+1))
		}
		if k.Width <= 0 {
			errs = append(errs, fmt.Errorf("key %q has non-positive width %.1f", k.Name, k.Width))
		}
		if k.Height <= 0 {
			errs = append(errs, fmt.Errorf("key %q has non-positive height %.1f", k.Name, k.Height))
		}
		if k.TextSize != nil && *k.TextSize <= 0 {
			errs = append(errs, fmt.Errorf("key %q has non-positive text_size %.1f", k.Name, *k.TextSize))
		}
		if k.CornerRadius != nil && *k.CornerRadius < 0 {
			errs = append(errs, fmt.Errorf("key %q has negative corner_radius %.1f", k.Name, *k.CornerRadius))
		}
		if k.BorderThickness != nil && *k.BorderThickness < 0 {
			errs = append(errs, fmt.Errorf("key %q has negative border_thickness %.1f", k.Name, *k.BorderThickness))
		}
		if k.BackgroundColor != "" {
			if _, err := ParseColor(k.BackgroundColor); err != nil {
				errs = append(errs, fmt.Errorf("key %q background_color: %w", k.Name, err))
			}
		}
	}

	return errors.Join(errs...)
}

// ParseDimension interprets a TOML size value: an integer is pixels, a
// float is a ratio of the screen dimension. The second return reports
// whether the value was set at all.
func ParseDimension(v any) (Dimension, bool, error) {
	switch n := v.(type) {
	case nil:
		return Dimension{}, false, nil
	case int64:
		if n < 0 {
			return Dimension{}, false, fmt.Errorf("negative pixel size %d", n)
		}
		return Dimension{Pixels: uint32(n)}, true, nil
	case int:
		if n < 0 {
			return Dimension{}, false, fmt.Errorf("negative pixel size %d", n)
		}
		return Dimension{Pixels: uint32(n)}, true, nil
	case float64:
		if n < 0 || n > 1 {
			return Dimension{}, false, fmt.Errorf("size ratio %.3f outside [0, 1]", n)
		}
		return Dimension{Ratio: n}, true, nil
	default:
		return Dimension{}, false, fmt.Errorf("size must be an integer pixel count or a float ratio, got %T", v)
	}
}

// Dimension is a size in either absolute pixels or a screen-relative ratio.
// Exactly one of the fields is meaningful.
type Dimension struct {
	Pixels uint32
	Ratio  float64
}
