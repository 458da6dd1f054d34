// Package layout holds the immutable keyboard layout model: which keys are
// drawn, where, and with what shared appearance. The model is built once
// from a validated config and is shared read-only by the input pipeline
// (to know which codes matter) and the render engine (to draw).
package layout

import (
	"fmt"
	"image/color"
	"log/slog"

	"github.com/jmylchreest/keyosd/internal/config"
	"github.com/jmylchreest/keyosd/internal/keycode"
)

// Key is one key of the layout in abstract layout units.
type Key struct {
	// Label is the text drawn on the key.
	Label string
	// Symbol is the canonical symbolic name the key is tracked under in
	// the key state. Empty for unmapped keys, which render but never
	// highlight.
	Symbol string
	// Code is the resolved evdev code, 0 when unmapped.
	Code uint32

	Left, Top     float64
	Width, Height float64

	RotationDegrees float64
	TextSize        float64
	CornerRadius    float64
	BorderThickness float64

	// Background overrides the shared released-state key background.
	Background *color.NRGBA
}

// Mapped reports whether the key resolves to an evdev code.
func (k *Key) Mapped() bool { return k.Symbol != "" }

// Appearance is the shared color set.
type Appearance struct {
	BackgroundInactive  color.NRGBA
	KeyBackground       color.NRGBA
	KeyText             color.NRGBA
	KeyOutline          color.NRGBA
	ActiveKeyBackground color.NRGBA
	ActiveKeyText       color.NRGBA
}

// Placement describes where the overlay surface goes on screen.
type Placement struct {
	Screen    string
	Position  string
	Width     config.Dimension
	WidthSet  bool
	Height    config.Dimension
	HeightSet bool

	MarginTop, MarginRight, MarginBottom, MarginLeft int
}

// Model is the parsed, validated layout. Immutable after FromConfig.
type Model struct {
	Keys       []Key
	Appearance Appearance
	Placement  Placement

	// Bounding box over all keys, in layout units.
	MinX, MinY       float64
	BoundsW, BoundsH float64
}

// FromConfig builds the layout model, resolving key names to evdev codes
// via the keycode table. Keys whose name or keycode cannot be resolved stay
// in the model as unmapped; duplicate codes and overlapping keys are
// errors.
func FromConfig(cfg *config.Config, table *keycode.Table) (*Model, error) {
	m := &Model{}

	var err error
	if m.Appearance, err = appearanceFromConfig(&cfg.Overlay); err != nil {
		return nil, err
	}

	m.Placement.Screen = cfg.Overlay.Screen
	m.Placement.Position = cfg.Overlay.Position
	if m.Placement.Position == "" {
		m.Placement.Position = config.PositionBottomCenter
	}
	m.Placement.Width, m.Placement.WidthSet, err = config.ParseDimension(cfg.Overlay.SizeWidth)
	if err != nil {
		return nil, fmt.Errorf("overlay size_width: %w", err)
	}
	m.Placement.Height, m.Placement.HeightSet, err = config.ParseDimension(cfg.Overlay.SizeHeight)
	if err != nil {
		return nil, fmt.Errorf("overlay size_height: %w", err)
	}
	m.Placement.MarginTop = cfg.Overlay.MarginTop
	m.Placement.MarginRight = cfg.Overlay.MarginRight
	m.Placement.MarginBottom = cfg.Overlay.MarginBottom
	m.Placement.MarginLeft = cfg.Overlay.MarginLeft

	m.Keys = make([]Key, 0, len(cfg.Keys))
	for i := range cfg.Keys {
		k, err := keyFromConfig(&cfg.Keys[i], table)
		if err != nil {
			return nil, err
		}
		m.Keys = append(m.Keys, k)
	}

	if err := m.validate(); err != nil {
		return nil, err
	}

	m.computeBounds()
	return m, nil
}

func appearanceFromConfig(o *config.OverlayConfig) (Appearance, error) {
	var a Appearance
	for _, slot := range []struct {
		dst      *color.NRGBA
		value    string
		fallback string
	}{
		{&a.BackgroundInactive, o.BackgroundColorInactive, config.DefaultBackgroundInactive},
		{&a.KeyBackground, o.DefaultKeyBackgroundColor, config.DefaultKeyBackground},
		{&a.KeyText, o.DefaultKeyTextColor, config.DefaultKeyText},
		{&a.KeyOutline, o.DefaultKeyOutlineColor, config.DefaultKeyOutline},
		{&a.ActiveKeyBackground, o.ActiveKeyBackgroundColor, config.DefaultActiveKeyBackground},
		{&a.ActiveKeyText, o.ActiveKeyTextColor, config.DefaultKeyText},
	} {
		value := slot.value
		if value == "" {
			value = slot.fallback
		}
		c, err := config.ParseColor(value)
		if err != nil {
			return Appearance{}, err
		}
		*slot.dst = c
	}
	return a, nil
}

func keyFromConfig(kc *config.KeyConfig, table *keycode.Table) (Key, error) {
	k := Key{
		Label:           kc.Name,
		Left:            kc.Left,
		Top:             kc.Top,
		Width:           kc.Width,
		Height:          kc.Height,
		RotationDegrees: config.DefaultRotationDegrees,
		TextSize:        config.DefaultTextSize,
		CornerRadius:    config.DefaultCornerRadius,
		BorderThickness: config.DefaultBorderThickness,
	}
	if kc.RotationDegrees != nil {
		k.RotationDegrees = *kc.RotationDegrees
	}
	if kc.TextSize != nil {
		k.TextSize = *kc.TextSize
	}
	if kc.CornerRadius != nil {
		k.CornerRadius = *kc.CornerRadius
	}
	if kc.BorderThickness != nil {
		k.BorderThickness = *kc.BorderThickness
	}
	if kc.BackgroundColor != "" {
		c, err := config.ParseColor(kc.BackgroundColor)
		if err != nil {
			return Key{}, fmt.Errorf("key %q background_color: %w", kc.Name, err)
		}
		k.Background = &c
	}

	code, err := resolveCode(kc, table)
	if err != nil {
		// Unresolvable keys render but never highlight.
		slog.Warn("key has no evdev mapping, it will render but never highlight",
			"key", kc.Name, "error", err)
		return k, nil
	}
	k.Code = code
	// Symbol falls back to a synthetic code:N name for codes outside the
	// table; the pipeline emits the same name, so such keys highlight.
	k.Symbol = table.Symbol(code)
	return k, nil
}

func resolveCode(kc *config.KeyConfig, table *keycode.Table) (uint32, error) {
	switch v := kc.Keycode.(type) {
	case nil:
		return table.Resolve(kc.Name)
	case string:
		return table.Resolve(v)
	case int64:
		if v < 0 {
			return 0, fmt.Errorf("key %q has negative keycode %d", kc.Name, v)
		}
		return uint32(v), nil
	case int:
		if v < 0 {
			return 0, fmt.Errorf("key %q has negative keycode %d", kc.Name, v)
		}
		return uint32(v), nil
	default:
		return 0, fmt.Errorf("key %q keycode must be a name or a number, got %T", kc.Name, v)
	}
}

// validate rejects overlapping keys and duplicate codes. The overlap
// check compares unrotated bounding boxes.
func (m *Model) validate() error {
	for i := 0; i < len(m.Keys); i++ {
		for j := i + 1; j < len(m.Keys); j++ {
			a, b := &m.Keys[i], &m.Keys[j]
			if a.Left < b.Left+b.Width && a.Left+a.Width > b.Left &&
				a.Top < b.Top+b.Height && a.Top+a.Height > b.Top {
				return fmt.Errorf("key %q (at %.1f,%.1f size %.1fx%.1f) overlaps key %q (at %.1f,%.1f size %.1fx%.1f)",
					a.Label, a.Left, a.Top, a.Width, a.Height,
					b.Label, b.Left, b.Top, b.Width, b.Height)
			}
		}
	}

	seen := make(map[uint32]string, len(m.Keys))
	for i := range m.Keys {
		k := &m.Keys[i]
		if !k.Mapped() {
			continue
		}
		if prev, dup := seen[k.Code]; dup {
			return fmt.Errorf("duplicate keycode %d used by key %q and key %q", k.Code, prev, k.Label)
		}
		seen[k.Code] = k.Label
	}
	return nil
}

func (m *Model) computeBounds() {
	if len(m.Keys) == 0 {
		return
	}
	minX, minY := m.Keys[0].Left, m.Keys[0].Top
	maxX, maxY := minX+m.Keys[0].Width, minY+m.Keys[0].Height
	for i := 1; i < len(m.Keys); i++ {
		k := &m.Keys[i]
		minX = min(minX, k.Left)
		minY = min(minY, k.Top)
		maxX = max(maxX, k.Left+k.Width)
		maxY = max(maxY, k.Top+k.Height)
	}
	m.MinX, m.MinY = minX, minY
	m.BoundsW, m.BoundsH = max(maxX-minX, 0), max(maxY-minY, 0)
}

// Aspect returns the layout's width/height ratio, defaulting to 16:9 for
// degenerate layouts.
func (m *Model) Aspect() float64 {
	if m.BoundsH <= 0 {
		return 16.0 / 9.0
	}
	return m.BoundsW / m.BoundsH
}
