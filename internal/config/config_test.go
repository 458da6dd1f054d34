package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "keys.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Empty(t, cfg.Keys)
	assert.Equal(t, PositionBottomCenter, cfg.Overlay.Position)
	assert.Equal(t, 0.3, cfg.Overlay.SizeHeight)
	assert.Nil(t, cfg.Overlay.SizeWidth)
	assert.Equal(t, DefaultKeyBackground, cfg.Overlay.DefaultKeyBackgroundColor)
	assert.Equal(t, DefaultKeyText, cfg.Overlay.ActiveKeyTextColor)
	assert.Zero(t, cfg.Overlay.MarginTop)
}

func TestLoadConfig_ParsesTOML(t *testing.T) {
	path := writeConfig(t, `
[overlay]
position = "top-right"
size_width = 640
margin_top = 10
active_key_background_color = "#FF0000"

[[key]]
name = "A"
left = 0.0
top = 0.0
width = 40.0
height = 40.0

[[key]]
name = "Shift"
keycode = "leftshift"
left = 50.0
top = 0.0
width = 80.0
height = 40.0
rotation_degrees = 5.0
text_size = 14.0
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "top-right", cfg.Overlay.Position)
	assert.Equal(t, 10, cfg.Overlay.MarginTop)
	assert.Equal(t, "#FF0000", cfg.Overlay.ActiveKeyBackgroundColor)

	dim, set, err := ParseDimension(cfg.Overlay.SizeWidth)
	require.NoError(t, err)
	assert.True(t, set)
	assert.Equal(t, uint32(640), dim.Pixels)

	// Unset slots keep their defaults.
	assert.Equal(t, DefaultKeyText, cfg.Overlay.DefaultKeyTextColor)

	require.Len(t, cfg.Keys, 2)
	assert.Equal(t, "A", cfg.Keys[0].Name)
	assert.Nil(t, cfg.Keys[0].Keycode)
	assert.Equal(t, "leftshift", cfg.Keys[1].Keycode)
	require.NotNil(t, cfg.Keys[1].RotationDegrees)
	assert.Equal(t, 5.0, *cfg.Keys[1].RotationDegrees)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig("/nonexistent/keys.toml")
	require.Error(t, err)
}

func TestValidate_RejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"non-positive width": `
[[key]]
name = "A"
left = 0.0
top = 0.0
width = 0.0
height = 40.0
`,
		"negative corner radius": `
[[key]]
name = "A"
left = 0.0
top = 0.0
width = 40.0
height = 40.0
corner_radius = -1.0
`,
		"bad color": `
[overlay]
default_key_text_color = "#GG0000"
`,
		"bad position": `
[overlay]
position = "somewhere"
`,
		"bad size type": `
[overlay]
size_width = "wide"
`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, content))
			assert.Error(t, err)
		})
	}
}

func TestParseDimension(t *testing.T) {
	dim, set, err := ParseDimension(int64(800))
	require.NoError(t, err)
	assert.True(t, set)
	assert.Equal(t, uint32(800), dim.Pixels)
	assert.Zero(t, dim.Ratio)

	dim, set, err = ParseDimension(0.5)
	require.NoError(t, err)
	assert.True(t, set)
	assert.Equal(t, 0.5, dim.Ratio)

	_, set, err = ParseDimension(nil)
	require.NoError(t, err)
	assert.False(t, set)

	_, _, err = ParseDimension(1.5)
	assert.Error(t, err)

	_, _, err = ParseDimension("big")
	assert.Error(t, err)
}

func TestParseColor(t *testing.T) {
	cases := map[string]color.NRGBA{
		"#FF0000":   {R: 0xFF, A: 0xFF},
		"#FF000080": {R: 0xFF, A: 0x80},
		"#F00":      {R: 0xFF, A: 0xFF},
		"#F008":     {R: 0xFF, A: 0x88},
		"4D4D4D80":  {R: 0x4D, G: 0x4D, B: 0x4D, A: 0x80},
	}
	for in, want := range cases {
		got, err := ParseColor(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"", "#F", "#FF00", "#XXYYZZ", "#FF00001"} {
		_, err := ParseColor(in)
		assert.Error(t, err, in)
	}
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	path := writeConfig(t, `
[[key]]
name = "A"
left = 0.0
top = 0.0
width = 40.0
height = 40.0
`)

	reloaded := make(chan *Config, 1)
	w, err := NewWatcher(path, func(cfg *Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	})
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	require.NoError(t, os.WriteFile(path, []byte(`
[[key]]
name = "B"
left = 0.0
top = 0.0
width = 40.0
height = 40.0
`), 0644))

	select {
	case cfg := <-reloaded:
		require.Len(t, cfg.Keys, 1)
		assert.Equal(t, "B", cfg.Keys[0].Name)
	case <-time.After(5 * time.Second):
		t.Fatal("config reload not observed")
	}
}

func TestWatcher_CoalescesWriteBursts(t *testing.T) {
	path := writeConfig(t, `
[[key]]
name = "A"
left = 0.0
top = 0.0
width = 40.0
height = 40.0
`)

	reloaded := make(chan *Config, 4)
	w, err := NewWatcher(path, func(cfg *Config) { reloaded <- cfg })
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	// Save like an editor does: truncate first, then write the content.
	// The truncated file parses as an empty config, which must never be
	// delivered.
	require.NoError(t, os.WriteFile(path, nil, 0644))
	require.NoError(t, os.WriteFile(path, []byte(`[[key]]
name = "B"
left = 0.0
top = 0.0
width = 40.0
height = 40.0
`), 0644))

	select {
	case cfg := <-reloaded:
		require.Len(t, cfg.Keys, 1)
		assert.Equal(t, "B", cfg.Keys[0].Name)
	case <-time.After(5 * time.Second):
		t.Fatal("config reload not observed")
	}
}

func TestWatcher_KeepsPreviousOnInvalid(t *testing.T) {
	path := writeConfig(t, `
[[key]]
name = "A"
left = 0.0
top = 0.0
width = 40.0
height = 40.0
`)

	reloaded := make(chan *Config, 4)
	w, err := NewWatcher(path, func(cfg *Config) { reloaded <- cfg })
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	// Invalid edit: callback must not fire for it.
	require.NoError(t, os.WriteFile(path, []byte(`[[key]]
name = "A"
width = -1.0
height = 40.0
`), 0644))

	// A following valid edit still comes through.
	require.NoError(t, os.WriteFile(path, []byte(`[[key]]
name = "C"
left = 0.0
top = 0.0
width = 40.0
height = 40.0
`), 0644))

	select {
	case cfg := <-reloaded:
		require.Len(t, cfg.Keys, 1)
		assert.Equal(t, "C", cfg.Keys[0].Name)
	case <-time.After(5 * time.Second):
		t.Fatal("valid reload not observed")
	}
}
