package keycode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustResolve(t *testing.T, name string) uint32 {
	t.Helper()
	code, err := Load().Resolve(name)
	require.NoError(t, err, "resolving %q", name)
	return code
}

func TestResolveSimpleKeys(t *testing.T) {
	assert.Equal(t, uint32(16), mustResolve(t, "q"))
	assert.Equal(t, uint32(16), mustResolve(t, "Q"))
	assert.Equal(t, uint32(1), mustResolve(t, "esc"))
	assert.Equal(t, uint32(1), mustResolve(t, "ESC"))
	assert.Equal(t, uint32(28), mustResolve(t, "enter"))
	assert.Equal(t, uint32(28), mustResolve(t, "RETURN"))
	assert.Equal(t, uint32(57), mustResolve(t, "space"))
	assert.Equal(t, uint32(2), mustResolve(t, "1"))
	assert.Equal(t, uint32(11), mustResolve(t, "0"))
}

func TestResolveFunctionKeys(t *testing.T) {
	assert.Equal(t, uint32(59), mustResolve(t, "f1"))
	assert.Equal(t, uint32(88), mustResolve(t, "F12"))
	assert.Equal(t, uint32(183), mustResolve(t, "f13"))
	assert.Equal(t, uint32(194), mustResolve(t, "f24"))
}

func TestResolveModifierKeys(t *testing.T) {
	cases := map[string]uint32{
		"leftshift": 42, "lshift": 42,
		"rightshift": 54, "rshift": 54,
		"leftctrl": 29, "rctrl": 97,
		"leftalt": 56, "ralt": 100, "altgr": 100,
		"leftmeta": 125, "lwin": 125, "leftsuper": 125,
		"rightmeta": 126, "rsuper": 126,
	}
	for name, want := range cases {
		assert.Equal(t, want, mustResolve(t, name), name)
	}
}

func TestResolveSymbolKeys(t *testing.T) {
	cases := map[string]uint32{
		".": 52, "period": 52,
		",": 51, "/": 53,
		";": 39, "'": 40, "quote": 40,
		"[": 26, "lbracket": 26,
		"]": 27, `\`: 43,
		"`": 41, "tilde": 41,
		"-": 12, "minus": 12,
		"=": 13, "equal": 13,
	}
	for name, want := range cases {
		assert.Equal(t, want, mustResolve(t, name), name)
	}
}

func TestResolveNormalization(t *testing.T) {
	assert.Equal(t, uint32(42), mustResolve(t, "LeFt_ShIfT"))
	assert.Equal(t, uint32(96), mustResolve(t, "KeyPad_eNTeR"))
	assert.Equal(t, uint32(96), mustResolve(t, "kp_enter"))
	assert.Equal(t, uint32(114), mustResolve(t, "volume-down"))
}

func TestResolveUnknown(t *testing.T) {
	_, err := Load().Resolve("thiskeydoesnotexist")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown key name")
}

func TestResolveAmbiguous(t *testing.T) {
	for _, name := range []string{"shift", "SHIFT", "ctrl", "control", "alt", "meta", "win", "windows", "super"} {
		_, err := Load().Resolve(name)
		require.Error(t, err, name)
		assert.Contains(t, err.Error(), "Ambiguous", name)
	}
}

func TestNameRoundTrip(t *testing.T) {
	table := Load()

	name, ok := table.Name(30)
	require.True(t, ok)
	assert.Equal(t, "a", name)

	name, ok = table.Name(42)
	require.True(t, ok)
	assert.Equal(t, "leftshift", name)

	// Canonical name resolves back to the same code.
	code, err := table.Resolve(name)
	require.NoError(t, err)
	assert.Equal(t, uint32(42), code)

	_, ok = table.Name(0xffff)
	assert.False(t, ok)
}

func TestSymbolFallsBackToSyntheticName(t *testing.T) {
	table := Load()

	assert.Equal(t, "a", table.Symbol(30))
	assert.Equal(t, "code:767", table.Symbol(0x2ff))
}
