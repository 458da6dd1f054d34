// Package keycode maps between Linux evdev key codes and symbolic key names.
// The table is the key vocabulary used both by the layout config (resolving
// configured names to codes) and by the input pipeline (resolving raw codes
// back to the canonical name a key is tracked under).
package keycode

import (
	"fmt"
	"strings"
	"sync"
)

// Table is the immutable name <-> code mapping. Build it once via Load and
// share it by reference; lookups never mutate it.
type Table struct {
	byName map[string]uint32
	byCode map[uint32]string
}

var (
	buildOnce sync.Once
	shared    *Table
)

// Load returns the process-wide table, building it on first use.
func Load() *Table {
	buildOnce.Do(func() {
		shared = build()
	})
	return shared
}

// entry groups one evdev code with its accepted names. The first name is
// canonical and is what Name returns.
type entry struct {
	code  uint32
	names []string
}

func build() *Table {
	t := &Table{
		byName: make(map[string]uint32, 512),
		byCode: make(map[uint32]string, 256),
	}
	for _, e := range entries {
		if _, dup := t.byCode[e.code]; !dup {
			t.byCode[e.code] = e.names[0]
		}
		for _, n := range e.names {
			t.byName[n] = e.code
		}
	}
	return t
}

// Name resolves a raw evdev code to its canonical symbolic name. Unknown
// codes return ok=false.
func (t *Table) Name(code uint32) (string, bool) {
	n, ok := t.byCode[code]
	return n, ok
}

// Symbol is like Name but never fails: codes outside the table get a
// synthetic "code:N" name. Layout keys configured with such codes and the
// events the input pipeline emits for them agree on this naming, so the
// keys still highlight.
func (t *Table) Symbol(code uint32) string {
	if n, ok := t.byCode[code]; ok {
		return n
	}
	return fmt.Sprintf("code:%d", code)
}

// ambiguous short names for modifier keys. Accepting them would silently
// pick a side, so they are rejected with a hint instead.
var ambiguous = map[string]string{
	"shift":   "Ambiguous key name 'shift'. Please specify 'leftshift' or 'rightshift'.",
	"ctrl":    "Ambiguous key name 'ctrl' or 'control'. Please specify 'leftctrl' or 'rightctrl'.",
	"control": "Ambiguous key name 'ctrl' or 'control'. Please specify 'leftctrl' or 'rightctrl'.",
	"alt":     "Ambiguous key name 'alt'. Please specify 'leftalt' or 'rightalt' (or 'altgr' for Right Alt / AltGr).",
	"meta":    "Ambiguous key name 'meta', 'win', 'windows' or 'super'. Please specify a left/right variant, e.g. 'leftmeta'.",
	"win":     "Ambiguous key name 'meta', 'win', 'windows' or 'super'. Please specify a left/right variant, e.g. 'leftmeta'.",
	"windows": "Ambiguous key name 'meta', 'win', 'windows' or 'super'. Please specify a left/right variant, e.g. 'leftmeta'.",
	"super":   "Ambiguous key name 'meta', 'win', 'windows' or 'super'. Please specify a left/right variant, e.g. 'leftmeta'.",
}

// Resolve looks up the evdev code for a key name.
//
// Before matching, the name is normalized: lowercased, underscores removed,
// and hyphens removed only when the string contains a letter (so aliases
// like "volume-down" match while the "-" key itself survives).
func (t *Table) Resolve(name string) (uint32, error) {
	normalized := strings.ToLower(name)
	normalized = strings.ReplaceAll(normalized, "_", "")
	if strings.ContainsFunc(normalized, isLetter) {
		normalized = strings.ReplaceAll(normalized, "-", "")
	}

	if msg, ok := ambiguous[normalized]; ok {
		return 0, fmt.Errorf("%s", msg)
	}
	if code, ok := t.byName[normalized]; ok {
		return code, nil
	}
	return 0, fmt.Errorf("unknown key name: %q", name)
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
