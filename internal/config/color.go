package config

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// ParseColor parses a hex color string into a non-premultiplied RGBA color.
// Accepted forms: #RGB, #RGBA, #RRGGBB, #RRGGBBAA (leading '#' optional).
func ParseColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(s, "#")

	comp := func(pair string) (uint8, error) {
		v, err := strconv.ParseUint(pair, 16, 8)
		if err != nil {
			return 0, fmt.Errorf("invalid hex component %q in color %q", pair, s)
		}
		return uint8(v), nil
	}
	// wide doubles a single hex digit: "f" -> "ff".
	wide := func(i int) string {
		return string([]byte{hex[i], hex[i]})
	}

	var pairs [4]string
	switch len(hex) {
	case 6:
		pairs = [4]string{hex[0:2], hex[2:4], hex[4:6], "ff"}
	case 8:
		pairs = [4]string{hex[0:2], hex[2:4], hex[4:6], hex[6:8]}
	case 3:
		pairs = [4]string{wide(0), wide(1), wide(2), "ff"}
	case 4:
		pairs = [4]string{wide(0), wide(1), wide(2), wide(3)}
	default:
		return color.NRGBA{}, fmt.Errorf("invalid color %q: expected #RGB, #RGBA, #RRGGBB or #RRGGBBAA", s)
	}

	var out [4]uint8
	for i, p := range pairs {
		v, err := comp(p)
		if err != nil {
			return color.NRGBA{}, err
		}
		out[i] = v
	}
	return color.NRGBA{R: out[0], G: out[1], B: out[2], A: out[3]}, nil
}

// MustParseColor is ParseColor for compile-time-known constants.
func MustParseColor(s string) color.NRGBA {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}
