package render

import (
	"image"
	"image/color"
	"math"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const minTextSize = 6.0

// face returns a cached font face for the given size. Sizes are quantized
// to quarter points to keep the cache small across scaled layouts.
func (e *Engine) face(size float64) font.Face {
	if e.font == nil {
		return basicfont.Face7x13
	}
	key := int(math.Round(size * 4))
	if f, ok := e.faces[key]; ok {
		return f
	}
	f := truetype.NewFace(e.font, &truetype.Options{
		Size:    float64(key) / 4,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	e.faces[key] = f
	return f
}

func textWidth(face font.Face, s string) float64 {
	return float64(font.MeasureString(face, s)) / 64
}

// fitText shrinks the label until it fits the key, then falls back to
// ellipsis truncation when even the smallest allowed size is too wide.
// Returns the face and the possibly truncated string to draw.
func (e *Engine) fitText(label string, keyW, keyH, size float64) (font.Face, string) {
	f, s, _ := e.layoutText(label, keyW, keyH, size)
	return f, s
}

// SimulateLabel reports how a label would end up on a key of the given
// size: the final (possibly truncated) text and the font size it settled
// on. Used by configuration checking.
func (e *Engine) SimulateLabel(label string, keyW, keyH, size float64) (string, float64) {
	_, s, finalSize := e.layoutText(label, keyW, keyH, size)
	return s, finalSize
}

func (e *Engine) layoutText(label string, keyW, keyH, size float64) (font.Face, string, float64) {
	padding := math.Max(math.Min(keyW*0.1, keyH*0.1), 2.0)
	maxW := keyW - 2*padding
	if maxW <= 0 {
		return e.face(size), "", size
	}

	minSize := math.Max(size*0.5, minTextSize)
	f := e.face(size)
	for textWidth(f, label) > maxW && size > minSize {
		size *= 0.9
		if size < minSize {
			size = minSize
		}
		f = e.face(size)
	}
	if textWidth(f, label) <= maxW {
		return f, label, size
	}

	const ellipsis = "..."
	runes := []rune(label)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		if textWidth(f, string(runes)+ellipsis) <= maxW {
			return f, string(runes) + ellipsis, size
		}
	}
	for _, fallback := range []string{ellipsis, "..", ".", ""} {
		if textWidth(f, fallback) <= maxW {
			return f, fallback, size
		}
	}
	return f, "", size
}

// drawText draws s centered inside the rectangle at (x0, y0) of the given
// width and height.
func drawText(dst *image.RGBA, face font.Face, s string, x0, y0, w, h float64, col color.RGBA) {
	if s == "" {
		return
	}
	tw := textWidth(face, s)
	m := face.Metrics()
	ascent := float64(m.Ascent) / 64
	descent := float64(m.Descent) / 64

	x := x0 + (w-tw)/2
	y := y0 + (h-ascent-descent)/2 + ascent

	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)},
	}
	d.DrawString(s)
}
