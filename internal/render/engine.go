package render

import (
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"math"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/jmylchreest/keyosd/internal/layout"
)

// Engine draws a layout model into RGBA buffers. It is not safe for
// concurrent use; the orchestrator renders from a single goroutine.
type Engine struct {
	model *layout.Model
	font  *truetype.Font
	faces map[int]font.Face
}

// NewEngine builds an engine for the model. The embedded Go Regular font
// is used for labels; if it fails to parse the engine falls back to a
// fixed bitmap face instead of refusing to draw.
func NewEngine(model *layout.Model, logger *slog.Logger) *Engine {
	e := &Engine{
		model: model,
		faces: make(map[int]font.Face),
	}
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		logger.Warn("failed to parse embedded font, using bitmap fallback", "error", err)
	} else {
		e.font = f
	}
	return e
}

// Render paints the whole overlay: background first, then every key, with
// pressed keys styled by the active colors. The output depends only on the
// model, the fit and the pressed set.
func (e *Engine) Render(img *image.RGBA, fit layout.Fit, pressed map[string]bool) {
	ap := e.model.Appearance
	draw.Draw(img, img.Bounds(), image.NewUniform(bgra(ap.BackgroundInactive)), image.Point{}, draw.Src)

	for i := range e.model.Keys {
		k := &e.model.Keys[i]

		var bg, txt color.NRGBA
		if k.Mapped() && pressed[k.Symbol] {
			bg = ap.ActiveKeyBackground
			txt = ap.ActiveKeyText
		} else {
			bg = ap.KeyBackground
			if k.Background != nil {
				bg = *k.Background
			}
			txt = ap.KeyText
		}
		e.drawKey(img, k, fit, bgra(bg), bgra(ap.KeyOutline), bgra(txt))
	}
}

func (e *Engine) drawKey(img *image.RGBA, k *layout.Key, fit layout.Fit, bg, outline, txt color.RGBA) {
	s := fit.Scale
	w := k.Width * s
	h := k.Height * s
	if w <= 0 || h <= 0 {
		return
	}
	cx, cy := fit.Apply(k.Left+k.Width/2, k.Top+k.Height/2)
	radius := k.CornerRadius * s
	border := k.BorderThickness * s
	textSize := k.TextSize * s

	if k.RotationDegrees == 0 {
		e.paintKey(img, cx-w/2, cy-h/2, w, h, radius, border, textSize, k.Label, bg, outline, txt)
		return
	}

	// Rotated keys render axis-aligned into their own tile first, then the
	// tile is composited at the rotated position. The margin keeps the
	// stroke and its antialiasing inside the tile.
	margin := int(math.Ceil(border/2)) + 2
	tileW := int(math.Ceil(w)) + 2*margin
	tileH := int(math.Ceil(h)) + 2*margin
	tile := image.NewRGBA(image.Rect(0, 0, tileW, tileH))
	e.paintKey(tile, float64(margin), float64(margin), w, h, radius, border, textSize, k.Label, bg, outline, txt)
	rotateBlit(img, tile, cx, cy, k.RotationDegrees*math.Pi/180)
}

func (e *Engine) paintKey(dst *image.RGBA, x0, y0, w, h, radius, border, textSize float64, label string, bg, outline, txt color.RGBA) {
	paintRoundedRect(dst, x0, y0, w, h, radius, border, bg, outline)
	face, fitted := e.fitText(label, w, h, textSize)
	drawText(dst, face, fitted, x0, y0, w, h, txt)
}
