package layout

// Fit maps layout units onto a surface of a particular pixel size.
type Fit struct {
	Scale            float64
	OffsetX, OffsetY float64
}

// Apply converts a layout-unit point to surface pixels.
func (f Fit) Apply(x, y float64) (float64, float64) {
	return x*f.Scale + f.OffsetX, y*f.Scale + f.OffsetY
}

// Fitter caches the scale/offset computation per surface size; the fit only
// changes when the surface is resized.
type Fitter struct {
	model  *Model
	lastW  int
	lastH  int
	cached Fit
	valid  bool
}

// NewFitter creates a fitter for the model.
func NewFitter(m *Model) *Fitter {
	return &Fitter{model: m}
}

// Invalidate discards the cached fit, forcing recomputation on next use.
func (f *Fitter) Invalidate() {
	f.valid = false
}

// ForSize returns the fit for a surface of width x height pixels.
func (f *Fitter) ForSize(width, height int) Fit {
	if f.valid && f.lastW == width && f.lastH == height {
		return f.cached
	}

	m := f.model

	// Tight padding when the user pinned an explicit size; otherwise
	// proportional with a small floor.
	padding := 2.0
	if !m.Placement.WidthSet && !m.Placement.HeightSet {
		padding = max(float64(min(width, height))*0.05, 5.0)
	}

	drawW := max(float64(width)-2*padding, 0)
	drawH := max(float64(height)-2*padding, 0)

	scaleX, scaleY := 1.0, 1.0
	if m.BoundsW > 0 {
		scaleX = drawW / m.BoundsW
	}
	if m.BoundsH > 0 {
		scaleY = drawH / m.BoundsH
	}
	scale := max(min(scaleX, scaleY), 0.01)

	fit := Fit{
		Scale:   scale,
		OffsetX: padding + (drawW-m.BoundsW*scale)/2 - m.MinX*scale,
		OffsetY: padding + (drawH-m.BoundsH*scale)/2 - m.MinY*scale,
	}

	f.lastW, f.lastH = width, height
	f.cached = fit
	f.valid = true
	return fit
}

// SurfaceSize derives the overlay surface size in pixels for a screen of
// the given dimensions, honoring configured pixel/ratio sizes and falling
// back to aspect-preserving defaults. Results are clamped to the screen.
func (m *Model) SurfaceSize(screenW, screenH int) (uint32, uint32) {
	aspect := m.Aspect()

	var targetW, targetH uint32
	if m.Placement.WidthSet {
		if m.Placement.Width.Pixels > 0 {
			targetW = m.Placement.Width.Pixels
		} else {
			targetW = uint32(float64(screenW)*m.Placement.Width.Ratio + 0.5)
		}
	}
	if m.Placement.HeightSet {
		if m.Placement.Height.Pixels > 0 {
			targetH = m.Placement.Height.Pixels
		} else {
			targetH = uint32(float64(screenH)*m.Placement.Height.Ratio + 0.5)
		}
	}

	switch {
	case targetW > 0 && targetH == 0:
		targetH = uint32(float64(targetW)/aspect + 0.5)
	case targetH > 0 && targetW == 0:
		targetW = uint32(float64(targetH)*aspect + 0.5)
	case targetW == 0 && targetH == 0:
		targetH = uint32(float64(screenH)*0.3 + 0.5)
		targetW = uint32(float64(targetH)*aspect + 0.5)
	}

	if screenW > 0 && targetW > uint32(screenW) {
		targetW = uint32(screenW)
		targetH = uint32(float64(targetW)/aspect + 0.5)
	}
	if screenH > 0 && targetH > uint32(screenH) {
		targetH = uint32(screenH)
		targetW = uint32(float64(targetH)*aspect + 0.5)
	}

	if targetW == 0 && screenW > 0 {
		targetW = uint32(max(float64(screenW)*0.1, 1))
	}
	if targetH == 0 && screenH > 0 {
		targetH = uint32(max(float64(screenH)*0.1, 1))
	}
	if targetW == 0 {
		targetW = 100
	}
	if targetH == 0 {
		targetH = 50
	}
	return targetW, targetH
}
