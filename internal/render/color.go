package render

import "image/color"

// bgra converts a straight-alpha color to premultiplied channels laid out
// for a little endian ARGB8888 buffer. Bytes in such a buffer run B, G, R,
// A, so the value is stored with the red and blue channels swapped
// relative to image.RGBA.
func bgra(c color.NRGBA) color.RGBA {
	a := uint16(c.A)
	return color.RGBA{
		R: uint8(uint16(c.B) * a / 255),
		G: uint8(uint16(c.G) * a / 255),
		B: uint8(uint16(c.R) * a / 255),
		A: c.A,
	}
}
