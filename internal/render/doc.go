// Package render rasterizes the keyboard layout into a pixel buffer. The
// engine is a pure function of the layout model, the fitted transform and
// the currently pressed symbols: rendering the same inputs twice produces
// byte identical output. Pixels are written premultiplied in the byte
// order of a little endian ARGB8888 buffer, which is what the compositor
// expects from a wl_shm surface.
package render
