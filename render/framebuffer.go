// Package render implements the render-phase worker pool: tiles are
// dispatched to a fixed pool of goroutines, each owning its own
// scratch.Arena and RNG state and reading only immutable scene and
// accelerator data, so there is no lock on the read path.
package render

import "github.com/mrigankad/raytracer-core/color"

// Framebuffer accumulates per-pixel colour. Tiles write to disjoint pixel
// ranges, so Set needs no per-pixel lock.
type Framebuffer struct {
	Width, Height int
	Pixels        []color.RGB
}

// NewFramebuffer allocates a zeroed width x height framebuffer.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{Width: width, Height: height, Pixels: make([]color.RGB, width*height)}
}

// Set writes the colour at (x, y). Callers are responsible for ensuring no
// two goroutines write the same pixel concurrently; tile dispatch in this
// package guarantees that by construction (disjoint tile rectangles).
func (f *Framebuffer) Set(x, y int, c color.RGB) {
	f.Pixels[y*f.Width+x] = c
}

// At reads the colour at (x, y).
func (f *Framebuffer) At(x, y int) color.RGB {
	return f.Pixels[y*f.Width+x]
}
