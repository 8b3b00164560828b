// Package color holds the small colour types shared by materials and the
// configuration vocabulary. RGB is what BSDF evaluation/sampling produces
// and consumes; RGBA additionally carries the alpha channel ParamMap needs
// for texture/material parameters.
package color

// RGB is a linear radiance/reflectance triple. Operations are componentwise;
// there is no clamping here — callers clamp at the framebuffer boundary.
type RGB struct {
	R, G, B float32
}

var (
	Black = RGB{0, 0, 0}
	White = RGB{1, 1, 1}
)

func (c RGB) Add(o RGB) RGB { return RGB{c.R + o.R, c.G + o.G, c.B + o.B} }
func (c RGB) Sub(o RGB) RGB { return RGB{c.R - o.R, c.G - o.G, c.B - o.B} }
func (c RGB) Mul(s float32) RGB { return RGB{c.R * s, c.G * s, c.B * s} }
func (c RGB) MulRGB(o RGB) RGB  { return RGB{c.R * o.R, c.G * o.G, c.B * o.B} }

// Lerp blends towards o by t in [0,1].
func (c RGB) Lerp(o RGB, t float32) RGB {
	return c.Add(o.Sub(c).Mul(t))
}

// IsZero reports whether every channel is exactly zero, used by eval/pdf
// invariants that must never return a negative or NaN-carrying colour.
func (c RGB) IsZero() bool {
	return c.R == 0 && c.G == 0 && c.B == 0
}

// Luminance is the Rec.709 relative luminance, used to decide when an
// accumulated transparent-shadow filter has faded enough to be treated as
// opaque.
func (c RGB) Luminance() float32 {
	return 0.2126*c.R + 0.7152*c.G + 0.0722*c.B
}

func (c RGB) ToRGBA(a float32) RGBA {
	return RGBA{R: c.R, G: c.G, B: c.B, A: a}
}

// RGBA is the ParamMap colour value type.
type RGBA struct {
	R, G, B, A float32
}

func (c RGBA) ToRGB() RGB { return RGB{c.R, c.G, c.B} }
