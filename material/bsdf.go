// Package material implements the BSDF interface every shadeable surface
// exposes: init/eval/sample/pdf plus specular and transparency helpers,
// and the multi-lobe "shiny diffuse" material that composes mirror,
// transparent, translucent, and diffuse lobes with Fresnel-coupled
// weighting.
package material

import (
	"github.com/mrigankad/raytracer-core/color"
	"github.com/mrigankad/raytracer-core/geometry"
	"github.com/mrigankad/raytracer-core/raymath"
	"github.com/mrigankad/raytracer-core/scratch"
)

// Flags is a bit-set over the lobe/property taxonomy every material
// advertises through InitBSDF and consumes through eval/sample's requested
// mask.
type Flags uint32

const (
	Emit Flags = 1 << iota
	Specular
	Glossy
	Diffuse
	Reflect
	Transmit
	Filter
	Volumetric
	Dispersive
)

// Named lobe combinations used throughout sampling/eval dispatch.
const (
	SpecularReflect  = Specular | Reflect
	SpecularTransmit = Specular | Transmit | Filter
	DiffuseReflect   = Diffuse | Reflect
	Translucency     = Diffuse | Transmit
)

// Has reports whether f carries every bit in mask.
func (f Flags) Has(mask Flags) bool { return f&mask == mask }

// HasAny reports whether f shares any bit with mask.
func (f Flags) HasAny(mask Flags) bool { return f&mask != 0 }

// Sample is both the input random numbers and the output sampling record
// for BSDF.Sample.
type Sample struct {
	S1, S2 float32 // input uniforms in [0,1)

	SampledFlags Flags   // which lobe was picked
	Pdf          float32 // pdf of the picked direction
}

// BSDF is the interface every material exposes to the shading kernel.
// All methods take the per-ray scratch arena so InitBSDF's cached
// per-hit lobe weights are visible to the later eval/sample/pdf calls
// against the same hit.
type BSDF interface {
	// InitBSDF evaluates view-independent shader nodes, computes and caches
	// per-hit lobe weights into arena, and returns the union of supported
	// lobe flags for this hit.
	InitBSDF(sp geometry.SurfacePoint, arena *scratch.Arena) Flags

	// Eval evaluates the BSDF for the requested lobe subset at the cached
	// state. wo and wi both point away from the surface.
	Eval(sp geometry.SurfacePoint, wo, wi raymath.Vec3, requested Flags, arena *scratch.Arena) color.RGB

	// Sample picks one of the material's lobes and draws a direction from
	// it, filling in s.Pdf and s.SampledFlags for that lobe, and returns
	// (wi, f, weight) where the scalar weight = |n.wi| / (0.99*pdf + 0.01),
	// alpha-blended with 1.0 by the material's alpha; weight does not
	// include f.
	Sample(sp geometry.SurfacePoint, wo raymath.Vec3, s *Sample, arena *scratch.Arena) (wi raymath.Vec3, f color.RGB, weight float32)

	// Pdf returns the combined pdf of the requested lobe subset at
	// (wo, wi).
	Pdf(sp geometry.SurfacePoint, wo, wi raymath.Vec3, requested Flags, arena *scratch.Arena) float32

	// GetSpecular returns the deterministic perfect-mirror and
	// perfect-transmit branches (for Whitted-style splitting), each
	// optional via its own ok flag.
	GetSpecular(sp geometry.SurfacePoint, wo raymath.Vec3, arena *scratch.Arena) (reflect, refract SpecularBounce)

	// GetTransparency returns the filter colour transmitted straight
	// through the surface along -wo, used by transparent-shadow traversal.
	GetTransparency(sp geometry.SurfacePoint, wo raymath.Vec3, arena *scratch.Arena) color.RGB

	// GetAlpha returns the material's opacity in [0,1] at this hit.
	GetAlpha(sp geometry.SurfacePoint, wo raymath.Vec3, arena *scratch.Arena) float32

	// Emit returns emitted radiance towards wo.
	Emit(sp geometry.SurfacePoint, wo raymath.Vec3, arena *scratch.Arena) color.RGB
}

// SpecularBounce is one branch of GetSpecular: a direction and its colour,
// present only when Ok is true.
type SpecularBounce struct {
	Ok    bool
	Dir   raymath.Vec3
	Color color.RGB
}
