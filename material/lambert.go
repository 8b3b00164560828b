package material

import (
	"math"

	"github.com/mrigankad/raytracer-core/color"
	"github.com/mrigankad/raytracer-core/geometry"
	"github.com/mrigankad/raytracer-core/raymath"
	"github.com/mrigankad/raytracer-core/scratch"
)

// Lambert is a single-lobe diffuse-only material: the registry's default
// substitution when an unknown material type is requested. It needs no scratch
// state and has no arena slot.
type Lambert struct {
	Color color.RGB
}

func (m *Lambert) InitBSDF(sp geometry.SurfacePoint, arena *scratch.Arena) Flags {
	return DiffuseReflect
}

func (m *Lambert) Eval(sp geometry.SurfacePoint, wo, wi raymath.Vec3, requested Flags, arena *scratch.Arena) color.RGB {
	if !requested.HasAny(Diffuse) {
		return color.Black
	}
	n := raymath.FaceForward(sp.Ng, sp.Ns, wo)
	if n.Dot(wi) <= 0 {
		return color.Black
	}
	return m.Color.Mul(1 / math.Pi)
}

func (m *Lambert) Sample(sp geometry.SurfacePoint, wo raymath.Vec3, s *Sample, arena *scratch.Arena) (raymath.Vec3, color.RGB, float32) {
	n := raymath.FaceForward(sp.Ng, sp.Ns, wo)
	wi := cosineHemisphere(n, sp.Nu, sp.Nv, s.S1, s.S2)
	s.SampledFlags = DiffuseReflect
	s.Pdf = absf(wi.Dot(n)) / math.Pi
	f := m.Eval(sp, wo, wi, DiffuseReflect, arena)
	weight := absf(wi.Dot(sp.Ns)) / (0.99*s.Pdf + 0.01)
	return wi, f, weight
}

func (m *Lambert) Pdf(sp geometry.SurfacePoint, wo, wi raymath.Vec3, requested Flags, arena *scratch.Arena) float32 {
	if !requested.HasAny(Diffuse) {
		return 0
	}
	n := raymath.FaceForward(sp.Ng, sp.Ns, wo)
	if n.Dot(wi) <= 0 {
		return 0
	}
	return n.Dot(wi) / math.Pi
}

func (m *Lambert) GetSpecular(sp geometry.SurfacePoint, wo raymath.Vec3, arena *scratch.Arena) (reflect, refract SpecularBounce) {
	return SpecularBounce{}, SpecularBounce{}
}

func (m *Lambert) GetTransparency(sp geometry.SurfacePoint, wo raymath.Vec3, arena *scratch.Arena) color.RGB {
	return color.Black
}

func (m *Lambert) GetAlpha(sp geometry.SurfacePoint, wo raymath.Vec3, arena *scratch.Arena) float32 {
	return 1
}

func (m *Lambert) Emit(sp geometry.SurfacePoint, wo raymath.Vec3, arena *scratch.Arena) color.RGB {
	return color.Black
}
