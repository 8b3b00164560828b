package material

import (
	"github.com/mrigankad/raytracer-core/color"
	"github.com/mrigankad/raytracer-core/geometry"
	"github.com/mrigankad/raytracer-core/raymath"
	"github.com/mrigankad/raytracer-core/scratch"
)

// Mirror is a single-lobe perfect-specular-reflect material, used by tests
// and as a minimal building block alongside Lambert; it carries no
// diffuse/transparent lobes at all.
type Mirror struct {
	Color color.RGB
}

func (m *Mirror) InitBSDF(sp geometry.SurfacePoint, arena *scratch.Arena) Flags {
	return SpecularReflect
}

func (m *Mirror) Eval(sp geometry.SurfacePoint, wo, wi raymath.Vec3, requested Flags, arena *scratch.Arena) color.RGB {
	return color.Black // specular lobes never contribute to eval
}

func (m *Mirror) Sample(sp geometry.SurfacePoint, wo raymath.Vec3, s *Sample, arena *scratch.Arena) (raymath.Vec3, color.RGB, float32) {
	n := raymath.FaceForward(sp.Ng, sp.Ns, wo)
	wi := raymath.Reflect(wo, n)
	s.SampledFlags = SpecularReflect
	s.Pdf = 1
	weight := float32(1) // specular pdf=1, weight formula degenerates to |n.wi|/1 which cancels against the mirror BRDF's 1/|n.wi| delta scaling
	return wi, m.Color, weight
}

func (m *Mirror) Pdf(sp geometry.SurfacePoint, wo, wi raymath.Vec3, requested Flags, arena *scratch.Arena) float32 {
	return 0 // a delta lobe has no finite pdf outside Sample/GetSpecular
}

func (m *Mirror) GetSpecular(sp geometry.SurfacePoint, wo raymath.Vec3, arena *scratch.Arena) (reflect, refract SpecularBounce) {
	n := raymath.FaceForward(sp.Ng, sp.Ns, wo)
	dir := raymath.Reflect(wo, n)
	return SpecularBounce{Ok: true, Dir: dir, Color: m.Color}, SpecularBounce{}
}

func (m *Mirror) GetTransparency(sp geometry.SurfacePoint, wo raymath.Vec3, arena *scratch.Arena) color.RGB {
	return color.Black
}

func (m *Mirror) GetAlpha(sp geometry.SurfacePoint, wo raymath.Vec3, arena *scratch.Arena) float32 {
	return 1
}

func (m *Mirror) Emit(sp geometry.SurfacePoint, wo raymath.Vec3, arena *scratch.Arena) color.RGB {
	return color.Black
}
