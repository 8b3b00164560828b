package material

import (
	"math"

	"github.com/mrigankad/raytracer-core/color"
	"github.com/mrigankad/raytracer-core/geometry"
	"github.com/mrigankad/raytracer-core/raymath"
	"github.com/mrigankad/raytracer-core/scratch"
)

const strengthEpsilon = 1e-5

// ShinyDiffuse composes four lobes over one surface point — specular
// mirror, specular transmit, diffuse translucent, and diffuse reflect —
// with Fresnel-coupled weighting. Texture-like inputs are represented by
// an optional NodeGraph feeding the diffuse and mirror colours.
type ShinyDiffuse struct {
	DiffuseColor color.RGB
	MirrorColor  color.RGB

	MirrorStrength         float32
	TransparencyStrength   float32
	TranslucencyStrength   float32
	DiffuseStrength        float32
	TransmitFilterStrength float32
	EmitStrength           float32

	// IORSquared is eta^2 for the dielectric Fresnel term; zero disables
	// Fresnel coupling (Kr is then forced to 1).
	IORSquared float32

	// OrenNayarSigma > 0 enables Oren-Nayar roughness scaling of the
	// diffuse lobe; zero uses plain Lambertian diffuse.
	OrenNayarSigma float32

	// Slot is this material's registered index into the per-ray arena's
	// material-state table; scene.Scene.NextMaterialSlot hands out distinct
	// slots per material.
	Slot int

	// Graph optionally supplies the diffuse and mirror colours from
	// shader-node outputs. Nil means the flat colours above are used as-is.
	Graph *NodeGraph
}

// lobeWeights caches the raw (shader-resolved) per-lobe strengths; the
// Fresnel-coupled cumulative a[0..3] used by eval/sample/pdf is recomputed
// per call since it depends on the view direction wo, unlike the strengths
// themselves.
type lobeWeights struct {
	mirror, transparent, translucent, diffuse float32
}

func (m *ShinyDiffuse) rawWeights() lobeWeights {
	return lobeWeights{
		mirror:      m.MirrorStrength,
		transparent: m.TransparencyStrength,
		translucent: m.TranslucencyStrength,
		diffuse:     m.DiffuseStrength,
	}
}

// InitBSDF evaluates the view-independent shader graph (if any), caches the
// raw per-lobe strengths into the arena's material slot, and returns the
// union of supported lobe flags.
func (m *ShinyDiffuse) InitBSDF(sp geometry.SurfacePoint, arena *scratch.Arena) Flags {
	w := m.rawWeights()
	if m.Graph != nil {
		m.Graph.EvalViewIndependent(arena)
	}

	state := arena.MaterialSlot(m.Slot)
	state.Valid = true
	state.Weights = [4]float32{w.mirror, w.transparent, w.translucent, w.diffuse}

	var flags Flags
	if m.EmitStrength > 0 {
		flags |= Emit
	}
	if w.mirror > strengthEpsilon {
		flags |= SpecularReflect
	}
	if w.transparent > strengthEpsilon {
		flags |= SpecularTransmit
	}
	if w.translucent > strengthEpsilon {
		flags |= Translucency
	}
	if w.diffuse > strengthEpsilon {
		flags |= DiffuseReflect
	}
	state.Flags = uint32(flags)
	return flags
}

// fresnelKr computes the dielectric Fresnel reflectance for the
// (wo, n, eta^2) triple, or 1 when Fresnel is not configured.
func fresnelKr(wo, n raymath.Vec3, iorSquared float32) float32 {
	if iorSquared <= 0 {
		return 1
	}
	if wo.Dot(n) < 0 {
		n = n.Negate()
	}
	c := wo.Dot(n)
	g := iorSquared + c*c - 1
	if g < 0 {
		g = 0
	} else {
		g = float32(math.Sqrt(float64(g)))
	}
	aux := c * (g + c)
	term1 := (0.5 * (g - c) * (g - c)) / ((g + c) * (g + c))
	term2 := 1 + ((aux-1)*(aux-1))/((aux+1)*(aux+1))
	return term1 * term2
}

// accumulate turns raw strengths into the sequential-claim weights
// a[0..3], each lobe claiming a fraction of the light not already claimed,
// given the Fresnel reflectance kr.
func accumulate(w lobeWeights, kr float32) [4]float32 {
	var a [4]float32
	a[0] = w.mirror * kr
	acc := 1 - a[0]
	a[1] = w.transparent * acc
	acc *= 1 - w.transparent
	a[2] = w.translucent * acc
	acc *= 1 - w.translucent
	a[3] = w.diffuse * acc
	return a
}

func (m *ShinyDiffuse) cachedWeights(arena *scratch.Arena) lobeWeights {
	s := arena.MaterialSlot(m.Slot)
	return lobeWeights{mirror: s.Weights[0], transparent: s.Weights[1], translucent: s.Weights[2], diffuse: s.Weights[3]}
}

// Eval evaluates only the non-specular lobes analytically; specular lobes
// never contribute to eval.
func (m *ShinyDiffuse) Eval(sp geometry.SurfacePoint, wo, wi raymath.Vec3, requested Flags, arena *scratch.Arena) color.RGB {
	if !requested.HasAny(Diffuse) {
		return color.Black
	}
	n := raymath.FaceForward(sp.Ng, sp.Ns, wo)

	w := m.cachedWeights(arena)
	kr := fresnelKr(wo, n, m.IORSquared)
	a := accumulate(w, kr)

	cosNgWo := sp.Ng.Dot(wo)
	cosNgWi := sp.Ng.Dot(wi)
	transmit := cosNgWo*cosNgWi < 0

	if transmit {
		if a[2] > 0 {
			return m.diffuseColor(arena).Mul(a[2])
		}
		return color.Black
	}

	if n.Dot(wi) < 0 {
		return color.Black
	}

	md := a[3]
	if m.OrenNayarSigma > 0 {
		md *= orenNayar(wo, wi, n, m.OrenNayarSigma)
	}
	return m.diffuseColor(arena).Mul(md)
}

func (m *ShinyDiffuse) diffuseColor(arena *scratch.Arena) color.RGB {
	if m.Graph != nil {
		m.Graph.EvalViewDependent(arena)
		if c, ok := m.Graph.DiffuseColor(arena); ok {
			return c
		}
	}
	return m.DiffuseColor
}

// Sample draws a lobe proportional to its (Fresnel-weighted) cumulative
// strength and returns a direction from it. The sample weight soft-clamps
// tiny pdfs and is alpha-blended with 1.0 by the material's alpha.
func (m *ShinyDiffuse) Sample(sp geometry.SurfacePoint, wo raymath.Vec3, s *Sample, arena *scratch.Arena) (raymath.Vec3, color.RGB, float32) {
	n := raymath.FaceForward(sp.Ng, sp.Ns, wo)
	w := m.cachedWeights(arena)
	kr := fresnelKr(wo, n, m.IORSquared)
	a := accumulate(w, kr)

	type lobe struct {
		flags  Flags
		weight float32
	}
	candidates := []lobe{
		{SpecularReflect, a[0]},
		{SpecularTransmit, a[1]},
		{Translucency, a[2]},
		{DiffuseReflect, a[3]},
	}

	var matches []lobe
	sum := float32(0)
	for _, c := range candidates {
		if c.weight <= 0 {
			continue
		}
		matches = append(matches, c)
		sum += c.weight
	}
	if len(matches) == 0 || sum < strengthEpsilon {
		s.SampledFlags = 0
		s.Pdf = 0
		return raymath.Vec3{}, color.White, 0
	}

	invSum := 1 / sum
	cumulative := float32(0)
	pick := len(matches) - 1
	prevCumulative := float32(0)
	for i, c := range matches {
		prevCumulative = cumulative
		cumulative += c.weight * invSum
		if s.S1 <= cumulative {
			pick = i
			break
		}
	}
	chosen := matches[pick]
	lobeProb := chosen.weight * invSum

	var s1 float32
	if lobeProb > 0 {
		s1 = (s.S1 - prevCumulative) / lobeProb
	}
	s1 = clamp32(s1, 0, 1)

	var wi raymath.Vec3
	var f color.RGB

	switch chosen.flags {
	case SpecularReflect:
		wi = raymath.Reflect(wo, n)
		s.Pdf = lobeProb
		f = m.mirrorColor(arena).Mul(a[0]).Mul(1 / math32Max(absf(sp.Ns.Dot(wi)), 1e-6))
	case SpecularTransmit:
		wi = wo.Negate()
		cosN := absf(wi.Dot(n))
		if cosN < 1e-6 {
			s.Pdf = 0
		} else {
			s.Pdf = lobeProb
		}
		filterColor := m.diffuseColor(arena).Mul(m.TransmitFilterStrength).Add(color.RGB{R: 1 - m.TransmitFilterStrength, G: 1 - m.TransmitFilterStrength, B: 1 - m.TransmitFilterStrength})
		f = filterColor.Mul(a[1])
	case Translucency:
		wi = cosineHemisphere(n.Negate(), sp.Nu, sp.Nv, s1, s.S2)
		if sp.Ng.Dot(wo)*sp.Ng.Dot(wi) < 0 {
			f = m.diffuseColor(arena).Mul(a[2])
		}
		s.Pdf = absf(wi.Dot(n)) * lobeProb
	default: // DiffuseReflect
		wi = cosineHemisphere(n, sp.Nu, sp.Nv, s1, s.S2)
		if sp.Ng.Dot(wo)*sp.Ng.Dot(wi) > 0 {
			f = m.diffuseColor(arena).Mul(a[3])
			if m.OrenNayarSigma > 0 {
				f = f.Mul(orenNayar(wo, wi, n, m.OrenNayarSigma))
			}
		}
		s.Pdf = absf(wi.Dot(n)) * lobeProb
	}
	s.SampledFlags = chosen.flags

	weight := absf(wi.Dot(sp.Ns)) / (0.99*s.Pdf + 0.01)
	alpha := m.GetAlpha(sp, wo, arena)
	weight = weight*alpha + (1 - alpha)

	return wi, f, weight
}

func (m *ShinyDiffuse) mirrorColor(arena *scratch.Arena) color.RGB {
	if m.Graph != nil {
		m.Graph.EvalViewDependent(arena)
		if c, ok := m.Graph.MirrorColor(arena); ok {
			return c
		}
	}
	return m.MirrorColor
}

// Pdf returns the combined pdf of the non-specular lobes matching
// requested; specular lobes are handled via GetSpecular, never here.
func (m *ShinyDiffuse) Pdf(sp geometry.SurfacePoint, wo, wi raymath.Vec3, requested Flags, arena *scratch.Arena) float32 {
	if !requested.HasAny(Diffuse) {
		return 0
	}
	n := raymath.FaceForward(sp.Ng, sp.Ns, wo)
	w := m.cachedWeights(arena)
	kr := fresnelKr(wo, n, m.IORSquared)
	a := accumulate(w, kr)

	sum := a[0] + a[1] + a[2] + a[3]
	if sum < strengthEpsilon {
		return 0
	}
	diffuseProb := (a[2] + a[3]) / sum
	return absf(wi.Dot(n)) * diffuseProb
}

// GetSpecular returns the deterministic mirror/transmit branches used by
// Whitted-style integrators that split rather than sample.
func (m *ShinyDiffuse) GetSpecular(sp geometry.SurfacePoint, wo raymath.Vec3, arena *scratch.Arena) (reflect, refract SpecularBounce) {
	n := raymath.FaceForward(sp.Ng, sp.Ns, wo)
	w := m.cachedWeights(arena)
	kr := fresnelKr(wo, n, m.IORSquared)
	a := accumulate(w, kr)

	if a[0] > strengthEpsilon {
		dir := raymath.Reflect(wo, n)
		reflect = SpecularBounce{Ok: true, Dir: dir, Color: m.mirrorColor(arena).Mul(a[0])}
	}
	if a[1] > strengthEpsilon {
		dir := wo.Negate()
		refract = SpecularBounce{Ok: true, Dir: dir, Color: m.diffuseColor(arena).Mul(m.TransmitFilterStrength).Mul(a[1])}
	}
	return reflect, refract
}

// GetTransparency returns the filter colour transmitted straight through
// along -wo, the quantity transparent-shadow traversal accumulates.
func (m *ShinyDiffuse) GetTransparency(sp geometry.SurfacePoint, wo raymath.Vec3, arena *scratch.Arena) color.RGB {
	w := m.cachedWeights(arena)
	n := raymath.FaceForward(sp.Ng, sp.Ns, wo)
	kr := fresnelKr(wo, n, m.IORSquared)
	a := accumulate(w, kr)
	if a[1] <= strengthEpsilon {
		return color.Black
	}
	filterColor := m.diffuseColor(arena).Mul(m.TransmitFilterStrength).Add(color.RGB{R: 1 - m.TransmitFilterStrength, G: 1 - m.TransmitFilterStrength, B: 1 - m.TransmitFilterStrength})
	return filterColor.Mul(a[1])
}

// GetAlpha returns 1 minus the transparent lobe's cumulative share, the
// portion of incident light this material does not let straight through.
func (m *ShinyDiffuse) GetAlpha(sp geometry.SurfacePoint, wo raymath.Vec3, arena *scratch.Arena) float32 {
	w := m.cachedWeights(arena)
	n := raymath.FaceForward(sp.Ng, sp.Ns, wo)
	kr := fresnelKr(wo, n, m.IORSquared)
	a := accumulate(w, kr)
	return clamp32(1-a[1], 0, 1)
}

// Emit returns emitted radiance towards wo.
func (m *ShinyDiffuse) Emit(sp geometry.SurfacePoint, wo raymath.Vec3, arena *scratch.Arena) color.RGB {
	if m.EmitStrength <= 0 {
		return color.Black
	}
	return m.diffuseColor(arena).Mul(m.EmitStrength)
}

// orenNayar evaluates the Oren-Nayar roughness term in the sin(alpha)
// tan(beta) formulation.
func orenNayar(wo, wi, n raymath.Vec3, sigma float32) float32 {
	sigmaSq := sigma * sigma
	a := 1 - 0.5*(sigmaSq/(sigmaSq+0.33))
	b := 0.45 * sigmaSq / (sigmaSq + 0.09)

	cosTi := clamp32(n.Dot(wi), -1, 1)
	cosTo := clamp32(n.Dot(wo), -1, 1)

	var maxCos float32
	if cosTi < 0.9999 && cosTo < 0.9999 {
		v1 := wi.Sub(n.Mul(cosTi)).Normalize()
		v2 := wo.Sub(n.Mul(cosTo)).Normalize()
		maxCos = math32Max(0, v1.Dot(v2))
	}

	var sinAlpha, tanBeta float32
	if cosTo >= cosTi {
		sinAlpha = sqrt32(1 - cosTi*cosTi)
		denom := cosTo
		if denom == 0 {
			denom = 1e-8
		}
		tanBeta = sqrt32(1-cosTo*cosTo) / denom
	} else {
		sinAlpha = sqrt32(1 - cosTo*cosTo)
		denom := cosTi
		if denom == 0 {
			denom = 1e-8
		}
		tanBeta = sqrt32(1-cosTi*cosTi) / denom
	}

	return clamp32(a+b*maxCos*sinAlpha*tanBeta, 0, 1)
}

func sqrt32(f float32) float32 {
	if f < 0 {
		return 0
	}
	return float32(math.Sqrt(float64(f)))
}

func absf(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}

func math32Max(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
