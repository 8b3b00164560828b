package api

import (
	"context"
	"errors"
	"math"
	"math/rand"

	"github.com/mrigankad/raytracer-core/accel"
	"github.com/mrigankad/raytracer-core/color"
	"github.com/mrigankad/raytracer-core/logging"
	"github.com/mrigankad/raytracer-core/material"
	"github.com/mrigankad/raytracer-core/raymath"
	"github.com/mrigankad/raytracer-core/render"
	"github.com/mrigankad/raytracer-core/scratch"
)

// ProgressFunc receives (tag, current, total) progress callbacks during
// Render.
type ProgressFunc func(tag string, current, total int)

// PutPixelFunc receives one finished pixel's channels after a render
// completes or is cancelled. Output framebuffers themselves stay with the
// caller.
type PutPixelFunc func(view string, x, y int, r, g, b, a float32)

const (
	shadowBias       = 1e-4
	shadowDepth      = 8
	maxSpecularDepth = 3
)

// errNoSetup is returned by Render when SetupRender has not built an
// accelerator yet.
var errNoSetup = errors.New("api: render called before setup_render")

// SetupRender builds the accelerator over the scene's accumulated geometry
// using the configured accelerator kind plus params's construction
// parameters (max_depth, leaf_size, cost_traversal, cost_intersection,
// empty_bonus), and prepares the worker pool. It must be called after
// EndGeometry and before Render; a scene with no geometry is a
// configuration error and aborts before rendering starts.
func (s *Session) SetupRender(params *ParamBuilder) bool {
	if s.scn.geometryOpen {
		logging.Errorf(s.log, "api: setup_render called inside an open geometry bracket")
		return false
	}
	p := params.take()
	tree, err := s.scn.inner.Build(s.scn.accelKind, p)
	if err != nil {
		return false
	}
	s.scn.tree = tree
	s.renderer = render.New(s.scn.workers, s.scn.tileSize)
	return true
}

// Cancel requests that an in-flight Render stop as soon as possible. It
// is safe to call from any goroutine; the partial framebuffer Render
// returns stays readable.
func (s *Session) Cancel() {
	if s.renderer != nil {
		s.renderer.Cancel()
	}
}

// Render drives the built accelerator through the facade's direct-lighting
// stand-in integrator across the render worker pool. progress
// receives per-tile "render" ticks; putPixel receives every finished pixel
// once the tiles have completed, and while it runs progress also receives
// one "flush" tick per image row (no "flush" ticks when putPixel is nil). Either
// callback may be nil. On cancellation — via ctx or Cancel — the partial
// framebuffer is returned alongside context.Canceled; it is readable
// as-is.
func (s *Session) Render(ctx context.Context, progress ProgressFunc, putPixel PutPixelFunc) (*render.Framebuffer, error) {
	if s.scn.tree == nil {
		logging.Errorf(s.log, "%v", errNoSetup)
		return nil, errNoSetup
	}

	cam := s.scn.cam
	if !s.scn.haveCamera {
		cam = camera{eye: raymath.Vec3{Z: 5}, up: raymath.Vec3Up, fovDeg: 45}
	}
	width, height := s.scn.width, s.scn.height

	forward := cam.lookAt.Sub(cam.eye).Normalize()
	right := forward.Cross(cam.up).Normalize()
	up := right.Cross(forward)
	tanHalf := float32(math.Tan(float64(cam.fovDeg) * math.Pi / 360))
	aspect := float32(width) / float32(height)

	lookup := s.scn.inner.TransparencyLookup()

	shade := func(x, y, sample int, arena *scratch.Arena, rng *rand.Rand) color.RGB {
		jx, jy := float32(0.5), float32(0.5)
		if s.scn.spp > 1 {
			jx, jy = rng.Float32(), rng.Float32()
		}
		ndcX := (2*(float32(x)+jx)/float32(width) - 1) * tanHalf * aspect
		ndcY := (1 - 2*(float32(y)+jy)/float32(height)) * tanHalf
		dir := forward.Add(right.Mul(ndcX)).Add(up.Mul(ndcY)).Normalize()

		r := raymath.Ray{Origin: cam.eye, Direction: dir, TMax: raymath.Infinity}
		return s.shadeRay(r, lookup, arena)
	}

	if progress != nil {
		s.renderer.OnTile = func(completed, total int) {
			progress("render", completed, total)
		}
	}

	fb, err := s.renderer.RenderTiles(ctx, width, height, s.scn.spp, s.scn.seed, shade)
	if err != nil && err != context.Canceled {
		return fb, err
	}

	if putPixel != nil {
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				c := fb.At(x, y)
				putPixel("default", x, y, c.R, c.G, c.B, 1)
			}
			if progress != nil {
				progress("flush", y+1, height)
			}
		}
	}
	return fb, err
}

// shadeRay is the facade's stand-in integrator: emitted radiance plus
// direct lighting from the session's single directional light, with
// transparent shadows accumulated through the k-d tree, plus Whitted-style
// splitting on the material's deterministic specular branches. The full
// light-transport integrator loop (path tracing, photon mapping) is an
// external collaborator of the core; this exists to drive every core
// query mode end to end from the embedding surface.
func (s *Session) shadeRay(r raymath.Ray, lookup accel.MaterialLookup, arena *scratch.Arena) color.RGB {
	hit, prim, ok := s.scn.tree.IntersectClosest(r)
	if !ok {
		return s.scn.background
	}
	sp := prim.SurfacePointAt(r, hit)
	mat := s.scn.inner.Material(sp.MaterialID)
	if mat == nil {
		return color.Black
	}

	wo := r.Direction.Negate()
	mat.InitBSDF(sp, arena)
	out := mat.Emit(sp, wo, arena)

	wi := s.scn.lightDir.Negate()
	n := raymath.FaceForward(sp.Ng, sp.Ns, wo)
	if cos := n.Dot(wi); cos > 0 {
		shadowRay := raymath.Ray{
			Origin:    sp.Position,
			Direction: wi,
			TMax:      raymath.Infinity,
			Time:      r.Time,
			Depth:     r.Depth + 1,
		}
		filter, occluded := s.scn.tree.IntersectTransparent(shadowRay, shadowBias, shadowDepth, lookup, arena.Sub())
		if !occluded {
			f := mat.Eval(sp, wo, wi, material.DiffuseReflect|material.Translucency, arena)
			out = out.Add(f.MulRGB(s.scn.lightColor).MulRGB(filter).Mul(cos))
		}
	}

	if r.Depth < maxSpecularDepth {
		reflect, refract := mat.GetSpecular(sp, wo, arena)
		if reflect.Ok {
			bounced := s.shadeRay(specularRay(sp.Position, reflect.Dir, r), lookup, arena.Sub())
			out = out.Add(bounced.MulRGB(reflect.Color))
		}
		if refract.Ok {
			bounced := s.shadeRay(specularRay(sp.Position, refract.Dir, r), lookup, arena.Sub())
			out = out.Add(bounced.MulRGB(refract.Color))
		}
	}
	return out
}

func specularRay(origin, dir raymath.Vec3, parent raymath.Ray) raymath.Ray {
	return raymath.Ray{
		Origin:    origin.Add(dir.Mul(shadowBias)),
		Direction: dir,
		TMax:      raymath.Infinity,
		Time:      parent.Time,
		Depth:     parent.Depth + 1,
	}
}
