package accel

import (
	"github.com/mrigankad/raytracer-core/color"
	"github.com/mrigankad/raytracer-core/geometry"
	"github.com/mrigankad/raytracer-core/raymath"
	"github.com/mrigankad/raytracer-core/scratch"
)


// IntersectClosest performs standard stack-based k-d traversal with
// entry/exit parameter tracking: the nearest positive hit with
// t < current t_max wins, t_max shrinking monotonically as better
// candidates are found. Rays with t_min > t_max return no hit.
func (t *Tree) IntersectClosest(r raymath.Ray) (Hit, geometry.Primitive, bool) {
	if r.HasMaxT() && r.TMin > r.TMax {
		return Hit{}, nil, false
	}
	tEnter, tExit, ok := t.bounds.Intersect(r)
	if !ok {
		return Hit{}, nil, false
	}

	cur := r
	var bestHit Hit
	var bestPrim geometry.Primitive
	found := false
	t.intersectNode(t.root, r, tEnter, tExit, &cur, &bestHit, &bestPrim, &found)
	return bestHit, bestPrim, found
}

// intersectNode descends the tree, visiting the near child (relative to the
// ray's entry point) before the far child and pruning the far child
// whenever the already-found hit is closer than the split plane.
func (t *Tree) intersectNode(n *node, r raymath.Ray, tMin, tMax float32, cur *raymath.Ray, bestHit *Hit, bestPrim *geometry.Primitive, found *bool) {
	if tMin > tMax {
		return
	}
	if n.leaf {
		for _, idx := range n.prims {
			prim := t.prims[idx]
			if hit, ok := prim.Intersect(*cur); ok {
				*bestHit = hit
				*bestPrim = prim
				*found = true
				cur.TMax = hit.T
			}
		}
		return
	}

	originA := r.Origin.Axis(int(n.axis))
	dir := r.Direction.Axis(int(n.axis))

	var near, far *node
	if originA < n.split || (originA == n.split && dir < 0) {
		near, far = n.left, n.right
	} else {
		near, far = n.right, n.left
	}

	if dir == 0 {
		t.intersectNode(near, r, tMin, tMax, cur, bestHit, bestPrim, found)
		return
	}

	tSplit := (n.split - originA) / dir
	switch {
	case tSplit <= 0 || tSplit >= tMax:
		t.intersectNode(near, r, tMin, tMax, cur, bestHit, bestPrim, found)
	case tSplit <= tMin:
		t.intersectNode(far, r, tMin, tMax, cur, bestHit, bestPrim, found)
	default:
		t.intersectNode(near, r, tMin, tSplit, cur, bestHit, bestPrim, found)
		if *found && cur.HasMaxT() && cur.TMax <= tSplit {
			return
		}
		t.intersectNode(far, r, tSplit, tMax, cur, bestHit, bestPrim, found)
	}
}

// IntersectAny is the opaque-shadow query: early-exits on the first
// primitive intersection inside [shadow_bias, t_max - shadow_bias]. The bias
// is applied by advancing the ray origin by bias*direction and trimming
// t_max by 2*bias (raymath.Ray.Advance). The trim is asymmetric, so hits
// within one bias of t_max can be missed.
func (t *Tree) IntersectAny(r raymath.Ray, shadowBias float32) bool {
	sr := r.Advance(shadowBias)
	if sr.HasMaxT() && sr.TMin > sr.TMax {
		return false
	}
	tEnter, tExit, ok := t.bounds.Intersect(sr)
	if !ok {
		return false
	}
	return t.anyHitNode(t.root, sr, tEnter, tExit)
}

func (t *Tree) anyHitNode(n *node, r raymath.Ray, tMin, tMax float32) bool {
	if tMin > tMax {
		return false
	}
	if n.leaf {
		for _, idx := range n.prims {
			if _, ok := t.prims[idx].Intersect(r); ok {
				return true
			}
		}
		return false
	}

	originA := r.Origin.Axis(int(n.axis))
	dir := r.Direction.Axis(int(n.axis))

	var near, far *node
	if originA < n.split || (originA == n.split && dir < 0) {
		near, far = n.left, n.right
	} else {
		near, far = n.right, n.left
	}

	if dir == 0 {
		return t.anyHitNode(near, r, tMin, tMax)
	}

	tSplit := (n.split - originA) / dir
	switch {
	case tSplit <= 0 || tSplit >= tMax:
		return t.anyHitNode(near, r, tMin, tMax)
	case tSplit <= tMin:
		return t.anyHitNode(far, r, tMin, tMax)
	default:
		if t.anyHitNode(near, r, tMin, tSplit) {
			return true
		}
		return t.anyHitNode(far, r, tSplit, tMax)
	}
}

// Transparent is the narrow slice of the material BSDF interface that
// transparent-shadow traversal needs. It is defined locally rather than
// importing the material package so accel and material can each depend on
// geometry/scratch/color without depending on one another.
type Transparent interface {
	GetTransparency(sp geometry.SurfacePoint, wo raymath.Vec3, arena *scratch.Arena) color.RGB
}

// MaterialLookup resolves a primitive's material id to its Transparent
// view, or nil if the id is unregistered (treated as fully opaque).
type MaterialLookup func(materialID int) Transparent

// transparencyLuminanceThreshold is the luminance below which an
// accumulated filter is treated as fully opaque.
const transparencyLuminanceThreshold = 1e-3

// IntersectTransparent walks the ray like IntersectAny but does not
// early-exit on hits whose material reports non-zero transparency;
// instead it multiplies the accumulated filter colour by
// material.get_transparency(surface_point, w_o) and continues, up to
// maxDepth. Exhausting maxDepth, or the filter's luminance falling below
// transparencyLuminanceThreshold, causes the remaining path to be treated
// as opaque.
func (t *Tree) IntersectTransparent(r raymath.Ray, shadowBias float32, maxDepth int, lookup MaterialLookup, arena *scratch.Arena) (filter color.RGB, occluded bool) {
	filter = color.White
	cur := r

	for depth := 0; depth < maxDepth; depth++ {
		sr := cur.Advance(shadowBias)
		if sr.HasMaxT() && sr.TMin > sr.TMax {
			return filter, false
		}

		hit, prim, ok := t.IntersectClosest(sr)
		if !ok {
			return filter, false
		}

		mat := lookup(prim.MaterialID())
		if mat == nil {
			return color.Black, true
		}

		sp := prim.SurfacePointAt(sr, hit)
		wo := sr.Direction.Mul(-1)
		trans := mat.GetTransparency(sp, wo, arena)
		if trans.IsZero() {
			return color.Black, true
		}

		filter = filter.MulRGB(trans)
		if filter.Luminance() < transparencyLuminanceThreshold {
			return color.Black, true
		}

		remaining := sr.TMax
		if sr.HasMaxT() {
			remaining = sr.TMax - hit.T
		}
		cur = raymath.Ray{
			Origin:    sp.Position,
			Direction: cur.Direction,
			TMin:      0,
			TMax:      remaining,
			Time:      cur.Time,
			Depth:     cur.Depth,
		}
	}

	return color.Black, true
}
