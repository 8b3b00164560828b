package raymath

import "math"

// BBox is an axis-aligned bounding box. A box with Min.X > Max.X (etc.) is
// considered empty; EmptyBBox constructs one ready to be grown with Extend.
type BBox struct {
	Min, Max Vec3
}

func EmptyBBox() BBox {
	inf := float32(math.MaxFloat32)
	return BBox{
		Min: Vec3{X: inf, Y: inf, Z: inf},
		Max: Vec3{X: -inf, Y: -inf, Z: -inf},
	}
}

func (b BBox) Extend(p Vec3) BBox {
	return BBox{
		Min: Vec3{X: min32(b.Min.X, p.X), Y: min32(b.Min.Y, p.Y), Z: min32(b.Min.Z, p.Z)},
		Max: Vec3{X: max32(b.Max.X, p.X), Y: max32(b.Max.Y, p.Y), Z: max32(b.Max.Z, p.Z)},
	}
}

func (b BBox) Union(other BBox) BBox {
	return BBox{
		Min: Vec3{X: min32(b.Min.X, other.Min.X), Y: min32(b.Min.Y, other.Min.Y), Z: min32(b.Min.Z, other.Min.Z)},
		Max: Vec3{X: max32(b.Max.X, other.Max.X), Y: max32(b.Max.Y, other.Max.Y), Z: max32(b.Max.Z, other.Max.Z)},
	}
}

func (b BBox) Contains(p Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// SurfaceArea computes the box's total surface area, used by the SAH cost
// model; a degenerate (zero-volume on two axes) box returns 0.
func (b BBox) SurfaceArea() float32 {
	d := b.Max.Sub(b.Min)
	if d.X < 0 || d.Y < 0 || d.Z < 0 {
		return 0
	}
	return 2 * (d.X*d.Y + d.Y*d.Z + d.Z*d.X)
}

// LongestAxis returns 0, 1, or 2 for X, Y, Z according to which extent of
// the box is largest.
func (b BBox) LongestAxis() int {
	d := b.Max.Sub(b.Min)
	axis := 0
	longest := d.X
	if d.Y > longest {
		axis, longest = 1, d.Y
	}
	if d.Z > longest {
		axis = 2
	}
	return axis
}

// Axis returns the min/max extent of the box along the given axis (0=X,1=Y,2=Z).
func (b BBox) Axis(axis int) (lo, hi float32) {
	switch axis {
	case 0:
		return b.Min.X, b.Max.X
	case 1:
		return b.Min.Y, b.Max.Y
	default:
		return b.Min.Z, b.Max.Z
	}
}

// Intersect performs the standard ray-slab test, returning the entry/exit
// parameters clipped to the ray's own [TMin, TMax] range.
func (b BBox) Intersect(r Ray) (tEnter, tExit float32, hit bool) {
	tMin, tMax := r.TMin, float32(math.MaxFloat32)
	if r.HasMaxT() {
		tMax = r.TMax
	}

	for axis := 0; axis < 3; axis++ {
		origin, dir := r.Origin.Axis(axis), r.Direction.Axis(axis)
		lo, hi := b.Axis(axis)

		if dir == 0 {
			if origin < lo || origin > hi {
				return 0, 0, false
			}
			continue
		}

		invD := 1 / dir
		t0 := (lo - origin) * invD
		t1 := (hi - origin) * invD
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		tMin = max32(tMin, t0)
		tMax = min32(tMax, t1)
		if tMin > tMax {
			return 0, 0, false
		}
	}
	return tMin, tMax, true
}


func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
