package geometry

import "github.com/mrigankad/raytracer-core/raymath"

// Instance composes a base Primitive with a 4x4 object-to-world
// transform. It transforms the incoming ray into object space, delegates
// to the base primitive, and on hit transforms the returned SurfacePoint
// back to world space, renormalizing normals transformed by the inverse
// transpose.
type Instance struct {
	Base       Primitive
	ToWorld    raymath.Mat4
	ToObject   raymath.Mat4 // ToWorld.Inverse(), cached at construction
	NormalMat  raymath.Mat4 // ToObject transposed, for normal transform
	bbox       raymath.BBox
}

// NewInstance precomputes the inverse and inverse-transpose of toWorld so
// per-ray queries never invert a matrix on the hot path.
func NewInstance(base Primitive, toWorld raymath.Mat4) *Instance {
	toObject := toWorld.Inverse()
	inst := &Instance{
		Base:      base,
		ToWorld:   toWorld,
		ToObject:  toObject,
		NormalMat: toObject.Transpose(),
	}
	inst.bbox = transformBBox(base.BoundingBox(), toWorld)
	return inst
}

func transformBBox(b raymath.BBox, m raymath.Mat4) raymath.BBox {
	corners := [8]raymath.Vec3{
		{X: b.Min.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Max.Z},
	}
	out := raymath.EmptyBBox()
	for _, c := range corners {
		out = out.Extend(m.MulVec3(c))
	}
	return out
}

func (i *Instance) BoundingBox() raymath.BBox { return i.bbox }
func (i *Instance) MaterialID() int           { return i.Base.MaterialID() }
func (i *Instance) ObjectID() int             { return i.Base.ObjectID() }

// transformRay moves r into object space, preserving TMin/TMax/Time/Depth.
// The direction is deliberately not renormalized so hit parameters stay in
// the world-space ray's parameterization.
func (i *Instance) transformRay(r raymath.Ray) raymath.Ray {
	out := r
	out.Origin = i.ToObject.MulVec3(r.Origin)
	out.Direction = i.ToObject.MulDir(r.Direction)
	return out
}

func (i *Instance) Intersect(r raymath.Ray) (Hit, bool) {
	return i.Base.Intersect(i.transformRay(r))
}

func (i *Instance) SurfacePointAt(r raymath.Ray, hit Hit) SurfacePoint {
	objRay := i.transformRay(r)
	sp := i.Base.SurfacePointAt(objRay, hit)

	sp.Position = i.ToWorld.MulVec3(sp.Position)
	sp.Ng = i.NormalMat.MulDir(sp.Ng).Normalize()
	sp.Ns = i.NormalMat.MulDir(sp.Ns).Normalize()
	sp.Nu = i.ToWorld.MulDir(sp.Nu).Normalize()
	sp.Nv = sp.Ng.Cross(sp.Nu)
	return sp
}
