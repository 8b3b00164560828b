package geometry

import "github.com/mrigankad/raytracer-core/raymath"

const triangleEpsilon = 1e-7

// Triangle indexes three vertices of its parent Object's shared pool. Pos
// doubles as the normal index (a face and its normal share an index the way
// add_face(a,b,c) implies); UV is independent so UV seams can reuse
// positions with different texture coordinates.
type Triangle struct {
	Obj   *Object
	Pos   [3]uint32
	UV    [3]uint32
	matID int
}

// NewTriangle constructs a triangle indexing obj; uv may be the zero value
// to reuse Pos for UV lookups (the common case when a face omits explicit
// UV indices).
func NewTriangle(obj *Object, a, b, c uint32, uv [3]uint32, materialID int) *Triangle {
	t := &Triangle{Obj: obj, Pos: [3]uint32{a, b, c}, UV: uv, matID: materialID}
	if uv == ([3]uint32{}) {
		t.UV = t.Pos
	}
	return t
}

// Degenerate reports whether the triangle has (numerically) zero area; the
// scene builder skips these silently per the accelerator's error policy.
func (t *Triangle) Degenerate() bool {
	v0, v1, v2 := t.vertices()
	area := v1.Sub(v0).Cross(v2.Sub(v0)).LengthSqr()
	return area < triangleEpsilon*triangleEpsilon
}

func (t *Triangle) vertices() (a, b, c raymath.Vec3) {
	return t.Obj.position(t.Pos[0]), t.Obj.position(t.Pos[1]), t.Obj.position(t.Pos[2])
}

func (t *Triangle) BoundingBox() raymath.BBox {
	a, b, c := t.vertices()
	box := raymath.EmptyBBox()
	return box.Extend(a).Extend(b).Extend(c)
}

func (t *Triangle) MaterialID() int { return t.matID }
func (t *Triangle) ObjectID() int   { return t.Obj.ID }

// Intersect implements Möller-Trumbore ray-triangle intersection, indexing
// through the shared vertex pool and returning barycentric (u,v) alongside
// t. Back-face culling is disabled: triangles are double-sided.
func (t *Triangle) Intersect(r raymath.Ray) (Hit, bool) {
	v0, v1, v2 := t.vertices()

	edge1 := v1.Sub(v0)
	edge2 := v2.Sub(v0)
	h := r.Direction.Cross(edge2)
	a := edge1.Dot(h)
	if a > -triangleEpsilon && a < triangleEpsilon {
		return Hit{}, false // ray parallel to the triangle plane
	}

	f := 1.0 / a
	s := r.Origin.Sub(v0)
	u := f * s.Dot(h)
	if u < 0 || u > 1 {
		return Hit{}, false
	}

	q := s.Cross(edge1)
	v := f * r.Direction.Dot(q)
	if v < 0 || u+v > 1 {
		return Hit{}, false
	}

	tHit := f * edge2.Dot(q)
	if tHit <= r.TMin || (r.HasMaxT() && tHit >= r.TMax) {
		return Hit{}, false
	}
	return Hit{T: tHit, U: u, V: v}, true
}

// SurfacePointAt back-projects a hit record into a full SurfacePoint,
// interpolating normals (if the object carries per-vertex normals) and UVs
// and building an orthonormal tangent frame from the interpolated shading
// normal.
func (t *Triangle) SurfacePointAt(r raymath.Ray, hit Hit) SurfacePoint {
	v0, v1, v2 := t.vertices()
	ng := v1.Sub(v0).Cross(v2.Sub(v0)).Normalize()

	w := 1 - hit.U - hit.V
	n0 := t.Obj.normal(t.Pos[0], ng)
	n1 := t.Obj.normal(t.Pos[1], ng)
	n2 := t.Obj.normal(t.Pos[2], ng)
	ns := n0.Mul(w).Add(n1.Mul(hit.U)).Add(n2.Mul(hit.V))
	if ns.LengthSqr() < 1e-12 {
		ns = ng
	} else {
		ns = ns.Normalize()
	}

	uv0 := t.Obj.uv(t.UV[0])
	uv1 := t.Obj.uv(t.UV[1])
	uv2 := t.Obj.uv(t.UV[2])
	u := w*uv0[0] + hit.U*uv1[0] + hit.V*uv2[0]
	v := w*uv0[1] + hit.U*uv1[1] + hit.V*uv2[1]

	nu, nv := orthonormalBasis(ns)

	return SurfacePoint{
		Position:   r.At(hit.T),
		Ng:         ng,
		Ns:         ns,
		Nu:         nu,
		Nv:         nv,
		U:          u,
		V:          v,
		MaterialID: t.matID,
		ObjectID:   t.Obj.ID,
		Diff:       r.Diff,
	}
}

// orthonormalBasis builds an arbitrary orthonormal tangent frame (Nu, Nv)
// perpendicular to n, following the standard branch-on-dominant-axis
// construction.
func orthonormalBasis(n raymath.Vec3) (u, v raymath.Vec3) {
	var a raymath.Vec3
	if abs32(n.X) < 0.9 {
		a = raymath.Vec3{X: 1}
	} else {
		a = raymath.Vec3{Y: 1}
	}
	u = a.Sub(n.Mul(n.Dot(a))).Normalize()
	v = n.Cross(u)
	return u, v
}

func abs32(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}
