// Package geometry implements the scene primitives and the surface-point
// value object intersection hands to shading: triangles backed by a shared
// per-object vertex pool, and instance wrappers composing a base primitive
// with a 4x4 object-to-world transform.
package geometry

import (
	"github.com/mrigankad/raytracer-core/raymath"
)

// Hit is the narrow result of Primitive.Intersect: a hit parameter plus the
// barycentric (u,v) needed to reconstruct a SurfacePoint.
type Hit struct {
	T    float32
	U, V float32
}

// SurfacePoint is the value object produced by intersection and consumed by
// shading. Invariant: Ng and Ns are unit length; this package does NOT
// auto-flip their orientation to face the incident ray — callers do that
// explicitly via raymath.FaceForward.
type SurfacePoint struct {
	Position raymath.Vec3
	Ng       raymath.Vec3 // geometric normal
	Ns       raymath.Vec3 // shading normal (may be bump-perturbed by the material)
	Nu, Nv   raymath.Vec3 // orthonormal tangent basis
	U, V     float32      // parametric surface coordinates

	MaterialID int
	ObjectID   int

	// Diff points at the differential ray that produced this surface point,
	// when the triggering ray carried one.
	Diff *raymath.RayDifferential
}

// Primitive is the abstract handle the accelerator stores and queries.
type Primitive interface {
	BoundingBox() raymath.BBox
	Intersect(r raymath.Ray) (Hit, bool)
	SurfacePointAt(r raymath.Ray, hit Hit) SurfacePoint
	MaterialID() int
	ObjectID() int
}
