package geometry

import (
	"math"
	"testing"

	"github.com/mrigankad/raytracer-core/raymath"
)

func unitTriangleObject() *Object {
	obj := NewObject(0)
	obj.AddVertex(raymath.Vec3{X: 0, Y: 0, Z: 0})
	obj.AddVertex(raymath.Vec3{X: 1, Y: 0, Z: 0})
	obj.AddVertex(raymath.Vec3{X: 0, Y: 1, Z: 0})
	return obj
}

func TestTriangleIntersectHit(t *testing.T) {
	obj := unitTriangleObject()
	tri := NewTriangle(obj, 0, 1, 2, [3]uint32{}, 3)

	r := raymath.Ray{
		Origin:    raymath.Vec3{X: 0.2, Y: 0.2, Z: 1},
		Direction: raymath.Vec3{X: 0, Y: 0, Z: -1},
		TMax:      raymath.Infinity,
	}

	hit, ok := tri.Intersect(r)
	if !ok {
		t.Fatalf("expected hit")
	}
	if math.Abs(float64(hit.T-1)) > 1e-5 {
		t.Errorf("expected t=1, got %v", hit.T)
	}

	sp := tri.SurfacePointAt(r, hit)
	if sp.MaterialID != 3 {
		t.Errorf("expected material id 3, got %d", sp.MaterialID)
	}
	if math.Abs(float64(sp.Ng.Z-1)) > 1e-5 {
		t.Errorf("expected geometric normal +Z, got %v", sp.Ng)
	}
}

func TestTriangleIntersectMiss(t *testing.T) {
	obj := unitTriangleObject()
	tri := NewTriangle(obj, 0, 1, 2, [3]uint32{}, 0)

	r := raymath.Ray{
		Origin:    raymath.Vec3{X: 5, Y: 5, Z: 1},
		Direction: raymath.Vec3{X: 0, Y: 0, Z: -1},
		TMax:      raymath.Infinity,
	}
	if _, ok := tri.Intersect(r); ok {
		t.Errorf("expected miss outside triangle bounds")
	}
}

func TestTriangleDoubleSided(t *testing.T) {
	obj := unitTriangleObject()
	tri := NewTriangle(obj, 0, 1, 2, [3]uint32{}, 0)

	fromBehind := raymath.Ray{
		Origin:    raymath.Vec3{X: 0.2, Y: 0.2, Z: -1},
		Direction: raymath.Vec3{X: 0, Y: 0, Z: 1},
		TMax:      raymath.Infinity,
	}
	if _, ok := tri.Intersect(fromBehind); !ok {
		t.Errorf("expected hit from behind (back-face culling disabled)")
	}
}

func TestDegenerateTriangle(t *testing.T) {
	obj := NewObject(0)
	obj.AddVertex(raymath.Vec3{X: 0, Y: 0, Z: 0})
	obj.AddVertex(raymath.Vec3{X: 1, Y: 0, Z: 0})
	obj.AddVertex(raymath.Vec3{X: 2, Y: 0, Z: 0}) // colinear: zero area
	tri := NewTriangle(obj, 0, 1, 2, [3]uint32{}, 0)
	if !tri.Degenerate() {
		t.Errorf("expected colinear triangle to be flagged degenerate")
	}
}

func TestInstanceTransformMatchesExplicitTriangle(t *testing.T) {
	obj := unitTriangleObject()
	tri := NewTriangle(obj, 0, 1, 2, [3]uint32{}, 0)

	toWorld := raymath.Mat4Translation(raymath.Vec3{X: 2, Y: 0, Z: 0}).Mul(raymath.Mat4Scale(raymath.Vec3{X: 2, Y: 2, Z: 2}))
	inst := NewInstance(tri, toWorld)

	// Explicit triangle M*T for comparison.
	explicitObj := NewObject(0)
	explicitObj.AddVertex(toWorld.MulVec3(raymath.Vec3{X: 0, Y: 0, Z: 0}))
	explicitObj.AddVertex(toWorld.MulVec3(raymath.Vec3{X: 1, Y: 0, Z: 0}))
	explicitObj.AddVertex(toWorld.MulVec3(raymath.Vec3{X: 0, Y: 1, Z: 0}))
	explicitTri := NewTriangle(explicitObj, 0, 1, 2, [3]uint32{}, 0)

	r := raymath.Ray{
		Origin:    raymath.Vec3{X: 2.4, Y: 0.4, Z: 3},
		Direction: raymath.Vec3{X: 0, Y: 0, Z: -1},
		TMax:      raymath.Infinity,
	}

	hInst, okInst := inst.Intersect(r)
	hExpl, okExpl := explicitTri.Intersect(r)
	if okInst != okExpl {
		t.Fatalf("hit mismatch: instance=%v explicit=%v", okInst, okExpl)
	}
	if okInst && math.Abs(float64(hInst.T-hExpl.T)) > 1e-5 {
		t.Errorf("t mismatch within tolerance: instance=%v explicit=%v", hInst.T, hExpl.T)
	}
}

// TestSmoothMeshAveragesCoplanarFaces covers the common case: two triangles
// sharing an edge and (nearly) coplanar should end up with a shared,
// averaged vertex normal rather than either face's flat normal alone.
func TestSmoothMeshAveragesCoplanarFaces(t *testing.T) {
	obj := NewObject(0)
	obj.AddVertex(raymath.Vec3{X: 0, Y: 0, Z: 0})
	obj.AddVertex(raymath.Vec3{X: 1, Y: 0, Z: 0})
	obj.AddVertex(raymath.Vec3{X: 1, Y: 1, Z: 0})
	obj.AddVertex(raymath.Vec3{X: 0, Y: 1, Z: 0})

	t1 := NewTriangle(obj, 0, 1, 2, [3]uint32{}, 0)
	t2 := NewTriangle(obj, 0, 2, 3, [3]uint32{}, 0)

	SmoothMesh(obj, []*Triangle{t1, t2}, 80)

	for i, n := range obj.Normals {
		if math.Abs(float64(n.Z-1)) > 1e-5 {
			t.Errorf("vertex %d: expected smoothed normal (0,0,1), got %v", i, n)
		}
	}
}

// TestSmoothMeshPreservesHardEdge covers a dihedral angle beyond the
// threshold: of two triangles folded at 90 degrees, the first (flat) face
// sets the shared vertex's normal and the folded face is not blended into
// it, so the vertex keeps a unit +Z normal (the hard-edge case never blends
// across the threshold).
func TestSmoothMeshPreservesHardEdge(t *testing.T) {
	obj := NewObject(0)
	obj.AddVertex(raymath.Vec3{X: 0, Y: 0, Z: 0})
	obj.AddVertex(raymath.Vec3{X: 1, Y: 0, Z: 0})
	obj.AddVertex(raymath.Vec3{X: 0, Y: 1, Z: 0})
	obj.AddVertex(raymath.Vec3{X: 0, Y: 0, Z: 1})

	flat := NewTriangle(obj, 0, 1, 2, [3]uint32{}, 0)  // normal ~ +Z
	folded := NewTriangle(obj, 0, 2, 3, [3]uint32{}, 0) // normal ~ +X, 90 degrees off

	SmoothMesh(obj, []*Triangle{flat, folded}, 30)

	n0 := obj.Normals[0] // shared vertex between both faces
	if math.Abs(float64(n0.LengthSqr()-1)) > 1e-4 {
		t.Errorf("expected a unit normal at the shared vertex, got length^2=%v", n0.LengthSqr())
	}
	if math.Abs(float64(n0.Z-1)) > 1e-5 {
		t.Errorf("expected the shared vertex to keep the flat face's +Z normal, got %v", n0)
	}
}
