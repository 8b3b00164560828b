package geometry

import "github.com/mrigankad/raytracer-core/raymath"

// Object is a pool of vertex attributes owned by the scene; triangle
// primitives index into it rather than carrying their own geometry.
type Object struct {
	ID int

	Positions []raymath.Vec3
	Normals   []raymath.Vec3 // may be empty: triangles fall back to the face normal
	UVs       [][2]float32   // may be empty: triangles fall back to (0,0)

	// SmoothGroup marks the object as using per-vertex (smoothed) normals
	// rather than per-face flat shading, set by SmoothMesh.
	SmoothGroup bool
}

// NewObject returns an empty Object ready to be populated by the embedding
// API's AddVertex/AddNormal/AddUV geometry-build calls.
func NewObject(id int) *Object {
	return &Object{ID: id}
}

func (o *Object) AddVertex(p raymath.Vec3) int {
	o.Positions = append(o.Positions, p)
	return len(o.Positions) - 1
}

func (o *Object) AddNormal(n raymath.Vec3) int {
	o.Normals = append(o.Normals, n)
	return len(o.Normals) - 1
}

func (o *Object) AddUV(u, v float32) int {
	o.UVs = append(o.UVs, [2]float32{u, v})
	return len(o.UVs) - 1
}

func (o *Object) position(i uint32) raymath.Vec3 {
	return o.Positions[i]
}

func (o *Object) normal(i uint32, fallback raymath.Vec3) raymath.Vec3 {
	if int(i) < len(o.Normals) {
		return o.Normals[i]
	}
	return fallback
}

func (o *Object) uv(i uint32) [2]float32 {
	if int(i) < len(o.UVs) {
		return o.UVs[i]
	}
	return [2]float32{0, 0}
}
