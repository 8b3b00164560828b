package geometry

import (
	"math"

	"github.com/mrigankad/raytracer-core/raymath"
)

// SmoothMesh recomputes obj's per-vertex normals from faces. Each vertex
// gets one normal: the first face in faces that touches the vertex is its
// reference, and the normals of the touching faces within angleDeg of that
// reference (the reference included) are averaged. Faces beyond the
// threshold add nothing to that vertex's normal; normals are stored per
// vertex, not per face corner, so those faces still use that same normal
// at the shared vertex.
//
// Degenerate faces are skipped, since a zero-length face normal would
// poison every vertex it touches.
func SmoothMesh(obj *Object, faces []*Triangle, angleDeg float32) {
	if len(faces) == 0 {
		return
	}

	cosThreshold := cos32(angleDeg * math.Pi / 180)

	maxIdx := uint32(0)
	faceNormals := make([][3]float32, 0, len(faces))
	valid := make([]bool, 0, len(faces))
	for _, f := range faces {
		a, b, c := f.vertices()
		n := b.Sub(a).Cross(c.Sub(a))
		lenSqr := n.LengthSqr()
		if lenSqr < 1e-14 {
			faceNormals = append(faceNormals, [3]float32{})
			valid = append(valid, false)
			continue
		}
		n = n.Normalize()
		faceNormals = append(faceNormals, [3]float32{n.X, n.Y, n.Z})
		valid = append(valid, true)
		for _, idx := range f.Pos {
			if idx > maxIdx {
				maxIdx = idx
			}
		}
	}

	normals := make([]raymath.Vec3, maxIdx+1)
	for vi := range normals {
		var sum raymath.Vec3
		var ownNormal raymath.Vec3
		hasOwn := false
		for fi, f := range faces {
			if !valid[fi] {
				continue
			}
			fn := raymath.Vec3{X: faceNormals[fi][0], Y: faceNormals[fi][1], Z: faceNormals[fi][2]}
			touches := false
			for _, idx := range f.Pos {
				if int(idx) == vi {
					touches = true
					break
				}
			}
			if !touches {
				continue
			}
			if !hasOwn {
				ownNormal = fn
				hasOwn = true
			}
			if ownNormal.Dot(fn) >= cosThreshold {
				sum = sum.Add(fn)
			}
		}
		if !hasOwn {
			continue
		}
		if sum.LengthSqr() < 1e-14 {
			normals[vi] = ownNormal
		} else {
			normals[vi] = sum.Normalize()
		}
	}
	obj.Normals = normals
}

func cos32(f float32) float32 { return float32(math.Cos(float64(f))) }
