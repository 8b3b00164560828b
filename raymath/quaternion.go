package raymath

import "math"

// Quaternion is a rotation stored in (X, Y, Z, W) component order, the
// order glTF serializes node orientations in.
type Quaternion struct {
	X, Y, Z, W float32
}

func QuaternionIdentity() Quaternion {
	return Quaternion{W: 1}
}

func NewQuaternion(x, y, z, w float32) Quaternion {
	return Quaternion{X: x, Y: y, Z: z, W: w}
}

func QuaternionFromAxisAngle(axis Vec3, angle float32) Quaternion {
	axis = axis.Normalize()
	s := float32(math.Sin(float64(angle) / 2))
	return Quaternion{
		X: axis.X * s,
		Y: axis.Y * s,
		Z: axis.Z * s,
		W: float32(math.Cos(float64(angle) / 2)),
	}
}

// Normalize guards against drift in serialized rotations; scene files
// routinely carry slightly non-unit quaternions, and a non-unit rotation
// would shear the instance transforms built from it.
func (q Quaternion) Normalize() Quaternion {
	l := float32(math.Sqrt(float64(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)))
	if l == 0 {
		return QuaternionIdentity()
	}
	inv := 1 / l
	return Quaternion{X: q.X * inv, Y: q.Y * inv, Z: q.Z * inv, W: q.W * inv}
}

// RotateVector applies the rotation to v directly, without expanding the
// matrix form.
func (q Quaternion) RotateVector(v Vec3) Vec3 {
	u := Vec3{X: q.X, Y: q.Y, Z: q.Z}
	t := u.Cross(v)
	return v.Add(t.Mul(2 * q.W)).Add(u.Cross(t).Mul(2))
}

// ToMat4 expands the rotation into the row-vector matrix form that node
// and instance transforms compose with.
func (q Quaternion) ToMat4() Mat4 {
	x2, y2, z2 := q.X+q.X, q.Y+q.Y, q.Z+q.Z
	xx, xy, xz := q.X*x2, q.X*y2, q.X*z2
	yy, yz, zz := q.Y*y2, q.Y*z2, q.Z*z2
	wx, wy, wz := q.W*x2, q.W*y2, q.W*z2

	return Mat4{
		{1 - yy - zz, xy + wz, xz - wy, 0},
		{xy - wz, 1 - xx - zz, yz + wx, 0},
		{xz + wy, yz - wx, 1 - xx - yy, 0},
		{0, 0, 0, 1},
	}
}
