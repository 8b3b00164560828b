package raymath

// Mat4 is a row-major 4x4 matrix applied to row vectors (p' = p * M):
// translation occupies the last row, and products compose left to right,
// so a.Mul(b) transforms by a first, then b.
type Mat4 [4][4]float32

func Mat4Identity() Mat4 {
	return Mat4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

func Mat4Translation(t Vec3) Mat4 {
	m := Mat4Identity()
	m[3][0] = t.X
	m[3][1] = t.Y
	m[3][2] = t.Z
	return m
}

func Mat4Scale(s Vec3) Mat4 {
	m := Mat4Identity()
	m[0][0] = s.X
	m[1][1] = s.Y
	m[2][2] = s.Z
	return m
}

// Mat4RotationAxis returns the rotation of angle radians about axis,
// expanded from the equivalent quaternion.
func Mat4RotationAxis(axis Vec3, angle float32) Mat4 {
	return QuaternionFromAxisAngle(axis, angle).ToMat4()
}

func (m Mat4) Mul(o Mat4) Mat4 {
	var out Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			s := float32(0)
			for k := 0; k < 4; k++ {
				s += m[i][k] * o[k][j]
			}
			out[i][j] = s
		}
	}
	return out
}

// MulVec3 transforms p as a point (w=1), dividing through by the resulting
// homogeneous w when the matrix is projective.
func (m Mat4) MulVec3(p Vec3) Vec3 {
	x := p.X*m[0][0] + p.Y*m[1][0] + p.Z*m[2][0] + m[3][0]
	y := p.X*m[0][1] + p.Y*m[1][1] + p.Z*m[2][1] + m[3][1]
	z := p.X*m[0][2] + p.Y*m[1][2] + p.Z*m[2][2] + m[3][2]
	w := p.X*m[0][3] + p.Y*m[1][3] + p.Z*m[2][3] + m[3][3]
	if w != 0 && w != 1 {
		inv := 1 / w
		return Vec3{X: x * inv, Y: y * inv, Z: z * inv}
	}
	return Vec3{X: x, Y: y, Z: z}
}

// MulDir transforms d as a direction (w=0): rotation and scale apply,
// translation does not. Normal vectors go through the inverse transpose
// this way.
func (m Mat4) MulDir(d Vec3) Vec3 {
	return Vec3{
		X: d.X*m[0][0] + d.Y*m[1][0] + d.Z*m[2][0],
		Y: d.X*m[0][1] + d.Y*m[1][1] + d.Z*m[2][1],
		Z: d.X*m[0][2] + d.Y*m[1][2] + d.Z*m[2][2],
	}
}

func (m Mat4) Transpose() Mat4 {
	var out Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			out[i][j] = m[j][i]
		}
	}
	return out
}

// Inverse computes the matrix inverse from 2x2 sub-determinants of the top
// and bottom halves. A singular matrix returns the identity, which keeps a
// degenerate instance transform harmless instead of filling the tree with
// NaNs.
func (m Mat4) Inverse() Mat4 {
	s0 := m[0][0]*m[1][1] - m[1][0]*m[0][1]
	s1 := m[0][0]*m[1][2] - m[1][0]*m[0][2]
	s2 := m[0][0]*m[1][3] - m[1][0]*m[0][3]
	s3 := m[0][1]*m[1][2] - m[1][1]*m[0][2]
	s4 := m[0][1]*m[1][3] - m[1][1]*m[0][3]
	s5 := m[0][2]*m[1][3] - m[1][2]*m[0][3]

	c5 := m[2][2]*m[3][3] - m[3][2]*m[2][3]
	c4 := m[2][1]*m[3][3] - m[3][1]*m[2][3]
	c3 := m[2][1]*m[3][2] - m[3][1]*m[2][2]
	c2 := m[2][0]*m[3][3] - m[3][0]*m[2][3]
	c1 := m[2][0]*m[3][2] - m[3][0]*m[2][2]
	c0 := m[2][0]*m[3][1] - m[3][0]*m[2][1]

	det := s0*c5 - s1*c4 + s2*c3 + s3*c2 - s4*c1 + s5*c0
	if det == 0 {
		return Mat4Identity()
	}
	d := 1 / det

	return Mat4{
		{
			(m[1][1]*c5 - m[1][2]*c4 + m[1][3]*c3) * d,
			(-m[0][1]*c5 + m[0][2]*c4 - m[0][3]*c3) * d,
			(m[3][1]*s5 - m[3][2]*s4 + m[3][3]*s3) * d,
			(-m[2][1]*s5 + m[2][2]*s4 - m[2][3]*s3) * d,
		},
		{
			(-m[1][0]*c5 + m[1][2]*c2 - m[1][3]*c1) * d,
			(m[0][0]*c5 - m[0][2]*c2 + m[0][3]*c1) * d,
			(-m[3][0]*s5 + m[3][2]*s2 - m[3][3]*s1) * d,
			(m[2][0]*s5 - m[2][2]*s2 + m[2][3]*s1) * d,
		},
		{
			(m[1][0]*c4 - m[1][1]*c2 + m[1][3]*c0) * d,
			(-m[0][0]*c4 + m[0][1]*c2 - m[0][3]*c0) * d,
			(m[3][0]*s4 - m[3][1]*s2 + m[3][3]*s0) * d,
			(-m[2][0]*s4 + m[2][1]*s2 - m[2][3]*s0) * d,
		},
		{
			(-m[1][0]*c3 + m[1][1]*c1 - m[1][2]*c0) * d,
			(m[0][0]*c3 - m[0][1]*c1 + m[0][2]*c0) * d,
			(-m[3][0]*s3 + m[3][1]*s1 - m[3][2]*s0) * d,
			(m[2][0]*s3 - m[2][1]*s1 + m[2][2]*s0) * d,
		},
	}
}
