package material

import (
	"math"

	"github.com/mrigankad/raytracer-core/raymath"
)

// cosineHemisphere draws a direction from the cosine-weighted hemisphere
// around axis n (with tangent/bitangent nu, nv) using Malley's method:
// a concentric-disk sample is lifted onto the hemisphere by projection.
func cosineHemisphere(n, nu, nv raymath.Vec3, u1, u2 float32) raymath.Vec3 {
	dx, dy := concentricSampleDisk(u1, u2)
	dz := float32(math.Sqrt(math.Max(0, float64(1-dx*dx-dy*dy))))
	return nu.Mul(dx).Add(nv.Mul(dy)).Add(n.Mul(dz))
}

// concentricSampleDisk maps a unit square sample to a unit disk sample
// preserving area (Shirley-Chiu mapping), avoiding the distortion of the
// naive polar mapping near the disk's center.
func concentricSampleDisk(u1, u2 float32) (x, y float32) {
	sx := 2*u1 - 1
	sy := 2*u2 - 1
	if sx == 0 && sy == 0 {
		return 0, 0
	}

	var r, theta float32
	if abs(sx) > abs(sy) {
		r = sx
		theta = (math.Pi / 4) * (sy / sx)
	} else {
		r = sy
		theta = (math.Pi / 2) - (math.Pi/4)*(sx/sy)
	}
	return r * cos32(theta), r * sin32(theta)
}

func abs(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}

func cos32(f float32) float32 { return float32(math.Cos(float64(f))) }
func sin32(f float32) float32 { return float32(math.Sin(float64(f))) }

func clamp32(f, lo, hi float32) float32 {
	if f < lo {
		return lo
	}
	if f > hi {
		return hi
	}
	return f
}
