// Package vmath provides the small amount of 3D vector and matrix math the
// voxelizer needs, on top of the golang.org/x/image/math/f32 array types.
//
// Matrices are row-major (m[4*r+c]) and transform column vectors, so
// MulVec4(m, v) computes m·v and Mul(a, b) applies b first.
package vmath

import (
	"math"

	"golang.org/x/image/math/f32"
)

// V3 is a convenience function to create an f32.Vec3.
func V3(x, y, z float32) f32.Vec3 {
	return f32.Vec3{x, y, z}
}

// Add returns a + b.
func Add(a, b f32.Vec3) f32.Vec3 {
	return f32.Vec3{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

// Sub returns a - b.
func Sub(a, b f32.Vec3) f32.Vec3 {
	return f32.Vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

// Scale returns v scaled by s.
func Scale(v f32.Vec3, s float32) f32.Vec3 {
	return f32.Vec3{v[0] * s, v[1] * s, v[2] * s}
}

// Dot returns the dot product of a and b.
func Dot(a, b f32.Vec3) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

// Cross returns the cross product a × b.
func Cross(a, b f32.Vec3) f32.Vec3 {
	return f32.Vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// Length returns the Euclidean length of v.
func Length(v f32.Vec3) float32 {
	return float32(math.Sqrt(float64(Dot(v, v))))
}

// Normalize returns v scaled to unit length.
// Returns the zero vector if v has zero length.
func Normalize(v f32.Vec3) f32.Vec3 {
	l := Length(v)
	if l == 0 {
		return f32.Vec3{}
	}
	return Scale(v, 1/l)
}

// Approx reports whether a and b differ by at most eps on every axis.
func Approx(a, b f32.Vec3, eps float32) bool {
	for i := range 3 {
		d := a[i] - b[i]
		if d < -eps || d > eps {
			return false
		}
	}
	return true
}

// Vec4 extends p to homogeneous coordinates with the given w.
func Vec4(p f32.Vec3, w float32) f32.Vec4 {
	return f32.Vec4{p[0], p[1], p[2], w}
}

// Project divides a homogeneous vector by its w component.
// Returns false when w is zero.
func Project(v f32.Vec4) (f32.Vec3, bool) {
	if v[3] == 0 {
		return f32.Vec3{}, false
	}
	inv := 1 / v[3]
	return f32.Vec3{v[0] * inv, v[1] * inv, v[2] * inv}, true
}
