// Package geom provides the 2D vector, rotation, transform and AABB algebra
// shared by every other package in feather2d.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec2 is a 2D vector. It is a thin wrapper over mgl64.Vec2 so the rest of
// the module can use the same vector library the original 3D engine did,
// without dragging the Z axis through every call site.
type Vec2 = mgl64.Vec2

// Cross returns the 2D "scalar cross product" a.x*b.y - a.y*b.x, which is
// the Z component of the 3D cross product of (a,0) and (b,0). It is the
// building block for winding tests, Voronoi-region tests in GJK, and
// perpendicular construction.
func Cross(a, b Vec2) float64 {
	return a.X()*b.Y() - a.Y()*b.X()
}

// CrossVS returns v rotated -90 degrees and scaled by s: the 2D analogue of
// a vector crossed with a scalar (out-of-plane) quantity, v x s.
func CrossVS(v Vec2, s float64) Vec2 {
	return Vec2{s * v.Y(), -s * v.X()}
}

// CrossSV returns the 2D analogue of a scalar crossed with a vector, s x v.
func CrossSV(s float64, v Vec2) Vec2 {
	return Vec2{-s * v.Y(), s * v.X()}
}

// Perp returns v rotated +90 degrees (CCW).
func Perp(v Vec2) Vec2 {
	return Vec2{-v.Y(), v.X()}
}

// RightPerp returns v rotated -90 degrees (CW).
func RightPerp(v Vec2) Vec2 {
	return Vec2{v.Y(), -v.X()}
}

// LenSqr returns the squared length of v.
func LenSqr(v Vec2) float64 {
	return v.Dot(v)
}

// SafeNormalize normalizes v, returning the zero vector if v is (near)
// degenerate instead of producing NaN, matching the teacher's preference
// for returning a sane default over propagating a numerical failure
// (see epa/epa.go's snapNormalToAxis fallback).
func SafeNormalize(v Vec2) Vec2 {
	l := v.Len()
	if l < 1e-12 {
		return Vec2{0, 0}
	}
	return v.Mul(1.0 / l)
}

// NearlyEqual reports whether a and b differ by no more than eps on each axis.
func NearlyEqual(a, b Vec2, eps float64) bool {
	return math.Abs(a.X()-b.X()) <= eps && math.Abs(a.Y()-b.Y()) <= eps
}

// Clamp clamps each component of v between lo and hi.
func Clamp(v Vec2, lo, hi float64) Vec2 {
	return Vec2{clampf(v.X(), lo, hi), clampf(v.Y(), lo, hi)}
}

func clampf(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
