package geom

import "math"

// AABB is an axis-aligned bounding box. Grounded on actor.AABB
// (ContainsPoint/Overlaps), reduced from 3 to 2 axes.
type AABB struct {
	Min, Max Vec2
}

// ContainsPoint reports whether point lies inside the box (inclusive).
func (a AABB) ContainsPoint(point Vec2) bool {
	return point.X() >= a.Min.X() && point.X() <= a.Max.X() &&
		point.Y() >= a.Min.Y() && point.Y() <= a.Max.Y()
}

// Contains reports whether a fully contains other.
func (a AABB) Contains(other AABB) bool {
	return a.Min.X() <= other.Min.X() && a.Min.Y() <= other.Min.Y() &&
		a.Max.X() >= other.Max.X() && a.Max.Y() >= other.Max.Y()
}

// Overlaps reports whether the two AABBs intersect (spec.md §4.2's
// broad-phase invariant: pair (A,B) is reported iff AABB(A) ∩ AABB(B) != ∅).
func (a AABB) Overlaps(other AABB) bool {
	return a.Max.X() >= other.Min.X() && a.Min.X() <= other.Max.X() &&
		a.Max.Y() >= other.Min.Y() && a.Min.Y() <= other.Max.Y()
}

// Union returns the smallest AABB containing both a and b.
func Union(a, b AABB) AABB {
	return AABB{
		Min: Vec2{math.Min(a.Min.X(), b.Min.X()), math.Min(a.Min.Y(), b.Min.Y())},
		Max: Vec2{math.Max(a.Max.X(), b.Max.X()), math.Max(a.Max.Y(), b.Max.Y())},
	}
}

// Inflate grows the box by r on every side, used to build swept AABBs for
// CCD (spec.md §4.8: "swept AABBs inflated by rotation-disc radius").
func (a AABB) Inflate(r float64) AABB {
	return AABB{
		Min: Vec2{a.Min.X() - r, a.Min.Y() - r},
		Max: Vec2{a.Max.X() + r, a.Max.Y() + r},
	}
}

// Center returns the box's center point.
func (a AABB) Center() Vec2 {
	return a.Min.Add(a.Max).Mul(0.5)
}

// Extents returns the half-width/half-height of the box.
func (a AABB) Extents() Vec2 {
	return a.Max.Sub(a.Min).Mul(0.5)
}
