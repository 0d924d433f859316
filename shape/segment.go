package shape

import (
	"fmt"
	"math"

	"github.com/akmonengine/feather2d/geom"
)

// Segment is a 1D convex shape (a line segment) in local space, used for
// static floor/wall features (e.g. the bucket walls of spec.md S4).
// Grounded on ByteArena-box2d's CollisionB2ShapeEdge.go (b2EdgeShape),
// since the teacher has no edge-only shape (only Box/Sphere/Plane).
type Segment struct {
	P1, P2 geom.Vec2
	Normal geom.Vec2 // outward normal, CollideWithPlane-style one-sided hint
}

// NewSegment validates and constructs a Segment.
func NewSegment(p1, p2 geom.Vec2) (*Segment, error) {
	if geom.NearlyEqual(p1, p2, 1e-9) {
		return nil, fmt.Errorf("shape: segment endpoints must be distinct")
	}
	n := geom.SafeNormalize(geom.RightPerp(p2.Sub(p1)))
	return &Segment{P1: p1, P2: p2, Normal: n}, nil
}

// Length returns the segment's length.
func (s *Segment) Length() float64 {
	return s.P2.Sub(s.P1).Len()
}

func (s *Segment) Project(axis geom.Vec2, t geom.Transform) Interval {
	a := t.ToWorld(s.P1).Dot(axis)
	b := t.ToWorld(s.P2).Dot(axis)
	if a > b {
		a, b = b, a
	}
	return Interval{Min: a, Max: b}
}

func (s *Segment) FarthestPoint(dir geom.Vec2, t geom.Transform) geom.Vec2 {
	localDir := t.ToLocalVector(dir)
	if s.P1.Dot(localDir) >= s.P2.Dot(localDir) {
		return t.ToWorld(s.P1)
	}
	return t.ToWorld(s.P2)
}

func (s *Segment) FarthestFeature(dir geom.Vec2, t geom.Transform) Feature {
	localDir := t.ToLocalVector(dir)
	maxV, maxIdx := s.P1, 0
	if s.P2.Dot(localDir) > s.P1.Dot(localDir) {
		maxV, maxIdx = s.P2, 1
	}
	return Feature{
		Kind:     FeatureEdge,
		V1:       t.ToWorld(s.P1),
		V2:       t.ToWorld(s.P2),
		Index1:   0,
		Index2:   1,
		Max:      t.ToWorld(maxV),
		MaxIndex: maxIdx,
	}
}

func (s *Segment) Support(dir geom.Vec2) geom.Vec2 {
	if s.P1.Dot(dir) >= s.P2.Dot(dir) {
		return s.P1
	}
	return s.P2
}

func (s *Segment) ComputeAABB(t geom.Transform) geom.AABB {
	a, b := t.ToWorld(s.P1), t.ToWorld(s.P2)
	return geom.AABB{
		Min: geom.Vec2{math.Min(a.X(), b.X()), math.Min(a.Y(), b.Y())},
		Max: geom.Vec2{math.Max(a.X(), b.X()), math.Max(a.Y(), b.Y())},
	}
}

// ComputeMass treats a dynamic segment as a uniform thin rod: mass =
// density*length, inertia about its own centroid = m*length^2/12.
func (s *Segment) ComputeMass(density float64) Mass {
	length := s.Length()
	mass := density * length
	center := s.P1.Add(s.P2).Mul(0.5)
	inertia := mass * length * length / 12.0
	return Mass{Center: center, Mass: mass, Inertia: inertia, Type: MassNormal}
}

func (s *Segment) FarthestDistance(from geom.Vec2) float64 {
	return math.Max(s.P1.Sub(from).Len(), s.P2.Sub(from).Len())
}
