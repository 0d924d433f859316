package shape

import (
	"fmt"
	"math"

	"github.com/akmonengine/feather2d/geom"
)

// Circle is a convex disc shape defined by a local-space center and radius.
// Grounded on actor.Sphere, reduced from a 3D ball to a 2D disc.
type Circle struct {
	Center geom.Vec2
	Radius float64
}

// NewCircle validates and constructs a Circle. A non-positive radius is an
// input-domain error per spec.md §7.
func NewCircle(center geom.Vec2, radius float64) (*Circle, error) {
	if !(radius > 0) || math.IsNaN(radius) || math.IsInf(radius, 0) {
		return nil, fmt.Errorf("shape: circle radius must be positive, got %v", radius)
	}
	return &Circle{Center: center, Radius: radius}, nil
}

func (c *Circle) Project(axis geom.Vec2, t geom.Transform) Interval {
	center := t.ToWorld(c.Center)
	d := center.Dot(axis)
	return Interval{Min: d - c.Radius, Max: d + c.Radius}
}

func (c *Circle) FarthestPoint(dir geom.Vec2, t geom.Transform) geom.Vec2 {
	center := t.ToWorld(c.Center)
	d := geom.SafeNormalize(dir)
	return center.Add(d.Mul(c.Radius))
}

func (c *Circle) FarthestFeature(dir geom.Vec2, t geom.Transform) Feature {
	p := c.FarthestPoint(dir, t)
	return Feature{Kind: FeatureVertex, V1: p, Max: p}
}

func (c *Circle) Support(dir geom.Vec2) geom.Vec2 {
	d := geom.SafeNormalize(dir)
	return c.Center.Add(d.Mul(c.Radius))
}

func (c *Circle) ComputeAABB(t geom.Transform) geom.AABB {
	center := t.ToWorld(c.Center)
	r := geom.Vec2{c.Radius, c.Radius}
	return geom.AABB{Min: center.Sub(r), Max: center.Add(r)}
}

func (c *Circle) ComputeMass(density float64) Mass {
	mass := density * math.Pi * c.Radius * c.Radius
	// Disc inertia about its own center: I = m*r^2/2, then shifted to the
	// body's origin by the parallel-axis term in Combine.
	inertia := mass * c.Radius * c.Radius * 0.5
	return Mass{Center: c.Center, Mass: mass, Inertia: inertia, Type: MassNormal}
}

func (c *Circle) FarthestDistance(from geom.Vec2) float64 {
	return from.Sub(c.Center).Len() + c.Radius
}
