// Package shape implements the convex shape primitives feather2d simulates:
// Circle, Polygon and Segment. Grounded on the teacher's actor.ShapeInterface
// (Support/GetContactFeature/ComputeAABB/ComputeMass), narrowed from the
// teacher's Box/Sphere/Plane trio to the spec's Circle/Polygon/Segment set
// and from 3D corner enumeration to 2D half-plane projection.
package shape

import "github.com/akmonengine/feather2d/geom"

// Interval is the result of projecting a shape onto an axis.
type Interval struct {
	Min, Max float64
}

// Overlaps reports whether two intervals intersect.
func (i Interval) Overlaps(o Interval) bool {
	return i.Min <= o.Max && o.Min <= i.Max
}

// FeatureKind distinguishes a vertex feature from an edge feature.
type FeatureKind int

const (
	FeatureVertex FeatureKind = iota
	FeatureEdge
)

// Feature is a support feature: either a single vertex or an edge spanning
// two vertices. Grounded on spec.md §3's "Feature: a vertex... or an edge
// (two vertices, edge vector, index, and a 'maximum' endpoint...)".
type Feature struct {
	Kind FeatureKind

	// V1 is the feature's sole vertex for FeatureVertex, or the edge's
	// first vertex for FeatureEdge. Both are in world space.
	V1, V2 geom.Vec2
	// Index1/Index2 index the originating polygon's vertex array.
	Index1, Index2 int
	// Max is the vertex of the feature farthest along the query direction
	// (the "maximum" endpoint used by manifold clipping to pick which end
	// of a reference edge to clip against).
	Max geom.Vec2
	// MaxIndex is the polygon index of Max.
	MaxIndex int
}

// Shape is the capability set every convex collision shape implements.
// Closed variant set per spec.md §9's "no open inheritance hierarchy":
// Circle, Polygon, Segment.
type Shape interface {
	// Project returns the [min,max] interval of the shape's extent along
	// axis (in world space, axis assumed unit length) under transform t.
	Project(axis geom.Vec2, t geom.Transform) Interval

	// FarthestPoint returns the shape's support point (in world space)
	// farthest along dir (a world-space direction) under transform t.
	FarthestPoint(dir geom.Vec2, t geom.Transform) geom.Vec2

	// FarthestFeature returns the support feature (vertex or edge) in
	// world space along world-space direction dir under transform t.
	FarthestFeature(dir geom.Vec2, t geom.Transform) Feature

	// Support returns the local-space support point along a local-space
	// direction; this is the primitive GJK/EPA drive via Minkowski
	// differences (teacher: actor.ShapeInterface.Support).
	Support(dir geom.Vec2) geom.Vec2

	// ComputeAABB returns the shape's world AABB under transform t.
	ComputeAABB(t geom.Transform) geom.AABB

	// ComputeMass returns the shape's mass properties for the given
	// density (teacher: actor.ShapeInterface.ComputeMass/ComputeInertia,
	// merged into one return value here).
	ComputeMass(density float64) Mass

	// FarthestDistance returns the distance from a local-space point to
	// the shape's farthest vertex/point, used to compute a body's
	// rotation-disc radius (spec.md §4.1: "max over vertices of |v-c|").
	FarthestDistance(from geom.Vec2) float64
}
