package feather2d

import (
	"github.com/akmonengine/feather2d/geom"
	"github.com/akmonengine/feather2d/gjk2d"
)

// RaycastHit describes where a ray first touches a fixture.
type RaycastHit struct {
	Fixture  *Fixture
	Point    geom.Vec2
	Normal   geom.Vec2
	Fraction float64 // 0..1 along the queried segment
}

// Raycast casts a segment from origin toward origin+direction (direction's
// length sets the ray's max distance) and returns the nearest fixture it
// touches, if any. Listed in spec.md §6's Queries with no algorithm detail;
// grounded on ByteArena-box2d's B2World.RayCast callback-driven tree walk,
// reimplemented over gjk2d.Distance's point-vs-shape conservative
// advancement (the same technique timeOfImpact uses for a fixture pair)
// instead of Box2D's dedicated per-shape RayCast methods, since feather2d's
// Shape interface has no raycast primitive of its own (spec.md §9's closed
// shape capability set).
func (w *World) Raycast(origin, direction geom.Vec2) (RaycastHit, bool) {
	maxDist := direction.Len()
	if maxDist == 0 {
		return RaycastHit{}, false
	}
	unit := direction.Mul(1.0 / maxDist)

	best := RaycastHit{}
	found := false

	rayBox := geom.Union(geom.AABB{Min: origin, Max: origin}, geom.AABB{Min: origin.Add(direction), Max: origin.Add(direction)})

	for _, b := range w.bodies {
		if !rayBox.Overlaps(b.worldAABB()) {
			continue
		}
		for _, f := range b.Fixtures {
			t, hit := raycastFixture(origin, unit, maxDist, f)
			if !hit || (found && t >= best.Fraction) {
				continue
			}
			point := origin.Add(unit.Mul(t * maxDist))
			normal := geom.SafeNormalize(point.Sub(b.T.ToWorld(b.mass.Center)))
			best = RaycastHit{Fixture: f, Point: point, Normal: normal, Fraction: t}
			found = true
		}
	}

	return best, found
}

// raycastFixture finds the fraction t in [0,1] along the unit-direction ray
// (scaled by maxDist) at which the swept ray point first comes within
// toiTargetDistance of f's shape, via the same conservative-advancement
// loop timeOfImpact uses for a body-pair sweep.
func raycastFixture(origin, unit geom.Vec2, maxDist float64, f *Fixture) (float64, bool) {
	targetSupport := fixtureSupport(f)

	t := 0.0
	for i := 0; i < toiMaxIterations; i++ {
		point := origin.Add(unit.Mul(t * maxDist))
		pointSupport := func(direction geom.Vec2) geom.Vec2 { return point }

		dist, intersecting := gjk2d.Distance(pointSupport, targetSupport)
		if intersecting || dist <= toiTargetDistance {
			return t, true
		}

		advance := dist / maxDist
		if advance <= 1e-9 {
			return t, true
		}
		t += advance
		if t > 1 {
			return 0, false
		}
	}
	return t, true
}

// QueryAABB returns every fixture whose current world AABB overlaps box,
// a thin wrapper the embedder can use for region queries (mouse picking,
// explosion radii) without re-running the broad phase. Listed in spec.md
// §6's Queries; grounded on the same B2World query surface raycast is.
func (w *World) QueryAABB(box geom.AABB) []*Fixture {
	var hits []*Fixture
	for _, b := range w.bodies {
		if !box.Overlaps(b.worldAABB()) {
			continue
		}
		for _, f := range b.Fixtures {
			if box.Overlaps(f.AABB()) {
				hits = append(hits, f)
			}
		}
	}
	return hits
}
