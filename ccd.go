package feather2d

import (
	"github.com/akmonengine/feather2d/geom"
	"github.com/akmonengine/feather2d/gjk2d"
)

// toiMaxIterations bounds the conservative-advancement loop (no bisection
// refinement is done), matching
// the teacher-adjacent B2_maxSubSteps-style iteration caps used throughout
// ByteArena-box2d's collision code.
const toiMaxIterations = 20

// toiTargetDistance is the target separation conservative advancement aims to
// stop at — close enough to touching without actually interpenetrating.
const toiTargetDistance = 0.005

// sweptSupport builds a gjk2d.Support function for a fixture interpolated
// between its body's T0 (step start) and T (step end) transforms at
// parameter t in [0,1], the 2D analogue of Box2D's B2Sweep.GetTransform.
func sweptSupport(f *Fixture, t float64) gjk2d.Support {
	body := f.body
	pos := body.T0.Position.Mul(1 - t).Add(body.T.Position.Mul(t))
	rot := geom.NewRot(body.T0.Rot.Angle()*(1-t) + body.T.Rot.Angle()*t)
	transform := geom.Transform{Position: pos, Rot: rot}
	return func(direction geom.Vec2) geom.Vec2 {
		return transform.ToWorld(f.Shape.Support(transform.ToLocalVector(direction)))
	}
}

// timeOfImpact finds the first time in [0,1] at which fixtures fA and fB
// come within toiTargetDistance of each other along their swept motion
// between T0 and T, via conservative advancement: repeatedly measure the
// GJK distance at the current candidate time and advance it by at least
// distance/closingSpeedBound, which can never skip past the true first
// contact. Grounded on ByteArena-box2d's CollisionB2TimeOfImpact.go's
// conservative-advancement loop, reimplemented over gjk2d.Distance instead
// of Box2D's dedicated B2Distance routine.
func timeOfImpact(fA, fB *Fixture) (t float64, hit bool) {
	bodyA, bodyB := fA.body, fB.body

	relMotion := bodyA.T.Position.Sub(bodyA.T0.Position).Sub(bodyB.T.Position.Sub(bodyB.T0.Position)).Len()
	relRotation := absf(bodyA.T.Rot.Angle()-bodyA.T0.Rot.Angle()) + absf(bodyB.T.Rot.Angle()-bodyB.T0.Rot.Angle())
	maxRadius := absf(fA.Shape.FarthestDistance(geom.Vec2{})) + absf(fB.Shape.FarthestDistance(geom.Vec2{}))
	boundPerUnitTime := relMotion + relRotation*maxRadius
	if boundPerUnitTime <= 0 {
		return 1, false
	}

	t = 0
	for i := 0; i < toiMaxIterations; i++ {
		supportA := sweptSupport(fA, t)
		supportB := sweptSupport(fB, t)

		dist, intersecting := gjk2d.Distance(supportA, supportB)
		if intersecting || dist <= toiTargetDistance {
			return t, true
		}

		advance := (dist - toiTargetDistance) / boundPerUnitTime
		if advance <= 1e-9 {
			return t, true
		}
		t += advance
		if t >= 1 {
			return 1, false
		}
	}
	return t, true
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// solveCCD runs continuous collision detection for every bullet body:
// find the earliest time of impact against any fixture its swept AABB
// overlaps, then clamp that body's (and, if also dynamic, the other
// body's) position to the impact time instead of letting it tunnel
// through. Grounded on the same conservative-advancement routine, driven
// per-bullet as Box2D's B2World.SolveTOI does (one TOI solve per bullet
// per step, not a full sub-stepping re-simulation).
func solveCCD(world *World) {
	for _, bullet := range world.bodies {
		if !bullet.IsBullet() || bullet.Type != BodyDynamic || bullet.IsAsleep() {
			continue
		}

		sweep := bullet.sweptAABB()
		minT := 1.0
		var hitBody *Body

		for _, other := range world.bodies {
			if other == bullet {
				continue
			}
			if other.Type == BodyDynamic && other.IsBullet() {
				continue // bullet-vs-bullet CCD is not attempted
			}
			if !sweep.Overlaps(other.worldAABB()) {
				continue
			}

			for _, fA := range bullet.Fixtures {
				if fA.IsSensor {
					continue
				}
				for _, fB := range other.Fixtures {
					if fB.IsSensor {
						continue
					}
					if !fA.Filter.ShouldCollide(fB.Filter) {
						continue
					}
					t, hit := timeOfImpact(fA, fB)
					if hit && t < minT {
						minT = t
						hitBody = other
					}
				}
			}
		}

		if hitBody != nil && minT < 1 {
			clampToTime(bullet, minT)
			if hitBody.Type == BodyDynamic {
				clampToTime(hitBody, minT)
			}
		}
	}
}

// clampToTime rewinds a body's transform to the interpolated pose at
// parameter t between T0 and T, so the step's later position-solve passes
// start from the pre-tunneling pose instead of the fully integrated one.
func clampToTime(b *Body, t float64) {
	pos := b.T0.Position.Mul(1 - t).Add(b.T.Position.Mul(t))
	rot := geom.NewRot(b.T0.Rot.Angle()*(1-t) + b.T.Rot.Angle()*t)
	b.T = geom.Transform{Position: pos, Rot: rot}
	b.recomputeFixtureAABBs()
}
