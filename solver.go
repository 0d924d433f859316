package feather2d

import (
	"math"

	"github.com/akmonengine/feather2d/geom"
)

// contactPointState is the precomputed per-manifold-point working set the
// velocity solver iterates over: anchor vectors, effective normal/tangent
// mass and the relative-velocity bias term (restitution only; positional
// error is corrected separately by solveContactPosition).
// Grounded on constraint/contact.go's per-point rA/rB/effective-inertia
// precompute, rewritten from XPBD's single-shot compliance solve to
// Box2D-style accumulated sequential impulse per spec.md §4.7.
type contactPointState struct {
	rA, rB         geom.Vec2
	localAnchorA   geom.Vec2 // rA expressed in bodyA's local frame, fixed for the step
	localAnchorB   geom.Vec2 // rB expressed in bodyB's local frame, fixed for the step
	normalMass     float64
	tangentMass    float64
	velocityBias   float64
	normalImpulse  *float64
	tangentImpulse *float64
}

// solveIsland runs one step's worth of constraint solving for a single
// island: velocity iterations (every joint, then tangent-then-normal per
// contact), integrate positions, then position-correction iterations.
// Grounded on world.go's Step substep shape, reordered to spec.md §2's
// pipeline (solve velocities -> integrate positions -> solve positions).
// Emits EventContactPreSolve once per contact before any velocity
// iteration runs and EventContactPostSolve once per contact afterward
// (carrying the final accumulated impulse magnitudes), matching spec.md
// §5's pre-solve-before/post-solve-after-the-solver requirement.
func solveIsland(isl island, settings Settings, dt float64, events *Events) {
	points := make([][]contactPointState, len(isl.contacts))
	for i, c := range isl.contacts {
		points[i] = initContact(c, settings)
		events.emit(ContactEvent{EventType: EventContactPreSolve, FixtureA: c.FixtureA, FixtureB: c.FixtureB, Contact: c})
	}

	for _, j := range isl.joints {
		j.InitVelocityConstraints(dt)
	}

	for iter := 0; iter < settings.VelocityIterations; iter++ {
		for _, j := range isl.joints {
			j.SolveVelocity(dt)
		}
		for i, c := range isl.contacts {
			solveContactVelocity(c, points[i])
		}
	}

	for _, c := range isl.contacts {
		events.emit(ContactEvent{EventType: EventContactPostSolve, FixtureA: c.FixtureA, FixtureB: c.FixtureB, Contact: c})
	}

	for _, b := range isl.bodies {
		b.integratePosition(dt)
	}

	for iter := 0; iter < settings.PositionIterations; iter++ {
		maxErr := 0.0
		for _, j := range isl.joints {
			if e := j.SolvePosition(); e > maxErr {
				maxErr = e
			}
		}
		for i, c := range isl.contacts {
			if e := solveContactPosition(c, points[i], settings); e > maxErr {
				maxErr = e
			}
		}
		if maxErr < settings.LinearSlop {
			break
		}
	}
}

// initContact precomputes the per-point working set and applies warm-start
// impulses from the contact's carried-over accumulators.
func initContact(c *ContactConstraint, settings Settings) []contactPointState {
	a, b := c.FixtureA.body, c.FixtureB.body
	normal := c.Manifold.Normal

	states := make([]contactPointState, len(c.Manifold.Points))
	for i := range c.Manifold.Points {
		p := &c.Manifold.Points[i]
		rA := p.Position.Sub(a.T.ToWorld(a.mass.Center))
		rB := p.Position.Sub(b.T.ToWorld(b.mass.Center))

		rnA := geom.Cross(rA, normal)
		rnB := geom.Cross(rB, normal)
		invMassSum := a.InvMass() + b.InvMass() + a.InvInertia()*rnA*rnA + b.InvInertia()*rnB*rnB
		normalMass := 0.0
		if invMassSum > 0 {
			normalMass = 1.0 / invMassSum
		}

		tangent := geom.RightPerp(normal)
		rtA := geom.Cross(rA, tangent)
		rtB := geom.Cross(rB, tangent)
		invMassSumT := a.InvMass() + b.InvMass() + a.InvInertia()*rtA*rtA + b.InvInertia()*rtB*rtB
		tangentMass := 0.0
		if invMassSumT > 0 {
			tangentMass = 1.0 / invMassSumT
		}

		relVel := relativeVelocity(a, b, rA, rB)
		closingSpeed := relVel.Dot(normal)
		bias := 0.0
		if closingSpeed < -settings.RestitutionThreshold {
			bias = -c.restitution * closingSpeed
		}

		states[i] = contactPointState{
			rA: rA, rB: rB,
			localAnchorA:   a.T.Rot.InverseRotate(rA),
			localAnchorB:   b.T.Rot.InverseRotate(rB),
			normalMass:     normalMass,
			tangentMass:    tangentMass,
			velocityBias:   bias,
			normalImpulse:  &c.normalImpulse[i],
			tangentImpulse: &c.tangentImpulse[i],
		}

		impulse := normal.Mul(*states[i].normalImpulse).Add(tangent.Mul(*states[i].tangentImpulse))
		applyImpulse(a, b, rA, rB, impulse)
	}
	return states
}

func relativeVelocity(a, b *Body, rA, rB geom.Vec2) geom.Vec2 {
	vA := a.V.Add(geom.Vec2{-a.Omega * rA.Y(), a.Omega * rA.X()})
	vB := b.V.Add(geom.Vec2{-b.Omega * rB.Y(), b.Omega * rB.X()})
	return vB.Sub(vA)
}

func applyImpulse(a, b *Body, rA, rB, impulse geom.Vec2) {
	a.V = a.V.Sub(impulse.Mul(a.InvMass()))
	a.Omega -= a.InvInertia() * geom.Cross(rA, impulse)
	b.V = b.V.Add(impulse.Mul(b.InvMass()))
	b.Omega += b.InvInertia() * geom.Cross(rB, impulse)
}

// solveContactVelocity runs one sequential-impulse pass, tangent (friction)
// first then normal, matching spec.md §4.7's stated order and Box2D's
// b2ContactSolver.SolveVelocityConstraints iteration order.
func solveContactVelocity(c *ContactConstraint, states []contactPointState) {
	a, b := c.FixtureA.body, c.FixtureB.body
	normal := c.Manifold.Normal
	tangent := geom.RightPerp(normal)

	for _, s := range states {
		relVel := relativeVelocity(a, b, s.rA, s.rB)
		vt := relVel.Dot(tangent)
		lambda := s.tangentMass * -vt

		maxFriction := c.friction * *s.normalImpulse
		newImpulse := clampf(*s.tangentImpulse+lambda, -maxFriction, maxFriction)
		lambda = newImpulse - *s.tangentImpulse
		*s.tangentImpulse = newImpulse

		applyImpulse(a, b, s.rA, s.rB, tangent.Mul(lambda))
	}

	for _, s := range states {
		relVel := relativeVelocity(a, b, s.rA, s.rB)
		vn := relVel.Dot(normal)
		lambda := s.normalMass * (-vn + s.velocityBias)

		newImpulse := math.Max(*s.normalImpulse+lambda, 0)
		lambda = newImpulse - *s.normalImpulse
		*s.normalImpulse = newImpulse

		applyImpulse(a, b, s.rA, s.rB, normal.Mul(lambda))
	}
}

// solveContactPosition runs one Baumgarte split-impulse position-correction
// pass: re-express each point's fixed local-frame anchor (captured once by
// initContact, before any position correction ran) in world space using
// each body's CURRENT transform, so separation actually tracks how far the
// position solve's own earlier iterations already moved the bodies apart,
// instead of collapsing to the constant `-p.Penetration` a naive
// recompute-from-the-cached-manifold-point gives (both sides would
// otherwise reconstruct the same fixed world point every call). Grounded on
// RevoluteJoint.SolvePosition's identical local-anchor-then-Rotate pattern
// and constraint/contact.go's position-only XPBD pass, rewritten from
// lambda-accumulation to Box2D's bias-clamped direct correction. Returns
// the largest remaining penetration among this contact's points (for the
// solver's early-out check).
func solveContactPosition(c *ContactConstraint, states []contactPointState, settings Settings) float64 {
	a, b := c.FixtureA.body, c.FixtureB.body
	normal := c.Manifold.Normal
	maxErr := 0.0

	for i := range c.Manifold.Points {
		p := &c.Manifold.Points[i]
		s := &states[i]
		rA := a.T.Rot.Rotate(s.localAnchorA)
		rB := b.T.Rot.Rotate(s.localAnchorB)

		worldA := a.T.ToWorld(a.mass.Center).Add(rA)
		worldB := b.T.ToWorld(b.mass.Center).Add(rB)
		separation := worldB.Sub(worldA).Dot(normal) - p.Penetration

		rnA := geom.Cross(rA, normal)
		rnB := geom.Cross(rB, normal)
		invMassSum := a.InvMass() + b.InvMass() + a.InvInertia()*rnA*rnA + b.InvInertia()*rnB*rnB
		if invMassSum <= 0 {
			continue
		}

		c2 := clampf(settings.Baumgarte*(separation+settings.LinearSlop), -settings.MaxLinearCorrection, 0)
		lambda := -c2 / invMassSum
		impulse := normal.Mul(lambda)

		a.T.Position = a.T.Position.Sub(impulse.Mul(a.InvMass()))
		a.T.Rot = a.T.Rot.Integrate(-a.InvInertia()*geom.Cross(rA, impulse), 1)
		b.T.Position = b.T.Position.Add(impulse.Mul(b.InvMass()))
		b.T.Rot = b.T.Rot.Integrate(b.InvInertia()*geom.Cross(rB, impulse), 1)

		if -separation > maxErr {
			maxErr = -separation
		}
	}

	return maxErr
}

// updateSleep advances every island's sleep timers and puts the whole
// island to sleep only when EVERY dynamic body in it is slow enough,
// matching spec.md §4.6's island-wide sleep rule.
func updateSleep(islands []island, settings Settings, dt float64) {
	for _, isl := range islands {
		allSlow := true
		for _, b := range isl.bodies {
			if !b.trySleep(dt, settings.SleepLinearVelocity, settings.SleepAngularVelocity, settings.SleepTimeThreshold) {
				allSlow = false
			}
		}
		if allSlow && len(isl.bodies) > 0 {
			for _, b := range isl.bodies {
				b.sleep()
			}
		}
	}
}
