package feather2d

import "github.com/akmonengine/feather2d/geom"

// FrictionJoint applies a clamped linear and angular drag between two
// bodies without constraining their relative position, the "damp this
// relative motion down to zero" counterpart of a motor. Grounded on
// ByteArena-box2d's DynamicsB2JointFriction.go, reduced to a 2x2 linear
// block plus scalar angular block in 2D.
type FrictionJoint struct {
	jointBase

	LocalAnchorA, LocalAnchorB geom.Vec2

	MaxForce  float64
	MaxTorque float64

	linearImpulse  geom.Vec2
	angularImpulse float64

	rA, rB        geom.Vec2
	k11, k12, k22 float64
	angularMass   float64
}

// NewFrictionJoint applies drag between bodyA/bodyB anchored at worldAnchor.
func NewFrictionJoint(bodyA, bodyB *Body, worldAnchor geom.Vec2) *FrictionJoint {
	j := &FrictionJoint{
		jointBase:    jointBase{bodyA: bodyA, bodyB: bodyB, collideConnected: false},
		LocalAnchorA: bodyA.T.ToLocal(worldAnchor),
		LocalAnchorB: bodyB.T.ToLocal(worldAnchor),
	}
	linkJointEdges(j)
	return j
}

func (j *FrictionJoint) Type() JointType { return JointFriction }

func (j *FrictionJoint) InitVelocityConstraints(dt float64) {
	a, b := j.bodyA, j.bodyB
	j.rA = a.T.Rot.Rotate(j.LocalAnchorA.Sub(a.mass.Center))
	j.rB = b.T.Rot.Rotate(j.LocalAnchorB.Sub(b.mass.Center))

	mA, mB := a.InvMass(), b.InvMass()
	iA, iB := a.InvInertia(), b.InvInertia()

	j.k11 = mA + mB + iA*j.rA.Y()*j.rA.Y() + iB*j.rB.Y()*j.rB.Y()
	j.k12 = -iA*j.rA.X()*j.rA.Y() - iB*j.rB.X()*j.rB.Y()
	j.k22 = mA + mB + iA*j.rA.X()*j.rA.X() + iB*j.rB.X()*j.rB.X()

	j.angularMass = iA + iB
	if j.angularMass > 0 {
		j.angularMass = 1.0 / j.angularMass
	}

	a.V = a.V.Add(j.linearImpulse.Mul(-mA))
	a.Omega -= iA * (geom.Cross(j.rA, j.linearImpulse) + j.angularImpulse)
	b.V = b.V.Add(j.linearImpulse.Mul(mB))
	b.Omega += iB * (geom.Cross(j.rB, j.linearImpulse) + j.angularImpulse)
}

func (j *FrictionJoint) SolveVelocity(dt float64) {
	a, b := j.bodyA, j.bodyB
	iA, iB := a.InvInertia(), b.InvInertia()
	mA, mB := a.InvMass(), b.InvMass()

	cdotAngle := b.Omega - a.Omega
	angImpulse := -j.angularMass * cdotAngle
	oldAng := j.angularImpulse
	maxAng := j.MaxTorque * dt
	j.angularImpulse = clampf(oldAng+angImpulse, -maxAng, maxAng)
	angImpulse = j.angularImpulse - oldAng
	a.Omega -= iA * angImpulse
	b.Omega += iB * angImpulse

	cdot := b.V.Add(geom.Vec2{-b.Omega * j.rB.Y(), b.Omega * j.rB.X()}).
		Sub(a.V).Sub(geom.Vec2{-a.Omega * j.rA.Y(), a.Omega * j.rA.X()})

	impulse := solveGauss2x2(j.k11, j.k12, j.k22, cdot.Mul(-1))
	oldImpulse := j.linearImpulse
	j.linearImpulse = j.linearImpulse.Add(impulse)
	maxLin := j.MaxForce * dt
	if j.linearImpulse.Len() > maxLin {
		j.linearImpulse = geom.SafeNormalize(j.linearImpulse).Mul(maxLin)
	}
	impulse = j.linearImpulse.Sub(oldImpulse)

	a.V = a.V.Add(impulse.Mul(-mA))
	a.Omega -= iA * geom.Cross(j.rA, impulse)
	b.V = b.V.Add(impulse.Mul(mB))
	b.Omega += iB * geom.Cross(j.rB, impulse)
}

// SolvePosition is a no-op: a friction joint drags relative motion toward
// zero, it never corrects positional drift.
func (j *FrictionJoint) SolvePosition() float64 { return 0 }
