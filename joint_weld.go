package feather2d

import (
	"math"

	"github.com/akmonengine/feather2d/geom"
)

// WeldJoint rigidly fuses two bodies at a shared anchor: no relative
// translation and no relative rotation. Grounded on ByteArena-box2d's
// DynamicsB2JointWeld.go, reduced from its coupled 3x3 (point+angle) matrix
// to a 2x2 point block plus a scalar angular block, solved sequentially —
// acceptable because feather2d's solver iterates to convergence rather than
// relying on a single exact 3x3 solve per step.
type WeldJoint struct {
	jointBase

	LocalAnchorA, LocalAnchorB geom.Vec2
	ReferenceAngle             float64

	impulse      geom.Vec2
	angleImpulse float64

	rA, rB        geom.Vec2
	k11, k12, k22 float64
	angularMass   float64
}

// NewWeldJoint fuses bodyA/bodyB at worldAnchor.
func NewWeldJoint(bodyA, bodyB *Body, worldAnchor geom.Vec2) *WeldJoint {
	j := &WeldJoint{
		jointBase:      jointBase{bodyA: bodyA, bodyB: bodyB, collideConnected: false},
		LocalAnchorA:   bodyA.T.ToLocal(worldAnchor),
		LocalAnchorB:   bodyB.T.ToLocal(worldAnchor),
		ReferenceAngle: bodyB.T.Rot.Angle() - bodyA.T.Rot.Angle(),
	}
	linkJointEdges(j)
	return j
}

func (j *WeldJoint) Type() JointType { return JointWeld }

func (j *WeldJoint) InitVelocityConstraints(dt float64) {
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

	a.V = a.V.Add(j.impulse.Mul(-mA))
	a.Omega -= iA * (geom.Cross(j.rA, j.impulse) + j.angleImpulse)
	b.V = b.V.Add(j.impulse.Mul(mB))
	b.Omega += iB * (geom.Cross(j.rB, j.impulse) + j.angleImpulse)
}

func (j *WeldJoint) SolveVelocity(dt float64) {
	a, b := j.bodyA, j.bodyB
	iA, iB := a.InvInertia(), b.InvInertia()

	cdotAngle := b.Omega - a.Omega
	angleImpulse := -j.angularMass * cdotAngle
	j.angleImpulse += angleImpulse
	a.Omega -= iA * angleImpulse
	b.Omega += iB * angleImpulse

	mA, mB := a.InvMass(), b.InvMass()
	cdot := b.V.Add(geom.Vec2{-b.Omega * j.rB.Y(), b.Omega * j.rB.X()}).
		Sub(a.V).Sub(geom.Vec2{-a.Omega * j.rA.Y(), a.Omega * j.rA.X()})

	impulse := solveGauss2x2(j.k11, j.k12, j.k22, cdot.Mul(-1))
	j.impulse = j.impulse.Add(impulse)

	a.V = a.V.Add(impulse.Mul(-mA))
	a.Omega -= iA * geom.Cross(j.rA, impulse)
	b.V = b.V.Add(impulse.Mul(mB))
	b.Omega += iB * geom.Cross(j.rB, impulse)
}

func (j *WeldJoint) SolvePosition() float64 {
	a, b := j.bodyA, j.bodyB

	angleErr := b.T.Rot.Angle() - a.T.Rot.Angle() - j.ReferenceAngle
	iA, iB := a.InvInertia(), b.InvInertia()
	angularMass := iA + iB
	if angularMass > 0 {
		angularMass = 1.0 / angularMass
	}
	angleImpulse := -angularMass * angleErr
	a.T.Rot = a.T.Rot.Integrate(-iA*angleImpulse, 1)
	b.T.Rot = b.T.Rot.Integrate(iB*angleImpulse, 1)

	rA := a.T.Rot.Rotate(j.LocalAnchorA.Sub(a.mass.Center))
	rB := b.T.Rot.Rotate(j.LocalAnchorB.Sub(b.mass.Center))
	worldA := a.T.ToWorld(a.mass.Center).Add(rA)
	worldB := b.T.ToWorld(b.mass.Center).Add(rB)
	c := worldB.Sub(worldA)

	mA, mB := a.InvMass(), b.InvMass()
	k11 := mA + mB + iA*rA.Y()*rA.Y() + iB*rB.Y()*rB.Y()
	k12 := -iA*rA.X()*rA.Y() - iB*rB.X()*rB.Y()
	k22 := mA + mB + iA*rA.X()*rA.X() + iB*rB.X()*rB.X()

	impulse := solveGauss2x2(k11, k12, k22, c.Mul(-1))
	a.T.Position = a.T.Position.Sub(impulse.Mul(mA))
	a.T.Rot = a.T.Rot.Integrate(-iA*geom.Cross(rA, impulse), 1)
	b.T.Position = b.T.Position.Add(impulse.Mul(mB))
	b.T.Rot = b.T.Rot.Integrate(iB*geom.Cross(rB, impulse), 1)

	return c.Len() + math.Abs(angleErr)
}
