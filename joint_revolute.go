package feather2d

import (
	"math"

	"github.com/akmonengine/feather2d/geom"
)

// RevoluteJoint pins two bodies to a common point while letting them rotate
// freely about it, optionally driven by a motor or clamped by an angle
// limit. Grounded on ByteArena-box2d's DynamicsB2JointRevolute.go, reduced
// from its coupled 3x3 point+angle matrix to a 2x2 point constraint plus a
// separate scalar angular motor/limit constraint solved sequentially —
// the standard simplification when the full 3x3 coupling isn't needed.
type RevoluteJoint struct {
	jointBase

	LocalAnchorA, LocalAnchorB geom.Vec2
	ReferenceAngle             float64

	EnableMotor    bool
	MotorSpeed     float64
	MaxMotorTorque float64

	EnableLimit bool
	LowerAngle  float64
	UpperAngle  float64

	impulse      geom.Vec2
	motorImpulse float64
	lowerImpulse float64
	upperImpulse float64

	rA, rB   geom.Vec2
	k11, k12, k22 float64
	motorMass     float64
}

// NewRevoluteJoint pins bodyA/bodyB together at the given world anchor.
func NewRevoluteJoint(bodyA, bodyB *Body, worldAnchor geom.Vec2) *RevoluteJoint {
	j := &RevoluteJoint{
		jointBase: jointBase{bodyA: bodyA, bodyB: bodyB, collideConnected: false},
		LocalAnchorA:   bodyA.T.ToLocal(worldAnchor),
		LocalAnchorB:   bodyB.T.ToLocal(worldAnchor),
		ReferenceAngle: bodyB.T.Rot.Angle() - bodyA.T.Rot.Angle(),
	}
	linkJointEdges(j)
	return j
}

func (j *RevoluteJoint) Type() JointType { return JointRevolute }

// Angle returns bodyB's rotation relative to bodyA, in the joint's own
// reference frame (zero at the configuration ReferenceAngle was captured
// at).
func (j *RevoluteJoint) Angle() float64 {
	return j.bodyB.T.Rot.Angle() - j.bodyA.T.Rot.Angle() - j.ReferenceAngle
}

func (j *RevoluteJoint) InitVelocityConstraints(dt float64) {
	a, b := j.bodyA, j.bodyB
	j.rA = a.T.Rot.Rotate(j.LocalAnchorA.Sub(a.mass.Center))
	j.rB = b.T.Rot.Rotate(j.LocalAnchorB.Sub(b.mass.Center))

	mA, mB := a.InvMass(), b.InvMass()
	iA, iB := a.InvInertia(), b.InvInertia()

	j.k11 = mA + mB + iA*j.rA.Y()*j.rA.Y() + iB*j.rB.Y()*j.rB.Y()
	j.k12 = -iA*j.rA.X()*j.rA.Y() - iB*j.rB.X()*j.rB.Y()
	j.k22 = mA + mB + iA*j.rA.X()*j.rA.X() + iB*j.rB.X()*j.rB.X()

	j.motorMass = iA + iB
	if j.motorMass > 0 {
		j.motorMass = 1.0 / j.motorMass
	}
	if !j.EnableMotor {
		j.motorImpulse = 0
	}
	if !j.EnableLimit {
		j.lowerImpulse = 0
		j.upperImpulse = 0
	}

	// warm start
	a.V = a.V.Add(j.impulse.Mul(-mA))
	a.Omega -= iA * (geom.Cross(j.rA, j.impulse) + j.motorImpulse + j.lowerImpulse - j.upperImpulse)
	b.V = b.V.Add(j.impulse.Mul(mB))
	b.Omega += iB * (geom.Cross(j.rB, j.impulse) + j.motorImpulse + j.lowerImpulse - j.upperImpulse)
}

func (j *RevoluteJoint) SolveVelocity(dt float64) {
	a, b := j.bodyA, j.bodyB
	iA, iB := a.InvInertia(), b.InvInertia()

	if j.EnableMotor {
		cdot := b.Omega - a.Omega - j.MotorSpeed
		impulse := -j.motorMass * cdot
		oldImpulse := j.motorImpulse
		maxImpulse := j.MaxMotorTorque * dt
		j.motorImpulse = clampf(oldImpulse+impulse, -maxImpulse, maxImpulse)
		impulse = j.motorImpulse - oldImpulse

		a.Omega -= iA * impulse
		b.Omega += iB * impulse
	}

	if j.EnableLimit {
		angle := j.Angle()
		invDt := 0.0
		if dt > 0 {
			invDt = 1.0 / dt
		}

		{
			c := angle - j.LowerAngle
			bias := math.Min(c, 0) * invDt * 0.2
			cdot := b.Omega - a.Omega
			newImpulse := math.Max(j.lowerImpulse-j.motorMass*(cdot+bias), 0)
			delta := newImpulse - j.lowerImpulse
			j.lowerImpulse = newImpulse
			a.Omega -= iA * delta
			b.Omega += iB * delta
		}

		{
			c := j.UpperAngle - angle
			bias := math.Min(c, 0) * invDt * 0.2
			cdot := a.Omega - b.Omega
			newImpulse := math.Max(j.upperImpulse-j.motorMass*(cdot+bias), 0)
			delta := newImpulse - j.upperImpulse
			j.upperImpulse = newImpulse
			a.Omega += iA * delta
			b.Omega -= iB * delta
		}
	}

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

func (j *RevoluteJoint) SolvePosition() float64 {
	a, b := j.bodyA, j.bodyB
	rA := a.T.Rot.Rotate(j.LocalAnchorA.Sub(a.mass.Center))
	rB := b.T.Rot.Rotate(j.LocalAnchorB.Sub(b.mass.Center))

	worldA := a.T.ToWorld(a.mass.Center).Add(rA)
	worldB := b.T.ToWorld(b.mass.Center).Add(rB)
	c := worldB.Sub(worldA)
	errLen := c.Len()

	mA, mB := a.InvMass(), b.InvMass()
	iA, iB := a.InvInertia(), b.InvInertia()

	k11 := mA + mB + iA*rA.Y()*rA.Y() + iB*rB.Y()*rB.Y()
	k12 := -iA*rA.X()*rA.Y() - iB*rB.X()*rB.Y()
	k22 := mA + mB + iA*rA.X()*rA.X() + iB*rB.X()*rB.X()

	impulse := solveGauss2x2(k11, k12, k22, c.Mul(-1))

	a.T.Position = a.T.Position.Sub(impulse.Mul(mA))
	a.T.Rot = a.T.Rot.Integrate(-iA*geom.Cross(rA, impulse), 1)
	b.T.Position = b.T.Position.Add(impulse.Mul(mB))
	b.T.Rot = b.T.Rot.Integrate(iB*geom.Cross(rB, impulse), 1)

	return errLen
}
