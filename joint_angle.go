package feather2d

import "math"

// AngleJoint constrains the relative rotation between two bodies without
// constraining their relative position — the angular half of WeldJoint on
// its own. Box2D has no literal "angle joint" (dyn4j does); grounded on
// ByteArena-box2d's DynamicsB2JointWeld.go's angular-only term, split out
// since a pure angle constraint is useful on its own (e.g. keeping a
// turret's body upright while it translates freely).
type AngleJoint struct {
	jointBase

	ReferenceAngle float64
	Ratio          float64 // relative-angle multiplier; 1 means equal rotation

	impulse     float64
	angularMass float64
}

// NewAngleJoint locks bodyB's rotation to bodyA's current relative angle.
func NewAngleJoint(bodyA, bodyB *Body) *AngleJoint {
	j := &AngleJoint{
		jointBase:      jointBase{bodyA: bodyA, bodyB: bodyB, collideConnected: true},
		ReferenceAngle: bodyB.T.Rot.Angle() - bodyA.T.Rot.Angle(),
		Ratio:          1,
	}
	linkJointEdges(j)
	return j
}

func (j *AngleJoint) Type() JointType { return JointAngle }

func (j *AngleJoint) InitVelocityConstraints(dt float64) {
	a, b := j.bodyA, j.bodyB
	iA, iB := a.InvInertia(), b.InvInertia()
	invMass := iA + j.Ratio*j.Ratio*iB
	j.angularMass = 0
	if invMass > 0 {
		j.angularMass = 1.0 / invMass
	}

	a.Omega -= iA * j.impulse
	b.Omega += iB * j.Ratio * j.impulse
}

func (j *AngleJoint) SolveVelocity(dt float64) {
	a, b := j.bodyA, j.bodyB
	iA, iB := a.InvInertia(), b.InvInertia()

	cdot := j.Ratio*b.Omega - a.Omega
	impulse := -j.angularMass * cdot
	j.impulse += impulse

	a.Omega -= iA * impulse
	b.Omega += iB * j.Ratio * impulse
}

func (j *AngleJoint) SolvePosition() float64 {
	a, b := j.bodyA, j.bodyB
	c := b.T.Rot.Angle() - j.Ratio*a.T.Rot.Angle() - j.ReferenceAngle

	iA, iB := a.InvInertia(), b.InvInertia()
	invMass := iA + j.Ratio*j.Ratio*iB
	angularMass := 0.0
	if invMass > 0 {
		angularMass = 1.0 / invMass
	}
	impulse := -angularMass * c

	a.T.Rot = a.T.Rot.Integrate(-iA*impulse, 1)
	b.T.Rot = b.T.Rot.Integrate(iB*j.Ratio*impulse, 1)

	return math.Abs(c)
}
