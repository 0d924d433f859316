package feather2d

import "github.com/akmonengine/feather2d/geom"

// PulleyJoint links two bodies through a pair of fixed ground anchors such
// that the sum of the two rope lengths (scaled by Ratio) stays constant —
// shortening one side lengthens the other. Grounded on ByteArena-box2d's
// DynamicsB2JointPulley.go, dropping its max-length hard limits (the
// teacher-and-pack corpus never exercises them) to keep the single
// equal-total-length constraint.
type PulleyJoint struct {
	jointBase

	GroundAnchorA, GroundAnchorB geom.Vec2
	LocalAnchorA, LocalAnchorB   geom.Vec2
	Ratio                        float64

	constant float64

	impulse        float64
	uA, uB         geom.Vec2
	rA, rB         geom.Vec2
	mass           float64
}

// NewPulleyJoint links bodyA/bodyB through groundAnchorA/groundAnchorB at
// the given ratio; the current rope lengths become the held constant.
func NewPulleyJoint(bodyA, bodyB *Body, groundAnchorA, groundAnchorB, anchorA, anchorB geom.Vec2, ratio float64) *PulleyJoint {
	j := &PulleyJoint{
		jointBase:     jointBase{bodyA: bodyA, bodyB: bodyB, collideConnected: true},
		GroundAnchorA: groundAnchorA,
		GroundAnchorB: groundAnchorB,
		LocalAnchorA:  bodyA.T.ToLocal(anchorA),
		LocalAnchorB:  bodyB.T.ToLocal(anchorB),
		Ratio:         ratio,
	}
	lengthA := anchorA.Sub(groundAnchorA).Len()
	lengthB := anchorB.Sub(groundAnchorB).Len()
	j.constant = lengthA + ratio*lengthB
	linkJointEdges(j)
	return j
}

func (j *PulleyJoint) Type() JointType { return JointPulley }

func (j *PulleyJoint) InitVelocityConstraints(dt float64) {
	a, b := j.bodyA, j.bodyB
	j.rA = a.T.Rot.Rotate(j.LocalAnchorA.Sub(a.mass.Center))
	j.rB = b.T.Rot.Rotate(j.LocalAnchorB.Sub(b.mass.Center))

	worldA := a.T.ToWorld(a.mass.Center).Add(j.rA)
	worldB := b.T.ToWorld(b.mass.Center).Add(j.rB)

	j.uA = geom.SafeNormalize(worldA.Sub(j.GroundAnchorA))
	j.uB = geom.SafeNormalize(worldB.Sub(j.GroundAnchorB))

	crA := geom.Cross(j.rA, j.uA)
	crB := geom.Cross(j.rB, j.uB)

	invMassA := a.InvMass() + a.InvInertia()*crA*crA
	invMassB := b.InvMass() + b.InvInertia()*crB*crB

	invMass := invMassA + j.Ratio*j.Ratio*invMassB
	j.mass = 0
	if invMass > 0 {
		j.mass = 1.0 / invMass
	}

	pA := j.uA.Mul(-j.impulse)
	pB := j.uB.Mul(-j.Ratio * j.impulse)

	a.V = a.V.Add(pA.Mul(a.InvMass()))
	a.Omega += a.InvInertia() * geom.Cross(j.rA, pA)
	b.V = b.V.Add(pB.Mul(b.InvMass()))
	b.Omega += b.InvInertia() * geom.Cross(j.rB, pB)
}

func (j *PulleyJoint) SolveVelocity(dt float64) {
	a, b := j.bodyA, j.bodyB

	vpA := a.V.Add(geom.Vec2{-a.Omega * j.rA.Y(), a.Omega * j.rA.X()})
	vpB := b.V.Add(geom.Vec2{-b.Omega * j.rB.Y(), b.Omega * j.rB.X()})

	cdot := -j.uA.Dot(vpA) - j.Ratio*j.uB.Dot(vpB)
	impulse := -j.mass * cdot
	j.impulse += impulse

	pA := j.uA.Mul(-impulse)
	pB := j.uB.Mul(-j.Ratio * impulse)

	a.V = a.V.Add(pA.Mul(a.InvMass()))
	a.Omega += a.InvInertia() * geom.Cross(j.rA, pA)
	b.V = b.V.Add(pB.Mul(b.InvMass()))
	b.Omega += b.InvInertia() * geom.Cross(j.rB, pB)
}

func (j *PulleyJoint) SolvePosition() float64 {
	a, b := j.bodyA, j.bodyB
	rA := a.T.Rot.Rotate(j.LocalAnchorA.Sub(a.mass.Center))
	rB := b.T.Rot.Rotate(j.LocalAnchorB.Sub(b.mass.Center))

	worldA := a.T.ToWorld(a.mass.Center).Add(rA)
	worldB := b.T.ToWorld(b.mass.Center).Add(rB)

	uA := geom.SafeNormalize(worldA.Sub(j.GroundAnchorA))
	uB := geom.SafeNormalize(worldB.Sub(j.GroundAnchorB))

	lengthA := worldA.Sub(j.GroundAnchorA).Len()
	lengthB := worldB.Sub(j.GroundAnchorB).Len()
	c := j.constant - lengthA - j.Ratio*lengthB

	crA := geom.Cross(rA, uA)
	crB := geom.Cross(rB, uB)
	invMassA := a.InvMass() + a.InvInertia()*crA*crA
	invMassB := b.InvMass() + b.InvInertia()*crB*crB
	invMass := invMassA + j.Ratio*j.Ratio*invMassB
	mass := 0.0
	if invMass > 0 {
		mass = 1.0 / invMass
	}

	impulse := -mass * c
	pA := uA.Mul(-impulse)
	pB := uB.Mul(-j.Ratio * impulse)

	a.T.Position = a.T.Position.Add(pA.Mul(a.InvMass()))
	a.T.Rot = a.T.Rot.Integrate(a.InvInertia()*geom.Cross(rA, pA), 1)
	b.T.Position = b.T.Position.Add(pB.Mul(b.InvMass()))
	b.T.Rot = b.T.Rot.Integrate(b.InvInertia()*geom.Cross(rB, pB), 1)

	if c < 0 {
		return -c
	}
	return c
}
