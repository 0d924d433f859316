package feather2d

import (
	"math"

	"github.com/akmonengine/feather2d/geom"
)

// DistanceJoint holds two anchor points a fixed distance apart, optionally
// soft (spring-damper) rather than rigid. Grounded on
// ByteArena-box2d's DynamicsB2JointDistance.go, keeping its soft-constraint
// gamma/bias formulation exactly, reduced to 2D scalar cross products.
type DistanceJoint struct {
	jointBase

	LocalAnchorA, LocalAnchorB geom.Vec2
	Length                     float64

	// Stiffness/Damping > 0 make the joint a spring instead of a rigid rod;
	// Stiffness == 0 means rigid.
	Stiffness float64
	Damping   float64

	impulse float64
	u, rA, rB geom.Vec2
	mass      float64
	gamma     float64
	bias      float64
}

// NewDistanceJoint pins bodyA/bodyB at their current separation.
func NewDistanceJoint(bodyA, bodyB *Body, worldAnchorA, worldAnchorB geom.Vec2) *DistanceJoint {
	j := &DistanceJoint{
		jointBase:    jointBase{bodyA: bodyA, bodyB: bodyB, collideConnected: false},
		LocalAnchorA: bodyA.T.ToLocal(worldAnchorA),
		LocalAnchorB: bodyB.T.ToLocal(worldAnchorB),
		Length:       worldAnchorB.Sub(worldAnchorA).Len(),
	}
	linkJointEdges(j)
	return j
}

func (j *DistanceJoint) Type() JointType { return JointDistance }

func (j *DistanceJoint) InitVelocityConstraints(dt float64) {
	a, b := j.bodyA, j.bodyB
	j.rA = a.T.Rot.Rotate(j.LocalAnchorA.Sub(a.mass.Center))
	j.rB = b.T.Rot.Rotate(j.LocalAnchorB.Sub(b.mass.Center))

	worldA := a.T.ToWorld(a.mass.Center).Add(j.rA)
	worldB := b.T.ToWorld(b.mass.Center).Add(j.rB)
	d := worldB.Sub(worldA)

	length := d.Len()
	j.u = geom.SafeNormalize(d)

	crA := geom.Cross(j.rA, j.u)
	crB := geom.Cross(j.rB, j.u)
	invMass := a.InvMass() + a.InvInertia()*crA*crA + b.InvMass() + b.InvInertia()*crB*crB

	j.mass = 0
	if invMass > 0 {
		j.mass = 1.0 / invMass
	}

	if j.Stiffness > 0 {
		c := length - j.Length
		effectiveMass := j.mass
		omega := math.Sqrt(j.Stiffness / effectiveMass)
		d2 := 2 * effectiveMass * j.Damping * omega
		k := j.mass * omega * omega
		j.gamma = dt * (d2 + dt*k)
		if j.gamma != 0 {
			j.gamma = 1.0 / j.gamma
		}
		j.bias = c * dt * k * j.gamma
		invMass += j.gamma
		j.mass = 0
		if invMass > 0 {
			j.mass = 1.0 / invMass
		}
	} else {
		j.gamma = 0
		j.bias = 0
	}

	p := j.u.Mul(j.impulse)
	a.V = a.V.Sub(p.Mul(a.InvMass()))
	a.Omega -= a.InvInertia() * crA * j.impulse
	b.V = b.V.Add(p.Mul(b.InvMass()))
	b.Omega += b.InvInertia() * crB * j.impulse
}

func (j *DistanceJoint) SolveVelocity(dt float64) {
	a, b := j.bodyA, j.bodyB

	vpA := a.V.Add(geom.Vec2{-a.Omega * j.rA.Y(), a.Omega * j.rA.X()})
	vpB := b.V.Add(geom.Vec2{-b.Omega * j.rB.Y(), b.Omega * j.rB.X()})
	cdot := j.u.Dot(vpB.Sub(vpA))

	impulse := -j.mass * (cdot + j.bias + j.gamma*j.impulse)
	j.impulse += impulse

	p := j.u.Mul(impulse)
	a.V = a.V.Sub(p.Mul(a.InvMass()))
	a.Omega -= a.InvInertia() * geom.Cross(j.rA, p)
	b.V = b.V.Add(p.Mul(b.InvMass()))
	b.Omega += b.InvInertia() * geom.Cross(j.rB, p)
}

func (j *DistanceJoint) SolvePosition() float64 {
	if j.Stiffness > 0 {
		return 0 // soft joints are velocity-only, like a spring force
	}

	a, b := j.bodyA, j.bodyB
	rA := a.T.Rot.Rotate(j.LocalAnchorA.Sub(a.mass.Center))
	rB := b.T.Rot.Rotate(j.LocalAnchorB.Sub(b.mass.Center))
	d := b.T.ToWorld(b.mass.Center).Add(rB).Sub(a.T.ToWorld(a.mass.Center)).Sub(rA)

	length := d.Len()
	u := geom.SafeNormalize(d)
	c := length - j.Length

	crA := geom.Cross(rA, u)
	crB := geom.Cross(rB, u)
	invMass := a.InvMass() + a.InvInertia()*crA*crA + b.InvMass() + b.InvInertia()*crB*crB
	mass := 0.0
	if invMass > 0 {
		mass = 1.0 / invMass
	}

	impulse := -mass * c
	p := u.Mul(impulse)

	a.T.Position = a.T.Position.Sub(p.Mul(a.InvMass()))
	a.T.Rot = a.T.Rot.Integrate(-a.InvInertia()*crA*impulse, 1)
	b.T.Position = b.T.Position.Add(p.Mul(b.InvMass()))
	b.T.Rot = b.T.Rot.Integrate(b.InvInertia()*crB*impulse, 1)

	return math.Abs(c)
}
