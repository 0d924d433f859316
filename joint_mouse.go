package feather2d

import (
	"math"

	"github.com/akmonengine/feather2d/geom"
)

// MouseJoint drags a single point on bodyB toward a world-space target,
// soft by construction (stiffness/damping), with no reaction on bodyA
// (conventionally a static "ground" body). Grounded on ByteArena-box2d's
// DynamicsB2JointMouse.go, keeping its gamma/beta soft-constraint
// coefficients and dropping the maxForce direction-vector clamp's 3D
// framing for a plain 2D vector length clamp.
type MouseJoint struct {
	jointBase

	Target       geom.Vec2
	MaxForce     float64
	Stiffness    float64
	Damping      float64
	localAnchorB geom.Vec2

	impulse geom.Vec2
	rB      geom.Vec2
	mass    geom.Vec2 // diagonal effective mass (k11,k22); off-diagonal kept separately
	k12     float64
	gamma   float64
	beta    float64

	c0 geom.Vec2
}

// NewMouseJoint drags bodyB toward target; bodyA is typically the world's
// fixed ground body and never moves.
func NewMouseJoint(bodyA, bodyB *Body, target geom.Vec2) *MouseJoint {
	j := &MouseJoint{
		jointBase:    jointBase{bodyA: bodyA, bodyB: bodyB, collideConnected: true},
		Target:       target,
		MaxForce:     1000,
		Stiffness:    50,
		Damping:      0.7,
		localAnchorB: bodyB.T.ToLocal(target),
	}
	linkJointEdges(j)
	return j
}

func (j *MouseJoint) Type() JointType { return JointMouse }

func (j *MouseJoint) InitVelocityConstraints(dt float64) {
	b := j.bodyB
	j.rB = b.T.Rot.Rotate(j.localAnchorB.Sub(b.mass.Center))

	mB := b.InvMass()
	iB := b.InvInertia()

	k11 := mB + iB*j.rB.Y()*j.rB.Y()
	k12 := -iB * j.rB.X() * j.rB.Y()
	k22 := mB + iB*j.rB.X()*j.rB.X()

	omega := math.Sqrt(j.Stiffness)
	d := 2 * j.Damping * omega
	k := j.Stiffness

	j.gamma = dt * (d + dt*k)
	if j.gamma != 0 {
		j.gamma = 1.0 / j.gamma
	}
	j.beta = dt * k * j.gamma

	j.mass = geom.Vec2{k11 + j.gamma, k22 + j.gamma}
	j.k12 = k12

	worldB := b.T.ToWorld(b.mass.Center).Add(j.rB)
	j.c0 = worldB.Sub(j.Target)

	b.V = b.V.Add(j.impulse.Mul(mB))
	b.Omega += iB * geom.Cross(j.rB, j.impulse)
}

func (j *MouseJoint) SolveVelocity(dt float64) {
	b := j.bodyB
	mB := b.InvMass()
	iB := b.InvInertia()

	vB := b.V.Add(geom.Vec2{-b.Omega * j.rB.Y(), b.Omega * j.rB.X()})
	cdot := vB.Add(j.c0.Mul(j.beta)).Add(j.impulse.Mul(j.gamma))

	rhs := cdot.Mul(-1)
	impulse := solveGauss2x2(j.mass.X(), j.k12, j.mass.Y(), rhs)

	oldImpulse := j.impulse
	j.impulse = j.impulse.Add(impulse)
	maxImpulse := j.MaxForce * dt
	if j.impulse.Len() > maxImpulse {
		j.impulse = geom.SafeNormalize(j.impulse).Mul(maxImpulse)
	}
	impulse = j.impulse.Sub(oldImpulse)

	b.V = b.V.Add(impulse.Mul(mB))
	b.Omega += iB * geom.Cross(j.rB, impulse)
}

// SolvePosition is a no-op: mouse joints are fully soft, velocity-only.
func (j *MouseJoint) SolvePosition() float64 { return 0 }
