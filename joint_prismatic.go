package feather2d

import (
	"math"

	"github.com/akmonengine/feather2d/geom"
)

// PrismaticJoint constrains two bodies to slide along a shared axis with no
// relative rotation, optionally driven by a motor or clamped by a
// translation limit. Grounded on ByteArena-box2d's
// DynamicsB2JointPrismatic.go, reduced from its 2x2 (perp, angle) coupled
// block plus separate 1D motor/limit axis to the same structure expressed
// in 2D scalars throughout instead of 3D vectors projected onto a plane.
type PrismaticJoint struct {
	jointBase

	LocalAnchorA, LocalAnchorB geom.Vec2
	LocalAxisA                 geom.Vec2 // unit axis, in bodyA's local frame
	ReferenceAngle              float64

	EnableMotor    bool
	MotorSpeed     float64
	MaxMotorForce  float64

	EnableLimit bool
	LowerTrans  float64
	UpperTrans  float64

	impulse      geom.Vec2 // (perpendicular, angular)
	motorImpulse float64
	lowerImpulse float64
	upperImpulse float64

	axis, perp     geom.Vec2
	s1, s2, a1, a2 float64
	k11, k12, k22  float64
	axialMass      float64
}

// NewPrismaticJoint constrains bodyA/bodyB to slide along worldAxis through
// worldAnchor.
func NewPrismaticJoint(bodyA, bodyB *Body, worldAnchor, worldAxis geom.Vec2) *PrismaticJoint {
	axis := geom.SafeNormalize(worldAxis)
	j := &PrismaticJoint{
		jointBase:      jointBase{bodyA: bodyA, bodyB: bodyB, collideConnected: false},
		LocalAnchorA:   bodyA.T.ToLocal(worldAnchor),
		LocalAnchorB:   bodyB.T.ToLocal(worldAnchor),
		LocalAxisA:     bodyA.T.ToLocalVector(axis),
		ReferenceAngle: bodyB.T.Rot.Angle() - bodyA.T.Rot.Angle(),
	}
	linkJointEdges(j)
	return j
}

func (j *PrismaticJoint) Type() JointType { return JointPrismatic }

// Translation returns the signed displacement along the joint axis.
func (j *PrismaticJoint) Translation() float64 {
	a, b := j.bodyA, j.bodyB
	d := b.T.ToWorld(j.LocalAnchorB).Sub(a.T.ToWorld(j.LocalAnchorA))
	axis := a.T.Rot.Rotate(j.LocalAxisA)
	return axis.Dot(d)
}

func (j *PrismaticJoint) InitVelocityConstraints(dt float64) {
	a, b := j.bodyA, j.bodyB

	rA := a.T.Rot.Rotate(j.LocalAnchorA.Sub(a.mass.Center))
	rB := b.T.Rot.Rotate(j.LocalAnchorB.Sub(b.mass.Center))
	d := b.T.ToWorld(b.mass.Center).Add(rB).Sub(a.T.ToWorld(a.mass.Center)).Sub(rA)

	j.axis = a.T.Rot.Rotate(j.LocalAxisA)
	j.perp = geom.Perp(j.axis)

	mA, mB := a.InvMass(), b.InvMass()
	iA, iB := a.InvInertia(), b.InvInertia()

	j.a1 = geom.Cross(d.Add(rA), j.perp)
	j.a2 = geom.Cross(rB, j.perp)
	j.k11 = mA + mB + iA*j.a1*j.a1 + iB*j.a2*j.a2
	j.k12 = iA*j.a1 + iB*j.a2
	j.k22 = iA + iB
	if j.k22 == 0 {
		j.k22 = 1
	}

	j.s1 = geom.Cross(d.Add(rA), j.axis)
	j.s2 = geom.Cross(rB, j.axis)
	invMassSum := mA + mB + iA*j.s1*j.s1 + iB*j.s2*j.s2
	j.axialMass = 0
	if invMassSum > 0 {
		j.axialMass = 1.0 / invMassSum
	}

	if !j.EnableMotor {
		j.motorImpulse = 0
	}
	if !j.EnableLimit {
		j.lowerImpulse = 0
		j.upperImpulse = 0
	}

	axialImpulse := j.motorImpulse + j.lowerImpulse - j.upperImpulse
	p := j.perp.Mul(j.impulse.X()).Add(j.axis.Mul(axialImpulse))
	la := j.impulse.X()*j.a1 + j.impulse.Y() + axialImpulse*j.s1
	lb := j.impulse.X()*j.a2 + j.impulse.Y() + axialImpulse*j.s2

	a.V = a.V.Sub(p.Mul(mA))
	a.Omega -= iA * la
	b.V = b.V.Add(p.Mul(mB))
	b.Omega += iB * lb
}

func (j *PrismaticJoint) SolveVelocity(dt float64) {
	a, b := j.bodyA, j.bodyB
	mA, mB := a.InvMass(), b.InvMass()
	iA, iB := a.InvInertia(), b.InvInertia()

	if j.EnableMotor {
		cdot := j.axis.Dot(b.V.Sub(a.V)) + j.s2*b.Omega - j.s1*a.Omega
		impulse := j.axialMass * (j.MotorSpeed - cdot)
		old := j.motorImpulse
		maxImpulse := j.MaxMotorForce * dt
		j.motorImpulse = clampf(old+impulse, -maxImpulse, maxImpulse)
		impulse = j.motorImpulse - old

		p := j.axis.Mul(impulse)
		a.V = a.V.Sub(p.Mul(mA))
		a.Omega -= iA * j.s1 * impulse
		b.V = b.V.Add(p.Mul(mB))
		b.Omega += iB * j.s2 * impulse
	}

	if j.EnableLimit {
		trans := j.Translation()

		{
			c := trans - j.LowerTrans
			cdot := j.axis.Dot(b.V.Sub(a.V)) + j.s2*b.Omega - j.s1*a.Omega
			bias := math.Min(c, 0) * 0.2 / math.Max(dt, 1e-9)
			newImpulse := math.Max(j.lowerImpulse+j.axialMass*(-cdot-bias), 0)
			delta := newImpulse - j.lowerImpulse
			j.lowerImpulse = newImpulse
			p := j.axis.Mul(delta)
			a.V = a.V.Sub(p.Mul(mA))
			a.Omega -= iA * j.s1 * delta
			b.V = b.V.Add(p.Mul(mB))
			b.Omega += iB * j.s2 * delta
		}

		{
			c := j.UpperTrans - trans
			cdot := j.axis.Dot(a.V.Sub(b.V)) + j.s1*a.Omega - j.s2*b.Omega
			bias := math.Min(c, 0) * 0.2 / math.Max(dt, 1e-9)
			newImpulse := math.Max(j.upperImpulse+j.axialMass*(-cdot-bias), 0)
			delta := newImpulse - j.upperImpulse
			j.upperImpulse = newImpulse
			p := j.axis.Mul(delta)
			a.V = a.V.Add(p.Mul(mA))
			a.Omega += iA * j.s1 * delta
			b.V = b.V.Sub(p.Mul(mB))
			b.Omega -= iB * j.s2 * delta
		}
	}

	cdot := geom.Vec2{
		j.perp.Dot(b.V.Sub(a.V)) + j.a2*b.Omega - j.a1*a.Omega,
		b.Omega - a.Omega,
	}
	impulse := solveGauss2x2(j.k11, j.k12, j.k22, cdot.Mul(-1))
	j.impulse = j.impulse.Add(impulse)

	p := j.perp.Mul(impulse.X())
	la := impulse.X()*j.a1 + impulse.Y()
	lb := impulse.X()*j.a2 + impulse.Y()

	a.V = a.V.Sub(p.Mul(mA))
	a.Omega -= iA * la
	b.V = b.V.Add(p.Mul(mB))
	b.Omega += iB * lb
}

func (j *PrismaticJoint) SolvePosition() float64 {
	a, b := j.bodyA, j.bodyB
	rA := a.T.Rot.Rotate(j.LocalAnchorA.Sub(a.mass.Center))
	rB := b.T.Rot.Rotate(j.LocalAnchorB.Sub(b.mass.Center))
	d := b.T.ToWorld(b.mass.Center).Add(rB).Sub(a.T.ToWorld(a.mass.Center)).Sub(rA)

	axis := a.T.Rot.Rotate(j.LocalAxisA)
	perp := geom.Perp(axis)
	s1 := geom.Cross(d.Add(rA), perp)
	s2 := geom.Cross(rB, perp)

	c1 := perp.Dot(d)
	c2 := b.T.Rot.Angle() - a.T.Rot.Angle() - j.ReferenceAngle

	mA, mB := a.InvMass(), b.InvMass()
	iA, iB := a.InvInertia(), b.InvInertia()

	k11 := mA + mB + iA*s1*s1 + iB*s2*s2
	k12 := iA*s1 + iB*s2
	k22 := iA + iB
	if k22 == 0 {
		k22 = 1
	}

	impulse := solveGauss2x2(k11, k12, k22, geom.Vec2{c1, c2}.Mul(-1))

	p := perp.Mul(impulse.X())
	la := impulse.X()*s1 + impulse.Y()
	lb := impulse.X()*s2 + impulse.Y()

	a.T.Position = a.T.Position.Sub(p.Mul(mA))
	a.T.Rot = a.T.Rot.Integrate(-iA*la, 1)
	b.T.Position = b.T.Position.Add(p.Mul(mB))
	b.T.Rot = b.T.Rot.Integrate(iB*lb, 1)

	return math.Hypot(c1, c2)
}
