package feather2d

import "github.com/akmonengine/feather2d/geom"

// JointType tags a joint's concrete kind, mirroring Box2D's B2JointType enum
// shape (ByteArena-box2d's DynamicsB2Joint.go), narrowed to the eight kinds
// feather2d implements.
type JointType int

const (
	JointRevolute JointType = iota
	JointPrismatic
	JointDistance
	JointWeld
	JointPulley
	JointMouse
	JointAngle
	JointFriction
)

// jointEdge links a Body to one of its joints, the joint-graph counterpart
// of contactEdge. Grounded on ByteArena-box2d's B2JointEdge, rewritten from
// an intrusive doubly-linked list node to a plain slice entry.
type jointEdge struct {
	other *Body
	joint Joint
}

// Joint is the capability set every joint constraint implements. Interface
// name/shape grounded on the teacher's constraint.Constraint
// (SolvePosition/SolveVelocity), extended with an init phase: unlike the
// teacher's XPBD solver, which recomputes everything from the current
// position every substep, feather2d's sequential-impulse solver needs a
// per-step effective-mass precompute before any velocity iteration runs.
type Joint interface {
	Type() JointType

	BodyA() *Body
	BodyB() *Body

	// CollideConnected reports whether the two connected bodies should
	// still generate contacts between each other.
	CollideConnected() bool

	// InitVelocityConstraints precomputes effective masses and anchors in
	// world space for the current step, and warm-starts by reapplying the
	// last step's accumulated impulse.
	InitVelocityConstraints(dt float64)

	// SolveVelocity runs one sequential-impulse iteration.
	SolveVelocity(dt float64)

	// SolvePosition runs one position-correction iteration, returning the
	// positional error measured before that correction (used by the solver
	// to decide whether further iterations are worthwhile).
	SolvePosition() float64
}

// jointBase factors the fields/behavior every concrete joint shares: the
// two connected bodies, the collide-connected flag, and the handle linking
// it lives at in its bodies' jointEdges. Grounded on B2Joint's embedded
// base-struct pattern (DynamicsB2Joint.go), flattened from Go's lack of
// struct inheritance into composition.
type jointBase struct {
	handle           int
	bodyA, bodyB     *Body
	collideConnected bool
	userData         interface{}
}

func (j *jointBase) BodyA() *Body           { return j.bodyA }
func (j *jointBase) BodyB() *Body           { return j.bodyB }
func (j *jointBase) CollideConnected() bool { return j.collideConnected }
func (j *jointBase) setHandle(h int)        { j.handle = h }

func clampf(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// solveGauss2x2 solves a symmetric 2x2 linear system [[a,b],[b,d]]x = rhs,
// the scalar-2D replacement for Box2D's B2Mat22.Solve used throughout the
// joint files (revolute/weld/mouse effective-mass solves).
func solveGauss2x2(a, b, d float64, rhs geom.Vec2) geom.Vec2 {
	det := a*d - b*b
	if det != 0 {
		det = 1.0 / det
	}
	return geom.Vec2{
		det * (d*rhs.X() - b*rhs.Y()),
		det * (a*rhs.Y() - b*rhs.X()),
	}
}

func linkJointEdges(j Joint) {
	a, b := j.BodyA(), j.BodyB()
	a.jointEdges = append(a.jointEdges, &jointEdge{other: b, joint: j})
	b.jointEdges = append(b.jointEdges, &jointEdge{other: a, joint: j})
}

func unlinkJointEdges(j Joint) {
	a, b := j.BodyA(), j.BodyB()
	a.jointEdges = removeJointEdge(a.jointEdges, j)
	b.jointEdges = removeJointEdge(b.jointEdges, j)
}

func removeJointEdge(edges []*jointEdge, j Joint) []*jointEdge {
	for i, e := range edges {
		if e.joint == j {
			return append(edges[:i], edges[i+1:]...)
		}
	}
	return edges
}
