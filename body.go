package feather2d

import (
	"fmt"
	"math"

	"github.com/akmonengine/feather2d/geom"
	"github.com/akmonengine/feather2d/shape"
)

// BodyType distinguishes a dynamic body (finite mass, integrated every
// step) from a static one (infinite mass, never moved). Grounded on
// actor.BodyType (BodyTypeDynamic/BodyTypeStatic) — the teacher has no
// third "kinematic" kind and neither does spec.md §3 ("dynamic iff m is
// finite"), so feather2d keeps exactly these two.
type BodyType int

const (
	BodyDynamic BodyType = iota
	BodyStatic
)

// bodyState is a bitset of the transient flags spec.md §3/§4.6/§4.8
// track per body: auto-sleep eligibility, asleep, active (vs. out of
// bounds), currently assigned to an island this step, and bullet (CCD
// candidate).
type bodyState uint8

const (
	stateAutoSleep bodyState = 1 << iota
	stateAsleep
	stateActive
	stateOnIsland
	stateBullet
)

// ForceRecord is a one-shot force/torque applied for a bounded time window,
// as opposed to the permanent per-step accumulator. New relative to the
// teacher (whose accumulatedForce/accumulatedTorque are cleared every
// step); grounded on Box2D's one-shot ApplyForce/ApplyLinearImpulse plus
// dyn4j's time-scoped Force/Torque records — spec.md §9 lists "accumulator
// lists" as an Open Question this resolves by keeping both a permanent
// accumulator and a list of time-scoped entries.
type ForceRecord struct {
	Force    geom.Vec2
	Torque   float64
	Point    geom.Vec2 // world point of application, for Force (zero Torque contribution if Point == body center)
	Duration float64   // remaining seconds this record still applies; <=0 means "this step only"
}

// Body is a rigid body: one or more fixtures sharing a single transform,
// velocity and mass. Superset of actor.RigidBody, split into body+fixtures
// (teacher: one shape per body) and extended with the handle id and
// contact/joint edge lists ByteArena-box2d's B2Body carries.
type Body struct {
	Handle int

	Type BodyType

	T0 geom.Transform // transform at the start of the current step (for CCD sweeps)
	T  geom.Transform // current transform

	V     geom.Vec2 // linear velocity
	Omega float64   // angular velocity

	LinearDamping  float64
	AngularDamping float64
	GravityScale   float64

	Fixtures []*Fixture

	mass           shape.Mass
	rotationRadius float64

	force  geom.Vec2
	torque float64

	timedForces []ForceRecord

	state      bodyState
	sleepTimer float64

	contactEdges []*contactEdge
	jointEdges   []*jointEdge

	world *World

	UserData interface{}
}

// NewBody constructs a body of the given type at the given transform, with
// no fixtures yet (fixtures are attached via AddFixture, then RecomputeMass
// must run before the body participates in dynamics). Grounded on
// NewRigidBody, split so fixtures can be added incrementally.
func NewBody(bodyType BodyType, t geom.Transform) *Body {
	b := &Body{
		Type:         bodyType,
		T0:           t,
		T:            t,
		GravityScale: 1,
		state:        stateAutoSleep | stateActive,
	}
	if bodyType == BodyStatic {
		b.mass = shape.NewInfiniteMass(geom.Vec2{})
	}
	return b
}

// AddFixture attaches a fixture to the body and recomputes composite mass.
func (b *Body) AddFixture(f *Fixture) {
	f.body = b
	f.computeAABB(b.T)
	b.Fixtures = append(b.Fixtures, f)
	b.RecomputeMass()
}

// RecomputeMass recombines every fixture's mass via the parallel-axis
// composition in shape.Combine (spec.md §4.1), or assigns infinite mass
// for a static body. Grounded on NewRigidBody's ComputeMass/ComputeInertia
// call, generalized from one shape to N fixtures (new: the teacher never
// composes more than one shape).
func (b *Body) RecomputeMass() {
	if b.Type == BodyStatic {
		b.mass = shape.NewInfiniteMass(geom.Vec2{})
		b.rotationRadius = 0
		return
	}

	masses := make([]shape.Mass, 0, len(b.Fixtures))
	for _, f := range b.Fixtures {
		masses = append(masses, f.computeMass())
	}
	b.mass = shape.Combine(masses)

	var r float64
	for _, f := range b.Fixtures {
		d := f.Shape.FarthestDistance(b.mass.Center)
		if d > r {
			r = d
		}
	}
	b.rotationRadius = r
}

// Mass returns the body's composed mass descriptor.
func (b *Body) Mass() shape.Mass { return b.mass }

// InvMass/InvInertia expose the solver-facing reciprocal mass terms.
func (b *Body) InvMass() float64    { return b.mass.InvMass() }
func (b *Body) InvInertia() float64 { return b.mass.InvInertia() }

// IsAsleep/IsActive/IsBullet/SetBullet expose the body state bitset.
func (b *Body) IsAsleep() bool { return b.state&stateAsleep != 0 }
func (b *Body) IsActive() bool { return b.state&stateActive != 0 }
func (b *Body) IsBullet() bool { return b.state&stateBullet != 0 }

func (b *Body) SetBullet(bullet bool) {
	if bullet {
		b.state |= stateBullet
	} else {
		b.state &^= stateBullet
	}
}

// Reactivate explicitly reinstates a body deactivated by going out of
// bounds, per spec.md §4.9's state table ("inactive→active: explicit user
// reactivation" — re-entering the bounds AABB on its own never does this).
// A no-op if the body is already active or was never bounds-deactivated.
func (b *Body) Reactivate() {
	if b.IsActive() {
		return
	}
	b.state |= stateActive
	if b.world != nil {
		b.world.Events.emit(BodyEvent{EventType: EventBodyReentered, Body: b})
	}
}

// SetAutoSleepEnabled toggles whether the body is a candidate for the
// sleep timer at all (spec.md §4.6); disabling it forces the body awake.
func (b *Body) SetAutoSleepEnabled(enabled bool) {
	if enabled {
		b.state |= stateAutoSleep
	} else {
		b.state &^= stateAutoSleep
		b.Awake()
	}
}

// Awake clears the asleep flag and resets the sleep timer, matching
// RigidBody.Awake.
func (b *Body) Awake() {
	b.state &^= stateAsleep
	b.sleepTimer = 0
}

// sleep puts the body to sleep, zeroing velocities and accumulators,
// matching RigidBody.Sleep.
func (b *Body) sleep() {
	b.state |= stateAsleep
	b.sleepTimer = 0
	b.V = geom.Vec2{}
	b.Omega = 0
	b.clearForces()
}

// ApplyForce adds to the permanent per-step force accumulator (cleared
// every integrate pass), matching RigidBody.AddForce; waking the body.
func (b *Body) ApplyForce(force geom.Vec2) {
	if b.Type == BodyStatic {
		return
	}
	b.Awake()
	b.force = b.force.Add(force)
}

// ApplyTorque adds to the permanent per-step torque accumulator, matching
// RigidBody.AddTorque.
func (b *Body) ApplyTorque(torque float64) {
	if b.Type == BodyStatic {
		return
	}
	b.Awake()
	b.torque += torque
}

// ApplyLinearImpulse directly changes velocity by impulse/mass, the
// Box2D-style one-shot alternative to a time-scoped force (new relative to
// the teacher, whose only application primitive is the permanent
// accumulator).
func (b *Body) ApplyLinearImpulse(impulse, worldPoint geom.Vec2) {
	if b.Type == BodyStatic || b.mass.InvMass() == 0 {
		return
	}
	b.Awake()
	b.V = b.V.Add(impulse.Mul(b.mass.InvMass()))
	r := worldPoint.Sub(b.T.ToWorld(b.mass.Center))
	b.Omega += b.mass.InvInertia() * geom.Cross(r, impulse)
}

// ApplyTimedForce records a force/torque that applies for `duration`
// seconds (0 or negative meaning "this step only"), reapplied every
// integrate pass until it expires. Grounded on dyn4j's time-scoped
// Force/Torque records, resolving spec.md §9's accumulator-lists Open
// Question.
func (b *Body) ApplyTimedForce(force geom.Vec2, torque float64, point geom.Vec2, duration float64) {
	if b.Type == BodyStatic {
		return
	}
	b.Awake()
	b.timedForces = append(b.timedForces, ForceRecord{Force: force, Torque: torque, Point: point, Duration: duration})
}

func (b *Body) clearForces() {
	b.force = geom.Vec2{}
	b.torque = 0
	b.timedForces = b.timedForces[:0]
}

// integrateVelocity applies accumulated forces/torques and damping, per
// spec.md §2 step 1. Grounded on RigidBody.Integrate's linear/angular
// integration and exponential-damping shape, rewritten from a quaternion
// update to the 2D Rot.Integrate.
func (b *Body) integrateVelocity(dt float64, gravity geom.Vec2) {
	if b.Type == BodyStatic || b.IsAsleep() {
		return
	}

	invMass := b.mass.InvMass()
	invInertia := b.mass.InvInertia()

	totalForce := b.force
	totalTorque := b.torque
	for i := range b.timedForces {
		tf := &b.timedForces[i]
		totalForce = totalForce.Add(tf.Force)
		r := tf.Point.Sub(b.T.ToWorld(b.mass.Center))
		totalTorque += tf.Torque + geom.Cross(r, tf.Force)
	}

	if invMass > 0 {
		b.V = b.V.Add(gravity.Mul(b.GravityScale).Add(totalForce.Mul(invMass)).Mul(dt))
	}
	if invInertia > 0 {
		b.Omega += totalTorque * invInertia * dt
	}

	// Exponential damping per spec.md §2 step 1.
	b.V = b.V.Mul(1.0 / (1.0 + dt*b.LinearDamping))
	b.Omega *= 1.0 / (1.0 + dt*b.AngularDamping)

	b.expireTimedForces(dt)
	b.force = geom.Vec2{}
	b.torque = 0
}

func (b *Body) expireTimedForces(dt float64) {
	n := 0
	for _, tf := range b.timedForces {
		if tf.Duration <= 0 {
			continue // one-shot: already applied above, drop it
		}
		tf.Duration -= dt
		if tf.Duration > 0 {
			b.timedForces[n] = tf
			n++
		}
	}
	b.timedForces = b.timedForces[:n]
}

// integratePosition advances the transform by the current velocities, per
// spec.md §2 step 2. Grounded on RigidBody.Integrate's position update,
// using Rot.Integrate instead of the teacher's quaternion derivative.
func (b *Body) integratePosition(dt float64) {
	if b.Type == BodyStatic || b.IsAsleep() {
		return
	}
	b.T.Position = b.T.Position.Add(b.V.Mul(dt))
	b.T.Rot = b.T.Rot.Integrate(b.Omega, dt)
	b.recomputeFixtureAABBs()
}

func (b *Body) recomputeFixtureAABBs() {
	for _, f := range b.Fixtures {
		f.computeAABB(b.T)
	}
}

// worldAABB returns the union of every fixture's current AABB.
func (b *Body) worldAABB() geom.AABB {
	if len(b.Fixtures) == 0 {
		return geom.AABB{Min: b.T.Position, Max: b.T.Position}
	}
	box := b.Fixtures[0].AABB()
	for _, f := range b.Fixtures[1:] {
		box = geom.Union(box, f.AABB())
	}
	return box
}

// sweptAABB returns the union of the body's AABB at T0 and T, inflated by
// its rotation-disc radius, as spec.md §4.8's CCD pre-filter requires.
func (b *Body) sweptAABB() geom.AABB {
	prevT := b.T
	b.T = b.T0
	b.recomputeFixtureAABBs()
	box0 := b.worldAABB()
	b.T = prevT
	b.recomputeFixtureAABBs()
	box1 := b.worldAABB()
	return geom.Union(box0, box1).Inflate(b.rotationRadius)
}

// trySleep advances the sleep timer when the body is slow enough, matching
// RigidBody.TrySleep; actual island-wide sleep decisions are made by the
// solver (spec.md §4.6: "if EVERY dynamic body in the island" is slow).
func (b *Body) trySleep(dt, velThreshold, angThreshold, timeThreshold float64) bool {
	if b.state&stateAutoSleep == 0 {
		return false
	}
	if b.V.Len() < velThreshold && math.Abs(b.Omega) < angThreshold {
		b.sleepTimer += dt
		return b.sleepTimer >= timeThreshold
	}
	b.sleepTimer = 0
	return false
}

func (b *Body) validate() error {
	if b.Type == BodyDynamic && len(b.Fixtures) == 0 {
		return fmt.Errorf("feather2d: dynamic body %d has no fixtures to derive mass from", b.Handle)
	}
	if b.Type == BodyDynamic && b.mass.Mass <= 0 {
		return fmt.Errorf("feather2d: dynamic body %d has non-positive mass", b.Handle)
	}
	return nil
}
