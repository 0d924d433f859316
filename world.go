package feather2d

import (
	"fmt"

	"github.com/akmonengine/feather2d/broadphase"
	"github.com/akmonengine/feather2d/geom"
)

// World owns every body, joint and the shared tuning/bounds/event state,
// and drives the fixed-step simulation pipeline. Grounded on world.go's
// World struct (Bodies/Gravity/SpatialGrid/Events), extended with the
// bounds, settings, contact manager, CCD pass and accumulator the teacher
// omits (it has none of island solving, warm-starting, CCD or bounds).
type World struct {
	Settings Settings
	Bounds   Bounds
	Events   Events

	bodies []*Body
	joints []Joint

	grid    *broadphase.SpatialGrid
	contact *ContactManager

	nextBodyHandle    int
	nextFixtureHandle int
	nextJointHandle   int

	accumulator float64
	stepCount   uint64
}

// NewWorld constructs a world with the given settings (DefaultSettings() is
// a reasonable starting point).
func NewWorld(settings Settings) *World {
	w := &World{
		Settings: settings,
		Events:   NewEvents(),
		grid:     broadphase.NewSpatialGrid(4, 1024),
	}
	w.contact = newContactManager(&w.Events)
	return w
}

// AddBody adds a body to the world and assigns it a stable handle,
// matching World.AddBody; also assigns handles to its fixtures.
func (w *World) AddBody(b *Body) {
	b.Handle = w.nextBodyHandle
	w.nextBodyHandle++
	b.world = w
	for _, f := range b.Fixtures {
		if f.Handle == 0 {
			f.Handle = w.nextFixtureHandle
			w.nextFixtureHandle++
		}
	}
	w.bodies = append(w.bodies, b)
}

// RemoveBody removes a body, tearing down its contacts and joints first and
// forgetting any event state keyed on its handle, matching
// World.RemoveBody's cleanup.
func (w *World) RemoveBody(b *Body) {
	for _, edge := range append([]*contactEdge{}, b.contactEdges...) {
		w.contact.destroy(makePairKey(edge.contact.FixtureA, edge.contact.FixtureB), edge.contact)
	}
	for _, edge := range append([]*jointEdge{}, b.jointEdges...) {
		w.RemoveJoint(edge.joint)
	}

	k := -1
	for i, body := range w.bodies {
		if body == b {
			k = i
			break
		}
	}
	if k != -1 {
		w.bodies = append(w.bodies[:k], w.bodies[k+1:]...)
	}

	w.Events.forgetBody(b.Handle)
	w.Events.emit(BodyEvent{EventType: EventBodyDestroyed, Body: b})
}

// AddJoint adds a joint and assigns it a stable handle.
func (w *World) AddJoint(j Joint) {
	if base, ok := j.(interface{ setHandle(int) }); ok {
		base.setHandle(w.nextJointHandle)
	}
	w.nextJointHandle++
	w.joints = append(w.joints, j)
}

// RemoveJoint detaches a joint from both its bodies and drops it from the
// world.
func (w *World) RemoveJoint(j Joint) {
	unlinkJointEdges(j)
	k := -1
	for i, joint := range w.joints {
		if joint == j {
			k = i
			break
		}
	}
	if k != -1 {
		w.joints = append(w.joints[:k], w.joints[k+1:]...)
	}
	w.Events.emit(JointEvent{EventType: EventJointDestroyed, Joint: j})
}

// SetGravity overrides the world's gravity vector.
func (w *World) SetGravity(g geom.Vec2) { w.Settings.Gravity = g }

// SetBounds enables world boundary clipping.
func (w *World) SetBounds(bounds Bounds) { w.Bounds = bounds }

// Bodies returns the world's current body list; callers must not retain it
// across a Step call that adds/removes bodies.
func (w *World) Bodies() []*Body { return w.bodies }

// Update drains a fixed-step accumulator across elapsed wall-clock seconds,
// matching spec.md §6's "accumulator-driven fixed step", capped at
// Settings.MaxSubSteps per call to avoid a spiral of death on a long stall.
func (w *World) Update(elapsed float64) error {
	w.accumulator += elapsed
	steps := 0
	for w.accumulator >= w.Settings.FixedTimestep {
		if err := w.Step(w.Settings.FixedTimestep); err != nil {
			return err
		}
		w.accumulator -= w.Settings.FixedTimestep
		steps++
		if steps >= w.Settings.MaxSubSteps {
			break
		}
	}
	return nil
}

// Step advances the simulation by exactly dt, running the full pipeline:
// validate -> integrate velocities -> broad phase -> narrow phase -> islands
// -> solve velocities -> integrate positions -> solve positions -> CCD ->
// bounds -> sleep. Grounded on world.go's Step substep shape
// (integrate/detect/solvePosition/update/solveVelocity/trySleep),
// reordered to put velocity-solve before position-integration (sequential
// impulse, unlike XPBD, must solve velocity on the pre-integration pose)
// and with islands/CCD/bounds inserted per spec.md §2's exact pipeline.
func (w *World) Step(dt float64) error {
	w.Events.emit(StepEvent{EventType: EventStepPre, Dt: dt})

	for _, b := range w.bodies {
		if err := b.validate(); err != nil {
			return fmt.Errorf("feather2d: step aborted: %w", err)
		}
	}

	for _, b := range w.bodies {
		b.T0 = b.T
		b.integrateVelocity(dt, w.Settings.Gravity)
	}

	w.broadAndNarrowPhase(dt)

	islands := buildIslands(w.bodies)
	for _, isl := range islands {
		solveIsland(isl, w.Settings, dt, &w.Events)
	}
	for _, b := range w.bodies {
		if b.Type != BodyDynamic || b.IsAsleep() {
			continue
		}
		if b.state&stateOnIsland == 0 {
			b.integratePosition(dt)
		}
	}

	if w.Settings.CCDEnabled {
		solveCCD(w)
	}

	updateBoundsState(w)
	updateSleep(islands, w.Settings, dt)

	w.Events.processSleepEvents(w.bodies)
	w.Events.emit(StepEvent{EventType: EventStepPost, Dt: dt})
	w.Events.flush()

	w.stepCount++
	return nil
}

// broadAndNarrowPhase runs the spatial-hash broad phase over every
// fixture's current AABB, then hands surviving pairs to the contact
// manager for narrow-phase collision and contact persistence. Emits the
// pipeline-wide EventCollisionPreBroad/EventCollisionPreNarrow hooks spec.md
// §6 lists as mandatory registration points; the per-pair
// EventCollisionPreManifold/EventCollisionPostManifold hooks are emitted
// inside ContactManager.collide, where the manifold is actually generated.
func (w *World) broadAndNarrowPhase(dt float64) {
	w.Events.emit(StepEvent{EventType: EventCollisionPreBroad, Dt: dt})

	w.grid.Clear()

	var entries []broadphase.Entry
	fixtureByIndex := make(map[int]*Fixture)
	idx := 0
	for _, b := range w.bodies {
		for _, f := range b.Fixtures {
			entries = append(entries, broadphase.Entry{
				Index:  idx,
				AABB:   f.AABB(),
				Static: b.Type == BodyStatic,
				Asleep: b.IsAsleep(),
			})
			fixtureByIndex[idx] = f
			w.grid.Insert(idx, f.AABB())
			idx++
		}
	}
	w.grid.SortCells()

	pairs := w.grid.Detect(entries)
	fixturePairs := make([]fixturePair, 0, len(pairs))
	for _, p := range pairs {
		fixturePairs = append(fixturePairs, fixturePair{a: fixtureByIndex[p.A], b: fixtureByIndex[p.B]})
	}

	w.Events.emit(StepEvent{EventType: EventCollisionPreNarrow, Dt: dt})
	w.contact.Update(fixturePairs)
}
