package feather2d

import "github.com/akmonengine/feather2d/geom"

// DebugBody is a read-only snapshot of one body's render-relevant state for
// an embedder's debug draw pass.
type DebugBody struct {
	Handle  int
	Type    BodyType
	Asleep  bool
	Bullet  bool
	T       geom.Transform
	AABB    geom.AABB
	Shapes  []DebugShape
}

// DebugShape is one fixture's shape and its sensor/filter state.
type DebugShape struct {
	Shape    geom.AABB // the fixture's current world AABB; exact outline is
	                   // queried from Fixture.Shape directly by the caller
	IsSensor bool
}

// DebugContact is a read-only snapshot of one live contact, including its
// manifold points for drawing contact normals/penetration depth.
type DebugContact struct {
	FixtureA, FixtureB *Fixture
	Touching           bool
	IsSensor           bool
	Manifold           interface{} // manifold.Manifold, stored as interface{}
}

// DebugSnapshot is a read-only view of a world's current state, intended for
// an embedder's own render loop. The Bodies, Contacts and Shapes slices are
// built fresh on each call, but the Fixture pointers are the world's own and
// each contact's manifold shares its Points slice with the live contact.
// Listed in spec.md §6 as
// "a read-only snapshot function" with no further detail; shaped after the
// teacher's example/simpleScene CollisionDebugger, but as a single pull
// rather than that example's push-style callback interface, since spec.md
// asks for a snapshot, not an instrumentation hook.
type DebugSnapshot struct {
	Bodies   []DebugBody
	Contacts []DebugContact
}

// Snapshot captures the world's current bodies and live contacts for
// debug drawing.
func (w *World) Snapshot() DebugSnapshot {
	snap := DebugSnapshot{
		Bodies:   make([]DebugBody, 0, len(w.bodies)),
		Contacts: make([]DebugContact, 0, len(w.contact.contacts)),
	}

	for _, b := range w.bodies {
		db := DebugBody{
			Handle: b.Handle,
			Type:   b.Type,
			Asleep: b.IsAsleep(),
			Bullet: b.IsBullet(),
			T:      b.T,
			AABB:   b.worldAABB(),
		}
		for _, f := range b.Fixtures {
			db.Shapes = append(db.Shapes, DebugShape{Shape: f.AABB(), IsSensor: f.IsSensor})
		}
		snap.Bodies = append(snap.Bodies, db)
	}

	for _, c := range w.contact.contacts {
		snap.Contacts = append(snap.Contacts, DebugContact{
			FixtureA: c.FixtureA,
			FixtureB: c.FixtureB,
			Touching: c.touching,
			IsSensor: c.isSensor,
			Manifold: c.Manifold,
		})
	}

	return snap
}
