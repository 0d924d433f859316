package feather2d

import "github.com/akmonengine/feather2d/geom"

// Bounds is an optional world boundary: bodies whose AABB leaves it are
// marked inactive until Body.Reactivate is called, per spec.md §4.9;
// reentering the boundary does not reactivate them. An inactive body no
// longer seeds an island, but it is still integrated and still takes part
// in broad and narrow phase. A zero-value Bounds (Enabled == false) never
// deactivates anything.
type Bounds struct {
	Enabled bool
	AABB    geom.AABB
}

// IsOutside reports whether box lies entirely outside the bounds.
func (bd Bounds) IsOutside(box geom.AABB) bool {
	if !bd.Enabled {
		return false
	}
	return !bd.AABB.Overlaps(box)
}

// updateBoundsState deactivates bodies whose AABB has left the world
// bounds, emitting EventBodyOutOfBounds. Grounded on spec.md §4.9's
// active/inactive state machine; new relative to the teacher, which has no
// world bounds concept. Per §4.9's state table, inactive→active is
// "explicit user reactivation" only — this pass never reactivates a body
// on its own, even once its AABB overlaps the bounds again; callers must
// call Body.Reactivate.
func updateBoundsState(world *World) {
	if !world.Bounds.Enabled {
		return
	}
	for _, b := range world.bodies {
		if b.Type == BodyStatic {
			continue
		}
		if !b.IsActive() {
			continue
		}
		if world.Bounds.IsOutside(b.worldAABB()) {
			b.state &^= stateActive
			world.Events.emit(BodyEvent{EventType: EventBodyOutOfBounds, Body: b})
		}
	}
}
