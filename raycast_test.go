package feather2d

import (
	"math"
	"testing"

	"github.com/akmonengine/feather2d/geom"
)

func TestRaycastFixtureHitsCircle(t *testing.T) {
	b := newDynamicCircleBody(t, geom.Vec2{5, 0}, 1, 1)

	tHit, hit := raycastFixture(geom.Vec2{0, 0}, geom.Vec2{1, 0}, 20, b.Fixtures[0])
	if !hit {
		t.Fatal("expected raycastFixture to hit a circle directly ahead")
	}
	if got := tHit * 20; math.Abs(got-4) > 0.05 {
		t.Errorf("expected the hit distance to land near 4 (circle surface), got %v", got)
	}
}

func TestRaycastFixtureMissesOffAxis(t *testing.T) {
	b := newDynamicCircleBody(t, geom.Vec2{5, 50}, 1, 1)

	_, hit := raycastFixture(geom.Vec2{0, 0}, geom.Vec2{1, 0}, 20, b.Fixtures[0])
	if hit {
		t.Error("expected raycastFixture to miss a circle far off the ray's axis")
	}
}

func TestRaycastZeroDirectionMisses(t *testing.T) {
	w := NewWorld(DefaultSettings())
	addDynamicCircle(t, w, geom.Vec2{5, 0}, 1)

	_, ok := w.Raycast(geom.Vec2{0, 0}, geom.Vec2{0, 0})
	if ok {
		t.Error("expected a zero-length ray to never report a hit")
	}
}

func TestRaycastNormalPointsAwayFromCenter(t *testing.T) {
	w := NewWorld(DefaultSettings())
	addDynamicCircle(t, w, geom.Vec2{5, 0}, 1)

	hit, ok := w.Raycast(geom.Vec2{0, 0}, geom.Vec2{20, 0})
	if !ok {
		t.Fatal("expected a hit")
	}
	if hit.Normal.X() >= 0 {
		t.Errorf("expected the hit normal to point back toward the ray origin side, got %v", hit.Normal)
	}
}

func TestRaycastSelectsNearestAmongOverlapping(t *testing.T) {
	w := NewWorld(DefaultSettings())
	addDynamicCircle(t, w, geom.Vec2{5, 0}, 1)
	far := addDynamicCircle(t, w, geom.Vec2{8, 0}, 1)

	hit, ok := w.Raycast(geom.Vec2{0, 0}, geom.Vec2{20, 0})
	if !ok {
		t.Fatal("expected a hit")
	}
	if hit.Fixture == far.Fixtures[0] {
		t.Error("expected the raycast to report the nearer fixture, not the farther one")
	}
}
