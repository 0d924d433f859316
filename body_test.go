package feather2d

import (
	"math"
	"testing"

	"github.com/akmonengine/feather2d/geom"
	"github.com/akmonengine/feather2d/shape"
)

func newCircleFixture(t *testing.T, radius, density float64) *Fixture {
	t.Helper()
	c, err := shape.NewCircle(geom.Vec2{0, 0}, radius)
	if err != nil {
		t.Fatal(err)
	}
	return &Fixture{Shape: c, Density: density, Friction: 0.3, Restitution: 0, Filter: DefaultFilter()}
}

func TestNewBodyDefaults(t *testing.T) {
	b := NewBody(BodyDynamic, geom.Identity())
	if !b.IsActive() {
		t.Error("expected new body to start active")
	}
	if b.IsAsleep() {
		t.Error("expected new body to start awake")
	}
}

func TestAddFixtureRecomputesMass(t *testing.T) {
	b := NewBody(BodyDynamic, geom.Identity())
	b.AddFixture(newCircleFixture(t, 1, 1))
	if math.Abs(b.Mass().Mass-math.Pi) > 1e-9 {
		t.Errorf("mass = %v, want pi", b.Mass().Mass)
	}
	if b.InvMass() <= 0 {
		t.Error("expected positive InvMass for dynamic body with fixtures")
	}
}

func TestStaticBodyHasInfiniteMass(t *testing.T) {
	b := NewBody(BodyStatic, geom.Identity())
	b.AddFixture(newCircleFixture(t, 1, 1))
	if b.InvMass() != 0 || b.InvInertia() != 0 {
		t.Error("expected static body to have zero InvMass/InvInertia")
	}
}

func TestApplyForceWakesBody(t *testing.T) {
	b := NewBody(BodyDynamic, geom.Identity())
	b.AddFixture(newCircleFixture(t, 1, 1))
	b.sleep()
	if !b.IsAsleep() {
		t.Fatal("expected body to be asleep after sleep()")
	}
	b.ApplyForce(geom.Vec2{1, 0})
	if b.IsAsleep() {
		t.Error("expected ApplyForce to wake the body")
	}
}

func TestApplyForceNoOpOnStatic(t *testing.T) {
	b := NewBody(BodyStatic, geom.Identity())
	b.ApplyForce(geom.Vec2{1, 0})
	if (b.force != geom.Vec2{}) {
		t.Error("expected ApplyForce on a static body to be a no-op")
	}
}

func TestIntegrateVelocityAppliesGravity(t *testing.T) {
	b := NewBody(BodyDynamic, geom.Identity())
	b.AddFixture(newCircleFixture(t, 1, 1))
	gravity := geom.Vec2{0, -10}
	b.integrateVelocity(1.0/60.0, gravity)
	if b.V.Y() >= 0 {
		t.Errorf("expected downward velocity after gravity integration, got %v", b.V)
	}
}

func TestIntegrateVelocitySkipsAsleepBody(t *testing.T) {
	b := NewBody(BodyDynamic, geom.Identity())
	b.AddFixture(newCircleFixture(t, 1, 1))
	b.sleep()
	b.integrateVelocity(1.0/60.0, geom.Vec2{0, -10})
	if (b.V != geom.Vec2{}) {
		t.Error("expected asleep body's velocity to remain zero")
	}
}

func TestApplyLinearImpulseChangesVelocity(t *testing.T) {
	b := NewBody(BodyDynamic, geom.Identity())
	b.AddFixture(newCircleFixture(t, 1, 1))
	b.ApplyLinearImpulse(geom.Vec2{1, 0}, b.T.Position)
	if b.V.X() <= 0 {
		t.Errorf("expected positive x velocity after impulse, got %v", b.V)
	}
}

func TestIntegratePositionMovesBody(t *testing.T) {
	b := NewBody(BodyDynamic, geom.Identity())
	b.AddFixture(newCircleFixture(t, 1, 1))
	b.V = geom.Vec2{1, 0}
	b.integratePosition(1.0)
	if math.Abs(b.T.Position.X()-1) > 1e-9 {
		t.Errorf("expected body to move to x=1, got %v", b.T.Position)
	}
}

func TestTrySleepAccumulatesTimer(t *testing.T) {
	b := NewBody(BodyDynamic, geom.Identity())
	b.AddFixture(newCircleFixture(t, 1, 1))
	if b.trySleep(0.5, 0.05, 0.05, 1.0) {
		t.Error("expected trySleep not yet to fire before time threshold elapses")
	}
	if !b.trySleep(0.6, 0.05, 0.05, 1.0) {
		t.Error("expected trySleep to fire once accumulated time crosses the threshold")
	}
}

func TestTrySleepResetsOnMotion(t *testing.T) {
	b := NewBody(BodyDynamic, geom.Identity())
	b.AddFixture(newCircleFixture(t, 1, 1))
	b.trySleep(0.9, 0.05, 0.05, 1.0)
	b.V = geom.Vec2{5, 0}
	if b.trySleep(0.1, 0.05, 0.05, 1.0) {
		t.Error("expected fast-moving body not to accumulate sleep timer")
	}
	if b.sleepTimer != 0 {
		t.Errorf("expected sleep timer reset, got %v", b.sleepTimer)
	}
}

func TestValidateRejectsFixturelessDynamicBody(t *testing.T) {
	b := NewBody(BodyDynamic, geom.Identity())
	if err := b.validate(); err == nil {
		t.Error("expected validate() to reject a dynamic body with no fixtures")
	}
}

func TestWorldAABBUnionsFixtures(t *testing.T) {
	b := NewBody(BodyDynamic, geom.Identity())
	b.AddFixture(newCircleFixture(t, 1, 1))
	box := b.worldAABB()
	if !geom.NearlyEqual(box.Min, geom.Vec2{-1, -1}, 1e-9) {
		t.Errorf("worldAABB.Min = %v, want (-1,-1)", box.Min)
	}
}
