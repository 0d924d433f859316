package feather2d

import (
	"math"
	"testing"

	"github.com/akmonengine/feather2d/geom"
	"github.com/akmonengine/feather2d/shape"
)

func addGroundBox(t *testing.T, w *World, center geom.Vec2, halfWidth, halfHeight float64) *Body {
	t.Helper()
	poly, err := shape.NewRectangle(halfWidth*2, halfHeight*2)
	if err != nil {
		t.Fatal(err)
	}
	ground := NewBody(BodyStatic, geom.Transform{Position: center, Rot: geom.IdentRot()})
	ground.AddFixture(&Fixture{Shape: poly, Density: 1, Friction: 0.5, Filter: DefaultFilter()})
	w.AddBody(ground)
	return ground
}

func addDynamicCircle(t *testing.T, w *World, pos geom.Vec2, radius float64) *Body {
	t.Helper()
	b := NewBody(BodyDynamic, geom.Transform{Position: pos, Rot: geom.IdentRot()})
	b.AddFixture(newCircleFixture(t, radius, 1))
	w.AddBody(b)
	return b
}

func TestWorldAddRemoveBody(t *testing.T) {
	w := NewWorld(DefaultSettings())
	b := addDynamicCircle(t, w, geom.Vec2{0, 0}, 1)
	if len(w.Bodies()) != 1 {
		t.Fatalf("expected 1 body, got %d", len(w.Bodies()))
	}
	if b.Handle != 0 {
		t.Errorf("expected first body handle 0, got %d", b.Handle)
	}

	w.RemoveBody(b)
	if len(w.Bodies()) != 0 {
		t.Errorf("expected 0 bodies after removal, got %d", len(w.Bodies()))
	}
}

func TestWorldStepEmitsPrePostEvents(t *testing.T) {
	w := NewWorld(DefaultSettings())
	capturePre := &eventCapture{}
	capturePost := &eventCapture{}
	w.Events.Subscribe(EventStepPre, capturePre.capture)
	w.Events.Subscribe(EventStepPost, capturePost.capture)

	if err := w.Step(1.0 / 60.0); err != nil {
		t.Fatal(err)
	}
	if capturePre.count() != 1 || capturePost.count() != 1 {
		t.Errorf("expected 1 pre and 1 post step event, got %d and %d", capturePre.count(), capturePost.count())
	}
}

func TestWorldStepRejectsFixturelessDynamicBody(t *testing.T) {
	w := NewWorld(DefaultSettings())
	w.AddBody(NewBody(BodyDynamic, geom.Identity()))
	if err := w.Step(1.0 / 60.0); err == nil {
		t.Error("expected Step to reject a dynamic body with no fixtures")
	}
}

func TestWorldGravityMovesBodyDown(t *testing.T) {
	w := NewWorld(DefaultSettings())
	b := addDynamicCircle(t, w, geom.Vec2{0, 10}, 1)

	startY := b.T.Position.Y()
	for i := 0; i < 30; i++ {
		if err := w.Step(1.0 / 60.0); err != nil {
			t.Fatal(err)
		}
	}
	if b.T.Position.Y() >= startY {
		t.Errorf("expected body to fall under gravity, start %v now %v", startY, b.T.Position.Y())
	}
}

func TestWorldBodyRestsOnGroundWithoutPenetration(t *testing.T) {
	w := NewWorld(DefaultSettings())
	addGroundBox(t, w, geom.Vec2{0, -5}, 50, 5)
	b := addDynamicCircle(t, w, geom.Vec2{0, 2}, 1)

	for i := 0; i < 300; i++ {
		if err := w.Step(1.0 / 60.0); err != nil {
			t.Fatal(err)
		}
	}

	// Ground top face is at y = -5 + 5 = 0; a resting circle of radius 1
	// should settle with its center near y = 1, never sinking meaningfully
	// below that.
	if b.T.Position.Y() < 1-0.1 {
		t.Errorf("expected circle to rest near y=1 without sinking through the ground, got y=%v", b.T.Position.Y())
	}
}

func TestWorldBodySleepsWhenAtRest(t *testing.T) {
	w := NewWorld(DefaultSettings())
	addGroundBox(t, w, geom.Vec2{0, -5}, 50, 5)
	b := addDynamicCircle(t, w, geom.Vec2{0, 1.01}, 1)

	asleep := false
	for i := 0; i < 600; i++ {
		if err := w.Step(1.0 / 60.0); err != nil {
			t.Fatal(err)
		}
		if b.IsAsleep() {
			asleep = true
			break
		}
	}
	if !asleep {
		t.Error("expected a resting body to eventually fall asleep")
	}
}

func TestWorldBoundsEmitsOutOfBounds(t *testing.T) {
	w := NewWorld(DefaultSettings())
	w.SetBounds(Bounds{Enabled: true, AABB: geom.AABB{Min: geom.Vec2{-10, -10}, Max: geom.Vec2{10, 10}}})
	b := addDynamicCircle(t, w, geom.Vec2{0, 50}, 1)
	b.GravityScale = 0
	b.V = geom.Vec2{0, 100}

	capture := &eventCapture{}
	w.Events.Subscribe(EventBodyOutOfBounds, capture.capture)

	for i := 0; i < 10; i++ {
		if err := w.Step(1.0 / 60.0); err != nil {
			t.Fatal(err)
		}
	}
	if !capture.hasType(EventBodyOutOfBounds) {
		t.Error("expected EventBodyOutOfBounds once the body leaves the bounds box")
	}
}

func TestWorldCCDPreventsTunneling(t *testing.T) {
	settings := DefaultSettings()
	settings.CCDEnabled = true
	w := NewWorld(settings)

	wall, err := shape.NewRectangle(0.2, 100)
	if err != nil {
		t.Fatal(err)
	}
	wallBody := NewBody(BodyStatic, geom.Transform{Position: geom.Vec2{0, 0}, Rot: geom.IdentRot()})
	wallBody.AddFixture(&Fixture{Shape: wall, Density: 1, Friction: 0.3, Filter: DefaultFilter()})
	w.AddBody(wallBody)

	bullet := NewBody(BodyDynamic, geom.Transform{Position: geom.Vec2{-10, 0}, Rot: geom.IdentRot()})
	bullet.AddFixture(newCircleFixture(t, 0.1, 1))
	bullet.SetBullet(true)
	bullet.V = geom.Vec2{500, 0}
	w.AddBody(bullet)

	for i := 0; i < 5; i++ {
		if err := w.Step(1.0 / 60.0); err != nil {
			t.Fatal(err)
		}
		if bullet.T.Position.X() > 0.3 {
			t.Fatalf("bullet tunneled through the wall: x = %v", bullet.T.Position.X())
		}
	}
}

func TestWorldCCDDisabledAllowsTunneling(t *testing.T) {
	settings := DefaultSettings()
	settings.CCDEnabled = false
	w := NewWorld(settings)

	wall, err := shape.NewRectangle(0.2, 100)
	if err != nil {
		t.Fatal(err)
	}
	wallBody := NewBody(BodyStatic, geom.Transform{Position: geom.Vec2{0, 0}, Rot: geom.IdentRot()})
	wallBody.AddFixture(&Fixture{Shape: wall, Density: 1, Friction: 0.3, Filter: DefaultFilter()})
	w.AddBody(wallBody)

	bullet := NewBody(BodyDynamic, geom.Transform{Position: geom.Vec2{-10, 0}, Rot: geom.IdentRot()})
	bullet.AddFixture(newCircleFixture(t, 0.1, 1))
	bullet.V = geom.Vec2{500, 0}
	w.AddBody(bullet)

	for i := 0; i < 5; i++ {
		if err := w.Step(1.0 / 60.0); err != nil {
			t.Fatal(err)
		}
	}
	if bullet.T.Position.X() < 0.3 {
		t.Error("expected the bullet to tunnel through the wall with CCD disabled")
	}
}

func TestWorldRevoluteMotorScenario(t *testing.T) {
	w := NewWorld(DefaultSettings())
	w.SetGravity(geom.Vec2{0, 0})

	anchor := NewBody(BodyStatic, geom.Identity())
	anchor.AddFixture(newCircleFixture(t, 0.1, 1))
	w.AddBody(anchor)

	arm := NewBody(BodyDynamic, geom.Transform{Position: geom.Vec2{2, 0}, Rot: geom.IdentRot()})
	arm.AddFixture(newCircleFixture(t, 0.5, 1))
	w.AddBody(arm)

	j := NewRevoluteJoint(anchor, arm, geom.Vec2{0, 0})
	j.EnableMotor = true
	j.MotorSpeed = math.Pi
	j.MaxMotorTorque = 100
	w.AddJoint(j)

	dt := 1.0 / 60.0
	steps := int(2.0 / dt)
	for i := 0; i < steps; i++ {
		if err := w.Step(dt); err != nil {
			t.Fatal(err)
		}
	}

	got := j.Angle()
	want := 2 * math.Pi
	if math.Abs(got-want) > 0.05 {
		t.Errorf("after 2s at pi rad/s motor speed, Angle() = %v, want ~%v", got, want)
	}
}

func TestWorldRaycastHitsNearestFixture(t *testing.T) {
	w := NewWorld(DefaultSettings())
	addDynamicCircle(t, w, geom.Vec2{5, 0}, 1)
	addDynamicCircle(t, w, geom.Vec2{10, 0}, 1)

	hit, ok := w.Raycast(geom.Vec2{0, 0}, geom.Vec2{20, 0})
	if !ok {
		t.Fatal("expected raycast to hit a fixture")
	}
	if math.Abs(hit.Point.X()-4) > 0.05 {
		t.Errorf("expected the ray to hit the near circle's surface near x=4, got %v", hit.Point.X())
	}
}

func TestWorldRaycastMisses(t *testing.T) {
	w := NewWorld(DefaultSettings())
	addDynamicCircle(t, w, geom.Vec2{0, 100}, 1)

	_, ok := w.Raycast(geom.Vec2{0, 0}, geom.Vec2{20, 0})
	if ok {
		t.Error("expected raycast to miss a fixture far off axis")
	}
}

func TestWorldQueryAABB(t *testing.T) {
	w := NewWorld(DefaultSettings())
	addDynamicCircle(t, w, geom.Vec2{0, 0}, 1)
	addDynamicCircle(t, w, geom.Vec2{100, 0}, 1)

	hits := w.QueryAABB(geom.AABB{Min: geom.Vec2{-5, -5}, Max: geom.Vec2{5, 5}})
	if len(hits) != 1 {
		t.Errorf("expected QueryAABB to find exactly 1 fixture, got %d", len(hits))
	}
}

func TestWorldSnapshotReflectsBodies(t *testing.T) {
	w := NewWorld(DefaultSettings())
	addDynamicCircle(t, w, geom.Vec2{0, 0}, 1)

	snap := w.Snapshot()
	if len(snap.Bodies) != 1 {
		t.Fatalf("expected snapshot to contain 1 body, got %d", len(snap.Bodies))
	}
	if len(snap.Bodies[0].Shapes) != 1 {
		t.Errorf("expected snapshot body to carry 1 shape, got %d", len(snap.Bodies[0].Shapes))
	}
}
