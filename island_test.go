package feather2d

import (
	"testing"

	"github.com/akmonengine/feather2d/geom"
)

func TestBuildIslandsSeparatesDisjointBodies(t *testing.T) {
	a := newDynamicCircleBody(t, geom.Vec2{0, 0}, 1, 1)
	b := newDynamicCircleBody(t, geom.Vec2{100, 0}, 1, 1)

	islands := buildIslands([]*Body{a, b})
	if len(islands) != 2 {
		t.Fatalf("expected 2 disjoint islands, got %d", len(islands))
	}
}

func TestBuildIslandsGroupsContactConnectedBodies(t *testing.T) {
	events := NewEvents()
	mgr := newContactManager(&events)

	a := newDynamicCircleBody(t, geom.Vec2{0, 0}, 1, 1)
	b := newDynamicCircleBody(t, geom.Vec2{1, 0}, 1, 1)
	a.Fixtures[0].Handle = 1
	b.Fixtures[0].Handle = 2
	mgr.Update([]fixturePair{{a: a.Fixtures[0], b: b.Fixtures[0]}})

	islands := buildIslands([]*Body{a, b})
	if len(islands) != 1 {
		t.Fatalf("expected 1 island for touching bodies, got %d", len(islands))
	}
	if len(islands[0].bodies) != 2 {
		t.Errorf("expected island to contain both bodies, got %d", len(islands[0].bodies))
	}
	if len(islands[0].contacts) != 1 {
		t.Errorf("expected island to carry the 1 touching contact, got %d", len(islands[0].contacts))
	}
}

func TestBuildIslandsStaticBodyDoesNotBridgeIslands(t *testing.T) {
	events := NewEvents()
	mgr := newContactManager(&events)

	ground := newTestBody(t, BodyStatic, geom.Vec2{0, 0}, 50)
	ground.Fixtures[0].Handle = 100

	left := newDynamicCircleBody(t, geom.Vec2{-50, 0}, 1, 1)
	right := newDynamicCircleBody(t, geom.Vec2{50, 0}, 1, 1)
	left.Fixtures[0].Handle = 1
	right.Fixtures[0].Handle = 2

	mgr.Update([]fixturePair{
		{a: left.Fixtures[0], b: ground.Fixtures[0]},
		{a: right.Fixtures[0], b: ground.Fixtures[0]},
	})

	islands := buildIslands([]*Body{ground, left, right})
	if len(islands) != 2 {
		t.Fatalf("expected the static ground not to bridge left and right into one island, got %d islands", len(islands))
	}
}

func TestBuildIslandsSkipsAsleepAndInactiveBodies(t *testing.T) {
	a := newDynamicCircleBody(t, geom.Vec2{0, 0}, 1, 1)
	a.sleep()
	b := newDynamicCircleBody(t, geom.Vec2{10, 0}, 1, 1)
	b.state &^= stateActive

	islands := buildIslands([]*Body{a, b})
	if len(islands) != 0 {
		t.Errorf("expected asleep/inactive bodies to form no islands, got %d", len(islands))
	}
}
