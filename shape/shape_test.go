package shape

import (
	"math"
	"testing"

	"github.com/akmonengine/feather2d/geom"
)

func TestNewCircleRejectsNonPositiveRadius(t *testing.T) {
	if _, err := NewCircle(geom.Vec2{0, 0}, 0); err == nil {
		t.Error("expected error for zero radius")
	}
	if _, err := NewCircle(geom.Vec2{0, 0}, -1); err == nil {
		t.Error("expected error for negative radius")
	}
}

func TestCircleSupportAndFarthestPoint(t *testing.T) {
	c, err := NewCircle(geom.Vec2{0, 0}, 2)
	if err != nil {
		t.Fatal(err)
	}
	tf := geom.Transform{Position: geom.Vec2{10, 0}, Rot: geom.IdentRot()}
	p := c.FarthestPoint(geom.Vec2{1, 0}, tf)
	want := geom.Vec2{12, 0}
	if !geom.NearlyEqual(p, want, 1e-9) {
		t.Errorf("FarthestPoint = %v, want %v", p, want)
	}
}

func TestCircleComputeMass(t *testing.T) {
	c, _ := NewCircle(geom.Vec2{0, 0}, 1)
	m := c.ComputeMass(1)
	wantMass := math.Pi
	if math.Abs(m.Mass-wantMass) > 1e-9 {
		t.Errorf("Mass = %v, want %v", m.Mass, wantMass)
	}
	wantInertia := math.Pi * 0.5
	if math.Abs(m.Inertia-wantInertia) > 1e-9 {
		t.Errorf("Inertia = %v, want %v", m.Inertia, wantInertia)
	}
}

func TestNewPolygonRejectsDegenerate(t *testing.T) {
	if _, err := NewPolygon([]geom.Vec2{{0, 0}, {1, 0}}); err == nil {
		t.Error("expected error for < 3 vertices")
	}
	if _, err := NewPolygon([]geom.Vec2{{0, 0}, {1, 0}, {2, 0}}); err == nil {
		t.Error("expected error for collinear (zero-area) polygon")
	}
}

func TestNewPolygonNormalizesWinding(t *testing.T) {
	cw := []geom.Vec2{{0, 0}, {0, 1}, {1, 1}, {1, 0}}
	p, err := NewPolygon(cw)
	if err != nil {
		t.Fatal(err)
	}
	if signedArea(p.Vertices) <= 0 {
		t.Error("expected NewPolygon to normalize to CCW winding")
	}
}

func TestNewRectangleMassAndAABB(t *testing.T) {
	r, err := NewRectangle(4, 2)
	if err != nil {
		t.Fatal(err)
	}
	m := r.ComputeMass(1)
	if math.Abs(m.Mass-8) > 1e-9 {
		t.Errorf("rectangle mass = %v, want 8", m.Mass)
	}
	if !geom.NearlyEqual(m.Center, geom.Vec2{0, 0}, 1e-9) {
		t.Errorf("rectangle centroid = %v, want origin", m.Center)
	}

	aabb := r.ComputeAABB(geom.Identity())
	if !geom.NearlyEqual(aabb.Min, geom.Vec2{-2, -1}, 1e-9) {
		t.Errorf("AABB.Min = %v, want (-2,-1)", aabb.Min)
	}
}

func TestPolygonFarthestFeatureIsEdgeAtCorner(t *testing.T) {
	r, _ := NewRectangle(2, 2)
	feature := r.FarthestFeature(geom.Vec2{1, 1}, geom.Identity())
	if feature.Kind != FeatureEdge {
		t.Errorf("expected FeatureEdge at a corner direction, got %v", feature.Kind)
	}
}

func TestPolygonProjectMatchesWorldExtent(t *testing.T) {
	r, _ := NewRectangle(2, 2)
	tf := geom.Transform{Position: geom.Vec2{5, 0}, Rot: geom.IdentRot()}
	interval := r.Project(geom.Vec2{1, 0}, tf)
	if math.Abs(interval.Min-4) > 1e-9 || math.Abs(interval.Max-6) > 1e-9 {
		t.Errorf("Project = %+v, want [4,6]", interval)
	}
}

func TestNewSegmentRejectsDegenerate(t *testing.T) {
	if _, err := NewSegment(geom.Vec2{0, 0}, geom.Vec2{0, 0}); err == nil {
		t.Error("expected error for coincident endpoints")
	}
}

func TestSegmentSupport(t *testing.T) {
	s, err := NewSegment(geom.Vec2{-1, 0}, geom.Vec2{1, 0})
	if err != nil {
		t.Fatal(err)
	}
	p := s.Support(geom.Vec2{1, 0})
	if !geom.NearlyEqual(p, geom.Vec2{1, 0}, 1e-9) {
		t.Errorf("Support((1,0)) = %v, want (1,0)", p)
	}
}

func TestMassCombineParallelAxis(t *testing.T) {
	a := Mass{Center: geom.Vec2{-1, 0}, Mass: 1, Inertia: 0}
	b := Mass{Center: geom.Vec2{1, 0}, Mass: 1, Inertia: 0}
	combined := Combine([]Mass{a, b})
	if math.Abs(combined.Mass-2) > 1e-9 {
		t.Errorf("combined mass = %v, want 2", combined.Mass)
	}
	if !geom.NearlyEqual(combined.Center, geom.Vec2{0, 0}, 1e-9) {
		t.Errorf("combined center = %v, want origin", combined.Center)
	}
	// Two unit masses each 1 unit from the combined centroid contribute
	// m*d^2 = 1 each via the parallel-axis theorem.
	if math.Abs(combined.Inertia-2) > 1e-9 {
		t.Errorf("combined inertia = %v, want 2", combined.Inertia)
	}
}

func TestMassInvMassInfinite(t *testing.T) {
	m := NewInfiniteMass(geom.Vec2{0, 0})
	if m.InvMass() != 0 {
		t.Errorf("InvMass() of infinite mass = %v, want 0", m.InvMass())
	}
	if m.InvInertia() != 0 {
		t.Errorf("InvInertia() of infinite mass = %v, want 0", m.InvInertia())
	}
}
